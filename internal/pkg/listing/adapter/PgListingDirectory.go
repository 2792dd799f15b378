package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-parley/internal/pkg/listing/port"
)

// PgListingDirectory reads the catalog table maintained by the listing
// service. This subsystem never writes to it.
type PgListingDirectory struct {
	pool *pgxpool.Pool
}

func NewPgListingDirectory(pool *pgxpool.Pool) *PgListingDirectory {
	return &PgListingDirectory{pool: pool}
}

var _ port.Directory = (*PgListingDirectory)(nil)

func (d *PgListingDirectory) Lookup(ctx context.Context, listingID string) (*port.Listing, error) {
	var l port.Listing
	err := d.pool.QueryRow(ctx, `
		SELECT id::text, owner_id::text, title, COALESCE(preview_image, '')
		FROM catalog.listing
		WHERE id = $1::uuid
	`, listingID).Scan(&l.ID, &l.OwnerID, &l.Title, &l.PreviewImage)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("listing lookup: %w", err)
	}
	return &l, nil
}
