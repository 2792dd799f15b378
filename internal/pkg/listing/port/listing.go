package port

import (
	"context"
	"errors"
)

// Listing is the slice of the catalog this subsystem needs: who owns the
// listing a conversation is about, plus summary fields for display.
type Listing struct {
	ID           string
	OwnerID      string
	Title        string
	PreviewImage string
}

// ErrListingNotFound is returned when the listing id resolves to nothing.
var ErrListingNotFound = errors.New("listing: not found")

// Directory resolves listing ids against the catalog, which is owned by
// another service. Implementations must treat the catalog as read-only.
type Directory interface {
	Lookup(ctx context.Context, listingID string) (*Listing, error)
}
