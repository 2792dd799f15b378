package http

import (
	cacheport "go-parley/internal/infrastructure/cache/port"
	qport "go-parley/internal/infrastructure/queue/port"
	"go-parley/internal/infrastructure/realtime"
	"go-parley/internal/pkg/chat/application/usecase"
	"go-parley/internal/pkg/chat/presentation/controller"
	listing "go-parley/internal/pkg/listing/port"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"log/slog"
)

// Deps bundles the shared infrastructure the chat endpoints need.
type Deps struct {
	Pool        *pgxpool.Pool
	Cache       cacheport.Cache
	Queue       qport.Client
	Registry    *realtime.Registry
	Broadcaster usecase.Broadcaster
	Listings    listing.Directory
	Logger      *slog.Logger

	// AllowedOrigins gates cross-origin websocket upgrades.
	AllowedOrigins []string
}

// RegisterRoutes registers chat-related HTTP endpoints under the given router group
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, d Deps) {
	getOrCreateCtl := controller.NewGetOrCreateConversationController(d.Pool, d.Listings, d.Logger)
	sendMsgCtl := controller.NewSendMessageController(d.Pool, d.Listings, d.Broadcaster, d.Queue, d.Logger)
	fetchCtl := controller.NewFetchConversationController(d.Pool, d.Logger)
	editMsgCtl := controller.NewEditMessageController(d.Pool, d.Broadcaster, d.Logger)
	deleteMsgCtl := controller.NewDeleteMessageController(d.Pool, d.Broadcaster, d.Logger)
	clearCtl := controller.NewClearConversationController(d.Pool, d.Broadcaster, d.Logger)
	markReadCtl := controller.NewMarkReadController(d.Pool, d.Cache, d.Logger)
	listCtl := controller.NewListConversationsController(d.Pool, d.Logger)
	unreadCtl := controller.NewUnreadCountsController(d.Pool, d.Cache, d.Logger)
	socketCtl := controller.NewChatSocketController(d.Registry, d.AllowedOrigins, d.Logger)

	// GET /api/v1/conversations/by-listing/:listingId -> open or reuse the conversation for a listing
	g.GET("/conversations/by-listing/:listingId", getOrCreateCtl.Handle())

	// POST /api/v1/conversations/by-listing/:listingId -> send a message into a listing's conversation
	g.POST("/conversations/by-listing/:listingId", sendMsgCtl.Handle())

	// GET /api/v1/conversations/mine -> list the caller's conversations, newest activity first
	g.GET("/conversations/mine", listCtl.Handle())

	// GET /api/v1/conversations/unread -> unread counters keyed by conversation id
	g.GET("/conversations/unread", unreadCtl.Handle())

	// GET /api/v1/conversations/ws -> websocket endpoint for realtime delivery
	g.GET("/conversations/ws", socketCtl.Handle())

	// GET /api/v1/conversations/:id -> fetch a conversation with its messages
	g.GET("/conversations/:id", fetchCtl.Handle())

	// PUT /api/v1/conversations/:id/read -> mark the counterpart's messages as read
	g.PUT("/conversations/:id/read", markReadCtl.Handle())

	// PUT /api/v1/conversations/:id/messages/:msgId -> edit an own message
	g.PUT("/conversations/:id/messages/:msgId", editMsgCtl.Handle())

	// DELETE /api/v1/conversations/:id/messages/:msgId -> delete an own message
	g.DELETE("/conversations/:id/messages/:msgId", deleteMsgCtl.Handle())

	// DELETE /api/v1/conversations/:id/messages -> clear the whole conversation
	g.DELETE("/conversations/:id/messages", clearCtl.Handle())
}
