package controller

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"go-parley/internal/auth"
	"go-parley/internal/infrastructure/realtime"
)

// ChatSocketController handles the websocket endpoint for the live channel.
// Authentication happens in middleware before the upgrade; unauthenticated
// connections never reach this handler. Inbound traffic is limited to room
// subscription frames — messages travel over the HTTP API, events travel
// back over the socket.
type ChatSocketController struct {
	registry *realtime.Registry
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewChatSocketController(registry *realtime.Registry, allowedOrigins []string, logger *slog.Logger) *ChatSocketController {
	return &ChatSocketController{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

// originChecker accepts same-origin requests, requests without an Origin
// header (non-browser clients), and origins on the configured allow-list.
// Everything else is refused before the upgrade.
func originChecker(allowed []string) func(*http.Request) bool {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		allowedSet[strings.ToLower(strings.TrimSpace(o))] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if _, ok := allowedSet[strings.ToLower(origin)]; ok {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}

type inboundFrame struct {
	Type      string `json:"type"`
	ListingID string `json:"listing_id,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type ackFrame struct {
	Type      string `json:"type"`
	ListingID string `json:"listing_id,omitempty"`
}

// Inbound frames carry only a type and a listing id, so a small read limit
// keeps misbehaving clients cheap.
const (
	readLimit       = 4 << 10
	defaultReadWait = 60 * time.Second
)

// Handle upgrades the connection and processes join/leave frames until the
// client disconnects. Disconnection drops all of the session's room
// memberships; clients re-join after reconnect.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.UserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just log and return.
			ctl.logger.Warn("websocket upgrade failed", "err", err)
			return
		}

		conn := realtime.NewConnection(userID, ws)
		conn.Start()
		ctl.registry.Attach(conn)
		defer func() {
			ctl.registry.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(readLimit)
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadWait))
		})

		ctl.reply(conn, ackFrame{Type: "connected"})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				ctl.replyError(conn, "read_error", err.Error())
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Type {
			case "join":
				ctl.handleJoin(conn, frame)
			case "leave":
				ctl.handleLeave(conn, frame)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

func (ctl *ChatSocketController) handleJoin(conn *realtime.Connection, frame inboundFrame) {
	if frame.ListingID == "" {
		ctl.replyError(conn, "bad_request", "listing_id is required")
		return
	}
	ctl.registry.Join(frame.ListingID, conn)
	ctl.reply(conn, ackFrame{Type: "joined", ListingID: frame.ListingID})
}

func (ctl *ChatSocketController) handleLeave(conn *realtime.Connection, frame inboundFrame) {
	if frame.ListingID == "" {
		ctl.replyError(conn, "bad_request", "listing_id is required")
		return
	}
	ctl.registry.Leave(frame.ListingID, conn)
	ctl.reply(conn, ackFrame{Type: "left", ListingID: frame.ListingID})
}

func (ctl *ChatSocketController) reply(conn *realtime.Connection, frame any) {
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *ChatSocketController) replyError(conn *realtime.Connection, code string, message string) {
	ctl.reply(conn, errorFrame{Type: "error", Code: code, Error: message})
}
