package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/campusdesk/erp-backend/internal/middleware"
	"github.com/campusdesk/erp-backend/internal/service"
	ws "github.com/campusdesk/erp-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live notifications over WebSocket.
type WSHandler struct {
	notificationService *service.NotificationService
	log                 zerolog.Logger
	upgrader            websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(notificationService *service.NotificationService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		notificationService: notificationService,
		log:                 log.With().Str("component", "ws_handler").Logger(),
		upgrader:            buildUpgrader(allowedOrigins),
	}
}

// NotificationStream godoc
// WS /ws/v1/notifications?token=...
// Pushes every notification addressed to the caller as it is dispatched.
func (h *WSHandler) NotificationStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	accountID := claims.AccountID

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wsLog := h.log.With().Int("account_id", accountID).Logger()

	sub := h.notificationService.Subscribe(ctx, accountID)
	defer sub.Close()
	// Wait for the subscription so nothing published after "ready" is lost.
	if _, err := sub.Receive(ctx); err != nil {
		wsLog.Error().Err(err).Msg("Subscribe failed")
		ws.WriteError(conn, "notifications unavailable")
		return
	}

	unread, err := h.notificationService.UnreadCount(ctx, accountID)
	if err != nil {
		wsLog.Warn().Err(err).Msg("Unread count failed")
	}
	if err := ws.WriteTyped(conn, ws.ReadyResponse{Event: ws.EventReady, Unread: unread}); err != nil {
		return
	}

	wsLog.Info().Msg("Notification stream opened")

	// gorilla connections allow one concurrent writer; the reader hands its
	// replies to the writer goroutine.
	replies := make(chan interface{}, 8)
	done := make(chan struct{})
	go h.writeLoop(ctx, conn, sub.Channel(), replies, done, wsLog)

	ws.Prepare(conn)
	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		var reply interface{}
		switch msg.Action {
		case ws.ActionPing:
			reply = ws.PongResponse{Event: ws.EventPong}
		case ws.ActionMarkRead:
			reply = h.markRead(ctx, accountID, msg.ID, wsLog)
		default:
			reply = ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(msg.Action)}
		}

		select {
		case replies <- reply:
		case <-done:
			return
		}
	}

	cancel()
	<-done
}

func (h *WSHandler) markRead(ctx context.Context, accountID int, id int64, log zerolog.Logger) interface{} {
	if id < 1 {
		return ws.ErrorResponse{Event: ws.EventError, Error: "id is required"}
	}
	found, err := h.notificationService.MarkRead(ctx, accountID, id)
	if err != nil {
		log.Error().Err(err).Int64("notification_id", id).Msg("Mark read failed")
		return ws.ErrorResponse{Event: ws.EventError, Error: "mark read failed"}
	}
	if !found {
		return ws.ErrorResponse{Event: ws.EventError, Error: "notification not found"}
	}
	return ws.ReadResponse{Event: ws.EventRead, ID: id}
}

// writeLoop owns every write on conn until ctx ends or a write fails.
func (h *WSHandler) writeLoop(
	ctx context.Context,
	conn *websocket.Conn,
	published <-chan *redis.Message,
	replies <-chan interface{},
	done chan<- struct{},
	log zerolog.Logger,
) {
	defer close(done)

	ticker := time.NewTicker(ws.PingPeriod)
	defer ticker.Stop()

	for {
		var err error
		select {
		case <-ctx.Done():
			return
		case m, ok := <-published:
			if !ok {
				return
			}
			err = ws.WriteTyped(conn, ws.NotificationResponse{
				Event:        ws.EventNotification,
				Notification: json.RawMessage(m.Payload),
			})
		case reply := <-replies:
			err = ws.WriteTyped(conn, reply)
		case <-ticker.C:
			err = ws.WritePing(conn)
		}
		if err != nil {
			log.Debug().Err(err).Msg("Write failed, closing stream")
			conn.Close()
			return
		}
	}
}
