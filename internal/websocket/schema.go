package websocket

import "encoding/json"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing     Action = "ping"
	ActionMarkRead Action = "mark_read"
)

// RequestEnvelope is every message a client sends. ID is only read for
// mark_read.
type RequestEnvelope struct {
	Action Action `json:"action"`
	ID     int64  `json:"id,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventReady        Event = "ready"
	EventNotification Event = "notification"
	EventRead         Event = "read"
	EventPong         Event = "pong"
	EventError        Event = "error"
)

// ReadyResponse is sent once after the upgrade.
type ReadyResponse struct {
	Event  Event `json:"event"`
	Unread int   `json:"unread"`
}

// NotificationResponse carries one notification as published on the
// account's channel.
type NotificationResponse struct {
	Event        Event           `json:"event"`
	Notification json.RawMessage `json:"notification"`
}

// ReadResponse confirms a mark_read action.
type ReadResponse struct {
	Event Event `json:"event"`
	ID    int64 `json:"id"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
