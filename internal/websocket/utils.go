package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	// WriteWait bounds a single write.
	WriteWait = 10 * time.Second
	// PongWait is how long the peer may stay silent.
	PongWait = 60 * time.Second
	// PingPeriod must be shorter than PongWait.
	PingPeriod = PongWait * 9 / 10

	maxMessageSize = 4096
)

// Prepare sets the read limit and extends the read deadline on every pong.
func Prepare(conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(PongWait))
	})
}

// WriteTyped sends a strongly-typed response payload over the WebSocket.
func WriteTyped(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(WriteWait))
	return conn.WriteJSON(v)
}

// WriteError sends a typed ErrorResponse over the WebSocket.
func WriteError(conn *websocket.Conn, errMsg string) error {
	return WriteTyped(conn, ErrorResponse{
		Event: EventError,
		Error: errMsg,
	})
}

// WritePing sends a control ping.
func WritePing(conn *websocket.Conn) error {
	return conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(WriteWait))
}

// ReadJSON reads and decodes a message into the provided structure.
// Any client message counts as liveness.
func ReadJSON(conn *websocket.Conn, v interface{}) error {
	if err := conn.ReadJSON(v); err != nil {
		return err
	}
	return conn.SetReadDeadline(time.Now().Add(PongWait))
}
