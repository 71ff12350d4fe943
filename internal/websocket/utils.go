package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds one write; the stream carries a tick every second,
	// so a connection that cannot drain this fast is dead.
	writeWait = 10 * time.Second

	// readWait is generous: a candidate reading a long prompt sends
	// nothing for minutes while the server keeps pushing ticks.
	readWait = 5 * time.Minute
)

// WriteTyped sends one typed payload (session event or action reply).
func WriteTyped(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

// ReadJSON reads and decodes the next client action into v.
func ReadJSON(conn *websocket.Conn, v interface{}) error {
	conn.SetReadDeadline(time.Now().Add(readWait))
	return conn.ReadJSON(v)
}
