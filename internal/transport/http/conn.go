package http

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"live-quiz-service/internal/app"
)

// wsConn adapts a websocket to app.Conn. Sends are queued on a buffered
// channel drained by a single writer goroutine, so Send never blocks.
type wsConn struct {
	id   string
	ws   *websocket.Conn
	send chan any

	mu     sync.Mutex
	closed bool
}

func newWSConn(ws *websocket.Conn, buffer int) *wsConn {
	return &wsConn{
		id:   uuid.NewString(),
		ws:   ws,
		send: make(chan any, buffer),
	}
}

func (c *wsConn) ID() string { return c.id }

func (c *wsConn) Send(msg any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return app.ErrConnClosed
	}
	select {
	case c.send <- msg:
		return nil
	default:
		return app.ErrSendBufferFull
	}
}

// Close stops accepting messages. Queued messages are still flushed before
// the writer sends a close frame.
func (c *wsConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.send)
	return nil
}

func (c *wsConn) writePump(pingInterval, writeTimeout time.Duration, log logrus.FieldLogger) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.ws.WriteJSON(msg); err != nil {
				log.WithError(err).Warn("ws write error")
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
