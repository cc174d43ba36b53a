package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Yuji-2251/expert-assistant/utils/log"
)

// Client is one connected chat socket bound to a session.
type Client struct {
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closed    bool
}

// AskFrame is what the browser sends over the socket.
type AskFrame struct {
	Type    string `json:"type"`
	Persona string `json:"persona"`
	Message string `json:"message"`
}

// AnswerFrame is what the server sends back.
type AnswerFrame struct {
	Type    string `json:"type"`
	Persona string `json:"persona,omitempty"`
	Answer  string `json:"answer,omitempty"`
	Error   string `json:"error,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 64 * 1024
)

// NewClient wraps a connection for the given session.
func NewClient(conn *websocket.Conn, sessionID string) *Client {
	ctx := context.WithValue(context.Background(), "session_id", sessionID)
	ctx, cancel := context.WithCancel(ctx)
	return &Client{
		conn:      conn,
		send:      make(chan []byte, 64),
		sessionID: sessionID,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Run starts the pump goroutines. onAsk is invoked for every inbound frame;
// it runs on the read goroutine, so one socket handles one question at a time.
func (c *Client) Run(onAsk func(frame AskFrame)) {
	c.conn.SetCloseHandler(func(code int, text string) error {
		log.WithCtx(c.ctx).Debug("connection closed", zap.Int("code", code), zap.String("text", text))
		c.Close()
		return nil
	})
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go c.ping()
	go c.readPump(onAsk)
	go c.writePump()
}

// Close shuts the connection down once; safe to call repeatedly.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	if c.conn != nil {
		c.conn.Close()
	}
	close(c.send)
}

func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Client) Context() context.Context {
	return c.ctx
}

func (c *Client) SessionID() string {
	return c.sessionID
}

func (c *Client) ping() {
	for {
		select {
		case <-time.After(pingPeriod):
			if c.IsClosed() {
				return
			}
			if err := c.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeWait)); err != nil {
				log.WithCtx(c.ctx).Debug("ping failed", zap.Error(err))
				c.Close()
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) readPump(onAsk func(frame AskFrame)) {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))

	for {
		if c.IsClosed() {
			return
		}

		var frame AskFrame
		if err := c.conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithCtx(c.ctx).Error("websocket read error", zap.Error(err))
			}
			return
		}
		onAsk(frame)
	}
}

func (c *Client) writePump() {
	defer c.Close()

	for {
		select {
		case message, ok := <-c.send:
			if c.IsClosed() {
				return
			}

			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.WithCtx(c.ctx).Error("websocket write error", zap.Error(err))
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// SendMessage queues a message for the client without blocking the caller.
// The read lock pins the channel open so a concurrent Close cannot close it
// between the closed check and the send.
func (c *Client) SendMessage(message []byte) error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return websocket.ErrCloseSent
	}

	select {
	case c.send <- message:
		c.mu.RUnlock()
		return nil
	case <-c.ctx.Done():
		c.mu.RUnlock()
		return c.ctx.Err()
	default:
	}
	c.mu.RUnlock()

	// Slow consumer, drop the connection.
	c.Close()
	return websocket.ErrCloseSent
}
