package websocket

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Individual client connection handler.

const ( // ping pong (2-way heartbeat) to keep connection alive
	WriteWait      = 10 * time.Second    // max time to write a message to the peer
	PongWait       = 60 * time.Second    // max time to wait for pong from peer => no pong = no connection
	PingPeriod     = (PongWait * 9) / 10 // send ping before pong wait expires, 10% slack for network jitter
	MaxMessageSize = 512                 // maximum message size allowed from peer

	handleTimeout = 5 * time.Second // per-message budget for store calls
)

// NotificationStore is the slice of the notification service a connection
// needs for mark_as_read and get_unread_count handling.
type NotificationStore interface {
	MarkRead(ctx context.Context, userID, notificationID string) (bool, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

type Client struct {
	ID      string // unique connection ID
	UserID  string // user ID from auth token (JWT claims)
	IsOwner bool   // marketplace owner flag from claims

	conn   *websocket.Conn
	send   chan []byte // buffered channel for outbound messages
	hub    *Hub
	store  NotificationStore
	logger *slog.Logger

	mu     sync.Mutex // guards closed; a publish racing a close must not hit a closed channel
	closed bool
}

// constructor new client
func NewClient(id, userID string, isOwner bool, conn *websocket.Conn, hub *Hub, store NotificationStore, logger *slog.Logger) *Client {
	return &Client{
		ID:      id,
		UserID:  userID,
		IsOwner: isOwner,
		conn:    conn,
		send:    make(chan []byte, 64),
		hub:     hub,
		store:   store,
		logger:  logger,
	}
}

// Enqueue hands an outbound message to the write pump without blocking;
// a client that cannot keep up loses events rather than stalling the hub.
func (c *Client) Enqueue(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.Warn("client send buffer full, dropping event", "client_id", c.ID, "user_id", c.UserID)
	}
}

// ReadPump reads client messages until the connection dies, then deregisters.
// One bad message never tears the connection down; it is logged and skipped.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(PongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("unexpected close", "client_id", c.ID, "error", err)
			}
			return
		}

		msg, err := ClientMessageFromJSON(data)
		if err != nil {
			c.logger.Warn("malformed client message", "client_id", c.ID, "error", err)
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) handleMessage(msg *ClientMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	switch msg.Type {
	case TypePing:
		c.sendEvent(NewPong())

	case TypeMarkAsRead:
		if msg.NotificationID == "" {
			c.logger.Warn("mark_as_read without notification_id", "client_id", c.ID)
			return
		}
		updated, err := c.store.MarkRead(ctx, c.UserID, msg.NotificationID)
		if err != nil {
			c.logger.Error("mark_as_read failed", "client_id", c.ID, "notification_id", msg.NotificationID, "error", err)
			return
		}
		if !updated {
			c.logger.Info("mark_as_read ignored", "client_id", c.ID, "notification_id", msg.NotificationID)
		}

	case TypeGetUnreadCount:
		count, err := c.store.UnreadCount(ctx, c.UserID)
		if err != nil {
			c.logger.Error("get_unread_count failed", "client_id", c.ID, "error", err)
			return
		}
		c.sendEvent(NewUnreadCount(count))

	default:
		// unknown message types are ignored, no error reply
		c.logger.Warn("unknown message type", "client_id", c.ID, "type", msg.Type)
	}
}

func (c *Client) sendEvent(event *Event) {
	data, err := event.ToJSON()
	if err != nil {
		return
	}
	c.Enqueue(data)
}

// WritePump drains the send channel to the peer and keeps the heartbeat going
func (c *Client) WritePump() {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close shuts the outbound channel; the write pump then closes the
// connection. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}
