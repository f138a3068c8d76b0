package userws

import (
	"encoding/json"
	"errors"
	"time"

	"portal/internal/domain"
	"portal/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 10 * time.Second
	idleTimeout  = 60 * time.Second
	pingEvery    = idleTimeout * 9 / 10
	maxFrameSize = 4096
	sendBuffer   = 64
)

// Client is one browser tab listening for its own banner.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	toasts  ToastService
	channel string
	log     logger.Logger

	ID string
}

// NewClient binds a connection to banner; channel is the only channel the
// browser may subscribe to.
func NewClient(hub *Hub, conn *websocket.Conn, banner ToastService, channel string, log logger.Logger, id string) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		toasts:  banner,
		channel: channel,
		log:     log.With("client_id", id),
		ID:      id,
	}
}

type dismissPayload struct {
	Reason domain.DismissReason `json:"reason"`
}

func (c *Client) extendDeadline(string) error {
	return c.conn.SetReadDeadline(time.Now().Add(idleTimeout))
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.extendDeadline("")
	c.conn.SetPongHandler(c.extendDeadline)

	for {
		var msg domain.WsClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				c.log.Warn("ws: malformed client frame", "error", err)
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("ws: client went away", "error", err)
			}
			return
		}

		if !c.handle(msg) {
			return
		}
	}
}

// handle applies one client frame. It reports false once the hub is gone.
func (c *Client) handle(msg domain.WsClientMessage) bool {
	switch msg.Type {
	case domain.WsClientSubscribe, domain.WsClientUnsubscribe:
		if msg.Channel != c.channel {
			c.log.Warn("ws: channel not allowed", "channel", msg.Channel)
			return true
		}
		if msg.Type == domain.WsClientSubscribe {
			return c.hub.Subscribe(c, msg.Channel)
		}
		return c.hub.Unsubscribe(c, msg.Channel)
	case domain.WsClientDismiss:
		p := dismissPayload{Reason: domain.DismissClose}
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				c.log.Warn("ws: bad dismiss payload", "error", err)
				return true
			}
		}
		if p.Reason != domain.DismissClose && p.Reason != domain.DismissClickaway {
			c.log.Warn("ws: dismiss reason not allowed", "reason", p.Reason)
			return true
		}
		c.toasts.Dismiss(p.Reason)
	default:
		c.log.Warn("ws: unknown client message type", "type", msg.Type)
	}
	return true
}

func (c *Client) write(kind int, data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(kind, data)
}

func (c *Client) writePump() {
	ping := time.NewTicker(pingEvery)
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, open := <-c.send:
			if !open {
				_ = c.write(websocket.CloseMessage, nil)
				return
			}
			if err := c.write(websocket.TextMessage, frame); err != nil {
				c.log.Debug("ws: write failed", "error", err)
				return
			}

		case <-ping.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
