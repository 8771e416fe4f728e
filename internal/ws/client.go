package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ignatzorin/gigflow-backend/internal/goroutine"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBufferSize = 32
)

// Client представляет одно подключение WebSocket.
type Client struct {
	conn      *websocket.Conn
	hub       *Hub
	userID    uuid.UUID
	send      chan []byte
	log       logrus.FieldLogger
	closeOnce sync.Once
}

// NewClient создаёт нового клиента.
func NewClient(conn *websocket.Conn, hub *Hub, userID uuid.UUID) *Client {
	return &Client{
		conn:   conn,
		hub:    hub,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
		log:    hub.log.WithField("user_id", userID),
	}
}

func (c *Client) UserID() uuid.UUID {
	return c.userID
}

// Run регистрирует клиента в хабе и обслуживает соединение до его закрытия.
func (c *Client) Run(ctx context.Context) {
	if err := c.hub.Register(c); err != nil {
		c.log.WithError(err).Debug("ws: хаб недоступен, закрываем соединение")
		_ = c.conn.Close()
		return
	}

	stop := context.AfterFunc(ctx, c.Close)
	defer stop()

	go c.writePumpSafe()
	c.readPump()
}

// writePumpSafe запускает writePump с обработкой panic
func (c *Client) writePumpSafe() {
	defer c.Close()
	defer goroutine.NewRecoveryHandler(c.log).Recover("ws writePump")
	c.writePump()
}

// Close закрывает соединение. Повторные вызовы ничего не делают.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	})
}

func (c *Client) readPump() {
	defer c.Close()
	defer goroutine.NewRecoveryHandler(c.log).Recover("ws readPump")

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.WithError(err).Debug("ws: соединение прервано")
			}
			return
		}
		c.handleFrame(raw)
	}
}

// handleFrame обрабатывает join-gig / leave-gig. Некорректные кадры пропускаются.
func (c *Client) handleFrame(raw []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		c.log.WithError(err).Debug("ws: некорректный кадр")
		return
	}

	var rawID string
	if err := json.Unmarshal(frame.Data, &rawID); err != nil {
		c.log.WithField("type", frame.Type).Debug("ws: в кадре нет id заказа")
		return
	}
	gigID, err := uuid.Parse(rawID)
	if err != nil {
		c.log.WithField("type", frame.Type).Debug("ws: некорректный id заказа")
		return
	}

	switch frame.Type {
	case frameJoinGig:
		c.hub.Join(c, GigTopic(gigID))
	case frameLeaveGig:
		c.hub.Leave(c, GigTopic(gigID))
	default:
		c.log.WithField("type", frame.Type).Debug("ws: неизвестный тип кадра")
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
