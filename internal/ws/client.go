package ws

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Время, которое разрешено писать сообщение клиенту
	writeWait = 10 * time.Second

	// Время ожидания pong-ответа от клиента
	pongWait = 30 * time.Second

	// Периодичность отправки ping-сообщений клиенту
	pingPeriod = (pongWait * 9) / 10

	// Входящие сообщения не используются, лимит минимальный
	maxMessageSize = 256

	// Размер буфера исходящих сообщений клиента
	clientBufferSize = 16
)

// Client — одно WebSocket-соединение, подписанное на события попытки квиза
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	attemptID uuid.UUID
	send      chan []byte
}

// NewClient создает клиента и регистрирует его в hub
func NewClient(hub *Hub, conn *websocket.Conn, attemptID uuid.UUID) *Client {
	client := &Client{
		hub:       hub,
		conn:      conn,
		attemptID: attemptID,
		send:      make(chan []byte, clientBufferSize),
	}
	hub.register <- client
	return client
}

// Start запускает насосы чтения и записи соединения
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// readPump читает соединение только ради контроля его жизни:
// входящие данные отбрасываются, pong продлевает дедлайн
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WSClient] Unexpected close for attempt %s: %v", c.attemptID, err)
			}
			return
		}
	}
}

// writePump отправляет события из очереди клиента и поддерживает
// соединение ping-сообщениями
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
