package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gorillaws "github.com/gorilla/websocket"

	"github.com/yourusername/bizfit-api/internal/ws"
)

// WSHandler обрабатывает WebSocket-соединения для событий генерации контента
type WSHandler struct {
	hub            *ws.Hub
	allowedOrigins map[string]bool
	upgrader       gorillaws.Upgrader
}

// NewWSHandler создает обработчик WebSocket
func NewWSHandler(hub *ws.Hub, allowedOrigins []string) *WSHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}
	handler := &WSHandler{hub: hub, allowedOrigins: allowed}
	handler.upgrader = gorillaws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			// Пустой Origin — не браузерный клиент, разрешаем
			if origin == "" {
				return true
			}
			if handler.allowedOrigins[origin] {
				return true
			}
			log.Printf("[WSHandler] Rejected unauthorized origin: %s", origin)
			return false
		},
	}
	return handler
}

// HandleConnection апгрейдит соединение и подписывает клиента на события
// попытки квиза из query-параметра attempt_id
func (h *WSHandler) HandleConnection(c *gin.Context) {
	attemptID, err := uuid.Parse(c.Query("attempt_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid attempt_id query parameter is required"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade сам пишет ответ при ошибке
		log.Printf("[WSHandler] Upgrade failed: %v", err)
		return
	}

	client := ws.NewClient(h.hub, conn, attemptID)
	client.Start()
}
