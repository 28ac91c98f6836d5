package ws

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"
)

// Event — сообщение, отправляемое подписчикам попытки квиза
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ContentReadyData — полезная нагрузка события content_ready
type ContentReadyData struct {
	QuizAttemptID string `json:"quiz_attempt_id"`
	ContentType   string `json:"content_type"`
}

type attemptMessage struct {
	attemptID uuid.UUID
	payload   []byte
}

// Hub рассылает события генерации контента клиентам, подписанным на
// конкретную попытку квиза. Управление подписками централизовано в Run:
// доступ к карте подписчиков из одной горутины, без мьютексов.
type Hub struct {
	subscribers map[uuid.UUID]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan attemptMessage
	done       chan struct{}
}

// NewHub создает hub рассылки событий
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uuid.UUID]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan attemptMessage, 64),
		done:        make(chan struct{}),
	}
}

// Run обрабатывает регистрацию клиентов и рассылку событий.
// Запускается в отдельной горутине и работает до Stop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			clients := h.subscribers[client.attemptID]
			if clients == nil {
				clients = make(map[*Client]bool)
				h.subscribers[client.attemptID] = clients
			}
			clients[client] = true
			log.Printf("[WSHub] Client subscribed to attempt %s (%d subscribers)", client.attemptID, len(clients))

		case client := <-h.unregister:
			if clients, ok := h.subscribers[client.attemptID]; ok {
				if _, subscribed := clients[client]; subscribed {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.subscribers, client.attemptID)
					}
				}
			}

		case msg := <-h.broadcast:
			for client := range h.subscribers[msg.attemptID] {
				select {
				case client.send <- msg.payload:
				default:
					// переполненный клиент отключается, его очередь
					// не должна задерживать остальных
					delete(h.subscribers[msg.attemptID], client)
					close(client.send)
				}
			}

		case <-h.done:
			for _, clients := range h.subscribers {
				for client := range clients {
					close(client.send)
				}
			}
			h.subscribers = make(map[uuid.UUID]map[*Client]bool)
			return
		}
	}
}

// Stop завершает цикл Run и закрывает все клиентские очереди
func (h *Hub) Stop() {
	close(h.done)
}

// NotifyContentReady реализует service.ContentNotifier: рассылает событие
// content_ready подписчикам попытки. Отправка неблокирующая: если hub
// перегружен, событие отбрасывается (клиент всё равно заберёт контент
// обычным запросом).
func (h *Hub) NotifyContentReady(attemptID uuid.UUID, contentType string) {
	payload, err := json.Marshal(Event{
		Type: "content_ready",
		Data: ContentReadyData{
			QuizAttemptID: attemptID.String(),
			ContentType:   contentType,
		},
	})
	if err != nil {
		log.Printf("[WSHub] Failed to marshal content_ready event: %v", err)
		return
	}
	select {
	case h.broadcast <- attemptMessage{attemptID: attemptID, payload: payload}:
	default:
		log.Printf("[WSHub] Broadcast queue full, dropping content_ready for %s/%s", attemptID, contentType)
	}
}
