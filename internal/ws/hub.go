package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigflow-backend/internal/logger"
	"github.com/sirupsen/logrus"
)

var (
	ErrHubClosed = errors.New("ws: hub остановлен")
	ErrHubBusy   = errors.New("ws: очередь публикации переполнена")
)

// Hub держит реестр подключений и подписок на топики.
// Реестр изменяется только в цикле Run; mu нужен для чтения снаружи.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]map[string]struct{}
	topics  map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	subs       chan subscription
	publish    chan message
	done       chan struct{}
	stopOnce   sync.Once

	log logrus.FieldLogger
}

type message struct {
	topic   string
	payload []byte
}

type subscription struct {
	client *Client
	topic  string
	join   bool
}

// NewHub создаёт новый хаб.
func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		clients:    make(map[*Client]map[string]struct{}),
		topics:     make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		subs:       make(chan subscription, 64),
		publish:    make(chan message, 256),
		done:       make(chan struct{}),
		log:        logger.OrDefault(log),
	}
}

// Run запускает главный цикл хаба до отмены ctx.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case sub := <-h.subs:
			if sub.join {
				h.join(sub.client, sub.topic)
			} else {
				h.leave(sub.client, sub.topic)
			}
		case msg := <-h.publish:
			h.deliver(msg)
		}
	}
}

// Register добавляет клиента и подписывает его на личный топик.
func (h *Hub) Register(client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.done:
		return ErrHubClosed
	}
}

// Unregister удаляет клиента и все его подписки. Повторный вызов безопасен.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Join подписывает клиента на топик. Повторная подписка ничего не меняет.
func (h *Hub) Join(client *Client, topic string) {
	select {
	case h.subs <- subscription{client: client, topic: topic, join: true}:
	case <-h.done:
	}
}

func (h *Hub) Leave(client *Client, topic string) {
	select {
	case h.subs <- subscription{client: client, topic: topic}:
	case <-h.done:
	}
}

// Publish ставит событие в очередь доставки подписчикам топика и не ждёт её.
func (h *Hub) Publish(topic, event string, data any) error {
	raw, err := json.Marshal(Envelope{Type: event, Data: data})
	if err != nil {
		return fmt.Errorf("ws: не удалось сериализовать сообщение: %w", err)
	}

	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}

	select {
	case h.publish <- message{topic: topic, payload: raw}:
		return nil
	case <-h.done:
		return ErrHubClosed
	default:
		return ErrHubBusy
	}
}

// PublishToUser публикует событие в личный топик пользователя.
func (h *Hub) PublishToUser(userID uuid.UUID, event string, data any) error {
	return h.Publish(UserTopic(userID), event, data)
}

// PublishToGig публикует событие в топик заказа.
func (h *Hub) PublishToGig(gigID uuid.UUID, event string, data any) error {
	return h.Publish(GigTopic(gigID), event, data)
}

// TopicSize возвращает число подписчиков топика.
func (h *Hub) TopicSize(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// ClientCount возвращает число активных подключений.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Topics возвращает копию подписок клиента.
func (h *Hub) Topics(client *Client) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]string, 0, len(h.clients[client]))
	for topic := range h.clients[client] {
		result = append(result, topic)
	}
	return result
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.clients[client] = make(map[string]struct{})
	}
	h.mu.Unlock()

	h.join(client, UserTopic(client.userID))
	h.log.WithField("user_id", client.userID).Debug("ws: клиент подключён")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	topics, ok := h.clients[client]
	if !ok {
		return
	}
	for topic := range topics {
		h.dropMember(topic, client)
	}
	delete(h.clients, client)
	close(client.send)
	h.log.WithField("user_id", client.userID).Debug("ws: клиент отключён")
}

func (h *Hub) join(client *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	topics, ok := h.clients[client]
	if !ok {
		return
	}
	topics[topic] = struct{}{}
	if _, ok := h.topics[topic]; !ok {
		h.topics[topic] = make(map[*Client]struct{})
	}
	h.topics[topic][client] = struct{}{}
}

func (h *Hub) leave(client *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	topics, ok := h.clients[client]
	if !ok {
		return
	}
	delete(topics, topic)
	h.dropMember(topic, client)
}

// dropMember вызывается под h.mu.
func (h *Hub) dropMember(topic string, client *Client) {
	members, ok := h.topics[topic]
	if !ok {
		return
	}
	delete(members, client)
	if len(members) == 0 {
		delete(h.topics, topic)
	}
}

func (h *Hub) deliver(msg message) {
	h.mu.RLock()
	var slow []*Client
	for client := range h.topics[msg.topic] {
		select {
		case client.send <- msg.payload:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	// Медленные клиенты отключаются: закрытие send завершает writePump.
	for _, client := range slow {
		h.log.WithField("user_id", client.userID).Warn("ws: буфер клиента переполнен, отключаем")
		h.removeClient(client)
	}
}

func (h *Hub) shutdown() {
	h.stopOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		defer h.mu.Unlock()
		for client := range h.clients {
			close(client.send)
		}
		h.clients = make(map[*Client]map[string]struct{})
		h.topics = make(map[string]map[*Client]struct{})
	})
}
