package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"notebooklm-be/internal/constant"
	"notebooklm-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

// Hub fans processing events out to every connected browser tab. Events
// arrive on the in-process bus and leave as websocket frames.
type Hub struct {
	// Registered clients
	clients map[*Client]struct{}

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Bus subscription for processing events
	subscriber message.Subscriber

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(subscriber message.Subscriber, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]struct{}),
		subscriber: subscriber,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.subscriber != nil {
		for _, topic := range []string{
			constant.TopicSourceProgress,
			constant.TopicSourceStatus,
			constant.TopicStudioStatus,
		} {
			go h.subscribe(topic)
		}
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"clients": count})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"clients": count})
		}
	}
}

func (h *Hub) subscribe(topic string) {
	messages, err := h.subscriber.Subscribe(context.Background(), topic)
	if err != nil {
		h.logger.Error("Hub", "Failed to subscribe topic", map[string]interface{}{"topic": topic, "error": err.Error()})
		return
	}

	for msg := range messages {
		h.Broadcast(topic, msg.Payload)
		msg.Ack()
	}
}

// Broadcast sends an event frame to all connected clients.
func (h *Hub) Broadcast(topic string, payload []byte) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": topic,
		"data": json.RawMessage(payload),
	})

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			// Slow consumer, drop it.
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}
