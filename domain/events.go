package domain

import (
	"context"
	"time"
)

// MessageBroker defines the interface for message broker operations
type MessageBroker interface {
	// Publish sends a message to a specific topic/channel with a routing key
	Publish(ctx context.Context, topic string, routingKey string, message []byte) error

	// Subscribe listens for messages on a specific topic/channel and routing key
	Subscribe(ctx context.Context, topic string, routingKey string) (<-chan Message, error)

	// Close closes the message broker connection
	Close() error
}

// Message represents a message received from the broker
type Message struct {
	Topic      string
	RoutingKey string
	Payload    []byte
	Timestamp  time.Time
}

// ExchangeTopic is the broker topic where completed exchanges are announced.
const ExchangeTopic = "chat.exchanges"

// ExchangeEvent announces a completed exchange so live channels can follow a
// session without polling the history endpoint.
type ExchangeEvent struct {
	SessionID string    `json:"session_id"`
	Persona   Persona   `json:"persona"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}
