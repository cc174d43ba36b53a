package message_broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Yuji-2251/expert-assistant/domain"
	"github.com/Yuji-2251/expert-assistant/utils/log"
	"go.uber.org/zap"
)

// ChannelBroker implements domain.MessageBroker with in-process Go channels.
// Good enough for a single-process service; the port keeps the door open for
// a real broker later.
type ChannelBroker struct {
	topics map[string]chan domain.Message
	mu     sync.Mutex
	closed bool
}

func NewChannelBroker() *ChannelBroker {
	return &ChannelBroker{
		topics: make(map[string]chan domain.Message),
	}
}

func makeKey(topic, routingKey string) string {
	return topic + ":" + routingKey
}

// channel returns the channel for topic/routingKey, creating it on first use.
func (b *ChannelBroker) channel(topic, routingKey string) (chan domain.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, fmt.Errorf("message broker is closed")
	}

	key := makeKey(topic, routingKey)
	ch, ok := b.topics[key]
	if !ok {
		ch = make(chan domain.Message, 100)
		b.topics[key] = ch
	}
	return ch, nil
}

// Publish sends a message to a specific topic and routing key. A full topic
// channel rejects the message instead of blocking the publisher.
func (b *ChannelBroker) Publish(ctx context.Context, topic string, routingKey string, message []byte) error {
	ch, err := b.channel(topic, routingKey)
	if err != nil {
		return err
	}

	msg := domain.Message{
		Topic:      topic,
		RoutingKey: routingKey,
		Payload:    message,
		Timestamp:  time.Now(),
	}

	select {
	case ch <- msg:
		log.WithCtx(ctx).Debug("message published",
			zap.String("topic", topic),
			zap.String("routing_key", routingKey),
			zap.Int("payload_size", len(message)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("topic channel is full: %s:%s", topic, routingKey)
	}
}

// Subscribe listens for messages on a specific topic and routing key.
func (b *ChannelBroker) Subscribe(ctx context.Context, topic string, routingKey string) (<-chan domain.Message, error) {
	ch, err := b.channel(topic, routingKey)
	if err != nil {
		return nil, err
	}
	log.WithCtx(ctx).Info("subscribed to topic",
		zap.String("topic", topic),
		zap.String("routing_key", routingKey))
	return ch, nil
}

// Close closes the broker and all topic channels.
func (b *ChannelBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for _, ch := range b.topics {
		close(ch)
	}
	b.topics = make(map[string]chan domain.Message)

	log.With().Info("message broker closed")
	return nil
}

// TopicCount returns the number of active topic channels (for monitoring).
func (b *ChannelBroker) TopicCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.topics)
}
