package message_broker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelBroker_PublishSubscribe(t *testing.T) {
	b := NewChannelBroker()
	defer b.Close()

	ctx := context.Background()
	ch, err := b.Subscribe(ctx, "chat.exchanges", "")
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, "chat.exchanges", "", []byte("hello")))

	select {
	case msg := <-ch:
		assert.Equal(t, "chat.exchanges", msg.Topic)
		assert.Equal(t, []byte("hello"), msg.Payload)
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}
}

func TestChannelBroker_RoutingKeysAreSeparate(t *testing.T) {
	b := NewChannelBroker()
	defer b.Close()

	ctx := context.Background()
	chA, err := b.Subscribe(ctx, "topic", "a")
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, "topic", "b", []byte("for b")))

	select {
	case msg := <-chA:
		t.Fatalf("subscriber for key a received %q", msg.Payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestChannelBroker_Close(t *testing.T) {
	b := NewChannelBroker()
	require.NoError(t, b.Close())
	// Closing twice is fine.
	require.NoError(t, b.Close())

	err := b.Publish(context.Background(), "topic", "", []byte("x"))
	assert.Error(t, err)

	_, err = b.Subscribe(context.Background(), "topic", "")
	assert.Error(t, err)
}

func TestChannelBroker_TopicCount(t *testing.T) {
	b := NewChannelBroker()
	defer b.Close()

	assert.Equal(t, 0, b.TopicCount())
	_, err := b.Subscribe(context.Background(), "one", "")
	require.NoError(t, err)
	_, err = b.Subscribe(context.Background(), "two", "")
	require.NoError(t, err)
	assert.Equal(t, 2, b.TopicCount())
}
