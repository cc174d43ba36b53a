package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yuji-2251/expert-assistant/adapters/hasher"
	"github.com/Yuji-2251/expert-assistant/adapters/message_broker"
	"github.com/Yuji-2251/expert-assistant/domain"
	"github.com/Yuji-2251/expert-assistant/usecase"
)

type spyCompleter struct {
	calls    int
	messages []domain.ChatMessage
	reply    string
	err      error
}

func (s *spyCompleter) Complete(_ context.Context, _ string, messages []domain.ChatMessage) (string, error) {
	s.calls++
	s.messages = messages
	return s.reply, s.err
}

type stubSecrets map[string]string

func (s stubSecrets) Get(name string) string { return s[name] }

func newTestServer(t *testing.T, spy *spyCompleter) (*Server, *usecase.Sessions) {
	t.Helper()
	t.Setenv(domain.CredentialName, "test-key")

	sessions := usecase.NewSessions()
	broker := message_broker.NewChannelBroker()
	t.Cleanup(func() { broker.Close() })

	responder := usecase.NewResponder(spy, stubSecrets{}, hasher.New())
	server := NewServer(responder, sessions, broker)
	server.RunWebsocketHub()
	return server, sessions
}

// frame mirrors every field the server can send back over the socket.
type frame struct {
	Type     string `json:"type"`
	Persona  string `json:"persona"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Error    string `json:"error"`
}

// readFrame pops the next queued frame of the given type. Sockets are never
// pumped in these tests, so frames stay in the client's send queue.
func readFrame(t *testing.T, c *Client, frameType string) frame {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case data := <-c.send:
			var f frame
			require.NoError(t, json.Unmarshal(data, &f))
			if f.Type == frameType {
				return f
			}
		case <-deadline:
			t.Fatalf("no %q frame received", frameType)
		}
	}
}

func assertNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected frame %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func registerClient(t *testing.T, s *Server, sessionID string) *Client {
	t.Helper()
	client := NewClient(nil, sessionID)
	before := s.hub.ClientCount()
	s.hub.Register(client)
	require.Eventually(t, func() bool {
		return s.hub.ClientCount() > before
	}, time.Second, 5*time.Millisecond)
	return client
}

func TestHandleAsk_Success(t *testing.T) {
	spy := &spyCompleter{reply: "use a context with timeout"}
	s, sessions := newTestServer(t, spy)
	client := NewClient(nil, "s1")

	s.handleAsk(client, AskFrame{Type: "ask", Persona: "it-engineer", Message: "How do I cancel a request?"})

	f := readFrame(t, client, "answer")
	assert.Equal(t, "it-engineer", f.Persona)
	assert.Equal(t, "use a context with timeout", f.Answer)
	assert.Empty(t, f.Error)

	require.Equal(t, 1, sessions.Log("s1").Len())
	exchange := sessions.Log("s1").Recent(1)[0]
	assert.Equal(t, domain.ITEngineer, exchange.Persona)
	assert.Equal(t, "How do I cancel a request?", exchange.Question)
}

func TestHandleAsk_EmptyMessage(t *testing.T) {
	spy := &spyCompleter{}
	s, sessions := newTestServer(t, spy)
	client := NewClient(nil, "s1")

	s.handleAsk(client, AskFrame{Type: "ask", Persona: "it-engineer", Message: "  \n\t "})

	f := readFrame(t, client, "error")
	assert.Contains(t, f.Error, "enter a question")
	assert.Zero(t, spy.calls, "orchestrator must not run for empty input")
	assert.Equal(t, 0, sessions.Log("s1").Len())
}

func TestHandleAsk_UnknownPersona(t *testing.T) {
	spy := &spyCompleter{}
	s, sessions := newTestServer(t, spy)
	client := NewClient(nil, "s1")

	s.handleAsk(client, AskFrame{Type: "ask", Persona: "astrologer", Message: "Hello"})

	f := readFrame(t, client, "error")
	assert.Contains(t, f.Error, "astrologer")
	assert.Zero(t, spy.calls)
	assert.Equal(t, 0, sessions.Log("s1").Len())
}

func TestHandleAsk_FailureIsNotRecorded(t *testing.T) {
	spy := &spyCompleter{err: errors.New("timeout")}
	s, sessions := newTestServer(t, spy)
	client := NewClient(nil, "s1")

	s.handleAsk(client, AskFrame{Type: "ask", Persona: "it-engineer", Message: "Hello"})

	f := readFrame(t, client, "error")
	assert.Contains(t, f.Error, "timeout")
	assert.Contains(t, f.Error, "An error occurred")
	assert.Empty(t, f.Answer)
	assert.Equal(t, 0, sessions.Log("s1").Len(), "failures never enter the history")
}

func TestHandleAsk_ExchangeFrameReachesOnlyOwningSession(t *testing.T) {
	spy := &spyCompleter{reply: "OK"}
	s, _ := newTestServer(t, spy)

	asker := registerClient(t, s, "s1")
	bystander := registerClient(t, s, "s2")

	s.handleAsk(asker, AskFrame{Type: "ask", Persona: "it-engineer", Message: "Hello"})

	// The exchange listener feeds the event back to the owning session.
	f := readFrame(t, asker, "exchange")
	assert.Equal(t, "it-engineer", f.Persona)
	assert.Equal(t, "Hello", f.Question)
	assert.Equal(t, "OK", f.Answer)

	assertNoFrame(t, bystander)
}
