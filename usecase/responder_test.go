package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yuji-2251/expert-assistant/adapters/hasher"
	"github.com/Yuji-2251/expert-assistant/domain"
)

type spyCompleter struct {
	calls    int
	apiKey   string
	messages []domain.ChatMessage
	reply    string
	err      error
}

func (s *spyCompleter) Complete(_ context.Context, apiKey string, messages []domain.ChatMessage) (string, error) {
	s.calls++
	s.apiKey = apiKey
	s.messages = messages
	return s.reply, s.err
}

type stubSecrets map[string]string

func (s stubSecrets) Get(name string) string { return s[name] }

func TestRespond_MissingCredential(t *testing.T) {
	t.Setenv(domain.CredentialName, "")

	spy := &spyCompleter{reply: "should never be seen"}
	r := NewResponder(spy, stubSecrets{}, hasher.New())

	result := r.Respond(context.Background(), "Hello", domain.ITEngineer)

	require.True(t, result.Failed())
	assert.Equal(t, MissingCredentialMessage, result.Err)
	assert.Empty(t, result.Text)
	assert.Zero(t, spy.calls, "completer must not be invoked without a credential")
}

func TestRespond_SecretStorePrecedesEnv(t *testing.T) {
	t.Setenv(domain.CredentialName, "env-key")

	spy := &spyCompleter{reply: "OK"}
	r := NewResponder(spy, stubSecrets{domain.CredentialName: "store-key"}, hasher.New())

	result := r.Respond(context.Background(), "Hello", domain.ITEngineer)

	require.False(t, result.Failed())
	assert.Equal(t, "store-key", spy.apiKey)
}

func TestRespond_EnvFallback(t *testing.T) {
	t.Setenv(domain.CredentialName, "env-key")

	spy := &spyCompleter{reply: "OK"}
	r := NewResponder(spy, stubSecrets{}, hasher.New())

	result := r.Respond(context.Background(), "Hello", domain.ITEngineer)

	require.False(t, result.Failed())
	assert.Equal(t, "env-key", spy.apiKey)
}

func TestRespond_BuildsSystemAndUserMessages(t *testing.T) {
	t.Setenv(domain.CredentialName, "env-key")

	spy := &spyCompleter{reply: "OK"}
	r := NewResponder(spy, stubSecrets{}, hasher.New())

	result := r.Respond(context.Background(), "Hello", domain.ITEngineer)

	require.False(t, result.Failed())
	assert.Equal(t, "OK", result.Text)

	require.Len(t, spy.messages, 2)
	instruction, err := domain.Instruction(domain.ITEngineer)
	require.NoError(t, err)
	assert.Equal(t, domain.SystemRole, spy.messages[0].Role)
	assert.Equal(t, instruction, spy.messages[0].Content)
	assert.Equal(t, domain.UserRole, spy.messages[1].Role)
	assert.Equal(t, "Hello", spy.messages[1].Content)
}

func TestRespond_CompleterErrorBecomesFailureResult(t *testing.T) {
	t.Setenv(domain.CredentialName, "env-key")

	spy := &spyCompleter{err: errors.New("timeout")}
	r := NewResponder(spy, stubSecrets{}, hasher.New())

	result := r.Respond(context.Background(), "Hello", domain.ITEngineer)

	require.True(t, result.Failed())
	assert.Contains(t, result.Err, "timeout")
	assert.Contains(t, result.Err, "An error occurred")
	assert.Empty(t, result.Text)
}

func TestRespond_UnknownPersonaSkipsRemoteCall(t *testing.T) {
	t.Setenv(domain.CredentialName, "env-key")

	spy := &spyCompleter{reply: "OK"}
	r := NewResponder(spy, stubSecrets{}, hasher.New())

	result := r.Respond(context.Background(), "Hello", domain.Persona("astrologer"))

	require.True(t, result.Failed())
	assert.Contains(t, result.Err, domain.ErrUnknownPersona.Error())
	assert.Zero(t, spy.calls)
}

func TestRespond_NilHasher(t *testing.T) {
	t.Setenv(domain.CredentialName, "env-key")

	spy := &spyCompleter{reply: "OK"}
	r := NewResponder(spy, stubSecrets{}, nil)

	result := r.Respond(context.Background(), "Hello", domain.CulinaryExpert)
	assert.False(t, result.Failed())
}
