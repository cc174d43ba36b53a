package usecase

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Yuji-2251/expert-assistant/domain"
	"github.com/Yuji-2251/expert-assistant/utils/log"
)

const (
	// MissingCredentialMessage is shown in place of an answer when neither
	// credential source yields a key. No remote call is attempted.
	MissingCredentialMessage = "Error: OpenAI API key is not configured. Add OPENAI_API_KEY to the secrets file or environment."

	// errorMarker prefixes every failure that reaches the user.
	errorMarker = "An error occurred: "
)

// Result is the outcome of one respond turn: either Text or Err, never both.
// Failures are values, not raised errors; a turn always completes.
type Result struct {
	Text string
	Err  string
}

func (r Result) Failed() bool {
	return r.Err != ""
}

// Responder orchestrates one chat turn: resolve the credential, build the
// system+user message pair, call the completion provider.
type Responder struct {
	completer domain.Completer
	secrets   domain.SecretStore
	hasher    domain.Hasher
}

func NewResponder(completer domain.Completer, secrets domain.SecretStore, hasher domain.Hasher) *Responder {
	return &Responder{
		completer: completer,
		secrets:   secrets,
		hasher:    hasher,
	}
}

// Respond answers userText under the given persona. Enforcing non-empty input
// belongs to the caller; persona membership is checked here before any remote
// call.
func (r *Responder) Respond(ctx context.Context, userText string, persona domain.Persona) Result {
	apiKey := r.secrets.Get(domain.CredentialName)
	if apiKey == "" {
		apiKey = os.Getenv(domain.CredentialName)
	}
	if apiKey == "" {
		log.WithCtx(ctx).Warn("no credential configured, skipping completion call")
		return Result{Err: MissingCredentialMessage}
	}

	instruction, err := domain.Instruction(persona)
	if err != nil {
		log.WithCtx(ctx).Warn("persona lookup failed", zap.String("persona", string(persona)))
		return Result{Err: errorMarker + err.Error()}
	}

	messages := []domain.ChatMessage{
		{Role: domain.SystemRole, Content: instruction},
		{Role: domain.UserRole, Content: userText},
	}

	start := time.Now()
	answer, err := r.completer.Complete(ctx, apiKey, messages)
	if err != nil {
		log.WithCtx(ctx).Error("completion call failed",
			zap.String("persona", string(persona)),
			zap.Error(err))
		return Result{Err: errorMarker + err.Error()}
	}

	log.WithCtx(ctx).Info("completion call succeeded",
		zap.String("persona", string(persona)),
		zap.String("credential_fingerprint", r.fingerprint(apiKey)),
		zap.Duration("latency", time.Since(start)))

	return Result{Text: answer}
}

// fingerprint digests the credential so log lines can correlate which key was
// used without recording it.
func (r *Responder) fingerprint(apiKey string) string {
	if r.hasher == nil {
		return ""
	}
	sum := r.hasher.Hash([]byte(apiKey))
	if len(sum) > 12 {
		sum = sum[:12]
	}
	return sum
}
