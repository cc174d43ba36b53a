package llm

import (
	"fmt"

	"github.com/Yuji-2251/expert-assistant/domain"
)

// New builds a Completer for the named provider.
func New(provider, model string, temperature float32) (domain.Completer, error) {
	switch provider {
	case "openai":
		return NewOpenAIClient(model, temperature), nil
	case "gemini":
		return NewGeminiClient(model, temperature), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}
