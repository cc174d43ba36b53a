package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/Yuji-2251/expert-assistant/domain"
)

// GeminiClient implements domain.Completer against the Gemini API, for
// deployments that would rather not use OpenAI. The system message maps to
// Gemini's system instruction; remaining messages become contents.
type GeminiClient struct {
	model       string
	temperature float32
}

func NewGeminiClient(model string, temperature float32) domain.Completer {
	return &GeminiClient{
		model:       model,
		temperature: temperature,
	}
}

func (g *GeminiClient) Complete(ctx context.Context, apiKey string, messages []domain.ChatMessage) (string, error) {
	client, err := genai.NewClient(
		ctx,
		&genai.ClientConfig{
			APIKey:      apiKey,
			HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
		},
	)
	if err != nil {
		return "", fmt.Errorf("creating genai client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}

	var contents []*genai.Content
	for _, msg := range messages {
		if msg.Role == domain.SystemRole {
			config.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: msg.Content}},
			}
			continue
		}
		role := genai.RoleUser
		if msg.Role == domain.AssistantRole {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	return resp.Text(), nil
}
