package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Yuji-2251/expert-assistant/domain"
)

// OpenAIClient implements domain.Completer against the OpenAI chat
// completions API. Model and temperature are fixed at construction; the
// credential arrives per call so a key change needs no restart.
type OpenAIClient struct {
	model       string
	temperature float32
}

func NewOpenAIClient(model string, temperature float32) domain.Completer {
	return &OpenAIClient{
		model:       model,
		temperature: temperature,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, apiKey string, messages []domain.ChatMessage) (string, error) {
	client := openai.NewClient(apiKey)

	chatMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		chatMessages[i] = openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages:    chatMessages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: response has no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
