package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/docrag/docrag-be/types"
)

type OpenAIService struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAIService(baseURL, apiKey, model string, timeout time.Duration) *OpenAIService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL // Set this to your local LLM server URL
	}
	client := openai.NewClientWithConfig(config)
	return &OpenAIService{
		client:  client,
		model:   model,
		timeout: timeout,
	}
}

// Complete sends the grounding prompt as a single user message and returns the
// model's raw textual output.
func (s *OpenAIService) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Model: s.model,
		},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrLLM, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: %v", types.ErrLLM, errors.New("no response generated"))
	}

	return resp.Choices[0].Message.Content, nil
}
