package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/docrag/docrag-be/types"
)

type GeminiService struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
}

func NewGeminiService(ctx context.Context, apiKey, modelName string, timeout time.Duration) (*GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing Gemini API key", types.ErrConfiguration)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiService{
		client:  client,
		model:   client.GenerativeModel(modelName),
		timeout: timeout,
	}, nil
}

// Complete sends the grounding prompt and concatenates the text parts of the
// first candidate.
func (s *GeminiService) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrLLM, err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: %v", types.ErrLLM, errors.New("no response generated"))
	}

	content := ""
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					content += string(text)
				}
			}
		}
	}

	return content, nil
}

func (s *GeminiService) Close() error {
	return s.client.Close()
}
