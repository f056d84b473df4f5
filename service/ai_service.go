package service

import "context"

// AIService is the LLM capability consumed by the query path: one grounding
// prompt in, one textual answer out.
type AIService interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
