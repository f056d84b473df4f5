package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/docrag/docrag-be/database"
	"github.com/docrag/docrag-be/types"
)

const contextDelimiter = "\n\n---\n\n"

const promptTemplate = `You are helping the user explore their written articles.
Use the following context from their articles to answer the question thoughtfully.

Guidelines:
- If you reference specific information, mention which article it comes from
- If you're not certain about something, say so honestly
- Provide detailed, helpful answers based on the context
- If the context doesn't contain relevant information, say so

Context from articles:
%s

Question: %s

Answer:`

// QueryService answers questions against the index: it embeds the question,
// retrieves the most relevant chunks and delegates answer generation to the
// LLM with a grounding prompt.
type QueryService struct {
	embedder Embedder
	index    database.VectorIndex
	ai       AIService
	logger   *zap.SugaredLogger
}

func NewQueryService(embedder Embedder, index database.VectorIndex, ai AIService, logger *zap.SugaredLogger) *QueryService {
	return &QueryService{
		embedder: embedder,
		index:    index,
		ai:       ai,
		logger:   logger,
	}
}

// Retrieve returns the topK chunks most relevant to the question, in the
// index's ranking order. With hybrid set, the question text additionally feeds
// keyword matching; no local re-ranking is applied either way.
func (s *QueryService) Retrieve(ctx context.Context, question string, topK int, hybrid bool) ([]types.RetrievedChunk, error) {
	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrRetrieval, err)
	}

	keyword := ""
	if hybrid {
		keyword = question
	}

	chunks, err := s.index.Search(ctx, vector, topK, keyword)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("retrieved chunks", "question", question, "hybrid", hybrid, "chunks", len(chunks))
	return chunks, nil
}

// Answer assembles the grounding prompt from the retrieved chunks and asks
// the LLM. An empty chunk list is a designed degenerate case, not an error:
// the prompt states that nothing was found and the model is instructed to
// say so.
func (s *QueryService) Answer(ctx context.Context, question string, chunks []types.RetrievedChunk) (*types.QueryResult, error) {
	prompt := BuildPrompt(question, chunks)

	answer, err := s.ai.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &types.QueryResult{
		Answer:    answer,
		Sources:   DistinctSources(chunks),
		NumChunks: len(chunks),
		Chunks:    chunks,
	}, nil
}

// Query runs the full question path: retrieval followed by answer assembly.
// Any failure is surfaced as a single error for this query; no partial answer
// is returned and the query stays retryable.
func (s *QueryService) Query(ctx context.Context, question string, topK int, hybrid bool) (*types.QueryResult, error) {
	chunks, err := s.Retrieve(ctx, question, topK, hybrid)
	if err != nil {
		return nil, err
	}
	return s.Answer(ctx, question, chunks)
}

// BuildPrompt embeds the retrieved chunk contents and the verbatim question
// into the grounding template. Chunk contents are joined in ranking order,
// separated by a fixed delimiter.
func BuildPrompt(question string, chunks []types.RetrievedChunk) string {
	var contextBlock string
	if len(chunks) == 0 {
		contextBlock = "(no relevant context was found in the indexed articles)"
	} else {
		parts := make([]string, 0, len(chunks))
		for _, chunk := range chunks {
			parts = append(parts, chunk.Content)
		}
		contextBlock = strings.Join(parts, contextDelimiter)
	}
	return fmt.Sprintf(promptTemplate, contextBlock, question)
}

// DistinctSources returns the sorted set of distinct source files across the
// retrieved chunks.
func DistinctSources(chunks []types.RetrievedChunk) []string {
	seen := make(map[string]struct{})
	for _, chunk := range chunks {
		seen[chunk.SourceFile] = struct{}{}
	}
	sources := make([]string, 0, len(seen))
	for source := range seen {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources
}
