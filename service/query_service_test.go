package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/docrag/docrag-be/types"
)

type fakeAI struct {
	answer  string
	err     error
	prompts []string
}

func (f *fakeAI) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func newTestQueryService(index *fakeIndex, ai *fakeAI) *QueryService {
	embedder := &fakeEmbedder{dimension: 384}
	return NewQueryService(embedder, index, ai, zap.NewNop().Sugar())
}

func TestQueryService_Query(t *testing.T) {
	index := &fakeIndex{
		searchResult: []types.RetrievedChunk{
			{Content: "first chunk", SourceFile: "essays", PageNumber: 2},
			{Content: "second chunk", SourceFile: "notes", PageNumber: 1},
			{Content: "third chunk", SourceFile: "essays", PageNumber: 5},
		},
	}
	ai := &fakeAI{answer: "a grounded answer"}
	queries := newTestQueryService(index, ai)

	result, err := queries.Query(context.Background(), "what did I write about go?", 3, false)
	require.NoError(t, err)

	assert.Equal(t, "a grounded answer", result.Answer)
	assert.Equal(t, 3, result.NumChunks)
	assert.Equal(t, []string{"essays", "notes"}, result.Sources)
	assert.Equal(t, index.searchResult, result.Chunks)

	assert.Equal(t, 3, index.lastTopK)
	assert.Empty(t, index.lastKeyword)

	require.Len(t, ai.prompts, 1)
	prompt := ai.prompts[0]
	assert.Contains(t, prompt, "first chunk"+contextDelimiter+"second chunk"+contextDelimiter+"third chunk")
	assert.Contains(t, prompt, "Question: what did I write about go?")
}

func TestQueryService_HybridPassesQuestionAsKeyword(t *testing.T) {
	index := &fakeIndex{}
	queries := newTestQueryService(index, &fakeAI{answer: "ok"})

	_, err := queries.Query(context.Background(), "kubernetes networking", 4, true)
	require.NoError(t, err)

	assert.Equal(t, "kubernetes networking", index.lastKeyword)
}

func TestQueryService_NoChunksFound(t *testing.T) {
	index := &fakeIndex{}
	ai := &fakeAI{answer: "I could not find anything relevant."}
	queries := newTestQueryService(index, ai)

	result, err := queries.Query(context.Background(), "anything?", 4, false)
	require.NoError(t, err)

	assert.Equal(t, 0, result.NumChunks)
	assert.Empty(t, result.Sources)
	require.Len(t, ai.prompts, 1)
	assert.Contains(t, ai.prompts[0], "no relevant context was found")
}

func TestQueryService_EmbeddingFailureIsRetrievalError(t *testing.T) {
	index := &fakeIndex{}
	queries := NewQueryService(
		&fakeEmbedder{dimension: 384, err: errors.New("embedding api down")},
		index, &fakeAI{}, zap.NewNop().Sugar(),
	)

	_, err := queries.Query(context.Background(), "q", 4, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrRetrieval)
	assert.Empty(t, index.lastKeyword)
}

func TestQueryService_SearchErrorPropagates(t *testing.T) {
	index := &fakeIndex{searchErr: errors.New("index unavailable")}
	queries := newTestQueryService(index, &fakeAI{})

	_, err := queries.Query(context.Background(), "q", 4, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index unavailable")
}

func TestQueryService_LLMErrorPropagates(t *testing.T) {
	index := &fakeIndex{searchResult: []types.RetrievedChunk{{Content: "c", SourceFile: "f"}}}
	ai := &fakeAI{err: errors.New("model overloaded")}
	queries := newTestQueryService(index, ai)

	_, err := queries.Query(context.Background(), "q", 4, false)
	require.Error(t, err)
}

func TestBuildPrompt_PreservesRankingOrder(t *testing.T) {
	chunks := []types.RetrievedChunk{
		{Content: "alpha"},
		{Content: "beta"},
	}
	prompt := BuildPrompt("which came first?", chunks)

	assert.Less(t, strings.Index(prompt, "alpha"), strings.Index(prompt, "beta"))
}

func TestDistinctSources(t *testing.T) {
	chunks := []types.RetrievedChunk{
		{SourceFile: "b"},
		{SourceFile: "a"},
		{SourceFile: "b"},
		{SourceFile: "c"},
	}
	assert.Equal(t, []string{"a", "b", "c"}, DistinctSources(chunks))

	assert.Empty(t, DistinctSources(nil))
}
