package types

import "errors"

// Error taxonomy for the indexing and query paths. Callers classify wrapped
// errors with errors.Is to pick the containment granularity: configuration
// errors are fatal, extraction errors abort one document, upload errors abort
// one batch, retrieval and LLM errors fail one query.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrExtraction    = errors.New("extraction error")
	ErrEmbedding     = errors.New("embedding error")
	ErrUploadBatch   = errors.New("upload batch error")
	ErrRetrieval     = errors.New("retrieval error")
	ErrLLM           = errors.New("llm error")
)
