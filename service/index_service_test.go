package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/docrag/docrag-be/types"
)

type fakeBlobStore struct {
	blobs       map[string][]byte
	downloadErr map[string]error
}

func (f *fakeBlobStore) List(ctx context.Context, container string) ([]types.BlobInfo, error) {
	var infos []types.BlobInfo
	for name, data := range f.blobs {
		infos = append(infos, types.BlobInfo{Name: name, Size: int64(len(data))})
	}
	return infos, nil
}

func (f *fakeBlobStore) Download(ctx context.Context, container, name string) ([]byte, error) {
	if err := f.downloadErr[name]; err != nil {
		return nil, err
	}
	return f.blobs[name], nil
}

func (f *fakeBlobStore) Upload(ctx context.Context, container, name string, data []byte, overwrite bool) error {
	f.blobs[name] = data
	return nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, container, name string) error {
	delete(f.blobs, name)
	return nil
}

// pageFromBytes yields one page per blob whose text is the blob content, and
// fails on blobs marked corrupt. It stands in for real PDF extraction so the
// pipeline shape can be tested without fixture files.
type pageFromBytes struct{}

func (pageFromBytes) ExtractPages(pdfBytes []byte) ([]types.Page, error) {
	if bytes.HasPrefix(pdfBytes, []byte("corrupt")) {
		return nil, fmt.Errorf("%w: damaged document", types.ErrExtraction)
	}
	return []types.Page{{PageNumber: 1, Text: string(pdfBytes)}}, nil
}

func newTestIndexService(blobs *fakeBlobStore, index *fakeIndex) *IndexService {
	logger := zap.NewNop().Sugar()
	chunker, err := NewTextChunker(100, 20)
	if err != nil {
		panic(err)
	}
	builder := NewDocumentBuilder(pageFromBytes{}, chunker, &fakeEmbedder{dimension: 8}, 10, logger)
	uploader, err := NewBatchUploader(index, 100, logger)
	if err != nil {
		panic(err)
	}
	return NewIndexService(blobs, "pdf-articles", builder, uploader, logger)
}

func TestIndexAll(t *testing.T) {
	blobs := &fakeBlobStore{blobs: map[string][]byte{
		"alpha.pdf":  []byte(strings.Repeat("a", 150)),
		"beta.pdf":   []byte(strings.Repeat("b", 40)),
		"notes.txt":  []byte("not a pdf, must be ignored"),
		"README.md":  []byte("also ignored"),
	}}
	index := &fakeIndex{}

	summary, err := newTestIndexService(blobs, index).IndexAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.ProcessedFiles)
	assert.Empty(t, summary.FailedFiles)

	// alpha yields windows of 100 and 70 chars, beta a single 40-char window.
	assert.Equal(t, 3, summary.Upload.TotalRecords)
	assert.Equal(t, 3, summary.Upload.UploadedCount)
	require.Len(t, index.batches, 1)

	ids := make(map[string]bool)
	for _, rec := range index.batches[0] {
		ids[rec.ID] = true
	}
	assert.True(t, ids["alpha_1_0"])
	assert.True(t, ids["alpha_1_1"])
	assert.True(t, ids["beta_1_0"])
}

func TestIndexAll_ContainsPerDocumentFailures(t *testing.T) {
	blobs := &fakeBlobStore{
		blobs: map[string][]byte{
			"good.pdf":    []byte(strings.Repeat("g", 60)),
			"corrupt.pdf": []byte("corrupt: not really a pdf"),
			"gone.pdf":    []byte("irrelevant"),
		},
		downloadErr: map[string]error{"gone.pdf": fmt.Errorf("blob not found")},
	}
	index := &fakeIndex{}

	summary, err := newTestIndexService(blobs, index).IndexAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ProcessedFiles)
	assert.ElementsMatch(t, []string{"corrupt.pdf", "gone.pdf"}, summary.FailedFiles)
	assert.Equal(t, 1, summary.Upload.UploadedCount)
}

func TestIndexAll_EmptyContainer(t *testing.T) {
	blobs := &fakeBlobStore{blobs: map[string][]byte{}}
	index := &fakeIndex{}

	summary, err := newTestIndexService(blobs, index).IndexAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.ProcessedFiles)
	assert.Empty(t, index.batches)
	assert.Equal(t, 0, summary.Upload.TotalRecords)
}
