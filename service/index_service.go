package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/docrag/docrag-be/database"
	"github.com/docrag/docrag-be/types"
)

// IndexService runs the bulk indexing pass: every PDF in the blob container is
// downloaded, built into records and batch-uploaded to the search index.
type IndexService struct {
	blobs     database.BlobStore
	container string
	builder   *DocumentBuilder
	uploader  *BatchUploader
	logger    *zap.SugaredLogger
}

func NewIndexService(
	blobs database.BlobStore,
	container string,
	builder *DocumentBuilder,
	uploader *BatchUploader,
	logger *zap.SugaredLogger,
) *IndexService {
	return &IndexService{
		blobs:     blobs,
		container: container,
		builder:   builder,
		uploader:  uploader,
		logger:    logger,
	}
}

// IndexSummary reports one bulk indexing pass.
type IndexSummary struct {
	ProcessedFiles int
	FailedFiles    []string
	Upload         types.UploadReport
}

// IndexAll processes every .pdf blob in the container. Failure of one source
// document is contained to that document: it is recorded in the summary and
// processing continues with the remaining files.
func (s *IndexService) IndexAll(ctx context.Context) (*IndexSummary, error) {
	blobs, err := s.blobs.List(ctx, s.container)
	if err != nil {
		return nil, err
	}

	var pdfs []types.BlobInfo
	for _, blob := range blobs {
		if strings.HasSuffix(blob.Name, ".pdf") {
			pdfs = append(pdfs, blob)
		}
	}
	s.logger.Infow("found PDF files", "container", s.container, "count", len(pdfs))

	summary := &IndexSummary{}
	var allRecords []types.IndexableRecord

	for _, blob := range pdfs {
		pdfBytes, err := s.blobs.Download(ctx, s.container, blob.Name)
		if err != nil {
			s.logger.Errorw("failed to download document", "name", blob.Name, "error", err)
			summary.FailedFiles = append(summary.FailedFiles, blob.Name)
			continue
		}

		records, err := s.builder.Build(ctx, blob.Name, pdfBytes)
		if err != nil {
			s.logger.Errorw("failed to process document", "name", blob.Name, "error", err)
			summary.FailedFiles = append(summary.FailedFiles, blob.Name)
			continue
		}

		allRecords = append(allRecords, records...)
		summary.ProcessedFiles++
	}

	summary.Upload = s.uploader.Upload(ctx, allRecords)
	return summary, nil
}
