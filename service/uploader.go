package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/docrag/docrag-be/database"
	"github.com/docrag/docrag-be/types"
)

// BatchUploader pushes indexable records to the search index in fixed-size
// batches. Upload is best-effort: one rejected batch is recorded in the report
// and the remaining batches are still attempted, so a partial index outage
// cannot abort a whole run. Failed batches are not retried.
type BatchUploader struct {
	index     database.VectorIndex
	batchSize int
	logger    *zap.SugaredLogger
}

// NewBatchUploader creates an uploader. The batch size is also the loop step,
// so a non-positive value is rejected up front.
func NewBatchUploader(index database.VectorIndex, batchSize int, logger *zap.SugaredLogger) (*BatchUploader, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size must be positive, got %d", types.ErrConfiguration, batchSize)
	}
	return &BatchUploader{
		index:     index,
		batchSize: batchSize,
		logger:    logger,
	}, nil
}

// Upload partitions records into contiguous batches (the last may be smaller)
// and submits each independently. The report's UploadedCount covers only
// successfully submitted batches.
func (u *BatchUploader) Upload(ctx context.Context, records []types.IndexableRecord) types.UploadReport {
	total := len(records)
	report := types.UploadReport{TotalRecords: total}

	for i := 0; i < total; i += u.batchSize {
		end := i + u.batchSize
		if end > total {
			end = total
		}
		batch := records[i:end]
		report.TotalBatches++

		if err := u.index.UploadBatch(ctx, batch); err != nil {
			report.FailedBatches++
			report.Errors = append(report.Errors, err)
			u.logger.Errorw("batch upload failed", "batch", report.TotalBatches, "records", len(batch), "error", err)
			continue
		}

		report.UploadedCount += len(batch)
		u.logger.Infow("uploaded batch", "batch", report.TotalBatches, "uploaded", report.UploadedCount, "total", total)
	}

	return report
}
