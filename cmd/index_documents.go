/*
Copyright © 2025 docrag
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/docrag/docrag-be/database"
	"github.com/docrag/docrag-be/service"
)

// indexDocumentsCmd represents the indexDocuments command
var indexDocumentsCmd = &cobra.Command{
	Use:   "index-documents",
	Short: "Chunk, embed and index every PDF in the blob container",
	Long: `Downloads each PDF from the blob container, extracts its pages, splits
them into overlapping chunks, embeds each chunk and uploads the records to the
search index in batches. One bad document or one rejected batch never aborts
the rest of the run.

With --stats only the current index statistics are printed.`,
	Run: func(cmd *cobra.Command, args []string) {
		statsOnly, _ := cmd.Flags().GetBool("stats")
		reinit, _ := cmd.Flags().GetBool("reinit")

		a, err := newApp()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer a.close()

		ctx := context.Background()

		index, err := a.newVectorIndex()
		if err != nil {
			log.Fatalf("Failed to connect to search index: %v", err)
		}

		if reinit {
			if err := index.Reinit(ctx); err != nil {
				log.Fatalf("Failed to reinitialize index: %v", err)
			}
		} else if err := index.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to ensure index schema: %v", err)
		}

		if statsOnly {
			printIndexStats(ctx, index)
			return
		}

		blobs, err := a.newBlobStore(ctx)
		if err != nil {
			log.Fatalf("Failed to connect to blob storage: %v", err)
		}
		defer blobs.Disconnect(ctx)

		builder, err := a.newDocumentBuilder()
		if err != nil {
			log.Fatalf("Failed to configure document builder: %v", err)
		}
		uploader, err := service.NewBatchUploader(index, a.cfg.Indexing.BatchSize, a.logger)
		if err != nil {
			log.Fatalf("Failed to configure uploader: %v", err)
		}
		indexer := service.NewIndexService(blobs, a.cfg.Storage.Container, builder, uploader, a.logger)

		start := time.Now()
		summary, err := indexer.IndexAll(ctx)
		if err != nil {
			log.Fatalf("Indexing failed: %v", err)
		}

		fmt.Println("Indexing summary")
		fmt.Printf("  PDFs processed:  %d\n", summary.ProcessedFiles)
		if len(summary.FailedFiles) > 0 {
			fmt.Printf("  PDFs failed:     %d %v\n", len(summary.FailedFiles), summary.FailedFiles)
		}
		fmt.Printf("  Records uploaded: %d/%d (%d of %d batches failed)\n",
			summary.Upload.UploadedCount, summary.Upload.TotalRecords,
			summary.Upload.FailedBatches, summary.Upload.TotalBatches)
		fmt.Printf("  Time elapsed:    %.2fs\n", time.Since(start).Seconds())

		printIndexStats(ctx, index)
	},
}

func printIndexStats(ctx context.Context, index database.VectorIndex) {
	count, err := index.Count(ctx)
	if err != nil {
		fmt.Println("Failed to get index stats:", err)
		return
	}
	sources, err := index.ListSources(ctx, 1000)
	if err != nil {
		fmt.Println("Failed to list indexed sources:", err)
		return
	}

	fmt.Println("Index statistics")
	fmt.Printf("  Total indexed documents: %d\n", count)
	fmt.Printf("  Unique PDF files: %d\n", len(sources))
	for _, source := range sources {
		fmt.Printf("    - %s\n", source)
	}
}

func init() {
	rootCmd.AddCommand(indexDocumentsCmd)

	indexDocumentsCmd.Flags().Bool("stats", false, "Print index statistics only")
	indexDocumentsCmd.Flags().BoolP("reinit", "r", false, "Drop and recreate the index before indexing")
}
