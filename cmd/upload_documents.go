/*
Copyright © 2025 docrag
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/docrag/docrag-be/utils"
)

// uploadDocumentsCmd represents the uploadDocuments command
var uploadDocumentsCmd = &cobra.Command{
	Use:   "upload-documents",
	Short: "Upload local PDF files to the blob container",
	Long: `Uploads every PDF from a local directory to the blob container the
indexer reads from. Existing blobs with the same name are overwritten.

Use --list to show the container contents instead, --delete to remove one
blob, or --delete-all to empty the container.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		list, _ := cmd.Flags().GetBool("list")
		deleteName, _ := cmd.Flags().GetString("delete")
		deleteAll, _ := cmd.Flags().GetBool("delete-all")

		a, err := newApp()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer a.close()

		ctx := context.Background()
		blobs, err := a.newBlobStore(ctx)
		if err != nil {
			log.Fatalf("Failed to connect to blob storage: %v", err)
		}
		defer blobs.Disconnect(ctx)

		container := a.cfg.Storage.Container

		switch {
		case list:
			entries, err := blobs.List(ctx, container)
			if err != nil {
				log.Fatalf("Failed to list blobs: %v", err)
			}
			fmt.Printf("Files in container %s:\n", container)
			for i, blob := range entries {
				fmt.Printf("  %d. %s (%.2f MB)\n", i+1, blob.Name, float64(blob.Size)/(1024*1024))
			}
			fmt.Printf("Total: %d files\n", len(entries))

		case deleteName != "":
			if err := blobs.Delete(ctx, container, deleteName); err != nil {
				log.Fatalf("Failed to delete %s: %v", deleteName, err)
			}
			fmt.Println("Deleted:", deleteName)

		case deleteAll:
			entries, err := blobs.List(ctx, container)
			if err != nil {
				log.Fatalf("Failed to list blobs: %v", err)
			}
			for _, blob := range entries {
				if err := blobs.Delete(ctx, container, blob.Name); err != nil {
					log.Fatalf("Failed to delete %s: %v", blob.Name, err)
				}
				fmt.Println("Deleted:", blob.Name)
			}
			fmt.Printf("Deleted %d files\n", len(entries))

		default:
			files, err := utils.ListPDFFiles(dir)
			if err != nil {
				log.Fatalf("Failed to read directory: %v", err)
			}
			if len(files) == 0 {
				fmt.Printf("No PDF files found in %s\n", dir)
				return
			}

			uploaded := 0
			for i, name := range files {
				fmt.Printf("[%d/%d] Uploading: %s\n", i+1, len(files), name)
				data, err := os.ReadFile(filepath.Join(dir, name))
				if err != nil {
					fmt.Println("  Error:", err)
					continue
				}
				if err := blobs.Upload(ctx, container, name, data, true); err != nil {
					fmt.Println("  Error:", err)
					continue
				}
				uploaded++
			}
			fmt.Printf("Upload complete: %d/%d files\n", uploaded, len(files))
		}
	},
}

func init() {
	rootCmd.AddCommand(uploadDocumentsCmd)

	uploadDocumentsCmd.Flags().StringP("dir", "D", "./pdfs", "Local directory containing PDF files")
	uploadDocumentsCmd.Flags().Bool("list", false, "List blobs in the container instead of uploading")
	uploadDocumentsCmd.Flags().String("delete", "", "Delete one blob by name")
	uploadDocumentsCmd.Flags().Bool("delete-all", false, "Delete every blob in the container")
}
