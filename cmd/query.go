/*
Copyright © 2025 docrag
*/
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docrag/docrag-be/service"
	"github.com/docrag/docrag-be/types"
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Ask questions grounded in the indexed documents",
	Long: `Starts an interactive loop that answers free-text questions using the
indexed chunks as grounding context. Prefix a question with "hybrid:" to
combine vector similarity with keyword matching. Type quit, exit or q to
leave.

With --question a single question is answered and the process exits, which is
handy for scripted tests.`,
	Run: func(cmd *cobra.Command, args []string) {
		question, _ := cmd.Flags().GetString("question")
		topK, _ := cmd.Flags().GetInt("top-k")
		hybrid, _ := cmd.Flags().GetBool("hybrid")

		a, err := newApp()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer a.close()

		ctx := context.Background()

		if topK <= 0 {
			topK = a.cfg.Indexing.TopK
		}

		queries, err := buildQueryService(ctx, a)
		if err != nil {
			log.Fatalf("Failed to initialize query service: %v", err)
		}

		if question != "" {
			runQuery(ctx, queries, question, topK, hybrid)
			return
		}

		interactiveLoop(ctx, queries, topK)
	},
}

func buildQueryService(ctx context.Context, a *app) (*service.QueryService, error) {
	index, err := a.newVectorIndex()
	if err != nil {
		return nil, err
	}
	if err := index.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	ai, err := a.newAIService(ctx)
	if err != nil {
		return nil, err
	}
	return service.NewQueryService(a.newEmbedder(), index, ai, a.logger), nil
}

func interactiveLoop(ctx context.Context, queries *service.QueryService, topK int) {
	fmt.Println("Ask questions about your documents, or type 'quit' to exit.")
	fmt.Println("Prefix with 'hybrid:' to use hybrid search instead of pure vector.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return
		}
		question := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(question) {
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return
		case "":
			continue
		}

		hybrid := false
		if strings.HasPrefix(strings.ToLower(question), "hybrid:") {
			hybrid = true
			question = strings.TrimSpace(question[len("hybrid:"):])
		}

		runQuery(ctx, queries, question, topK, hybrid)
	}
}

func runQuery(ctx context.Context, queries *service.QueryService, question string, topK int, hybrid bool) {
	result, err := queries.Query(ctx, question, topK, hybrid)
	if err != nil {
		// The query stays retryable; just surface the failure.
		fmt.Println("Error:", err)
		fmt.Println("Please try again.")
		return
	}

	printResult(result)
}

func printResult(result *types.QueryResult) {
	fmt.Println(strings.Repeat("-", 70))
	fmt.Println("Answer:")
	fmt.Println()
	fmt.Println(result.Answer)
	fmt.Println()
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("Retrieved %d chunks from %d file(s)\n", result.NumChunks, len(result.Sources))
	if len(result.Sources) > 0 {
		fmt.Println("Sources:", strings.Join(result.Sources, ", "))
	}
	fmt.Println(strings.Repeat("-", 70))
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringP("question", "q", "", "Answer a single question and exit")
	queryCmd.Flags().IntP("top-k", "k", 0, "Number of chunks to retrieve")
	queryCmd.Flags().Bool("hybrid", false, "Use hybrid search for --question mode")
}
