/*
Copyright © 2025 docrag
*/
package cmd

import (
	"context"
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/docrag/docrag-be/handler"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the query path over WebSocket",
	Long:  `Starts an HTTP server exposing the question path at /ws/query.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")

		a, err := newApp()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer a.close()

		ctx := context.Background()

		if port == "" {
			port = a.cfg.Port
		}

		queries, err := buildQueryService(ctx, a)
		if err != nil {
			log.Fatalf("Failed to initialize query service: %v", err)
		}

		queryHandler := handler.NewQueryHandler(queries, a.cfg.Indexing.TopK, a.logger)

		mux := http.NewServeMux()
		mux.HandleFunc("/ws/query", queryHandler.HandleQuery)
		mux.Handle("/health", queryHandler.Health())

		a.logger.Infow("starting server", "port", port)
		if err := http.ListenAndServe(":"+port, mux); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (defaults to config)")
}
