/*
Copyright © 2025 docrag
*/
package main

import (
	"github.com/joho/godotenv"

	"github.com/docrag/docrag-be/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	// A missing .env is fine; secrets may come from the environment directly.
	_ = godotenv.Load()
}
