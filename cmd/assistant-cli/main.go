package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/NayemHasanLoLMan/Multilingual-RAG-Chatbot-with-Rule-based-Flow/cmd/assistant-cli/commands"
)

func main() {
	_ = godotenv.Load()

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
