// Command matchrate parses resumes into structured records and rebuilds
// formatted documents from them, without the HTTP service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "matchrate",
	Short:         "Resume parser and document reconstructor",
	Long:          "matchrate turns PDF, DOCX or plain-text resumes into structured JSON records and renders records back to DOCX or text.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
