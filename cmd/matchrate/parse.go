package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"matchrate-backend/internal/extract"
	"matchrate-backend/internal/shared/storage/object"
	"matchrate-backend/resume/parse"
	"matchrate-backend/resume/record"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a resume file into record JSON",
	Long:  "Extract text from a PDF, DOCX or text resume and print the structured record as JSON. Use --report to include detected sections, warnings and confidence.",
	RunE:  runParse,
}

var (
	parseInputFile  string
	parseOutputFile string
	parseReport     bool
)

func init() {
	parseCmd.Flags().StringVarP(&parseInputFile, "in", "i", "", "Path to the resume file (- for stdin text)")
	parseCmd.Flags().StringVarP(&parseOutputFile, "out", "o", "", "Write JSON here instead of stdout")
	parseCmd.Flags().BoolVar(&parseReport, "report", false, "Include sections, warnings and confidence")
	_ = parseCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(parseCmd)
}

type parseOutput struct {
	Record     record.Record   `json:"record"`
	Sections   []string        `json:"sections"`
	Warnings   []parse.Warning `json:"warnings"`
	Confidence float64         `json:"confidence"`
}

func runParse(cmd *cobra.Command, _ []string) error {
	text, err := readResumeText(cmd, parseInputFile)
	if err != nil {
		return err
	}

	rec, report := parse.ParseWithReport(text)
	var out any = rec
	if parseReport {
		out = parseOutput{
			Record:     rec,
			Sections:   append([]string{}, report.Sections...),
			Warnings:   append([]parse.Warning{}, report.Warnings...),
			Confidence: report.Confidence(),
		}
	}

	payload, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	payload = append(payload, '\n')
	return writeOutput(cmd, parseOutputFile, payload)
}

// readResumeText loads path and extracts its text according to its content.
func readResumeText(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	head := data
	if len(head) > object.SniffLen {
		head = head[:object.SniffLen]
	}
	mimeType := object.DetectMime(head, filepath.Base(path))
	text, err := extract.ExtractTextFromBytes(cmd.Context(), data, mimeType, filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w", path, err)
	}
	return text, nil
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", path, len(data))
	return nil
}
