package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"matchrate-backend/internal/exports"
	"matchrate-backend/resume/parse"
	"matchrate-backend/resume/record"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a record or resume into DOCX or text",
	Long:  "Render a record JSON file, or any resume the parse command accepts, into a formatted DOCX or plain-text resume.",
	RunE:  runRender,
}

var (
	renderInputFile  string
	renderOutputFile string
	renderFormat     string
)

func init() {
	renderCmd.Flags().StringVarP(&renderInputFile, "in", "i", "", "Record JSON (.json) or resume file")
	renderCmd.Flags().StringVarP(&renderOutputFile, "out", "o", "", "Output path (stdout when omitted for text)")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "", "docx or text (default from --out extension, else docx)")
	_ = renderCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	format := resolveFormat(renderFormat, renderOutputFile)
	if !exports.ValidFormat(format) {
		return fmt.Errorf("unsupported format %q (want docx or text)", format)
	}
	if format == exports.FormatDOCX && renderOutputFile == "" {
		return fmt.Errorf("--out is required for docx output")
	}

	rec, err := loadRecord(cmd, renderInputFile)
	if err != nil {
		return err
	}

	data, _, err := exports.RenderRecord(rec, format)
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	return writeOutput(cmd, renderOutputFile, data)
}

func resolveFormat(flag, outPath string) string {
	if f := strings.ToLower(strings.TrimSpace(flag)); f != "" {
		return f
	}
	switch strings.ToLower(filepath.Ext(outPath)) {
	case ".txt", ".md":
		return exports.FormatText
	case "":
		if outPath == "" {
			return exports.FormatText
		}
	}
	return exports.FormatDOCX
}

// loadRecord decodes a record JSON file or parses any other resume file.
func loadRecord(cmd *cobra.Command, path string) (record.Record, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return record.Record{}, fmt.Errorf("failed to read input file: %w", err)
		}
		var rec record.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return record.Record{}, fmt.Errorf("invalid record JSON: %w", err)
		}
		return rec, nil
	}
	text, err := readResumeText(cmd, path)
	if err != nil {
		return record.Record{}, err
	}
	return parse.Parse(text), nil
}
