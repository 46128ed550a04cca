package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/marek-bazler/dating-profile-optimizer/internal/facebook"
)

var importFacebookCommand = &cobra.Command{
	Use:   "import-facebook",
	Short: "Extract profile facts and photos from a Facebook data export",
	Long:  "Parses a Facebook data-export archive (.zip or .json) and writes the extracted profile facts and candidate photo list as JSON for review before a full run.",
	RunE:  importFacebookCmd,
}

var (
	importExportPath string
	importOutput     string
	importExtractDir string
)

func init() {
	importFacebookCommand.Flags().StringVarP(&importExportPath, "export", "e", "", "Path to the Facebook export .zip or .json (required)")
	importFacebookCommand.Flags().StringVarP(&importOutput, "output", "o", "facebook_import.json", "Output JSON file")
	importFacebookCommand.Flags().StringVar(&importExtractDir, "extract-dir", "", "Where to unpack ZIP archives (default: next to the archive)")

	_ = importFacebookCommand.MarkFlagRequired("export")

	rootCmd.AddCommand(importFacebookCommand)
}

func importFacebookCmd(_ *cobra.Command, _ []string) error {
	fmt.Printf("Parsing Facebook export: %s...\n", importExportPath)

	parser := &facebook.Parser{ExtractDir: importExtractDir}
	fbExport, err := parser.ParseExport(importExportPath)
	if err != nil {
		return fmt.Errorf("failed to parse export: %w", err)
	}

	result := facebook.ToImportResult(fbExport, time.Now())

	fmt.Printf("Found %d photos (%d with local files), %d interests, %d posts.\n",
		result.TotalPhotosFound, result.AvailablePhotosCount, result.InterestsFound, result.PostsAnalyzed)
	if result.Facts.Age > 0 {
		fmt.Printf("Profile: age %d, %s\n", result.Facts.Age, result.Facts.Occupation)
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize import result: %w", err)
	}
	if outputDir := filepath.Dir(importOutput); outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(importOutput, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write import result: %w", err)
	}

	fmt.Printf("Import result written to %s\n", importOutput)
	return nil
}
