package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/marek-bazler/dating-profile-optimizer/internal/analysis"
	"github.com/marek-bazler/dating-profile-optimizer/internal/gateway"
	"github.com/marek-bazler/dating-profile-optimizer/internal/observability"
	"github.com/marek-bazler/dating-profile-optimizer/internal/ranking"
	"github.com/marek-bazler/dating-profile-optimizer/internal/types"
)

var analyzeCommand = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze and rank photos without generating a description",
	Long:  "Runs photo analysis and ranking only, then writes the ranked report as JSON. Useful for comparing photo sets before a full run.",
	RunE:  analyzeCmd,
}

var (
	analyzePhotosDir   string
	analyzeOutput      string
	analyzeAPIKey      string
	analyzeConcurrency int
	analyzeVerbose     bool
)

func init() {
	analyzeCommand.Flags().StringVarP(&analyzePhotosDir, "photos", "p", "", "Directory of candidate photos (required)")
	analyzeCommand.Flags().StringVarP(&analyzeOutput, "output", "o", "ranked_photos.json", "Output JSON file for the ranked report")
	analyzeCommand.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	analyzeCommand.Flags().IntVar(&analyzeConcurrency, "concurrency", 0, "Parallel photo analyses")
	analyzeCommand.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = analyzeCommand.MarkFlagRequired("photos")

	rootCmd.AddCommand(analyzeCommand)
}

func analyzeCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	apiKey := analyzeAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	paths, err := analysis.CollectPhotos(analyzePhotosDir)
	if err != nil {
		return fmt.Errorf("collecting photos failed: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no supported photos found in %s", analyzePhotosDir)
	}
	fmt.Printf("Analyzing %d photos from %s...\n", len(paths), analyzePhotosDir)

	gw, err := gateway.NewGeminiGateway(ctx, gateway.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("gateway initialization failed: %w", err)
	}
	defer func() { _ = gw.Close() }()

	report, err := analysis.AnalyzeBatch(ctx, gw, paths, analyzeConcurrency)
	if err != nil {
		return fmt.Errorf("photo analysis failed: %w", err)
	}
	if len(report.Records) == 0 {
		return fmt.Errorf("no photos could be analyzed")
	}

	ranked := &types.AnalysisReport{
		Records:  ranking.Rank(report.Records, ranking.DefaultPolicy()),
		Failures: report.Failures,
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintAnalysisReport(ranked)
	if analyzeVerbose {
		printer.PrintFailures(ranked.Failures)
	}

	jsonBytes, err := json.MarshalIndent(ranked, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}
	if outputDir := filepath.Dir(analyzeOutput); outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(analyzeOutput, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Printf("Ranked report written to %s\n", analyzeOutput)
	return nil
}
