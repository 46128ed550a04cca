// Package pipeline provides the high-level orchestration for the profile
// optimization process.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/marek-bazler/dating-profile-optimizer/internal/analysis"
	"github.com/marek-bazler/dating-profile-optimizer/internal/assembly"
	"github.com/marek-bazler/dating-profile-optimizer/internal/db"
	"github.com/marek-bazler/dating-profile-optimizer/internal/export"
	"github.com/marek-bazler/dating-profile-optimizer/internal/facebook"
	"github.com/marek-bazler/dating-profile-optimizer/internal/gateway"
	"github.com/marek-bazler/dating-profile-optimizer/internal/observability"
	"github.com/marek-bazler/dating-profile-optimizer/internal/ranking"
	"github.com/marek-bazler/dating-profile-optimizer/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step      string `json:"step"`
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	Content   any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	PhotosDir      string
	FacebookExport string
	Facts          types.ProfileFacts
	MaxPhotos      int
	Concurrency    int
	OutputDir      string
	APIKey         string
	Verbose        bool
	DatabaseURL    string

	// Gateway overrides the default Gemini-backed gateway. Used by tests.
	Gateway    gateway.Gateway
	OnProgress ProgressCallback
}

// RunResult is the outcome of one pipeline run.
type RunResult struct {
	Profile  *types.ProfileResult
	Report   *types.AnalysisReport
	Exported *export.Files
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:    step,
			Message: message,
			Content: content,
		})
	}
}

// Run orchestrates the full optimization pipeline: load photos, analyze,
// rank, select, generate the description, assemble and export. All calls
// block; the caller owns any threading around this function.
func Run(ctx context.Context, opts RunOptions) (*RunResult, error) {

	printer := observability.NewPrinter(os.Stdout)

	// Initialize database connection if configured
	var database *db.DB
	var sessionID uuid.UUID
	if opts.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: Failed to connect to database: %v\n", err)
			fmt.Printf("Continuing without database persistence...\n")
			database = nil
		} else {
			defer database.Close()
			if opts.Verbose {
				fmt.Printf("[VERBOSE] Connected to database\n")
			}
		}
	}

	// Step 1: Collect candidate photos
	var photoPaths []string
	facts := opts.Facts
	if opts.FacebookExport != "" {
		fmt.Printf("Step 1/7: Importing Facebook export: %s...\n", opts.FacebookExport)
		parser := &facebook.Parser{}
		fbExport, err := parser.ParseExport(opts.FacebookExport)
		if err != nil {
			return nil, fmt.Errorf("facebook import failed: %w", err)
		}
		imported := facebook.ToImportResult(fbExport, time.Now())
		facts = mergeFacts(facts, imported.Facts)
		photoPaths = imported.PhotoPaths
		if opts.Verbose {
			fmt.Printf("[VERBOSE] Imported %d photos (%d referenced), %d interests\n",
				imported.AvailablePhotosCount, imported.TotalPhotosFound, imported.InterestsFound)
		}
	} else {
		fmt.Printf("Step 1/7: Collecting photos from %s...\n", opts.PhotosDir)
		var err error
		photoPaths, err = analysis.CollectPhotos(opts.PhotosDir)
		if err != nil {
			return nil, fmt.Errorf("collecting photos failed: %w", err)
		}
	}
	if len(photoPaths) == 0 {
		return nil, fmt.Errorf("no photos to analyze")
	}
	fmt.Printf("Found %d candidate photos.\n", len(photoPaths))
	emitProgress(&opts, "collect_photos", fmt.Sprintf("Collected %d photos", len(photoPaths)), nil)

	// Reject bad facts before any model call
	if err := facts.Validate(); err != nil {
		return nil, err
	}
	if opts.Verbose {
		printer.PrintProfileFacts(&facts)
	}

	gw := opts.Gateway
	if gw == nil {
		var err error
		gw, err = gateway.NewGeminiGateway(ctx, gateway.DefaultConfig(), opts.APIKey)
		if err != nil {
			return nil, fmt.Errorf("gateway initialization failed: %w", err)
		}
		defer func() { _ = gw.Close() }()
	}

	if database != nil {
		var err error
		sessionID, err = database.CreateSession(ctx, len(photoPaths), facts.Style)
		if err != nil {
			fmt.Printf("Warning: Failed to create database session: %v\n", err)
			sessionID = uuid.Nil
		} else if opts.Verbose {
			fmt.Printf("[VERBOSE] Created database session: %s\n", sessionID)
		}
	}

	// Step 2: Analyze photos
	fmt.Printf("Step 2/7: Analyzing %d photos...\n", len(photoPaths))
	report, err := analysis.AnalyzeBatch(ctx, gw, photoPaths, opts.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("photo analysis failed: %w", err)
	}
	if len(report.Failures) > 0 {
		fmt.Printf("Warning: %d photos could not be analyzed.\n", len(report.Failures))
		if opts.Verbose {
			printer.PrintFailures(report.Failures)
		}
	}
	if len(report.Records) == 0 {
		return nil, fmt.Errorf("no photos could be analyzed")
	}
	if database != nil && sessionID != uuid.Nil {
		_ = database.SaveArtifact(ctx, sessionID, db.StepAnalysisReport, report)
	}
	emitProgress(&opts, db.StepAnalysisReport,
		fmt.Sprintf("Analyzed %d photos (%d failed)", len(report.Records), len(report.Failures)), report)

	// Step 3: Rank
	fmt.Printf("Step 3/7: Ranking photos...\n")
	policy := ranking.DefaultPolicy()
	ranked := ranking.Rank(report.Records, policy)
	if opts.Verbose {
		printer.PrintAnalysisReport(&types.AnalysisReport{Records: ranked, Failures: report.Failures})
	}
	if database != nil && sessionID != uuid.Nil {
		_ = database.SaveArtifact(ctx, sessionID, db.StepRankedPhotos, ranked)
	}
	emitProgress(&opts, db.StepRankedPhotos, "Ranked photos", ranked)

	// Step 4: Select top photos. A profile never carries more than the
	// default selection size; larger requests are capped, not rejected.
	k := opts.MaxPhotos
	if k <= 0 || k > ranking.DefaultSelectionSize {
		k = ranking.DefaultSelectionSize
	}
	fmt.Printf("Step 4/7: Selecting top %d photos...\n", k)
	selected := ranking.Select(report.Records, k, policy)
	if database != nil && sessionID != uuid.Nil {
		_ = database.SaveArtifact(ctx, sessionID, db.StepSelectedPhotos, selected)
	}
	emitProgress(&opts, db.StepSelectedPhotos, fmt.Sprintf("Selected %d photos", len(selected)), selected)

	// Step 5: Generate description from the selected photos' captions
	fmt.Printf("Step 5/7: Generating profile description...\n")
	captions := make([]string, 0, len(selected))
	for _, photo := range selected {
		if photo.Caption != "" {
			captions = append(captions, photo.Caption)
		}
	}
	description, err := assembly.Generate(ctx, gw, &facts, captions)
	if err != nil {
		if database != nil && sessionID != uuid.Nil {
			_ = database.CompleteSession(ctx, sessionID, db.StatusFailed)
		}
		return nil, fmt.Errorf("description generation failed: %w", err)
	}
	if database != nil && sessionID != uuid.Nil {
		_ = database.SaveTextArtifact(ctx, sessionID, db.StepDescription, description.Text)
	}
	emitProgress(&opts, db.StepDescription, "Generated profile description", description)

	// Step 6: Assemble the result
	fmt.Printf("Step 6/7: Assembling profile...\n")
	profile, err := assembly.Assemble(selected, description, facts)
	if err != nil {
		return nil, fmt.Errorf("assembling profile failed: %w", err)
	}
	if sessionID != uuid.Nil {
		profile.SessionID = sessionID
	}
	if opts.Verbose {
		printer.PrintResult(profile)
	}
	if database != nil && sessionID != uuid.Nil {
		_ = database.SaveArtifact(ctx, sessionID, db.StepProfileResult, profile)
	}

	// Step 7: Export artifacts
	result := &RunResult{Profile: profile, Report: report}
	if opts.OutputDir != "" {
		fmt.Printf("Step 7/7: Exporting results to %s...\n", opts.OutputDir)
		files, err := export.WriteResult(profile, opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("export failed: %w", err)
		}
		result.Exported = files
		if opts.Verbose {
			fmt.Printf("[VERBOSE] Wrote %s, %s, %s\n",
				files.DescriptionPath, files.RecommendationsPath, files.ResultPath)
		}
	} else {
		fmt.Printf("Step 7/7: No output directory configured, skipping export.\n")
	}
	emitProgress(&opts, db.StepProfileResult, "Profile optimization complete", profile)

	if database != nil && sessionID != uuid.Nil {
		_ = database.CompleteSession(ctx, sessionID, db.StatusCompleted)
	}

	fmt.Printf("Done! Selected %d photos.\n", len(profile.SelectedPhotos))
	return result, nil
}

// mergeFacts fills empty fields of explicit facts from imported ones.
// Explicit values always win.
func mergeFacts(explicit, imported types.ProfileFacts) types.ProfileFacts {
	merged := explicit
	if merged.Age == 0 {
		merged.Age = imported.Age
	}
	if merged.Occupation == "" {
		merged.Occupation = imported.Occupation
	}
	if merged.Location == "" {
		merged.Location = imported.Location
	}
	if merged.Interests == "" {
		merged.Interests = imported.Interests
	}
	if merged.Personality == "" {
		merged.Personality = imported.Personality
	}
	return merged
}
