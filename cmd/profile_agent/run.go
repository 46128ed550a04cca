package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marek-bazler/dating-profile-optimizer/internal/config"
	"github.com/marek-bazler/dating-profile-optimizer/internal/pipeline"
	"github.com/marek-bazler/dating-profile-optimizer/internal/types"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full profile optimization pipeline end-to-end",
	Long: `Orchestrates the entire optimization process: photo collection -> analysis -> ranking -> selection -> description generation -> export.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath     string
	runPhotosDir      string
	runFacebookExport string
	runAge            int
	runOccupation     string
	runLocation       string
	runInterests      string
	runPersonality    string
	runLookingFor     string
	runStyle          string
	runMaxPhotos      int
	runConcurrency    int
	runOutputDir      string
	runAPIKey         string
	runVerbose        bool
	runDatabaseURL    string
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runPhotosDir, "photos", "p", "", "Directory of candidate photos (mutually exclusive with --facebook-export)")
	runCommand.Flags().StringVar(&runFacebookExport, "facebook-export", "", "Facebook data-export .zip or .json (mutually exclusive with --photos)")
	runCommand.Flags().IntVar(&runAge, "age", 0, "Your age (18-100)")
	runCommand.Flags().StringVar(&runOccupation, "occupation", "", "Your occupation")
	runCommand.Flags().StringVar(&runLocation, "location", "", "Where you live")
	runCommand.Flags().StringVar(&runInterests, "interests", "", "Comma-separated interests")
	runCommand.Flags().StringVar(&runPersonality, "personality", "", "A few words about your personality")
	runCommand.Flags().StringVar(&runLookingFor, "looking-for", "", "What you are looking for")
	runCommand.Flags().StringVarP(&runStyle, "style", "s", "", "Description style: balanced, humorous, adventurous, romantic or professional")
	runCommand.Flags().IntVarP(&runMaxPhotos, "max-photos", "k", 0, "How many photos to select (capped at 5)")
	runCommand.Flags().IntVar(&runConcurrency, "concurrency", 0, "Parallel photo analyses")
	runCommand.Flags().StringVarP(&runOutputDir, "output", "o", "", "Directory for exported artifacts")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for artifact persistence
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
		if runVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("photos") {
		cfg.PhotosDir = runPhotosDir
	}
	if cmd.Flags().Changed("facebook-export") {
		cfg.FacebookExport = runFacebookExport
	}
	if cmd.Flags().Changed("age") {
		cfg.Age = runAge
	}
	if cmd.Flags().Changed("occupation") {
		cfg.Occupation = runOccupation
	}
	if cmd.Flags().Changed("location") {
		cfg.Location = runLocation
	}
	if cmd.Flags().Changed("interests") {
		cfg.Interests = runInterests
	}
	if cmd.Flags().Changed("personality") {
		cfg.Personality = runPersonality
	}
	if cmd.Flags().Changed("looking-for") {
		cfg.LookingFor = runLookingFor
	}
	if cmd.Flags().Changed("style") {
		cfg.Style = runStyle
	}
	if cmd.Flags().Changed("max-photos") {
		cfg.MaxPhotos = runMaxPhotos
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = runConcurrency
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputDir = runOutputDir
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = runAPIKey
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}

	// Step 3: Apply defaults for unset values
	defaults := config.Config{
		Style:     types.StyleBalanced,
		OutputDir: "optimized_profile",
	}
	cfg = cfg.MergeWithDefaults(defaults)

	// Step 4: Validate required fields
	if cfg.PhotosDir == "" && cfg.FacebookExport == "" {
		return fmt.Errorf("either --photos or --facebook-export must be provided (via flag or config)")
	}
	if cfg.PhotosDir != "" && cfg.FacebookExport != "" {
		return fmt.Errorf("--photos and --facebook-export are mutually exclusive; provide only one")
	}

	// Step 5: API Key handling
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	// Step 6: Database URL is optional; the pipeline degrades without it
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	opts := pipeline.RunOptions{
		PhotosDir:      cfg.PhotosDir,
		FacebookExport: cfg.FacebookExport,
		Facts: types.ProfileFacts{
			Age:         cfg.Age,
			Occupation:  cfg.Occupation,
			Location:    cfg.Location,
			Interests:   cfg.Interests,
			Personality: cfg.Personality,
			LookingFor:  cfg.LookingFor,
			Style:       cfg.Style,
		},
		MaxPhotos:   cfg.MaxPhotos,
		Concurrency: cfg.Concurrency,
		OutputDir:   cfg.OutputDir,
		APIKey:      cfg.APIKey,
		Verbose:     cfg.Verbose,
		DatabaseURL: cfg.DatabaseURL,
	}

	_, err := pipeline.Run(ctx, opts)
	return err
}
