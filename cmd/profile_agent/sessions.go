package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/marek-bazler/dating-profile-optimizer/internal/db"
)

var sessionsCommand = &cobra.Command{
	Use:   "sessions [session-id]",
	Short: "List stored optimization sessions or show one session's result",
	Long:  "Without arguments, lists recent sessions from the database. With a session ID, prints that session and its stored profile result.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  sessionsCmd,
}

var (
	sessionsDatabaseURL string
	sessionsLimit       int
)

func init() {
	sessionsCommand.Flags().StringVar(&sessionsDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	sessionsCommand.Flags().IntVarP(&sessionsLimit, "limit", "n", 10, "How many sessions to list")

	rootCmd.AddCommand(sessionsCommand)
}

func sessionsCmd(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	dbURL := sessionsDatabaseURL
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	database, err := db.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if len(args) == 1 {
		return showSession(ctx, database, args[0])
	}
	return listSessions(ctx, database)
}

func listSessions(ctx context.Context, database *db.DB) error {
	sessions, err := database.ListSessions(ctx, sessionsLimit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	for _, session := range sessions {
		line := fmt.Sprintf("%s  %s  %d photos  style=%s  %s",
			session.ID, session.CreatedAt.Format("2006-01-02 15:04"),
			session.PhotoCount, session.Style, session.Status)
		if session.CompletedAt != nil {
			line += "  completed " + session.CompletedAt.Format("15:04:05")
		}
		fmt.Println(line)
	}
	return nil
}

func showSession(ctx context.Context, database *db.DB, rawID string) error {
	sessionID, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid session ID %q: %w", rawID, err)
	}

	session, err := database.GetSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return fmt.Errorf("session %s not found", sessionID)
	}

	fmt.Printf("Session %s: %d photos, style=%s, status=%s\n",
		session.ID, session.PhotoCount, session.Style, session.Status)

	result, err := database.GetArtifact(ctx, sessionID, db.StepProfileResult)
	if err != nil {
		return fmt.Errorf("failed to get profile result: %w", err)
	}
	if result == nil {
		fmt.Println("No profile result stored for this session.")
		return nil
	}

	var pretty json.RawMessage = result
	formatted, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		fmt.Println(string(result))
		return nil
	}
	fmt.Println(string(formatted))
	return nil
}
