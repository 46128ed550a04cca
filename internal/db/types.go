package db

import (
	"time"

	"github.com/google/uuid"
)

// Session represents one optimization session record
type Session struct {
	ID          uuid.UUID  `json:"id"`
	PhotoCount  int        `json:"photo_count"`
	Style       string     `json:"style"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Session status values
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ArtifactStep constants for known artifact types
const (
	StepAnalysisReport = "analysis_report"
	StepRankedPhotos   = "ranked_photos"
	StepSelectedPhotos = "selected_photos"
	StepProfileResult  = "profile_result"
	StepDescription    = "description"
)
