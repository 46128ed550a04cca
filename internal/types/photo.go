// Package types provides type definitions for structured data used throughout the profile-optimizer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/google/uuid"

// Sentiment labels returned by the tone classifier.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Sentiment represents a tone classification of a piece of text.
type Sentiment struct {
	Label string  `json:"label"` // positive, neutral, negative
	Score float64 `json:"score"` // classifier confidence, 0-1
}

// PhotoRecord holds the per-photo scoring state produced by one analysis pass.
// Raw model outputs (Caption, AttractivenessScore, Sentiment) are written once
// when the photo is scored; RankScore and RankPosition are recomputed on every
// ranking pass and are a pure function of the raw outputs.
type PhotoRecord struct {
	ID   uuid.UUID `json:"id"`
	Path string    `json:"path"`
	// UploadIndex is the photo's position in the original upload order.
	// It breaks rank-score ties so ranking stays deterministic.
	UploadIndex int `json:"upload_index"`

	// Raw model outputs
	Caption             string    `json:"caption"`
	AttractivenessScore float64   `json:"attractiveness_score"` // 0-1
	Sentiment           Sentiment `json:"sentiment"`

	// Computed by ranking
	RankScore    float64 `json:"rank_score"`
	RankPosition int     `json:"rank_position,omitempty"` // 1-based, 0 before ranking
}

// PhotoFailure records a photo that could not be analyzed. One bad photo does
// not abort the batch; failures are reported alongside the successful records.
type PhotoFailure struct {
	Path        string `json:"path"`
	UploadIndex int    `json:"upload_index"`
	Reason      string `json:"reason"`
}

// AnalysisReport is the outcome of one photo analysis batch.
type AnalysisReport struct {
	Records  []PhotoRecord  `json:"records"`
	Failures []PhotoFailure `json:"failures,omitempty"`
}
