// Package export writes the artifacts of one optimization session to an
// output directory.
package export

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/marek-bazler/dating-profile-optimizer/internal/schemas"
	"github.com/marek-bazler/dating-profile-optimizer/internal/types"
)

// File names written into the output directory.
const (
	DescriptionFileName     = "profile_description.txt"
	RecommendationsFileName = "photo_recommendations.json"
	ResultFileName          = "profile_result.json"
)

//go:embed profile_result_schema.json
var resultSchema string

// Files lists the paths written by one export.
type Files struct {
	DescriptionPath     string
	RecommendationsPath string
	ResultPath          string
}

// recommendation is the user-facing shape of one selected photo.
type recommendation struct {
	Rank                int     `json:"rank"`
	Path                string  `json:"path"`
	Caption             string  `json:"caption,omitempty"`
	RankScore           float64 `json:"rank_score"`
	AttractivenessScore float64 `json:"attractiveness_score"`
	Sentiment           string  `json:"sentiment,omitempty"`
}

// recommendationsDoc is the top level of photo_recommendations.json.
type recommendationsDoc struct {
	SessionID       string           `json:"session_id"`
	Recommendations []recommendation `json:"recommendations"`
}

// WriteResult writes the session artifacts to outputDir: the description as
// plain text, the photo recommendations, and the full result JSON. The result
// JSON is schema-validated before anything is written.
func WriteResult(result *types.ProfileResult, outputDir string) (*Files, error) {
	if result == nil {
		return nil, fmt.Errorf("nothing to export: result is nil")
	}
	if result.Description == nil {
		return nil, fmt.Errorf("nothing to export: result has no description")
	}

	resultJSON, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize result: %w", err)
	}
	if err := schemas.ValidateJSONString(resultSchema, string(resultJSON)); err != nil {
		return nil, fmt.Errorf("result failed schema validation: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	files := &Files{
		DescriptionPath:     filepath.Join(outputDir, DescriptionFileName),
		RecommendationsPath: filepath.Join(outputDir, RecommendationsFileName),
		ResultPath:          filepath.Join(outputDir, ResultFileName),
	}

	if err := os.WriteFile(files.DescriptionPath, []byte(result.Description.Text+"\n"), 0644); err != nil {
		return nil, fmt.Errorf("failed to write description: %w", err)
	}

	recsJSON, err := json.MarshalIndent(buildRecommendations(result), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize recommendations: %w", err)
	}
	if err := os.WriteFile(files.RecommendationsPath, recsJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write recommendations: %w", err)
	}

	if err := os.WriteFile(files.ResultPath, resultJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write result: %w", err)
	}

	return files, nil
}

// ValidateResultFile checks a previously exported profile_result.json against
// the result schema.
func ValidateResultFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read result file: %w", err)
	}
	return schemas.ValidateJSONString(resultSchema, string(data))
}

func buildRecommendations(result *types.ProfileResult) recommendationsDoc {
	doc := recommendationsDoc{
		SessionID:       result.SessionID.String(),
		Recommendations: make([]recommendation, 0, len(result.SelectedPhotos)),
	}
	for i, photo := range result.SelectedPhotos {
		rank := photo.RankPosition
		if rank == 0 {
			rank = i + 1
		}
		doc.Recommendations = append(doc.Recommendations, recommendation{
			Rank:                rank,
			Path:                photo.Path,
			Caption:             photo.Caption,
			RankScore:           photo.RankScore,
			AttractivenessScore: photo.AttractivenessScore,
			Sentiment:           photo.Sentiment.Label,
		})
	}
	return doc
}
