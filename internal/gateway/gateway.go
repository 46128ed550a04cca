// Package gateway provides the boundary through which the pipeline invokes
// externally supplied ML models: an image captioning/scoring model, a text
// generator and a sentiment classifier.
package gateway

import (
	"context"

	"github.com/marek-bazler/dating-profile-optimizer/internal/types"
)

// PhotoAnalysis is the tagged success payload of a caption-and-score call.
type PhotoAnalysis struct {
	Caption string  `json:"caption"`
	Score   float64 `json:"attractiveness_score"` // 0-1 attractiveness proxy
}

// Gateway is an abstraction over the model providers. Readiness is explicit:
// callers check Ready at call time instead of reading ambient state, and every
// call returns either a typed payload or one of the named error kinds in the
// types package.
type Gateway interface {
	// Ready reports whether the underlying models can serve calls.
	// Returns types.ErrModelUnavailable (wrapped) when they cannot.
	Ready() error
	// CaptionAndScore produces a caption and an attractiveness-proxy score
	// for the image at the given path.
	CaptionAndScore(ctx context.Context, imagePath string) (*PhotoAnalysis, error)
	// GenerateText generates free text from a prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// ClassifySentiment classifies the tone of a piece of text.
	ClassifySentiment(ctx context.Context, text string) (types.Sentiment, error)
	// Close releases any resources held by the gateway.
	Close() error
}
