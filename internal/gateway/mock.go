package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/marek-bazler/dating-profile-optimizer/internal/types"
)

// Mock is a scriptable Gateway for tests. Analyses are keyed by image path;
// unkeyed paths fall back to Default. The zero value is a ready gateway that
// fails every call.
type Mock struct {
	mu sync.Mutex

	NotReady bool

	// Analyses maps image path -> scripted result. AnalysisErrs maps image
	// path -> scripted error.
	Analyses     map[string]PhotoAnalysis
	AnalysisErrs map[string]error
	Default      *PhotoAnalysis

	GeneratedText string
	GenerateErr   error

	Sentiment    types.Sentiment
	SentimentErr error

	// Call counters for asserting the gateway was (or was not) invoked.
	CaptionCalls   int
	GenerateCalls  int
	SentimentCalls int
}

// Ready reports the scripted readiness state.
func (m *Mock) Ready() error {
	if m.NotReady {
		return fmt.Errorf("%w: mock gateway not ready", types.ErrModelUnavailable)
	}
	return nil
}

// CaptionAndScore returns the scripted analysis for the path.
func (m *Mock) CaptionAndScore(_ context.Context, imagePath string) (*PhotoAnalysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CaptionCalls++

	if err := m.Ready(); err != nil {
		return nil, err
	}
	if err, ok := m.AnalysisErrs[imagePath]; ok {
		return nil, err
	}
	if result, ok := m.Analyses[imagePath]; ok {
		out := result
		return &out, nil
	}
	if m.Default != nil {
		out := *m.Default
		return &out, nil
	}
	return nil, fmt.Errorf("%w: no scripted analysis for %s", types.ErrGenerationFailed, imagePath)
}

// GenerateText returns the scripted generation result.
func (m *Mock) GenerateText(_ context.Context, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateCalls++

	if err := m.Ready(); err != nil {
		return "", err
	}
	if m.GenerateErr != nil {
		return "", m.GenerateErr
	}
	return m.GeneratedText, nil
}

// ClassifySentiment returns the scripted sentiment.
func (m *Mock) ClassifySentiment(_ context.Context, _ string) (types.Sentiment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentimentCalls++

	if err := m.Ready(); err != nil {
		return types.Sentiment{}, err
	}
	if m.SentimentErr != nil {
		return types.Sentiment{}, m.SentimentErr
	}
	return m.Sentiment, nil
}

// Close is a no-op.
func (m *Mock) Close() error { return nil }
