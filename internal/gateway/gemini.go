package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/marek-bazler/dating-profile-optimizer/internal/prompts"
	"github.com/marek-bazler/dating-profile-optimizer/internal/types"
)

// GeminiGateway implements Gateway on top of Google Gemini models.
type GeminiGateway struct {
	client *genai.Client
	config *Config
}

// NewGeminiGateway creates a gateway backed by the Gemini API.
func NewGeminiGateway(ctx context.Context, config *Config, apiKey string) (*GeminiGateway, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", types.ErrModelUnavailable)
	}
	if config == nil {
		config = DefaultConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", types.ErrModelUnavailable, err)
	}

	return &GeminiGateway{client: client, config: config}, nil
}

// Ready reports whether the gateway can serve model calls.
func (g *GeminiGateway) Ready() error {
	if g == nil || g.client == nil {
		return fmt.Errorf("%w: gemini client not initialized", types.ErrModelUnavailable)
	}
	return nil
}

// photoAnalysisResponse is the expected JSON response from the vision model.
type photoAnalysisResponse struct {
	Caption             string  `json:"caption"`
	AttractivenessScore float64 `json:"attractiveness_score"`
}

// CaptionAndScore sends the image with a judging prompt to the vision model
// and parses the structured response.
func (g *GeminiGateway) CaptionAndScore(ctx context.Context, imagePath string) (*PhotoAnalysis, error) {
	if err := g.Ready(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", types.ErrInvalidImage, imagePath, err)
	}
	format, err := imageFormat(imagePath)
	if err != nil {
		return nil, err
	}

	model := g.client.GenerativeModel(g.config.GetModel(TierStandard))
	model.SetTemperature(0.1) // Low temperature for consistent scoring
	model.ResponseMIMEType = "application/json"

	prompt := prompts.MustGet("analysis.json", "caption-and-score")
	resp, err := model.GenerateContent(ctx, genai.ImageData(format, data), genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("%w: caption call for %s: %v", types.ErrGenerationFailed, imagePath, err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrGenerationFailed, err)
	}

	var parsed photoAnalysisResponse
	if err := json.Unmarshal([]byte(CleanJSONBlock(text)), &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed analysis response: %v (content: %s)", types.ErrGenerationFailed, err, text)
	}
	if strings.TrimSpace(parsed.Caption) == "" {
		return nil, fmt.Errorf("%w: analysis response missing caption", types.ErrGenerationFailed)
	}

	return &PhotoAnalysis{
		Caption: strings.TrimSpace(parsed.Caption),
		Score:   clamp01(parsed.AttractivenessScore),
	}, nil
}

// GenerateText generates free text from a prompt using the advanced tier.
func (g *GeminiGateway) GenerateText(ctx context.Context, prompt string) (string, error) {
	if err := g.Ready(); err != nil {
		return "", err
	}

	model := g.client.GenerativeModel(g.config.GetModel(TierAdvanced))
	model.SetTemperature(0.8) // Higher temperature for varied descriptions

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrGenerationFailed, err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrGenerationFailed, err)
	}
	return text, nil
}

// sentimentResponse is the expected JSON response from the tone classifier.
type sentimentResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ClassifySentiment classifies the tone of a piece of text using the lite tier.
func (g *GeminiGateway) ClassifySentiment(ctx context.Context, text string) (types.Sentiment, error) {
	if err := g.Ready(); err != nil {
		return types.Sentiment{}, err
	}

	model := g.client.GenerativeModel(g.config.GetModel(TierLite))
	model.SetTemperature(0.1) // Low temperature for consistent classification
	model.ResponseMIMEType = "application/json"

	template := prompts.MustGet("sentiment.json", "classify-tone")
	prompt := prompts.Format(template, map[string]string{"Text": text})

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return types.Sentiment{}, fmt.Errorf("%w: sentiment call: %v", types.ErrGenerationFailed, err)
	}

	raw, err := extractTextFromResponse(resp)
	if err != nil {
		return types.Sentiment{}, fmt.Errorf("%w: %v", types.ErrGenerationFailed, err)
	}

	var parsed sentimentResponse
	if err := json.Unmarshal([]byte(CleanJSONBlock(raw)), &parsed); err != nil {
		return types.Sentiment{}, fmt.Errorf("%w: malformed sentiment response: %v (content: %s)", types.ErrGenerationFailed, err, raw)
	}

	label := strings.ToLower(strings.TrimSpace(parsed.Label))
	switch label {
	case types.SentimentPositive, types.SentimentNeutral, types.SentimentNegative:
	default:
		return types.Sentiment{}, fmt.Errorf("%w: unknown sentiment label %q", types.ErrGenerationFailed, parsed.Label)
	}

	return types.Sentiment{Label: label, Score: clamp01(parsed.Score)}, nil
}

// Close releases resources held by the gateway.
func (g *GeminiGateway) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from a Gemini API response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

// imageFormat maps a file extension to the format name the Gemini API expects.
func imageFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "jpeg", nil
	case ".png":
		return "png", nil
	case ".gif":
		return "gif", nil
	case ".webp":
		return "webp", nil
	default:
		return "", fmt.Errorf("%w: unsupported image format %s", types.ErrInvalidImage, path)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
