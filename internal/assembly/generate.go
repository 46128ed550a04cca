// Package assembly turns profile facts and selected photos into the final
// profile result: it drives description generation and the pure combination
// step that produces the exportable artifact.
package assembly

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/marek-bazler/dating-profile-optimizer/internal/gateway"
	"github.com/marek-bazler/dating-profile-optimizer/internal/prompts"
	"github.com/marek-bazler/dating-profile-optimizer/internal/types"
)

const (
	// maxCaptionsInPrompt bounds how many photo captions feed the generator.
	maxCaptionsInPrompt = 3
	// maxDescriptionLength truncates runaway generations.
	maxDescriptionLength = 500
	// minLineLength drops generation fragments shorter than this.
	minLineLength = 10
)

// Generate produces a profile description from the facts and the captions of
// the selected photos, then classifies its tone. Required facts are validated
// before any gateway call; a missing age or occupation fails with
// types.ErrEmptyFacts without touching the models.
func Generate(ctx context.Context, gw gateway.Gateway, facts *types.ProfileFacts, captions []string) (*types.GeneratedDescription, error) {
	if facts == nil {
		return nil, fmt.Errorf("%w: no facts provided", types.ErrEmptyFacts)
	}
	if err := facts.Validate(); err != nil {
		return nil, err
	}
	if err := gw.Ready(); err != nil {
		return nil, err
	}

	prompt := buildPrompt(facts, captions)

	raw, err := gw.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	text := cleanDescription(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: generator returned no usable text", types.ErrGenerationFailed)
	}

	sentiment, err := gw.ClassifySentiment(ctx, text)
	if err != nil {
		return nil, err
	}

	return &types.GeneratedDescription{Text: text, Sentiment: sentiment}, nil
}

// buildPrompt serializes the facts and top captions into the generation
// template for the requested style.
func buildPrompt(facts *types.ProfileFacts, captions []string) string {
	var factLines []string
	factLines = append(factLines, fmt.Sprintf("Age: %d", facts.Age))
	factLines = append(factLines, fmt.Sprintf("Occupation: %s", facts.Occupation))
	if facts.Location != "" {
		factLines = append(factLines, fmt.Sprintf("Location: %s", facts.Location))
	}
	if facts.Interests != "" {
		factLines = append(factLines, fmt.Sprintf("Interests: %s", facts.Interests))
	}
	if facts.Personality != "" {
		factLines = append(factLines, fmt.Sprintf("Personality: %s", facts.Personality))
	}
	if facts.LookingFor != "" {
		factLines = append(factLines, fmt.Sprintf("Looking for: %s", facts.LookingFor))
	}

	if len(captions) > maxCaptionsInPrompt {
		captions = captions[:maxCaptionsInPrompt]
	}
	captionText := "(no photos analyzed)"
	if len(captions) > 0 {
		var lines []string
		for _, caption := range captions {
			lines = append(lines, "- "+caption)
		}
		captionText = strings.Join(lines, "\n")
	}

	style := facts.Style
	if style == "" {
		style = types.StyleBalanced
	}
	tone, err := prompts.Get("generation.json", "style-"+style)
	if err != nil {
		tone = prompts.MustGet("generation.json", "style-"+types.StyleBalanced)
	}

	template := prompts.MustGet("generation.json", "profile-description")
	return prompts.Format(template, map[string]string{
		"Style":    tone,
		"Facts":    strings.Join(factLines, "\n"),
		"Captions": captionText,
	})
}

// cleanDescription normalizes generator output: trims lines, drops duplicates
// and short fragments, and truncates overlong text.
func cleanDescription(raw string) string {
	seen := make(map[string]bool)
	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len(line) < minLineLength {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		kept = append(kept, line)
	}

	text := strings.Join(kept, "\n")
	if len(text) > maxDescriptionLength {
		// Never cut a multi-byte character in half
		cut := maxDescriptionLength
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}
	return text
}
