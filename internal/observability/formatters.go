// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/marek-bazler/dating-profile-optimizer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintProfileFacts outputs a human-readable summary of the profile facts.
func (p *Printer) PrintProfileFacts(facts *types.ProfileFacts) {
	if facts == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Age:        %d\n", facts.Age))
	sb.WriteString(fmt.Sprintf("Occupation: %s\n", facts.Occupation))
	if facts.Location != "" {
		sb.WriteString(fmt.Sprintf("Location:   %s\n", facts.Location))
	}
	style := facts.Style
	if style == "" {
		style = types.StyleBalanced
	}
	sb.WriteString(fmt.Sprintf("Style:      %s\n", style))

	if facts.Interests != "" {
		interests := facts.Interests
		if len(interests) > 45 {
			interests = interests[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("\nInterests: %s\n", interests))
	}
	if facts.LookingFor != "" {
		looking := facts.LookingFor
		if len(looking) > 45 {
			looking = looking[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("Looking for: %s\n", looking))
	}

	p.printBox("PROFILE FACTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAnalysisReport outputs the top ranked photos with scores and captions.
func (p *Printer) PrintAnalysisReport(report *types.AnalysisReport) {
	if report == nil || len(report.Records) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Photos analyzed: %d", len(report.Records)))
	if len(report.Failures) > 0 {
		sb.WriteString(fmt.Sprintf(" (%d failed)", len(report.Failures)))
	}
	sb.WriteString("\n\n")

	count := min(len(report.Records), maxItemsToShow)
	for i := 0; i < count; i++ {
		record := report.Records[i]
		position := record.RankPosition
		if position == 0 {
			position = i + 1
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", position, shortPath(record.Path)))
		sb.WriteString(fmt.Sprintf("    Score: %.2f (attractiveness %.2f, %s)\n",
			record.RankScore, record.AttractivenessScore, record.Sentiment.Label))
		caption := record.Caption
		if len(caption) > 40 {
			caption = caption[:37] + "..."
		}
		if caption != "" {
			sb.WriteString(fmt.Sprintf("    Caption: %s\n", caption))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(report.Records) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more photos", len(report.Records)-maxItemsToShow))
	}

	p.printBox("PHOTO ANALYSIS", sb.String())
}

// PrintFailures outputs the photos that could not be analyzed.
func (p *Printer) PrintFailures(failures []types.PhotoFailure) {
	if len(failures) == 0 {
		return
	}

	var sb strings.Builder
	for i, failure := range failures {
		sb.WriteString(fmt.Sprintf("• %s\n", shortPath(failure.Path)))
		reason := failure.Reason
		if len(reason) > 45 {
			reason = reason[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("  %s", reason))
		if i < len(failures)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SKIPPED PHOTOS", sb.String())
}

// PrintResult outputs the final session result: selected photos and the
// generated description.
func (p *Printer) PrintResult(result *types.ProfileResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Session: %s\n\n", result.SessionID))

	sb.WriteString(fmt.Sprintf("Selected %d photos:\n", len(result.SelectedPhotos)))
	for _, photo := range result.SelectedPhotos {
		sb.WriteString(fmt.Sprintf("  %d. %s (%.2f)\n", photo.RankPosition, shortPath(photo.Path), photo.RankScore))
	}

	if result.Description != nil {
		sb.WriteString("\nDescription")
		if result.Description.Sentiment.Label != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", result.Description.Sentiment.Label))
		}
		sb.WriteString(":\n")
		for _, line := range wrapText(result.Description.Text, boxWidth-6) {
			sb.WriteString("  " + line + "\n")
		}
	}

	p.printBox("OPTIMIZED PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// shortPath keeps the last two path components so box lines stay readable.
func shortPath(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) <= 2 {
		return path
	}
	return ".../" + strings.Join(parts[len(parts)-2:], "/")
}

// wrapText splits text into lines no longer than width, breaking on spaces.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
			continue
		}
		current += " " + word
	}
	return append(lines, current)
}
