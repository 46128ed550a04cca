// Package ranking orders analyzed photos by a combined rank score and selects
// the top candidates for the profile.
package ranking

import (
	"strings"

	"github.com/marek-bazler/dating-profile-optimizer/internal/types"
)

// Default weights for the combined rank score. The attractiveness proxy
// dominates; caption sentiment and caption keywords refine the ordering.
const (
	defaultAttractivenessWeight = 0.60
	defaultSentimentWeight      = 0.25
	defaultKeywordWeight        = 0.15

	// keywordBonusStep is the per-match contribution to the keyword signal.
	keywordBonusStep = 0.25
)

// defaultKeywords are caption terms that historically correlate with photos
// performing well on dating profiles.
var defaultKeywords = []string{
	"smile", "smiling", "laughing", "happy",
	"confident", "friendly", "warm",
	"outdoor", "adventure", "travel", "beach", "hiking",
	"dog", "pet",
}

// Policy is the pluggable scoring policy that combines raw model outputs into
// a single rank score. Weights should sum to 1; Score clamps the result to
// [0,1] regardless.
type Policy struct {
	AttractivenessWeight float64
	SentimentWeight      float64
	KeywordWeight        float64
	Keywords             []string
}

// DefaultPolicy returns the documented default scoring policy.
func DefaultPolicy() Policy {
	return Policy{
		AttractivenessWeight: defaultAttractivenessWeight,
		SentimentWeight:      defaultSentimentWeight,
		KeywordWeight:        defaultKeywordWeight,
		Keywords:             defaultKeywords,
	}
}

// Score computes the combined rank score for a record. It is a pure function
// of the record's raw model outputs: calling it again on the same record
// yields the same value.
func (p Policy) Score(rec *types.PhotoRecord) float64 {
	score := p.AttractivenessWeight*rec.AttractivenessScore +
		p.SentimentWeight*sentimentSignal(rec.Sentiment) +
		p.KeywordWeight*p.keywordSignal(rec.Caption)

	if score > 1.0 {
		score = 1.0
	}
	if score < 0.0 {
		score = 0.0
	}
	return score
}

// sentimentSignal maps a sentiment classification into [0,1]: neutral sits at
// 0.5, positive confidence pushes up, negative confidence pushes down.
func sentimentSignal(s types.Sentiment) float64 {
	switch s.Label {
	case types.SentimentPositive:
		return 0.5 + s.Score/2
	case types.SentimentNegative:
		return 0.5 - s.Score/2
	default:
		return 0.5
	}
}

// keywordSignal scores the caption by how many policy keywords it contains.
func (p Policy) keywordSignal(caption string) float64 {
	if len(p.Keywords) == 0 {
		return 0.0
	}

	captionLower := strings.ToLower(caption)
	signal := 0.0
	for _, keyword := range p.Keywords {
		if strings.Contains(captionLower, keyword) {
			signal += keywordBonusStep
		}
	}
	if signal > 1.0 {
		signal = 1.0
	}
	return signal
}
