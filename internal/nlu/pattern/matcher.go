// Package pattern implements the deterministic phrase-pattern intent
// detector of the hybrid resolver.
package pattern

import (
	"strings"

	"atom-nlu/internal/models"
)

const (
	// BaselineConfidence is assigned to generic pattern matches.
	BaselineConfidence = 0.7
	// CrossPlatformConfidence is assigned to matches on curated
	// cross-platform definitions (crossPlatform=true with a declared
	// platform list).
	CrossPlatformConfidence = 0.85
)

// Match is the result of a successful pattern lookup.
type Match struct {
	Definition     models.IntentDefinition
	Confidence     float64
	MatchedPattern string
}

type Matcher struct{}

func NewMatcher() *Matcher {
	return &Matcher{}
}

// Match scans the catalog snapshot in declaration order and, within each
// definition, patterns in insertion order. The first substring match wins;
// there is no longest-match preference. Pure function, nil on no match.
func (m *Matcher) Match(text string, defs []models.IntentDefinition) *Match {
	lower := strings.ToLower(text)

	for _, def := range defs {
		for _, p := range def.Patterns {
			if p == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(p)) {
				confidence := BaselineConfidence
				if def.CrossPlatform && len(def.Platforms) > 0 {
					confidence = CrossPlatformConfidence
				}
				return &Match{
					Definition:     def,
					Confidence:     confidence,
					MatchedPattern: p,
				}
			}
		}
	}
	return nil
}
