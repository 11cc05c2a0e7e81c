// Package entity extracts structured values from free text through ordered
// per-type rule chains.
package entity

import "strings"

type Extractor struct {
	chains map[string][]Rule
}

func NewExtractor() *Extractor {
	return &Extractor{chains: defaultChains}
}

// Extract returns the entity value for one type: a string for scalar types,
// a []string for participants, and "" when nothing matched. It never fails.
func (e *Extractor) Extract(text, entityType string) interface{} {
	if entityType == "participants" {
		return e.extractParticipants(text)
	}

	chain, ok := e.chains[entityType]
	if !ok {
		return ""
	}
	for _, rule := range chain {
		if v := rule.apply(text); v != "" {
			return v
		}
	}
	return ""
}

// ExtractAll runs Extract for each requested type and keeps only non-empty
// results.
func (e *Extractor) ExtractAll(text string, entityTypes []string) map[string]interface{} {
	out := make(map[string]interface{})
	for _, typ := range entityTypes {
		v := e.Extract(text, typ)
		switch val := v.(type) {
		case string:
			if val != "" {
				out[typ] = val
			}
		case []string:
			if len(val) > 0 {
				out[typ] = val
			}
		}
	}
	return out
}

// extractParticipants accumulates across all rule families rather than
// stopping at the first hit: mentions, "with X" phrases, Title-Case names
// and emails all contribute, deduplicated in encounter order.
func (e *Extractor) extractParticipants(text string) []string {
	seen := make(map[string]bool)
	out := []string{}

	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		key := strings.ToLower(name)
		if !seen[key] {
			seen[key] = true
			out = append(out, name)
		}
	}

	for _, rule := range participantRules {
		matches := rule.Matcher.FindAllStringSubmatch(text, -1)
		for _, groups := range matches {
			capture := groups[0]
			if len(groups) > 1 {
				capture = groups[1]
			}
			if rule.Name == "with_phrase" {
				for _, name := range splitNameList(capture) {
					add(name)
				}
				continue
			}
			add(capture)
		}
	}

	return out
}
