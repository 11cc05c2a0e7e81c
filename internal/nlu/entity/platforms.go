package entity

import (
	"sort"
	"strings"
)

// platformAliases maps each known platform to the substrings that identify
// it in free text. Detection is independent of which entity types a caller
// requested.
var platformAliases = map[string][]string{
	"asana":      {"asana"},
	"trello":     {"trello"},
	"jira":       {"jira"},
	"slack":      {"slack"},
	"teams":      {"microsoft teams", "ms teams", "teams"},
	"notion":     {"notion"},
	"gmail":      {"gmail", "google mail"},
	"outlook":    {"outlook"},
	"calendar":   {"google calendar", "gcal", "calendar"},
	"github":     {"github"},
	"zoom":       {"zoom"},
	"salesforce": {"salesforce"},
	"hubspot":    {"hubspot"},
}

// crossPlatformKeywords flag a request as spanning services even when no
// platform name appears.
var crossPlatformKeywords = []string{
	"all platforms",
	"cross-platform",
	"sync",
	"across",
	"between",
	"integrate",
	"connect",
}

// KnownPlatforms returns the canonical platform names in sorted order.
func KnownPlatforms() []string {
	names := make([]string, 0, len(platformAliases))
	for name := range platformAliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DetectPlatforms scans text for platform-name substrings and cross-platform
// keywords. Detected platforms are returned as a set ordered by first
// occurrence in the text.
func (e *Extractor) DetectPlatforms(text string) (platforms []string, crossPlatform bool) {
	lower := strings.ToLower(text)

	type hit struct {
		name string
		pos  int
	}
	var hits []hit
	for name, aliases := range platformAliases {
		for _, alias := range aliases {
			if idx := strings.Index(lower, alias); idx >= 0 {
				hits = append(hits, hit{name: name, pos: idx})
				break
			}
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].pos != hits[j].pos {
			return hits[i].pos < hits[j].pos
		}
		return hits[i].name < hits[j].name
	})
	platforms = make([]string, 0, len(hits))
	for _, h := range hits {
		platforms = append(platforms, h.name)
	}

	for _, kw := range crossPlatformKeywords {
		if strings.Contains(lower, kw) {
			crossPlatform = true
			break
		}
	}

	return platforms, crossPlatform
}
