package entity

import (
	"regexp"
	"strings"
)

// Rule is one step of an entity type's extraction chain: a matcher plus a
// transform over its submatches. Rules are tried in order; the first
// non-empty capture wins (participants are the cumulative exception, see
// extractor.go).
type Rule struct {
	Name      string
	Matcher   *regexp.Regexp
	Transform func(groups []string) string
}

func (r Rule) apply(text string) string {
	groups := r.Matcher.FindStringSubmatch(text)
	if groups == nil {
		return ""
	}
	if r.Transform != nil {
		return strings.TrimSpace(r.Transform(groups))
	}
	if len(groups) > 1 {
		return strings.TrimSpace(groups[1])
	}
	return strings.TrimSpace(groups[0])
}

// trimTrailer cuts a captured free-text tail at the first scheduling
// qualifier so "the report by friday" yields "the report".
func trimTrailer(s string) string {
	stops := []string{" by ", " on ", " at ", " before ", " due ", " until "}
	lower := strings.ToLower(s)
	cut := len(s)
	for _, stop := range stops {
		if idx := strings.Index(lower, stop); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return strings.TrimRight(strings.TrimSpace(s[:cut]), ".!?,")
}

func firstGroupTrimmed(groups []string) string {
	return trimTrailer(groups[1])
}

var defaultChains = map[string][]Rule{
	"task_name": {
		{
			Name:      "quoted_name",
			Matcher:   regexp.MustCompile(`(?i)task (?:called|named)\s+"([^"]+)"`),
			Transform: func(g []string) string { return g[1] },
		},
		{
			Name:      "task_preposition",
			Matcher:   regexp.MustCompile(`(?i)task (?:for|to|about)\s+(.+)$`),
			Transform: firstGroupTrimmed,
		},
		{
			Name:      "todo_tail",
			Matcher:   regexp.MustCompile(`(?i)(?:add|put)\s+(.+?)\s+(?:to|on) my todo`),
			Transform: func(g []string) string { return trimTrailer(g[1]) },
		},
	},
	"event_title": {
		{
			Name:      "meeting_about",
			Matcher:   regexp.MustCompile(`(?i)(?:meeting|call) (?:about|regarding|titled|called)\s+(.+)$`),
			Transform: firstGroupTrimmed,
		},
		{
			Name:    "named_meeting",
			Matcher: regexp.MustCompile(`(?i)(?:schedule|book|set up)\s+(?:a\s+|the\s+)?(.+?)\s+(?:meeting|call)`),
		},
	},
	"date": {
		{
			Name:    "iso_date",
			Matcher: regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`),
		},
		{
			Name:    "month_day",
			Matcher: regexp.MustCompile(`(?i)\b((?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}(?:st|nd|rd|th)?)\b`),
		},
		{
			Name:    "relative_day",
			Matcher: regexp.MustCompile(`(?i)\b(day after tomorrow|tomorrow|today|tonight|next week|next month)\b`),
		},
		{
			Name:    "weekday",
			Matcher: regexp.MustCompile(`(?i)\b(?:on\s+|by\s+|next\s+)?(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
		},
	},
	"time": {
		{
			Name:      "range",
			Matcher:   regexp.MustCompile(`(?i)\bfrom\s+(\d{1,2}(?::\d{2})?\s*(?:am|pm)?)\s+(?:to|until|through)\s+(\d{1,2}(?::\d{2})?\s*(?:am|pm)?)\b`),
			Transform: func(g []string) string { return g[1] + " to " + g[2] },
		},
		{
			Name:    "clock_ampm",
			Matcher: regexp.MustCompile(`(?i)\b(\d{1,2}(?::\d{2})?\s*(?:am|pm))\b`),
		},
		{
			Name:    "clock_24h",
			Matcher: regexp.MustCompile(`\b(\d{1,2}:\d{2})\b`),
		},
		{
			Name:    "time_of_day",
			Matcher: regexp.MustCompile(`(?i)\b(noon|midnight|morning|afternoon|evening)\b`),
		},
	},
	"date_range": {
		{
			Name:      "from_to",
			Matcher:   regexp.MustCompile(`(?i)\bfrom\s+(.+?)\s+(?:to|until|through)\s+([^,.!?]+)`),
			Transform: func(g []string) string { return g[1] + " to " + strings.TrimSpace(g[2]) },
		},
		{
			Name:      "between_and",
			Matcher:   regexp.MustCompile(`(?i)\bbetween\s+(.+?)\s+and\s+([^,.!?]+)`),
			Transform: func(g []string) string { return g[1] + " to " + strings.TrimSpace(g[2]) },
		},
	},
	"duration": {
		{
			Name:    "unit_amount",
			Matcher: regexp.MustCompile(`(?i)\b(\d+\s*(?:minutes?|mins?|hours?|hrs?|days?|weeks?))\b`),
		},
		{
			Name:      "half_hour",
			Matcher:   regexp.MustCompile(`(?i)\b(half an hour|an hour)\b`),
			Transform: func(g []string) string { return strings.ToLower(g[1]) },
		},
	},
	"topic": {
		{
			Name:      "about",
			Matcher:   regexp.MustCompile(`(?i)\b(?:about|regarding|re:)\s+(.+)$`),
			Transform: firstGroupTrimmed,
		},
	},
	"recipient": {
		{
			Name:    "email_address",
			Matcher: regexp.MustCompile(`\b([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})\b`),
		},
		{
			Name:    "to_name",
			Matcher: regexp.MustCompile(`\b(?i:to|tell|ping|message)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`),
		},
	},
	"priority": {
		{
			Name:      "priority_word",
			Matcher:   regexp.MustCompile(`(?i)\b(urgent|critical|high|medium|low)(?:\s+priority)?\b`),
			Transform: func(g []string) string { return strings.ToLower(g[1]) },
		},
	},
	"location": {
		{
			Name:    "room",
			Matcher: regexp.MustCompile(`(?i)\b(?:in|at)\s+((?:conference\s+)?room\s+\w+)\b`),
		},
		{
			Name:      "venue_word",
			Matcher:   regexp.MustCompile(`(?i)\b(?:on|via|in|at)\s+(zoom|the office|online)\b`),
			Transform: func(g []string) string { return strings.ToLower(g[1]) },
		},
	},
	"channel": {
		{
			Name:    "hash_channel",
			Matcher: regexp.MustCompile(`#([a-z0-9][a-z0-9_-]*)`),
		},
		{
			Name:    "channel_name",
			Matcher: regexp.MustCompile(`(?i)\b(?:in|to) the\s+([a-z0-9-]+)\s+channel\b`),
		},
	},
}

// participantRules run cumulatively: every family contributes and the
// combined list is deduplicated, unlike the first-wins chains above.
var participantRules = []Rule{
	{
		Name:    "mention",
		Matcher: regexp.MustCompile(`@([A-Za-z0-9_.-]+)`),
	},
	{
		Name:    "with_phrase",
		Matcher: regexp.MustCompile(`\b(?i:with)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?(?:(?:\s*,\s*|\s+and\s+)[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)*)`),
	},
	{
		Name:    "title_case_name",
		Matcher: regexp.MustCompile(`\b([A-Z][a-z]+\s+[A-Z][a-z]+)\b`),
	},
	{
		Name:    "email_address",
		Matcher: regexp.MustCompile(`\b([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})\b`),
	},
}

// splitNameList breaks "Sarah Chen, Alex and Priya Patel" into individual
// participant names.
func splitNameList(s string) []string {
	s = strings.ReplaceAll(s, " and ", ",")
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
