// Package crossplatform matches detected platform sets against the known
// data-integration patterns registered at startup.
package crossplatform

import (
	"strings"
	"sync"

	"atom-nlu/internal/models"
)

// Mapper holds the static integration pattern table. Patterns are keyed on
// ordered source platforms joined with ordered target platforms; registering
// the same key again replaces the previous pattern (most recent wins, no
// merge).
type Mapper struct {
	mu       sync.RWMutex
	order    []string
	patterns map[string]*models.DataIntegrationPlan
}

func NewMapper() *Mapper {
	return &Mapper{patterns: make(map[string]*models.DataIntegrationPlan)}
}

// NewDefaultMapper returns a mapper pre-populated with the built-in
// integration patterns.
func NewDefaultMapper() *Mapper {
	m := NewMapper()
	for _, p := range defaultPatterns() {
		m.Register(p)
	}
	return m
}

func key(sources, targets []string) string {
	return strings.Join(sources, "+") + "->" + strings.Join(targets, "+")
}

// Register adds an integration pattern. Same-key registrations override.
func (m *Mapper) Register(plan *models.DataIntegrationPlan) {
	if plan == nil || len(plan.SourcePlatforms) == 0 || len(plan.TargetPlatforms) == 0 {
		return
	}
	k := key(plan.SourcePlatforms, plan.TargetPlatforms)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.patterns[k]; !exists {
		m.order = append(m.order, k)
	}
	m.patterns[k] = plan.Clone()
}

// Keys returns the registered pattern keys in registration order.
func (m *Mapper) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}

// Match returns the plan of the first registered pattern whose source AND
// target platforms are all present in the detected set. A partial hit (only
// the source side, or only the target side) attaches no plan: no inference
// across partial matches.
func (m *Mapper) Match(platforms []string) *models.DataIntegrationPlan {
	if len(platforms) == 0 {
		return nil
	}
	detected := make(map[string]bool, len(platforms))
	for _, p := range platforms {
		detected[strings.ToLower(p)] = true
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, k := range m.order {
		plan := m.patterns[k]
		if containsAll(detected, plan.SourcePlatforms) && containsAll(detected, plan.TargetPlatforms) {
			return plan.Clone()
		}
	}
	return nil
}

// Lookup returns the plan registered under the exact ordered source/target
// key, if any.
func (m *Mapper) Lookup(sources, targets []string) *models.DataIntegrationPlan {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if plan, ok := m.patterns[key(sources, targets)]; ok {
		return plan.Clone()
	}
	return nil
}

func containsAll(set map[string]bool, wanted []string) bool {
	for _, w := range wanted {
		if !set[strings.ToLower(w)] {
			return false
		}
	}
	return true
}

func defaultPatterns() []*models.DataIntegrationPlan {
	return []*models.DataIntegrationPlan{
		{
			SourcePlatforms: []string{"asana"},
			TargetPlatforms: []string{"slack"},
			SyncOperation:   models.SyncSync,
			EntityMapping:   map[string]string{"task.name": "message.text", "task.due": "message.attachment.due"},
			TransformationRules: []string{
				"task_to_message",
				"due_date_to_local_time",
			},
		},
		{
			SourcePlatforms:     []string{"gmail"},
			TargetPlatforms:     []string{"asana"},
			SyncOperation:       models.SyncCreate,
			EntityMapping:       map[string]string{"email.subject": "task.name", "email.body": "task.notes"},
			TransformationRules: []string{"strip_signature"},
		},
		{
			SourcePlatforms: []string{"trello"},
			TargetPlatforms: []string{"notion"},
			SyncOperation:   models.SyncSync,
			EntityMapping:   map[string]string{"card.title": "page.title", "card.description": "page.body"},
		},
		{
			SourcePlatforms:     []string{"calendar"},
			TargetPlatforms:     []string{"slack"},
			SyncOperation:       models.SyncCreate,
			EntityMapping:       map[string]string{"event.title": "message.text"},
			TransformationRules: []string{"event_to_reminder"},
		},
		{
			SourcePlatforms: []string{"jira"},
			TargetPlatforms: []string{"github"},
			SyncOperation:   models.SyncSync,
			EntityMapping:   map[string]string{"issue.key": "issue.title", "issue.status": "issue.state"},
		},
		{
			SourcePlatforms: []string{"asana", "trello"},
			TargetPlatforms: []string{"notion"},
			SyncOperation:   models.SyncSync,
			EntityMapping:   map[string]string{"task.name": "page.title"},
		},
	}
}
