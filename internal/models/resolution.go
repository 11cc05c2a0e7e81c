package models

// ResolveMode selects which resolution paths may run.
type ResolveMode string

const (
	ModeRules      ResolveMode = "rules"
	ModeGenerative ResolveMode = "generative"
	ModeHybrid     ResolveMode = "hybrid"
)

// Diagnostic tags record which path produced a ResolvedIntent.
const (
	DiagnosticRules         = "rules"
	DiagnosticGenerative    = "generative"
	DiagnosticMerge         = "merge"
	DiagnosticRulesFallback = "rules_fallback"
	DiagnosticTerminal      = "terminal"
	DiagnosticCache         = "cache"
)

// UnknownIntent is the universal terminal fallback label.
const UnknownIntent = "unknown"

// ResolveOptions tunes a single resolve call. An explicit mode bypasses the
// hybrid decision logic, which is mainly useful for testing.
type ResolveOptions struct {
	Mode ResolveMode `json:"mode,omitempty"`
}

// ResolvedIntent is the structured output of intent resolution.
type ResolvedIntent struct {
	Intent               string                 `json:"intent"`
	Confidence           float64                `json:"confidence"`
	Entities             map[string]interface{} `json:"entities,omitempty"`
	Action               string                 `json:"action,omitempty"`
	Parameters           map[string]interface{} `json:"parameters,omitempty"`
	WorkflowID           string                 `json:"workflowId,omitempty"`
	Platforms            []string               `json:"platforms,omitempty"`
	CrossPlatformAction  bool                   `json:"crossPlatformAction,omitempty"`
	DataIntegration      *DataIntegrationPlan   `json:"dataIntegration,omitempty"`
	RequiresConfirmation bool                   `json:"requiresConfirmation,omitempty"`
	SuggestedFollowUps   []string               `json:"suggestedFollowUps,omitempty"`
	Diagnostic           string                 `json:"diagnostic,omitempty"`
}

// ConversationContext carries per-session state into a resolution. It is
// created per session, updated after each resolution and persisted by the
// caller, not by the resolver core.
type ConversationContext struct {
	UserID               string                 `json:"userId,omitempty"`
	SessionID            string                 `json:"sessionId,omitempty"`
	IntentHistory        []string               `json:"intentHistory,omitempty"`
	EntityMemory         map[string]interface{} `json:"entityMemory,omitempty"`
	PlatformContext      map[string]interface{} `json:"platformContext,omitempty"`
	CrossPlatformHistory []string               `json:"crossPlatformHistory,omitempty"`
	Preferences          map[string]interface{} `json:"preferences,omitempty"`
}
