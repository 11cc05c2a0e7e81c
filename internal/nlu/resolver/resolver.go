// Package resolver implements hybrid intent resolution: a deterministic rule
// pass, an optional generative pass, and a merge of the two, with a terminal
// fallback that always yields a result.
package resolver

import (
	"context"
	"strings"
	"time"

	cerrors "atom-nlu/internal/common/errors"
	"atom-nlu/internal/common/logger"
	"atom-nlu/internal/common/metrics"
	"atom-nlu/internal/common/observability"
	"atom-nlu/internal/models"
	"atom-nlu/internal/nlu/cache"
	"atom-nlu/internal/nlu/catalog"
	"atom-nlu/internal/nlu/crossplatform"
	"atom-nlu/internal/nlu/entity"
	"atom-nlu/internal/nlu/generative"
	"atom-nlu/internal/nlu/pattern"
	"atom-nlu/internal/nlu/stats"
)

// Thresholds are the hybrid decision bars. A rule match at or above the
// applicable threshold short-circuits the generative pass.
type Thresholds struct {
	Rule          float64
	CrossPlatform float64
}

// terminalFollowUps is the guidance attached to every terminal fallback.
var terminalFollowUps = []string{
	"Try rephrasing your request",
	"Say 'list tasks' to see your open tasks",
	"Say 'help' to see what I can do",
}

// Service is the hybrid resolver. All collaborators are injected; the
// service holds no global state and is safe for concurrent use.
type Service struct {
	catalog    *catalog.Catalog
	matcher    *pattern.Matcher
	extractor  *entity.Extractor
	mapper     *crossplatform.Mapper
	classifier generative.Classifier
	cache      cache.Cache
	recorder   *stats.Recorder
	obs        *observability.Observability
	thresholds Thresholds
	logger     logger.Logger
}

func NewService(
	cat *catalog.Catalog,
	mapper *crossplatform.Mapper,
	classifier generative.Classifier,
	store cache.Cache,
	recorder *stats.Recorder,
	obs *observability.Observability,
	thresholds Thresholds,
	log logger.Logger,
) *Service {
	return &Service{
		catalog:    cat,
		matcher:    pattern.NewMatcher(),
		extractor:  entity.NewExtractor(),
		mapper:     mapper,
		classifier: classifier,
		cache:      store,
		recorder:   recorder,
		obs:        obs,
		thresholds: thresholds,
		logger:     log.WithFields(map[string]interface{}{"component": "resolver"}),
	}
}

// Resolve turns a message into a ResolvedIntent. It never returns a nil
// intent alongside a nil error: every path ends in a rule result, a
// generative result, a merge, or the terminal fallback.
func (s *Service) Resolve(ctx context.Context, message string, convCtx *models.ConversationContext, opts models.ResolveOptions) (*models.ResolvedIntent, error) {
	if strings.TrimSpace(message) == "" {
		return nil, cerrors.NewInvalidResolveInputError("message must not be empty")
	}

	mode := opts.Mode
	if mode == "" {
		mode = models.ModeHybrid
	}

	key := cache.Key(message, convCtx)
	if cached, ok := s.cache.Get(ctx, key); ok {
		s.recorder.RecordCacheHit(cached.Intent)
		s.obs.RecordResolution(ctx, models.DiagnosticCache)
		s.updateContext(convCtx, cached)
		s.logger.Debug("resolve served from cache", map[string]interface{}{
			"intent": cached.Intent,
		})
		return cached, nil
	}

	start := time.Now()

	ruleResult := s.ruleAttempt(message)
	result := s.decide(ctx, mode, message, convCtx, ruleResult)

	elapsed := time.Since(start)
	s.bookkeep(ctx, key, result, elapsed)
	s.updateContext(convCtx, result)

	s.logger.Info("message resolved", map[string]interface{}{
		"intent":     result.Intent,
		"confidence": result.Confidence,
		"path":       result.Diagnostic,
		"durationMs": elapsed.Milliseconds(),
	})
	return result, nil
}

// ruleAttempt runs the deterministic pass: pattern match, entity extraction
// and platform detection, with integration plan lookup for cross-platform
// matches. Nil when no pattern matched.
func (s *Service) ruleAttempt(message string) *models.ResolvedIntent {
	defs := s.catalog.Snapshot()
	match := s.matcher.Match(message, defs)
	if match == nil {
		return nil
	}
	def := match.Definition

	entities := s.extractor.ExtractAll(message, def.EntityTypes)
	platforms, crossPlatform := s.extractor.DetectPlatforms(message)
	if len(platforms) == 0 {
		platforms = append([]string(nil), def.Platforms...)
	}
	crossPlatform = crossPlatform || def.CrossPlatform

	var plan *models.DataIntegrationPlan
	if crossPlatform {
		plan = s.mapper.Match(platforms)
		if plan == nil && def.DataIntegration != nil {
			plan = def.DataIntegration.Clone()
		}
	}

	return &models.ResolvedIntent{
		Intent:               def.Name,
		Confidence:           match.Confidence,
		Entities:             entities,
		Action:               def.Action,
		WorkflowID:           def.WorkflowID,
		Platforms:            platforms,
		CrossPlatformAction:  crossPlatform,
		DataIntegration:      plan,
		RequiresConfirmation: def.RequiresConfirmation,
		Diagnostic:           models.DiagnosticRules,
	}
}

// decide runs the state machine for the selected mode.
func (s *Service) decide(ctx context.Context, mode models.ResolveMode, message string, convCtx *models.ConversationContext, rule *models.ResolvedIntent) *models.ResolvedIntent {
	switch mode {
	case models.ModeRules:
		if rule != nil {
			return rule
		}
		return s.terminal()

	case models.ModeGenerative:
		gen, err := s.classify(ctx, message, convCtx)
		if err != nil {
			return s.terminal()
		}
		return gen
	}

	// Hybrid. A confident rule match ends resolution without a generative
	// call.
	if rule != nil && rule.Confidence >= s.thresholdFor(rule) {
		return rule
	}

	gen, err := s.classify(ctx, message, convCtx)
	if err != nil {
		if rule != nil {
			rule.Diagnostic = models.DiagnosticRulesFallback
			return rule
		}
		return s.terminal()
	}

	if rule != nil {
		return merge(rule, gen)
	}
	return gen
}

func (s *Service) thresholdFor(rule *models.ResolvedIntent) float64 {
	if rule.CrossPlatformAction && len(rule.Platforms) > 0 {
		return s.thresholds.CrossPlatform
	}
	return s.thresholds.Rule
}

func (s *Service) classify(ctx context.Context, message string, convCtx *models.ConversationContext) (*models.ResolvedIntent, error) {
	req := &generative.Request{
		Message:             message,
		AvailablePlatforms:  entity.KnownPlatforms(),
		IntegrationPatterns: s.mapper.Keys(),
		Context:             convCtx,
	}
	if convCtx != nil {
		req.Preferences = convCtx.Preferences
	}

	gen, err := s.classifier.Classify(ctx, req)
	if err != nil {
		metrics.GenerativeCallsTotal.WithLabelValues("failure").Inc()
		if cerrors.IsAdapterFailure(err) {
			s.logger.Warn("generative classifier unavailable, falling back", map[string]interface{}{
				"error": err.Error(),
			})
			return nil, err
		}
		s.logger.Error("generative classifier error", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	metrics.GenerativeCallsTotal.WithLabelValues("success").Inc()
	gen.Diagnostic = models.DiagnosticGenerative
	return gen, nil
}

// merge combines a sub-threshold rule match with a generative result. The
// generative side wins the intent label and semantic payload; the rule side
// contributes its entities and platforms, and the confidence is the higher
// of the two.
func merge(rule, gen *models.ResolvedIntent) *models.ResolvedIntent {
	out := *gen
	out.Diagnostic = models.DiagnosticMerge

	if rule.Confidence > out.Confidence {
		out.Confidence = rule.Confidence
	}

	entities := make(map[string]interface{}, len(rule.Entities)+len(gen.Entities))
	for k, v := range rule.Entities {
		entities[k] = v
	}
	for k, v := range gen.Entities {
		entities[k] = v
	}
	if len(entities) > 0 {
		out.Entities = entities
	}

	if out.Action == "" {
		out.Action = rule.Action
	}
	if out.WorkflowID == "" {
		out.WorkflowID = rule.WorkflowID
	}
	if out.DataIntegration == nil {
		out.DataIntegration = rule.DataIntegration
	}
	out.Platforms = unionStrings(rule.Platforms, gen.Platforms)
	out.CrossPlatformAction = rule.CrossPlatformAction || gen.CrossPlatformAction
	out.RequiresConfirmation = rule.RequiresConfirmation || gen.RequiresConfirmation
	if len(out.SuggestedFollowUps) == 0 {
		out.SuggestedFollowUps = rule.SuggestedFollowUps
	}

	return &out
}

// terminal builds the universal fallback result.
func (s *Service) terminal() *models.ResolvedIntent {
	return &models.ResolvedIntent{
		Intent:             models.UnknownIntent,
		Confidence:         0.1,
		SuggestedFollowUps: append([]string(nil), terminalFollowUps...),
		Diagnostic:         models.DiagnosticTerminal,
	}
}

// bookkeep applies the per-resolution side effects exactly once, after the
// decision is final: counters, duration, and the cache write.
func (s *Service) bookkeep(ctx context.Context, key string, result *models.ResolvedIntent, elapsed time.Duration) {
	success := result.Diagnostic != models.DiagnosticTerminal
	s.recorder.RecordResolution(result.Intent, result.Diagnostic, serviceFor(result.Diagnostic), success, elapsed)
	s.obs.RecordResolution(ctx, result.Diagnostic)
	s.obs.RecordResolutionDuration(ctx, elapsed, result.Diagnostic)
	s.cache.Set(ctx, key, result)
}

func serviceFor(diagnostic string) string {
	switch diagnostic {
	case models.DiagnosticRules, models.DiagnosticRulesFallback:
		return "rules"
	case models.DiagnosticGenerative:
		return "generative"
	case models.DiagnosticMerge:
		return "hybrid"
	default:
		return "none"
	}
}

// updateContext folds the result into the per-session conversation state.
func (s *Service) updateContext(convCtx *models.ConversationContext, result *models.ResolvedIntent) {
	if convCtx == nil {
		return
	}
	convCtx.IntentHistory = append(convCtx.IntentHistory, result.Intent)
	if len(result.Entities) > 0 {
		if convCtx.EntityMemory == nil {
			convCtx.EntityMemory = make(map[string]interface{}, len(result.Entities))
		}
		for k, v := range result.Entities {
			convCtx.EntityMemory[k] = v
		}
	}
	if result.CrossPlatformAction {
		convCtx.CrossPlatformHistory = append(convCtx.CrossPlatformHistory, result.Intent)
	}
	if len(result.Platforms) > 0 {
		if convCtx.PlatformContext == nil {
			convCtx.PlatformContext = make(map[string]interface{})
		}
		convCtx.PlatformContext["lastPlatforms"] = result.Platforms
	}
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
