package resolver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "atom-nlu/internal/common/errors"
	"atom-nlu/internal/common/logger"
	"atom-nlu/internal/common/observability"
	"atom-nlu/internal/models"
	"atom-nlu/internal/nlu/cache"
	"atom-nlu/internal/nlu/catalog"
	"atom-nlu/internal/nlu/crossplatform"
	"atom-nlu/internal/nlu/generative"
	"atom-nlu/internal/nlu/stats"
)

type fakeClassifier struct {
	calls   int
	lastReq *generative.Request
	result  *models.ResolvedIntent
	err     error
}

func (f *fakeClassifier) Classify(ctx context.Context, req *generative.Request) (*models.ResolvedIntent, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	out := *f.result
	return &out, nil
}

func newTestService(t *testing.T, classifier generative.Classifier) (*Service, *stats.Recorder) {
	t.Helper()
	cat, err := catalog.New(catalog.DefaultDefinitions(), logger.NewNoOpLogger())
	require.NoError(t, err)

	recorder := stats.NewRecorder()
	svc := NewService(
		cat,
		crossplatform.NewDefaultMapper(),
		classifier,
		cache.NewMemoryCache(time.Minute),
		recorder,
		&observability.Observability{},
		Thresholds{Rule: 0.9, CrossPlatform: 0.8},
		logger.NewTestLogger(t),
	)
	return svc, recorder
}

func TestResolveAcceptsConfidentCrossPlatformRule(t *testing.T) {
	fake := &fakeClassifier{result: &models.ResolvedIntent{Intent: "never", Confidence: 1}}
	svc, _ := newTestService(t, fake)

	got, err := svc.Resolve(context.Background(), "sync tasks from asana to slack", nil, models.ResolveOptions{})
	require.NoError(t, err)

	assert.Equal(t, "sync_tasks", got.Intent)
	assert.Equal(t, 0.85, got.Confidence)
	assert.Equal(t, models.DiagnosticRules, got.Diagnostic)
	assert.True(t, got.CrossPlatformAction)
	assert.Equal(t, []string{"asana", "slack"}, got.Platforms)
	require.NotNil(t, got.DataIntegration)
	assert.Equal(t, []string{"asana"}, got.DataIntegration.SourcePlatforms)
	assert.Equal(t, []string{"slack"}, got.DataIntegration.TargetPlatforms)
	assert.Equal(t, 0, fake.calls)
}

func TestResolveMergesSubThresholdRuleWithGenerative(t *testing.T) {
	fake := &fakeClassifier{result: &models.ResolvedIntent{
		Intent:     "create_task",
		Confidence: 0.95,
		Entities:   map[string]interface{}{"priority": "high"},
	}}
	svc, _ := newTestService(t, fake)

	got, err := svc.Resolve(context.Background(), "create a task for the quarterly report", nil, models.ResolveOptions{})
	require.NoError(t, err)

	assert.Equal(t, models.DiagnosticMerge, got.Diagnostic)
	assert.Equal(t, "create_task", got.Intent)
	assert.Equal(t, 0.95, got.Confidence)
	// Rule entities and generative entities are unioned.
	assert.Equal(t, "the quarterly report", got.Entities["task_name"])
	assert.Equal(t, "high", got.Entities["priority"])
	// Rule payload fills gaps the classifier left empty.
	assert.Equal(t, "task.create", got.Action)
	assert.Equal(t, 1, fake.calls)
}

func TestResolveMergeKeepsHigherRuleConfidence(t *testing.T) {
	fake := &fakeClassifier{result: &models.ResolvedIntent{Intent: "create_task", Confidence: 0.4}}
	svc, _ := newTestService(t, fake)

	got, err := svc.Resolve(context.Background(), "create a task for groceries", nil, models.ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0.7, got.Confidence)
	assert.Equal(t, models.DiagnosticMerge, got.Diagnostic)
}

func TestResolveFallsBackOnRuleWhenClassifierFails(t *testing.T) {
	fake := &fakeClassifier{err: cerrors.NewGenerativeTimeoutError("deadline")}
	svc, _ := newTestService(t, fake)

	got, err := svc.Resolve(context.Background(), "create a task for the quarterly report", nil, models.ResolveOptions{})
	require.NoError(t, err)

	assert.Equal(t, "create_task", got.Intent)
	assert.Equal(t, 0.7, got.Confidence)
	assert.Equal(t, models.DiagnosticRulesFallback, got.Diagnostic)
	assert.Equal(t, "the quarterly report", got.Entities["task_name"])
}

func TestResolveTerminalWhenNothingMatchesAndClassifierFails(t *testing.T) {
	fake := &fakeClassifier{err: cerrors.NewGenerativeFailedError(assert.AnError)}
	svc, recorder := newTestService(t, fake)

	got, err := svc.Resolve(context.Background(), "completely inscrutable gibberish", nil, models.ResolveOptions{})
	require.NoError(t, err)

	assert.Equal(t, models.UnknownIntent, got.Intent)
	assert.Equal(t, 0.1, got.Confidence)
	assert.Equal(t, models.DiagnosticTerminal, got.Diagnostic)
	assert.NotEmpty(t, got.SuggestedFollowUps)

	snap := recorder.Snapshot()
	assert.Equal(t, int64(1), snap.FailedRequests)
	assert.Zero(t, snap.PathDistribution[models.DiagnosticRulesFallback])
}

func TestResolveGenerativeOnlyWhenNoRuleMatches(t *testing.T) {
	fake := &fakeClassifier{result: &models.ResolvedIntent{
		Intent:     "schedule_meeting",
		Confidence: 0.9,
		Action:     "calendar.schedule",
	}}
	svc, _ := newTestService(t, fake)

	got, err := svc.Resolve(context.Background(), "I need some time with the team next week", nil, models.ResolveOptions{})
	require.NoError(t, err)

	assert.Equal(t, "schedule_meeting", got.Intent)
	assert.Equal(t, models.DiagnosticGenerative, got.Diagnostic)
	assert.Equal(t, 1, fake.calls)

	// The adapter gets the platform inventory and pattern keys for grounding.
	require.NotNil(t, fake.lastReq)
	assert.NotEmpty(t, fake.lastReq.AvailablePlatforms)
	assert.NotEmpty(t, fake.lastReq.IntegrationPatterns)
}

func TestResolveRulesMode(t *testing.T) {
	fake := &fakeClassifier{result: &models.ResolvedIntent{Intent: "never", Confidence: 1}}
	svc, _ := newTestService(t, fake)
	opts := models.ResolveOptions{Mode: models.ModeRules}

	got, err := svc.Resolve(context.Background(), "create a task for groceries", nil, opts)
	require.NoError(t, err)
	assert.Equal(t, "create_task", got.Intent)
	assert.Equal(t, models.DiagnosticRules, got.Diagnostic)

	got, err = svc.Resolve(context.Background(), "inscrutable gibberish", nil, opts)
	require.NoError(t, err)
	assert.Equal(t, models.DiagnosticTerminal, got.Diagnostic)

	assert.Equal(t, 0, fake.calls)
}

func TestResolveGenerativeMode(t *testing.T) {
	fake := &fakeClassifier{result: &models.ResolvedIntent{Intent: "list_tasks", Confidence: 0.88}}
	svc, _ := newTestService(t, fake)

	// Even a message with a confident rule match goes to the classifier.
	got, err := svc.Resolve(context.Background(), "sync tasks from asana to slack", nil,
		models.ResolveOptions{Mode: models.ModeGenerative})
	require.NoError(t, err)

	assert.Equal(t, "list_tasks", got.Intent)
	assert.Equal(t, models.DiagnosticGenerative, got.Diagnostic)
	assert.Equal(t, 1, fake.calls)
}

func TestResolveGenerativeModeFailureIsTerminal(t *testing.T) {
	fake := &fakeClassifier{err: cerrors.NewGenerativeTimeoutError("deadline")}
	svc, _ := newTestService(t, fake)

	got, err := svc.Resolve(context.Background(), "create a task for groceries", nil,
		models.ResolveOptions{Mode: models.ModeGenerative})
	require.NoError(t, err)
	assert.Equal(t, models.DiagnosticTerminal, got.Diagnostic)
}

func TestResolveServesRepeatFromCache(t *testing.T) {
	fake := &fakeClassifier{result: &models.ResolvedIntent{Intent: "create_task", Confidence: 0.95}}
	svc, recorder := newTestService(t, fake)
	ctx := context.Background()

	first, err := svc.Resolve(ctx, "create a task for groceries", nil, models.ResolveOptions{})
	require.NoError(t, err)
	second, err := svc.Resolve(ctx, "create a task for groceries", nil, models.ResolveOptions{})
	require.NoError(t, err)

	assert.Equal(t, first.Intent, second.Intent)
	assert.Equal(t, first.Confidence, second.Confidence)
	assert.Equal(t, 1, fake.calls)

	snap := recorder.Snapshot()
	assert.Equal(t, int64(2), snap.TotalRequests)
	assert.Equal(t, int64(1), snap.CacheHits)
	assert.Equal(t, int64(2), snap.SuccessfulRequests)
}

func TestResolveRejectsEmptyMessage(t *testing.T) {
	svc, _ := newTestService(t, &fakeClassifier{err: cerrors.NewGenerativeFailedError(assert.AnError)})

	_, err := svc.Resolve(context.Background(), "   ", nil, models.ResolveOptions{})
	require.Error(t, err)
	assert.True(t, cerrors.HasCode(err, cerrors.ErrCodeInvalidResolveInput))
}

func TestResolveUpdatesConversationContext(t *testing.T) {
	fake := &fakeClassifier{result: &models.ResolvedIntent{Intent: "never", Confidence: 1}}
	svc, _ := newTestService(t, fake)

	convCtx := &models.ConversationContext{SessionID: "s1"}
	got, err := svc.Resolve(context.Background(), "sync tasks from asana to slack", convCtx, models.ResolveOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{got.Intent}, convCtx.IntentHistory)
	assert.Equal(t, []string{got.Intent}, convCtx.CrossPlatformHistory)
	assert.Equal(t, got.Platforms, convCtx.PlatformContext["lastPlatforms"])
}

func TestResolveConfidenceAlwaysInRange(t *testing.T) {
	messages := []string{
		"sync tasks from asana to slack",
		"create a task for groceries",
		"inscrutable gibberish",
		"schedule a meeting with Sarah Chen tomorrow at 2pm",
	}
	fake := &fakeClassifier{err: cerrors.NewGenerativeTimeoutError("deadline")}
	svc, _ := newTestService(t, fake)

	for _, msg := range messages {
		got, err := svc.Resolve(context.Background(), msg, nil, models.ResolveOptions{})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.Confidence, 0.0, msg)
		assert.LessOrEqual(t, got.Confidence, 1.0, msg)
	}
}
