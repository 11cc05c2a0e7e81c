package generative

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "atom-nlu/internal/common/errors"
	"atom-nlu/internal/common/logger"
	"atom-nlu/internal/models"
)

func newTestClassifier(t *testing.T, baseURL string) *HTTPClassifier {
	t.Helper()
	c, err := NewHTTPClassifier(Config{
		BaseURL:    baseURL,
		APIKey:     "test-key",
		Timeout:    2 * time.Second,
		MaxRetries: 2,
	}, logger.NewTestLogger(t))
	require.NoError(t, err)
	return c
}

func TestClassifySuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/ai/classify-intent", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"intent": "schedule_meeting",
			"confidence": 0.92,
			"entities": {"event_title": "roadmap review"},
			"action": "calendar.schedule",
			"requiresConfirmation": true
		}`))
	}))
	defer server.Close()

	c := newTestClassifier(t, server.URL)
	got, err := c.Classify(context.Background(), &Request{Message: "set up a roadmap review"})
	require.NoError(t, err)

	assert.Equal(t, "schedule_meeting", got.Intent)
	assert.Equal(t, 0.92, got.Confidence)
	assert.Equal(t, "roadmap review", got.Entities["event_title"])
	assert.True(t, got.RequiresConfirmation)
	assert.Equal(t, models.DiagnosticGenerative, got.Diagnostic)
}

func TestClassifyRetriesOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"intent": "create_task", "confidence": 0.8}`))
	}))
	defer server.Close()

	c := newTestClassifier(t, server.URL)
	got, err := c.Classify(context.Background(), &Request{Message: "create a task"})
	require.NoError(t, err)
	assert.Equal(t, "create_task", got.Intent)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClassifyFailsAfterRetriesExhausted(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := newTestClassifier(t, server.URL)
	_, err := c.Classify(context.Background(), &Request{Message: "anything"})
	require.Error(t, err)
	assert.True(t, cerrors.HasCode(err, cerrors.ErrCodeGenerativeFailed))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls)) // initial attempt + 2 retries
}

func TestClassifyTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	c, err := NewHTTPClassifier(Config{
		BaseURL:    server.URL,
		Timeout:    50 * time.Millisecond,
		MaxRetries: 2,
	}, logger.NewNoOpLogger())
	require.NoError(t, err)

	_, err = c.Classify(context.Background(), &Request{Message: "anything"})
	require.Error(t, err)
	assert.True(t, cerrors.HasCode(err, cerrors.ErrCodeGenerativeTimeout))
}

func TestClassifyMalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `not json at all`},
		{name: "missing intent", body: `{"confidence": 0.9}`},
		{name: "missing confidence", body: `{"intent": "create_task"}`},
		{name: "confidence out of range", body: `{"intent": "create_task", "confidence": 1.7}`},
		{name: "empty intent", body: `{"intent": "", "confidence": 0.5}`},
		{name: "bad sync operation", body: `{"intent": "sync_tasks", "confidence": 0.9,
			"dataIntegration": {"sourcePlatforms": ["asana"], "targetPlatforms": ["slack"], "syncOperation": "teleport"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := newTestClassifier(t, server.URL)
			_, err := c.Classify(context.Background(), &Request{Message: "anything"})
			require.Error(t, err)
			assert.True(t, cerrors.HasCode(err, cerrors.ErrCodeMalformedResponse))
		})
	}
}

func TestClassifyContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	c := newTestClassifier(t, server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.Classify(ctx, &Request{Message: "anything"})
	require.Error(t, err)
	assert.True(t, cerrors.HasCode(err, cerrors.ErrCodeGenerativeTimeout))
}
