// Package generative is the boundary to the external generative intent
// classifier. The collaborator is stateless from the core's perspective;
// every call carries the full message and serialized context.
package generative

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	cerrors "atom-nlu/internal/common/errors"
	"atom-nlu/internal/common/logger"
	"atom-nlu/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

// Classifier is the adapter contract the resolver depends on.
type Classifier interface {
	Classify(ctx context.Context, req *Request) (*models.ResolvedIntent, error)
}

// Request carries the message plus the serialized resolution context.
type Request struct {
	Message             string                      `json:"message"`
	AvailablePlatforms  []string                    `json:"availablePlatforms,omitempty"`
	IntegrationPatterns []string                    `json:"integrationPatterns,omitempty"`
	Preferences         map[string]interface{}      `json:"preferences,omitempty"`
	Context             *models.ConversationContext `json:"context,omitempty"`
}

type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

// HTTPClassifier calls the classifier over HTTP with a bounded timeout and
// bounded retries. Timeouts and malformed responses surface as typed errors
// the resolver recovers from; they never propagate as a crash.
type HTTPClassifier struct {
	config Config
	client *http.Client
	schema *gojsonschema.Schema
	logger logger.Logger
}

func NewHTTPClassifier(config Config, log logger.Logger) (*HTTPClassifier, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(resolvedIntentSchema))
	if err != nil {
		return nil, fmt.Errorf("compile response schema: %w", err)
	}
	return &HTTPClassifier{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		schema: schema,
		logger: log.WithFields(map[string]interface{}{"component": "generative"}),
	}, nil
}

func (c *HTTPClassifier) Classify(ctx context.Context, req *Request) (*models.ResolvedIntent, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	body, err := json.Marshal(req)
	if err != nil {
		return nil, cerrors.NewGenerativeFailedError(err)
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, cerrors.NewGenerativeTimeoutError(ctx.Err().Error())
			}
		}

		httpReq, rerr := http.NewRequestWithContext(ctx, http.MethodPost,
			c.config.BaseURL+"/api/ai/classify-intent", bytes.NewReader(body))
		if rerr != nil {
			return nil, cerrors.NewGenerativeFailedError(rerr)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if c.config.APIKey != "" {
			httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
		}

		resp, lastErr = c.client.Do(httpReq)

		// If the context expired during the request, report timeout immediately.
		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {
			return nil, cerrors.NewGenerativeTimeoutError("classifier call exceeded deadline")
		}

		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, cerrors.NewGenerativeTimeoutError("classifier call exceeded deadline")
		}
		return nil, cerrors.NewGenerativeFailedError(lastErr)
	}
	if resp == nil {
		return nil, cerrors.NewGenerativeFailedError(fmt.Errorf("no successful response after retries"))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, cerrors.NewGenerativeFailedError(err)
	}

	return c.decode(raw)
}

// decode validates the raw response against the ResolvedIntent schema and
// unmarshals it into the typed model.
func (c *HTTPClassifier) decode(raw []byte) (*models.ResolvedIntent, error) {
	result, err := c.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, cerrors.NewMalformedResponseError(err.Error())
	}
	if !result.Valid() {
		details := ""
		for i, verr := range result.Errors() {
			if i > 0 {
				details += "; "
			}
			details += verr.String()
		}
		c.logger.Warn("classifier response failed schema validation", map[string]interface{}{
			"errors": details,
		})
		return nil, cerrors.NewMalformedResponseError(details)
	}

	var intent models.ResolvedIntent
	if err := json.Unmarshal(raw, &intent); err != nil {
		return nil, cerrors.NewMalformedResponseError(err.Error())
	}

	// Schema bounds already enforce [0,1]; clamp anyway so downstream merge
	// arithmetic can rely on it.
	if intent.Confidence < 0 {
		intent.Confidence = 0
	}
	if intent.Confidence > 1 {
		intent.Confidence = 1
	}
	intent.Diagnostic = models.DiagnosticGenerative

	return &intent, nil
}
