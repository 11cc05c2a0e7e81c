// Package training persists feedback examples to an append-only JSONL log
// and folds their messages into the active catalog.
package training

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	cerrors "atom-nlu/internal/common/errors"
	"atom-nlu/internal/common/logger"
	"atom-nlu/internal/common/metrics"
	"atom-nlu/internal/models"
	"atom-nlu/internal/nlu/catalog"
)

// Store owns the training log file. Writes are serialized by a mutex; the
// log is append-only and past entries are never rewritten.
type Store struct {
	mu      sync.Mutex
	path    string
	catalog *catalog.Catalog
	logger  logger.Logger
}

func NewStore(path string, cat *catalog.Catalog, log logger.Logger) *Store {
	return &Store{
		path:    path,
		catalog: cat,
		logger:  log.WithFields(map[string]interface{}{"component": "training"}),
	}
}

// TrainOnExamples applies a batch of feedback examples with partial-success
// semantics: each valid example is appended to the log and folded into the
// catalog, each invalid one is reported in the result, and the batch never
// aborts on a per-example error.
func (s *Store) TrainOnExamples(ctx context.Context, examples []models.TrainingExample) (*models.TrainResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &models.TrainResult{}

	file, err := s.openLog()
	if err != nil {
		return nil, cerrors.NewTrainingLogError(err)
	}
	defer file.Close()

	for i, ex := range examples {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if reason, ok := s.validate(ex); !ok {
			result.Errors = append(result.Errors, models.TrainError{
				Index:   i,
				Message: ex.Message,
				Intent:  ex.Intent,
				Reason:  reason,
			})
			metrics.TrainingExamplesTotal.WithLabelValues("rejected").Inc()
			continue
		}

		if ex.Timestamp.IsZero() {
			ex.Timestamp = time.Now().UTC()
		}

		if err := appendExample(file, ex); err != nil {
			// A write failure is a log problem, not an example problem.
			return result, cerrors.NewTrainingLogError(err)
		}

		patternAdded, _, err := s.catalog.AppendTraining(ex.Intent, ex.Message)
		if err != nil {
			result.Errors = append(result.Errors, models.TrainError{
				Index:   i,
				Message: ex.Message,
				Intent:  ex.Intent,
				Reason:  err.Error(),
			})
			metrics.TrainingExamplesTotal.WithLabelValues("rejected").Inc()
			continue
		}

		result.TrainedCount++
		metrics.TrainingExamplesTotal.WithLabelValues("trained").Inc()
		s.logger.Debug("training example applied", map[string]interface{}{
			"intent":       ex.Intent,
			"patternAdded": patternAdded,
		})
	}

	s.logger.Info("training batch processed", map[string]interface{}{
		"trained": result.TrainedCount,
		"errors":  len(result.Errors),
	})
	return result, nil
}

// Retrain replays the full training log into the catalog. Catalog appends
// are idempotent, so replaying after restart converges to the same state.
func (s *Store) Retrain(ctx context.Context) (*models.TrainResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &models.TrainResult{}

	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("no training log to replay", map[string]interface{}{"path": s.path})
			return result, nil
		}
		return nil, cerrors.NewTrainingLogError(err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	index := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var ex models.TrainingExample
		if err := json.Unmarshal([]byte(line), &ex); err != nil {
			result.Errors = append(result.Errors, models.TrainError{
				Index:  index,
				Reason: "malformed log entry: " + err.Error(),
			})
			index++
			continue
		}

		if _, _, err := s.catalog.AppendTraining(ex.Intent, ex.Message); err != nil {
			result.Errors = append(result.Errors, models.TrainError{
				Index:   index,
				Message: ex.Message,
				Intent:  ex.Intent,
				Reason:  err.Error(),
			})
			index++
			continue
		}

		result.TrainedCount++
		index++
	}
	if err := scanner.Err(); err != nil {
		return result, cerrors.NewTrainingLogError(err)
	}

	s.logger.Info("training log replayed", map[string]interface{}{
		"path":    s.path,
		"applied": result.TrainedCount,
		"errors":  len(result.Errors),
	})
	return result, nil
}

func (s *Store) validate(ex models.TrainingExample) (reason string, ok bool) {
	if strings.TrimSpace(ex.Message) == "" {
		return "empty message", false
	}
	if strings.TrimSpace(ex.Intent) == "" {
		return "empty intent label", false
	}
	if !s.catalog.Has(ex.Intent) {
		return "intent not in catalog: " + ex.Intent, false
	}
	return "", true
}

func (s *Store) openLog() (*os.File, error) {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func appendExample(file *os.File, ex models.TrainingExample) error {
	line, err := json.Marshal(ex)
	if err != nil {
		return err
	}
	line = append(line, '\n')
	_, err = file.Write(line)
	return err
}
