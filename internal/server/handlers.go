package server

import (
	"encoding/json"
	"errors"
	"net/http"

	cerrors "atom-nlu/internal/common/errors"
	"atom-nlu/internal/models"
)

type resolveRequest struct {
	Message string                      `json:"message"`
	Context *models.ConversationContext `json:"context,omitempty"`
	Options models.ResolveOptions       `json:"options,omitempty"`
}

type resolveResponse struct {
	Result  *models.ResolvedIntent      `json:"result"`
	Context *models.ConversationContext `json:"context,omitempty"`
}

type trainRequest struct {
	Examples []models.TrainingExample `json:"examples"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, cerrors.NewInvalidResolveInputError(err.Error()))
		return
	}

	if req.Options.Mode != "" {
		switch req.Options.Mode {
		case models.ModeRules, models.ModeGenerative, models.ModeHybrid:
		default:
			s.writeError(w, r, http.StatusBadRequest,
				cerrors.NewInvalidResolveInputError("unknown mode: "+string(req.Options.Mode)))
			return
		}
	}

	result, err := s.resolver.Resolve(r.Context(), req.Message, req.Context, req.Options)
	if err != nil {
		status := http.StatusInternalServerError
		if cerrors.HasCode(err, cerrors.ErrCodeInvalidResolveInput) {
			status = http.StatusBadRequest
		}
		s.writeError(w, r, status, err)
		return
	}

	s.writeJSON(w, http.StatusOK, resolveResponse{Result: result, Context: req.Context})
}

func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	var req trainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, cerrors.NewInvalidResolveInputError(err.Error()))
		return
	}
	if len(req.Examples) == 0 {
		s.writeError(w, r, http.StatusBadRequest,
			cerrors.NewInvalidResolveInputError("examples must not be empty"))
		return
	}

	result, err := s.training.TrainOnExamples(r.Context(), req.Examples)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRetrain(w http.ResponseWriter, r *http.Request) {
	result, err := s.training.Retrain(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.recorder.Snapshot())
}

func (s *Server) handleMetricsReset(w http.ResponseWriter, r *http.Request) {
	s.recorder.Reset()
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("response encode failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	resp := errorResponse{
		Error:     err.Error(),
		RequestID: requestIDFrom(r.Context()),
	}
	var std *cerrors.StandardError
	if errors.As(err, &std) {
		resp.Error = std.Message
		resp.Code = string(std.Code)
	}
	s.logger.Warn("request failed", map[string]interface{}{
		"status":    status,
		"error":     err.Error(),
		"requestId": resp.RequestID,
	})
	s.writeJSON(w, status, resp)
}
