package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/calebodell/skuscout/api/models"
	"github.com/calebodell/skuscout/apimodels"
)

const timeoutHint = "The request took too long to answer. Try again with a shorter, more specific question."

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.UserMessage) == "" {
		writeError(w, http.StatusBadRequest, "userMessage is required", "")
		return
	}

	slog.Debug("received chat request", "request", req)

	result, err := s.chat.Chat(r.Context(), req)
	if err != nil {
		slog.Error("chat request failed", "error", err)
		if errors.Is(err, context.DeadlineExceeded) {
			writeError(w, http.StatusInternalServerError, "request timed out", timeoutHint)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to answer request", err.Error())
		return
	}

	slog.Debug("chat request completed successfully", "result", result)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		slog.Error("health check request failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apimodels.ErrorResponse{
		Error:   msg,
		Details: details,
	})
}
