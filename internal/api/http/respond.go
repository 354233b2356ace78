package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/rulemakers-physics/rmleveltest/internal/grading"
	"github.com/rulemakers-physics/rmleveltest/internal/results"
)

type errorBody struct {
	Error  string         `json:"error"`
	Reason grading.Reason `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeDomainError maps engine and store errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	var se *grading.SubmissionError
	switch {
	case errors.As(err, &se):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: se.Error(), Reason: se.Reason})
	case errors.Is(err, grading.ErrUnknownVariant):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, results.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("%s: %v", op, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
