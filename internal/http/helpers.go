package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"plenio/internal/store"
)

// maxBodyBytes caps request bodies; every payload in this API is tiny.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// writeStoreError maps store errors onto API status codes.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, what string) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, what+" not found")
		return
	}
	slog.ErrorContext(r.Context(), "Store operation failed", "entity", what, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

// readJSON decodes the request body into v, rejecting unknown garbage early.
func readJSON(r *http.Request, v any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}

// sanitizeInput trims whitespace and strips control characters from
// user-supplied text fields.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// parseYearMonth extracts year and month from query parameters, defaulting to
// the current calendar month. An out-of-range month falls back to the current
// one rather than erroring, matching the forgiving behavior of the UI.
func parseYearMonth(r *http.Request) (year, month int) {
	now := time.Now()
	year = now.Year()
	month = int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			month = m
		}
	}
	if month < 1 || month > 12 {
		month = int(now.Month())
	}
	return year, month
}
