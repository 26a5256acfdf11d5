package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ledger/internal/core"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// dateParam reads a "date" query or form value, defaulting to today.
func (s *Server) dateParam(r *http.Request, name string) core.Date {
	if v := strings.TrimSpace(r.FormValue(name)); v != "" {
		if d, err := core.ParseDate(v); err == nil {
			return d
		}
	}
	return core.DateOf(s.now())
}

// monthParam reads a "month" query value ("YYYY-MM"), defaulting to the
// current month.
func (s *Server) monthParam(r *http.Request, name string) core.MonthKey {
	if v := strings.TrimSpace(r.FormValue(name)); v != "" {
		mk := core.MonthKey(v)
		if _, _, err := mk.Parse(); err == nil {
			return mk
		}
	}
	return core.MonthKeyOf(s.now())
}

// intParam reads an integer query value with a default.
func intParam(r *http.Request, name string, def int) int {
	if v := strings.TrimSpace(r.FormValue(name)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// writeErrorFragment renders an inline error the UI swaps into the form's
// feedback slot.
func writeErrorFragment(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(msg) + `</div>`))
}
