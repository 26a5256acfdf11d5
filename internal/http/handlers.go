package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"ledger/internal/core"
)

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeErrorFragment(w, http.StatusBadRequest, "invalid request format")
		return
	}

	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	cents, err := core.ParseDecimalToCents(amountStr)
	if err != nil {
		writeErrorFragment(w, http.StatusUnprocessableEntity, "enter a positive amount")
		return
	}

	now := s.now()
	date := s.dateParam(r, "date")
	e := core.Expense{
		ID:       core.NewExpenseID(now),
		Amount:   core.Money{Cents: cents},
		Category: core.NormalizeCategory(r.Form.Get("category")),
		Note:     sanitizeInput(r.Form.Get("note")),
		Date:     date,
	}
	// Editing an existing expense keeps its ID.
	if v := strings.TrimSpace(r.Form.Get("id")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			writeErrorFragment(w, http.StatusUnprocessableEntity, "invalid expense id")
			return
		}
		e.ID = id
	}

	if err := e.Validate(now); err != nil {
		writeErrorFragment(w, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	s.store.AddOrReplace(e)
	s.logger.InfoContext(r.Context(), "expense recorded",
		"id", e.ID,
		"amount_cents", e.Amount.Cents,
		"category", string(e.Category),
		"date", e.Date.Key())

	w.Header().Set("HX-Trigger", `{"ledger:changed": {"date": "`+e.Date.Key()+`"}}`)
	s.handleDaily(w, withDate(r, e.Date))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeErrorFragment(w, http.StatusBadRequest, "invalid request format")
		return
	}

	id, err := strconv.ParseInt(strings.TrimSpace(r.Form.Get("id")), 10, 64)
	if err != nil || id <= 0 {
		writeErrorFragment(w, http.StatusUnprocessableEntity, "invalid expense id")
		return
	}

	if s.store.Delete(id) {
		s.logger.InfoContext(r.Context(), "expense deleted", "id", id)
	}

	w.Header().Set("HX-Trigger", `{"ledger:changed": {}}`)
	s.handleDaily(w, r)
}

func (s *Server) handleSetIncome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeErrorFragment(w, http.StatusBadRequest, "invalid request format")
		return
	}

	mk := s.monthParam(r, "month")

	// Blank, malformed, or negative incomes coerce to zero, which unsets
	// the month.
	var income core.Money
	if v := strings.TrimSpace(r.Form.Get("amount")); v != "" {
		if cents, err := core.ParseDecimalToCents(v); err == nil {
			income = core.Money{Cents: cents}
		}
	}

	s.store.SetIncome(mk, income)
	s.logger.InfoContext(r.Context(), "income set",
		"month", string(mk),
		"amount_cents", income.Cents)

	w.Header().Set("HX-Trigger", `{"ledger:changed": {"month": "`+string(mk)+`"}}`)
	r.Form.Set("month", string(mk))
	s.handleMonthly(w, r)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeErrorFragment(w, http.StatusBadRequest, "invalid request format")
		return
	}

	currency := core.Currency(strings.TrimSpace(r.Form.Get("currency")))
	s.store.SetCurrency(currency)
	s.logger.InfoContext(r.Context(), "currency changed", "currency", string(s.store.Currency()))

	w.Header().Set("HX-Trigger", `{"ledger:changed": {}}`)
	s.handleDaily(w, r)
}

func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	s.store.ClearAll()
	s.logger.WarnContext(r.Context(), "all expenses cleared")

	w.Header().Set("HX-Trigger", `{"ledger:changed": {}}`)
	s.handleDaily(w, r)
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "enter a positive amount"
	case errors.Is(err, core.ErrFutureDate):
		return "the date cannot be in the future"
	case errors.Is(err, core.ErrZeroDate):
		return "pick a date"
	default:
		return "invalid expense"
	}
}

// withDate rewrites the request's date parameter so the refreshed partial
// shows the day that was just touched.
func withDate(r *http.Request, d core.Date) *http.Request {
	q := r.URL.Query()
	q.Set("date", d.Key())
	r.URL.RawQuery = q.Encode()
	if r.Form != nil {
		r.Form.Set("date", d.Key())
	}
	return r
}
