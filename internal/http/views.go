package http

import (
	"fmt"
	"net/http"
	"time"

	"ledger/internal/core"
	"ledger/internal/report"
)

// categoryOption feeds the expense form's category picker.
type categoryOption struct {
	Value string
	Label string
}

// currencyOption feeds the settings form's currency picker.
type currencyOption struct {
	Code     string
	Symbol   string
	Label    string
	Selected bool
}

type breakdownRow struct {
	Label   string
	Amount  string
	Percent float64
	Width   int
}

type expenseRow struct {
	ID       int64
	Note     string
	Category string
	Date     string
	Amount   string
}

func categoryOptions() []categoryOption {
	cats := core.Categories()
	opts := make([]categoryOption, len(cats))
	for i, c := range cats {
		opts[i] = categoryOption{Value: string(c), Label: c.Label()}
	}
	return opts
}

func currencyOptions(selected core.Currency) []currencyOption {
	infos := core.Currencies()
	opts := make([]currencyOption, len(infos))
	for i, info := range infos {
		opts[i] = currencyOption{
			Code:     string(info.Code),
			Symbol:   info.Symbol,
			Label:    info.Label,
			Selected: info.Code == selected,
		}
	}
	return opts
}

func breakdownRows(shares []report.CategoryShare, currency core.Currency) []breakdownRow {
	rows := make([]breakdownRow, len(shares))
	for i, sh := range shares {
		width := int(sh.Percent + 0.5)
		if width < 2 {
			width = 2
		}
		rows[i] = breakdownRow{
			Label:   sh.Category.Label(),
			Amount:  core.FormatWithSymbol(sh.Total, currency),
			Percent: sh.Percent,
			Width:   width,
		}
	}
	return rows
}

func expenseRows(expenses []core.Expense, currency core.Currency) []expenseRow {
	rows := make([]expenseRow, len(expenses))
	for i, e := range expenses {
		rows[i] = expenseRow{
			ID:       e.ID,
			Note:     e.Note,
			Category: e.Category.Label(),
			Date:     e.Date.Key(),
			Amount:   core.FormatWithSymbol(e.Amount, currency),
		}
	}
	return rows
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "templates not loaded", "path", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	_, currency, _ := s.store.Snapshot()
	today := core.DateOf(s.now())
	data := struct {
		Today      string
		Month      string
		Categories []categoryOption
		Currencies []currencyOption
	}{
		Today:      today.Key(),
		Month:      string(today.MonthKey()),
		Categories: categoryOptions(),
		Currencies: currencyOptions(currency),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "index template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	day := s.dateParam(r, "date")
	expenses, currency, _ := s.store.Snapshot()
	d := report.ForDay(expenses, day)

	data := struct {
		Date      string
		Title     string
		PrevDate  string
		NextDate  string
		IsToday   bool
		Total     string
		Count     int
		Expenses  []expenseRow
		Breakdown []breakdownRow
	}{
		Date:      day.Key(),
		Title:     day.Format("Mon, Jan 2 2006"),
		PrevDate:  day.AddDays(-1).Key(),
		NextDate:  day.AddDays(1).Key(),
		IsToday:   day.Equal(core.DateOf(s.now())),
		Total:     core.FormatWithSymbol(d.Total, currency),
		Count:     len(d.Expenses),
		Expenses:  expenseRows(d.Expenses, currency),
		Breakdown: breakdownRows(d.Breakdown, currency),
	}
	s.renderPartial(w, r, "daily.html", data)
}

func (s *Server) handleWeekly(w http.ResponseWriter, r *http.Request) {
	offset := intParam(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	expenses, currency, incomes := s.store.Snapshot()
	wk := report.ForWeek(expenses, incomes, s.now(), offset)

	type dayBar struct {
		Label  string
		Amount string
		Height int
		IsPeak bool
	}

	var maxCents int64
	for _, d := range wk.Days {
		if d.Total.Cents > maxCents {
			maxCents = d.Total.Cents
		}
	}
	bars := make([]dayBar, len(wk.Days))
	for i, d := range wk.Days {
		height := 0
		if maxCents > 0 && d.Total.Cents > 0 {
			height = int((d.Total.Cents*100 + maxCents/2) / maxCents)
			if height < 2 {
				height = 2
			}
		}
		bars[i] = dayBar{
			Label:  d.Date.Format("Mon"),
			Amount: core.FormatCompact(d.Total, currency),
			Height: height,
			IsPeak: d.Date.Equal(wk.Peak.Date) && wk.Peak.Total.Cents > 0,
		}
	}

	data := struct {
		Offset     int
		PrevOffset int
		NextOffset int
		IsCurrent  bool
		Range      string
		Total      string
		DailyAvg   string
		Days       []dayBar
		HasBudget  bool
		Budget     string
		Remaining  string
		Overspent  bool
		PeakDay    string
		PeakAmount string
		HasPeak    bool
		Expenses   []expenseRow
		Breakdown  []breakdownRow
	}{
		Offset:     offset,
		PrevOffset: offset + 1,
		NextOffset: offset - 1,
		IsCurrent:  offset == 0,
		Range:      wk.Start.Format("Jan 2") + " - " + wk.End.Format("Jan 2 2006"),
		Total:      core.FormatWithSymbol(wk.Total, currency),
		DailyAvg:   core.FormatWithSymbol(wk.DailyAverage, currency),
		Days:       bars,
		HasBudget:  wk.HasBudget,
		Budget:     core.FormatWithSymbol(wk.Budget, currency),
		Remaining:  core.FormatWithSymbol(wk.Remaining.Abs(), currency),
		Overspent:  wk.Remaining.IsNegative(),
		PeakDay:    wk.Peak.Date.Format("Monday"),
		PeakAmount: core.FormatWithSymbol(wk.Peak.Total, currency),
		HasPeak:    wk.Peak.Total.Cents > 0,
		Expenses:   expenseRows(wk.Expenses, currency),
		Breakdown:  breakdownRows(wk.Breakdown, currency),
	}
	s.renderPartial(w, r, "weekly.html", data)
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	mk := s.monthParam(r, "month")
	expenses, currency, incomes := s.store.Snapshot()
	m := report.ForMonth(expenses, incomes, mk)

	year, month, _ := mk.Parse()
	prev := core.MonthKeyOf(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0))
	next := core.MonthKeyOf(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0))

	type cumulativePoint struct {
		Day    int
		Height int
		Amount string
	}
	final := int64(0)
	if n := len(m.Cumulative); n > 0 {
		final = m.Cumulative[n-1].Cents
	}
	points := make([]cumulativePoint, len(m.Cumulative))
	for i, c := range m.Cumulative {
		height := 0
		if final > 0 {
			height = int((c.Cents*100 + final/2) / final)
		}
		points[i] = cumulativePoint{
			Day:    i + 1,
			Height: height,
			Amount: core.FormatCompact(c, currency),
		}
	}

	data := struct {
		Month      string
		Title      string
		PrevMonth  string
		NextMonth  string
		Total      string
		HasIncome  bool
		Income     string
		Remaining  string
		Overspent  bool
		ActiveDays int
		Cumulative []cumulativePoint
		Expenses   []expenseRow
		Breakdown  []breakdownRow
	}{
		Month:      string(mk),
		Title:      time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006"),
		PrevMonth:  string(prev),
		NextMonth:  string(next),
		Total:      core.FormatWithSymbol(m.Total, currency),
		HasIncome:  m.HasIncome,
		Income:     core.FormatWithSymbol(m.Income, currency),
		Remaining:  core.FormatWithSymbol(m.Remaining.Abs(), currency),
		Overspent:  m.Remaining.IsNegative(),
		ActiveDays: m.ActiveDays,
		Cumulative: points,
		Expenses:   expenseRows(m.Expenses, currency),
		Breakdown:  breakdownRows(m.Breakdown, currency),
	}
	s.renderPartial(w, r, "monthly.html", data)
}

func (s *Server) handleYearly(w http.ResponseWriter, r *http.Request) {
	year := intParam(r, "year", s.now().Year())
	if year < 1 || year > 9999 {
		year = s.now().Year()
	}
	expenses, currency, incomes := s.store.Snapshot()
	y := report.ForYear(expenses, incomes, year)

	type monthBar struct {
		Label  string
		Key    string
		Amount string
		Height int
		IsPeak bool
	}
	var maxCents int64
	for _, m := range y.Months {
		if m.Total.Cents > maxCents {
			maxCents = m.Total.Cents
		}
	}
	bars := make([]monthBar, len(y.Months))
	for i, m := range y.Months {
		height := 0
		if maxCents > 0 && m.Total.Cents > 0 {
			height = int((m.Total.Cents*100 + maxCents/2) / maxCents)
			if height < 2 {
				height = 2
			}
		}
		bars[i] = monthBar{
			Label:  m.Month.String()[:3],
			Key:    string(m.Key),
			Amount: core.FormatCompact(m.Total, currency),
			Height: height,
			IsPeak: m.Month == y.Peak.Month && y.Peak.Total.Cents > 0,
		}
	}

	data := struct {
		Year             int
		PrevYear         int
		NextYear         int
		Total            string
		Income           string
		HasIncome        bool
		MonthsWithIncome int
		Remaining        string
		Overspent        bool
		PeakMonth        string
		PeakAmount       string
		HasPeak          bool
		Months           []monthBar
		Breakdown        []breakdownRow
	}{
		Year:             year,
		PrevYear:         year - 1,
		NextYear:         year + 1,
		Total:            core.FormatWithSymbol(y.Total, currency),
		Income:           core.FormatWithSymbol(y.Income, currency),
		HasIncome:        y.MonthsWithIncome > 0,
		MonthsWithIncome: y.MonthsWithIncome,
		Remaining:        core.FormatWithSymbol(y.Remaining.Abs(), currency),
		Overspent:        y.Remaining.IsNegative(),
		PeakMonth:        y.Peak.Month.String(),
		PeakAmount:       core.FormatWithSymbol(y.Peak.Total, currency),
		HasPeak:          y.Peak.Total.Cents > 0,
		Months:           bars,
		Breakdown:        breakdownRows(y.Breakdown, currency),
	}
	s.renderPartial(w, r, "yearly.html", data)
}

func (s *Server) renderPartial(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "partial rendering failed", "template", name, "error", err)
		_, _ = fmt.Fprintf(w, `<div class="error">failed to render view</div>`)
	}
}
