// Package report computes the derived views over the expense collection:
// day, week, month and year rollups, category breakdowns and budget
// remainders. Every function is pure — inputs are never mutated and the
// current instant is an explicit argument, so identical inputs always yield
// identical reports.
package report

import (
	"sort"
	"strings"
	"time"

	"ledger/internal/core"
)

// WeeksPerMonth approximates the number of weeks in a calendar month and
// converts a monthly income into a weekly budget estimate.
const WeeksPerMonth = 4.33

// Incomes maps month keys to the user-declared income for that month.
// An absent key means unset, which disables budget-relative figures.
type Incomes map[core.MonthKey]core.Money

// CategoryShare is one slice of a category breakdown.
type CategoryShare struct {
	Category core.Category
	Total    core.Money
	Percent  float64
}

// DayTotal pairs a calendar day with its spending total.
type DayTotal struct {
	Date  core.Date
	Total core.Money
}

// MonthTotal pairs a calendar month with its spending total and declared
// income.
type MonthTotal struct {
	Key    core.MonthKey
	Month  time.Month
	Total  core.Money
	Income core.Money
}

// Day summarizes a single calendar day.
type Day struct {
	Date      core.Date
	Expenses  []core.Expense // most recently added first
	Total     core.Money
	Breakdown []CategoryShare
}

// Week summarizes a 7-day Sunday-to-Saturday window.
type Week struct {
	Start        core.Date
	End          core.Date
	Days         []DayTotal // Sun..Sat
	Expenses     []core.Expense
	Total        core.Money
	DailyAverage core.Money
	Peak         DayTotal // highest-spend day, earliest wins ties
	// HasBudget is set when at least one month touched by the window has a
	// nonzero declared income; Budget and Remaining are meaningful only then.
	HasBudget bool
	Budget    core.Money
	Remaining core.Money
	Breakdown []CategoryShare
}

// Month summarizes one calendar month.
type Month struct {
	Key        core.MonthKey
	Expenses   []core.Expense
	Total      core.Money
	HasIncome  bool
	Income     core.Money
	Remaining  core.Money // Income - Total; negative means over budget
	Cumulative []core.Money // running total per day 1..DaysIn, non-decreasing
	ActiveDays int
	Breakdown  []CategoryShare
}

// Year summarizes one calendar year.
type Year struct {
	Year             int
	Expenses         []core.Expense
	Total            core.Money
	Months           []MonthTotal // Jan..Dec
	Income           core.Money   // sum of declared monthly incomes
	MonthsWithIncome int
	Remaining        core.Money
	Peak             MonthTotal // highest-spend month, earliest wins ties
	Breakdown        []CategoryShare
}

// Sum adds up the amounts of a subset.
func Sum(expenses []core.Expense) core.Money {
	var total core.Money
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// FilterDay returns the expenses dated exactly on day.
func FilterDay(expenses []core.Expense, day core.Date) []core.Expense {
	key := day.Key()
	var out []core.Expense
	for _, e := range expenses {
		if e.Date.Key() == key {
			out = append(out, e)
		}
	}
	return out
}

// FilterPrefix returns the expenses whose date key starts with prefix
// ("YYYY-MM" for a month, "YYYY" for a year).
func FilterPrefix(expenses []core.Expense, prefix string) []core.Expense {
	var out []core.Expense
	for _, e := range expenses {
		if strings.HasPrefix(e.Date.Key(), prefix) {
			out = append(out, e)
		}
	}
	return out
}

// Breakdown groups a subset by category, drops zero-sum categories, sorts
// descending by total (category display order breaks ties) and attributes a
// percentage of the grand total to each entry. Percentages sum to 100 within
// floating-point tolerance whenever any entry is present.
func Breakdown(expenses []core.Expense) []CategoryShare {
	sums := make(map[core.Category]core.Money)
	for _, e := range expenses {
		c := core.NormalizeCategory(string(e.Category))
		sums[c] = sums[c].Add(e.Amount)
	}

	var shares []CategoryShare
	var grand core.Money
	for _, c := range core.Categories() {
		if total, ok := sums[c]; ok && total.Cents > 0 {
			shares = append(shares, CategoryShare{Category: c, Total: total})
			grand = grand.Add(total)
		}
	}
	if grand.Cents == 0 {
		return nil
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Total.Cents > shares[j].Total.Cents
	})
	for i := range shares {
		shares[i].Percent = float64(shares[i].Total.Cents) / float64(grand.Cents) * 100
	}
	return shares
}

// ForDay builds the single-day report. Display order is descending by ID:
// most recently added first, since dates carry no time of day.
func ForDay(expenses []core.Expense, day core.Date) Day {
	subset := FilterDay(expenses, day)
	sort.SliceStable(subset, func(i, j int) bool { return subset[i].ID > subset[j].ID })
	return Day{
		Date:      day,
		Expenses:  subset,
		Total:     Sum(subset),
		Breakdown: Breakdown(subset),
	}
}

// WeekStart computes the start of the week at the given offset: the most
// recent Sunday on or before now, minus 7*offset days. Offset 0 is the
// current week, 1 the previous, and so on.
func WeekStart(now time.Time, offset int) core.Date {
	today := core.DateOf(now)
	return today.AddDays(-int(today.Weekday()) - 7*offset)
}

// ForWeek builds the report for the 7-day window at the given offset. The
// daily series always has seven entries in Sun→Sat order; days with no
// expenses report a zero total. When no touched month declares an income the
// report offers no budget estimate and callers fall back to the peak day.
func ForWeek(expenses []core.Expense, incomes Incomes, now time.Time, offset int) Week {
	start := WeekStart(now, offset)
	end := start.AddDays(6)

	days := make([]DayTotal, 7)
	var subset []core.Expense
	touched := make([]core.MonthKey, 0, 2)
	seen := make(map[core.MonthKey]bool, 2)
	for i := 0; i < 7; i++ {
		d := start.AddDays(i)
		dayExpenses := FilterDay(expenses, d)
		days[i] = DayTotal{Date: d, Total: Sum(dayExpenses)}
		subset = append(subset, dayExpenses...)
		if mk := d.MonthKey(); !seen[mk] {
			seen[mk] = true
			touched = append(touched, mk)
		}
	}

	total := Sum(subset)
	w := Week{
		Start:        start,
		End:          end,
		Days:         days,
		Expenses:     subset,
		Total:        total,
		DailyAverage: core.Money{Cents: total.Cents / 7},
		Peak:         peakDay(days),
		Breakdown:    Breakdown(subset),
	}

	var incomeSum core.Money
	anyIncome := false
	for _, mk := range touched {
		if inc, ok := incomes[mk]; ok && inc.Cents > 0 {
			anyIncome = true
			incomeSum = incomeSum.Add(inc)
		}
	}
	if anyIncome {
		// Average across every touched month, including unset ones, then
		// scale a month down to a week.
		avg := float64(incomeSum.Cents) / float64(len(touched))
		budget := core.Money{Cents: int64(avg/WeeksPerMonth + 0.5)}
		w.HasBudget = true
		w.Budget = budget
		w.Remaining = budget.Sub(total)
	}
	return w
}

// ForMonth builds the report for one calendar month.
func ForMonth(expenses []core.Expense, incomes Incomes, mk core.MonthKey) Month {
	subset := FilterPrefix(expenses, string(mk))
	total := Sum(subset)

	income, hasIncome := incomes[mk]
	if income.Cents <= 0 {
		hasIncome = false
		income = core.Money{}
	}

	days := mk.DaysIn()
	cumulative := make([]core.Money, days)
	var running core.Money
	for day := 1; day <= days; day++ {
		key := mk.Day(day)
		for _, e := range subset {
			if e.Date.Key() == key {
				running = running.Add(e.Amount)
			}
		}
		cumulative[day-1] = running
	}

	active := make(map[string]bool)
	for _, e := range subset {
		active[e.Date.Key()] = true
	}

	return Month{
		Key:        mk,
		Expenses:   subset,
		Total:      total,
		HasIncome:  hasIncome,
		Income:     income,
		Remaining:  income.Sub(total),
		Cumulative: cumulative,
		ActiveDays: len(active),
		Breakdown:  Breakdown(subset),
	}
}

// ForYear builds the report for one calendar year: twelve monthly sums in
// Jan→Dec order plus the income totals declared for that year's months.
func ForYear(expenses []core.Expense, incomes Incomes, year int) Year {
	subset := FilterPrefix(expenses, core.NewDate(year, time.January, 1).Format("2006"))

	months := make([]MonthTotal, 12)
	var income core.Money
	withIncome := 0
	for m := time.January; m <= time.December; m++ {
		mk := core.MonthKeyFor(year, m)
		mt := MonthTotal{
			Key:   mk,
			Month: m,
			Total: Sum(FilterPrefix(subset, string(mk))),
		}
		if inc, ok := incomes[mk]; ok && inc.Cents > 0 {
			mt.Income = inc
			income = income.Add(inc)
			withIncome++
		}
		months[m-1] = mt
	}

	total := Sum(subset)
	return Year{
		Year:             year,
		Expenses:         subset,
		Total:            total,
		Months:           months,
		Income:           income,
		MonthsWithIncome: withIncome,
		Remaining:        income.Sub(total),
		Peak:             peakMonth(months),
		Breakdown:        Breakdown(subset),
	}
}

// peakDay picks the day with the strictly greatest total; ties resolve to the
// earliest day in window order.
func peakDay(days []DayTotal) DayTotal {
	peak := days[0]
	for _, d := range days[1:] {
		if d.Total.Cents > peak.Total.Cents {
			peak = d
		}
	}
	return peak
}

// peakMonth picks the month with the strictly greatest total; ties resolve to
// the earliest month.
func peakMonth(months []MonthTotal) MonthTotal {
	peak := months[0]
	for _, m := range months[1:] {
		if m.Total.Cents > peak.Total.Cents {
			peak = m
		}
	}
	return peak
}
