package report

import (
	"math"
	"testing"
	"time"

	"ledger/internal/core"
)

var now = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC) // a Friday

func exp(id int64, cents int64, cat core.Category, date core.Date) core.Expense {
	return core.Expense{ID: id, Amount: core.Money{Cents: cents}, Category: cat, Note: cat.Label(), Date: date}
}

func TestForDay(t *testing.T) {
	day := core.NewDate(2024, time.March, 15)
	expenses := []core.Expense{
		exp(1, 1250, core.CategoryFood, day),
		exp(2, 700, core.CategoryTransport, day),
		exp(3, 999, core.CategoryFood, core.NewDate(2024, time.March, 14)),
	}

	d := ForDay(expenses, day)
	if got, want := d.Total.Cents, int64(1950); got != want {
		t.Fatalf("total = %d, want %d", got, want)
	}
	if len(d.Expenses) != 2 {
		t.Fatalf("expenses = %d, want 2", len(d.Expenses))
	}
	// Most recently added first.
	if d.Expenses[0].ID != 2 || d.Expenses[1].ID != 1 {
		t.Fatalf("order = %d,%d, want 2,1", d.Expenses[0].ID, d.Expenses[1].ID)
	}

	if len(d.Breakdown) != 2 {
		t.Fatalf("breakdown entries = %d, want 2", len(d.Breakdown))
	}
	food, transport := d.Breakdown[0], d.Breakdown[1]
	if food.Category != core.CategoryFood || transport.Category != core.CategoryTransport {
		t.Fatalf("breakdown order = %s,%s", food.Category, transport.Category)
	}
	if math.Abs(food.Percent-64.1) > 0.1 {
		t.Errorf("food percent = %.2f, want ~64.1", food.Percent)
	}
	if math.Abs(transport.Percent-35.9) > 0.1 {
		t.Errorf("transport percent = %.2f, want ~35.9", transport.Percent)
	}
	if sum := food.Percent + transport.Percent; math.Abs(sum-100) > 1e-9 {
		t.Errorf("percent sum = %v, want 100", sum)
	}
}

func TestDayTotalsPartitionCollection(t *testing.T) {
	// Every expense lands on exactly one day, so day totals over the
	// distinct dates add back up to the grand total.
	expenses := []core.Expense{
		exp(1, 1250, core.CategoryFood, core.NewDate(2024, time.March, 15)),
		exp(2, 700, core.CategoryTransport, core.NewDate(2024, time.March, 15)),
		exp(3, 999, core.CategoryShopping, core.NewDate(2024, time.March, 14)),
		exp(4, 42, core.CategoryOther, core.NewDate(2024, time.February, 29)),
		exp(5, 31337, core.CategoryBills, core.NewDate(2023, time.December, 31)),
		exp(6, 500, core.CategoryHealth, core.NewDate(2024, time.February, 29)),
	}

	distinct := make(map[string]core.Date)
	for _, e := range expenses {
		distinct[e.Date.Key()] = e.Date
	}
	if len(distinct) != 4 {
		t.Fatalf("distinct dates = %d, want 4", len(distinct))
	}

	var sum core.Money
	for _, date := range distinct {
		sum = sum.Add(ForDay(expenses, date).Total)
	}
	if want := Sum(expenses); sum != want {
		t.Fatalf("sum of day totals = %d, want %d", sum.Cents, want.Cents)
	}
}

func TestBreakdownTieOrder(t *testing.T) {
	day := core.NewDate(2024, time.March, 15)
	expenses := []core.Expense{
		exp(1, 500, core.CategoryShopping, day),
		exp(2, 500, core.CategoryFood, day),
	}
	b := Breakdown(expenses)
	if len(b) != 2 {
		t.Fatalf("entries = %d, want 2", len(b))
	}
	// Equal totals keep category display order.
	if b[0].Category != core.CategoryFood || b[1].Category != core.CategoryShopping {
		t.Fatalf("tie order = %s,%s, want food,shopping", b[0].Category, b[1].Category)
	}
}

func TestBreakdownDropsZero(t *testing.T) {
	if got := Breakdown(nil); got != nil {
		t.Fatalf("breakdown of nothing = %v, want nil", got)
	}
}

func TestWeekStart(t *testing.T) {
	cases := []struct {
		now    time.Time
		offset int
		want   string
	}{
		{now, 0, "2024-03-10"},  // Friday -> previous Sunday
		{now, 1, "2024-03-03"},
		{now, 2, "2024-02-25"},
		{time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC), 0, "2024-03-10"}, // Sunday stays put
	}
	for i, tc := range cases {
		if got := WeekStart(tc.now, tc.offset).Key(); got != tc.want {
			t.Errorf("case %d: start = %s, want %s", i, got, tc.want)
		}
	}
}

func TestForWeekBudget(t *testing.T) {
	// Week of 2024-03-10..2024-03-16, entirely within March.
	expenses := []core.Expense{
		exp(1, 10000, core.CategoryFood, core.NewDate(2024, time.March, 11)),
		exp(2, 5000, core.CategoryBills, core.NewDate(2024, time.March, 13)),
	}
	incomes := Incomes{"2024-03": {Cents: 433000}}

	w := ForWeek(expenses, incomes, now, 0)
	if w.Start.Key() != "2024-03-10" || w.End.Key() != "2024-03-16" {
		t.Fatalf("window = %s..%s", w.Start.Key(), w.End.Key())
	}
	if w.Total.Cents != 15000 {
		t.Fatalf("total = %d, want 15000", w.Total.Cents)
	}
	if !w.HasBudget {
		t.Fatal("expected a budget")
	}
	// 4330.00 / 4.33 = 1000.00 a week.
	if w.Budget.Cents != 100000 {
		t.Errorf("budget = %d, want 100000", w.Budget.Cents)
	}
	if w.Remaining.Cents != 85000 {
		t.Errorf("remaining = %d, want 85000", w.Remaining.Cents)
	}
	if w.DailyAverage.Cents != 15000/7 {
		t.Errorf("daily average = %d, want %d", w.DailyAverage.Cents, int64(15000/7))
	}
}

func TestForWeekNoIncomeShowsPeak(t *testing.T) {
	expenses := []core.Expense{
		exp(1, 2000, core.CategoryFood, core.NewDate(2024, time.March, 11)),
		exp(2, 8000, core.CategoryShopping, core.NewDate(2024, time.March, 16)), // Saturday
		exp(3, 8000, core.CategoryFood, core.NewDate(2024, time.March, 12)),
	}

	w := ForWeek(expenses, nil, now, 0)
	if w.HasBudget {
		t.Fatal("expected no budget without income")
	}
	// Tuesday and Saturday tie at 8000; the earlier day wins.
	if got := w.Peak.Date.Key(); got != "2024-03-12" {
		t.Errorf("peak day = %s, want 2024-03-12", got)
	}
	if w.Peak.Total.Cents != 8000 {
		t.Errorf("peak total = %d, want 8000", w.Peak.Total.Cents)
	}
	if len(w.Days) != 7 {
		t.Fatalf("days = %d, want 7", len(w.Days))
	}
}

func TestForWeekWeekendOnly(t *testing.T) {
	// Entries on Sunday and Saturday only; the five weekdays report zero.
	expenses := []core.Expense{
		exp(1, 3000, core.CategoryEntertainment, core.NewDate(2024, time.March, 10)),
		exp(2, 4500, core.CategoryFood, core.NewDate(2024, time.March, 16)),
	}

	w := ForWeek(expenses, nil, now, 0)
	if w.Total.Cents != 7500 {
		t.Fatalf("total = %d, want 7500", w.Total.Cents)
	}
	if w.Days[0].Total.Cents != 3000 || w.Days[6].Total.Cents != 4500 {
		t.Fatalf("weekend totals = %d,%d", w.Days[0].Total.Cents, w.Days[6].Total.Cents)
	}
	for i := 1; i <= 5; i++ {
		d := w.Days[i]
		if d.Total.Cents != 0 {
			t.Errorf("%s total = %d, want 0", d.Date.Key(), d.Total.Cents)
		}
		if want := w.Start.AddDays(i).Key(); d.Date.Key() != want {
			t.Errorf("day %d date = %s, want %s", i, d.Date.Key(), want)
		}
	}
}

func TestForWeekSpanningTwoMonths(t *testing.T) {
	// 2024-03-31 is a Sunday; the week runs Mar 31 .. Apr 6.
	at := time.Date(2024, time.April, 3, 9, 0, 0, 0, time.UTC)
	incomes := Incomes{
		"2024-03": {Cents: 200000},
		"2024-04": {Cents: 400000},
	}
	w := ForWeek(nil, incomes, at, 0)
	if w.Start.Key() != "2024-03-31" || w.End.Key() != "2024-04-06" {
		t.Fatalf("window = %s..%s", w.Start.Key(), w.End.Key())
	}
	// Mean of the two touched months: 3000.00, over 4.33 weeks => 692.84.
	if !w.HasBudget {
		t.Fatal("expected a budget")
	}
	if got := w.Budget.Cents; got != 69284 {
		t.Errorf("budget = %d, want 69284", got)
	}
}

func TestForWeekUnsetMonthDilutesAverage(t *testing.T) {
	// Only one of the two touched months declares an income; the average
	// still divides by both.
	at := time.Date(2024, time.April, 3, 9, 0, 0, 0, time.UTC)
	incomes := Incomes{"2024-04": {Cents: 400000}}
	w := ForWeek(nil, incomes, at, 0)
	if !w.HasBudget {
		t.Fatal("expected a budget")
	}
	// 4000.00 / 2 months / 4.33 => 461.89.
	if got := w.Budget.Cents; got != 46189 {
		t.Errorf("budget = %d, want 46189", got)
	}
}

func TestForMonth(t *testing.T) {
	expenses := []core.Expense{
		exp(1, 30000, core.CategoryBills, core.NewDate(2024, time.March, 1)),
		exp(2, 2000, core.CategoryFood, core.NewDate(2024, time.March, 5)),
		exp(3, 3000, core.CategoryFood, core.NewDate(2024, time.March, 5)),
		exp(4, 1000, core.CategoryTransport, core.NewDate(2024, time.April, 2)),
	}
	incomes := Incomes{"2024-03": {Cents: 100000}}

	m := ForMonth(expenses, incomes, "2024-03")
	if m.Total.Cents != 35000 {
		t.Fatalf("total = %d, want 35000", m.Total.Cents)
	}
	if !m.HasIncome || m.Income.Cents != 100000 {
		t.Fatalf("income = %v/%d", m.HasIncome, m.Income.Cents)
	}
	if m.Remaining.Cents != 65000 {
		t.Errorf("remaining = %d, want 65000", m.Remaining.Cents)
	}
	if m.ActiveDays != 2 {
		t.Errorf("active days = %d, want 2", m.ActiveDays)
	}
	if len(m.Cumulative) != 31 {
		t.Fatalf("cumulative len = %d, want 31", len(m.Cumulative))
	}
	if m.Cumulative[0].Cents != 30000 {
		t.Errorf("day 1 cumulative = %d, want 30000", m.Cumulative[0].Cents)
	}
	if m.Cumulative[4].Cents != 35000 {
		t.Errorf("day 5 cumulative = %d, want 35000", m.Cumulative[4].Cents)
	}
	prev := int64(0)
	for i, c := range m.Cumulative {
		if c.Cents < prev {
			t.Fatalf("cumulative decreases at day %d", i+1)
		}
		prev = c.Cents
	}
	if last := m.Cumulative[len(m.Cumulative)-1]; last != m.Total {
		t.Errorf("final cumulative = %d, want total %d", last.Cents, m.Total.Cents)
	}
}

func TestForMonthOverBudget(t *testing.T) {
	expenses := []core.Expense{
		exp(1, 105000, core.CategoryShopping, core.NewDate(2024, time.March, 10)),
	}
	incomes := Incomes{"2024-03": {Cents: 100000}}
	m := ForMonth(expenses, incomes, "2024-03")
	if m.Remaining.Cents != -5000 {
		t.Errorf("remaining = %d, want -5000", m.Remaining.Cents)
	}
}

func TestForMonthNoIncome(t *testing.T) {
	m := ForMonth(nil, nil, "2024-03")
	if m.HasIncome {
		t.Fatal("expected no income")
	}
	if m.Total.Cents != 0 || len(m.Cumulative) != 31 {
		t.Fatalf("empty month total=%d cumulative=%d", m.Total.Cents, len(m.Cumulative))
	}
}

func TestForYear(t *testing.T) {
	expenses := []core.Expense{
		exp(1, 10000, core.CategoryFood, core.NewDate(2024, time.January, 10)),
		exp(2, 40000, core.CategoryBills, core.NewDate(2024, time.June, 1)),
		exp(3, 40000, core.CategoryFood, core.NewDate(2024, time.September, 1)),
		exp(4, 5000, core.CategoryFood, core.NewDate(2023, time.December, 31)),
	}
	incomes := Incomes{
		"2024-01": {Cents: 100000},
		"2024-06": {Cents: 100000},
		"2023-12": {Cents: 999999},
	}

	y := ForYear(expenses, incomes, 2024)
	if y.Total.Cents != 90000 {
		t.Fatalf("total = %d, want 90000", y.Total.Cents)
	}
	if len(y.Months) != 12 {
		t.Fatalf("months = %d, want 12", len(y.Months))
	}
	if y.Months[0].Total.Cents != 10000 || y.Months[5].Total.Cents != 40000 {
		t.Errorf("month totals = %d,%d", y.Months[0].Total.Cents, y.Months[5].Total.Cents)
	}
	if y.Income.Cents != 200000 || y.MonthsWithIncome != 2 {
		t.Errorf("income = %d across %d months", y.Income.Cents, y.MonthsWithIncome)
	}
	if y.Remaining.Cents != 110000 {
		t.Errorf("remaining = %d, want 110000", y.Remaining.Cents)
	}
	// June and September tie at 40000; June wins.
	if y.Peak.Month != time.June {
		t.Errorf("peak month = %s, want June", y.Peak.Month)
	}
}
