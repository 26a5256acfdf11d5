package core

import (
	"testing"
	"time"
)

var now = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func TestNormalizeCategory(t *testing.T) {
	cases := []struct {
		in   string
		want Category
	}{
		{"food", CategoryFood},
		{" Transport ", CategoryTransport},
		{"BILLS", CategoryBills},
		{"groceries", CategoryOther},
		{"", CategoryOther},
	}
	for i, tc := range cases {
		if got := NormalizeCategory(tc.in); got != tc.want {
			t.Fatalf("case %d: NormalizeCategory(%q) = %q, want %q", i, tc.in, got, tc.want)
		}
	}
}

func TestDateKeyRoundTrip(t *testing.T) {
	d, err := ParseDate("2024-03-05")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Key() != "2024-03-05" {
		t.Fatalf("key = %q", d.Key())
	}
	if d.MonthKey() != "2024-03" {
		t.Fatalf("month key = %q", d.MonthKey())
	}
	if _, err := ParseDate("not-a-date"); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestMonthKeyDaysIn(t *testing.T) {
	cases := []struct {
		mk   MonthKey
		want int
	}{
		{"2024-02", 29}, // leap year
		{"2023-02", 28},
		{"2024-03", 31},
		{"2024-04", 30},
		{"bogus", 0},
	}
	for i, tc := range cases {
		if got := tc.mk.DaysIn(); got != tc.want {
			t.Fatalf("case %d: %q.DaysIn() = %d, want %d", i, tc.mk, got, tc.want)
		}
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		ID:       NewExpenseID(now),
		Amount:   Money{Cents: 1250},
		Category: CategoryFood,
		Note:     "lunch",
		Date:     NewDate(2024, time.March, 5),
	}
	if err := good.Validate(now); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{ID: 0, Amount: Money{Cents: 1}, Category: CategoryFood, Date: NewDate(2024, time.March, 5)},
		{ID: 1, Amount: Money{Cents: 0}, Category: CategoryFood, Date: NewDate(2024, time.March, 5)},
		{ID: 1, Amount: Money{Cents: -100}, Category: CategoryFood, Date: NewDate(2024, time.March, 5)},
		{ID: 1, Amount: Money{Cents: 1}, Category: CategoryFood, Date: Date{}},
		{ID: 1, Amount: Money{Cents: 1}, Category: CategoryFood, Date: NewDate(2024, time.March, 16)}, // future
	}
	for i, e := range bads {
		if err := e.Validate(now); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}

	// Same calendar day as "now" is not future.
	sameDay := good
	sameDay.Date = NewDate(2024, time.March, 15)
	if err := sameDay.Validate(now); err != nil {
		t.Fatalf("same-day expense should validate, got %v", err)
	}
}

func TestExpenseNormalize(t *testing.T) {
	e := Expense{Category: "snacks", Note: "  "}.Normalize()
	if e.Category != CategoryOther {
		t.Fatalf("category = %q, want other", e.Category)
	}
	if e.Note != "Other" {
		t.Fatalf("note = %q, want category label", e.Note)
	}

	e = Expense{Category: "food", Note: ""}.Normalize()
	if e.Note != "Food & Drink" {
		t.Fatalf("note = %q, want Food & Drink", e.Note)
	}

	e = Expense{Category: "food", Note: " coffee "}.Normalize()
	if e.Note != "coffee" {
		t.Fatalf("note = %q, want trimmed user note", e.Note)
	}
}

func TestNewExpenseID(t *testing.T) {
	id := NewExpenseID(now)
	if id != now.UnixMilli() {
		t.Fatalf("id = %d, want %d", id, now.UnixMilli())
	}
	later := NewExpenseID(now.Add(time.Millisecond))
	if later <= id {
		t.Fatal("ids must be monotonic over time")
	}
}
