package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryShopping      Category = "shopping"
	CategoryHealth        Category = "health"
	CategoryBills         Category = "bills"
	CategoryEntertainment Category = "entertainment"
	CategoryEducation     Category = "education"
	CategoryOther         Category = "other"
)

type (
	// Category is one of the fixed set of spending classifications.
	Category string

	// Date is a calendar date without a time-of-day component.
	Date struct {
		time.Time
	}

	// MonthKey identifies a calendar month as "YYYY-MM". It indexes the
	// income mapping and prefix-filters expenses by month.
	MonthKey string

	Money struct {
		Cents int64
	}

	// Expense is a single recorded spending transaction.
	Expense struct {
		ID       int64
		Amount   Money
		Category Category
		Note     string
		Date     Date
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrZeroDate      = errors.New("date cannot be zero")
	ErrFutureDate    = errors.New("date cannot be in the future")
	ErrInvalidID     = errors.New("invalid expense id")
)

var categories = []struct {
	ID    Category
	Label string
}{
	{CategoryFood, "Food & Drink"},
	{CategoryTransport, "Transport"},
	{CategoryShopping, "Shopping"},
	{CategoryHealth, "Health"},
	{CategoryBills, "Bills & Utilities"},
	{CategoryEntertainment, "Entertainment"},
	{CategoryEducation, "Education"},
	{CategoryOther, "Other"},
}

var categoryLabels = func() map[Category]string {
	m := make(map[Category]string, len(categories))
	for _, c := range categories {
		m[c.ID] = c.Label
	}
	return m
}()

// Categories returns the closed category set in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = c.ID
	}
	return out
}

// Valid reports whether c is one of the known category identifiers.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the display label for the category ("Food & Drink", ...).
// Unknown categories render as Other.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return categoryLabels[CategoryOther]
}

// NormalizeCategory maps an arbitrary identifier onto the closed set,
// falling back to Other for anything unrecognized.
func NormalizeCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c
	}
	return CategoryOther
}

// NewDate creates a Date from year, month, day. The time component is fixed
// to midnight UTC so that two dates with equal components compare equal.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Key renders the date as "YYYY-MM-DD", the wire and filter format.
func (d Date) Key() string {
	return d.Format("2006-01-02")
}

// MonthKey returns the month this date belongs to.
func (d Date) MonthKey() MonthKey {
	return MonthKeyFor(d.Year(), d.Month())
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// After reports whether d falls on a later calendar day than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// Equal reports whether two dates are the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.Key() == other.Key()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// MonthKeyFor builds the "YYYY-MM" key for a year and month.
func MonthKeyFor(year int, month time.Month) MonthKey {
	return MonthKey(fmt.Sprintf("%04d-%02d", year, int(month)))
}

// MonthKeyOf returns the month key of the instant's calendar month.
func MonthKeyOf(t time.Time) MonthKey {
	return MonthKeyFor(t.Year(), t.Month())
}

// Parse splits the key back into year and month. Returns an error for
// malformed keys.
func (mk MonthKey) Parse() (year int, month time.Month, err error) {
	t, err := time.Parse("2006-01", string(mk))
	if err != nil {
		return 0, 0, fmt.Errorf("parse month key %q: %w", mk, err)
	}
	return t.Year(), t.Month(), nil
}

// DaysIn returns the number of calendar days in the keyed month, or 0 for a
// malformed key.
func (mk MonthKey) DaysIn() int {
	year, month, err := mk.Parse()
	if err != nil {
		return 0
	}
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Day renders the "YYYY-MM-DD" key for a day of the keyed month.
func (mk MonthKey) Day(day int) string {
	return fmt.Sprintf("%s-%02d", mk, day)
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Units returns the amount in major currency units for display purposes.
// Use cents for all computation.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Sub returns m minus other; the result may be negative.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// IsNegative reports whether the amount is below zero (over budget when the
// amount is a remainder).
func (m Money) IsNegative() bool {
	return m.Cents < 0
}

// Abs returns the magnitude of the amount.
func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}

// NewExpenseID derives a collection-unique, recency-sortable identifier from
// the creation instant (Unix milliseconds).
func NewExpenseID(now time.Time) int64 {
	return now.UnixMilli()
}

// Validate checks the expense against the creation-time rules: positive
// amount, known category, a real date no later than today.
func (e Expense) Validate(now time.Time) error {
	if e.ID <= 0 {
		return ErrInvalidID
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.Date.After(DateOf(now)) {
		return ErrFutureDate
	}
	return nil
}

// Normalize fills derived defaults: unknown categories collapse to Other and
// an empty note takes the category's display label.
func (e Expense) Normalize() Expense {
	e.Category = NormalizeCategory(string(e.Category))
	if strings.TrimSpace(e.Note) == "" {
		e.Note = e.Category.Label()
	} else {
		e.Note = strings.TrimSpace(e.Note)
	}
	return e
}
