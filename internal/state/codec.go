package state

import (
	"encoding/json"
	"fmt"
	"sort"

	"ledger/internal/core"
)

// expenseRecord is the persisted shape of one expense. Amounts travel as
// decimal units, not cents, to keep the stored JSON human-readable.
type expenseRecord struct {
	ID       int64   `json:"id"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Note     string  `json:"note"`
	Date     string  `json:"date"`
}

// settingsRecord bundles the display currency with per-month incomes keyed
// by "YYYY-MM".
type settingsRecord struct {
	Currency string             `json:"currency"`
	Incomes  map[string]float64 `json:"incomes"`
}

// EncodeExpenses serializes the collection for the expenses key.
func EncodeExpenses(expenses []core.Expense) ([]byte, error) {
	records := make([]expenseRecord, len(expenses))
	for i, e := range expenses {
		records[i] = expenseRecord{
			ID:       e.ID,
			Amount:   e.Amount.Units(),
			Category: string(e.Category),
			Note:     e.Note,
			Date:     e.Date.Key(),
		}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode expenses: %w", err)
	}
	return data, nil
}

// DecodeExpenses parses the expenses key. Records with an unparseable date
// or a non-positive amount are dropped rather than poisoning the whole
// collection; unknown categories fall back to the default.
func DecodeExpenses(data []byte) ([]core.Expense, error) {
	var records []expenseRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}
	expenses := make([]core.Expense, 0, len(records))
	for _, r := range records {
		date, err := core.ParseDate(r.Date)
		if err != nil {
			continue
		}
		amount := core.MoneyFromFloat(r.Amount)
		if r.ID <= 0 || amount.Cents <= 0 {
			continue
		}
		e := core.Expense{
			ID:       r.ID,
			Amount:   amount,
			Category: core.NormalizeCategory(r.Category),
			Note:     r.Note,
			Date:     date,
		}
		expenses = append(expenses, e.Normalize())
	}
	return expenses, nil
}

// EncodeSettings serializes the currency and incomes for the settings key.
// Month keys are sorted so equal states always produce identical bytes.
func EncodeSettings(currency core.Currency, incomes map[core.MonthKey]core.Money) ([]byte, error) {
	rec := settingsRecord{
		Currency: string(currency),
		Incomes:  make(map[string]float64, len(incomes)),
	}
	for mk, m := range incomes {
		rec.Incomes[string(mk)] = m.Units()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return data, nil
}

// DecodeSettings parses the settings key. An unknown currency falls back to
// the default; negative or malformed incomes coerce to zero and zero
// incomes are dropped.
func DecodeSettings(data []byte) (core.Currency, map[core.MonthKey]core.Money, error) {
	var rec settingsRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", nil, fmt.Errorf("decode settings: %w", err)
	}

	currency := core.Currency(rec.Currency)
	if !currency.Valid() {
		currency = core.DefaultCurrency
	}

	incomes := make(map[core.MonthKey]core.Money, len(rec.Incomes))
	for key, units := range rec.Incomes {
		mk := core.MonthKey(key)
		if _, _, err := mk.Parse(); err != nil {
			continue
		}
		m := core.MoneyFromFloat(units)
		if m.Cents > 0 {
			incomes[mk] = m
		}
	}
	return currency, incomes, nil
}

// SortedIncomeMonths returns the income months in ascending order, for
// stable iteration in exports and mirrors.
func SortedIncomeMonths(incomes map[core.MonthKey]core.Money) []core.MonthKey {
	keys := make([]core.MonthKey, 0, len(incomes))
	for mk := range incomes {
		keys = append(keys, mk)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
