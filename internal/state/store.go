// Package state holds the authoritative in-memory ledger and mirrors every
// mutation to the key-value store. Reads never touch storage; writes return
// as soon as memory is updated and persist in the background.
package state

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"ledger/internal/core"
	"ledger/internal/storage"
)

// Notifier observes successful snapshot writes. Implementations must not
// block for long; they run on the persistence goroutine.
type Notifier interface {
	SnapshotSaved(ctx context.Context, key string, revision int64)
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier registers a hook invoked after each successful write.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithSaveErrorHandler replaces the default error handler, which logs the
// failure and moves on. Mutations never fail because persistence did.
func WithSaveErrorHandler(fn func(key string, err error)) Option {
	return func(s *Store) { s.onSaveError = fn }
}

// WithSaveTimeout bounds each background write. Zero means no bound.
func WithSaveTimeout(d time.Duration) Option {
	return func(s *Store) { s.saveTimeout = d }
}

// Store is the single owner of application state. All methods are safe for
// concurrent use.
type Store struct {
	kv          storage.Store
	logger      *slog.Logger
	notifier    Notifier
	onSaveError func(key string, err error)
	saveTimeout time.Duration

	mu       sync.RWMutex
	expenses []core.Expense // newest first
	currency core.Currency
	incomes  map[core.MonthKey]core.Money

	revision atomic.Int64
	saves    sync.WaitGroup
}

func New(kv storage.Store, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		kv:          kv,
		logger:      logger,
		currency:    core.DefaultCurrency,
		incomes:     make(map[core.MonthKey]core.Money),
		saveTimeout: 10 * time.Second,
	}
	s.onSaveError = func(key string, err error) {
		s.logger.Error("snapshot save failed", "key", key, "error", err)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load hydrates the store from persistence. Any failure to read or decode
// a snapshot is logged and treated the same as a missing key, so the
// application always starts, with empty state if it must.
func (s *Store) Load(ctx context.Context) {
	expenses := s.loadExpenses(ctx)
	currency, incomes := s.loadSettings(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = expenses
	s.currency = currency
	s.incomes = incomes
}

func (s *Store) loadExpenses(ctx context.Context) []core.Expense {
	data, ok, err := s.kv.Get(ctx, storage.KeyExpenses)
	if err != nil {
		s.logger.Warn("reading expenses snapshot failed, starting empty", "key", storage.KeyExpenses, "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	expenses, err := DecodeExpenses(data)
	if err != nil {
		s.logger.Warn("discarding corrupt expenses snapshot", "key", storage.KeyExpenses, "error", err)
		return nil
	}
	return expenses
}

func (s *Store) loadSettings(ctx context.Context) (core.Currency, map[core.MonthKey]core.Money) {
	data, ok, err := s.kv.Get(ctx, storage.KeySettings)
	if err != nil {
		s.logger.Warn("reading settings snapshot failed, using defaults", "key", storage.KeySettings, "error", err)
		return core.DefaultCurrency, make(map[core.MonthKey]core.Money)
	}
	if !ok {
		return core.DefaultCurrency, make(map[core.MonthKey]core.Money)
	}
	currency, incomes, err := DecodeSettings(data)
	if err != nil {
		s.logger.Warn("discarding corrupt settings snapshot", "key", storage.KeySettings, "error", err)
		return core.DefaultCurrency, make(map[core.MonthKey]core.Money)
	}
	return currency, incomes
}

// Snapshot returns copies of the current state; callers may retain them
// freely.
func (s *Store) Snapshot() (expenses []core.Expense, currency core.Currency, incomes map[core.MonthKey]core.Money) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	expenses = make([]core.Expense, len(s.expenses))
	copy(expenses, s.expenses)
	incomes = make(map[core.MonthKey]core.Money, len(s.incomes))
	for mk, m := range s.incomes {
		incomes[mk] = m
	}
	return expenses, s.currency, incomes
}

// Expenses returns a copy of the collection, newest first.
func (s *Store) Expenses() []core.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Expense, len(s.expenses))
	copy(out, s.expenses)
	return out
}

// Currency returns the display currency.
func (s *Store) Currency() core.Currency {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currency
}

// Incomes returns a copy of the per-month incomes.
func (s *Store) Incomes() map[core.MonthKey]core.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[core.MonthKey]core.Money, len(s.incomes))
	for mk, m := range s.incomes {
		out[mk] = m
	}
	return out
}

// AddOrReplace inserts the expense, or replaces in place when an expense
// with the same ID already exists. New expenses go to the front of the
// collection.
func (s *Store) AddOrReplace(e core.Expense) {
	e = e.Normalize()

	s.mu.Lock()
	replaced := false
	for i := range s.expenses {
		if s.expenses[i].ID == e.ID {
			s.expenses[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		s.expenses = append([]core.Expense{e}, s.expenses...)
	}
	s.mu.Unlock()

	s.persistExpenses()
}

// Delete removes the expense with the given ID and reports whether it was
// present. Deleting an unknown ID is a no-op and does not persist.
func (s *Store) Delete(id int64) bool {
	s.mu.Lock()
	found := false
	for i := range s.expenses {
		if s.expenses[i].ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.persistExpenses()
	}
	return found
}

// ClearAll drops every expense. Incomes and the currency are untouched.
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.expenses = nil
	s.mu.Unlock()

	s.persistExpenses()
}

// SetIncome records the income for one month, overwriting any previous
// value. Negative amounts coerce to zero, and a zero income unsets the
// month.
func (s *Store) SetIncome(mk core.MonthKey, income core.Money) {
	if income.Cents < 0 {
		income = core.Money{}
	}

	s.mu.Lock()
	if income.Cents == 0 {
		delete(s.incomes, mk)
	} else {
		s.incomes[mk] = income
	}
	s.mu.Unlock()

	s.persistSettings()
}

// SetCurrency switches the display currency. Unknown codes fall back to the
// default.
func (s *Store) SetCurrency(c core.Currency) {
	if !c.Valid() {
		c = core.DefaultCurrency
	}

	s.mu.Lock()
	s.currency = c
	s.mu.Unlock()

	s.persistSettings()
}

// Flush blocks until every pending background write has finished. Intended
// for shutdown and tests.
func (s *Store) Flush() {
	s.saves.Wait()
}

// Revision returns the number of snapshot writes attempted so far.
func (s *Store) Revision() int64 {
	return s.revision.Load()
}

func (s *Store) persistExpenses() {
	s.mu.RLock()
	data, err := EncodeExpenses(s.expenses)
	s.mu.RUnlock()
	s.save(storage.KeyExpenses, data, err)
}

func (s *Store) persistSettings() {
	s.mu.RLock()
	data, err := EncodeSettings(s.currency, s.incomes)
	s.mu.RUnlock()
	s.save(storage.KeySettings, data, err)
}

// save writes the already-encoded snapshot in the background. Encoding
// happens on the caller's goroutine so the bytes reflect the state at
// mutation time even when writes reorder.
func (s *Store) save(key string, data []byte, encodeErr error) {
	if encodeErr != nil {
		s.onSaveError(key, encodeErr)
		return
	}
	revision := s.revision.Add(1)

	s.saves.Add(1)
	go func() {
		defer s.saves.Done()

		ctx := context.Background()
		if s.saveTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.saveTimeout)
			defer cancel()
		}

		if err := s.kv.Put(ctx, key, data); err != nil {
			s.onSaveError(key, err)
			return
		}
		if s.notifier != nil {
			s.notifier.SnapshotSaved(ctx, key, revision)
		}
	}()
}
