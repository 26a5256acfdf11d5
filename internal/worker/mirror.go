// Package worker refreshes the external spreadsheet mirror from persisted
// snapshots.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/sheets"
	"ledger/internal/state"
	"ledger/internal/storage"
)

// MirrorWorker reacts to snapshot events by reloading the affected key from
// storage and rewriting the corresponding spreadsheet tab.
type MirrorWorker struct {
	kv     storage.Store
	mirror sheets.SnapshotMirror
	logger *slog.Logger
}

func NewMirrorWorker(kv storage.Store, mirror sheets.SnapshotMirror, logger *slog.Logger) *MirrorWorker {
	return &MirrorWorker{kv: kv, mirror: mirror, logger: logger}
}

// HandleSnapshot processes one snapshot event. Unknown keys are logged and
// dropped so a schema change never wedges the queue.
func (w *MirrorWorker) HandleSnapshot(ctx context.Context, msg *amqp.SnapshotMessage) error {
	w.logger.InfoContext(ctx, "mirroring snapshot",
		"key", msg.Key,
		"revision", msg.Revision)

	switch msg.Key {
	case storage.KeyExpenses:
		return w.mirrorExpenses(ctx)
	case storage.KeySettings:
		return w.mirrorIncomes(ctx)
	default:
		w.logger.WarnContext(ctx, "ignoring snapshot event for unknown key", "key", msg.Key)
		return nil
	}
}

// MirrorAll rewrites both tabs from current storage. Used at startup and by
// the periodic re-mirror tick, so a lost event never leaves the spreadsheet
// stale forever.
func (w *MirrorWorker) MirrorAll(ctx context.Context) error {
	if err := w.mirrorExpenses(ctx); err != nil {
		return err
	}
	return w.mirrorIncomes(ctx)
}

func (w *MirrorWorker) mirrorExpenses(ctx context.Context) error {
	expenses, currency, err := w.loadExpenses(ctx)
	if err != nil {
		return err
	}
	if err := w.mirror.MirrorExpenses(ctx, currency, expenses); err != nil {
		return fmt.Errorf("mirror expenses: %w", err)
	}
	return nil
}

func (w *MirrorWorker) mirrorIncomes(ctx context.Context) error {
	currency, incomes, err := w.loadSettings(ctx)
	if err != nil {
		return err
	}
	if err := w.mirror.MirrorIncomes(ctx, currency, incomes); err != nil {
		return fmt.Errorf("mirror incomes: %w", err)
	}
	return nil
}

func (w *MirrorWorker) loadExpenses(ctx context.Context) ([]core.Expense, core.Currency, error) {
	currency, _, err := w.loadSettings(ctx)
	if err != nil {
		return nil, "", err
	}

	data, ok, err := w.kv.Get(ctx, storage.KeyExpenses)
	if err != nil {
		return nil, "", fmt.Errorf("load expenses snapshot: %w", err)
	}
	if !ok {
		return nil, currency, nil
	}
	expenses, err := state.DecodeExpenses(data)
	if err != nil {
		return nil, "", fmt.Errorf("decode expenses snapshot: %w", err)
	}
	return expenses, currency, nil
}

func (w *MirrorWorker) loadSettings(ctx context.Context) (core.Currency, map[core.MonthKey]core.Money, error) {
	data, ok, err := w.kv.Get(ctx, storage.KeySettings)
	if err != nil {
		return "", nil, fmt.Errorf("load settings snapshot: %w", err)
	}
	if !ok {
		return core.DefaultCurrency, map[core.MonthKey]core.Money{}, nil
	}
	currency, incomes, err := state.DecodeSettings(data)
	if err != nil {
		return "", nil, fmt.Errorf("decode settings snapshot: %w", err)
	}
	return currency, incomes, nil
}
