// Package sheets defines the outbound port for mirroring ledger snapshots
// to an external spreadsheet.
package sheets

import (
	"context"

	"ledger/internal/core"
)

// SnapshotMirror rewrites the external copy of the ledger. Implementations
// replace whole tabs; the mirror is a read-only export, never a source of
// truth.
type SnapshotMirror interface {
	MirrorExpenses(ctx context.Context, currency core.Currency, expenses []core.Expense) error
	MirrorIncomes(ctx context.Context, currency core.Currency, incomes map[core.MonthKey]core.Money) error
}
