// Package google mirrors ledger snapshots to a Google Spreadsheet using a
// service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"ledger/internal/core"
	ports "ledger/internal/sheets"
	"ledger/internal/state"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	expensesSheet string
	incomesSheet  string
	logger        *slog.Logger
}

var _ ports.SnapshotMirror = (*Client)(nil)

// NewFromEnv creates a mirror client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus service account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional tab names: EXPENSES_SHEET_NAME (default "Expenses") and
// INCOMES_SHEET_NAME (default "Incomes").
func NewFromEnv(ctx context.Context, logger *slog.Logger) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	expensesSheet := strings.TrimSpace(os.Getenv("EXPENSES_SHEET_NAME"))
	if expensesSheet == "" {
		expensesSheet = "Expenses"
	}
	incomesSheet := strings.TrimSpace(os.Getenv("INCOMES_SHEET_NAME"))
	if incomesSheet == "" {
		incomesSheet = "Incomes"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		expensesSheet: expensesSheet,
		incomesSheet:  incomesSheet,
		logger:        logger,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// MirrorExpenses replaces the expenses tab with the current collection,
// newest first, one row per expense.
func (c *Client) MirrorExpenses(ctx context.Context, currency core.Currency, expenses []core.Expense) error {
	rows := make([][]any, 0, len(expenses)+1)
	rows = append(rows, []any{"Date", "Category", "Note", fmt.Sprintf("Amount (%s)", currency)})
	for _, e := range expenses {
		rows = append(rows, []any{
			e.Date.Key(),
			e.Category.Label(),
			e.Note,
			e.Amount.Units(),
		})
	}
	return c.rewriteSheet(ctx, c.expensesSheet, rows)
}

// MirrorIncomes replaces the incomes tab, one row per month in ascending
// order.
func (c *Client) MirrorIncomes(ctx context.Context, currency core.Currency, incomes map[core.MonthKey]core.Money) error {
	rows := make([][]any, 0, len(incomes)+1)
	rows = append(rows, []any{"Month", fmt.Sprintf("Income (%s)", currency)})
	for _, mk := range state.SortedIncomeMonths(incomes) {
		rows = append(rows, []any{string(mk), incomes[mk].Units()})
	}
	return c.rewriteSheet(ctx, c.incomesSheet, rows)
}

func (c *Client) rewriteSheet(ctx context.Context, sheetName string, rows [][]any) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	clearRange := fmt.Sprintf("%s!A:Z", sheetName)
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear sheet %s: %w", sheetName, err)
	}

	writeRange := fmt.Sprintf("%s!A1", sheetName)
	vr := &gsheet.ValueRange{Values: rows}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write sheet %s: %w", sheetName, err)
	}

	c.logger.DebugContext(ctx, "rewrote sheet", "sheet", sheetName, "rows", len(rows)-1)
	return nil
}
