package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func testStoreRoundTrip(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, KeyExpenses); err != nil || ok {
		t.Fatalf("get before put: ok=%v err=%v", ok, err)
	}

	payload := []byte(`[{"id":1,"amount":12.5,"category":"food","note":"Food & Drink","date":"2024-03-15"}]`)
	if err := s.Put(ctx, KeyExpenses, payload); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := s.Get(ctx, KeyExpenses)
	if err != nil || !ok {
		t.Fatalf("get after put: ok=%v err=%v", ok, err)
	}
	if string(got) != string(payload) {
		t.Fatalf("value = %s, want %s", got, payload)
	}

	// Overwrite replaces the whole value.
	if err := s.Put(ctx, KeyExpenses, []byte(`[]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _, _ = s.Get(ctx, KeyExpenses)
	if string(got) != `[]` {
		t.Fatalf("after overwrite = %s, want []", got)
	}
}

func TestMemoryStore(t *testing.T) {
	testStoreRoundTrip(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	testStoreRoundTrip(t, s)
}

func TestSQLiteStoreReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "ledger.db")

	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := s.Put(ctx, KeySettings, []byte(`{"currency":"EUR","incomes":{}}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	s.Close()

	s, err = NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer s.Close()

	got, ok, err := s.Get(ctx, KeySettings)
	if err != nil || !ok {
		t.Fatalf("get after reopen: ok=%v err=%v", ok, err)
	}
	if string(got) != `{"currency":"EUR","incomes":{}}` {
		t.Fatalf("value = %s", got)
	}
}
