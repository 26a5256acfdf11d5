package backend

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: Memory}, false},
		{"sqlite with path", Config{Type: SQLite, SQLiteDBPath: "x.db"}, false},
		{"sqlite without path", Config{Type: SQLite}, true},
		{"unknown", Config{Type: "postgres"}, true},
		{"empty", Config{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestOpenMemory(t *testing.T) {
	store, err := Open(Config{Type: Memory}, testLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
}

func TestOpenSQLite(t *testing.T) {
	cfg := Config{Type: SQLite, SQLiteDBPath: filepath.Join(t.TempDir(), "ledger.db")}
	store, err := Open(cfg, testLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
}
