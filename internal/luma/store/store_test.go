package store

import (
	"path/filepath"
	"testing"
)

func TestNew_MigrationsApplyOnce(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "luma.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}

	var version int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version); err != nil {
		t.Fatalf("read schema version: %v", err)
	}
	if version < 1 {
		t.Fatalf("expected at least one applied migration, got version %d", version)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopening must not re-apply or duplicate anything.
	s2, err := New(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	var count int
	if err := s2.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != version {
		t.Fatalf("migration rows changed on reopen: %d rows for version %d", count, version)
	}
}
