package migrate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("expected shipped migrations to validate, got %v", err)
	}
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "add_stuff.sql")
	if err := os.WriteFile(path, []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if err := ValidateDir(dir); err == nil {
		t.Fatalf("expected invalid filename to be rejected")
	}
}

func TestValidateDirRejectsMissingHeaders(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "20250301120000_add_stuff.sql")
	if err := os.WriteFile(path, []byte("CREATE TABLE t (id INT);"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if err := ValidateDir(dir); err == nil {
		t.Fatalf("expected missing goose headers to be rejected")
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Cart Tables!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("migration written outside dir: %s", path)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration failed validation: %v", err)
	}
}
