package database

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveMigrationsPath_Configured(t *testing.T) {
	if got := ResolveMigrationsPath("/srv/migrations"); got != "/srv/migrations" {
		t.Errorf("expected configured path, got %q", got)
	}
}

func TestResolveMigrationsPath_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "migrations"), 0o755); err != nil {
		t.Fatalf("failed to create migrations dir: %v", err)
	}
	t.Chdir(dir)

	got := ResolveMigrationsPath("")
	if filepath.Base(got) != "migrations" || !filepath.IsAbs(got) {
		t.Errorf("expected absolute ./migrations path, got %q", got)
	}
}

func TestMigrateUp_WithoutURL(t *testing.T) {
	db := &DB{}
	if _, err := db.MigrateUp(t.TempDir()); err == nil {
		t.Error("expected error for a pool without a known URL")
	}
}
