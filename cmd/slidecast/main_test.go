package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, extra string) string {
	t.Helper()
	cfg := fmt.Sprintf(`paths:
  temp: %[1]s/temp
  output: %[1]s/output
  inbox: %[1]s/inbox
  archived: %[1]s/archived
jobs:
  store: sqlite
  sqlite_path: %[1]s/jobs.sqlite
logging:
  level: error
%[2]s`, dir, extra)
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunClosesStoreOnStartupFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "speech:\n  providers: [carrier-pigeon]\n")

	code := run(options{configPath: path, envFile: filepath.Join(dir, "missing.env")})
	if code != 1 {
		t.Fatalf("run() = %d, want 1", code)
	}

	if _, err := os.Stat(filepath.Join(dir, "jobs.sqlite")); err != nil {
		t.Fatalf("job database should have been created: %v", err)
	}
	// SQLite removes the write-ahead log when the last connection closes.
	if _, err := os.Stat(filepath.Join(dir, "jobs.sqlite-wal")); !os.IsNotExist(err) {
		t.Errorf("WAL file left behind, store was not closed: %v", err)
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("jobs:\n  store: redis\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if code := run(options{configPath: path}); code != 1 {
		t.Errorf("run() = %d, want 1", code)
	}
}
