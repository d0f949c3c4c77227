package retention

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nguyentantai21042004/slidecast/internal/config"
	"github.com/nguyentantai21042004/slidecast/internal/logger"
)

func touch(t *testing.T, path string, age time.Duration, now time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	mod := now.Add(-age)
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
}

func TestPurge(t *testing.T) {
	now := time.Now()
	output := t.TempDir()
	temp := t.TempDir()

	touch(t, filepath.Join(output, "old.mp4"), 48*time.Hour, now)
	touch(t, filepath.Join(output, "old.docx"), 25*time.Hour, now)
	touch(t, filepath.Join(output, "fresh.mp4"), time.Hour, now)

	stale := filepath.Join(temp, "job-1")
	touch(t, filepath.Join(stale, "slide_000.png"), 48*time.Hour, now)
	old := now.Add(-48 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatal(err)
	}

	s := New(config.RetentionConfig{Schedule: "@every 1h", MaxAge: 24 * time.Hour}, logger.Nop(),
		output, temp, filepath.Join(temp, "missing"))

	n, err := s.Purge(context.Background(), now)
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if n != 3 {
		t.Errorf("removed = %d, want 3", n)
	}

	for _, path := range []string{"old.mp4", "old.docx"} {
		if _, err := os.Stat(filepath.Join(output, path)); !os.IsNotExist(err) {
			t.Errorf("%s should be removed", path)
		}
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale work dir should be removed")
	}
	if _, err := os.Stat(filepath.Join(output, "fresh.mp4")); err != nil {
		t.Errorf("fresh.mp4 should be kept: %v", err)
	}
}

func TestStart(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		maxAge   time.Duration
		wantErr  bool
	}{
		{"every", "@every 1h", time.Hour, false},
		{"five field", "0 3 * * *", time.Hour, false},
		{"invalid", "not a schedule", time.Hour, true},
		{"disabled", "not a schedule", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(config.RetentionConfig{Schedule: tt.schedule, MaxAge: tt.maxAge}, logger.Nop(), t.TempDir())
			err := s.Start(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Start() error = %v, wantErr %v", err, tt.wantErr)
			}
			s.Stop()
		})
	}
}
