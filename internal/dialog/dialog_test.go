package dialog

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFallbackPathUsesGivenDir(t *testing.T) {
	prev := now
	now = func() time.Time { return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC) }
	t.Cleanup(func() { now = prev })

	got := FallbackPath("/tmp/shots")
	want := filepath.Join("/tmp/shots", "snapcrab-2025-03-14-092653.png")
	if got != want {
		t.Fatalf("FallbackPath = %q, want %q", got, want)
	}
}

func TestFallbackPathDefaultsSomewhereSensible(t *testing.T) {
	got := FallbackPath("")
	if got == "" {
		t.Fatal("expected non-empty path")
	}
	if !strings.HasSuffix(got, ".png") {
		t.Fatalf("expected .png suffix, got %q", got)
	}
	if !strings.Contains(filepath.Base(got), "snapcrab-") {
		t.Fatalf("expected snapcrab- prefix, got %q", got)
	}
}
