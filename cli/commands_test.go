package main

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Second, "0:45"},
		{5 * time.Minute, "5:00"},
		{32*time.Minute + 7*time.Second, "32:07"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{30 * 1 << 20, "30.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"Video", "Title"},
		[][]string{{"abc123"}},
		nil,
	)
	if !strings.Contains(out, "abc123") {
		t.Errorf("rendered table missing cell:\n%s", out)
	}
}

func TestExitErrorUnwraps(t *testing.T) {
	base := errors.New("partial run")
	err := &exitError{code: 2, err: base}
	if !errors.Is(err, base) {
		t.Error("exitError does not unwrap to its cause")
	}
	if err.Error() != "partial run" {
		t.Errorf("Error() = %q", err.Error())
	}
}
