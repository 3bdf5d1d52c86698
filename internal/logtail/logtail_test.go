package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	// Create a temporary log file
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "penplot.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("2026/01/02 15:04:05 sync %d ok", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v, want nil", err)
	}
	if got != nil {
		t.Fatalf("Read() = %v, want nil", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want Level
	}{
		{"2026/01/02 15:04:05 penplot starting, relay http://127.0.0.1:8080", LevelInfo},
		{"2026/01/02 15:04:05 sync failed: api /api/lines returned status 500", LevelError},
		{"2026/01/02 15:04:05 send point error: connection refused", LevelError},
		{"2026/01/02 15:04:05 point dropped: dispatch queue full", LevelWarn},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		if got := Classify(tt.line); got != tt.want {
			t.Errorf("Classify(%q) = %d, want %d", tt.line, got, tt.want)
		}
	}
}
