package app

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/wordbuddy/internal/domain"
)

func TestWriteHistory(t *testing.T) {
	t.Parallel()

	def := "A greeting."
	msg := "No Data Found"
	records := []domain.LookupRecord{
		{ID: uuid.New(), Word: "hello", Outcome: domain.OutcomeSucceeded, Definition: &def, Duration: 120 * time.Millisecond, CreatedAt: time.Now()},
		{ID: uuid.New(), Word: "qwzx", Outcome: domain.OutcomeFailed, Message: &msg, Duration: 80 * time.Millisecond, CreatedAt: time.Now()},
		{ID: uuid.New(), Word: "bye", Outcome: domain.OutcomeCanceled, CreatedAt: time.Now()},
	}

	var buf bytes.Buffer
	if err := writeHistory(&buf, records); err != nil {
		t.Fatalf("writeHistory() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "WHEN") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "A greeting.") || !strings.Contains(lines[1], "120ms") {
		t.Errorf("succeeded row = %q", lines[1])
	}
	if !strings.Contains(lines[2], "No Data Found") {
		t.Errorf("failed row = %q", lines[2])
	}
	if !strings.Contains(lines[3], "canceled") {
		t.Errorf("canceled row = %q", lines[3])
	}
}

func TestWriteHistory_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := writeHistory(&buf, nil); err != nil {
		t.Fatalf("writeHistory() error: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "no lookups recorded" {
		t.Errorf("output = %q", got)
	}
}
