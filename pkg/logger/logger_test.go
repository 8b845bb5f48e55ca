package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextFieldsAccumulate(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logg := New(Options{ServiceName: "storefront", Level: zerolog.DebugLevel, Output: &buf})

	ctx := logg.WithOperation(context.Background(), "cart.add")
	ctx = logg.WithUserID(ctx, "user-1")
	logg.Info(ctx, "pending")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["operation"] != "cart.add" {
		t.Fatalf("missing operation field: %v", entry)
	}
	if entry["user_id"] != "user-1" {
		t.Fatalf("missing user_id field: %v", entry)
	}
	if entry["service"] != "storefront" {
		t.Fatalf("missing service field: %v", entry)
	}
}

func TestErrorIncludesCause(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logg := New(Options{ServiceName: "storefront", Output: &buf})

	logg.Error(context.Background(), "rejected", errors.New("boom"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["error"] != "boom" {
		t.Fatalf("missing error field: %v", entry)
	}
}

func TestParseLevelFallback(t *testing.T) {
	t.Parallel()

	if lvl := ParseLevel("warn"); lvl != zerolog.WarnLevel {
		t.Fatalf("unexpected level %v", lvl)
	}
	if lvl := ParseLevel("nonsense"); lvl != zerolog.InfoLevel {
		t.Fatalf("unexpected fallback level %v", lvl)
	}
}
