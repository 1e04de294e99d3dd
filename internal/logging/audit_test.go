package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAuditLoggerEmit(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := NewAuditLogger("test", WithoutStdout(), WithWriter(buf))
	if err != nil {
		t.Fatalf("NewAuditLogger: %v", err)
	}

	event := AuditEvent{EventType: EventEncrypt, Decision: DecisionAllow, RequestID: "req-1"}
	if err := logger.Emit(event); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	var decoded AuditEvent
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if decoded.Component != "test" {
		t.Fatalf("expected component 'test', got %q", decoded.Component)
	}
	if decoded.EventType != EventEncrypt {
		t.Fatalf("expected event type %q, got %q", EventEncrypt, decoded.EventType)
	}
	if decoded.RequestID != "req-1" {
		t.Fatalf("expected request id to round trip, got %q", decoded.RequestID)
	}
	if decoded.Timestamp.IsZero() {
		t.Fatalf("expected timestamp to be set")
	}
}

func TestAuditLoggerRedactsKeyMaterial(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := NewAuditLogger("api", WithoutStdout(), WithWriter(buf))
	if err != nil {
		t.Fatalf("NewAuditLogger: %v", err)
	}

	err = logger.Emit(AuditEvent{
		EventType: EventRejected,
		Decision:  DecisionDeny,
		Reason:    "bad request key=alphonse",
		Metadata:  map[string]any{"key": "alphonse", "message": "attack at dawn", "direct": true},
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}

	line := buf.String()
	for _, leaked := range []string{"alphonse", "attack at dawn"} {
		if strings.Contains(line, leaked) {
			t.Errorf("audit line leaked %q: %s", leaked, line)
		}
	}
	if !strings.Contains(line, `"direct":true`) {
		t.Errorf("expected non-sensitive metadata to survive: %s", line)
	}
}

func TestAuditLoggerWithComponentSharesWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	logger, err := NewAuditLogger("root", WithoutStdout(), WithFile(path))
	if err != nil {
		t.Fatalf("NewAuditLogger: %v", err)
	}
	child := logger.WithComponent("child")

	if err := child.Emit(AuditEvent{EventType: EventPipelineRun}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := child.Close(); err != nil {
		t.Fatalf("child Close: %v", err)
	}
	if err := logger.Emit(AuditEvent{EventType: EventRecipeSaved}); err != nil {
		t.Fatalf("parent Emit after child close: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), data)
	}
	if !strings.Contains(lines[0], `"component":"child"`) {
		t.Errorf("expected child component on first line: %s", lines[0])
	}
}

func TestNewAuditLoggerRequiresWriter(t *testing.T) {
	if _, err := NewAuditLogger("x", WithoutStdout()); err == nil {
		t.Fatal("expected error when no writers are configured")
	}
	if _, err := NewAuditLogger("x", WithFile("  ")); err == nil {
		t.Fatal("expected error for blank file path")
	}
}

func TestDiscard(t *testing.T) {
	if err := Discard().Emit(AuditEvent{EventType: EventEncrypt}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
}

func TestWithRequestTagsEvents(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := NewAuditLogger("root", WithoutStdout(), WithWriter(buf))
	if err != nil {
		t.Fatalf("NewAuditLogger: %v", err)
	}
	scoped := logger.WithComponent("api").WithRequest("req-9")

	if err := scoped.Emit(AuditEvent{EventType: EventEncrypt}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := scoped.Emit(AuditEvent{EventType: EventDecrypt, RequestID: "explicit"}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := logger.Emit(AuditEvent{EventType: EventRecipeSaved}); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	var got []AuditEvent
	dec := json.NewDecoder(buf)
	for dec.More() {
		var event AuditEvent
		if err := dec.Decode(&event); err != nil {
			t.Fatalf("decode: %v", err)
		}
		got = append(got, AuditEvent{Component: event.Component, RequestID: event.RequestID, EventType: event.EventType})
	}
	want := []AuditEvent{
		{Component: "api", RequestID: "req-9", EventType: EventEncrypt},
		{Component: "api", RequestID: "explicit", EventType: EventDecrypt},
		{Component: "root", EventType: EventRecipeSaved},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestOnlyRootLoggerClosesFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	logger, err := NewAuditLogger("root", WithoutStdout(), WithFile(path))
	if err != nil {
		t.Fatalf("NewAuditLogger: %v", err)
	}
	if err := logger.WithRequest("r").Close(); err != nil {
		t.Fatalf("derived Close: %v", err)
	}
	if err := logger.Emit(AuditEvent{EventType: EventEncrypt}); err != nil {
		t.Fatalf("Emit after derived close: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close should be a no-op: %v", err)
	}
	if err := logger.Emit(AuditEvent{EventType: EventEncrypt}); err == nil {
		t.Error("expected Emit on a closed file to fail")
	}
}
