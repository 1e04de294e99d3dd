package logging

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/RowanDark/vigenere/internal/redact"
)

// EventType names what happened.
type EventType string

const (
	EventEncrypt         EventType = "cipher_encrypt"
	EventDecrypt         EventType = "cipher_decrypt"
	EventRejected        EventType = "cipher_rejected"
	EventPipelineRun     EventType = "pipeline_run"
	EventRecipeSaved     EventType = "recipe_saved"
	EventRecipeDeleted   EventType = "recipe_deleted"
	EventServerLifecycle EventType = "server_lifecycle"
)

type Decision string

const (
	DecisionInfo  Decision = "info"
	DecisionAllow Decision = "allow"
	DecisionDeny  Decision = "deny"
)

// AuditEvent is one JSON line in the audit log. Metadata and Reason are
// redacted on Emit, so keys and message text never reach the sinks.
type AuditEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Component string         `json:"component"`
	RequestID string         `json:"request_id,omitempty"`
	EventType EventType      `json:"event_type"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Decision  Decision       `json:"decision,omitempty"`
	Reason    string         `json:"reason,omitempty"`
}

// Option configures where an AuditLogger writes.
type Option func(*sinks) error

type sinks struct {
	extra   []io.Writer
	files   []*os.File
	stdout  bool
	discard bool
}

func (s *sinks) writers() []io.Writer {
	out := make([]io.Writer, 0, len(s.extra)+len(s.files)+1)
	if s.stdout {
		out = append(out, os.Stdout)
	}
	out = append(out, s.extra...)
	for _, f := range s.files {
		out = append(out, f)
	}
	return out
}

func (s *sinks) closeFiles() error {
	var result *multierror.Error
	for _, f := range s.files {
		if err := f.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	s.files = nil
	return result.ErrorOrNil()
}

// WithWriter adds w as a destination.
func WithWriter(w io.Writer) Option {
	return func(s *sinks) error {
		if w == nil {
			return errors.New("writer cannot be nil")
		}
		s.extra = append(s.extra, w)
		return nil
	}
}

// WithFile appends events to the file at path, creating it with 0600. The
// file is closed by the logger that opened it.
func WithFile(path string) Option {
	return func(s *sinks) error {
		if strings.TrimSpace(path) == "" {
			return errors.New("file path cannot be empty")
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return err
		}
		s.files = append(s.files, f)
		return nil
	}
}

// WithoutStdout drops the default stdout sink.
func WithoutStdout() Option {
	return func(s *sinks) error {
		s.stdout = false
		return nil
	}
}

// shared is the state every logger derived from one NewAuditLogger call
// writes through.
type shared struct {
	mu    sync.Mutex
	out   io.Writer
	sinks *sinks
}

// AuditLogger writes AuditEvents as JSON lines. Loggers derived with
// WithComponent or WithRequest share the parent's sinks and lock; only the
// root logger closes files.
type AuditLogger struct {
	component string
	requestID string
	root      bool
	shared    *shared
}

func NewAuditLogger(component string, opts ...Option) (*AuditLogger, error) {
	s := &sinks{stdout: true}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			_ = s.closeFiles()
			return nil, err
		}
	}
	w := s.writers()
	if len(w) == 0 && !s.discard {
		return nil, errors.New("no writers configured for audit logger")
	}
	return &AuditLogger{
		component: component,
		root:      true,
		shared:    &shared{out: io.MultiWriter(w...), sinks: s},
	}, nil
}

// Discard returns a logger that drops every event.
func Discard() *AuditLogger {
	return &AuditLogger{
		component: "discard",
		root:      true,
		shared:    &shared{out: io.Discard, sinks: &sinks{discard: true}},
	}
}

// Close releases files opened by WithFile. Derived loggers do nothing.
func (l *AuditLogger) Close() error {
	if l == nil || !l.root || l.shared == nil {
		return nil
	}
	l.shared.mu.Lock()
	defer l.shared.mu.Unlock()
	return l.shared.sinks.closeFiles()
}

// Emit stamps, redacts and writes event. The logger's component and request
// ID fill in fields the event leaves empty.
func (l *AuditLogger) Emit(event AuditEvent) error {
	if l == nil || l.shared == nil {
		return errors.New("nil audit logger")
	}
	line, err := json.Marshal(l.prepare(event))
	if err != nil {
		return err
	}
	line = append(line, '\n')

	l.shared.mu.Lock()
	defer l.shared.mu.Unlock()
	_, err = l.shared.out.Write(line)
	return err
}

func (l *AuditLogger) prepare(event AuditEvent) AuditEvent {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Timestamp = event.Timestamp.UTC()
	if event.Component == "" {
		event.Component = l.component
	}
	if event.RequestID == "" {
		event.RequestID = l.requestID
	}
	event.Reason = redact.String(event.Reason)
	event.Metadata = redact.Map(event.Metadata)
	return event
}

// WithComponent returns a logger that tags events with component.
func (l *AuditLogger) WithComponent(component string) *AuditLogger {
	if l == nil || l.shared == nil {
		return nil
	}
	return &AuditLogger{component: component, requestID: l.requestID, shared: l.shared}
}

// WithRequest returns a logger that tags events with the request ID.
func (l *AuditLogger) WithRequest(id string) *AuditLogger {
	if l == nil || l.shared == nil {
		return nil
	}
	return &AuditLogger{component: l.component, requestID: id, shared: l.shared}
}
