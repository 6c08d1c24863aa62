// Package trace writes an append-only JSONL record of a script run.
package trace

import (
	"bufio"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/antoKeinanen/novarum/pkg/governance"
	"github.com/antoKeinanen/novarum/pkg/interp"
	"github.com/antoKeinanen/novarum/pkg/script"
)

// EventType enumerates trace event types.
type EventType string

const (
	EventRunStart    EventType = "run_start"
	EventRunComplete EventType = "run_complete"
	EventPrint       EventType = "print"
	EventShell       EventType = "shell"
	EventChdir       EventType = "chdir"
	EventBind        EventType = "bind"
	EventBranch      EventType = "branch"
)

// Event is a single trace event written to the JSONL stream.
type Event struct {
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	RunID     string         `json:"run_id"`
	Data      map[string]any `json:"data,omitempty"`
}

// GenerateRunID creates a run ID in format YYYYMMDDTHHmmss-xxxxxxxx.
func GenerateRunID() string {
	ts := time.Now().Format("20060102T150405")
	suffix := make([]byte, 4)
	rand.Read(suffix)
	return fmt.Sprintf("%s-%x", ts, suffix)
}

// Writer writes trace events to a JSONL stream. It implements interp.Observer.
type Writer struct {
	mu         sync.Mutex
	w          *bufio.Writer
	closer     io.Closer
	runID      string
	enc        *json.Encoder
	secretVars []string // env var names whose values are redacted
	redactions []*governance.CompiledRedaction
	err        error // first write error; later events are dropped
}

// NewWriter creates a trace writer on w.
func NewWriter(w io.Writer, runID string) *Writer {
	bw := bufio.NewWriter(w)
	return &Writer{
		w:     bw,
		runID: runID,
		enc:   json.NewEncoder(bw),
	}
}

// NewFileWriter creates a trace writer that appends to a JSONL file.
func NewFileWriter(path, runID string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	tw := NewWriter(f, runID)
	tw.closer = f
	return tw, nil
}

// RunID returns the run identifier stamped on every event.
func (tw *Writer) RunID() string {
	return tw.runID
}

// SetSecrets configures env var names whose values are redacted from events.
func (tw *Writer) SetSecrets(envVars []string) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.secretVars = envVars
}

// SetRedactions configures pattern rules applied after secret values.
func (tw *Writer) SetRedactions(rules []*governance.CompiledRedaction) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.redactions = rules
}

// RedactSecrets replaces secret values in s with "<REDACTED>", then applies
// the redaction rules.
func (tw *Writer) RedactSecrets(s string) string {
	for _, envVar := range tw.secretVars {
		if val := os.Getenv(envVar); val != "" {
			s = strings.ReplaceAll(s, val, "<REDACTED>")
		}
	}
	return governance.RedactOutput(s, tw.redactions)
}

// Emit writes one event and flushes it.
func (tw *Writer) Emit(eventType EventType, data map[string]any) error {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.err != nil {
		return tw.err
	}

	evt := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		RunID:     tw.runID,
		Data:      data,
	}
	if err := tw.enc.Encode(evt); err != nil {
		tw.err = fmt.Errorf("encode trace event: %w", err)
		return tw.err
	}
	if err := tw.w.Flush(); err != nil {
		tw.err = fmt.Errorf("flush trace: %w", err)
		return tw.err
	}
	return nil
}

// EmitRunStart emits a run_start event.
func (tw *Writer) EmitRunStart(scriptPath, mode string) error {
	return tw.Emit(EventRunStart, map[string]any{
		"script": scriptPath,
		"mode":   mode,
	})
}

// EmitRunComplete emits a run_complete event. A nil err marks success.
func (tw *Writer) EmitRunComplete(err error, duration time.Duration) error {
	data := map[string]any{
		"status":   "success",
		"duration": duration.String(),
	}
	if err != nil {
		data["status"] = "failed"
		data["error"] = tw.RedactSecrets(err.Error())
		if line := script.LineOf(err); line > 0 {
			data["line"] = line
		}
	}
	return tw.Emit(EventRunComplete, data)
}

// Observe records an interpreter event. Write errors are kept and reported
// by Err and Close.
func (tw *Writer) Observe(e interp.Event) {
	data := map[string]any{"line": e.Line}
	var typ EventType
	switch e.Type {
	case interp.EventPrint:
		typ = EventPrint
		data["text"] = tw.RedactSecrets(e.Value)
	case interp.EventShell:
		typ = EventShell
		data["command"] = tw.RedactSecrets(e.Value)
		data["status"] = "success"
		if e.Err != nil {
			data["status"] = "failed"
			data["error"] = tw.RedactSecrets(e.Err.Error())
		}
	case interp.EventChdir:
		typ = EventChdir
		data["path"] = tw.RedactSecrets(e.Value)
		if e.Err != nil {
			data["error"] = tw.RedactSecrets(e.Err.Error())
		}
	case interp.EventBind:
		typ = EventBind
		data["name"] = e.Name
		if e.Multi {
			values := make([]string, len(e.Values))
			for i, v := range e.Values {
				values[i] = tw.RedactSecrets(v)
			}
			data["values"] = values
		} else {
			data["value"] = tw.RedactSecrets(e.Value)
		}
	case interp.EventBranch:
		typ = EventBranch
		data["name"] = e.Name
		data["target"] = e.Value
		data["matched"] = e.Matched
	default:
		return
	}
	tw.Emit(typ, data)
}

// Err returns the first write error, if any.
func (tw *Writer) Err() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.err
}

// Close flushes buffered events and closes the underlying file, if any.
func (tw *Writer) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if err := tw.w.Flush(); err != nil && tw.err == nil {
		tw.err = err
	}
	if tw.closer != nil {
		if err := tw.closer.Close(); err != nil && tw.err == nil {
			tw.err = err
		}
	}
	return tw.err
}

// ReadEvents decodes a JSONL trace stream.
func ReadEvents(r io.Reader) ([]Event, error) {
	dec := json.NewDecoder(r)
	var events []Event
	for {
		var evt Event
		if err := dec.Decode(&evt); err != nil {
			if err == io.EOF {
				return events, nil
			}
			return events, fmt.Errorf("decode trace event %d: %w", len(events)+1, err)
		}
		events = append(events, evt)
	}
}
