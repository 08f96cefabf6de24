// Package errors provides the structured diagnostic type shared by every
// pipeline phase: lexer, parser, type checker, IR validator, interpreter,
// and oracle.
package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/liminal-lang/liminal/internal/token"
)

// Report is the canonical structured diagnostic. Every phase constructs
// reports the same way: a stable Code, the Phase that raised it, a
// human-readable Message, the Span it occurred at (when known), and any
// structured Data useful for tooling.
type Report struct {
	Schema  string         `json:"schema"`
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Span    *token.Span    `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// ReportError wraps a Report so it survives errors.As unwrapping while
// remaining an ordinary Go error everywhere else.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return fmt.Sprintf("%s: %s", e.Rep.Code, e.Rep.Message)
}

// AsReport extracts a *Report from an error chain, if present.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// New builds a Report for the given phase/code/message pair.
func New(phase, code, message string, span *token.Span) *Report {
	return &Report{
		Schema:  "liminal.error/v1",
		Code:    code,
		Phase:   phase,
		Message: message,
		Span:    span,
		Data:    map[string]any{},
	}
}

// WithData attaches a structured data field and returns the report for
// chaining.
func (r *Report) WithData(key string, value any) *Report {
	if r.Data == nil {
		r.Data = map[string]any{}
	}
	r.Data[key] = value
	return r
}

// Err wraps the report as an error.
func (r *Report) Err() error {
	return &ReportError{Rep: r}
}

func (r *Report) Error() string {
	if r.Span != nil {
		return fmt.Sprintf("%s at %s: %s", r.Code, r.Span, r.Message)
	}
	return fmt.Sprintf("%s: %s", r.Code, r.Message)
}

// ToJSON renders the report with deterministic (sorted-key) JSON, so
// output is stable across runs for the same input.
func (r *Report) ToJSON() (string, error) {
	data, err := MarshalDeterministic(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// MarshalDeterministic marshals v to JSON with map keys sorted, so that
// repeated marshaling of equal values always produces byte-identical
// output (used by diagnostics and by JSON Schema emission in types).
func MarshalDeterministic(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return data, nil
	}
	var buf bytes.Buffer
	if err := encodeSorted(&buf, generic); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeSorted(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, _ := json.Marshal(k)
			buf.Write(kb)
			buf.WriteByte(':')
			if err := encodeSorted(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, e := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeSorted(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}
