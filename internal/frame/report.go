package frame

import (
	"fmt"
	"sync"
)

type WarningKind int

const (
	WarnNoRedRuns WarningKind = iota
	WarnTemplateTooSmall
	WarnResolutionMismatch
)

func (k WarningKind) String() string {
	switch k {
	case WarnNoRedRuns:
		return "no-red-runs"
	case WarnTemplateTooSmall:
		return "template-too-small"
	case WarnResolutionMismatch:
		return "resolution-mismatch"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal detection or input problem. Processing continues.
type Warning struct {
	Kind    WarningKind
	Stage   string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}

// Reporter receives structured diagnostics from the engine. The engine never
// prints; callers route details and warnings to their own sink.
type Reporter interface {
	Detail(stage, key string, value any)
	Warn(w Warning)
}

// Discard drops everything.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Detail(string, string, any) {}
func (discard) Warn(Warning)               {}

type Detail struct {
	Stage string
	Key   string
	Value any
}

// Recorder keeps every detail and warning in arrival order.
type Recorder struct {
	mu       sync.Mutex
	Details  []Detail
	Warnings []Warning
}

func (r *Recorder) Detail(stage, key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Details = append(r.Details, Detail{Stage: stage, Key: key, Value: value})
}

func (r *Recorder) Warn(w Warning) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Warnings = append(r.Warnings, w)
}

// Lookup returns the last value recorded for stage/key.
func (r *Recorder) Lookup(stage, key string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.Details) - 1; i >= 0; i-- {
		d := r.Details[i]
		if d.Stage == stage && d.Key == key {
			return d.Value, true
		}
	}
	return nil, false
}

func (r *Recorder) HasWarning(kind WarningKind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.Warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}
