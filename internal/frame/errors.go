package frame

import "fmt"

// ConfigError is a fatal configuration problem found before processing.
type ConfigError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s (%s): %s", e.Field, e.Value, e.Reason)
}

// FrameDetectionError reports too few black runs on one edge of the cadre.
type FrameDetectionError struct {
	Edge  string
	Found int
	Need  int
	Runs  []Run
}

func (e *FrameDetectionError) Error() string {
	return fmt.Sprintf("frame detection: %s edge has %d black run(s), need at least %d", e.Edge, e.Found, e.Need)
}
