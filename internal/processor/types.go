package processor

import "lentiplate/internal/plate"

type Action int

const (
	ActionScan Action = iota
	ActionProcess
)

type Options struct {
	Action Action
	Plate  plate.Config

	// MirePath overrides the template lookup under TemplatesDir.
	MirePath     string
	TemplatesDir string

	OutputDir  string
	OutputName string
	Debug      bool
	Workers    int
}

type Job struct {
	Path    string
	RelPath string
	Display string

	// Explicit is set for a file named on the command line rather than
	// found in a directory walk.
	Explicit bool
}

type Result struct {
	Path      string
	RelPath   string
	Display   string
	Supported bool
	Err       error
	Output    string
	Details   []ScanDetail
	Warnings  []string
}

// Summary counts files over a run. Total is every file examined, Processed
// only those with a supported image type.
type Summary struct {
	Total     int
	Processed int
	Errors    int
	Warnings  int
	Written   int
}

type ScanReport struct {
	Path     string
	Output   string
	Err      error
	Details  []ScanDetail
	Warnings []string
}

type ScanDetail struct {
	Category string
	Values   []string
}

type ProgressUpdate struct {
	TotalDelta     int
	ProcessedDelta int
	ErrorDelta     int
	WarningDelta   int
	WrittenDelta   int
}
