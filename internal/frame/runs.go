package frame

import "strconv"

// Run is an inclusive [Start, End] index span along one scan axis.
type Run struct {
	Start int
	End   int
}

func (r Run) Len() int {
	return r.End - r.Start + 1
}

// Center is the integer midpoint of the run.
func (r Run) Center() int {
	return (r.Start + r.End) / 2
}

func (r Run) String() string {
	return strconv.Itoa(r.Start) + "-" + strconv.Itoa(r.End)
}

func (r Run) Shift(offset int) Run {
	return Run{Start: r.Start + offset, End: r.End + offset}
}

// FindRuns returns the maximal runs of true values in mask, ordered by start.
func FindRuns(mask []bool) []Run {
	runs := []Run{}
	prev := false
	start := 0
	for i, v := range mask {
		switch {
		case v && !prev:
			start = i
		case !v && prev:
			runs = append(runs, Run{Start: start, End: i - 1})
		}
		prev = v
	}
	if prev {
		runs = append(runs, Run{Start: start, End: len(mask) - 1})
	}
	return runs
}

// MiddleRun picks runs[len(runs)/2]. This is the middle by list index, not
// the geometrically central run: with unevenly spaced marks the two differ,
// and callers rely on the index rule.
func MiddleRun(runs []Run) (Run, int, bool) {
	if len(runs) == 0 {
		return Run{}, -1, false
	}
	idx := len(runs) / 2
	return runs[idx], idx, true
}
