package types

import "fmt"

// ExecutionStatus represents the outcome of a step or scenario.
// The zero value is StatusNotRun.
type ExecutionStatus uint8

// Statuses are declared in ascending severity order. When results roll up
// through composite steps, scenarios and features, the most severe child
// status wins.
const (
	StatusNotRun ExecutionStatus = iota
	StatusPassed
	StatusBypassed
	StatusIgnored
	StatusFailed
)

func (s ExecutionStatus) String() string {
	switch s {
	case StatusNotRun:
		return "NotRun"
	case StatusPassed:
		return "Passed"
	case StatusBypassed:
		return "Bypassed"
	case StatusIgnored:
		return "Ignored"
	case StatusFailed:
		return "Failed"
	default:
		return fmt.Sprintf("ExecutionStatus(%d)", uint8(s))
	}
}

// MostSevere returns whichever of a and b ranks higher in severity.
func MostSevere(a, b ExecutionStatus) ExecutionStatus {
	if b > a {
		return b
	}
	return a
}

// MarshalText implements encoding.TextMarshaler so statuses serialize by name.
func (s ExecutionStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ExecutionStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "NotRun":
		*s = StatusNotRun
	case "Passed":
		*s = StatusPassed
	case "Bypassed":
		*s = StatusBypassed
	case "Ignored":
		*s = StatusIgnored
	case "Failed":
		*s = StatusFailed
	default:
		return fmt.Errorf("invalid execution status %q", string(text))
	}
	return nil
}
