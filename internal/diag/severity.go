package diag

import "github.com/fatih/color"

// Severity ranks a diagnostic. Only SevError stops a session.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityColors = [...]*color.Color{
	SevInfo:    color.New(color.FgCyan),
	SevWarning: color.New(color.FgYellow, color.Bold),
	SevError:   color.New(color.FgRed, color.Bold),
}

// String is the lower-case name printed in front of each diagnostic.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// label is String in the severity's color.
func (s Severity) label() string {
	if int(s) >= len(severityColors) {
		return s.String()
	}
	return severityColors[s].Sprint(s.String())
}
