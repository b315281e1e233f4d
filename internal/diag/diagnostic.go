package diag

import "strings"

// Location points at the part of a model a diagnostic is about.
// Register and Field are empty when the problem is file- or family-wide.
type Location struct {
	File     string
	Register string
	Field    string
}

func (l Location) String() string {
	var b strings.Builder
	b.WriteString(l.File)
	if l.Register != "" {
		if b.Len() > 0 {
			b.WriteByte(':')
		}
		b.WriteString(l.Register)
		if l.Field != "" {
			b.WriteByte('.')
			b.WriteString(l.Field)
		}
	}
	return b.String()
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  Location
}
