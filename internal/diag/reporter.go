package diag

import "fmt"

// Reporter receives diagnostics from producers.
type Reporter interface {
	Report(code Code, sev Severity, primary Location, msg string)
}

// Errorf reports a SevError diagnostic with a formatted message.
func Errorf(r Reporter, code Code, at Location, format string, args ...any) {
	r.Report(code, SevError, at, fmt.Sprintf(format, args...))
}

// Warnf reports a SevWarning diagnostic with a formatted message.
func Warnf(r Reporter, code Code, at Location, format string, args ...any) {
	r.Report(code, SevWarning, at, fmt.Sprintf(format, args...))
}

// Infof reports a SevInfo diagnostic with a formatted message.
func Infof(r Reporter, code Code, at Location, format string, args ...any) {
	r.Report(code, SevInfo, at, fmt.Sprintf(format, args...))
}

// BagReporter writes into *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary Location, msg string) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg, Primary: primary,
	})
}
