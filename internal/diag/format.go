package diag

import (
	"fmt"
	"io"
	"strings"
)

// FormatShort renders one line per diagnostic:
//
//	error MOD1004 uart.toml:Status.ready msb 9 exceeds register size 8
//
// Color follows github.com/fatih/color's global NoColor switch.
func FormatShort(items []Diagnostic) string {
	var b strings.Builder
	for i, d := range items {
		msg := strings.ReplaceAll(d.Message, "\n", " ")
		fmt.Fprintf(&b, "%s %s %s %s", d.Severity.label(), d.Code.ID(), d.Primary, msg)
		if i < len(items)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Print writes FormatShort of the bag plus a trailing summary line.
func Print(w io.Writer, b *Bag) error {
	if b == nil || b.Len() == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, FormatShort(b.Items())); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d error(s), %d warning(s)\n", b.Count(SevError), b.Count(SevWarning))
	return err
}
