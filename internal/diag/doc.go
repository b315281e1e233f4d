// Package diag defines the diagnostics produced while loading and validating
// register models.
//
// A Diagnostic carries a Severity, a stable Code, a short Message and a
// Location naming the model file, register and field involved. Producers emit
// through a Reporter (usually BagReporter) so they stay decoupled from storage;
// the CLI sorts the resulting Bag and prints it with FormatShort.
//
// Diagnostics never stop generation on their own. The pipeline checks
// Bag.HasErrors before any artifact is written.
package diag
