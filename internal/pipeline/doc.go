// Package pipeline drives the fixed chain of external tools that turns one
// input FASTA into length filtered prokaryotic virus predictions:
//
//	genomad -> relocate -> deepmicroclass -> slice-table -> slice-fasta -> length-filter
//
// Steps run strictly one after another. Each step except the first declares
// the file it consumes; that file must exist before the step starts. The
// first failing check or tool aborts the run and every file produced so far
// is left on disk for inspection.
package pipeline
