// Package workspace computes the per-sample directory tree a pipeline run
// writes into. Every intermediate and final path is derived deterministically
// from the input file name, an optional output folder override and the
// length threshold of the final filter.
//
// The layout is part of the observable contract of the tool; downstream
// users locate results by these names:
//
//	<root>/genomad/
//	<root>/genomad/<input>_summary/
//	<root>/DeepMicroClass/
//	<root>/sliced/
//	<root>/<input>_filtered_<length>.fasta
package workspace
