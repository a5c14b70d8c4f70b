// Package report summarizes the sequences of a FASTA file. It is used to
// describe the final output of a pipeline run; it never rejects a file based
// on its content.
package report

import (
	"io"
	"os"
	"sort"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/pkg/errors"
)

// Summary describes the sequences in a FASTA file.
type Summary struct {
	Sequences   int
	TotalLength int
	MinLength   int
	MaxLength   int
	N50         int
}

// SummarizeFile reads the FASTA file at path.
func SummarizeFile(path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, errors.Wrap(err, "open FASTA file")
	}
	defer f.Close()

	s, err := Summarize(f)
	return s, errors.Wrapf(err, "summarize %s", path)
}

// Summarize reads FASTA records from r until EOF.
func Summarize(r io.Reader) (Summary, error) {
	var lengths []int

	sc := seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNAredundant)))
	for sc.Next() {
		lengths = append(lengths, sc.Seq().Len())
	}
	if err := sc.Error(); err != nil {
		return Summary{}, err
	}

	return summarizeLengths(lengths), nil
}

func summarizeLengths(lengths []int) Summary {
	var s Summary
	if len(lengths) == 0 {
		return s
	}

	sort.Sort(sort.Reverse(sort.IntSlice(lengths)))
	s.Sequences = len(lengths)
	s.MaxLength = lengths[0]
	s.MinLength = lengths[len(lengths)-1]
	for _, l := range lengths {
		s.TotalLength += l
	}

	// N50: length of the sequence at which the running total of the
	// longest-first order reaches half the assembly.
	var acc int
	for _, l := range lengths {
		acc += l
		if 2*acc >= s.TotalLength {
			s.N50 = l
			break
		}
	}
	return s
}
