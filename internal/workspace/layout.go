package workspace

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/vk/gdmcv/internal/fsutil"
)

// Directory and file names fixed by the external tools.
const (
	GenomadDirName        = "genomad"
	DeepMicroClassDirName = "DeepMicroClass"
	SlicedDirName         = "sliced"

	genomadFastaName      = "genomad.fasta"
	slicedPrefixName      = "DMC_sliced"
	slicedFastaName       = "genomad_sliced.fa"
	predictionTableSuffix = "_pred_one-hot_hybrid.tsv"
	prokaryoticNamesName  = "sliced_class_ProkaryoticViruses.txt"
)

var (
	ErrInputRequired = errors.New("input path must be set")
	ErrInvalidLength = errors.New("length threshold must be greater than 0")
	ErrInvalidRoot   = errors.New("cannot derive a workspace root from the input name")
)

// Layout holds every path a pipeline run reads or writes.
type Layout struct {
	// Input is the input sequence file exactly as given by the user.
	Input string
	// InputName is the base name of Input without its extension.
	InputName string
	// Length is the minimum sequence length of the final filter.
	Length int

	Root              string
	GenomadDir        string
	GenomadSummaryDir string
	DeepMicroClassDir string
	SlicedDir         string

	// GenomadVirusFasta is where geNomad writes its predicted viruses.
	GenomadVirusFasta string
	// GenomadFasta is the relocated copy of GenomadVirusFasta.
	GenomadFasta string
	// PredictionTable is DeepMicroClass's one-hot prediction table.
	PredictionTable string
	// ProkaryoticVirusNames lists the sequence names classified as
	// prokaryotic viruses by the table slicing script.
	ProkaryoticVirusNames string
	// SlicedPrefix is the output directory handed to the FASTA slicing script.
	SlicedPrefix string
	// SlicedFasta is the FASTA the slicing script writes under SlicedPrefix.
	SlicedFasta string
	// FilteredFasta is the final, length filtered output.
	FilteredFasta string
}

// Plan derives the layout for input. The workspace root is output when it is
// non-empty, otherwise the base name of input without its extension.
func Plan(input, output string, length int) (*Layout, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrInputRequired
	}
	if length <= 0 {
		return nil, ErrInvalidLength
	}

	name := baseName(input)
	root := output
	if root == "" {
		root = name
	}
	if root == "" || root == "." || root == ".." {
		return nil, errors.Wrapf(ErrInvalidRoot, "input %q", input)
	}

	l := &Layout{
		Input:     input,
		InputName: name,
		Length:    length,
		Root:      root,
	}
	l.GenomadDir = filepath.Join(root, GenomadDirName)
	l.GenomadSummaryDir = filepath.Join(l.GenomadDir, name+"_summary")
	l.DeepMicroClassDir = filepath.Join(root, DeepMicroClassDirName)
	l.SlicedDir = filepath.Join(root, SlicedDirName)

	l.GenomadVirusFasta = filepath.Join(l.GenomadSummaryDir, name+"_virus.fna")
	l.GenomadFasta = filepath.Join(root, genomadFastaName)
	l.PredictionTable = filepath.Join(l.DeepMicroClassDir, genomadFastaName+predictionTableSuffix)
	l.ProkaryoticVirusNames = filepath.Join(l.DeepMicroClassDir, prokaryoticNamesName)
	l.SlicedPrefix = filepath.Join(l.SlicedDir, slicedPrefixName)
	l.SlicedFasta = filepath.Join(l.SlicedPrefix, slicedFastaName)
	l.FilteredFasta = filepath.Join(root, FilteredName(name, length))

	return l, nil
}

// FilteredName is the file name of the final output for an input base name.
func FilteredName(inputName string, length int) string {
	return fmt.Sprintf("%s_filtered_%d.fasta", inputName, length)
}

// Create makes the workspace directories. It is safe to call on an existing
// workspace; nothing already on disk is removed.
func (l *Layout) Create() error {
	return fsutil.EnsureDirs(l.Dirs()...)
}

// Dirs returns the directories created by Create, in creation order.
func (l *Layout) Dirs() []string {
	return []string{l.Root, l.GenomadDir, l.DeepMicroClassDir, l.SlicedDir}
}

// baseName strips the last extension of the final path element. Leading
// dots belong to the name, so ".fasta" is kept whole.
func baseName(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimLeft(base, ".")
	if stem == "" {
		return base
	}
	return strings.TrimSuffix(base, filepath.Ext(stem))
}
