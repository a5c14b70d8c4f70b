package pipeline

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/vk/gdmcv/internal/command"
	"github.com/vk/gdmcv/internal/ctxlog"
	"github.com/vk/gdmcv/internal/fsutil"
)

// Step identifiers, in execution order.
const (
	StepGenomad        = "genomad"
	StepRelocate       = "relocate"
	StepDeepMicroClass = "deepmicroclass"
	StepSliceTable     = "slice-table"
	StepSliceFasta     = "slice-fasta"
	StepLengthFilter   = "length-filter"
)

const (
	sliceTableScript = "slice_dmf_table.py"
	sliceFastaScript = "slice_fasta_by_names.py"
)

func (d *Driver) steps() []Step {
	l, t := d.layout, d.tools

	return []Step{
		{
			ID:          StepGenomad,
			Description: "geNomad viral sequence identification",
			Produces:    l.GenomadVirusFasta,
			Run: d.tool(t.Genomad.Environment, command.New("genomad", "end-to-end",
				"--min-score", strconv.FormatFloat(t.Genomad.MinScore, 'f', -1, 64),
				"--cleanup",
				"--splits", strconv.Itoa(d.threads),
				l.Input, l.GenomadDir, t.Genomad.Database,
			)),
		},
		{
			ID:          StepRelocate,
			Description: "move geNomad viruses to the workspace root",
			Requires:    &Requirement{Path: l.GenomadVirusFasta, Description: "geNomad generated viral sequence file"},
			Produces:    l.GenomadFasta,
			Run:         d.relocate,
		},
		{
			ID:          StepDeepMicroClass,
			Description: "DeepMicroClass classification",
			Requires:    &Requirement{Path: l.GenomadFasta, Description: "geNomad output FASTA file"},
			Produces:    l.PredictionTable,
			Run: d.tool(t.DeepMicroClass.Environment, command.New("DeepMicroClass", "predict",
				"-i", l.GenomadFasta,
				"-o", l.DeepMicroClassDir,
				"-d", t.DeepMicroClass.Device,
			)),
		},
		{
			ID:          StepSliceTable,
			Description: "split predictions by class",
			Requires:    &Requirement{Path: l.PredictionTable, Description: "DeepMicroClass generated DMF table file"},
			Produces:    l.ProkaryoticVirusNames,
			Run: d.tool("", command.New(t.Scripts.Python, filepath.Join(t.Scripts.Dir, sliceTableScript),
				"-o", l.DeepMicroClassDir,
				l.PredictionTable,
			)),
		},
		{
			ID:          StepSliceFasta,
			Description: "extract prokaryotic virus sequences",
			Requires:    &Requirement{Path: l.ProkaryoticVirusNames, Description: "DeepMicroClass generated classification file"},
			Produces:    l.SlicedFasta,
			Run: d.tool("", command.New(t.Scripts.Python, filepath.Join(t.Scripts.Dir, sliceFastaScript),
				l.GenomadFasta, l.ProkaryoticVirusNames,
				"-o", l.SlicedPrefix,
			)),
		},
		{
			ID:          StepLengthFilter,
			Description: "seqkit minimum length filter",
			Requires:    &Requirement{Path: l.SlicedFasta, Description: "Sliced FASTA file"},
			Produces:    l.FilteredFasta,
			Run: d.tool(t.Seqkit.Environment, command.New("seqkit", "seq",
				"-m", strconv.Itoa(l.Length),
				l.SlicedFasta,
				"-o", l.FilteredFasta,
			)),
		},
	}
}

// tool returns a step action running cmd inside the named environment.
func (d *Driver) tool(env string, cmd command.Command) func(context.Context) error {
	return func(ctx context.Context) error {
		return d.runner.Run(ctx, cmd, d.tools.Environment(env))
	}
}

func (d *Driver) relocate(ctx context.Context) error {
	if err := fsutil.MoveFile(d.layout.GenomadVirusFasta, d.layout.GenomadFasta); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("File successfully moved and renamed.", "from", d.layout.GenomadVirusFasta, "to", d.layout.GenomadFasta)
	return nil
}
