package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/vk/gdmcv/internal/command"
	"github.com/vk/gdmcv/internal/config"
	"github.com/vk/gdmcv/internal/ctxlog"
	"github.com/vk/gdmcv/internal/gate"
	"github.com/vk/gdmcv/internal/report"
	"github.com/vk/gdmcv/internal/workspace"
)

var ErrInvalidThreads = errors.New("threads must be greater than 0")

// Driver runs the pipeline for one sample.
type Driver struct {
	layout  *workspace.Layout
	tools   *config.Tools
	runner  *command.Runner
	threads int
	plan    *plan
}

// Result describes a completed run.
type Result struct {
	Layout   *workspace.Layout
	Summary  report.Summary
	Duration time.Duration
}

// NewDriver prepares the step plan for layout. threads is forwarded to
// geNomad's --splits option.
func NewDriver(layout *workspace.Layout, tools *config.Tools, runner *command.Runner, threads int) (*Driver, error) {
	if threads <= 0 {
		return nil, ErrInvalidThreads
	}

	d := &Driver{
		layout:  layout,
		tools:   tools,
		runner:  runner,
		threads: threads,
	}
	p, err := newPlan(d.steps())
	if err != nil {
		return nil, errors.Wrap(err, "build pipeline plan")
	}
	d.plan = p
	return d, nil
}

// Plan returns the step identifiers in execution order.
func (d *Driver) Plan() []string {
	return append([]string(nil), d.plan.order...)
}

// WriteDOT renders the step graph in Graphviz DOT format.
func (d *Driver) WriteDOT(w io.Writer) error {
	return d.plan.writeDOT(w)
}

// Run creates the workspace and executes every step in order. It returns at
// the first missing file or failing tool; no later step is started.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	start := time.Now()

	if err := d.layout.Create(); err != nil {
		return nil, errors.Wrap(err, "create workspace")
	}
	logger.Info("Workspace ready.", "root", d.layout.Root, "input", d.layout.Input)

	for i, id := range d.plan.order {
		step := d.plan.steps[id]
		stepCtx := ctxlog.With(ctx, "step", id)
		stepLogger := ctxlog.FromContext(stepCtx)

		if step.Requires != nil {
			if err := gate.Require(stepCtx, step.Requires.Path, step.Requires.Description); err != nil {
				return nil, errors.Wrapf(err, "step %s", id)
			}
		}

		stepLogger.Info("Step started.", "position", i+1, "total", len(d.plan.order), "description", step.Description)
		stepStart := time.Now()
		if err := step.Run(stepCtx); err != nil {
			return nil, errors.Wrapf(err, "step %s", id)
		}
		stepLogger.Info("Step finished.", "duration", time.Since(stepStart).Round(time.Millisecond))
	}

	if err := gate.Require(ctx, d.layout.FilteredFasta, "seqkit filtered FASTA file"); err != nil {
		return nil, err
	}
	summary, err := report.SummarizeFile(d.layout.FilteredFasta)
	if err != nil {
		logger.Warn("Could not summarize final output.", "output", d.layout.FilteredFasta, "error", err)
		summary = report.Summary{}
	}

	res := &Result{Layout: d.layout, Summary: summary, Duration: time.Since(start)}
	logger.Info("Pipeline completed.",
		"output", d.layout.FilteredFasta,
		"sequences", summary.Sequences,
		"total_bp", summary.TotalLength,
		"n50", summary.N50,
		"duration", res.Duration.Round(time.Millisecond),
	)
	return res, nil
}
