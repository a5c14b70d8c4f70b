package pipeline

import (
	"context"
	"io"
	"path/filepath"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
	"github.com/pkg/errors"
)

// ErrUnproducedInput is returned for a plan in which a step requires a file
// that no earlier step produces.
var ErrUnproducedInput = errors.New("required file is not produced by an earlier step")

// Requirement is a file a step consumes, with a description used in
// diagnostics when the file is missing.
type Requirement struct {
	Path        string
	Description string
}

// Step is one stage of the pipeline.
type Step struct {
	ID          string
	Description string
	// Requires is checked before the step runs. Nil for the first step.
	Requires *Requirement
	// Produces is the file the step is expected to leave behind.
	Produces string
	Run      func(ctx context.Context) error
}

// plan is the validated execution order of a set of steps.
type plan struct {
	graph graph.Graph[string, string]
	order []string
	steps map[string]Step
}

// newPlan links every step to the step producing the file it requires and
// returns the steps in dependency order, ties broken by declaration order.
func newPlan(steps []Step) (*plan, error) {
	g := graph.New(graph.StringHash, graph.Directed(), graph.Acyclic(), graph.PreventCycles())
	index := make(map[string]int, len(steps))
	byID := make(map[string]Step, len(steps))
	producers := make(map[string]string)

	for i, s := range steps {
		if err := g.AddVertex(s.ID, graph.VertexAttribute("tooltip", s.Description)); err != nil {
			return nil, errors.Wrapf(err, "add step %s", s.ID)
		}
		index[s.ID] = i
		byID[s.ID] = s

		if s.Requires != nil {
			producer, ok := producers[s.Requires.Path]
			if !ok {
				return nil, errors.Wrapf(ErrUnproducedInput, "step %s requires %s", s.ID, s.Requires.Path)
			}
			if err := g.AddEdge(producer, s.ID, graph.EdgeAttribute("label", filepath.Base(s.Requires.Path))); err != nil {
				return nil, errors.Wrapf(err, "link %s to %s", producer, s.ID)
			}
		}
		if s.Produces != "" {
			producers[s.Produces] = s.ID
		}
	}

	order, err := graph.StableTopologicalSort(g, func(a, b string) bool {
		return index[a] < index[b]
	})
	if err != nil {
		return nil, errors.Wrap(err, "order steps")
	}

	return &plan{graph: g, order: order, steps: byID}, nil
}

// writeDOT renders the step graph in Graphviz DOT format.
func (p *plan) writeDOT(w io.Writer) error {
	return draw.DOT(p.graph, w)
}
