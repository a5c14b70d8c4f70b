package config

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/vk/gdmcv/internal/command"
)

// Tools is the complete settings model for one pipeline run.
type Tools struct {
	Genomad        Genomad
	DeepMicroClass DeepMicroClass
	Scripts        Scripts
	Seqkit         Seqkit
	Activation     Activation
	// Prefixes maps an environment name to its installation prefix. Only
	// consulted in path activation mode.
	Prefixes map[string]string
}

// Genomad configures the viral sequence identification step.
type Genomad struct {
	Environment string
	Database    string
	MinScore    float64
}

// DeepMicroClass configures the classifier step.
type DeepMicroClass struct {
	Environment string
	Device      string
}

// Scripts locates the table and FASTA slicing helpers.
type Scripts struct {
	Python string
	Dir    string
}

// Seqkit configures the length filtering step.
type Seqkit struct {
	Environment string
}

// Activation selects how environments are entered.
type Activation struct {
	Mode  command.Mode
	Shell string
	Conda string
}

// Defaults returns the settings of the reference installation.
func Defaults() *Tools {
	return &Tools{
		Genomad: Genomad{
			Environment: "genomad",
			Database:    "./database/genomad_db",
			MinScore:    0.7,
		},
		DeepMicroClass: DeepMicroClass{
			Environment: "DeepMicroClass",
			Device:      "cuda",
		},
		Scripts: Scripts{
			Python: "python",
			Dir:    "./scripts",
		},
		Seqkit: Seqkit{
			Environment: "seqkit",
		},
		Activation: Activation{
			Mode:  command.ModeCondaRun,
			Shell: command.DefaultShell,
			Conda: command.DefaultConda,
		},
		Prefixes: map[string]string{},
	}
}

// Validate checks the settings for values no tool could accept.
func (t *Tools) Validate() error {
	if t.Genomad.Database == "" {
		return errors.New("genomad.database must not be empty")
	}
	if t.Genomad.MinScore < 0 || t.Genomad.MinScore > 1 {
		return fmt.Errorf("genomad.min_score must be within [0, 1], got %v", t.Genomad.MinScore)
	}
	if t.DeepMicroClass.Device == "" {
		return errors.New("deepmicroclass.device must not be empty")
	}
	if t.Scripts.Python == "" {
		return errors.New("scripts.python must not be empty")
	}
	if _, err := command.ParseMode(string(t.Activation.Mode)); err != nil {
		return err
	}

	if t.Activation.Mode == command.ModePath {
		for _, name := range t.EnvironmentNames() {
			if t.Prefixes[name] == "" {
				return fmt.Errorf("environment %q has no prefix; path activation requires an environment block for every environment", name)
			}
		}
	}
	return nil
}

// EnvironmentNames returns the distinct, non-empty environment names in use.
func (t *Tools) EnvironmentNames() []string {
	seen := make(map[string]struct{})
	for _, name := range []string{t.Genomad.Environment, t.DeepMicroClass.Environment, t.Seqkit.Environment} {
		if name != "" {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Environment returns the execution context named name, or nil when name is
// empty and the tool runs without one.
func (t *Tools) Environment(name string) *command.Environment {
	if name == "" {
		return nil
	}
	return &command.Environment{
		Name:   name,
		Mode:   t.Activation.Mode,
		Conda:  t.Activation.Conda,
		Shell:  t.Activation.Shell,
		Prefix: t.Prefixes[name],
	}
}
