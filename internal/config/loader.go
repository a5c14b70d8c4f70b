package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/gdmcv/internal/command"
	"github.com/vk/gdmcv/internal/ctxlog"
	"github.com/vk/gdmcv/internal/fsutil"
)

const (
	// PathEnvVar names the environment variable pointing at a settings file.
	PathEnvVar = "GDMCV_CONFIG"
	// DefaultFileName is picked up from the working directory when present.
	DefaultFileName = "gdmcv.hcl"
)

// fileRoot is the top-level structure of a settings file.
type fileRoot struct {
	Genomad        *genomadBlock        `hcl:"genomad,block"`
	DeepMicroClass *deepMicroClassBlock `hcl:"deepmicroclass,block"`
	Scripts        *scriptsBlock        `hcl:"scripts,block"`
	Seqkit         *seqkitBlock         `hcl:"seqkit,block"`
	Activation     *activationBlock     `hcl:"activation,block"`
	Environments   []*environmentBlock  `hcl:"environment,block"`
}

type genomadBlock struct {
	Environment *string  `hcl:"environment,optional"`
	Database    *string  `hcl:"database,optional"`
	MinScore    *float64 `hcl:"min_score,optional"`
}

type deepMicroClassBlock struct {
	Environment *string `hcl:"environment,optional"`
	Device      *string `hcl:"device,optional"`
}

type scriptsBlock struct {
	Python *string `hcl:"python,optional"`
	Dir    *string `hcl:"dir,optional"`
}

type seqkitBlock struct {
	Environment *string `hcl:"environment,optional"`
}

type activationBlock struct {
	Mode  *string `hcl:"mode,optional"`
	Shell *string `hcl:"shell,optional"`
	Conda *string `hcl:"conda,optional"`
}

type environmentBlock struct {
	Name   string `hcl:"name,label"`
	Prefix string `hcl:"prefix"`
}

// Loader reads settings files.
type Loader struct {
	environ func() []string
}

// NewLoader creates a Loader that exposes the process environment to
// settings expressions.
func NewLoader() *Loader {
	return &Loader{environ: os.Environ}
}

// Locate returns the settings file to use: the file named by GDMCV_CONFIG,
// else DefaultFileName in the working directory if it exists, else "".
func Locate(lookupEnv func(string) (string, bool)) string {
	if path, ok := lookupEnv(PathEnvVar); ok && path != "" {
		return path
	}
	if fsutil.FileExists(DefaultFileName) {
		return DefaultFileName
	}
	return ""
}

// Load reads the settings file at path over the defaults. An empty path
// yields the defaults.
func (l *Loader) Load(ctx context.Context, path string) (*Tools, error) {
	logger := ctxlog.FromContext(ctx)

	if path == "" {
		logger.Debug("No settings file, using defaults.")
		tools := Defaults()
		return tools, tools.Validate()
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read settings file")
	}
	logger.Debug("Loading settings file.", "path", path)
	return l.Parse(ctx, path, src)
}

// Parse decodes settings from HCL source. filename is used in diagnostics.
func (l *Loader) Parse(ctx context.Context, filename string, src []byte) (*Tools, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", filename, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, l.evalContext(), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode settings file %s: %w", filename, diags)
	}

	tools, err := apply(Defaults(), &root)
	if err != nil {
		return nil, errors.Wrapf(err, "settings file %s", filename)
	}
	if err := tools.Validate(); err != nil {
		return nil, errors.Wrapf(err, "settings file %s", filename)
	}

	ctxlog.FromContext(ctx).Debug("Settings loaded.",
		"activation", tools.Activation.Mode,
		"environments", tools.EnvironmentNames(),
		"database", tools.Genomad.Database,
	)
	return tools, nil
}

// evalContext exposes the process environment as the `env` object.
func (l *Loader) evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !hclsyntax.ValidIdentifier(name) {
			continue
		}
		vars[name] = cty.StringVal(value)
	}

	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
	}
}

func apply(t *Tools, root *fileRoot) (*Tools, error) {
	if b := root.Genomad; b != nil {
		setString(&t.Genomad.Environment, b.Environment)
		setString(&t.Genomad.Database, b.Database)
		if b.MinScore != nil {
			t.Genomad.MinScore = *b.MinScore
		}
	}
	if b := root.DeepMicroClass; b != nil {
		setString(&t.DeepMicroClass.Environment, b.Environment)
		setString(&t.DeepMicroClass.Device, b.Device)
	}
	if b := root.Scripts; b != nil {
		setString(&t.Scripts.Python, b.Python)
		setString(&t.Scripts.Dir, b.Dir)
	}
	if b := root.Seqkit; b != nil {
		setString(&t.Seqkit.Environment, b.Environment)
	}
	if b := root.Activation; b != nil {
		if b.Mode != nil {
			mode, err := command.ParseMode(*b.Mode)
			if err != nil {
				return nil, err
			}
			t.Activation.Mode = mode
		}
		setString(&t.Activation.Shell, b.Shell)
		setString(&t.Activation.Conda, b.Conda)
	}
	for _, env := range root.Environments {
		if _, dup := t.Prefixes[env.Name]; dup {
			return nil, fmt.Errorf("duplicate environment block %q", env.Name)
		}
		t.Prefixes[env.Name] = env.Prefix
	}
	return t, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
