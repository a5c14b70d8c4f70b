package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/vk/gdmcv/internal/command"
)

func newTestLoader(environ ...string) *Loader {
	return &Loader{environ: func() []string { return environ }}
}

func TestLoad_EmptyPathYieldsDefaults(t *testing.T) {
	t.Parallel()

	tools, err := newTestLoader().Load(context.Background(), "")

	require.NoError(t, err)
	if diff := cmp.Diff(Defaults(), tools); diff != "" {
		t.Errorf("Tools mismatch (-want +got):\n%s", diff)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		src       string
		environ   []string
		expectErr bool
		check     func(t *testing.T, tools *Tools)
	}{
		{
			name: "Empty file keeps defaults",
			src:  ``,
			check: func(t *testing.T, tools *Tools) {
				if diff := cmp.Diff(Defaults(), tools); diff != "" {
					t.Errorf("Tools mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name: "Overrides are applied per attribute",
			src: `
genomad {
  database  = "/refs/genomad_db"
  min_score = 0.85
}
deepmicroclass {
  device = "cpu"
}
scripts {
  python = "python3"
  dir    = "/opt/gdmcv/scripts"
}
`,
			check: func(t *testing.T, tools *Tools) {
				require.Equal(t, "genomad", tools.Genomad.Environment, "unset attribute keeps its default")
				require.Equal(t, "/refs/genomad_db", tools.Genomad.Database)
				require.InDelta(t, 0.85, tools.Genomad.MinScore, 1e-9)
				require.Equal(t, "cpu", tools.DeepMicroClass.Device)
				require.Equal(t, "DeepMicroClass", tools.DeepMicroClass.Environment)
				require.Equal(t, "python3", tools.Scripts.Python)
				require.Equal(t, "/opt/gdmcv/scripts", tools.Scripts.Dir)
			},
		},
		{
			name:    "Expressions can read the process environment",
			src:     `genomad { database = "${env.GDMCV_REFS}/genomad_db" }`,
			environ: []string{"GDMCV_REFS=/mnt/refs", "BROKEN", "1BAD=x"},
			check: func(t *testing.T, tools *Tools) {
				require.Equal(t, "/mnt/refs/genomad_db", tools.Genomad.Database)
			},
		},
		{
			name: "Empty environment runs the tool without one",
			src:  `seqkit { environment = "" }`,
			check: func(t *testing.T, tools *Tools) {
				require.Nil(t, tools.Environment(tools.Seqkit.Environment))
				require.Equal(t, []string{"DeepMicroClass", "genomad"}, tools.EnvironmentNames())
			},
		},
		{
			name: "Path activation with prefixes",
			src: `
activation { mode = "path" }
environment "genomad" { prefix = "/envs/genomad" }
environment "DeepMicroClass" { prefix = "/envs/dmc" }
environment "seqkit" { prefix = "/envs/seqkit" }
`,
			check: func(t *testing.T, tools *Tools) {
				env := tools.Environment("seqkit")
				require.Equal(t, &command.Environment{
					Name:   "seqkit",
					Mode:   command.ModePath,
					Conda:  command.DefaultConda,
					Shell:  command.DefaultShell,
					Prefix: "/envs/seqkit",
				}, env)
			},
		},
		{
			name:      "Path activation without prefixes is rejected",
			src:       `activation { mode = "path" }`,
			expectErr: true,
		},
		{
			name:      "Unknown activation mode",
			src:       `activation { mode = "docker" }`,
			expectErr: true,
		},
		{
			name:      "Score out of range",
			src:       `genomad { min_score = 1.5 }`,
			expectErr: true,
		},
		{
			name:      "Unknown block",
			src:       `kraken { db = "x" }`,
			expectErr: true,
		},
		{
			name: "Duplicate environment block",
			src: `
environment "seqkit" { prefix = "/a" }
environment "seqkit" { prefix = "/b" }
`,
			expectErr: true,
		},
		{
			name:      "Syntax error",
			src:       `genomad {`,
			expectErr: true,
		},
		{
			name:      "Reference to a missing variable",
			src:       `genomad { database = env.NOT_SET_ANYWHERE }`,
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Act ---
			tools, err := newTestLoader(tc.environ...).Parse(context.Background(), "gdmcv.hcl", []byte(tc.src))

			// --- Assert ---
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tc.check(t, tools)
		})
	}
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := filepath.Join(t.TempDir(), "settings.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
activation {
  mode  = "source"
  shell = "/usr/bin/bash"
}
`), 0o600))

	// --- Act ---
	tools, err := newTestLoader().Load(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, command.ModeSource, tools.Activation.Mode)
	require.Equal(t, "/usr/bin/bash", tools.Activation.Shell)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := newTestLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"))

	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLocate(t *testing.T) {
	t.Parallel()

	lookup := func(v string) func(string) (string, bool) {
		return func(key string) (string, bool) {
			if key == PathEnvVar && v != "" {
				return v, true
			}
			return "", false
		}
	}

	require.Equal(t, "/etc/gdmcv.hcl", Locate(lookup("/etc/gdmcv.hcl")))
	if _, err := os.Stat(DefaultFileName); os.IsNotExist(err) {
		require.Equal(t, "", Locate(lookup("")))
	}
}
