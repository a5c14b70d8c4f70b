package cli

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/vk/gdmcv/internal/app"
)

func envFrom(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		args           []string
		env            map[string]string
		expectExit     bool
		expectErr      bool
		expectedConfig *app.Config
		checkOutput    func(t *testing.T, output string)
	}{
		{
			name: "Long flags",
			args: []string{"--input", "data/sample1.fasta", "--output", "run1", "--threads", "16", "--length", "5000"},
			expectedConfig: &app.Config{
				Input:     "data/sample1.fasta",
				Output:    "run1",
				Threads:   16,
				Length:    5000,
				LogFormat: "text",
				LogLevel:  "info",
			},
		},
		{
			name: "Short flags and defaults",
			args: []string{"-i", "sample1.fasta"},
			expectedConfig: &app.Config{
				Input:     "sample1.fasta",
				Threads:   8,
				Length:    2000,
				LogFormat: "text",
				LogLevel:  "info",
			},
		},
		{
			name: "Environment configures logging and settings",
			args: []string{"-i", "sample1.fasta", "-l", "1000"},
			env: map[string]string{
				"GDMCV_LOG_LEVEL":  "DEBUG",
				"GDMCV_LOG_FORMAT": "json",
				"GDMCV_CONFIG":     "/etc/gdmcv.hcl",
			},
			expectedConfig: &app.Config{
				Input:        "sample1.fasta",
				Threads:      8,
				Length:       1000,
				SettingsPath: "/etc/gdmcv.hcl",
				LogFormat:    "json",
				LogLevel:     "debug",
			},
		},
		{
			name:       "Version flag prints the version and exits",
			args:       []string{"--version"},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.Equal(t, "Pipeline script version 1.1\n", output)
			},
		},
		{
			name:       "Short version flag does not require input",
			args:       []string{"-v"},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.Equal(t, "Pipeline script version 1.1\n", output)
			},
		},
		{
			name:       "Help flag triggers clean exit",
			args:       []string{"-h"},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.Contains(t, output, "Usage:")
				require.Contains(t, output, "--input")
			},
		},
		{
			name:      "Missing input is rejected",
			args:      []string{},
			expectErr: true,
			checkOutput: func(t *testing.T, output string) {
				require.Contains(t, output, "Usage:")
			},
		},
		{
			name:      "Unknown flag is rejected with usage",
			args:      []string{"-i", "a.fasta", "--gpu"},
			expectErr: true,
			checkOutput: func(t *testing.T, output string) {
				require.Contains(t, output, "Usage:")
			},
		},
		{
			name:      "Positional arguments are rejected",
			args:      []string{"-i", "a.fasta", "extra"},
			expectErr: true,
		},
		{
			name:      "Non-numeric threads",
			args:      []string{"-i", "a.fasta", "-t", "many"},
			expectErr: true,
		},
		{
			name:      "Zero length",
			args:      []string{"-i", "a.fasta", "-l", "0"},
			expectErr: true,
		},
		{
			name:      "Invalid log level from environment",
			args:      []string{"-i", "a.fasta"},
			env:       map[string]string{"GDMCV_LOG_LEVEL": "loud"},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			out := &bytes.Buffer{}

			// --- Act ---
			cfg, shouldExit, err := ParseWithEnv(tc.args, out, envFrom(tc.env))

			// --- Assert ---
			if tc.checkOutput != nil {
				tc.checkOutput(t, out.String())
			}
			if tc.expectErr {
				require.Error(t, err)
				exitErr, isExitError := err.(*ExitError)
				require.True(t, isExitError, "Expected error to be of type ExitError")
				require.Equal(t, 1, exitErr.Code)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectExit, shouldExit)

			if tc.expectedConfig != nil {
				if diff := cmp.Diff(tc.expectedConfig, cfg); diff != "" {
					t.Errorf("Config mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}
