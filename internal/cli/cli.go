package cli

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vk/gdmcv/internal/app"
	"github.com/vk/gdmcv/internal/config"
)

const (
	// Version is the release of the pipeline.
	Version = "1.1"

	// LogLevelEnvVar and LogFormatEnvVar configure logging.
	LogLevelEnvVar  = "GDMCV_LOG_LEVEL"
	LogFormatEnvVar = "GDMCV_LOG_FORMAT"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly (version or help
// was printed), or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	return ParseWithEnv(args, output, os.LookupEnv)
}

// ParseWithEnv is Parse with an explicit environment lookup.
func ParseWithEnv(args []string, output io.Writer, lookupEnv func(string) (string, bool)) (*app.Config, bool, error) {
	var (
		input     string
		outputDir string
		threads   int
		length    int
		cfg       *app.Config
	)

	cmd := &cobra.Command{
		Use:           "gdmcv -i INPUT [-o OUTPUT] [-t THREADS] [-l LENGTH]",
		Short:         "Run geNomad and DeepMicroClass pipeline for viral sequence prediction and extraction.",
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := app.NewConfig(app.Config{
				Input:        input,
				Output:       outputDir,
				Threads:      threads,
				Length:       length,
				SettingsPath: config.Locate(lookupEnv),
				LogFormat:    envOr(lookupEnv, LogFormatEnvVar, "text"),
				LogLevel:     envOr(lookupEnv, LogLevelEnvVar, "info"),
			})
			if err != nil {
				return err
			}
			cfg = c
			return nil
		},
	}
	cmd.SetVersionTemplate("Pipeline script version {{.Version}}\n")

	flags := cmd.Flags()
	flags.StringVarP(&input, "input", "i", "", "Input file (FASTA format)")
	flags.StringVarP(&outputDir, "output", "o", "", "Output folder name (default: input file name without extension)")
	flags.IntVarP(&threads, "threads", "t", 8, "Number of CPU cores to use")
	flags.IntVarP(&length, "length", "l", 2000, "Minimum sequence length for filtering (bp)")
	flags.BoolP("version", "v", false, "Show script version information")
	if err := cmd.MarkFlagRequired("input"); err != nil {
		panic(err)
	}

	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	if err := cmd.Execute(); err != nil {
		return nil, false, &ExitError{Code: 1, Message: err.Error()}
	}
	if cfg == nil {
		return nil, true, nil
	}
	return cfg, false, nil
}

func envOr(lookupEnv func(string) (string, bool), key, fallback string) string {
	if v, ok := lookupEnv(key); ok && v != "" {
		return strings.ToLower(v)
	}
	return fallback
}
