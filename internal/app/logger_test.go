package app

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		level         string
		format        string
		expectedLevel slog.Level
		expectedOut   string
	}{
		{name: "Text at info", level: "info", format: "text", expectedLevel: slog.LevelInfo, expectedOut: `msg=hello`},
		{name: "JSON at debug", level: "debug", format: "json", expectedLevel: slog.LevelDebug, expectedOut: `"msg":"hello"`},
		{name: "Unknown level falls back to info", level: "", format: "text", expectedLevel: slog.LevelInfo, expectedOut: `msg=hello`},
		{name: "Error level", level: "error", format: "json", expectedLevel: slog.LevelError, expectedOut: `"msg":"hello"`},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			buf := &bytes.Buffer{}
			logger := newLogger(tc.level, tc.format, buf)

			require.True(t, logger.Enabled(context.Background(), tc.expectedLevel))
			require.False(t, logger.Enabled(context.Background(), tc.expectedLevel-1))
			logger.Log(context.Background(), tc.expectedLevel, "hello")
			require.Contains(t, buf.String(), tc.expectedOut)
		})
	}
}
