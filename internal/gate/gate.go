// Package gate implements the existence check applied between pipeline
// steps: the file a step declares as its output must be on disk before the
// next step is allowed to consume it.
package gate

import (
	"context"
	"fmt"

	"github.com/vk/gdmcv/internal/ctxlog"
	"github.com/vk/gdmcv/internal/fsutil"
)

// MissingFileError reports an expected file that is absent.
type MissingFileError struct {
	Path        string
	Description string
}

// Error implements the error interface for MissingFileError.
func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s not found: %s. Please check the path or the output of the previous steps.", e.Description, e.Path)
}

// Require returns nil when path is an existing regular file and a
// *MissingFileError otherwise.
func Require(ctx context.Context, path, description string) error {
	logger := ctxlog.FromContext(ctx)

	if !fsutil.FileExists(path) {
		logger.Error("Expected file is missing.", "path", path, "description", description)
		return &MissingFileError{Path: path, Description: description}
	}

	logger.Debug("Expected file present.", "path", path, "description", description)
	return nil
}
