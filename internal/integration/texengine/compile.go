// Package texengine runs an installed TeX engine on a document so its log can be analyzed.
package texengine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/texlog/internal/integration/binary"
)

// Large documents with many fonts to generate can take a while on a cold cache.
const timeout = 5 * time.Minute

// Engines are tried in order when none is requested.
//
//nolint:gochecknoglobals
var Engines = []string{"pdflatex", "lualatex", "xelatex", "latex"}

// Compile runs engine on texPath from the document's directory and returns the path of the log
// it wrote. A failing TeX run is expected when the document has errors and is not reported as an
// error as long as a log was produced.
func Compile(ctx context.Context, engine, texPath string) (string, error) {
	slog.Debug("texengine.Compile", "engine", engine, "file", texPath, "stage", "start")

	candidates := Engines
	if engine != "" {
		candidates = []string{engine}
	}

	name, enginePath, found := binary.First(candidates...)
	if !found {
		return "", fmt.Errorf("%w: %s", fault.ErrMissingRequirements, strings.Join(candidates, ", "))
	}

	dir := filepath.Dir(texPath)
	base := filepath.Base(texPath)
	logPath := filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".log")

	// A stale log from an earlier run must not be mistaken for this one.
	if err := os.Remove(logPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("removing stale log: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // texPath is intentionally user-provided input
	cmd := exec.CommandContext(ctx, enginePath,
		"-interaction=nonstopmode",
		"-file-line-error",
		base,
	)

	cmd.Dir = dir

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		slog.Debug("texengine.Compile", "engine", name, "stage", "timeout")

		return "", fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
	}

	if _, err := os.Stat(logPath); err != nil {
		slog.Debug("texengine.Compile", "engine", name, "stage", "error")

		if runErr != nil {
			return "", fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), runErr)
		}

		return "", fmt.Errorf("%w: %s wrote no log at %s", fault.ErrCommandFailure, name, logPath)
	}

	slog.Debug("texengine.Compile", "engine", name, "stage", "done", "failed", runErr != nil)

	return logPath, nil
}
