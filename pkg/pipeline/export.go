package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/ringchart/pkg/dataset"
	"github.com/matzehuels/ringchart/pkg/errors"
	"github.com/matzehuels/ringchart/pkg/ring/layout"
)

// ExportOptions configures a single export.
type ExportOptions struct {
	// Format is inferred from the path extension when empty.
	Format string
	// Timeout bounds rendering and writing. Zero selects DefaultTimeout;
	// a negative value disables the deadline.
	Timeout time.Duration
	// Render carries scale, background and the other render options.
	// Its Formats field is ignored.
	Render Options
}

// ExportResult describes a completed export.
type ExportResult struct {
	ID       string        `json:"id"`
	Path     string        `json:"path"`
	Format   string        `json:"format"`
	Bytes    int           `json:"bytes"`
	Duration time.Duration `json:"duration"`
}

type rendered struct {
	data []byte
	err  error
}

// Export renders one format and writes it to path. Artifacts go through the
// runner's cache like [Runner.Render].
//
// Rendering runs in its own goroutine and is abandoned when ctx is done or
// the timeout passes. Output goes to a temporary file in the target
// directory that is renamed into place only after a complete write, so path
// is either untouched or fully written. The temporary file is removed on
// every failure path. Export never modifies d, so a failed export can be
// retried with the same diagram.
//
// Errors carry the TIMEOUT code when the deadline passed and EXPORT_FAILED
// otherwise.
func (r *Runner) Export(ctx context.Context, d layout.Diagram, ds dataset.Dataset, path string, eo ExportOptions) (ExportResult, error) {
	opts := eo.Render
	r.applyLogger(&opts)

	res := ExportResult{ID: uuid.NewString(), Path: path, Format: eo.Format}
	start := time.Now()

	if res.Format == "" {
		f, err := FormatFromPath(path)
		if err != nil {
			return res, errors.Wrap(errors.ErrCodeExportFailed, err, "export %s", path)
		}
		res.Format = f
	}
	opts.Formats = []string{res.Format}
	if err := opts.ValidateForRender(); err != nil {
		return res, errors.Wrap(errors.ErrCodeExportFailed, err, "export %s", path)
	}

	timeout := eo.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	r.hooks().OnExportStart(ctx, res.ID, res.Format)
	opts.Logger.Debug("export started", "id", res.ID, "format", res.Format, "path", path)

	n, err := r.export(ctx, d, ds, path, res.Format, opts)
	res.Bytes = n
	res.Duration = time.Since(start)
	if err != nil {
		err = exportError(ctx, err, path)
	}
	r.hooks().OnExportComplete(ctx, res.ID, res.Format, res.Bytes, res.Duration, err)
	if err != nil {
		opts.Logger.Warn("export failed", "id", res.ID, "path", path, "err", err)
		return res, err
	}

	opts.Logger.Info("exported", "path", path, "format", res.Format, "bytes", res.Bytes, "duration", res.Duration)
	return res, nil
}

func (r *Runner) export(ctx context.Context, d layout.Diagram, ds dataset.Dataset, path, format string, opts Options) (int, error) {
	done := make(chan rendered, 1)
	go func() {
		opts.Formats = []string{format}
		artifacts, _, err := r.RenderWithCacheInfo(ctx, d, ds, opts)
		done <- rendered{artifacts[format], err}
	}()

	var out rendered
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case out = <-done:
	}
	if out.err != nil {
		return 0, out.err
	}
	if err := writeAtomic(ctx, path, out.data); err != nil {
		return 0, err
	}
	return len(out.data), nil
}

// writeAtomic writes data next to path and renames it into place.
func writeAtomic(ctx context.Context, path string, data []byte) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// exportError maps a failure onto a single coded error.
func exportError(ctx context.Context, err error, path string) error {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrCodeTimeout, err, "export %s timed out", path)
	}
	return errors.Wrap(errors.ErrCodeExportFailed, err, "export %s", path)
}
