// Package loader implements the file-loading collaborator bconf's
// `import`/`extends` statements and resolver protocol depend on
// (spec.md §1 calls it "out of scope... specified only as a
// collaborator at their interface"; this package provides the
// default filesystem implementation so the rest of bconf is
// runnable end-to-end).
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultTimeout is the cancellation deadline WithDefaultTimeout
// applies to a load whose context carries no deadline of its own
// (spec.md §5: "10 seconds for filesystem loads").
const DefaultTimeout = 10 * time.Second

// Loader loads the text at path, resolved against rootDir, and
// returns its contents. Implementations should respect ctx
// cancellation for any blocking I/O (spec.md §5).
type Loader func(ctx context.Context, rootDir, path string) (string, error)

// Filesystem is the default Loader: it resolves path against rootDir
// (treating an absolute path as already resolved) and reads the file,
// aborting with an I/O error if ctx expires first.
func Filesystem(ctx context.Context, rootDir, path string) (string, error) {
	full := path
	if !filepath.IsAbs(path) {
		full = filepath.Join(rootDir, path)
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := os.ReadFile(full)
		done <- result{data, err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("loading %q: %w", full, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("loading %q: %w", full, r.err)
		}
		return string(r.data), nil
	}
}

// WithDefaultTimeout wraps l so that, when the caller's context has
// no deadline of its own, a DefaultTimeout deadline is applied.
func WithDefaultTimeout(l Loader) Loader {
	return func(ctx context.Context, rootDir, path string) (string, error) {
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
			defer cancel()
		}
		return l(ctx, rootDir, path)
	}
}
