package lake

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/cinemetrics/internal/model"
)

// FileName is the fixed name of the lake artifact.
const FileName = "cleaned_movie_data.csv"

// DefaultDir is used when no lake directory is configured.
const DefaultDir = "data_lake"

// ErrNoArtifact is returned when the lake file has not been written yet.
var ErrNoArtifact = errors.New("lake: no artifact written yet")

const lockRetryDelay = 25 * time.Millisecond

// Writer overwrites the lake file with each table it is given.
type Writer struct {
	dir string
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = DefaultDir
	}
	return &Writer{dir: dir}
}

// Dir returns the lake directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Path returns the fixed artifact path.
func (w *Writer) Path() string {
	return filepath.Join(w.dir, FileName)
}

// Write replaces the artifact with table and returns its path. The file is
// written to a temp file and renamed into place under an advisory lock, so a
// reader never sees a partial file. Concurrent writers are last-writer-wins.
func (w *Writer) Write(ctx context.Context, table model.Table) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, table); err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "lake: create dir %s", w.dir)
	}

	lock := flock.New(filepath.Join(w.dir, "."+FileName+".lock"))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return "", eris.Wrap(err, "lake: acquire lock")
	}
	if !locked {
		return "", eris.New("lake: lock not acquired")
	}
	defer lock.Unlock() //nolint:errcheck

	tmp, err := os.CreateTemp(w.dir, "."+FileName+".*.tmp")
	if err != nil {
		return "", eris.Wrap(err, "lake: create temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return "", eris.Wrap(err, "lake: write temp file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return "", eris.Wrap(err, "lake: sync temp file")
	}
	if err := tmp.Close(); err != nil {
		return "", eris.Wrap(err, "lake: close temp file")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", eris.Wrap(err, "lake: chmod temp file")
	}

	path := w.Path()
	if err := os.Rename(tmpName, path); err != nil {
		return "", eris.Wrapf(err, "lake: replace %s", path)
	}

	zap.L().Info("lake: wrote artifact",
		zap.String("path", path),
		zap.Int("rows", table.Len()),
		zap.Int("bytes", buf.Len()),
	)
	return path, nil
}

// Read loads the current artifact.
func (w *Writer) Read() (model.Table, error) {
	return Read(w.Path())
}

// Read loads a lake file from path.
func Read(path string) (model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.Table{}, ErrNoArtifact
		}
		return model.Table{}, eris.Wrapf(err, "lake: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return Decode(f)
}
