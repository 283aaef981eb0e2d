// Package local stores contribution model snapshots on the local
// filesystem.
package local

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	domain "github.com/turtacn/SAScore/internal/domain/sascore"
	"github.com/turtacn/SAScore/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SAScore/internal/infrastructure/storage"
	"github.com/turtacn/SAScore/pkg/errors"
)

// ModelStore keeps snapshots as <dir>/<name>/<created>-<id>.json.zst with a
// <dir>/<name>/LATEST file naming the newest.  Files are written to a
// temporary name and renamed into place.
type ModelStore struct {
	dir    string
	keep   int
	logger logging.Logger
}

// NewModelStore returns a store rooted at dir, creating it if needed.  keep
// > 0 bounds the snapshots retained per model.
func NewModelStore(dir string, keep int, log logging.Logger) (*ModelStore, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageError, "failed to create model directory").WithDetail("dir=" + dir)
	}
	return &ModelStore{dir: dir, keep: keep, logger: log}, nil
}

// Save writes snap and points LATEST at it.
func (s *ModelStore) Save(_ context.Context, snap *domain.Snapshot) error {
	if err := storage.ValidateModelName(snap.Name); err != nil {
		return err
	}
	data, err := domain.MarshalSnapshot(snap)
	if err != nil {
		return err
	}
	modelDir := filepath.Join(s.dir, snap.Name)
	if err := os.MkdirAll(modelDir, 0o755); err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "failed to create model directory").WithDetail("dir=" + modelDir)
	}
	file := storage.SnapshotFileName(snap)
	if err := writeAtomic(filepath.Join(modelDir, file), data); err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(modelDir, storage.LatestPointer), []byte(file)); err != nil {
		return err
	}
	s.logger.Info("model snapshot written",
		logging.String("path", filepath.Join(modelDir, file)),
		logging.Int("bytes", len(data)))

	if s.keep > 0 {
		if _, err := s.Prune(context.Background(), snap.Name, s.keep); err != nil {
			s.logger.Warn("failed to prune old snapshots", logging.String("model", snap.Name), logging.Err(err))
		}
	}
	return nil
}

// Load reads the snapshot LATEST names for name.
func (s *ModelStore) Load(_ context.Context, name string) (*domain.Snapshot, error) {
	if err := storage.ValidateModelName(name); err != nil {
		return nil, err
	}
	modelDir := filepath.Join(s.dir, name)
	raw, err := os.ReadFile(filepath.Join(modelDir, storage.LatestPointer))
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.New(errors.CodeModelNotFound, "model not found").WithDetail("model=" + name)
		}
		return nil, errors.Wrap(err, errors.CodeStorageError, "failed to read latest model pointer")
	}
	file := strings.TrimSpace(string(raw))
	if file == "" || file != filepath.Base(file) || !strings.HasSuffix(file, storage.SnapshotExt) {
		return nil, errors.New(errors.CodeModelCorrupt, "latest model pointer is invalid").WithDetail("model=" + name)
	}
	return LoadFile(filepath.Join(modelDir, file))
}

// LoadFile reads a snapshot file from any path.
func LoadFile(path string) (*domain.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.New(errors.CodeModelNotFound, "model snapshot not found").WithDetail("path=" + path)
		}
		return nil, errors.Wrap(err, errors.CodeStorageError, "failed to open model snapshot")
	}
	defer f.Close()
	return domain.ReadSnapshot(f)
}

// SaveFile writes snap to path.
func SaveFile(path string, snap *domain.Snapshot) error {
	data, err := domain.MarshalSnapshot(snap)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, errors.CodeStorageError, "failed to create directory").WithDetail("dir=" + dir)
		}
	}
	return writeAtomic(path, data)
}

// List returns the names of models that have a LATEST pointer, sorted.
func (s *ModelStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageError, "failed to list models")
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.dir, e.Name(), storage.LatestPointer)); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Versions returns the snapshot file paths of name, oldest first.
func (s *ModelStore) Versions(_ context.Context, name string) ([]string, error) {
	if err := storage.ValidateModelName(name); err != nil {
		return nil, err
	}
	paths, err := filepath.Glob(filepath.Join(s.dir, name, "*"+storage.SnapshotExt))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageError, "failed to list model snapshots")
	}
	sort.Strings(paths)
	return paths, nil
}

// Prune deletes all but the newest keep snapshots of name.
func (s *ModelStore) Prune(ctx context.Context, name string, keep int) (int, error) {
	paths, err := s.Versions(ctx, name)
	if err != nil {
		return 0, err
	}
	if keep < 1 || len(paths) <= keep {
		return 0, nil
	}
	removed := 0
	for _, p := range paths[:len(paths)-keep] {
		if err := os.Remove(p); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return removed, errors.Wrap(err, errors.CodeStorageError, "failed to remove model snapshot").WithDetail("path=" + p)
		}
		removed++
	}
	s.logger.Info("pruned model snapshots", logging.String("model", name), logging.Int("removed", removed))
	return removed, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "failed to create temporary file").WithDetail("path=" + path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, errors.CodeStorageError, "failed to write file").WithDetail("path=" + path)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, errors.CodeStorageError, "failed to sync file").WithDetail("path=" + path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "failed to close file").WithDetail("path=" + path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "failed to move file into place").WithDetail("path=" + path)
	}
	return nil
}

//Personal.AI order the ending
