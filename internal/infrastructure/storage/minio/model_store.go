package minio

import (
	"bytes"
	"context"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/minio/minio-go/v7"

	domain "github.com/turtacn/SAScore/internal/domain/sascore"
	"github.com/turtacn/SAScore/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SAScore/internal/infrastructure/storage"
	"github.com/turtacn/SAScore/pkg/errors"
)

const defaultPrefix = "models/"

// ModelStore keeps snapshots under <prefix><name>/<created>-<id>.json.zst
// with a <prefix><name>/LATEST object naming the newest one.
type ModelStore struct {
	client *Client
	prefix string
	keep   int
	logger logging.Logger
}

// StoreOption configures a ModelStore.
type StoreOption func(*ModelStore)

// WithKeyPrefix changes the key prefix (default "models/").
func WithKeyPrefix(prefix string) StoreOption {
	return func(s *ModelStore) {
		if prefix != "" && !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		s.prefix = prefix
	}
}

// WithRetention keeps only the newest n snapshots of a model after each
// save.  Zero keeps everything.
func WithRetention(n int) StoreOption {
	return func(s *ModelStore) { s.keep = n }
}

// NewModelStore returns a store over client.
func NewModelStore(client *Client, opts ...StoreOption) *ModelStore {
	s := &ModelStore{client: client, prefix: defaultPrefix, logger: client.logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ModelStore) modelDir(name string) string {
	return s.prefix + name + "/"
}

// Save uploads snap and moves the LATEST pointer to it.
func (s *ModelStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	if err := storage.ValidateModelName(snap.Name); err != nil {
		return err
	}
	data, err := domain.MarshalSnapshot(snap)
	if err != nil {
		return err
	}
	key := s.modelDir(snap.Name) + storage.SnapshotFileName(snap)
	_, err = s.client.api.PutObject(ctx, s.client.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType: "application/zstd",
			UserMetadata: map[string]string{
				"model-id":       snap.Version(),
				"radius":         strconv.Itoa(snap.Radius),
				"frequent-types": strconv.Itoa(snap.Model.FrequentTypes()),
			},
		})
	if err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "failed to upload model snapshot").WithDetail("key=" + key)
	}

	pointer := s.modelDir(snap.Name) + storage.LatestPointer
	_, err = s.client.api.PutObject(ctx, s.client.bucket, pointer, strings.NewReader(key), int64(len(key)),
		minio.PutObjectOptions{ContentType: "text/plain"})
	if err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "failed to update latest model pointer").WithDetail("key=" + pointer)
	}

	s.logger.Info("model snapshot uploaded",
		logging.String("bucket", s.client.bucket),
		logging.String("key", key),
		logging.Int("bytes", len(data)))

	if s.keep > 0 {
		if _, err := s.Prune(ctx, snap.Name, s.keep); err != nil {
			s.logger.Warn("failed to prune old snapshots", logging.String("model", snap.Name), logging.Err(err))
		}
	}
	return nil
}

// Load returns the snapshot the LATEST pointer of name refers to.
func (s *ModelStore) Load(ctx context.Context, name string) (*domain.Snapshot, error) {
	if err := storage.ValidateModelName(name); err != nil {
		return nil, err
	}
	pointer := s.modelDir(name) + storage.LatestPointer
	raw, err := s.get(ctx, pointer)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.New(errors.CodeModelNotFound, "model not found").WithDetail("model=" + name)
		}
		return nil, errors.Wrap(err, errors.CodeStorageError, "failed to read latest model pointer")
	}
	key := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(key, s.modelDir(name)) {
		return nil, errors.New(errors.CodeModelCorrupt, "latest model pointer is invalid").WithDetail("key=" + key)
	}
	return s.LoadKey(ctx, key)
}

// LoadKey loads the snapshot stored at key.
func (s *ModelStore) LoadKey(ctx context.Context, key string) (*domain.Snapshot, error) {
	data, err := s.get(ctx, key)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.New(errors.CodeModelNotFound, "model snapshot not found").WithDetail("key=" + key)
		}
		return nil, errors.Wrap(err, errors.CodeStorageError, "failed to download model snapshot")
	}
	return domain.UnmarshalSnapshot(data)
}

func (s *ModelStore) get(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.client.api.GetObject(ctx, s.client.bucket, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// List returns the names of stored models, sorted.
func (s *ModelStore) List(ctx context.Context) ([]string, error) {
	var names []string
	for obj := range s.client.api.ListObjects(ctx, s.client.bucket, minio.ListObjectsOptions{Prefix: s.prefix}) {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, errors.CodeStorageError, "failed to list models")
		}
		if !strings.HasSuffix(obj.Key, "/") {
			continue
		}
		names = append(names, strings.TrimSuffix(strings.TrimPrefix(obj.Key, s.prefix), "/"))
	}
	sort.Strings(names)
	return names, nil
}

// Versions returns the snapshot keys of name, oldest first.
func (s *ModelStore) Versions(ctx context.Context, name string) ([]string, error) {
	if err := storage.ValidateModelName(name); err != nil {
		return nil, err
	}
	var keys []string
	opts := minio.ListObjectsOptions{Prefix: s.modelDir(name), Recursive: true}
	for obj := range s.client.api.ListObjects(ctx, s.client.bucket, opts) {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, errors.CodeStorageError, "failed to list model snapshots")
		}
		if strings.HasSuffix(obj.Key, storage.SnapshotExt) {
			keys = append(keys, obj.Key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return path.Base(keys[i]) < path.Base(keys[j]) })
	return keys, nil
}

// Prune removes all but the newest keep snapshots of name and returns how
// many were removed.
func (s *ModelStore) Prune(ctx context.Context, name string, keep int) (int, error) {
	keys, err := s.Versions(ctx, name)
	if err != nil {
		return 0, err
	}
	if keep < 1 || len(keys) <= keep {
		return 0, nil
	}
	removed := 0
	for _, key := range keys[:len(keys)-keep] {
		if err := s.client.api.RemoveObject(ctx, s.client.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			return removed, errors.Wrap(err, errors.CodeStorageError, "failed to remove model snapshot").WithDetail("key=" + key)
		}
		removed++
	}
	s.logger.Info("pruned model snapshots", logging.String("model", name), logging.Int("removed", removed))
	return removed, nil
}

//Personal.AI order the ending
