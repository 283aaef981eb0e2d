// Package storage holds what the snapshot stores share: model name rules
// and snapshot object naming.
package storage

import (
	"regexp"
	"strings"

	domain "github.com/turtacn/SAScore/internal/domain/sascore"
	"github.com/turtacn/SAScore/pkg/errors"
)

// SnapshotExt is the file extension of a stored snapshot.
const SnapshotExt = ".json.zst"

// LatestPointer names the object holding the key of a model's newest
// snapshot.
const LatestPointer = "LATEST"

var modelNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidateModelName rejects names that cannot be used as a path segment.
func ValidateModelName(name string) error {
	if !modelNamePattern.MatchString(name) || strings.Contains(name, "..") {
		return errors.InvalidParam("invalid model name").WithDetail("name=" + name)
	}
	return nil
}

// SnapshotFileName is <created UTC>-<model id>.json.zst, so names sort by
// creation time.
func SnapshotFileName(snap *domain.Snapshot) string {
	return snap.CreatedAt.UTC().Format("20060102T150405.000000000Z") + "-" + snap.Version() + SnapshotExt
}

//Personal.AI order the ending
