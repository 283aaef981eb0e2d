package sascore

import (
	"context"
	"time"

	domain "github.com/turtacn/SAScore/internal/domain/sascore"
)

// ModelStore persists contribution model snapshots by name.  Load returns
// the most recently saved snapshot under name, or a CodeModelNotFound error.
type ModelStore interface {
	Save(ctx context.Context, snap *domain.Snapshot) error
	Load(ctx context.Context, name string) (*domain.Snapshot, error)
	List(ctx context.Context) ([]string, error)
}

// ScoreCache caches score breakdowns per model version and SMILES.  A miss
// is reported as (nil, false, nil).
type ScoreCache interface {
	Get(ctx context.Context, modelVersion, smiles string) (*domain.Breakdown, bool, error)
	Set(ctx context.Context, modelVersion, smiles string, b *domain.Breakdown, ttl time.Duration) error
}

// FragmentCountStore accumulates corpus fragment counts across ingests.
type FragmentCountStore interface {
	AddCounts(ctx context.Context, radius int, counts domain.FragmentCountTable, molecules int64) error
	LoadCounts(ctx context.Context, radius int) (domain.FragmentCountTable, error)
}

// Model event types.
const (
	EventModelBuilt  = "model.built"
	EventModelLoaded = "model.loaded"
)

// ModelEvent announces a change of the active model.
type ModelEvent struct {
	Type       string           `json:"type"`
	Model      domain.ModelInfo `json:"model"`
	Molecules  int              `json:"molecules,omitempty"`
	Skipped    int              `json:"skipped,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// EventPublisher delivers model events.
type EventPublisher interface {
	PublishModelEvent(ctx context.Context, event *ModelEvent) error
}

// BuildLocker serialises model builds across replicas.  Acquire returns
// the function that releases the lock.
type BuildLocker interface {
	Acquire(ctx context.Context, name string) (func(context.Context) error, error)
}

// cacheInvalidator is implemented by caches that can drop every entry of a
// retired model version.
type cacheInvalidator interface {
	InvalidateModel(ctx context.Context, modelVersion string) (int64, error)
}

// Parser turns SMILES into a molecule the domain core can score.
type Parser func(smiles string) (domain.Molecule, error)

//Personal.AI order the ending
