package sascore

import (
	"encoding/json"
	"io"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/turtacn/SAScore/pkg/errors"
)

// SnapshotFormatVersion is written into every snapshot and checked on load.
const SnapshotFormatVersion = 1

// scoreTolerance bounds the difference between a stored score and the one
// recomputed from the stored counts.
const scoreTolerance = 1e-12

// Snapshot is a persisted ContributionModel with its identity.
type Snapshot struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	Radius    int
	Model     *ContributionModel
}

// NewSnapshot wraps model under a fresh id.
func NewSnapshot(name string, radius int, model *ContributionModel) *Snapshot {
	return &Snapshot{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Radius:    radius,
		Model:     model,
	}
}

// Version identifies the model for cache keys and responses.
func (s *Snapshot) Version() string { return s.ID.String() }

// Info summarises the snapshot without its entries.
func (s *Snapshot) Info() ModelInfo {
	return ModelInfo{
		ID:            s.ID.String(),
		Name:          s.Name,
		CreatedAt:     s.CreatedAt,
		Radius:        s.Radius,
		Fragments:     s.Model.Len(),
		Total:         s.Model.Total(),
		FrequentTypes: s.Model.FrequentTypes(),
		Degenerate:    s.Model.Degenerate(),
	}
}

// ModelInfo is the metadata view of a snapshot.
type ModelInfo struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"created_at"`
	Radius        int       `json:"radius"`
	Fragments     int       `json:"fragments"`
	Total         int64     `json:"total"`
	FrequentTypes int       `json:"frequent_types"`
	Degenerate    bool      `json:"degenerate"`
}

type snapshotEntry struct {
	ID    FragmentID `json:"id"`
	Count int64      `json:"count"`
	// Score is null for -Inf.
	Score *float64 `json:"score"`
}

type snapshotDocument struct {
	FormatVersion int             `json:"format_version"`
	ModelID       string          `json:"model_id"`
	Name          string          `json:"name"`
	CreatedAt     time.Time       `json:"created_at"`
	Radius        int             `json:"radius"`
	Total         int64           `json:"total"`
	FrequentTypes int             `json:"frequent_types"`
	Entries       []snapshotEntry `json:"entries"`
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil)
}

// MarshalSnapshot encodes s as zstd-compressed JSON with entries in
// ascending fragment id order.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	if s == nil || s.Model == nil {
		return nil, errors.New(errors.CodeInvalidParam, "snapshot has no model")
	}

	doc := snapshotDocument{
		FormatVersion: SnapshotFormatVersion,
		ModelID:       s.ID.String(),
		Name:          s.Name,
		CreatedAt:     s.CreatedAt,
		Radius:        s.Radius,
		Total:         s.Model.Total(),
		FrequentTypes: s.Model.FrequentTypes(),
		Entries:       make([]snapshotEntry, 0, s.Model.Len()),
	}
	s.Model.Range(func(id FragmentID, count int64, score float64) bool {
		e := snapshotEntry{ID: id, Count: count}
		if !math.IsInf(score, -1) {
			v := score
			e.Score = &v
		}
		doc.Entries = append(doc.Entries, e)
		return true
	})

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSerialization, "failed to encode model snapshot")
	}

	enc, err := getZstdEncoder()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSerialization, "failed to create zstd encoder")
	}
	defer zstdEncoderPool.Put(enc)
	return enc.EncodeAll(raw, nil), nil
}

// UnmarshalSnapshot decodes data produced by MarshalSnapshot.  The model is
// rebuilt from the stored counts and checked against the stored totals and
// scores; any mismatch is reported as CodeModelCorrupt.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	dec, err := getZstdDecoder()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSerialization, "failed to create zstd decoder")
	}
	raw, err := dec.DecodeAll(data, nil)
	zstdDecoderPool.Put(dec)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeModelCorrupt, "model snapshot is not valid zstd")
	}

	var doc snapshotDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, errors.CodeModelCorrupt, "model snapshot is not valid JSON")
	}
	if doc.FormatVersion != SnapshotFormatVersion {
		return nil, errors.Newf(errors.CodeModelCorrupt, "unsupported snapshot format version %d", doc.FormatVersion)
	}
	id, err := uuid.Parse(doc.ModelID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeModelCorrupt, "invalid model id")
	}
	if doc.Radius < 0 {
		return nil, errors.Newf(errors.CodeModelCorrupt, "invalid radius %d", doc.Radius)
	}

	counts := make(FragmentCountTable, len(doc.Entries))
	for i, e := range doc.Entries {
		if e.Count <= 0 {
			return nil, errors.Newf(errors.CodeModelCorrupt, "entry %d has non-positive count", i)
		}
		if i > 0 && e.ID <= doc.Entries[i-1].ID {
			return nil, errors.Newf(errors.CodeModelCorrupt, "entry %d out of order", i)
		}
		counts[e.ID] = e.Count
	}

	model := BuildContributionModel(counts)
	if model.Total() != doc.Total || model.FrequentTypes() != doc.FrequentTypes {
		return nil, errors.New(errors.CodeModelCorrupt, "stored totals do not match entries").
			WithDetail("model_id=" + doc.ModelID)
	}
	for _, e := range doc.Entries {
		if !scoreMatches(e.Score, model.Score(e.ID)) {
			return nil, errors.Newf(errors.CodeModelCorrupt, "stored score of fragment %d does not match its count", e.ID)
		}
	}

	return &Snapshot{
		ID:        id,
		Name:      doc.Name,
		CreatedAt: doc.CreatedAt,
		Radius:    doc.Radius,
		Model:     model,
	}, nil
}

func scoreMatches(stored *float64, computed float64) bool {
	if stored == nil {
		return math.IsInf(computed, -1)
	}
	return math.Abs(*stored-computed) <= scoreTolerance
}

// WriteSnapshot marshals s to w.
func WriteSnapshot(w io.Writer, s *Snapshot) error {
	data, err := MarshalSnapshot(s)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "failed to write model snapshot")
	}
	return nil
}

// ReadSnapshot reads all of r and unmarshals it.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageError, "failed to read model snapshot")
	}
	return UnmarshalSnapshot(data)
}

//Personal.AI order the ending
