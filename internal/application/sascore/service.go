// Package sascore is the application service around the synthetic
// accessibility core.  It builds, persists and activates contribution models
// and scores SMILES against the active model.
package sascore

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/turtacn/SAScore/internal/chem"
	domain "github.com/turtacn/SAScore/internal/domain/sascore"
	"github.com/turtacn/SAScore/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/SAScore/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SAScore/pkg/errors"
)

// Service defines the SA scoring application operations.
type Service interface {
	BuildModel(ctx context.Context, input *BuildInput) (*BuildResult, error)
	IngestCorpus(ctx context.Context, corpus []string) (*IngestResult, error)
	RebuildFromStore(ctx context.Context, name string) (*BuildResult, error)
	LoadModel(ctx context.Context, name string) (*domain.ModelInfo, error)
	ActivateSnapshot(ctx context.Context, snap *domain.Snapshot) error
	ActiveModel() (*domain.ModelInfo, error)
	Score(ctx context.Context, smiles string) (*ScoreResult, error)
	ScoreBatch(ctx context.Context, smiles []string) (*BatchResult, error)
	Fragments(ctx context.Context, smiles string) (*FragmentsResult, error)
	Ready() bool
}

// Config holds the service tunables.
type Config struct {
	ModelName  string
	Radius     int
	Workers    int
	BatchLimit int
	Strict     bool
	CacheTTL   time.Duration
	// Source labels score metrics ("http", "worker", "cli").
	Source string
}

// BuildInput contains input for building a model from SMILES.
type BuildInput struct {
	Name   string
	Corpus []string
}

// SkippedEntry is a corpus entry left out of a build.
type SkippedEntry struct {
	Index  int    `json:"index"`
	SMILES string `json:"smiles"`
	Reason string `json:"reason"`
}

// BuildResult describes a freshly built and activated model.
type BuildResult struct {
	Snapshot  *domain.Snapshot `json:"-"`
	Model     domain.ModelInfo `json:"model"`
	Molecules int              `json:"molecules"`
	Skipped   []SkippedEntry   `json:"skipped,omitempty"`
	Duration  time.Duration    `json:"duration"`
}

// IngestResult describes counts added to the fragment-count store.
type IngestResult struct {
	Molecules int            `json:"molecules"`
	Fragments int            `json:"fragments"`
	Total     int64          `json:"total"`
	Skipped   []SkippedEntry `json:"skipped,omitempty"`
}

// ScoreResult is the score of one molecule.
type ScoreResult struct {
	SMILES       string            `json:"smiles"`
	Score        float64           `json:"score"`
	ModelVersion string            `json:"model_version"`
	Breakdown    *domain.Breakdown `json:"breakdown"`
	Cached       bool              `json:"cached"`
}

// ItemError is the failure of one batch entry.
type ItemError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BatchItem is one entry of a batch result, in request order.
type BatchItem struct {
	Index  int          `json:"index"`
	SMILES string       `json:"smiles"`
	Result *ScoreResult `json:"result,omitempty"`
	Error  *ItemError   `json:"error,omitempty"`
}

// BatchResult holds per-entry outcomes of ScoreBatch.
type BatchResult struct {
	ModelVersion string      `json:"model_version"`
	Items        []BatchItem `json:"items"`
	Succeeded    int         `json:"succeeded"`
	Failed       int         `json:"failed"`
}

// FragmentCount is one fragment of a molecule with its contribution under
// the active model, when one is loaded.
type FragmentCount struct {
	ID           domain.FragmentID `json:"id"`
	Count        int64             `json:"count"`
	Known        bool              `json:"known"`
	Contribution float64           `json:"contribution"`
}

// FragmentsResult is the fragment table of one molecule.
type FragmentsResult struct {
	SMILES    string          `json:"smiles"`
	Radius    int             `json:"radius"`
	Fragments []FragmentCount `json:"fragments"`
	Total     int64           `json:"total"`
}

// Option configures optional collaborators.
type Option func(*serviceImpl)

// WithModelStore sets where snapshots are saved and loaded.
func WithModelStore(store ModelStore) Option { return func(s *serviceImpl) { s.store = store } }

// WithScoreCache enables score caching.
func WithScoreCache(cache ScoreCache) Option { return func(s *serviceImpl) { s.cache = cache } }

// WithFragmentCountStore enables incremental ingestion.
func WithFragmentCountStore(counts FragmentCountStore) Option {
	return func(s *serviceImpl) { s.counts = counts }
}

// WithEventPublisher announces model changes.
func WithEventPublisher(p EventPublisher) Option { return func(s *serviceImpl) { s.publisher = p } }

// WithMetrics records service metrics.
func WithMetrics(m *prom.ScoringMetrics) Option { return func(s *serviceImpl) { s.metrics = m } }

// WithBuildLocker serialises builds of the same model name.
func WithBuildLocker(l BuildLocker) Option { return func(s *serviceImpl) { s.locker = l } }

// WithParser replaces the SMILES parser.
func WithParser(p Parser) Option { return func(s *serviceImpl) { s.parse = p } }

type activeModel struct {
	snapshot *domain.Snapshot
	calc     *domain.Calculator
}

type serviceImpl struct {
	cfg       Config
	store     ModelStore
	cache     ScoreCache
	counts    FragmentCountStore
	publisher EventPublisher
	locker    BuildLocker
	metrics   *prom.ScoringMetrics
	parse     Parser
	logger    logging.Logger

	active atomic.Pointer[activeModel]
}

// NewService creates the SA scoring service.  Collaborators not supplied
// through options are disabled.
func NewService(cfg Config, logger logging.Logger, opts ...Option) Service {
	if cfg.Radius <= 0 {
		cfg.Radius = domain.FingerprintRadius
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.ModelName == "" {
		cfg.ModelName = "default"
	}
	if cfg.Source == "" {
		cfg.Source = prom.SourceHTTP
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &serviceImpl{
		cfg:    cfg,
		parse:  parseSMILES,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = prom.NewNoopScoringMetrics()
	}
	return s
}

func parseSMILES(smiles string) (domain.Molecule, error) {
	mol, err := chem.ParseSMILES(smiles)
	if err != nil {
		return nil, err
	}
	return mol, nil
}

func (s *serviceImpl) Ready() bool {
	return s.active.Load() != nil
}

func (s *serviceImpl) ActiveModel() (*domain.ModelInfo, error) {
	am := s.active.Load()
	if am == nil {
		return nil, errors.New(errors.CodeModelNotLoaded, "no contribution model is loaded")
	}
	info := am.snapshot.Info()
	return &info, nil
}

func (s *serviceImpl) LoadModel(ctx context.Context, name string) (*domain.ModelInfo, error) {
	if s.store == nil {
		return nil, errors.Unavailable("model store is not configured")
	}
	if name == "" {
		name = s.cfg.ModelName
	}
	snap, err := s.store.Load(ctx, name)
	if err != nil {
		s.logger.Error("failed to load model", logging.String("model", name), logging.Err(err))
		return nil, err
	}
	if err := s.ActivateSnapshot(ctx, snap); err != nil {
		return nil, err
	}
	info := snap.Info()
	return &info, nil
}

func (s *serviceImpl) ActivateSnapshot(ctx context.Context, snap *domain.Snapshot) error {
	if snap == nil || snap.Model == nil {
		return errors.InvalidParam("snapshot has no model")
	}
	if snap.Model.Degenerate() {
		return errors.New(errors.CodeModelDegenerate, "model has an empty frequent set").
			WithDetail("model=" + snap.Name)
	}
	s.activate(ctx, snap)
	s.publish(ctx, &ModelEvent{Type: EventModelLoaded, Model: snap.Info(), OccurredAt: time.Now().UTC()})
	return nil
}

func (s *serviceImpl) activate(ctx context.Context, snap *domain.Snapshot) {
	prev := s.active.Swap(&activeModel{
		snapshot: snap,
		calc:     domain.NewCalculatorWithRadius(snap.Model, snap.Radius),
	})
	s.metrics.SetActiveModel(snap.Name, snap.Model.Len(), snap.Model.FrequentTypes())
	s.logger.Info("contribution model activated",
		logging.String("model", snap.Name),
		logging.String("version", snap.Version()),
		logging.Int("fragments", snap.Model.Len()),
		logging.Int("frequent_types", snap.Model.FrequentTypes()),
		logging.Int("radius", snap.Radius))

	if prev != nil && prev.snapshot.Version() != snap.Version() {
		s.retireCache(ctx, prev.snapshot.Version())
	}
}

func (s *serviceImpl) retireCache(ctx context.Context, version string) {
	inv, ok := s.cache.(cacheInvalidator)
	if !ok {
		return
	}
	if _, err := inv.InvalidateModel(ctx, version); err != nil {
		s.logger.Warn("failed to drop cached scores of retired model",
			logging.String("version", version), logging.Err(err))
	}
}

// lockBuild takes the build lock for name when a locker is configured.
func (s *serviceImpl) lockBuild(ctx context.Context, name string) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	release, err := s.locker.Acquire(ctx, "model:"+name)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "failed to take the build lock").
			WithDetail("model=" + name)
	}
	return func() {
		if err := release(context.Background()); err != nil {
			s.logger.Warn("failed to release build lock", logging.String("model", name), logging.Err(err))
		}
	}, nil
}

func (s *serviceImpl) publish(ctx context.Context, event *ModelEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishModelEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish model event",
			logging.String("type", event.Type),
			logging.String("model", event.Model.Name),
			logging.Err(err))
	}
}

//Personal.AI order the ending
