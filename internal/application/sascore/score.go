package sascore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	domain "github.com/turtacn/SAScore/internal/domain/sascore"
	"github.com/turtacn/SAScore/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/SAScore/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SAScore/pkg/errors"
)

func (s *serviceImpl) Score(ctx context.Context, smiles string) (*ScoreResult, error) {
	start := time.Now()
	smiles = strings.TrimSpace(smiles)
	if smiles == "" {
		s.metrics.RecordScore(s.cfg.Source, prom.StatusInvalid, 0, time.Since(start))
		return nil, errors.InvalidParam("smiles is required")
	}
	am := s.active.Load()
	if am == nil {
		s.metrics.RecordScore(s.cfg.Source, prom.StatusNoModel, 0, time.Since(start))
		return nil, errors.New(errors.CodeModelNotLoaded, "no contribution model is loaded")
	}
	return s.scoreWith(ctx, am, smiles, start)
}

// scoreWith scores smiles against am.  Callers pass am so that every entry
// of a batch sees the same model even if another is activated meanwhile.
func (s *serviceImpl) scoreWith(ctx context.Context, am *activeModel, smiles string, start time.Time) (*ScoreResult, error) {
	version := am.snapshot.Version()
	if b := s.cacheGet(ctx, version, smiles); b != nil {
		s.metrics.RecordScore(s.cfg.Source, prom.StatusOK, b.Score, time.Since(start))
		return &ScoreResult{SMILES: smiles, Score: b.Score, ModelVersion: version, Breakdown: b, Cached: true}, nil
	}

	mol, err := s.parse(smiles)
	if err != nil {
		s.metrics.RecordScore(s.cfg.Source, scoreStatus(err), 0, time.Since(start))
		return nil, err
	}
	b, err := am.calc.ScoreDetailed(mol)
	if err != nil {
		s.metrics.RecordScore(s.cfg.Source, scoreStatus(err), 0, time.Since(start))
		s.logger.Error("failed to score molecule", logging.String("smiles", smiles), logging.Err(err))
		return nil, err
	}
	s.cacheSet(ctx, version, smiles, b)
	s.metrics.RecordScore(s.cfg.Source, prom.StatusOK, b.Score, time.Since(start))
	return &ScoreResult{SMILES: smiles, Score: b.Score, ModelVersion: version, Breakdown: b}, nil
}

func scoreStatus(err error) string {
	switch {
	case errors.IsValidation(err):
		return prom.StatusInvalid
	case errors.IsCode(err, errors.CodeModelNotLoaded):
		return prom.StatusNoModel
	default:
		return prom.StatusError
	}
}

func (s *serviceImpl) ScoreBatch(ctx context.Context, smiles []string) (*BatchResult, error) {
	if len(smiles) == 0 {
		return nil, errors.InvalidParam("at least one smiles is required")
	}
	if s.cfg.BatchLimit > 0 && len(smiles) > s.cfg.BatchLimit {
		return nil, errors.InvalidParam("batch too large").
			WithDetail(fmt.Sprintf("size=%d limit=%d", len(smiles), s.cfg.BatchLimit))
	}
	am := s.active.Load()
	if am == nil {
		return nil, errors.New(errors.CodeModelNotLoaded, "no contribution model is loaded")
	}

	items := make([]BatchItem, len(smiles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i := range smiles {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry := strings.TrimSpace(smiles[i])
			items[i] = BatchItem{Index: i, SMILES: entry}
			if entry == "" {
				items[i].Error = &ItemError{Code: errors.CodeInvalidParam.String(), Message: "smiles is required"}
				return nil
			}
			res, err := s.scoreWith(gctx, am, entry, time.Now())
			if err != nil {
				items[i].Error = toItemError(err)
				return nil
			}
			items[i].Result = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &BatchResult{ModelVersion: am.snapshot.Version(), Items: items}
	for _, it := range items {
		if it.Error != nil {
			out.Failed++
		} else {
			out.Succeeded++
		}
	}
	return out, nil
}

func toItemError(err error) *ItemError {
	ie := &ItemError{Code: errors.GetCode(err).String(), Message: err.Error()}
	var ae *errors.AppError
	if errors.As(err, &ae) {
		ie.Message = ae.Message
		if ae.Detail != "" {
			ie.Message += ": " + ae.Detail
		}
	}
	return ie
}

func (s *serviceImpl) Fragments(ctx context.Context, smiles string) (*FragmentsResult, error) {
	smiles = strings.TrimSpace(smiles)
	if smiles == "" {
		return nil, errors.InvalidParam("smiles is required")
	}
	radius := s.cfg.Radius
	var model *domain.ContributionModel
	if am := s.active.Load(); am != nil {
		radius = am.snapshot.Radius
		model = am.snapshot.Model
	}

	mol, err := s.parse(smiles)
	if err != nil {
		return nil, err
	}
	frags, err := domain.ExtractFragmentsWithRadius(mol, radius)
	if err != nil {
		return nil, err
	}

	out := &FragmentsResult{SMILES: smiles, Radius: radius, Total: frags.Total()}
	for _, id := range frags.IDs() {
		fc := FragmentCount{ID: id, Count: frags[id]}
		if model != nil {
			fc.Contribution, fc.Known = model.Lookup(id)
		}
		out.Fragments = append(out.Fragments, fc)
	}
	return out, nil
}

func (s *serviceImpl) cacheGet(ctx context.Context, version, smiles string) *domain.Breakdown {
	if s.cache == nil || s.cfg.CacheTTL <= 0 {
		return nil
	}
	b, ok, err := s.cache.Get(ctx, version, smiles)
	if err != nil {
		s.metrics.RecordCacheLookup(prom.CacheError)
		s.logger.Warn("score cache read failed", logging.String("smiles", smiles), logging.Err(err))
		return nil
	}
	if !ok {
		s.metrics.RecordCacheLookup(prom.CacheMiss)
		return nil
	}
	s.metrics.RecordCacheLookup(prom.CacheHit)
	return b
}

func (s *serviceImpl) cacheSet(ctx context.Context, version, smiles string, b *domain.Breakdown) {
	if s.cache == nil || s.cfg.CacheTTL <= 0 {
		return
	}
	if err := s.cache.Set(ctx, version, smiles, b, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("score cache write failed", logging.String("smiles", smiles), logging.Err(err))
	}
}

//Personal.AI order the ending
