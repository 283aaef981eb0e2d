package sascore

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	domain "github.com/turtacn/SAScore/internal/domain/sascore"
	"github.com/turtacn/SAScore/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/SAScore/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SAScore/pkg/errors"
)

// corpusCounts is the aggregate of one corpus pass.
type corpusCounts struct {
	counts    domain.FragmentCountTable
	molecules int
	skipped   []SkippedEntry
}

// partial is the result of one worker's slice of the corpus.
type partial struct {
	counts    domain.FragmentCountTable
	molecules int
	skipped   []SkippedEntry
}

// aggregate parses and fingerprints corpus on cfg.Workers goroutines.  Each
// worker sums its own contiguous slice; the slices are merged in order once
// all workers finish, so the result does not depend on scheduling.
func (s *serviceImpl) aggregate(ctx context.Context, corpus []string) (*corpusCounts, error) {
	workers := s.cfg.Workers
	if workers > len(corpus) {
		workers = len(corpus)
	}
	if workers == 0 {
		return &corpusCounts{counts: domain.FragmentCountTable{}}, nil
	}

	parts := make([]partial, workers)
	chunk := (len(corpus) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(corpus) {
			hi = len(corpus)
		}
		w := w
		g.Go(func() error {
			p := partial{counts: domain.FragmentCountTable{}}
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				mol, err := s.parse(corpus[i])
				if err != nil {
					if s.cfg.Strict {
						return errors.Wrap(err, errors.CodeUnknown, "corpus entry rejected").
							WithDetail(fmt.Sprintf("index=%d smiles=%q", i, corpus[i]))
					}
					p.skipped = append(p.skipped, SkippedEntry{Index: i, SMILES: corpus[i], Reason: err.Error()})
					continue
				}
				frags, err := domain.ExtractFragmentsWithRadius(mol, s.cfg.Radius)
				if err != nil {
					return err
				}
				p.counts.Merge(frags)
				p.molecules++
			}
			parts[w] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &corpusCounts{counts: domain.FragmentCountTable{}}
	for _, p := range parts {
		out.counts.Merge(p.counts)
		out.molecules += p.molecules
		out.skipped = append(out.skipped, p.skipped...)
	}
	for _, sk := range out.skipped {
		s.logger.Warn("skipping corpus entry",
			logging.Int("index", sk.Index),
			logging.String("smiles", sk.SMILES),
			logging.String("reason", sk.Reason))
	}
	s.metrics.RecordCorpusSkipped(len(out.skipped))
	return out, nil
}

func (s *serviceImpl) BuildModel(ctx context.Context, input *BuildInput) (*BuildResult, error) {
	if input == nil {
		return nil, errors.InvalidParam("build input is required")
	}
	name := input.Name
	if name == "" {
		name = s.cfg.ModelName
	}
	unlock, err := s.lockBuild(ctx, name)
	if err != nil {
		return nil, err
	}
	defer unlock()
	start := time.Now()

	agg, err := s.aggregate(ctx, input.Corpus)
	if err != nil {
		s.metrics.RecordModelBuild(prom.BuildFailed, time.Since(start))
		s.logger.Error("model build failed", logging.String("model", name), logging.Err(err))
		return nil, err
	}
	if agg.molecules == 0 {
		s.metrics.RecordModelBuild(prom.BuildFailed, time.Since(start))
		return nil, errors.New(errors.CodeEmptyCorpus, "corpus contains no usable molecules").
			WithDetail(fmt.Sprintf("entries=%d skipped=%d", len(input.Corpus), len(agg.skipped)))
	}

	model := domain.BuildContributionModel(agg.counts)
	return s.finishBuild(ctx, name, model, agg.molecules, agg.skipped, start)
}

func (s *serviceImpl) IngestCorpus(ctx context.Context, corpus []string) (*IngestResult, error) {
	if s.counts == nil {
		return nil, errors.Unavailable("fragment count store is not configured")
	}
	agg, err := s.aggregate(ctx, corpus)
	if err != nil {
		return nil, err
	}
	if agg.molecules == 0 {
		return nil, errors.New(errors.CodeEmptyCorpus, "corpus contains no usable molecules")
	}
	if err := s.counts.AddCounts(ctx, s.cfg.Radius, agg.counts, int64(agg.molecules)); err != nil {
		s.logger.Error("failed to store fragment counts", logging.Err(err))
		return nil, err
	}
	s.logger.Info("corpus ingested",
		logging.Int("molecules", agg.molecules),
		logging.Int("skipped", len(agg.skipped)),
		logging.Int("fragments", len(agg.counts)))
	return &IngestResult{
		Molecules: agg.molecules,
		Fragments: len(agg.counts),
		Total:     agg.counts.Total(),
		Skipped:   agg.skipped,
	}, nil
}

func (s *serviceImpl) RebuildFromStore(ctx context.Context, name string) (*BuildResult, error) {
	if s.counts == nil {
		return nil, errors.Unavailable("fragment count store is not configured")
	}
	if name == "" {
		name = s.cfg.ModelName
	}
	unlock, err := s.lockBuild(ctx, name)
	if err != nil {
		return nil, err
	}
	defer unlock()
	start := time.Now()
	counts, err := s.counts.LoadCounts(ctx, s.cfg.Radius)
	if err != nil {
		s.metrics.RecordModelBuild(prom.BuildFailed, time.Since(start))
		return nil, err
	}
	if counts.Total() == 0 {
		s.metrics.RecordModelBuild(prom.BuildFailed, time.Since(start))
		return nil, errors.New(errors.CodeEmptyCorpus, "fragment count store is empty").
			WithDetail(fmt.Sprintf("radius=%d", s.cfg.Radius))
	}
	return s.finishBuild(ctx, name, domain.BuildContributionModel(counts), 0, nil, start)
}

// finishBuild persists, activates and announces a built model.
func (s *serviceImpl) finishBuild(ctx context.Context, name string, model *domain.ContributionModel,
	molecules int, skipped []SkippedEntry, start time.Time) (*BuildResult, error) {
	if model.Degenerate() {
		s.metrics.RecordModelBuild(prom.BuildFailed, time.Since(start))
		s.logger.Error("refusing degenerate model",
			logging.String("model", name), logging.Int64("total", model.Total()))
		return nil, errors.New(errors.CodeModelDegenerate, "model has an empty frequent set").
			WithDetail("model=" + name)
	}

	snap := domain.NewSnapshot(name, s.cfg.Radius, model)
	if s.store != nil {
		if err := s.store.Save(ctx, snap); err != nil {
			s.metrics.RecordModelBuild(prom.BuildFailed, time.Since(start))
			s.logger.Error("failed to save model", logging.String("model", name), logging.Err(err))
			return nil, err
		}
	}
	s.activate(ctx, snap)

	elapsed := time.Since(start)
	s.metrics.RecordModelBuild(prom.BuildSucceeded, elapsed)
	s.logger.Info("contribution model built",
		logging.String("model", name),
		logging.Int("molecules", molecules),
		logging.Int("skipped", len(skipped)),
		logging.Int64("total", model.Total()),
		logging.Duration("elapsed", elapsed))

	s.publish(ctx, &ModelEvent{
		Type:       EventModelBuilt,
		Model:      snap.Info(),
		Molecules:  molecules,
		Skipped:    len(skipped),
		OccurredAt: time.Now().UTC(),
	})

	return &BuildResult{
		Snapshot:  snap,
		Model:     snap.Info(),
		Molecules: molecules,
		Skipped:   skipped,
		Duration:  elapsed,
	}, nil
}

//Personal.AI order the ending
