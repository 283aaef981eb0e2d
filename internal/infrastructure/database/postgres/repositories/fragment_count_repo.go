// Package repositories holds the PostgreSQL stores of the SA scorer.
package repositories

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	domain "github.com/turtacn/SAScore/internal/domain/sascore"
	"github.com/turtacn/SAScore/internal/infrastructure/database/postgres"
	"github.com/turtacn/SAScore/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SAScore/pkg/errors"
)

// defaultUpsertChunk bounds the array size bound to one upsert statement.
const defaultUpsertChunk = 5000

const upsertCountsSQL = `
	INSERT INTO fragment_counts (radius, fragment_id, count)
	SELECT $1, t.id, t.n FROM unnest($2::bigint[], $3::bigint[]) AS t(id, n)
	ON CONFLICT (radius, fragment_id)
	DO UPDATE SET count = fragment_counts.count + EXCLUDED.count, updated_at = now()`

const upsertStatsSQL = `
	INSERT INTO corpus_stats (radius, molecules, ingests)
	VALUES ($1, $2, 1)
	ON CONFLICT (radius)
	DO UPDATE SET molecules = corpus_stats.molecules + EXCLUDED.molecules,
	              ingests = corpus_stats.ingests + 1,
	              updated_at = now()`

const selectCountsSQL = `SELECT fragment_id, count FROM fragment_counts WHERE radius = $1`

const selectStatsSQL = `
	SELECT s.molecules, s.ingests,
	       (SELECT count(*) FROM fragment_counts f WHERE f.radius = s.radius),
	       (SELECT COALESCE(sum(f.count), 0)::bigint FROM fragment_counts f WHERE f.radius = s.radius),
	       s.updated_at
	FROM corpus_stats s WHERE s.radius = $1`

// CorpusStats summarises what has been ingested at one radius.
type CorpusStats struct {
	Radius    int       `json:"radius"`
	Molecules int64     `json:"molecules"`
	Ingests   int64     `json:"ingests"`
	Fragments int64     `json:"fragments"`
	Total     int64     `json:"total"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// FragmentCountRepository accumulates corpus fragment counts per
// fingerprint radius so that a model can be rebuilt from every ingest so far.
type FragmentCountRepository struct {
	db     DB
	logger logging.Logger
	chunk  int
}

// NewFragmentCountRepository returns a repository over db.
func NewFragmentCountRepository(db DB, log logging.Logger) *FragmentCountRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &FragmentCountRepository{db: db, logger: log, chunk: defaultUpsertChunk}
}

// AddCounts adds counts and molecules to the stored totals in one
// transaction.  Rows are written in fragment id order so that concurrent
// ingests lock rows in the same order.
func (r *FragmentCountRepository) AddCounts(ctx context.Context, radius int, counts domain.FragmentCountTable, molecules int64) error {
	ids, values := sortedColumns(counts)
	if len(ids) == 0 && molecules == 0 {
		return nil
	}
	err := postgres.WithTransaction(ctx, r.db, func(tx pgx.Tx, txCtx context.Context) error {
		for lo := 0; lo < len(ids); lo += r.chunk {
			hi := min(lo+r.chunk, len(ids))
			if _, err := tx.Exec(txCtx, upsertCountsSQL, radius, ids[lo:hi], values[lo:hi]); err != nil {
				return errors.Wrap(err, errors.CodeDatabaseError, "failed to upsert fragment counts").
					WithDetail(fmt.Sprintf("radius=%d rows=%d", radius, hi-lo))
			}
		}
		if _, err := tx.Exec(txCtx, upsertStatsSQL, radius, molecules); err != nil {
			return errors.Wrap(err, errors.CodeDatabaseError, "failed to update corpus stats")
		}
		return nil
	})
	if err != nil {
		r.logger.Error("FragmentCountRepository.AddCounts", logging.Int("radius", radius), logging.Err(err))
		return err
	}
	r.logger.Debug("FragmentCountRepository.AddCounts",
		logging.Int("radius", radius),
		logging.Int("fragments", len(ids)),
		logging.Int64("molecules", molecules))
	return nil
}

// LoadCounts returns the stored totals for radius.  An empty store yields
// an empty table.
func (r *FragmentCountRepository) LoadCounts(ctx context.Context, radius int) (domain.FragmentCountTable, error) {
	rows, err := r.db.Query(ctx, selectCountsSQL, radius)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query fragment counts")
	}
	defer rows.Close()

	counts := domain.FragmentCountTable{}
	for rows.Next() {
		var id, n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to scan fragment count")
		}
		if id < 0 || id > math.MaxUint32 {
			return nil, errors.New(errors.CodeDatabaseError, "stored fragment id out of range").
				WithDetail(fmt.Sprintf("fragment_id=%d", id))
		}
		counts.Add(domain.FragmentID(id), n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to read fragment counts")
	}
	return counts, nil
}

// Stats reports the ingest totals for radius.
func (r *FragmentCountRepository) Stats(ctx context.Context, radius int) (*CorpusStats, error) {
	st := &CorpusStats{Radius: radius}
	err := r.db.QueryRow(ctx, selectStatsSQL, radius).
		Scan(&st.Molecules, &st.Ingests, &st.Fragments, &st.Total, &st.UpdatedAt)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return st, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query corpus stats")
	}
	return st, nil
}

// Reset drops every count stored for radius.
func (r *FragmentCountRepository) Reset(ctx context.Context, radius int) error {
	return postgres.WithTransaction(ctx, r.db, func(tx pgx.Tx, txCtx context.Context) error {
		if _, err := tx.Exec(txCtx, `DELETE FROM fragment_counts WHERE radius = $1`, radius); err != nil {
			return errors.Wrap(err, errors.CodeDatabaseError, "failed to delete fragment counts")
		}
		if _, err := tx.Exec(txCtx, `DELETE FROM corpus_stats WHERE radius = $1`, radius); err != nil {
			return errors.Wrap(err, errors.CodeDatabaseError, "failed to delete corpus stats")
		}
		r.logger.Info("fragment counts reset", logging.Int("radius", radius))
		return nil
	})
}

// sortedColumns flattens counts into parallel id and count arrays ordered
// by id, dropping non-positive counts.
func sortedColumns(counts domain.FragmentCountTable) ([]int64, []int64) {
	ids := make([]int64, 0, len(counts))
	for id, n := range counts {
		if n > 0 {
			ids = append(ids, int64(id))
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	values := make([]int64, len(ids))
	for i, id := range ids {
		values[i] = counts[domain.FragmentID(id)]
	}
	return ids, values
}

//Personal.AI order the ending
