package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	domain "github.com/turtacn/SAScore/internal/domain/sascore"
	"github.com/turtacn/SAScore/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/SAScore/pkg/errors"
)

type ScoreCacheTestSuite struct {
	suite.Suite
	mock  redismock.ClientMock
	cache *ScoreCache
}

func (s *ScoreCacheTestSuite) SetupTest() {
	db, mock := redismock.NewClientMock()
	s.mock = mock
	client := newClientWithRDB(db, &RedisConfig{}, logging.NewNopLogger())
	s.cache = NewScoreCache(client, logging.NewNopLogger(), WithPrefix("test:"), WithJitter(0))
}

func (s *ScoreCacheTestSuite) TearDownTest() {
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func (s *ScoreCacheTestSuite) TestGet_Hit() {
	b := &domain.Breakdown{Score: 2.5, FragmentCount: 4}
	data, _ := json.Marshal(cachedScore{SMILES: "CCO", Breakdown: b})
	s.mock.ExpectGet(s.cache.key("v1", "CCO")).SetVal(string(data))

	got, ok, err := s.cache.Get(context.Background(), "v1", "CCO")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(b, got)
}

func (s *ScoreCacheTestSuite) TestGet_Miss() {
	s.mock.ExpectGet(s.cache.key("v1", "CCO")).RedisNil()

	got, ok, err := s.cache.Get(context.Background(), "v1", "CCO")
	s.NoError(err)
	s.False(ok)
	s.Nil(got)
}

func (s *ScoreCacheTestSuite) TestGet_HashCollisionIsMiss() {
	data, _ := json.Marshal(cachedScore{SMILES: "CCN", Breakdown: &domain.Breakdown{Score: 3}})
	s.mock.ExpectGet(s.cache.key("v1", "CCO")).SetVal(string(data))

	_, ok, err := s.cache.Get(context.Background(), "v1", "CCO")
	s.NoError(err)
	s.False(ok)
}

func (s *ScoreCacheTestSuite) TestGet_Error() {
	s.mock.ExpectGet(s.cache.key("v1", "CCO")).SetErr(fmt.Errorf("connection refused"))

	_, _, err := s.cache.Get(context.Background(), "v1", "CCO")
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
}

func (s *ScoreCacheTestSuite) TestGet_CorruptValue() {
	s.mock.ExpectGet(s.cache.key("v1", "CCO")).SetVal("{not json")

	_, _, err := s.cache.Get(context.Background(), "v1", "CCO")
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeSerialization))
}

func (s *ScoreCacheTestSuite) TestSet() {
	b := &domain.Breakdown{Score: 4.5}
	data, _ := json.Marshal(cachedScore{SMILES: "CCO", Breakdown: b})
	s.mock.ExpectSet(s.cache.key("v1", "CCO"), data, time.Minute).SetVal("OK")

	s.NoError(s.cache.Set(context.Background(), "v1", "CCO", b, time.Minute))
}

func (s *ScoreCacheTestSuite) TestSet_Error() {
	b := &domain.Breakdown{Score: 4.5}
	data, _ := json.Marshal(cachedScore{SMILES: "CCO", Breakdown: b})
	s.mock.ExpectSet(s.cache.key("v1", "CCO"), data, time.Minute).SetErr(fmt.Errorf("oom"))

	err := s.cache.Set(context.Background(), "v1", "CCO", b, time.Minute)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
}

func (s *ScoreCacheTestSuite) TestInvalidateModel() {
	s.mock.ExpectScan(0, "test:score:v1:*", 100).SetVal([]string{"test:score:v1:a", "test:score:v1:b"}, 7)
	s.mock.ExpectDel("test:score:v1:a", "test:score:v1:b").SetVal(2)
	s.mock.ExpectScan(7, "test:score:v1:*", 100).SetVal([]string{"test:score:v1:c"}, 0)
	s.mock.ExpectDel("test:score:v1:c").SetVal(1)

	n, err := s.cache.InvalidateModel(context.Background(), "v1")
	s.NoError(err)
	s.Equal(int64(3), n)
}

func (s *ScoreCacheTestSuite) TestInvalidateModel_ScanError() {
	s.mock.ExpectScan(0, "test:score:v1:*", 100).SetErr(fmt.Errorf("timeout"))

	_, err := s.cache.InvalidateModel(context.Background(), "v1")
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
}

func TestScoreCacheTestSuite(t *testing.T) {
	suite.Run(t, new(ScoreCacheTestSuite))
}

func TestScoreCache_KeysSeparateModelVersions(t *testing.T) {
	c := NewScoreCache(nil, nil)
	assert.NotEqual(t, c.key("v1", "CCO"), c.key("v2", "CCO"))
	assert.NotEqual(t, c.key("v1", "CCO"), c.key("v1", "CCN"))
	assert.Contains(t, c.key("v1", "CCO"), "sascore:score:v1:")
}

func TestScoreCache_JitterStaysInRange(t *testing.T) {
	c := NewScoreCache(nil, nil, WithJitter(0.1))
	for i := 0; i < 100; i++ {
		ttl := c.jitterTTL(time.Minute)
		assert.GreaterOrEqual(t, ttl, 54*time.Second)
		assert.LessOrEqual(t, ttl, 66*time.Second)
	}
	assert.Equal(t, time.Duration(0), c.jitterTTL(0))
}

func TestScoreCache_Miniredis(t *testing.T) {
	mr, client := newMiniredisClient(t)
	cache := NewScoreCache(client, nil)
	ctx := context.Background()

	b := &domain.Breakdown{Score: 3.3, DistinctFragments: 5}
	require.NoError(t, cache.Set(ctx, "v1", "c1ccccc1", b, time.Hour))
	require.NoError(t, cache.Set(ctx, "v2", "c1ccccc1", b, time.Hour))

	got, ok, err := cache.Get(ctx, "v1", "c1ccccc1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, b, got)

	n, err := cache.InvalidateModel(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, ok, err = cache.Get(ctx, "v1", "c1ccccc1")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, _ = cache.Get(ctx, "v2", "c1ccccc1")
	assert.True(t, ok)

	mr.FastForward(2 * time.Hour)
	_, ok, _ = cache.Get(ctx, "v2", "c1ccccc1")
	assert.False(t, ok, "entries expire")
}

//Personal.AI order the ending
