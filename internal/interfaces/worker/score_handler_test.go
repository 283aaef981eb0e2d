package worker

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	app "github.com/turtacn/SAScore/internal/application/sascore"
	"github.com/turtacn/SAScore/internal/application/sascore/sascoretest"
	domain "github.com/turtacn/SAScore/internal/domain/sascore"
	"github.com/turtacn/SAScore/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SAScore/internal/testutil"
	"github.com/turtacn/SAScore/pkg/errors"
)

type fakePublisher struct {
	mu   sync.Mutex
	msgs []*kafka.ProducerMessage
	err  error
}

func (f *fakePublisher) Publish(ctx context.Context, msg *kafka.ProducerMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakePublisher) replies(t *testing.T) []ScoreReply {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ScoreReply, 0, len(f.msgs))
	for _, m := range f.msgs {
		var r ScoreReply
		require.NoError(t, json.Unmarshal(m.Value, &r))
		out = append(out, r)
	}
	return out
}

func requestMessage(t *testing.T, req ScoreRequest) *kafka.Message {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	return &kafka.Message{
		Topic:   "sascore.requests",
		Key:     []byte(req.ID),
		Value:   data,
		Headers: map[string]string{kafka.HeaderTraceID: "trace-7"},
	}
}

func newTestHandler(svc app.Service, pub kafka.Publisher) *ScoreHandler {
	return NewScoreHandler(svc, pub, "sascore.results", nil, testutil.NewMockLogger())
}

func TestHandle_ScoresSingleMolecule(t *testing.T) {
	svc := new(sascoretest.MockService)
	svc.On("Ready").Return(true)
	svc.On("Score", mock.Anything, "CCO").Return(&app.ScoreResult{
		SMILES: "CCO", Score: 1.98, ModelVersion: "v1", Breakdown: &domain.Breakdown{Score: 1.98},
	}, nil)
	pub := &fakePublisher{}

	err := newTestHandler(svc, pub).Handle(context.Background(), requestMessage(t, ScoreRequest{ID: "r1", SMILES: "CCO"}))
	require.NoError(t, err)

	replies := pub.replies(t)
	require.Len(t, replies, 1)
	assert.Equal(t, "r1", replies[0].ID)
	require.NotNil(t, replies[0].Result)
	assert.InDelta(t, 1.98, replies[0].Result.Score, 1e-12)
	assert.Nil(t, replies[0].Error)
	assert.False(t, replies[0].ProcessedAt.IsZero())

	assert.Equal(t, "sascore.results", pub.msgs[0].Topic)
	assert.Equal(t, "r1", string(pub.msgs[0].Key))
	assert.Equal(t, "trace-7", pub.msgs[0].Headers[kafka.HeaderTraceID])
	svc.AssertExpectations(t)
}

func TestHandle_ScoresBatch(t *testing.T) {
	svc := new(sascoretest.MockService)
	svc.On("Ready").Return(true)
	svc.On("ScoreBatch", mock.Anything, []string{"CCO", "C1CC"}).Return(&app.BatchResult{
		ModelVersion: "v1",
		Items: []app.BatchItem{
			{Index: 0, SMILES: "CCO", Result: &app.ScoreResult{Score: 1.98}},
			{Index: 1, SMILES: "C1CC", Error: &app.ItemError{Code: "SAS_004", Message: "unclosed ring"}},
		},
		Succeeded: 1,
		Failed:    1,
	}, nil)
	pub := &fakePublisher{}

	err := newTestHandler(svc, pub).Handle(context.Background(),
		requestMessage(t, ScoreRequest{ID: "b1", Batch: []string{"CCO", "C1CC"}}))
	require.NoError(t, err)

	replies := pub.replies(t)
	require.Len(t, replies, 1)
	require.NotNil(t, replies[0].Batch)
	assert.Equal(t, 1, replies[0].Batch.Failed)
	assert.Len(t, replies[0].Batch.Items, 2)
}

func TestHandle_InvalidMoleculeIsAnswered(t *testing.T) {
	svc := new(sascoretest.MockService)
	svc.On("Ready").Return(true)
	svc.On("Score", mock.Anything, "C1CC").
		Return(nil, errors.New(errors.CodeMoleculeParseFailed, "unclosed ring"))
	pub := &fakePublisher{}

	err := newTestHandler(svc, pub).Handle(context.Background(), requestMessage(t, ScoreRequest{ID: "r2", SMILES: "C1CC"}))
	require.NoError(t, err)

	replies := pub.replies(t)
	require.Len(t, replies, 1)
	require.NotNil(t, replies[0].Error)
	assert.Equal(t, errors.CodeMoleculeParseFailed.String(), replies[0].Error.Code)
	assert.Nil(t, replies[0].Result)
}

func TestHandle_MalformedRequestsArePermanent(t *testing.T) {
	svc := new(sascoretest.MockService)
	h := newTestHandler(svc, &fakePublisher{})

	err := h.Handle(context.Background(), &kafka.Message{Topic: "sascore.requests", Value: []byte("{")})
	assert.True(t, kafka.IsPermanent(err))
	assert.True(t, errors.IsCode(err, errors.CodeSerialization))

	for _, req := range []ScoreRequest{
		{ID: "x"},
		{ID: "x", SMILES: "CCO", Batch: []string{"CCO"}},
		{SMILES: "CCO"},
	} {
		data, _ := json.Marshal(req)
		err := h.Handle(context.Background(), &kafka.Message{Topic: "sascore.requests", Value: data})
		assert.True(t, kafka.IsPermanent(err), "%+v", req)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
	}
	svc.AssertNotCalled(t, "Score", mock.Anything, mock.Anything)
}

func TestHandle_IDFallsBackToKey(t *testing.T) {
	svc := new(sascoretest.MockService)
	svc.On("Ready").Return(true)
	svc.On("Score", mock.Anything, "CCO").Return(&app.ScoreResult{Score: 2}, nil)
	pub := &fakePublisher{}

	msg := &kafka.Message{Topic: "sascore.requests", Key: []byte("from-key"), Value: []byte(`{"smiles":"CCO"}`)}
	require.NoError(t, newTestHandler(svc, pub).Handle(context.Background(), msg))
	assert.Equal(t, "from-key", pub.replies(t)[0].ID)
}

func TestHandle_NoModelIsRetried(t *testing.T) {
	svc := new(sascoretest.MockService)
	svc.On("Ready").Return(false)
	pub := &fakePublisher{}

	err := newTestHandler(svc, pub).Handle(context.Background(), requestMessage(t, ScoreRequest{ID: "r", SMILES: "CCO"}))
	assert.True(t, errors.IsCode(err, errors.CodeModelNotLoaded))
	assert.False(t, kafka.IsPermanent(err))
	assert.Empty(t, pub.msgs)
}

func TestHandle_ServiceFailureIsRetried(t *testing.T) {
	svc := new(sascoretest.MockService)
	svc.On("Ready").Return(true)
	svc.On("Score", mock.Anything, "CCO").Return(nil, errors.New(errors.CodeCacheError, "redis down"))
	pub := &fakePublisher{}

	err := newTestHandler(svc, pub).Handle(context.Background(), requestMessage(t, ScoreRequest{ID: "r", SMILES: "CCO"}))
	assert.True(t, errors.IsCode(err, errors.CodeCacheError))
	assert.False(t, kafka.IsPermanent(err))
	assert.Empty(t, pub.msgs)
}

func TestHandle_PublishFailureIsRetried(t *testing.T) {
	svc := new(sascoretest.MockService)
	svc.On("Ready").Return(true)
	svc.On("Score", mock.Anything, "CCO").Return(&app.ScoreResult{Score: 2}, nil)
	pub := &fakePublisher{err: stderrors.New("broker down")}
	logger := testutil.NewMockLogger()

	h := NewScoreHandler(svc, pub, "sascore.results", nil, logger)
	err := h.Handle(context.Background(), requestMessage(t, ScoreRequest{ID: "r", SMILES: "CCO"}))
	assert.Error(t, err)
	assert.False(t, kafka.IsPermanent(err))
	assert.True(t, logger.HasMessage("warn", "failed to publish score reply"))
}

//Personal.AI order the ending
