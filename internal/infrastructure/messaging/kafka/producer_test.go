package kafka

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SAScore/internal/config"
	"github.com/turtacn/SAScore/internal/testutil"
	"github.com/turtacn/SAScore/pkg/errors"
)

// mockKafkaWriter records written messages.
type mockKafkaWriter struct {
	mu        sync.Mutex
	written   []kafka.Message
	writeFunc func(ctx context.Context, msgs ...kafka.Message) error
	closeFunc func() error
}

func (m *mockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.writeFunc != nil {
		if err := m.writeFunc(ctx, msgs...); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.written = append(m.written, msgs...)
	m.mu.Unlock()
	return nil
}

func (m *mockKafkaWriter) Close() error {
	if m.closeFunc != nil {
		return m.closeFunc()
	}
	return nil
}

func (m *mockKafkaWriter) Stats() kafka.WriterStats { return kafka.WriterStats{} }

func (m *mockKafkaWriter) messages() []kafka.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]kafka.Message(nil), m.written...)
}

func newTestProducerConfig() ProducerConfig {
	return ProducerConfig{
		Brokers:         []string{"localhost:9092"},
		MaxMessageBytes: 64,
	}
}

func newTestProducerMessage(topic, key, value string) *ProducerMessage {
	return &ProducerMessage{Topic: topic, Key: []byte(key), Value: []byte(value)}
}

func newTestProducer(w WriterInterface) *Producer {
	return newProducerWithWriter(w, newTestProducerConfig(), testutil.NewMockLogger())
}

func TestValidateProducerConfig(t *testing.T) {
	assert.NoError(t, ValidateProducerConfig(newTestProducerConfig()))

	cfg := newTestProducerConfig()
	cfg.Brokers = nil
	assert.True(t, errors.IsCode(ValidateProducerConfig(cfg), errors.CodeValidation))

	cfg = newTestProducerConfig()
	cfg.MaxRetries = -1
	assert.Error(t, ValidateProducerConfig(cfg))
}

func TestProducerConfigFrom(t *testing.T) {
	cfg := ProducerConfigFrom(config.KafkaConfig{Brokers: []string{"a:9092", "b:9092"}})
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Brokers)
	assert.Equal(t, "all", cfg.Acks)
	assert.Equal(t, "zstd", cfg.CompressionCodec)
	assert.NoError(t, ValidateProducerConfig(cfg))
}

func TestNewProducer_RejectsInvalidConfig(t *testing.T) {
	_, err := NewProducer(ProducerConfig{}, testutil.NewMockLogger())
	assert.Error(t, err)
}

func TestPublish_Success(t *testing.T) {
	w := &mockKafkaWriter{}
	p := newTestProducer(w)

	msg := newTestProducerMessage("sascore.results", "req-1", "v")
	msg.Headers = map[string]string{"trace_id": "abc"}
	require.NoError(t, p.Publish(context.Background(), msg))

	written := w.messages()
	require.Len(t, written, 1)
	assert.Equal(t, "sascore.results", written[0].Topic)
	assert.Equal(t, "req-1", string(written[0].Key))
	assert.Equal(t, "v", string(written[0].Value))
	assert.False(t, written[0].Time.IsZero())
	require.Len(t, written[0].Headers, 1)
	assert.Equal(t, "trace_id", written[0].Headers[0].Key)

	m := p.GetMetrics()
	assert.Equal(t, int64(1), m.MessagesSent.Load())
	assert.Equal(t, int64(1), m.BytesSent.Load())
}

func TestPublish_Validation(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{})
	ctx := context.Background()

	assert.True(t, errors.IsCode(p.Publish(ctx, nil), errors.CodeValidation))
	assert.True(t, errors.IsCode(p.Publish(ctx, newTestProducerMessage("", "k", "v")), errors.CodeValidation))
	assert.True(t, errors.IsCode(p.Publish(ctx, newTestProducerMessage("t", "k", "")), errors.CodeValidation))

	big := make([]byte, 65)
	err := p.Publish(ctx, &ProducerMessage{Topic: "t", Value: big})
	assert.True(t, errors.IsCode(err, errors.CodeValidation))
	assert.Contains(t, err.Error(), "too large")
}

func TestPublish_Failure(t *testing.T) {
	w := &mockKafkaWriter{writeFunc: func(context.Context, ...kafka.Message) error {
		return stderrors.New("write failed")
	}}
	logger := testutil.NewMockLogger()
	p := newProducerWithWriter(w, newTestProducerConfig(), logger)

	err := p.Publish(context.Background(), newTestProducerMessage("t", "k", "v"))
	assert.True(t, errors.IsCode(err, errors.CodeMessagingError))
	assert.Equal(t, int64(1), p.GetMetrics().MessagesFailed.Load())
	assert.True(t, logger.HasMessage("error", "publish failed"))
}

func TestPublishBatch_PartialFailure(t *testing.T) {
	w := &mockKafkaWriter{writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
		errs := make(kafka.WriteErrors, len(msgs))
		errs[1] = stderrors.New("fail")
		return errs
	}}
	p := newTestProducer(w)

	res, err := p.PublishBatch(context.Background(), []*ProducerMessage{
		newTestProducerMessage("t", "1", "1"),
		newTestProducerMessage("t", "2", "2"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Index)
	assert.Equal(t, "t", res.Errors[0].Topic)
}

func TestPublishBatch_TotalFailureAndValidation(t *testing.T) {
	w := &mockKafkaWriter{writeFunc: func(context.Context, ...kafka.Message) error {
		return stderrors.New("broker down")
	}}
	p := newTestProducer(w)

	res, err := p.PublishBatch(context.Background(), []*ProducerMessage{newTestProducerMessage("t", "1", "1")})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, -1, res.Errors[0].Index)

	_, err = p.PublishBatch(context.Background(), nil)
	assert.Error(t, err)

	_, err = p.PublishBatch(context.Background(), []*ProducerMessage{
		newTestProducerMessage("t", "1", "1"),
		newTestProducerMessage("", "2", "2"),
	})
	assert.Contains(t, err.Error(), "index=1")
}

func TestClose_Idempotent(t *testing.T) {
	closes := 0
	p := newTestProducer(&mockKafkaWriter{closeFunc: func() error {
		closes++
		return nil
	}})

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, 1, closes)

	assert.Equal(t, ErrProducerClosed, p.Publish(context.Background(), newTestProducerMessage("t", "k", "v")))
	_, err := p.PublishBatch(context.Background(), []*ProducerMessage{newTestProducerMessage("t", "k", "v")})
	assert.Equal(t, ErrProducerClosed, err)
}

//Personal.AI order the ending
