// Package worker consumes scoring requests from Kafka and publishes the
// results.
package worker

import (
	"context"
	"encoding/json"
	"time"

	app "github.com/turtacn/SAScore/internal/application/sascore"
	"github.com/turtacn/SAScore/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SAScore/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/SAScore/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SAScore/pkg/errors"
)

// ScoreRequest asks for the score of one molecule or a batch.  Exactly one of
// SMILES and Batch is set.
type ScoreRequest struct {
	ID     string   `json:"id"`
	SMILES string   `json:"smiles,omitempty"`
	Batch  []string `json:"batch,omitempty"`
}

// ScoreReply is published on the result topic, keyed by request id.
type ScoreReply struct {
	ID          string           `json:"id"`
	Result      *app.ScoreResult `json:"result,omitempty"`
	Batch       *app.BatchResult `json:"batch,omitempty"`
	Error       *app.ItemError   `json:"error,omitempty"`
	ProcessedAt time.Time        `json:"processed_at"`
}

// ScoreHandler turns request messages into reply messages.
type ScoreHandler struct {
	svc         app.Service
	publisher   kafka.Publisher
	resultTopic string
	metrics     *prom.ScoringMetrics
	logger      logging.Logger
}

// NewScoreHandler creates a handler replying on resultTopic.
func NewScoreHandler(svc app.Service, pub kafka.Publisher, resultTopic string,
	metrics *prom.ScoringMetrics, logger logging.Logger) *ScoreHandler {
	if metrics == nil {
		metrics = prom.NewNoopScoringMetrics()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ScoreHandler{
		svc:         svc,
		publisher:   pub,
		resultTopic: resultTopic,
		metrics:     metrics,
		logger:      logger,
	}
}

// Handle is a kafka.MessageHandler.  Malformed requests are dead-lettered
// without retry.  Per-molecule failures are answered with an error reply.
// A missing model or a failed reply publish is returned for retry.
func (h *ScoreHandler) Handle(ctx context.Context, msg *kafka.Message) error {
	var req ScoreRequest
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		h.metrics.RecordMessage(msg.Topic, prom.StatusInvalid)
		return kafka.Permanent(errors.Wrap(err, errors.CodeSerialization, "malformed score request"))
	}
	if req.ID == "" {
		req.ID = string(msg.Key)
	}
	if req.ID == "" || (req.SMILES == "") == (len(req.Batch) == 0) {
		h.metrics.RecordMessage(msg.Topic, prom.StatusInvalid)
		return kafka.Permanent(errors.InvalidParam("score request needs an id and exactly one of smiles or batch"))
	}

	if !h.svc.Ready() {
		h.metrics.RecordMessage(msg.Topic, prom.StatusNoModel)
		return errors.New(errors.CodeModelNotLoaded, "no contribution model is loaded")
	}

	reply := &ScoreReply{ID: req.ID}
	var scoreErr error
	if len(req.Batch) > 0 {
		reply.Batch, scoreErr = h.svc.ScoreBatch(ctx, req.Batch)
	} else {
		reply.Result, scoreErr = h.svc.Score(ctx, req.SMILES)
	}
	status := prom.StatusOK
	if scoreErr != nil {
		status = statusOf(scoreErr)
		if status != prom.StatusInvalid {
			h.metrics.RecordMessage(msg.Topic, status)
			return scoreErr
		}
		reply.Error = itemError(scoreErr)
	}

	if err := h.reply(ctx, msg, reply); err != nil {
		h.metrics.RecordMessage(msg.Topic, prom.StatusError)
		return err
	}
	h.metrics.RecordMessage(msg.Topic, status)
	return nil
}

func (h *ScoreHandler) reply(ctx context.Context, req *kafka.Message, reply *ScoreReply) error {
	reply.ProcessedAt = time.Now().UTC()
	data, err := json.Marshal(reply)
	if err != nil {
		return kafka.Permanent(errors.Wrap(err, errors.CodeSerialization, "failed to encode score reply"))
	}
	headers := map[string]string{}
	if trace, ok := req.Headers[kafka.HeaderTraceID]; ok {
		headers[kafka.HeaderTraceID] = trace
	}
	out := &kafka.ProducerMessage{
		Topic:   h.resultTopic,
		Key:     []byte(reply.ID),
		Value:   data,
		Headers: headers,
	}
	if err := h.publisher.Publish(ctx, out); err != nil {
		h.logger.Warn("failed to publish score reply", logging.String("id", reply.ID), logging.Err(err))
		return err
	}
	return nil
}

func itemError(err error) *app.ItemError {
	return &app.ItemError{Code: errors.GetCode(err).String(), Message: err.Error()}
}

// statusOf classifies a scoring failure.  Invalid input is answered; the
// others are retried.
func statusOf(err error) string {
	switch {
	case errors.IsCode(err, errors.CodeModelNotLoaded):
		return prom.StatusNoModel
	case errors.IsValidation(err):
		return prom.StatusInvalid
	default:
		return prom.StatusError
	}
}

//Personal.AI order the ending
