package worker

import (
	"context"
	stderrors "errors"

	"github.com/turtacn/SAScore/internal/config"
	"github.com/turtacn/SAScore/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SAScore/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SAScore/pkg/errors"
)

// Consumer is the part of *kafka.Consumer the runner drives.
type Consumer interface {
	Subscribe(topic string, handler kafka.MessageHandler) error
	Start(ctx context.Context) error
	Close() error
}

// ConsumerFactory builds one group member.
type ConsumerFactory func(cfg kafka.ConsumerConfig) (Consumer, error)

// KafkaConsumerFactory builds real consumers.
func KafkaConsumerFactory(logger logging.Logger) ConsumerFactory {
	return func(cfg kafka.ConsumerConfig) (Consumer, error) {
		c, err := kafka.NewConsumer(cfg, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// Run starts cfg.Concurrency members of the consumer group, each handing
// request messages to handler, and blocks until ctx is done.  Partitions are
// spread across the members by the group coordinator.
func Run(ctx context.Context, cfg config.KafkaConfig, handler *ScoreHandler, factory ConsumerFactory, logger logging.Logger) error {
	n := cfg.Concurrency
	if n < 1 {
		n = 1
	}
	ccfg := kafka.ConsumerConfigFrom(cfg, cfg.RequestTopic)

	consumers := make([]Consumer, 0, n)
	closeAll := func() error {
		var errs []error
		for _, c := range consumers {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		return stderrors.Join(errs...)
	}

	for i := 0; i < n; i++ {
		c, err := factory(ccfg)
		if err != nil {
			_ = closeAll()
			return errors.Wrap(err, errors.CodeMessagingError, "failed to create consumer")
		}
		consumers = append(consumers, c)
		if err := c.Subscribe(cfg.RequestTopic, handler.Handle); err != nil {
			_ = closeAll()
			return err
		}
		if err := c.Start(ctx); err != nil {
			_ = closeAll()
			return err
		}
	}
	logger.Info("scoring worker running",
		logging.String("topic", cfg.RequestTopic),
		logging.String("group", cfg.GroupID),
		logging.Int("consumers", n))

	<-ctx.Done()
	logger.Info("scoring worker stopping")
	return closeAll()
}

//Personal.AI order the ending
