package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/SAScore/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SAScore/internal/testutil"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("model built", logging.Int("fragments", 12))

	messages := logger.GetMessages()
	assert.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "model built", messages[0].Message)

	v, ok := logger.Field("model built", "fragments")
	assert.True(t, ok)
	assert.Equal(t, 12, v)
	_, ok = logger.Field("model built", "missing")
	assert.False(t, ok)

	logger.Clear()
	assert.Len(t, logger.GetMessages(), 0)

	logger.Warn("skipped")
	logger.Named("x").Warn("skipped again")
	logger.Error("test error")
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test error"))
	assert.Equal(t, 2, logger.CountLevel("warn"))
}

//Personal.AI order the ending
