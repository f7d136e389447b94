package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/KirkDiggler/charcraft/internal/logging"
)

func TestNew(t *testing.T) {
	logger, err := logging.New(logging.Config{Level: "debug"})

	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_DefaultsToInfo(t *testing.T) {
	logger, err := logging.New(logging.Config{Development: true})

	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestNew_BadLevel(t *testing.T) {
	_, err := logging.New(logging.Config{Level: "loud"})

	assert.Error(t, err)
}

func TestComponent_NilLogger(t *testing.T) {
	assert.NotNil(t, logging.Component(nil, "quota"))
}
