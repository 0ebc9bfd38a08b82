package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoggerFallsBackToGlobal(t *testing.T) {
	entry := G(context.Background())
	require.NotNil(t, entry)
	assert.Equal(t, L.Logger, entry.Logger)
}

func TestWithLoggerRoundTrip(t *testing.T) {
	custom := logrus.NewEntry(logrus.New()).WithField("component", "corpus")
	ctx := WithLogger(context.Background(), custom)

	entry := G(ctx)
	assert.Equal(t, custom.Logger, entry.Logger)
	assert.Equal(t, "corpus", entry.Data["component"])
}

func TestInit(t *testing.T) {
	t.Run("valid level", func(t *testing.T) {
		require.NoError(t, Init("debug", "json"))
		assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())
		require.NoError(t, Init("info", "text"))
	})

	t.Run("invalid level", func(t *testing.T) {
		assert.Error(t, Init("chatty", "text"))
	})
}

func TestJSONFormatFieldNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init("info", "json"))
	SetOutput(&buf)
	defer func() {
		require.NoError(t, Init("info", "text"))
	}()

	L.Info("hello")
	out := buf.String()
	assert.Contains(t, out, `"message":"hello"`)
	assert.Contains(t, out, `"timestamp"`)
}
