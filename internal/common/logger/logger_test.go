// internal/common/logger/logger_test.go
package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapWrapper_FieldsAndComponent(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := ForComponent(NewZapAdapter(zap.New(core)), "agent")

	log.With(map[string]interface{}{"requestId": "r1"}).
		WithError(errors.New("boom")).
		Warn("board service returned errors", map[string]interface{}{"board": "deals"})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "board service returned errors", entries[0].Message)
		assert.Equal(t, "agent", ctx["component"])
		assert.Equal(t, "r1", ctx["requestId"])
		assert.Equal(t, "deals", ctx["board"])
		assert.Equal(t, "boom", ctx["error"])
	}
}

func TestNew_Levels(t *testing.T) {
	l := New("warn", "json", "stderr")
	assert.False(t, l.Core().Enabled(zap.InfoLevel))
	assert.True(t, l.Core().Enabled(zap.WarnLevel))

	l = New("debug", "console", "")
	assert.True(t, l.Core().Enabled(zap.DebugLevel))
}

func TestNewNoOpLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNoOpLogger().Info("nothing", nil)
	})
}
