package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_ModuleAndDetails(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core))

	log.Info("LIFECYCLE", "transition applied", map[string]interface{}{
		"conversation_id": "abc",
		"outcome":         "applied",
	})
	log.Debug("HUB", "no details", nil)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "transition applied", entries[0].Message)
	assert.Equal(t, "LIFECYCLE", first["module"])
	details, ok := first["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "applied", details["outcome"])

	second := entries[1].ContextMap()
	assert.Equal(t, "HUB", second["module"])
	assert.Empty(t, second["details"])
}

func TestZapLogger_ErrorCarriesErrorRef(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := FromZap(zap.New(core))

	log.Warn("LIFECYCLE", "publish failed", map[string]interface{}{"topic": "conversation.lifecycle"})
	log.Error("LIFECYCLE", "soft delete failed", map[string]interface{}{"error": errors.New("boom").Error()})

	require.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	errs := logs.FilterLevelExact(zapcore.ErrorLevel).AllUntimed()
	require.Len(t, errs, 1)
	assert.Equal(t, "boom", errs[0].ContextMap()["error_ref"])
}

func TestIsolatedLogger_WritesToFileOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hub.log")
	log := NewIsolatedLogger(path)

	log.Debug("HUB", "dropped below info", nil)
	log.Info("HUB", "client registered", map[string]interface{}{"user_id": "u1"})
	_ = log.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, `"message":"client registered"`)
	assert.Contains(t, content, `"module":"HUB"`)
	assert.False(t, strings.Contains(content, "dropped below info"))
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	assert.NotPanics(t, func() {
		log.Error("ANY", "ignored", map[string]interface{}{"error": "x"})
		_ = log.Sync()
	})
}
