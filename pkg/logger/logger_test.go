package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")

	log, err := New(path, "info")
	require.NoError(t, err)

	log.Info("booking %s confirmed", "2024-01-02T10:00:00")
	log.Debug("hidden %d", 1)
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "booking 2024-01-02T10:00:00 confirmed")
	assert.NotContains(t, string(data), "hidden")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("", "loud")
	assert.Error(t, err)
}

func TestNew_LevelIsCaseInsensitive(t *testing.T) {
	log, err := New(filepath.Join(t.TempDir(), "a.log"), " WARN ")
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestNewNop(t *testing.T) {
	log := NewNop().With("session", "abc")
	log.Info("ignored")
	log.Warn("ignored")
	log.Error("ignored")
	assert.NoError(t, log.Close())
}
