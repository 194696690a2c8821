package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToRotatingFile(t *testing.T) {
	dir := t.TempDir()

	logger, err := New(dir, "debug")
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Close() })

	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.Infof("alert %s ingested", "a1")

	data, err := os.ReadFile(filepath.Join(dir, "relief-service.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "alert a1 ingested")
}

func TestNewFallsBackToInfoLevel(t *testing.T) {
	logger, err := New(t.TempDir(), "chatty")
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Close() })

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestDiscardCloseIsNoop(t *testing.T) {
	assert.NoError(t, Discard().Close())
}
