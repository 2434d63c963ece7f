package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "hotelreport.log")
	require.NoError(t, Init("warn", path))
	t.Cleanup(func() { Log.SetOutput(os.Stderr) })

	assert.Equal(t, logrus.WarnLevel, Log.GetLevel())

	Log.Info("hidden")
	Log.Warn("container missing")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "container missing"))
	assert.False(t, strings.Contains(string(data), "hidden"))
}

func TestInitUnknownLevelFallsBackToInfo(t *testing.T) {
	require.NoError(t, Init("chatty", ""))
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}
