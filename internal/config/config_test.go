package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	require.Equal(t, defaultMaxStackSize, cfg.MaxStackSize)
	require.True(t, cfg.OptimizerDupRunRewriteEnabled)
	require.Equal(t, defaultLogLevel, cfg.LogLevel)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv(envMaxStackSize, "64")
	t.Setenv(envDupRunRewriteEnabled, "false")
	t.Setenv(envLogLevel, "debug")

	cfg := Load()
	require.Equal(t, 64, cfg.MaxStackSize)
	require.False(t, cfg.OptimizerDupRunRewriteEnabled)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestApplyLogLevelFallsBackOnGarbage(t *testing.T) {
	logrus.SetLevel(logrus.DebugLevel)
	ApplyLogLevel(Config{LogLevel: "not-a-level"})
	require.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}
