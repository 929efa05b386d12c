// Package config loads this module's tunables from the environment,
// mirroring the teacher's 12-factor style (no config files required).
package config

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds the runtime tunables a Tracker/Optimiser session may read.
type Config struct {
	// MaxStackSize is the main-stack depth ceiling for
	// tracker.NewWithCeiling. A Tracker built with it latches
	// CeilingExceeded once the main stack grows deeper; the alt stack is not
	// counted, and no verb fails because of it.
	MaxStackSize int

	// OptimizerDupRunRewriteEnabled toggles rule R4 (spec.md §4.4) without
	// disabling R1-R3.
	OptimizerDupRunRewriteEnabled bool

	// LogLevel is a logrus level name ("debug", "info", "warn", "error").
	LogLevel string
}

const (
	envMaxStackSize         = "TAPSTACK_MAX_STACK_SIZE"
	envDupRunRewriteEnabled = "TAPSTACK_OPTIMIZER_DUP_RUN_REWRITE"
	envLogLevel             = "TAPSTACK_LOG_LEVEL"

	defaultMaxStackSize = 1000
	defaultLogLevel     = "info"
)

// Load reads Config from the environment via viper.AutomaticEnv, falling
// back to defaults for anything unset.
func Load() Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(envMaxStackSize, defaultMaxStackSize)
	v.SetDefault(envDupRunRewriteEnabled, true)
	v.SetDefault(envLogLevel, defaultLogLevel)

	return Config{
		MaxStackSize:                  v.GetInt(envMaxStackSize),
		OptimizerDupRunRewriteEnabled: v.GetBool(envDupRunRewriteEnabled),
		LogLevel:                      v.GetString(envLogLevel),
	}
}

// ApplyLogLevel parses cfg.LogLevel and sets it on logrus's standard
// logger, falling back to Info on an unrecognised level.
func ApplyLogLevel(cfg Config) {
	lvl, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithError(err).Warnf("config: unrecognised log level %q, defaulting to info", cfg.LogLevel)
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}
