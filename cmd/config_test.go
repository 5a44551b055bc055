package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	v.SetDefault("baud", 115200)
	v.SetDefault("capacity", 500)
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "text")
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Port)
	assert.Equal(t, 115200, cfg.Baud)
	assert.Equal(t, 500, cfg.Capacity)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfigValues(t *testing.T) {
	cfg, err := loadConfig(newViper(map[string]any{
		"port":         "/dev/ttyUSB0",
		"baud":         9600,
		"capacity":     100,
		"metrics-addr": ":9100",
		"log-format":   "JSON",
	}))
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB0", cfg.Port)
	assert.Equal(t, 9600, cfg.Baud)
	assert.Equal(t, 100, cfg.Capacity)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{"unsupported baud", map[string]any{"baud": 12345}},
		{"zero capacity", map[string]any{"capacity": 0}},
		{"negative capacity", map[string]any{"capacity": -5}},
		{"bad log level", map[string]any{"log-level": "loud"}},
		{"bad log format", map[string]any{"log-format": "xml"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := loadConfig(newViper(test.values))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("PWM_METER_BAUD", "57600")

	v := newViper(nil)
	v.SetEnvPrefix("PWM_METER")
	v.AutomaticEnv()

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 57600, cfg.Baud)
}

func TestSetupLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meter.log")

	log, closer, err := setupLogger(LogConfig{Level: "debug", Format: "json", File: path}, nil)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log.Info("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestSetupLoggerFallback(t *testing.T) {
	log, closer, err := setupLogger(LogConfig{Level: "nonsense"}, os.Stderr)
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
	assert.Equal(t, os.Stderr, log.Out)
}

func TestSetupLoggerBadFile(t *testing.T) {
	_, _, err := setupLogger(LogConfig{File: filepath.Join(t.TempDir(), "missing", "meter.log")}, nil)
	assert.Error(t, err)
}
