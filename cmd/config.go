package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/allbin/pwm-meter/internal/serial"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the resolved configuration of a run: flags, then environment,
// then the config file
type Config struct {
	Port        string
	Baud        int
	Capacity    int
	MetricsAddr string
	Log         LogConfig
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

// loadConfig reads and validates the settings held by v
func loadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:        v.GetString("port"),
		Baud:        v.GetInt("baud"),
		Capacity:    v.GetInt("capacity"),
		MetricsAddr: v.GetString("metrics-addr"),
		Log: LogConfig{
			Level:  v.GetString("log-level"),
			Format: strings.ToLower(v.GetString("log-format")),
			File:   v.GetString("log-file"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every setting and reports the first one that is wrong
func (c Config) Validate() error {
	if !serial.IsSupportedBaudRate(c.Baud) {
		return fmt.Errorf("%w: unsupported baud rate %d", ErrInvalidConfig, c.Baud)
	}
	if c.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be at least 1, got %d", ErrInvalidConfig, c.Capacity)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// setupLogger builds the logger for a run. Logs go to the configured file
// when one is set and to fallback otherwise. The returned closer releases
// the file.
func setupLogger(cfg LogConfig, fallback io.Writer) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
		})
	}

	if cfg.File == "" {
		log.SetOutput(fallback)
		return log, io.NopCloser(nil), nil
	}

	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(file)
	return log, file, nil
}
