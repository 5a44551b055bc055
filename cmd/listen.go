/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/allbin/pwm-meter"
	"github.com/allbin/pwm-meter/internal/metrics"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// listenCmd represents the listen command
var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Print readings from a serial port without the chart",
	Long: `Open the serial port given by --port and print every accepted reading,
one per line, until interrupted.

Rejected lines are skipped; run with --log-level debug to see why.

Example usage:
  pwm-meter listen --port /dev/ttyUSB0
  pwm-meter listen --port /dev/ttyACM0 --baud 9600 --metrics-addr :9100`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		if cfg.Port == "" {
			return fmt.Errorf("--port is required: %w", meter.ErrNoPortSelected)
		}
		log, closer, err := setupLogger(cfg.Log, os.Stderr)
		if err != nil {
			return err
		}
		defer closer.Close()
		cmd.SilenceUsage = true

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var mt *metrics.Metrics
		if cfg.MetricsAddr != "" {
			mt = metrics.New()
			go func() {
				if err := mt.Serve(ctx, cfg.MetricsAddr, log); err != nil {
					log.WithError(err).Error("metrics server stopped")
				}
			}()
		}

		session := meter.NewSession(
			meter.WithLogger(log.WithField("component", "session")),
			meter.WithMetrics(mt),
		)
		defer session.Close()

		monitor, err := meter.NewMonitor(
			meter.WithCapacity(cfg.Capacity),
			meter.WithMonitorLogger(log.WithField("component", "monitor")),
			meter.WithMonitorMetrics(mt),
		)
		if err != nil {
			return err
		}

		return listen(ctx, cmd.OutOrStdout(), log, session, monitor, cfg.Port, cfg.Baud)
	},
}

func init() {
	rootCmd.AddCommand(listenCmd)
}

// listen connects session and prints readings until ctx is done
func listen(ctx context.Context, w io.Writer, log logrus.FieldLogger, session *meter.Session, monitor *meter.Monitor, port string, baud int) error {
	if err := session.Connect(ctx, port, baud); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"port": port, "baud": baud}).Info("listening")

	lines := session.Lines()
	for {
		select {
		case <-ctx.Done():
			stats := monitor.Stats()
			log.WithFields(logrus.Fields{
				"received": stats.Received,
				"accepted": stats.Accepted,
				"rejected": stats.Rejected,
			}).Info("stopped")
			if err := session.Disconnect(); err != nil && !errors.Is(err, meter.ErrNotOpen) {
				log.WithError(err).Warn("error closing port")
			}
			return nil
		case line := <-lines:
			reading, err := monitor.HandleLine(line)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "%s %s\n", line.Received.Format("15:04:05.000"), reading)
		}
	}
}
