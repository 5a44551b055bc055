/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pwm-meter",
	Short: "Plot PWM, RPM and voltage readings from a serial port",
	Long: `pwm-meter reads comma-separated sensor readings from a serial port and
plots them as a live chart in the terminal.

Each line sent by the device must look like:
  <pwm>,<rpm>,<volt>
for example "128,3000,12.05". Lines starting with "PWM" are treated as
headers and ignored, as are lines that do not parse.

Example usage:
  pwm-meter
  pwm-meter --port /dev/ttyUSB0 --baud 9600
  pwm-meter --metrics-addr :9100 --log-file meter.log`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true
		return runMeter(cmd.Context(), cfg)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pwm-meter.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file (logs are discarded while the chart is shown otherwise)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text, json")

	rootCmd.PersistentFlags().StringP("port", "p", "", "Serial port to open")
	rootCmd.PersistentFlags().IntP("baud", "b", 115200, "Baud rate")
	rootCmd.PersistentFlags().IntP("capacity", "n", 500, "Points kept per chart series")
	rootCmd.PersistentFlags().String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9100")

	// Config file and PWM_METER_* environment values back every flag
	_ = viper.BindPFlags(rootCmd.PersistentFlags())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".pwm-meter" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".pwm-meter")
	}

	viper.SetEnvPrefix("PWM_METER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
