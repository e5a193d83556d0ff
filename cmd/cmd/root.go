package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rescuefs/rescuer/internal/config"
	"github.com/rescuefs/rescuer/internal/env"
)

func Execute() error {
	rootCmd := &cobra.Command{
		Use:   env.AppName,
		Short: env.AppName + " - media recovery for raw disks and images",
	}

	rootCmd.PersistentFlags().String("config", "", "path to a config file")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(
		DefineScanCommand(),
		DefineSweepCommand(),
		DefineDevicesCommand(),
		DefineFormatsCommand(),
		DefineMountCommand(),
	)
	return rootCmd.Execute()
}

// loadConfig resolves the layered configuration for a command, with the
// persistent --log-level flag taking precedence over file and environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, nil
}

// newLogger builds the command logger. Logs go to stderr so the progress
// bar owns stdout.
func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}
