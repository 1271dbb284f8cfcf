package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"eventboard/internal/config"
	appLog "eventboard/internal/log"
)

const version = "0.1.0"

var (
	configPath string
	envFile    string
	logLevel   string
	logJSON    bool

	// cfg is loaded before every command. cfgErr keeps a load failure so
	// that fetch can still publish an empty feed.
	cfg    *config.Config
	cfgErr error
)

var rootCmd = &cobra.Command{
	Use:           "eventboard <command>",
	Short:         "Upcoming events board fed by a Notion database",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(envFile); err != nil {
			return fmt.Errorf("load %s: %w", envFile, err)
		}

		cfg, cfgErr = config.Load(configPath)
		setupLogging(cmd)
		if cfgErr != nil {
			appLog.Error("failed to load config", cfgErr, "config_path", configPath)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "eventboard.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides log.level")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(manifestCmd)
	rootCmd.AddCommand(configCmd)
}

func setupLogging(cmd *cobra.Command) {
	level := logLevel
	jsonOut := logJSON
	if cfg != nil {
		if !cmd.Flags().Changed("log-level") {
			level = cfg.Log.Level
		}
		jsonOut = jsonOut || cfg.Log.JSON
	}
	appLog.SetLevel(appLog.ParseLevel(level))
	appLog.SetJSON(jsonOut)
}

// effectiveConfig returns the loaded config, or defaults when loading
// failed.
func effectiveConfig() *config.Config {
	if cfg != nil {
		return cfg
	}
	return config.DefaultConfig()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		appLog.Error("eventboard failed", err)
		os.Exit(1)
	}
}
