package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/polychat-dev/polychat-core/host"
)

var (
	cfgFile    string
	logLevel   string
	pluginDir  string
	workingDir bool
)

var rootCmd = &cobra.Command{
	Use:   "polychat-host",
	Short: "Discovers and supervises polychat plugin processes",
	Long: `polychat-host is the plugin host runtime for PolyChat. It discovers
plugin executables in a configured directory, spawns and attaches one
IPC endpoint per plugin, and forwards their instructions onto a shared
queue for a consuming application to process.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHost()
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.polychat/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&pluginDir, "plugin-dir", "", "base directory whose plugins/ subdirectory is loaded (default $HOME/.polychat)")
	rootCmd.Flags().BoolVar(&workingDir, "working-dir", false, "use <cwd>/polychat instead of the home directory")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			slog.Error("failed to read specified config file", "file", cfgFile, "error", err)
			os.Exit(1)
		}
		slog.Debug("using config file", "file", viper.ConfigFileUsed())
		return
	}

	home, err := os.UserHomeDir()
	if err != nil {
		slog.Error("failed to find home directory", "error", err)
		os.Exit(1)
	}

	viper.AddConfigPath(home + "/.polychat")
	viper.SetConfigType("yaml")
	viper.SetConfigName("config")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "file", viper.ConfigFileUsed())
	}
}

func setupLogging() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(logLevel),
	}))
	slog.SetDefault(logger)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runHost() error {
	logger := slog.Default()

	var h *host.Host
	var err error
	switch {
	case pluginDir != "":
		h, err = host.NewFromDir(pluginDir, logger)
	case workingDir:
		h, err = host.NewInWorkingDir(logger)
	default:
		h, err = host.NewInHome(logger)
	}
	if err != nil {
		return err
	}
	defer h.Close()

	obs := &loggingObserver{logger: logger}
	return h.Run(obs)
}
