package main

import (
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	envName    string
	worldPath  string
	logLevel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "marketroyale",
		Short: "Market Royale trading bot",
		Long: `Plays Market Royale against a local game: a trading agent that explores
the map, buys cheap, sells dear and collects its goal products while the
black markets close in.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./config.yaml, ./config/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&envName, "env", "e", "", "Environment overlay, merges config.<env>.yaml")
	rootCmd.PersistentFlags().StringVarP(&worldPath, "world", "w", "worlds/five_markets.yaml", "Path to world file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (trace, debug, info, warn, error)")

	rootCmd.AddCommand(newPlayCmd(), newPathCmd(), newCentreCmd())

	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// setupLogging points the global logger at stderr so tables on stdout stay clean
func setupLogging(level, format string) {
	zerolog.SetGlobalLevel(parseLevel(level))

	if format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
}
