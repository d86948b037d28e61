package main

import (
	"fmt"
	"log/slog"
	"os"

	sci "github.com/32bitkid/scires"
	"github.com/32bitkid/scires/internal/config"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	cfgFile string

	gameDir    string
	maps       []string
	patches    []string
	patterns   []string
	logLevel   string
	logFormat  string
	noProgress bool
)

var rootCmd = &cobra.Command{
	Use:   "sciextract",
	Short: "Sierra SCI resource archive tool",
	Long: `sciextract reads the resource archives of games built on the Sierra
Creative Interpreter, from SCI0 through SCI32.

It lists and extracts resources from RESOURCE.MAP / RESMAP.000 archives and
their volumes, merged with any loose patch files in the game directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if cmd.Flags().Changed("dir") {
			cfg.GameDir = gameDir
		}
		if cmd.Flags().Changed("maps") {
			cfg.Maps = maps
		}
		if cmd.Flags().Changed("patches") {
			cfg.Patches = patches
		}
		if cmd.Flags().Changed("patterns") {
			cfg.Patterns = patterns
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		var level slog.Level
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		var handler slog.Handler
		if cfg.LogFormat == "json" {
			handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})
		} else {
			handler = tint.NewHandler(os.Stderr, &tint.Options{
				Level: level,
			})
		}
		slog.SetDefault(slog.New(handler))

		slog.Debug("Configuration",
			"game_dir", cfg.GameDir,
			"maps", cfg.Maps,
			"patches", cfg.Patches,
			"patterns", cfg.Patterns,
			"workers", cfg.Workers)

		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is sciextract.yaml in pwd)")
	rootCmd.PersistentFlags().StringVarP(&gameDir, "dir", "C", "", "game directory")
	rootCmd.PersistentFlags().StringSliceVar(&maps, "maps", nil, "map file names tried in order")
	rootCmd.PersistentFlags().StringSliceVar(&patches, "patches", nil, "patch directories searched before the game directory")
	rootCmd.PersistentFlags().StringSliceVarP(&patterns, "patterns", "p", nil, "resource name patterns")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress bar")
}

func newLoader() *sci.Loader {
	l := sci.NewLoader(cfg.GameDir)
	l.Maps = cfg.Maps
	l.Patches = cfg.Patches
	l.Patterns = cfg.Patterns
	return l
}

// collect drains the loader. Only archive and pattern failures end up here.
func collect(l *sci.Loader) ([]sci.Resource, error) {
	var all []sci.Resource
	for r, err := range l.Resources() {
		if err != nil {
			return nil, err
		}
		all = append(all, r)
	}
	return all, nil
}
