package main

import (
	"fmt"
	"os"

	"github.com/mx-space/portfolio/internal/config"
	"github.com/mx-space/portfolio/internal/pkg/nativelog"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio content API",
	Long: `Serves the blogs, projects, services and team members of a portfolio
site and collects its contact form submissions.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigPath, "Path to YAML config file")
	rootCmd.AddCommand(serveCmd, checkCmd)
}

// setup loads the configuration and builds the process logger.
func setup() (*config.AppConfig, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	opts := nativelog.Options{Level: cfg.Log.Level}
	if cfg.LogToFile() {
		opts.Dir = cfg.LogDir()
	}
	logger, err := nativelog.NewZapLogger(opts)
	if err != nil {
		logger, _ = zap.NewProduction()
		logger.Warn("native log pipeline unavailable, fallback to zap production logger", zap.Error(err))
	}
	return cfg, logger, nil
}
