package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/applydir/cmd/applydir/opts"
	"github.com/walteh/applydir/pkg/config"
	"github.com/walteh/applydir/pkg/status"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile string
	baseDir    string
	debug      bool
)

// newRootOpts creates a new RootOpts with initialized dependencies
func newRootOpts(ctx context.Context) (*opts.RootOpts, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.Errorf("resolving base directory: %w", err)
	}

	var cfg *config.Config
	if configFile != "" {
		cfg, err = config.Load(ctx, configFile)
	} else {
		cfg, err = config.Discover(ctx, abs)
	}
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	return &opts.RootOpts{
		Config:     cfg,
		BaseDir:    abs,
		Formatter:  status.NewDefaultFormatter(),
		UserLogger: status.NewUserLogger(ctx),
	}, nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (default: discover .applydir.{yaml,hcl} in base dir)")
	cmd.PersistentFlags().StringVarP(&baseDir, "base-dir", "b", ".", "base directory for file paths")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}
