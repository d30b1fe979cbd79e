package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/HeidiNeuhaeuser/nfv-t-cp/internal/experiment"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/config"
	"github.com/HeidiNeuhaeuser/nfv-t-cp/pkg/logger"
)

func newRunCmd(flags *rootFlags) *cobra.Command {
	var resultPath string
	var seed int64

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a profiling experiment",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if resultPath != "" {
				conf.ResultPath = resultPath
			}
			if cmd.Flags().Changed("seed") {
				if conf.Selector.Parameters == nil {
					conf.Selector.Parameters = map[string]any{}
				}
				conf.Selector.Parameters["seed"] = seed
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			e := experiment.New(*conf)
			if err := e.Prepare(); err != nil {
				return fmt.Errorf("preparing experiment: %w", err)
			}
			if err := e.Run(ctx); err != nil {
				return fmt.Errorf("running experiment: %w", err)
			}
			return e.Store(conf.ResultPath)
		},
	}

	cmd.Flags().StringVar(&resultPath, "result", "", "result file path; overrides the configuration (.gz for compression)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "base random seed; overrides the selector configuration")
	return cmd
}

func newValidateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Parse and validate an experiment configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(flags)
			if err != nil {
				return err
			}
			e := experiment.New(*conf)
			if err := e.Prepare(); err != nil {
				return err
			}
			logger.Info("Configuration is valid",
				"name", conf.Name,
				"configurations", e.Configurations())
			return nil
		},
	}
}

// loadConfig reads the configuration and installs the logger before any
// module emits output.
func loadConfig(flags *rootFlags) (*config.Config, error) {
	if flags.configPath == "" {
		return nil, fmt.Errorf("a configuration file is required (-c)")
	}
	conf, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	level := conf.LogLevel
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	logger.SetDefault(logger.NewText(level, os.Stderr))
	return conf, nil
}
