package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "nfvtcp",
		Short: "Adaptive profiling of NFV service chain throughput",
		Long: `nfvtcp expands a YAML experiment configuration into the cartesian
product of its module variants and simulates each profiling run: a
selector picks configurations to measure, a performance model stands in
for the real measurement, and a predictor is trained on the samples and
scored against the full configuration space.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to the experiment configuration (required)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides the configuration")

	cmd.AddCommand(newRunCmd(flags))
	cmd.AddCommand(newValidateCmd(flags))
	return cmd
}
