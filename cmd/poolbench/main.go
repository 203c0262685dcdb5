// Command poolbench measures poolkit object pools against fresh
// allocation under configurable contention and writes a JSON report.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/poolkit/pkg/logger"
)

var version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:     "poolbench",
		Short:   "Benchmark harness for poolkit object pools",
		Version: version,
	}
	root.AddCommand(newRunCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCommand() *cobra.Command {
	var (
		cfgPath  string
		outPath  string
		logLevel string
		flagCfg  = defaultConfig()
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the configured workloads",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Init(logger.Config{Level: logLevel, Encoding: "console"}); err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			cfg := defaultConfig()
			if cfgPath != "" {
				if err := loadConfig(cfgPath, &cfg); err != nil {
					return err
				}
				logger.Info("loaded workload configuration", zap.String("path", cfgPath))
			}
			mergeFlags(cmd, &cfg, flagCfg)

			results, err := runWorkloads(cfg)
			if err != nil {
				return err
			}
			return writeReport(outPath, results)
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "YAML workload configuration file")
	cmd.Flags().StringVar(&outPath, "out", "", "write the JSON report to this file instead of stdout")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().IntVar(&flagCfg.Goroutines, "goroutines", flagCfg.Goroutines, "concurrent goroutines for contended workloads")
	cmd.Flags().IntVar(&flagCfg.Cycles, "cycles", flagCfg.Cycles, "get/release cycles per goroutine")
	cmd.Flags().IntVar(&flagCfg.Capacity, "capacity", flagCfg.Capacity, "pool capacity")
	cmd.Flags().IntVar(&flagCfg.BufferSize, "buffer-size", flagCfg.BufferSize, "pooled buffer size in bytes")
	cmd.Flags().BoolVar(&flagCfg.Prefill, "prefill", flagCfg.Prefill, "prefill pools to capacity before measuring")
	cmd.Flags().StringSliceVar(&flagCfg.Workloads, "workloads", flagCfg.Workloads, "workloads to run (pool, shared, local, baseline)")

	return cmd
}

// mergeFlags lets explicitly set flags override values loaded from the
// configuration file.
func mergeFlags(cmd *cobra.Command, cfg *Config, flagCfg Config) {
	if cmd.Flags().Changed("goroutines") {
		cfg.Goroutines = flagCfg.Goroutines
	}
	if cmd.Flags().Changed("cycles") {
		cfg.Cycles = flagCfg.Cycles
	}
	if cmd.Flags().Changed("capacity") {
		cfg.Capacity = flagCfg.Capacity
	}
	if cmd.Flags().Changed("buffer-size") {
		cfg.BufferSize = flagCfg.BufferSize
	}
	if cmd.Flags().Changed("prefill") {
		cfg.Prefill = flagCfg.Prefill
	}
	if cmd.Flags().Changed("workloads") {
		cfg.Workloads = flagCfg.Workloads
	}
}
