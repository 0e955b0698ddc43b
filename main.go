package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const appVersion = "0.1.0"

func main() {
	var (
		cfgPath      string
		logLevel     string
		excludePorts []int
		flowsDir     string
	)

	root := &cobra.Command{
		Use:     "pcaphar <inputfile> <outputfile>",
		Short:   "Convert a pcap capture into an HTTP archive (HAR)",
		Version: appVersion,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Arguments are valid past this point; runtime failures should
			// not re-print usage.
			cmd.SilenceUsage = true

			cfg := Config{}
			if cfgPath != "" {
				var err error
				cfg, err = LoadConfig(cfgPath)
				if err != nil {
					return err
				}
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			cfg.Capture.ExcludePorts = append(cfg.Capture.ExcludePorts, excludePorts...)
			if flowsDir != "" {
				cfg.Capture.FlowsDir = flowsDir
			}

			log, closeLog, err := newLogger(cfg.Logging.Level)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return NewPipeline(cfg, log).Run(ctx, args[0], args[1])
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "Path to config file")
	root.Flags().StringVar(&logLevel, "log-level", "", "Console verbosity: DEBUG/INFO/WARN/ERROR")
	root.Flags().IntSliceVar(&excludePorts, "exclude-port", nil, "Additional ports to exclude from reconstruction")
	root.Flags().StringVar(&flowsDir, "flows-dir", "", "Dump per-flow byte streams into this directory")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pcaphar: %v\n", err)
		os.Exit(1)
	}
}
