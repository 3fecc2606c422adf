// Package cli implements the f1db command: extract, load, export and
// validate.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aneroid/ergast-f1db-extra/internal/config"
	"github.com/aneroid/ergast-f1db-extra/internal/metadata"
	"github.com/aneroid/ergast-f1db-extra/internal/metrics"
	"github.com/aneroid/ergast-f1db-extra/internal/metrics/datadog"
	"github.com/aneroid/ergast-f1db-extra/internal/metrics/prompush"
)

// app is the state shared by subcommands once flags and config are resolved.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	out    io.Writer
	errOut io.Writer
}

// Execute runs the CLI with os.Args and returns the process exit code.
func Execute() int {
	return Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes the CLI with args, writing to out and errOut.
func Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	root := newRootCmd(out, errOut)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	var (
		cfgPath string
		dataDir string
		verbose bool
	)
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "f1db",
		Short:         "Extract and load the Ergast f1db CSV dump",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("data-dir") {
				cfg.DataDir = dataDir
			}
			a.cfg = cfg

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			// Every line of one invocation carries the same run id.
			a.logger = slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level})).
				With("job", cfg.Job, "run", uuid.NewString())
			return setupMetrics(cfg)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if err := metrics.Flush(); err != nil {
				a.logger.Warn("metrics flush failed", "err", err)
			}
			metrics.SetBackend(nil)
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (JSON with comments)")
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding the extracted CSV files")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")

	root.AddCommand(
		newExtractCmd(a),
		newLoadCmd(a),
		newExportCmd(a),
		newValidateCmd(a),
	)
	return root
}

func setupMetrics(cfg config.Config) error {
	switch cfg.Metrics.Backend {
	case "prometheus":
		b, err := prompush.NewBackend(cfg.Job, cfg.Metrics.PushgatewayURL)
		if err != nil {
			return err
		}
		metrics.SetBackend(b)
	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr: cfg.Metrics.DatadogAddr,
			Tags: []string{"job:" + cfg.Job},
		})
		if err != nil {
			return err
		}
		metrics.SetBackend(b)
	default:
		metrics.SetBackend(nil)
	}
	return nil
}

func (a *app) catalog() (*metadata.Catalog, error) {
	if a.cfg.Metadata != "" {
		return metadata.LoadFile(a.cfg.Metadata)
	}
	return metadata.Default()
}
