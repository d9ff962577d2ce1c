/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/qbench/pkg/k8s/pod"
	"github.com/NVIDIA/qbench/pkg/logging"
	"github.com/NVIDIA/qbench/pkg/qmgmt"
	"github.com/NVIDIA/qbench/pkg/serializer"
)

const name = "qbench"

var (
	// overridden at build time with ldflags
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "kubeconfig",
			Usage:   "path to kubeconfig file (default: KUBECONFIG, ~/.kube/config, in-cluster)",
			Sources: cli.EnvVars("KUBECONFIG"),
		},
		&cli.StringFlag{
			Name:    "namespace",
			Aliases: []string{"n"},
			Value:   pod.DefaultNamespace,
			Usage:   "namespace of the management pod",
			Sources: cli.EnvVars("QBENCH_NAMESPACE"),
		},
		&cli.StringFlag{
			Name:    "pod",
			Value:   pod.DefaultName,
			Usage:   "name of the management pod running qmgmt",
			Sources: cli.EnvVars("QBENCH_POD"),
		},
		&cli.StringFlag{
			Name:    "container",
			Usage:   "container of the management pod (default: the only container)",
			Sources: cli.EnvVars("QBENCH_CONTAINER"),
		},
		&cli.StringFlag{
			Name:    "api",
			Value:   qmgmt.DefaultAPI,
			Usage:   "qmgmt API endpoint as seen from the management pod",
			Sources: cli.EnvVars("QBENCH_API"),
		},
		&cli.FloatFlag{
			Name:    "qps",
			Usage:   "maximum qmgmt commands per second (0: unlimited)",
			Sources: cli.EnvVars("QBENCH_QPS"),
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging",
		},
		&cli.BoolFlag{
			Name:  "log-json",
			Usage: "emit structured JSON logs",
		},
		&cli.StringFlag{
			Name:    "metrics-file",
			Usage:   "write prometheus metrics in text format to this file on exit",
			Sources: cli.EnvVars("QBENCH_METRICS_FILE"),
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"t"},
			Value:   string(serializer.FormatYAML),
			Usage:   fmt.Sprintf("output format (%v)", serializer.SupportedFormats()),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output file path (default: stdout)",
		},
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Prepare and drive Quobyte storage benchmarks on Kubernetes",
		Version:               fmt.Sprintf("%s (commit: %s, date: %s)", version, commit, date),
		EnableShellCompletion: true,
		Flags:                 globalFlags(),
		Before:                before,
		After:                 writeMetrics,
		Commands: []*cli.Command{
			runCmd(),
			volumeCmd(),
			deviceCmd(),
			jobCmd(),
		},
	}
}

// Execute runs the CLI with os.Args and exits with the resulting status.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().Run(ctx, os.Args)
	if err != nil {
		slog.Error("command failed", "error", err)
	}
	stop()
	os.Exit(exitCode(err))
}

// exitCode maps an error to the process exit status: 0 success, 2 canceled
// or timed out, 1 anything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return 2
	default:
		return 1
	}
}

func before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	setupLogging(cmd)
	if _, err := parseOutputFormat(cmd); err != nil {
		return ctx, err
	}
	return ctx, nil
}

func setupLogging(cmd *cli.Command) {
	level := logging.ParseLogLevel(os.Getenv(logging.EnvLogLevel))
	if cmd.Bool("debug") {
		level = slog.LevelDebug
	}

	if cmd.Bool("log-json") {
		logging.SetDefaultStructuredLoggerWithLevel(name, version, level)
	} else {
		logging.SetDefaultCLILogger(level)
	}
}

func writeMetrics(_ context.Context, cmd *cli.Command) error {
	path := cmd.String("metrics-file")
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %q: %w", path, err)
	}
	slog.Debug("wrote metrics", slog.String("path", path))
	return nil
}
