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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/qbench/pkg/benchmark"
)

func runCmd() *cli.Command {
	return &cli.Command{
		Name:                  "run",
		EnableShellCompletion: true,
		Usage:                 "Run a complete benchmark plan",
		Description: `Runs the steps of a benchmark plan in order:

  1. check that the management pod exists
  2. reset the listed volumes (force-delete, then create)
  3. tag every data device with host<N> (when tagDevices is set)
  4. wait for each listed Job, creating it first when createJobs is set

Global flags that are set explicitly override the plan values.

# Examples

  qbench run --plan plan.yaml
  qbench --namespace storage --qps 5 run --plan plan.yaml --output report.json --format json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "plan",
				Aliases:  []string{"p"},
				Required: true,
				Usage:    "path to the benchmark plan (YAML)",
			},
			&cli.StringFlag{
				Name:  "run-id",
				Usage: "identifier for this run (default: random UUID)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			plan, err := benchmark.LoadPlan(cmd.String("plan"))
			if err != nil {
				return err
			}
			overridePlan(cmd, plan)
			if err := plan.Validate(); err != nil {
				return fmt.Errorf("invalid plan: %w", err)
			}

			t := target{
				Namespace: plan.Namespace,
				Pod:       plan.Pod,
				Container: plan.Container,
				API:       plan.API,
				QPS:       plan.QPS,
			}
			// the runner checks the pod itself
			r, err := connect(ctx, cmd, t, false)
			if err != nil {
				return err
			}

			runner := benchmark.NewRunner(plan, r.kube, r.qmgmt, benchmark.WithRunID(cmd.String("run-id")))
			rep, runErr := runner.Run(ctx)
			if rep != nil {
				if err := writeOutput(context.WithoutCancel(ctx), cmd, rep); err != nil {
					return errors.Join(runErr, err)
				}
			}
			if runErr != nil {
				return fmt.Errorf("benchmark run %s failed: %w", runner.RunID(), runErr)
			}

			for _, j := range rep.Jobs {
				if j.Status != benchmark.JobSucceeded {
					slog.Warn("job did not succeed", slog.String("name", j.Name), slog.String("status", j.Status))
				}
			}
			return nil
		},
	}
}

// overridePlan applies explicitly set global flags to the plan.
func overridePlan(cmd *cli.Command, plan *benchmark.Plan) {
	if cmd.IsSet("namespace") {
		plan.Namespace = cmd.String("namespace")
	}
	if cmd.IsSet("pod") {
		plan.Pod = cmd.String("pod")
	}
	if cmd.IsSet("container") {
		plan.Container = cmd.String("container")
	}
	if cmd.IsSet("api") {
		plan.API = cmd.String("api")
	}
	if cmd.IsSet("qps") {
		plan.QPS = cmd.Float("qps")
	}
}
