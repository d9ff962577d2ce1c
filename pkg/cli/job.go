/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	batchv1 "k8s.io/api/batch/v1"

	"github.com/NVIDIA/qbench/pkg/benchmark"
	"github.com/NVIDIA/qbench/pkg/k8s/job"
)

func waitFlags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:  "interval",
			Value: job.DefaultPollInterval,
			Usage: "time between job status checks",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "give up waiting after this long (0: no limit)",
		},
	}
}

func waitOptions(cmd *cli.Command) job.WaitOptions {
	return job.WaitOptions{
		Interval: cmd.Duration("interval"),
		Timeout:  cmd.Duration("timeout"),
	}
}

func jobCmd() *cli.Command {
	return &cli.Command{
		Name:  "job",
		Usage: "Run and watch benchmark Jobs",
		Commands: []*cli.Command{
			{
				Name:      "wait",
				Usage:     "Wait for a Job to complete",
				ArgsUsage: "NAME",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "job-namespace",
						Value: job.DefaultNamespace,
						Usage: "namespace of the Job",
					},
				}, waitFlags()...),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return fmt.Errorf("expected exactly one job name, got %d arguments", cmd.Args().Len())
					}

					kube, _, err := newKubeClient(cmd.String("kubeconfig"))
					if err != nil {
						return err
					}

					out := benchmark.JobOutcome{Namespace: cmd.String("job-namespace"), Name: cmd.Args().First()}
					return waitAndReport(ctx, cmd, job.NewManager(kube), &out)
				},
			},
			{
				Name:      "run",
				Usage:     "Create a Job from a manifest and wait for it",
				ArgsUsage: "FILE",
				Description: `Loads a batch/v1 Job manifest, replaces any Job with the same name,
creates it and waits for completion. With --no-create the Job is expected
to exist already and is only waited on.

# Examples

  qbench job run --node-selector quobyte.com/client=true fio.yaml
  qbench job run --no-create --timeout 3h fio.yaml`,
				Flags: append([]cli.Flag{
					&cli.StringSliceFlag{
						Name:  "node-selector",
						Usage: "node selector for the Job pods (format: key=value, can be repeated)",
					},
					&cli.BoolFlag{
						Name:  "no-create",
						Usage: "only wait for an existing Job",
					},
				}, waitFlags()...),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return fmt.Errorf("expected exactly one manifest, got %d arguments", cmd.Args().Len())
					}

					path := cmd.Args().First()
					manifest, err := job.LoadManifest(path)
					if err != nil {
						return err
					}
					selector, err := job.ParseNodeSelectors(cmd.StringSlice("node-selector"))
					if err != nil {
						return err
					}

					kube, _, err := newKubeClient(cmd.String("kubeconfig"))
					if err != nil {
						return err
					}
					m := job.NewManager(kube)

					out := benchmark.JobOutcome{Manifest: path, Namespace: manifest.Namespace, Name: manifest.Name}
					if !cmd.Bool("no-create") {
						if _, err := createJob(ctx, m, manifest, selector); err != nil {
							return err
						}
						out.Created = true
					}
					return waitAndReport(ctx, cmd, m, &out)
				},
			},
		},
	}
}

func createJob(ctx context.Context, m *job.Manager, j *batchv1.Job, selector map[string]string) (*batchv1.Job, error) {
	return m.Create(ctx, j, job.CreateOptions{
		NodeSelector: selector,
		RunID:        uuid.NewString(),
	})
}

// waitAndReport waits for the Job, writes the outcome and returns the wait
// error so a failed Job yields a non-zero exit.
func waitAndReport(ctx context.Context, cmd *cli.Command, m *job.Manager, out *benchmark.JobOutcome) error {
	_, waitErr := m.WaitForCompletion(ctx, out.Namespace, out.Name, waitOptions(cmd))
	out.Status = benchmark.JobSucceeded
	if waitErr != nil {
		out.Status = benchmark.JobError
		if errors.Is(waitErr, job.ErrJobFailed) {
			out.Status = benchmark.JobFailed
		}
		out.Error = waitErr.Error()
	}

	// still report when the wait was interrupted
	if err := writeOutput(context.WithoutCancel(ctx), cmd, out); err != nil {
		return err
	}
	return waitErr
}
