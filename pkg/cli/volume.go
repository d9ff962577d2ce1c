/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/qbench/pkg/volume"
)

func volumeCmd() *cli.Command {
	return &cli.Command{
		Name:  "volume",
		Usage: "Manage benchmark volumes",
		Commands: []*cli.Command{
			{
				Name:      "reset",
				Usage:     "Delete a volume if it exists, then create it from a configuration",
				ArgsUsage: "NAME",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Required: true,
						Usage:    "volume configuration to create the volume with",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return fmt.Errorf("expected exactly one volume name, got %d arguments", cmd.Args().Len())
					}
					spec := volume.Spec{Name: cmd.Args().First(), Config: cmd.String("config")}
					if err := spec.Validate(); err != nil {
						return err
					}

					r, err := connect(ctx, cmd, targetFromFlags(cmd), true)
					if err != nil {
						return err
					}

					res, err := volume.Reset(ctx, r.qmgmt, spec)
					if err != nil {
						return err
					}
					return writeOutput(ctx, cmd, res)
				},
			},
		},
	}
}
