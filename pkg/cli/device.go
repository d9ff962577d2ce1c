/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/qbench/pkg/device"
)

func deviceCmd() *cli.Command {
	return &cli.Command{
		Name:  "device",
		Usage: "Inspect and tag storage devices",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List data devices grouped by host",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					groups, err := listDevices(ctx, cmd)
					if err != nil {
						return err
					}
					return writeOutput(ctx, cmd, device.NewDeviceReport(groups))
				},
			},
			{
				Name:  "tag",
				Usage: "Tag every data device with host<N>, numbering hosts in listing order",
				Description: `Lists the devices, keeps the rows mentioning DATA and groups them by host in
first-seen order. Every device of the N-th host (counting from 0) is tagged
"host<N>" with one command per device. Tags are added, never removed, so a
second run issues the same commands again.`,
				Action: func(ctx context.Context, cmd *cli.Command) error {
					r, err := connect(ctx, cmd, targetFromFlags(cmd), true)
					if err != nil {
						return err
					}

					groups, err := parseDevices(ctx, r)
					if err != nil {
						return err
					}

					res, err := device.NewTagger(r.qmgmt).Apply(ctx, groups)
					if err != nil {
						return err
					}
					if len(res.Failed) > 0 {
						slog.Warn("some devices were not tagged", slog.Int("failed", len(res.Failed)), slog.Int("issued", res.Issued))
					}
					return writeOutput(ctx, cmd, device.NewTagReport(res))
				},
			},
		},
	}
}

func listDevices(ctx context.Context, cmd *cli.Command) (*device.HostGroups, error) {
	r, err := connect(ctx, cmd, targetFromFlags(cmd), true)
	if err != nil {
		return nil, err
	}
	return parseDevices(ctx, r)
}

func parseDevices(ctx context.Context, r *remote) (*device.HostGroups, error) {
	listing, err := r.qmgmt.ListDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return device.ParseListing(listing)
}
