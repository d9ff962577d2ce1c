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
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"

	"github.com/NVIDIA/qbench/pkg/k8s/client"
	"github.com/NVIDIA/qbench/pkg/k8s/pod"
	"github.com/NVIDIA/qbench/pkg/qmgmt"
	"github.com/NVIDIA/qbench/pkg/serializer"
)

// Replaced in tests.
var (
	newKubeClient = func(kubeconfig string) (kubernetes.Interface, *rest.Config, error) {
		if kubeconfig == "" {
			return client.GetKubeClient()
		}
		return client.BuildKubeClient(kubeconfig)
	}

	newExecutor = func(kube kubernetes.Interface, config *rest.Config, namespace, name, container string) qmgmt.Executor {
		return &pod.Executor{
			Client:    kube,
			Config:    config,
			Namespace: namespace,
			Pod:       name,
			Container: container,
		}
	}
)

// target identifies the management pod and qmgmt endpoint.
type target struct {
	Namespace string
	Pod       string
	Container string
	API       string
	QPS       float64
}

func targetFromFlags(cmd *cli.Command) target {
	return target{
		Namespace: cmd.String("namespace"),
		Pod:       cmd.String("pod"),
		Container: cmd.String("container"),
		API:       cmd.String("api"),
		QPS:       cmd.Float("qps"),
	}
}

// remote bundles the clients a qmgmt-driven command needs.
type remote struct {
	kube  kubernetes.Interface
	qmgmt *qmgmt.Client
}

// connect builds the kube client and a qmgmt client for t. With lookup set the
// management pod must exist.
func connect(ctx context.Context, cmd *cli.Command, t target, lookup bool) (*remote, error) {
	kube, config, err := newKubeClient(cmd.String("kubeconfig"))
	if err != nil {
		return nil, err
	}

	if lookup {
		if _, err := pod.Lookup(ctx, kube, t.Namespace, t.Pod); err != nil {
			return nil, err
		}
	}

	exec := newExecutor(kube, config, t.Namespace, t.Pod, t.Container)
	return &remote{
		kube:  kube,
		qmgmt: qmgmt.NewClient(exec, qmgmt.WithAPI(t.API), qmgmt.WithQPS(t.QPS)),
	}, nil
}

// parseOutputFormat extracts and validates the output format from CLI flags.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, valid formats are: %v", outFormat, serializer.SupportedFormats())
	}
	return outFormat, nil
}

// writeOutput serializes v to the --output destination in --format.
func writeOutput(ctx context.Context, cmd *cli.Command, v any) error {
	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	ser, err := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
	if err != nil {
		return err
	}
	if c, ok := ser.(serializer.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				slog.Warn("failed to close serializer", "error", err)
			}
		}()
	}

	return ser.Serialize(ctx, v)
}
