/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

/*
Package job creates benchmark Jobs from manifests and waits for them to finish.

# Lifecycle

A manifest is loaded with LoadManifest, optionally pinned to nodes with a node
selector, and submitted with Manager.Create. An existing Job of the same name is
deleted first so every benchmark starts from a clean state. WaitForCompletion
then polls the Job status until it reports a succeeded pod or a Complete
condition:

	j, err := job.LoadManifest("fio.yaml")
	if err != nil {
		return err
	}

	m := job.NewManager(clientset)
	if _, err := m.Create(ctx, j, job.CreateOptions{RunID: runID}); err != nil {
		return err
	}

	_, err = m.WaitForCompletion(ctx, j.Namespace, j.Name, job.WaitOptions{
		Interval: 45 * time.Second,
	})

A Failed condition ends the wait with ErrJobFailed. A Job that does not exist
ends it with ErrJobNotFound; the error names the closest existing Job when one
is similar enough.

# Testing

Manager works against kubernetes.Interface, so tests use the fake clientset
from k8s.io/client-go/kubernetes/fake with Job status set up front.
*/
package job
