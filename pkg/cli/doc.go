// Package cli implements the qbench command-line interface.
//
// qbench prepares a Quobyte cluster running on Kubernetes for storage
// benchmarks. All storage operations are qmgmt commands executed inside the
// management pod (default quobyte/qmgmt-pod) through the pods/exec API.
//
// # Commands
//
//	run            Run a benchmark plan end to end
//	volume reset   Force-delete a volume when present, then create it
//	device list    List data devices grouped by host
//	device tag     Tag all data devices with host<N> in first-seen host order
//	job wait       Wait for a Job to complete
//	job run        Create a Job from a manifest and wait for it
//
// # Global Flags
//
//	--kubeconfig    Path to kubeconfig file
//	-n, --namespace Namespace of the management pod (default: quobyte)
//	--pod           Management pod name (default: qmgmt-pod)
//	--container     Container in the management pod
//	--api           qmgmt API endpoint (default: api:7860)
//	--qps           Rate limit for qmgmt commands
//	--debug         Debug logging
//	--log-json      JSON logs
//	-t, --format    Output format: yaml, json, table (default: yaml)
//	-o, --output    Output file (default: stdout)
//	--metrics-file  Write prometheus metrics to a file on exit
//
// # Usage Examples
//
//	qbench volume reset --config BASE bench-a
//	qbench device tag --format table
//	qbench job run --node-selector quobyte.com/client=true manifests/fio.yaml
//	qbench run --plan plan.yaml --output report.json --format json
//
// # Environment Variables
//
//	LOG_LEVEL            Set logging verbosity (debug, info, warn, error)
//	KUBECONFIG           Path to kubeconfig file
//	QBENCH_NAMESPACE     Default for --namespace
//	QBENCH_POD           Default for --pod
//	QBENCH_CONTAINER     Default for --container
//	QBENCH_API           Default for --api
//	QBENCH_QPS           Default for --qps
//	QBENCH_METRICS_FILE  Default for --metrics-file
//
// # Exit Codes
//
//	0  Success
//	1  General error (missing management pod, invalid input, failed Job)
//	2  Context canceled or timeout
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/qbench/pkg/cli.version=1.0.0'"
package cli
