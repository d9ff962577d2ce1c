// Package benchmark runs a complete benchmark preparation pass against a
// Quobyte cluster.
//
// A run is described by a Plan and executed by a Runner in four steps:
//
//  1. look up the management pod; a missing pod aborts the run
//  2. reset every volume in the plan (force-delete when present, then create)
//  3. optionally tag all data devices with "hostN" by first-seen host order
//  4. for each Job manifest, optionally (re)create the Job, then wait for it
//
// Volume resets run sequentially unless the plan raises Parallelism. Tag and
// Job wait failures are logged and recorded in the Report without stopping
// the run; everything else is returned as an error.
//
// Example plan:
//
//	namespace: quobyte
//	pod: qmgmt-pod
//	volumes:
//	  - name: bench-a
//	    config: BASE
//	jobs:
//	  - manifests/fio-job.yaml
//	pollInterval: 45s
//	tagDevices: true
package benchmark
