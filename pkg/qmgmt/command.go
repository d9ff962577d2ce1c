// Package qmgmt drives the Quobyte qmgmt CLI through a remote command executor.
//
// Every call is rendered into a fixed shell invocation:
//
//	/bin/sh -c "qmgmt -u <api> <args>"
//
// and handed to an Executor, usually a pod.Executor bound to the management pod.
package qmgmt

import (
	"fmt"
	"strings"
)

// DefaultAPI is the qmgmt API endpoint as seen from inside the management pod.
const DefaultAPI = "api:7860"

// Command renders the shell invocation for a qmgmt call.
func Command(api, args string) []string {
	if api == "" {
		api = DefaultAPI
	}
	return []string{
		"/bin/sh",
		"-c",
		fmt.Sprintf("qmgmt -u %s %s", api, args),
	}
}

// commandLabel reduces args to its verb pair ("volume show", "device update")
// so metric cardinality does not grow with volume or device names.
func commandLabel(args string) string {
	fields := strings.Fields(args)
	if len(fields) > 2 {
		fields = fields[:2]
	}
	return strings.Join(fields, " ")
}
