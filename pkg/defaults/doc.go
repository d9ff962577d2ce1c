// Package defaults provides centralized timing constants for qbench.
//
// # Timeout Guidelines
//
//   - Kubernetes API calls: 30s per call, respects parent context deadline
//   - Job completion polling: every 45s, no overall limit unless configured
//   - Job replacement: wait up to 2m for the old Job to disappear
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.K8sAPITimeout)
//	defer cancel()
package defaults
