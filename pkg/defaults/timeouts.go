package defaults

import "time"

// Kubernetes API timeouts.
const (
	// K8sAPITimeout bounds single API calls such as the management pod lookup.
	K8sAPITimeout = 30 * time.Second
)

// Job timeouts.
const (
	// JobPollInterval is how often a Job status is read while waiting.
	JobPollInterval = 45 * time.Second

	// JobDeletePollInterval is how often deletion of a replaced Job is checked.
	JobDeletePollInterval = 500 * time.Millisecond

	// JobDeleteTimeout bounds the wait for a replaced Job to disappear.
	JobDeleteTimeout = 2 * time.Minute
)
