package directory

// InstanceState is an EC2 lifecycle state, taken verbatim from the provider.
// The directory only observes state, it never computes transitions.
type InstanceState string

const (
	StatePending      InstanceState = "pending"
	StateRunning      InstanceState = "running"
	StateShuttingDown InstanceState = "shutting-down"
	StateTerminated   InstanceState = "terminated"
	StateStopping     InstanceState = "stopping"
	StateStopped      InstanceState = "stopped"
)

// Instance is an EC2 instance as seen through its tags. Instances are
// reconstructed from live provider data on every request, never cached.
type Instance struct {
	ID    string
	Tags  map[string]string
	State InstanceState
}

// DisplayName returns the Name tag, falling back to the instance ID.
func (i *Instance) DisplayName() string {
	if name := i.Tags[NameTagKey]; name != "" {
		return name
	}
	return i.ID
}
