package device

import "fmt"

// TagPrefix is prepended to the host counter to form a device tag.
const TagPrefix = "host"

// Tag returns the tag for the host at the given zero-based position.
func Tag(index int) string {
	return fmt.Sprintf("%s%d", TagPrefix, index)
}

// Device is a storage device as reported by "qmgmt device list".
type Device struct {
	ID   string `json:"id" yaml:"id"`
	Host string `json:"host" yaml:"host"`
}

// HostGroup holds the devices reported by one host, in listing order.
type HostGroup struct {
	Host    string   `json:"host" yaml:"host"`
	Devices []string `json:"devices" yaml:"devices"`
}

// HostGroups maps hosts to their devices and remembers the order in which
// hosts were first seen.
type HostGroups struct {
	order []string
	index map[string]int
	group []HostGroup
}

// NewHostGroups returns an empty grouping.
func NewHostGroups() *HostGroups {
	return &HostGroups{index: make(map[string]int)}
}

// Add appends a device under its host, registering the host on first sight.
func (g *HostGroups) Add(d Device) {
	i, ok := g.index[d.Host]
	if !ok {
		i = len(g.group)
		g.index[d.Host] = i
		g.order = append(g.order, d.Host)
		g.group = append(g.group, HostGroup{Host: d.Host})
	}
	g.group[i].Devices = append(g.group[i].Devices, d.ID)
}

// Hosts returns host ids in first-seen order.
func (g *HostGroups) Hosts() []string {
	return append([]string(nil), g.order...)
}

// Devices returns the devices of host, or nil when the host is unknown.
func (g *HostGroups) Devices(host string) []string {
	i, ok := g.index[host]
	if !ok {
		return nil
	}
	return append([]string(nil), g.group[i].Devices...)
}

// Groups returns a copy of all groups in first-seen host order.
func (g *HostGroups) Groups() []HostGroup {
	out := make([]HostGroup, len(g.group))
	for i, hg := range g.group {
		out[i] = HostGroup{Host: hg.Host, Devices: append([]string(nil), hg.Devices...)}
	}
	return out
}

// Len returns the number of distinct hosts.
func (g *HostGroups) Len() int {
	return len(g.group)
}

// DeviceCount returns the total number of devices across hosts.
func (g *HostGroups) DeviceCount() int {
	n := 0
	for _, hg := range g.group {
		n += len(hg.Devices)
	}
	return n
}

// Assignment is the tag given to every device of one host.
type Assignment struct {
	Host    string   `json:"host" yaml:"host"`
	Tag     string   `json:"tag" yaml:"tag"`
	Devices []string `json:"devices" yaml:"devices"`
}

// Failure records a device whose tag command failed.
type Failure struct {
	Device string `json:"device" yaml:"device"`
	Tag    string `json:"tag" yaml:"tag"`
	Error  string `json:"error" yaml:"error"`
}

// TrackedHostCount is the number of leading hosts kept in TagResult.Tracked.
const TrackedHostCount = 4

// TagResult is the outcome of a tagging pass.
type TagResult struct {
	Assignments []Assignment `json:"assignments" yaml:"assignments"`

	// Tracked holds the first TrackedHostCount hosts in tagging order.
	Tracked []string `json:"tracked" yaml:"tracked"`

	// Issued counts tag commands sent, failed ones included.
	Issued int       `json:"issued" yaml:"issued"`
	Failed []Failure `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// TrackedHost returns the host tagged with counter value index, or "" when
// fewer hosts were tagged or index is outside the tracked range.
func (r *TagResult) TrackedHost(index int) string {
	if index < 0 || index >= len(r.Tracked) {
		return ""
	}
	return r.Tracked[index]
}

// Third returns the third host encountered (tag host2).
func (r *TagResult) Third() string {
	return r.TrackedHost(2)
}

// Fourth returns the fourth host encountered (tag host3).
func (r *TagResult) Fourth() string {
	return r.TrackedHost(3)
}

// Tags returns the distinct tags that were assigned.
func (r *TagResult) Tags() []string {
	out := make([]string, 0, len(r.Assignments))
	for _, a := range r.Assignments {
		out = append(out, a.Tag)
	}
	return out
}
