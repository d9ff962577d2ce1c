package device

import (
	"strconv"
	"strings"

	"github.com/NVIDIA/qbench/pkg/header"
)

const (
	// DeviceReportKind is the header kind of a device listing report.
	DeviceReportKind = "DeviceReport"

	// TagReportKind is the header kind of a tagging report.
	TagReportKind = "TagReport"
)

// DeviceReport lists the data devices grouped by host.
type DeviceReport struct {
	header.Header `json:",inline" yaml:",inline"`

	Hosts []HostGroup `json:"hosts" yaml:"hosts"`
}

// NewDeviceReport builds a report from parsed host groups.
func NewDeviceReport(groups *HostGroups) *DeviceReport {
	r := &DeviceReport{Hosts: groups.Groups()}
	r.Set(DeviceReportKind)
	return r
}

func (r *DeviceReport) TableHeader() []string {
	return []string{"host", "devices"}
}

func (r *DeviceReport) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Hosts))
	for _, hg := range r.Hosts {
		rows = append(rows, []string{hg.Host, strings.Join(hg.Devices, ",")})
	}
	return rows
}

// TagReport is the outcome of a tagging pass.
type TagReport struct {
	header.Header `json:",inline" yaml:",inline"`

	Result *TagResult `json:"result" yaml:"result"`
}

// NewTagReport wraps a TagResult.
func NewTagReport(res *TagResult) *TagReport {
	r := &TagReport{Result: res}
	r.Set(TagReportKind)
	return r
}

func (r *TagReport) TableHeader() []string {
	return []string{"host", "tag", "devices", "failed"}
}

// TableRows returns one row per tagged host with the number of devices whose
// tag command failed.
func (r *TagReport) TableRows() [][]string {
	if r.Result == nil {
		return nil
	}
	failed := make(map[string]int)
	for _, f := range r.Result.Failed {
		failed[f.Tag]++
	}
	rows := make([][]string, 0, len(r.Result.Assignments))
	for _, a := range r.Result.Assignments {
		rows = append(rows, []string{a.Host, a.Tag, strings.Join(a.Devices, ","), strconv.Itoa(failed[a.Tag])})
	}
	return rows
}
