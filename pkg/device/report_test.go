package device

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceReport(t *testing.T) {
	groups, err := ParseListing("d1 hostA DATA\nd2 hostA DATA\nd3 hostB DATA\n")
	require.NoError(t, err)

	r := NewDeviceReport(groups)
	assert.Equal(t, DeviceReportKind, r.Kind)
	assert.Equal(t, [][]string{{"hostA", "d1,d2"}, {"hostB", "d3"}}, r.TableRows())

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, DeviceReportKind, m["kind"])
	assert.Contains(t, m, "hosts")
}

func TestTagReportRows(t *testing.T) {
	res := &TagResult{
		Assignments: []Assignment{
			{Host: "hostA", Tag: "host0", Devices: []string{"d1", "d2"}},
			{Host: "hostB", Tag: "host1", Devices: []string{"d3"}},
		},
		Failed: []Failure{{Device: "d2", Tag: "host0", Error: "boom"}},
	}

	r := NewTagReport(res)
	assert.Equal(t, TagReportKind, r.Kind)
	assert.Equal(t, [][]string{
		{"hostA", "host0", "d1,d2", "1"},
		{"hostB", "host1", "d3", "0"},
	}, r.TableRows())

	assert.Nil(t, (&TagReport{}).TableRows())
}
