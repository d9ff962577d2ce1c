package device

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleListing = `Id  Host            Mode    Disk Used  Disk Avail  Services  Tags
1   qb-node-c       ONLINE  1 GB       99 GB       METADATA
2   qb-node-b       ONLINE  10 GB      90 GB       DATA
3   qb-node-a       ONLINE  10 GB      90 GB       DATA
4   qb-node-b       ONLINE  10 GB      90 GB       DATA
5   qb-node-d       ONLINE  0 GB       1 GB        REGISTRY
`

func TestParseListing_GroupsByHost(t *testing.T) {
	groups, err := ParseListing(strings.Join([]string{"d1 hostA DATA", "d2 hostA DATA", "d3 hostB DATA"}, "\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"hostA", "hostB"}, groups.Hosts())
	assert.Equal(t, []string{"d1", "d2"}, groups.Devices("hostA"))
	assert.Equal(t, []string{"d3"}, groups.Devices("hostB"))
	assert.Equal(t, 3, groups.DeviceCount())
}

func TestParseListing_FirstSeenOrder(t *testing.T) {
	groups, err := ParseListing(sampleListing)
	require.NoError(t, err)

	// METADATA contains the marker, REGISTRY and the header do not
	assert.Equal(t, []string{"qb-node-c", "qb-node-b", "qb-node-a"}, groups.Hosts())
	assert.Equal(t, []string{"2", "4"}, groups.Devices("qb-node-b"))
	assert.Nil(t, groups.Devices("qb-node-d"))
}

func TestParseListing_Edges(t *testing.T) {
	tests := []struct {
		name      string
		listing   string
		wantHosts []string
		wantErr   bool
	}{
		{
			name:      "empty",
			listing:   "",
			wantHosts: nil,
		},
		{
			name:      "no qualifying rows",
			listing:   "Id Host Mode\n1 a REGISTRY\n",
			wantHosts: nil,
		},
		{
			name:    "marker only",
			listing: "DATA\n",
			wantErr: true,
		},
		{
			name:    "malformed row after valid ones",
			listing: "1 a DATA\n   DATA  \n",
			wantErr: true,
		},
		{
			name:      "marker in host column",
			listing:   "7 DATA-node-1\n",
			wantHosts: []string{"DATA-node-1"},
		},
		{
			name:      "tabs and carriage returns",
			listing:   "1\tnode-x\tDATA\r\n2\tnode-y\tDATA\r\n",
			wantHosts: []string{"node-x", "node-y"},
		},
		{
			name:      "marker is case sensitive",
			listing:   "1 node data\n",
			wantHosts: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups, err := ParseListing(tt.listing)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedRow), "expected ErrMalformedRow, got %v", err)
				return
			}
			require.NoError(t, err)
			if tt.wantHosts == nil {
				assert.Equal(t, 0, groups.Len())
				return
			}
			assert.Equal(t, tt.wantHosts, groups.Hosts())
		})
	}
}

func TestParseListing_MalformedRowReportsLine(t *testing.T) {
	_, err := ParseListing("1 a DATA\n2 b DATA\nDATA\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestHostGroups_GroupsIsCopy(t *testing.T) {
	groups := NewHostGroups()
	groups.Add(Device{ID: "1", Host: "a"})

	copied := groups.Groups()
	copied[0].Devices[0] = "mutated"

	assert.Equal(t, []string{"1"}, groups.Devices("a"))
}
