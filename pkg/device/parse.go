package device

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
)

// DataMarker selects the listing rows that describe data devices. The match
// is a plain substring test, so rows mentioning METADATA qualify too.
const DataMarker = "DATA"

// ErrMalformedRow is returned for a qualifying row with fewer than two tokens.
var ErrMalformedRow = errors.New("malformed device row")

// ParseListing groups the rows of a "qmgmt device list" table by host.
// Only rows containing DataMarker are considered; their first two
// whitespace-separated tokens are the device id and the host id.
func ParseListing(listing string) (*HostGroups, error) {
	groups := NewHostGroups()

	scanner := bufio.NewScanner(strings.NewReader(listing))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		row := scanner.Text()
		if !strings.Contains(row, DataMarker) {
			continue
		}

		fields := strings.Fields(row)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d %q: %w", line, row, ErrMalformedRow)
		}

		groups.Add(Device{ID: fields[0], Host: fields[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read device listing: %w", err)
	}

	return groups, nil
}
