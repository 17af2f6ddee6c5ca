package curry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sourcewave/neuroio/internal/blockio"
	"github.com/sourcewave/neuroio/internal/types"
)

// ReadEvents parses an event companion file into the event table. The file
// holds a single NUMBER_LIST block of tab-separated integer rows; the first
// three columns carry the event information (sample index, an auxiliary
// field, and the event code). When codes are given, only events whose code
// appears in the set are returned.
//
// Malformed numeric fields propagate the underlying conversion failure.
func ReadEvents(path string, codes ...int) ([]types.Event, error) {
	if err := checkEventExtension(path); err != nil {
		return nil, err
	}

	blocks, err := blockio.ParseFile(path, []string{"NUMBER_LIST"})
	if err != nil {
		return nil, err
	}

	var keep map[int]bool
	if len(codes) > 0 {
		keep = make(map[int]bool, len(codes))
		for _, c := range codes {
			keep[c] = true
		}
	}

	var events []types.Event
	for i, row := range blocks.Rows("NUMBER_LIST") {
		if len(row) < 3 {
			return nil, fmt.Errorf("%s: event row %d has %d columns, need at least 3", path, i, len(row))
		}

		var cols [3]int
		for j := 0; j < 3; j++ {
			v, err := strconv.Atoi(strings.TrimSpace(row[j]))
			if err != nil {
				return nil, fmt.Errorf("%s: event row %d: %w", path, i, err)
			}
			cols[j] = v
		}

		ev := types.Event{Sample: cols[0], Aux: cols[1], Code: cols[2]}
		if keep != nil && !keep[ev.Code] {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// checkEventExtension rejects paths that do not carry one of the accepted
// event file extensions of either generation.
func checkEventExtension(path string) error {
	for _, ext := range EventExtensions() {
		if strings.HasSuffix(path, ext) {
			return nil
		}
	}
	return &types.UsageError{
		Op:     "read events",
		Reason: fmt.Sprintf("%s does not end in one of %v", path, EventExtensions()),
	}
}
