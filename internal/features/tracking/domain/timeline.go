package domain

import (
	"fmt"
	"time"
)

// Stop is a reached stage with its time and place.
type Stop struct {
	At       time.Time
	Location string
}

// BuildTimeline lays out codes in order with current marked at index current.
// Entries up to current take their time and place from reached; later entries stay empty.
func BuildTimeline(orderID string, codes []StatusCode, current int, reached map[StatusCode]Stop) []TrackingStatus {
	out := make([]TrackingStatus, len(codes))
	for i, code := range codes {
		entry := TrackingStatus{
			ID:   fmt.Sprintf("%s-%d", orderID, i+1),
			Code: code,
			Name: code.Name(),
		}

		if i <= current {
			if stop, ok := reached[code]; ok {
				at := stop.At
				entry.Timestamp = &at
				entry.Location = stop.Location
			}
		}

		switch {
		case i < current:
			entry.IsCompleted = true
		case i == current:
			entry.IsCurrent = true
			entry.IsCompleted = code.Terminal()
		}
		out[i] = entry
	}
	return out
}
