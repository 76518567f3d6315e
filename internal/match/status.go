// internal/match/status.go
package match

import "fmt"

// Status is the match lifecycle state. Any status may move to any other:
// captains need to un-cancel, reopen, or re-complete matches, so there is no
// terminal state and no guarded transition table.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates a raw status value. Empty input defaults to
// scheduled, matching the status a new match is created with.
func ParseStatus(raw string) (Status, error) {
	if raw == "" {
		return StatusScheduled, nil
	}
	s := Status(raw)
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return s, nil
	}
	return "", fmt.Errorf("unknown match status %q", raw)
}

// CanTransition reports whether from may move to to. All transitions between
// valid states are allowed.
func CanTransition(from, to Status) bool {
	return from.valid() && to.valid()
}

func (s Status) valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}
