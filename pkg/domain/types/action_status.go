package types

import "fmt"

// ActionStatus represents the completion state of an action item
type ActionStatus string

const (
	ActionStatusPending ActionStatus = "pending"
	ActionStatusDone    ActionStatus = "done"
)

// AllActionStatuses returns all valid action statuses
func AllActionStatuses() []ActionStatus {
	return []ActionStatus{
		ActionStatusPending,
		ActionStatusDone,
	}
}

// IsValid checks if the action status is valid
func (s ActionStatus) IsValid() bool {
	switch s {
	case ActionStatusPending,
		ActionStatusDone:
		return true
	default:
		return false
	}
}

// String returns the string representation of the action status
func (s ActionStatus) String() string {
	return string(s)
}

// ParseActionStatus parses a string into an ActionStatus
func ParseActionStatus(s string) (ActionStatus, error) {
	status := ActionStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid action status: %s", s)
	}
	return status, nil
}
