package types

import "fmt"

// SyncStatus represents the remote replication state of a note
type SyncStatus string

const (
	SyncStatusPending SyncStatus = "pending"
	SyncStatusSent    SyncStatus = "sent"
	SyncStatusError   SyncStatus = "error"
)

// AllSyncStatuses returns all valid sync statuses
func AllSyncStatuses() []SyncStatus {
	return []SyncStatus{
		SyncStatusPending,
		SyncStatusSent,
		SyncStatusError,
	}
}

// IsValid checks if the sync status is valid
func (s SyncStatus) IsValid() bool {
	switch s {
	case SyncStatusPending,
		SyncStatusSent,
		SyncStatusError:
		return true
	default:
		return false
	}
}

// IsRetryable reports whether a note in this status is a candidate for a sync pass.
// Sent is terminal.
func (s SyncStatus) IsRetryable() bool {
	return s == SyncStatusPending || s == SyncStatusError
}

// String returns the string representation of the sync status
func (s SyncStatus) String() string {
	return string(s)
}

// ParseSyncStatus parses a string into a SyncStatus
func ParseSyncStatus(s string) (SyncStatus, error) {
	status := SyncStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid sync status: %s", s)
	}
	return status, nil
}
