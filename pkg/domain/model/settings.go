package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/notedrop/notedrop/pkg/domain/types"
)

const (
	// TerminalState is the remote workflow state that counts as closed for
	// governance checks and action completion mirroring.
	TerminalState = "Done"

	// SubRecordState is the initial workflow state of mirrored action records.
	SubRecordState = "Pending"

	// SubRecordType is the classification type of mirrored action records.
	SubRecordType = "Task"
)

// Settings is the process-wide configuration snapshot: remote credentials,
// remote property-name mapping, default classification values and retry
// tuning. It is loaded from the store at the start of each operation and
// mutated only through an explicit save; never shared mutable state.
type Settings struct {
	NotionToken      string `json:"notion_token" masq:"secret"`
	NotionDatabaseID string `json:"notion_database_id"`

	DefaultArea     string `json:"default_area"`
	DefaultType     string `json:"default_type"`
	DefaultState    string `json:"default_state"`
	DefaultPriority string `json:"default_priority"`

	PropTitle    string `json:"prop_title"`
	PropArea     string `json:"prop_area"`
	PropType     string `json:"prop_type"`
	PropState    string `json:"prop_state"`
	PropDate     string `json:"prop_date"`
	PropPriority string `json:"prop_priority"`

	MaxAttempts       int `json:"max_attempts"`
	RetryDelaySeconds int `json:"retry_delay_seconds"`
}

// DefaultSettings returns the settings used before any explicit save.
func DefaultSettings() *Settings {
	return &Settings{
		DefaultState:      "Pending",
		DefaultPriority:   "Medium",
		PropTitle:         "Activity",
		PropArea:          "Area",
		PropType:          "Type",
		PropState:         "Status",
		PropDate:          "Date",
		PropPriority:      "Priority",
		MaxAttempts:       5,
		RetryDelaySeconds: 60,
	}
}

// RetryDelay returns the interval between an error and the next retry.
func (s *Settings) RetryDelay() time.Duration {
	return time.Duration(s.RetryDelaySeconds) * time.Second
}

// PropertyNames lists every remote property name required by the sync engine.
func (s *Settings) PropertyNames() []string {
	return []string{
		s.PropTitle,
		s.PropArea,
		s.PropType,
		s.PropState,
		s.PropDate,
		s.PropPriority,
	}
}

// HasRemoteCredentials reports whether both the token and the database
// identifier are configured. Without them, governance falls back to a
// local-only degraded path.
func (s *Settings) HasRemoteCredentials() bool {
	return s.NotionToken != "" && s.NotionDatabaseID != ""
}

// ValidateForSync fails fast when any remote credential or property mapping
// is missing. No network call may be attempted on failure.
func (s *Settings) ValidateForSync() error {
	if s.NotionToken == "" {
		return goerr.Wrap(types.ErrConfiguration, "remote API token is not configured")
	}
	if s.NotionDatabaseID == "" {
		return goerr.Wrap(types.ErrConfiguration, "remote database ID is not configured")
	}
	for _, name := range s.PropertyNames() {
		if name == "" {
			return goerr.Wrap(types.ErrConfiguration, "remote property names must not be empty")
		}
	}
	return nil
}

// ResolvePropertyName maps a master category to the remote property whose
// select options it governs. The workflow-state category is deliberately
// absent: its values are system-locked and never reach a remote check.
func (s *Settings) ResolvePropertyName(category types.Category) (string, bool) {
	switch category {
	case types.CategoryArea:
		return s.PropArea, s.PropArea != ""
	case types.CategoryType:
		return s.PropType, s.PropType != ""
	case types.CategoryPriority:
		return s.PropPriority, s.PropPriority != ""
	case types.CategoryOrigin:
		return "Origin", true
	default:
		return "", false
	}
}
