package model

import (
	"strings"
	"time"

	"github.com/notedrop/notedrop/pkg/domain/types"
)

const (
	// MaxTitleLength bounds the derived note title.
	MaxTitleLength = 120

	// DefaultTitle is used when neither the caller nor the text yields one.
	DefaultTitle = "Untitled"
)

// Note is a captured, possibly-enriched item waiting in the local outbox.
// Notes are never deleted by the core; the sync engine owns every status
// transition after creation.
type Note struct {
	ID          int64
	CreatedAt   time.Time
	Source      types.Source
	Fingerprint string
	Title       string
	RawText     string
	Area        string
	Type        string
	State       string
	Priority    string
	DueDate     string
	Summary     string

	// ActionsText is the denormalized newline-joined list of action
	// descriptions. Legacy display field; the Action rows are authoritative.
	ActionsText string

	Status      types.SyncStatus
	RemoteID    string
	LastError   string
	Attempts    int
	NextRetryAt *time.Time
}

// CreateNoteRequest is the input payload of the capture flow. Empty
// classification fields are resolved against enrichment suggestions and
// settings defaults.
type CreateNoteRequest struct {
	RawText  string
	Source   types.Source
	Title    string
	Area     string
	Type     string
	State    string
	Priority string
	DueDate  string
}

// DeriveTitle resolves the note title: caller-supplied if non-empty, else
// the first line of the normalized text bounded to MaxTitleLength, else a
// placeholder.
func DeriveTitle(requested, normalized string) string {
	if title := strings.TrimSpace(requested); title != "" {
		return title
	}
	firstLine, _, _ := strings.Cut(normalized, "\n")
	firstLine = TruncateRunes(firstLine, MaxTitleLength)
	if firstLine == "" {
		return DefaultTitle
	}
	return firstLine
}

// ActionLines splits the denormalized actions field into its non-empty lines.
func (n *Note) ActionLines() []string {
	var lines []string
	for _, line := range strings.Split(n.ActionsText, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
