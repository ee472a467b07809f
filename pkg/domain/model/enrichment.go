package model

import "strings"

// Enrichment is the canonical result of the text-understanding call: a short
// summary, a flat list of atomic action strings and suggested classification
// fields. The zero value is the neutral result used when enrichment fails.
type Enrichment struct {
	Summary           string
	Actions           []string
	SuggestedType     string
	SuggestedPriority string
}

// IsZero reports whether the enrichment carries no information.
func (e *Enrichment) IsZero() bool {
	return e.Summary == "" && len(e.Actions) == 0 &&
		e.SuggestedType == "" && e.SuggestedPriority == ""
}

// ActionsText joins the action list into the denormalized display field.
func (e *Enrichment) ActionsText() string {
	return strings.Join(e.Actions, "\n")
}
