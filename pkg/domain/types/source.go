package types

// Source tags where a captured note came from. It is free text on the wire,
// but the capture flow treats the pasted-email tag specially (signature
// stripping) and the tag participates in the dedup fingerprint, so renaming
// a value changes the identity space of every future capture.
type Source string

const (
	SourceManual      Source = "manual"
	SourcePastedEmail Source = "pasted_email"
	SourceSystem      Source = "system"
)

// Normalize returns the source, treating empty as SourceManual.
func (s Source) Normalize() Source {
	if s == "" {
		return SourceManual
	}
	return s
}

// String returns the string representation of the source
func (s Source) String() string {
	return string(s)
}
