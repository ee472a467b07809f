package enrich

// Exported for testing purposes
var (
	ParseResponse  = parseResponse
	FallbackAction = fallbackAction
)

const FallbackPrefix = fallbackPrefix
