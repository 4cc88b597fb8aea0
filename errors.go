package collision

// Error types attached to the errors returned by the package.
const (
	ErrTypeUnknownResponse = "unknown_response"
	ErrTypeUnsupportedPair = "unsupported_pair"
	ErrTypeInvalidPair     = "invalid_pair"
	ErrTypeInvalidConfig   = "invalid_config"
	ErrTypeContactCreation = "contact_creation_failed"
)
