package constants

// Session
const (
	SessionCookieName = "retrohub_session"
	ContextKeyUserID  = "user_id"
)

// Validation
const (
	MinPasswordLength           = 8
	MinProjectNameLength        = 3
	MinProjectDescriptionLength = 10
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Uploads
const (
	// MaxMultipartMemory is the in-memory buffer for multipart parsing (32MB).
	MaxMultipartMemory = 32 << 20
)

// AI
const (
	MaxSuggestedTags = 10
)
