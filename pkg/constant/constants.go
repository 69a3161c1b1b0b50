package constants

// Keys stored on the gin context by the identity middleware.
const (
	AccountIDField = "account_id"
	RoleField      = "role"
	LangField      = "lang"
	DbField        = "db"
)

// Session keys.
const (
	SessionAccountID = "account_id"
	SessionRole      = "role"
)

// Trusted gateway headers (see the access-control contract: the upstream
// directory service authenticates and forwards identity).
const (
	HeaderAccountID = "X-Account-ID"
	HeaderRole      = "X-Account-Role"
)
