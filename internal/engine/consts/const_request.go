package consts

// Trusted identity headers. When token auth is enabled they are rewritten
// from verified claims before the identity middleware reads them.
const (
	HeaderUserId    = "x-user-id"
	HeaderUserEmail = "x-user-email"
	HeaderUserRole  = "x-user-role"
	HeaderRequestId = "X-Request-Id"
)

// Request locals
const (
	IDENTITY   = "identity"
	REQUEST_ID = "request_id"
	CLIENT_IP  = "ip"
)
