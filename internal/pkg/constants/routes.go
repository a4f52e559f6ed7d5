package constants

// Static route constants
const (
	APIRoute   = "/api"
	APIV1Route = "/v1"
)
