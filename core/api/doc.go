// Package api exposes token profiles over HTTP.
//
// Routes:
//
//	GET  /healthz                       alias of /health/live
//	GET  /health/live
//	GET  /health/ready                  503 when no profile is registered
//	GET  /v1/profiles
//	POST /v1/profiles/:profile/sign     {"subject","audience","expires_in_minutes","claims","generate_id"}
//	POST /v1/profiles/:profile/verify   {"token"} -> {"valid": bool}
//	POST /v1/profiles/:profile/revoke   {"token"} -> 204; the token needs a jti
//	GET  /v1/profiles/:profile/claims   Authorization: Bearer <token>
//
// Verification always answers 200 with a boolean; the reason for a
// rejected token is only logged at debug level. RequireToken can be used
// on its own to protect other echo routes.
package api
