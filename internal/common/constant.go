package common

// AuthorizationHeaderName is the HTTP header carrying the session token on
// guarded requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the scheme prefix expected in the Authorization header.
const BearerPrefix = "Bearer"
