package common

// AccessTokenHeaderName is the HTTP header that carries the session token on
// inbound requests.
const AccessTokenHeaderName = "X-API-AUTH-TOKEN"

// TokenCookieName is the cookie set at login; the request gate falls back to
// it when the header is absent.
const TokenCookieName = "token"
