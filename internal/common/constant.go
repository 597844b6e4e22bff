package common

// SessionCookieName is the cookie that carries the signed session token.
// The name matches the authorization header slot the frontend expects.
const SessionCookieName = "authorization"
