package common

// SessionCookieName is the default name of the http-only cookie carrying
// the opaque session token.
const SessionCookieName = "session_id"
