package domain

// SessionInfo is the verified content of a session cookie.
type SessionInfo struct {
	Token string `json:"token"`
	Mode  string `json:"mode"`
}

// AuthorizationRedirect carries everything the authorize handler needs
// to start the OAuth redirect dance: the signed state token to set as a
// transient cookie and the upstream URL to redirect the browser to.
type AuthorizationRedirect struct {
	URL          string
	StateToken   string
	CookieMaxAge int
}
