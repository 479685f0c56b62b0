package domain

import "errors"

// Domain errors
var (
	// OAuth flow errors
	ErrMissingOAuthConfig = errors.New("missing oauth configuration")
	ErrMissingParameters  = errors.New("missing required parameters")
	ErrInvalidStateToken  = errors.New("invalid or expired oauth state token")
	ErrStateMismatch      = errors.New("oauth state mismatch")
	ErrTokenExchange      = errors.New("token exchange failed")

	// Session errors
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidSession   = errors.New("invalid or expired session")

	// Lookup errors
	ErrInvalidPRNumber = errors.New("invalid pull request number")
)

// HTTPError is the JSON error envelope body.
type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error HTTPError `json:"error"`
}

// Mapping of domain errors to wire-level error codes
var ErrorMapping = map[error]HTTPError{
	ErrMissingOAuthConfig: {Code: "MISSING_CONFIG", Message: "oauth environment variables are not configured"},
	ErrMissingParameters:  {Code: "MISSING_PARAMETERS", Message: "required request parameters are missing"},
	ErrInvalidStateToken:  {Code: "INVALID_STATE", Message: "invalid or expired oauth state token"},
	ErrStateMismatch:      {Code: "STATE_MISMATCH", Message: "csrf state mismatch"},
	ErrTokenExchange:      {Code: "EXCHANGE_FAILED", Message: "failed to exchange code for a token"},
	ErrNotAuthenticated:   {Code: "NOT_AUTHENTICATED", Message: "not authenticated"},
	ErrInvalidSession:     {Code: "INVALID_SESSION", Message: "invalid or expired session"},
	ErrInvalidPRNumber:    {Code: "INVALID_PR_NUMBER", Message: "pull request number must be a positive integer"},
}

// ToHTTPError resolves a domain error to its wire envelope. Wrapped
// errors match on the sentinel.
func ToHTTPError(err error) (HTTPError, bool) {
	for sentinel, httpErr := range ErrorMapping {
		if errors.Is(err, sentinel) {
			return httpErr, true
		}
	}
	return HTTPError{}, false
}
