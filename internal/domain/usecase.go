package domain

import "context"

// AuthUseCase implements the three-step OAuth redirect protocol and the
// session read-back used by the browser to sync its token.
type AuthUseCase interface {
	BeginAuthorization(mode string) (*AuthorizationRedirect, error)
	CompleteAuthorization(ctx context.Context, code, stateParam, stateCookie string) (string, error)
	ReadSession(raw string) (*SessionInfo, error)
}

// TrackerUseCase aggregates GitHub data for a tracked pull request.
type TrackerUseCase interface {
	Branches(ctx context.Context, token string) []string
	PullRequest(ctx context.Context, token string, number int) (*PullRequest, error)
	Approvers(ctx context.Context, token string, number int) ([]User, error)
	CIStatus(ctx context.Context, token string, number int) ([]CIStatus, error)
	Containment(ctx context.Context, token string, number int) (*ContainmentResult, error)
	Report(ctx context.Context, token string, number int) (*Report, error)
}

// ContainmentResult maps each candidate branch to whether the PR's
// merge commit is already reachable from its tip.
type ContainmentResult struct {
	PR       *PullRequest    `json:"pr"`
	Branches map[string]bool `json:"branches"`
}

// Report bundles everything the UI shows for one pull request.
type Report struct {
	PR        *PullRequest `json:"pr"`
	Approvers []User       `json:"approvers"`
	Checks    []CIStatus   `json:"checks"`
}

// HistoryUseCase manages the per-user lookup history. An empty owner
// means "no authenticated session": every operation is then a silent
// no-op (or empty result), never an error.
type HistoryUseCase interface {
	List(ctx context.Context, owner string) ([]HistoryEntry, error)
	Save(ctx context.Context, owner string, entry HistoryEntry) error
	LookupTitle(ctx context.Context, owner string, pr int) (string, error)
	Delete(ctx context.Context, owner string, pr int) error
}
