package domain

import "context"

// User is the public GitHub profile attached to PRs and reviews.
type User struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

// Label is a GitHub issue/PR label.
type Label struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// PullRequest is a read-only projection of the upstream PR resource.
// Status carries the upstream HTTP status of the fetch so callers can
// tell "not found" from a transient failure without an error path.
type PullRequest struct {
	Title          string  `json:"title"`
	Status         int     `json:"status"`
	Closed         bool    `json:"closed"`
	Merged         bool    `json:"merged"`
	Base           string  `json:"base"`
	MergeCommitSHA string  `json:"merge_commit_sha"`
	Body           string  `json:"body"`
	BodyHTML       string  `json:"body_html,omitempty"`
	User           *User   `json:"user"`
	MergedBy       *User   `json:"merged_by"`
	Labels         []Label `json:"labels"`
	HeadSHA        string  `json:"head_sha"`
}

// GitHubClient defines the contract for the upstream GitHub REST API,
// scoped to the single tracked repository. An empty token means
// anonymous (rate-limited) access.
type GitHubClient interface {
	// Branches returns the candidate branch universe for containment
	// checks. It never fails: upstream errors degrade to the fixed
	// baseline list.
	Branches(ctx context.Context, token string) []string

	// PullRequest fetches PR metadata. Non-200 upstream responses are
	// not errors; the status is reported on the returned projection.
	PullRequest(ctx context.Context, token string, number int) (*PullRequest, error)

	// Approvers returns the deduplicated set of users with an approving
	// review. Upstream failures degrade to an empty list.
	Approvers(ctx context.Context, token string, number int) ([]User, error)

	// DetailedCIStatus merges legacy commit statuses and check-runs for
	// a commit.
	DetailedCIStatus(ctx context.Context, token, sha string) ([]CIStatus, error)

	// Contains reports whether commit is reachable from the tip of
	// branch. An unknown branch/commit pair resolves to false, not an
	// error.
	Contains(ctx context.Context, token, branch, commit string) (bool, error)
}
