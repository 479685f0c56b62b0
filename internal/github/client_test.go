package github_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nixosbrasil/nixpkgs-tracker/internal/domain"
	"github.com/nixosbrasil/nixpkgs-tracker/internal/github"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestClient(t *testing.T, handler http.Handler) *github.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return github.NewClient(server.URL, "NixOS", "nixpkgs", quietLogger())
}

func TestBranchesMergesDiscoveredWithBaseline(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/NixOS/nixpkgs/git/matching-refs/heads/nix", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"ref": "refs/heads/nixos-24.11"},
			{"ref": "refs/heads/nixos-25.05"},
			{"ref": "refs/heads/nixos-25.05-small"},
			{"ref": "refs/heads/nixpkgs-25.05-darwin"},
			{"ref": "refs/heads/nixpkgs-24.11-darwin"},
			{"ref": "refs/heads/nixos-unstable"},
			{"ref": "refs/heads/nixos-rolling-small"},
			{"ref": "refs/heads/nixos-21.05-aarch64"}
		]`))
	}))

	branches := client.Branches(context.Background(), "")

	// Baseline first, then the 4 newest release branches. Names not
	// matching the release pattern (nixos-unstable, nixos-rolling-small,
	// nixos-21.05-aarch64) never make it into the augmentation.
	assert.Equal(t, []string{
		"staging-next",
		"master",
		"nixos-unstable-small",
		"nixpkgs-unstable",
		"nixos-unstable",
		"nixpkgs-25.05-darwin",
		"nixpkgs-24.11-darwin",
		"nixos-25.05-small",
		"nixos-25.05",
	}, branches)
}

func TestBranchesNumericAwareOrdering(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"ref": "refs/heads/nixos-9.99"},
			{"ref": "refs/heads/nixos-25.05"},
			{"ref": "refs/heads/nixos-105.05"}
		]`))
	}))

	branches := client.Branches(context.Background(), "")

	// 105.05 > 25.05 > 9.99 numerically, whatever the lexicographic
	// order says.
	assert.Equal(t, []string{"nixos-105.05", "nixos-25.05", "nixos-9.99"}, branches[len(branches)-3:])
}

func TestBranchesFallsBackOnUpstreamError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	branches := client.Branches(context.Background(), "")
	assert.Equal(t, github.BaselineBranches, branches)
}

func TestBranchesFallsBackOnTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()
	client := github.NewClient(server.URL, "NixOS", "nixpkgs", quietLogger())

	branches := client.Branches(context.Background(), "")
	assert.Equal(t, github.BaselineBranches, branches)
}

func TestPullRequestMerged(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/NixOS/nixpkgs/pulls/12345", r.URL.Path)
		assert.Equal(t, "application/vnd.github.html+json", r.Header.Get("Accept"))
		assert.Equal(t, "token gho_abc123", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{
			"title": "glibc: 2.39 -> 2.40",
			"state": "closed",
			"merged_at": "2026-08-01T10:20:30Z",
			"merge_commit_sha": "deadbeef",
			"body": "bump",
			"body_html": "<p>bump</p>",
			"user": {"login": "alice", "avatar_url": "https://a", "html_url": "https://b"},
			"merged_by": {"login": "bob"},
			"labels": [{"name": "10.rebuild-linux: 1-10"}],
			"base": {"ref": "staging"},
			"head": {"sha": "cafebabe"}
		}`))
	}))

	pr, err := client.PullRequest(context.Background(), "gho_abc123", 12345)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, pr.Status)
	assert.Equal(t, "glibc: 2.39 -> 2.40", pr.Title)
	assert.True(t, pr.Merged)
	assert.False(t, pr.Closed)
	assert.Equal(t, "staging", pr.Base)
	assert.Equal(t, "deadbeef", pr.MergeCommitSHA)
	assert.Equal(t, "cafebabe", pr.HeadSHA)
	assert.Equal(t, "<p>bump</p>", pr.BodyHTML)
	require.NotNil(t, pr.User)
	assert.Equal(t, "alice", pr.User.Login)
	require.NotNil(t, pr.MergedBy)
	assert.Equal(t, "bob", pr.MergedBy.Login)
}

func TestPullRequestClosedVsMerged(t *testing.T) {
	testCases := []struct {
		name   string
		body   string
		closed bool
		merged bool
	}{
		{"Open", `{"state": "open", "merged_at": null}`, false, false},
		{"Closed unmerged", `{"state": "closed", "merged_at": null}`, true, false},
		{"Closed merged", `{"state": "closed", "merged_at": "2026-08-01T10:20:30Z"}`, false, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))

			pr, err := client.PullRequest(context.Background(), "", 1)
			require.NoError(t, err)
			assert.Equal(t, tc.closed, pr.Closed)
			assert.Equal(t, tc.merged, pr.Merged)
			// Closed and merged are mutually exclusive by construction.
			assert.False(t, pr.Closed && pr.Merged)
		})
	}
}

func TestPullRequestPropagatesUpstreamStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	}))

	pr, err := client.PullRequest(context.Background(), "", 999999999)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, pr.Status)
	assert.Empty(t, pr.Title)
}

func TestApproversFiltersAndDeduplicates(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/NixOS/nixpkgs/pulls/42/reviews", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"state": "APPROVED", "user": {"login": "alice", "avatar_url": "https://old"}},
			{"state": "COMMENTED", "user": {"login": "bob"}},
			{"state": "CHANGES_REQUESTED", "user": {"login": "carol"}},
			{"state": "APPROVED", "user": {"login": "alice", "avatar_url": "https://new"}},
			{"state": "APPROVED", "user": {"login": "dave"}}
		]`))
	}))

	approvers, err := client.Approvers(context.Background(), "", 42)
	require.NoError(t, err)
	require.Len(t, approvers, 2)

	byLogin := make(map[string]domain.User)
	for _, user := range approvers {
		byLogin[user.Login] = user
	}
	assert.Contains(t, byLogin, "dave")
	require.Contains(t, byLogin, "alice")
	// Last review for an identity wins.
	assert.Equal(t, "https://new", byLogin["alice"].AvatarURL)
}

func TestApproversSoftFailsOnUpstreamError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	approvers, err := client.Approvers(context.Background(), "", 42)
	require.NoError(t, err)
	assert.Empty(t, approvers)
}

func TestDetailedCIStatusMergesSources(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/NixOS/nixpkgs/commits/cafebabe/statuses":
			// Newest first: the first ci/build entry wins.
			_, _ = w.Write([]byte(`[
				{"id": 2, "context": "ci/build", "state": "success", "target_url": "https://s2", "description": "done"},
				{"id": 1, "context": "ci/build", "state": "pending", "target_url": "https://s1", "description": "started"},
				{"id": 3, "context": "ofborg/eval", "state": "failure", "target_url": "https://s3", "description": ""}
			]`))
		case "/repos/NixOS/nixpkgs/commits/cafebabe/check-runs":
			_, _ = w.Write([]byte(`{"check_runs": [
				{"id": 10, "name": "Build x86_64", "status": "completed", "conclusion": "success", "html_url": "https://c1", "output": {"title": "all good"}},
				{"id": 11, "name": "Eval", "status": "in_progress", "conclusion": null, "html_url": "https://c2"},
				{"id": 12, "name": "Lint", "status": "completed", "conclusion": "skipped", "html_url": "https://c3"},
				{"id": 13, "name": "Test", "status": "completed", "conclusion": "timed_out", "html_url": "https://c4"}
			]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	checks, err := client.DetailedCIStatus(context.Background(), "", "cafebabe")
	require.NoError(t, err)
	require.Len(t, checks, 6)

	// Legacy statuses first, deduplicated by context, newest kept.
	assert.Equal(t, "ci/build", checks[0].Name)
	assert.Equal(t, "2", checks[0].ID)
	assert.Equal(t, domain.CIStateSuccess, checks[0].State)
	assert.Equal(t, "ofborg/eval", checks[1].Name)
	assert.Equal(t, domain.CIStateFailure, checks[1].State)

	// Check-runs after, states normalized.
	assert.Equal(t, "Build x86_64", checks[2].Name)
	assert.Equal(t, domain.CIStateSuccess, checks[2].State)
	assert.Equal(t, "all good", checks[2].Description)
	assert.Equal(t, domain.CIStatePending, checks[3].State)
	assert.Equal(t, domain.CIStateNeutral, checks[4].State)
	assert.Equal(t, domain.CIStateFailure, checks[5].State)
}

func TestDetailedCIStatusDegradesPerSource(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/NixOS/nixpkgs/commits/cafebabe/statuses":
			w.WriteHeader(http.StatusBadGateway)
		case "/repos/NixOS/nixpkgs/commits/cafebabe/check-runs":
			_, _ = w.Write([]byte(`{"check_runs": [
				{"id": 10, "name": "Build x86_64", "status": "completed", "conclusion": "success", "html_url": "https://c1"}
			]}`))
		}
	}))

	checks, err := client.DetailedCIStatus(context.Background(), "", "cafebabe")
	require.NoError(t, err)
	require.Len(t, checks, 1)
	assert.Equal(t, "Build x86_64", checks[0].Name)
}

func TestContains(t *testing.T) {
	testCases := []struct {
		name      string
		status    int
		body      string
		contained bool
	}{
		{"Identical", 200, `{"status": "identical"}`, true},
		{"Behind", 200, `{"status": "behind"}`, true},
		{"Ahead", 200, `{"status": "ahead"}`, false},
		{"Diverged", 200, `{"status": "diverged"}`, false},
		{"Unknown pair", 404, `{"message": "Not Found"}`, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/repos/NixOS/nixpkgs/compare/nixos-unstable...deadbeef", r.URL.Path)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))

			contained, err := client.Contains(context.Background(), "", "nixos-unstable", "deadbeef")
			require.NoError(t, err)
			assert.Equal(t, tc.contained, contained)
		})
	}
}
