// Package github is a thin typed client for the slice of the GitHub
// REST API the tracker needs, scoped to one fixed repository.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/nixosbrasil/nixpkgs-tracker/internal/domain"
)

// Client talks to the GitHub REST API for a single owner/repo pair.
type Client struct {
	baseURL string
	owner   string
	repo    string
	httpc   *http.Client
	logger  *logrus.Logger
}

// NewClient creates a client for the given API base URL (usually
// https://api.github.com) and repository.
func NewClient(baseURL, owner, repo string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		owner:   owner,
		repo:    repo,
		httpc:   &http.Client{},
		logger:  logger,
	}
}

var _ domain.GitHubClient = &Client{}

func (c *Client) repoPath(suffix string) string {
	return fmt.Sprintf("%s/repos/%s/%s%s", c.baseURL, c.owner, c.repo, suffix)
}

// get issues an authenticated GET when a token is present, anonymous
// otherwise.
func (c *Client) get(ctx context.Context, token, url, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if accept == "" {
		accept = "application/vnd.github+json"
	}
	req.Header.Set("Accept", accept)
	if token != "" {
		req.Header.Set("Authorization", "token "+token)
	}
	return c.httpc.Do(req)
}

type prPayload struct {
	Title          string         `json:"title"`
	State          string         `json:"state"`
	MergedAt       *string        `json:"merged_at"`
	MergeCommitSHA string         `json:"merge_commit_sha"`
	Body           string         `json:"body"`
	BodyHTML       string         `json:"body_html"`
	User           *domain.User   `json:"user"`
	MergedBy       *domain.User   `json:"merged_by"`
	Labels         []domain.Label `json:"labels"`
	Base           *struct {
		Ref string `json:"ref"`
	} `json:"base"`
	Head *struct {
		SHA string `json:"sha"`
	} `json:"head"`
}

// PullRequest fetches the PR resource, requesting an HTML-rendered body
// alongside the raw one. Non-200 responses are reported through the
// Status field, not as errors.
func (c *Client) PullRequest(ctx context.Context, token string, number int) (*domain.PullRequest, error) {
	resp, err := c.get(ctx, token, c.repoPath(fmt.Sprintf("/pulls/%d", number)), "application/vnd.github.html+json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Error bodies ({"message": ...}) decode into an empty payload.
	var data prPayload
	_ = json.NewDecoder(resp.Body).Decode(&data)

	pr := &domain.PullRequest{
		Title:          data.Title,
		Status:         resp.StatusCode,
		Closed:         data.State == "closed" && data.MergedAt == nil,
		Merged:         data.MergedAt != nil,
		MergeCommitSHA: data.MergeCommitSHA,
		Body:           data.Body,
		BodyHTML:       data.BodyHTML,
		User:           data.User,
		MergedBy:       data.MergedBy,
		Labels:         data.Labels,
	}
	if data.Base != nil {
		pr.Base = data.Base.Ref
	}
	if data.Head != nil {
		pr.HeadSHA = data.Head.SHA
	}
	return pr, nil
}

// Approvers returns the users whose latest approving review still
// stands, one entry per login.
func (c *Client) Approvers(ctx context.Context, token string, number int) ([]domain.User, error) {
	resp, err := c.get(ctx, token, c.repoPath(fmt.Sprintf("/pulls/%d/reviews", number)), "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{"pr": number, "status": resp.StatusCode}).Warn("Review listing failed, returning no approvers")
		return []domain.User{}, nil
	}

	var reviews []struct {
		State string      `json:"state"`
		User  domain.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reviews); err != nil {
		return nil, err
	}

	approvers := make(map[string]domain.User)
	for _, review := range reviews {
		if review.State == "APPROVED" {
			approvers[review.User.Login] = review.User
		}
	}

	result := make([]domain.User, 0, len(approvers))
	for _, user := range approvers {
		result = append(result, user)
	}
	return result, nil
}

type commitStatus struct {
	ID          int64  `json:"id"`
	Context     string `json:"context"`
	State       string `json:"state"`
	TargetURL   string `json:"target_url"`
	Description string `json:"description"`
}

type checkRun struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	Conclusion string `json:"conclusion"`
	HTMLURL    string `json:"html_url"`
	Output     *struct {
		Title string `json:"title"`
	} `json:"output"`
}

// DetailedCIStatus fetches legacy commit statuses and check-runs for a
// commit concurrently and merges them: statuses first (newest entry per
// context wins), check-runs after, no cross-group deduplication.
// Failure of either fetch degrades that group to empty.
func (c *Client) DetailedCIStatus(ctx context.Context, token, sha string) ([]domain.CIStatus, error) {
	var (
		statuses []commitStatus
		runs     []checkRun
		wg       sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		statuses = c.fetchStatuses(ctx, token, sha)
	}()
	go func() {
		defer wg.Done()
		runs = c.fetchCheckRuns(ctx, token, sha)
	}()
	wg.Wait()

	result := make([]domain.CIStatus, 0, len(statuses)+len(runs))

	seen := make(map[string]bool)
	for _, s := range statuses {
		if seen[s.Context] {
			continue
		}
		seen[s.Context] = true
		result = append(result, domain.CIStatus{
			ID:          strconv.FormatInt(s.ID, 10),
			Name:        s.Context,
			State:       domain.CIState(s.State),
			URL:         s.TargetURL,
			Description: s.Description,
		})
	}

	for _, run := range runs {
		state := domain.CIStatePending
		if run.Status == "completed" {
			switch run.Conclusion {
			case "success":
				state = domain.CIStateSuccess
			case "skipped", "neutral":
				state = domain.CIStateNeutral
			default:
				state = domain.CIStateFailure
			}
		}

		entry := domain.CIStatus{
			ID:    strconv.FormatInt(run.ID, 10),
			Name:  run.Name,
			State: state,
			URL:   run.HTMLURL,
		}
		if run.Output != nil {
			entry.Description = run.Output.Title
		}
		result = append(result, entry)
	}

	return result, nil
}

func (c *Client) fetchStatuses(ctx context.Context, token, sha string) []commitStatus {
	resp, err := c.get(ctx, token, c.repoPath("/commits/"+sha+"/statuses"), "")
	if err != nil {
		c.logger.WithError(err).Warn("Commit status fetch failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("status", resp.StatusCode).Warn("Commit status fetch failed")
		return nil
	}

	var statuses []commitStatus
	if err := json.NewDecoder(resp.Body).Decode(&statuses); err != nil {
		c.logger.WithError(err).Warn("Commit status decode failed")
		return nil
	}
	return statuses
}

func (c *Client) fetchCheckRuns(ctx context.Context, token, sha string) []checkRun {
	resp, err := c.get(ctx, token, c.repoPath("/commits/"+sha+"/check-runs"), "")
	if err != nil {
		c.logger.WithError(err).Warn("Check-run fetch failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("status", resp.StatusCode).Warn("Check-run fetch failed")
		return nil
	}

	var data struct {
		CheckRuns []checkRun `json:"check_runs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		c.logger.WithError(err).Warn("Check-run decode failed")
		return nil
	}
	return data.CheckRuns
}

// Contains reports whether commit is reachable from the tip of branch,
// using the compare endpoint. "identical" and "behind" mean the branch
// already carries the commit; 404 resolves to false.
func (c *Client) Contains(ctx context.Context, token, branch, commit string) (bool, error) {
	resp, err := c.get(ctx, token, c.repoPath(fmt.Sprintf("/compare/%s...%s", branch, commit)), "")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}

	var data struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return false, err
	}
	return data.Status == "identical" || data.Status == "behind", nil
}
