package usecase

import (
	"context"

	"github.com/nixosbrasil/nixpkgs-tracker/internal/domain"
)

// TrackerUseCase orchestrates GitHub lookups for tracked PRs.
type TrackerUseCase struct {
	gh domain.GitHubClient
}

// NewTrackerUseCase creates a new TrackerUseCase.
func NewTrackerUseCase(gh domain.GitHubClient) domain.TrackerUseCase {
	return &TrackerUseCase{gh: gh}
}

// Branches returns the candidate branch universe.
func (uc *TrackerUseCase) Branches(ctx context.Context, token string) []string {
	return uc.gh.Branches(ctx, token)
}

// PullRequest fetches one PR projection.
func (uc *TrackerUseCase) PullRequest(ctx context.Context, token string, number int) (*domain.PullRequest, error) {
	if number <= 0 {
		return nil, domain.ErrInvalidPRNumber
	}
	return uc.gh.PullRequest(ctx, token, number)
}

// Approvers returns the deduplicated approving reviewers of a PR.
func (uc *TrackerUseCase) Approvers(ctx context.Context, token string, number int) ([]domain.User, error) {
	if number <= 0 {
		return nil, domain.ErrInvalidPRNumber
	}
	return uc.gh.Approvers(ctx, token, number)
}

// CIStatus resolves the PR's head commit and returns its merged CI
// entries. A PR without a resolvable head yields an empty list.
func (uc *TrackerUseCase) CIStatus(ctx context.Context, token string, number int) ([]domain.CIStatus, error) {
	if number <= 0 {
		return nil, domain.ErrInvalidPRNumber
	}

	pr, err := uc.gh.PullRequest(ctx, token, number)
	if err != nil {
		return nil, err
	}
	if pr.HeadSHA == "" {
		return []domain.CIStatus{}, nil
	}
	return uc.gh.DetailedCIStatus(ctx, token, pr.HeadSHA)
}

// Containment checks every candidate branch for the PR's merge commit.
// Branches are probed one by one; a probe failure counts as "not
// contained" rather than failing the whole lookup.
func (uc *TrackerUseCase) Containment(ctx context.Context, token string, number int) (*domain.ContainmentResult, error) {
	if number <= 0 {
		return nil, domain.ErrInvalidPRNumber
	}

	pr, err := uc.gh.PullRequest(ctx, token, number)
	if err != nil {
		return nil, err
	}

	result := &domain.ContainmentResult{
		PR:       pr,
		Branches: make(map[string]bool),
	}

	for _, branch := range uc.gh.Branches(ctx, token) {
		contained := false
		if pr.MergeCommitSHA != "" {
			ok, err := uc.gh.Contains(ctx, token, branch, pr.MergeCommitSHA)
			contained = err == nil && ok
		}
		result.Branches[branch] = contained
	}
	return result, nil
}

// Report bundles PR metadata, approvers and CI status for the UI.
func (uc *TrackerUseCase) Report(ctx context.Context, token string, number int) (*domain.Report, error) {
	if number <= 0 {
		return nil, domain.ErrInvalidPRNumber
	}

	pr, err := uc.gh.PullRequest(ctx, token, number)
	if err != nil {
		return nil, err
	}

	report := &domain.Report{
		PR:        pr,
		Approvers: []domain.User{},
		Checks:    []domain.CIStatus{},
	}
	if pr.Status != 200 {
		return report, nil
	}

	approvers, err := uc.gh.Approvers(ctx, token, number)
	if err == nil {
		report.Approvers = approvers
	}
	if pr.HeadSHA != "" {
		checks, err := uc.gh.DetailedCIStatus(ctx, token, pr.HeadSHA)
		if err == nil {
			report.Checks = checks
		}
	}
	return report, nil
}
