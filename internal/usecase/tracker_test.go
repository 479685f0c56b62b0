package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nixosbrasil/nixpkgs-tracker/internal/domain"
	"github.com/nixosbrasil/nixpkgs-tracker/internal/usecase"
)

// stubGitHub is a canned-answer GitHubClient.
type stubGitHub struct {
	branches    []string
	pr          *domain.PullRequest
	prErr       error
	approvers   []domain.User
	checks      []domain.CIStatus
	contained   map[string]bool
	containsErr map[string]error

	ciSHARequested string
}

func (s *stubGitHub) Branches(ctx context.Context, token string) []string {
	return s.branches
}

func (s *stubGitHub) PullRequest(ctx context.Context, token string, number int) (*domain.PullRequest, error) {
	return s.pr, s.prErr
}

func (s *stubGitHub) Approvers(ctx context.Context, token string, number int) ([]domain.User, error) {
	return s.approvers, nil
}

func (s *stubGitHub) DetailedCIStatus(ctx context.Context, token, sha string) ([]domain.CIStatus, error) {
	s.ciSHARequested = sha
	return s.checks, nil
}

func (s *stubGitHub) Contains(ctx context.Context, token, branch, commit string) (bool, error) {
	if err := s.containsErr[branch]; err != nil {
		return false, err
	}
	return s.contained[branch], nil
}

func TestTrackerRejectsInvalidPRNumber(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewTrackerUseCase(&stubGitHub{})

	_, err := uc.PullRequest(ctx, "", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidPRNumber)
	_, err = uc.Approvers(ctx, "", -3)
	assert.ErrorIs(t, err, domain.ErrInvalidPRNumber)
	_, err = uc.CIStatus(ctx, "", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidPRNumber)
	_, err = uc.Containment(ctx, "", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidPRNumber)
	_, err = uc.Report(ctx, "", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidPRNumber)
}

func TestCIStatusResolvesHeadCommit(t *testing.T) {
	gh := &stubGitHub{
		pr:     &domain.PullRequest{Status: http.StatusOK, HeadSHA: "cafebabe"},
		checks: []domain.CIStatus{{ID: "1", Name: "Build"}},
	}
	uc := usecase.NewTrackerUseCase(gh)

	checks, err := uc.CIStatus(context.Background(), "", 42)
	require.NoError(t, err)
	assert.Equal(t, "cafebabe", gh.ciSHARequested)
	assert.Len(t, checks, 1)
}

func TestCIStatusWithoutHeadIsEmpty(t *testing.T) {
	gh := &stubGitHub{pr: &domain.PullRequest{Status: http.StatusNotFound}}
	uc := usecase.NewTrackerUseCase(gh)

	checks, err := uc.CIStatus(context.Background(), "", 42)
	require.NoError(t, err)
	assert.Empty(t, checks)
	assert.Empty(t, gh.ciSHARequested)
}

func TestContainmentChecksEveryBranch(t *testing.T) {
	gh := &stubGitHub{
		branches: []string{"master", "nixos-unstable", "nixos-25.05"},
		pr: &domain.PullRequest{
			Status:         http.StatusOK,
			Merged:         true,
			MergeCommitSHA: "deadbeef",
		},
		contained:   map[string]bool{"master": true, "nixos-unstable": true},
		containsErr: map[string]error{"nixos-25.05": errors.New("boom")},
	}
	uc := usecase.NewTrackerUseCase(gh)

	result, err := uc.Containment(context.Background(), "", 42)
	require.NoError(t, err)
	require.NotNil(t, result.PR)

	// A probe failure reads as "not contained", not as a hard error.
	assert.Equal(t, map[string]bool{
		"master":         true,
		"nixos-unstable": true,
		"nixos-25.05":    false,
	}, result.Branches)
}

func TestContainmentWithoutMergeCommit(t *testing.T) {
	gh := &stubGitHub{
		branches:  []string{"master", "nixos-unstable"},
		pr:        &domain.PullRequest{Status: http.StatusOK},
		contained: map[string]bool{"master": true},
	}
	uc := usecase.NewTrackerUseCase(gh)

	result, err := uc.Containment(context.Background(), "", 42)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"master": false, "nixos-unstable": false}, result.Branches)
}

func TestReportAggregates(t *testing.T) {
	gh := &stubGitHub{
		pr: &domain.PullRequest{
			Status:  http.StatusOK,
			Title:   "glibc bump",
			HeadSHA: "cafebabe",
		},
		approvers: []domain.User{{Login: "alice"}},
		checks:    []domain.CIStatus{{ID: "1", Name: "Build", State: domain.CIStateSuccess}},
	}
	uc := usecase.NewTrackerUseCase(gh)

	report, err := uc.Report(context.Background(), "", 42)
	require.NoError(t, err)
	assert.Equal(t, "glibc bump", report.PR.Title)
	assert.Len(t, report.Approvers, 1)
	assert.Len(t, report.Checks, 1)
}

func TestReportShortCircuitsOnNotFound(t *testing.T) {
	gh := &stubGitHub{
		pr:        &domain.PullRequest{Status: http.StatusNotFound, HeadSHA: ""},
		approvers: []domain.User{{Login: "alice"}},
	}
	uc := usecase.NewTrackerUseCase(gh)

	report, err := uc.Report(context.Background(), "", 42)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, report.PR.Status)
	assert.Empty(t, report.Approvers)
	assert.Empty(t, report.Checks)
}

func TestReportPropagatesTransportError(t *testing.T) {
	gh := &stubGitHub{prErr: errors.New("connection refused")}
	uc := usecase.NewTrackerUseCase(gh)

	_, err := uc.Report(context.Background(), "", 42)
	assert.Error(t, err)
}
