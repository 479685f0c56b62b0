package github

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"sort"
	"strings"
)

// BaselineBranches are always offered for containment checks, whatever
// the upstream ref listing says.
var BaselineBranches = []string{
	"staging-next",
	"master",
	"nixos-unstable-small",
	"nixpkgs-unstable",
	"nixos-unstable",
}

// releaseBranchRe matches stable release branches, e.g. nixos-25.05,
// nixpkgs-25.05-darwin, nixos-24.11-small.
var releaseBranchRe = regexp.MustCompile(`^(nixos|nixpkgs)-\d+\.\d+(-small|-darwin)?$`)

// discoveredLimit keeps only the newest few stable branches (roughly
// two nixos + two nixpkgs).
const discoveredLimit = 4

// Branches returns the baseline branches plus the newest stable release
// branches discovered upstream, deduplicated. Any upstream failure
// falls back to the baseline alone.
func (c *Client) Branches(ctx context.Context, token string) []string {
	resp, err := c.get(ctx, token, c.repoPath("/git/matching-refs/heads/nix"), "")
	if err != nil {
		c.logger.WithError(err).Warn("Branch listing failed, using baseline branches")
		return baseline()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("status", resp.StatusCode).Warn("Branch listing failed, using baseline branches")
		return baseline()
	}

	var refs []struct {
		Ref string `json:"ref"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&refs); err != nil {
		c.logger.WithError(err).Warn("Branch listing decode failed, using baseline branches")
		return baseline()
	}

	var discovered []string
	for _, ref := range refs {
		name := strings.TrimPrefix(ref.Ref, "refs/heads/")
		if releaseBranchRe.MatchString(name) {
			discovered = append(discovered, name)
		}
	}

	// Newest release first: 25.05 sorts above 24.11.
	sort.Slice(discovered, func(i, j int) bool {
		return naturalCompare(discovered[i], discovered[j]) > 0
	})
	if len(discovered) > discoveredLimit {
		discovered = discovered[:discoveredLimit]
	}

	return dedupe(append(baseline(), discovered...))
}

func baseline() []string {
	out := make([]string, len(BaselineBranches))
	copy(out, BaselineBranches)
	return out
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// naturalCompare orders strings byte-wise but compares runs of digits
// numerically, so nixos-25.05 > nixos-9.99.
func naturalCompare(a, b string) int {
	for a != "" && b != "" {
		if isDigit(a[0]) && isDigit(b[0]) {
			na, restA := takeNumber(a)
			nb, restB := takeNumber(b)
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
			a, b = restA, restB
			continue
		}
		if a[0] != b[0] {
			if a[0] < b[0] {
				return -1
			}
			return 1
		}
		a, b = a[1:], b[1:]
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func takeNumber(s string) (int, string) {
	i := 0
	n := 0
	for i < len(s) && isDigit(s[i]) {
		n = n*10 + int(s[i]-'0')
		i++
	}
	return n, s[i:]
}
