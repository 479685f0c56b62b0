package domain

// CIState is the normalized state of a CI entry.
type CIState string

const (
	CIStateSuccess CIState = "success"
	CIStateFailure CIState = "failure"
	CIStatePending CIState = "pending"
	CIStateNeutral CIState = "neutral"
)

// CIStatus is one CI result for a commit, merged from two upstream
// sources: legacy commit statuses (e.g. OfBorg) keep their raw state,
// check-runs (e.g. GitHub Actions) are normalized to a CIState value.
type CIStatus struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	State       CIState `json:"state"`
	URL         string  `json:"url"`
	Description string  `json:"description"`
}
