package model

// StandardStatus is the derived review status shown for a standard as a
// whole: not_submitted when no evidence has been filed, otherwise the status
// of the most recently filed submission.
type StandardStatus string

const (
	StandardNotSubmitted    StandardStatus = "not_submitted"
	StandardPendingApproval StandardStatus = "pending_approval"
	StandardApproved        StandardStatus = "approved"
	StandardRejected        StandardStatus = "rejected"
)

// StandardStatuses lists every valid standard-level status.
var StandardStatuses = []StandardStatus{
	StandardNotSubmitted,
	StandardPendingApproval,
	StandardApproved,
	StandardRejected,
}

// ParseStandardStatus reports whether s names a known standard status.
func ParseStandardStatus(s string) (StandardStatus, bool) {
	for _, st := range StandardStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Standard represents one of the 80 Healthy City compliance standards.
// Standards are seeded once and never deleted; only the agency assignments
// change, and Status is always derived from the submission history.
type Standard struct {
	ID               int            `json:"id"`
	Text             string         `json:"text"`
	Requirements     []string       `json:"requirements"`
	AssignedAgencies []string       `json:"assignedAgencies"` // agency slugs
	Status           StandardStatus `json:"status"`
}

// AssignedTo reports whether the standard is assigned to the given agency slug.
func (s *Standard) AssignedTo(slug string) bool {
	for _, a := range s.AssignedAgencies {
		if a == slug {
			return true
		}
	}
	return false
}
