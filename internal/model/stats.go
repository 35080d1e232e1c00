package model

// SubmissionStats aggregates the submissions filed against one standard.
// Counts are computed from stored submissions, never fabricated.
type SubmissionStats struct {
	Total           int                    `json:"total"`
	Pending         int                    `json:"pending"`
	PendingApproval int                    `json:"pendingApproval"`
	Approved        int                    `json:"approved"`
	Rejected        int                    `json:"rejected"`
	ByType          map[SubmissionType]int `json:"byType"`
	AcceptanceRate  float64                `json:"acceptanceRate"`
}

// NewSubmissionStats returns zeroed stats with the ByType map pre-filled so
// every evidence type always appears in API responses.
func NewSubmissionStats() SubmissionStats {
	by := make(map[SubmissionType]int, len(SubmissionTypes))
	for _, t := range SubmissionTypes {
		by[t] = 0
	}
	return SubmissionStats{ByType: by}
}

// Count registers one submission in the aggregate. AcceptanceRate must be
// recomputed afterwards via Finalize.
func (st *SubmissionStats) Count(sub *Submission) {
	st.Total++
	st.ByType[sub.Type]++
	switch sub.Status {
	case SubmissionPending:
		st.Pending++
	case SubmissionPendingApproval:
		st.PendingApproval++
	case SubmissionApproved:
		st.Approved++
	case SubmissionRejected:
		st.Rejected++
	}
}

// Finalize computes the acceptance rate, guarding the empty case.
func (st *SubmissionStats) Finalize() {
	if st.Total == 0 {
		st.AcceptanceRate = 0
		return
	}
	st.AcceptanceRate = float64(st.Approved) / float64(st.Total)
}

// OverallStats is the admin dashboard rollup across the whole catalog.
// StandardsByStatus counts every standard by its derived status, so the
// values always sum to TotalStandards.
type OverallStats struct {
	TotalStandards    int                    `json:"totalStandards"`
	StandardsByStatus map[StandardStatus]int `json:"standardsByStatus"`
	DidntSubmit       int                    `json:"didntSubmit"` // standards with zero submissions ever
	Submissions       SubmissionStats        `json:"submissions"`
}
