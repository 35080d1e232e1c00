package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthycity/compliance/internal/model"
)

func TestSubmitFilesEvidence(t *testing.T) {
	ctx := context.Background()
	mem := newCatalogStore(t, 80)
	svc := NewSubmissions(mem.Standards(), mem.Submissions())

	sub, err := svc.Submit(ctx, 41, NewSubmission{
		Type:        "text",
		Title:       "Q1 inspection report",
		Description: "Quarterly housing upgrade inspection",
		SubmittedBy: "Housing Authority",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, model.SubmissionPendingApproval, sub.Status)
	assert.Equal(t, "housing-authority", sub.SubmittedBy)
	assert.False(t, sub.SubmittedAt.IsZero())

	// Filing moves the standard's derived status off not_submitted.
	st, err := mem.Standards().GetByID(ctx, 41)
	require.NoError(t, err)
	assert.Equal(t, model.StandardPendingApproval, st.Status)

	stats, err := svc.StatsFor(ctx, 41)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.PendingApproval)
	assert.Equal(t, 1, stats.ByType[model.TypeText])
	assert.Equal(t, 0.0, stats.AcceptanceRate)
}

func TestSubmitValidation(t *testing.T) {
	ctx := context.Background()
	mem := newCatalogStore(t, 5)
	svc := NewSubmissions(mem.Standards(), mem.Submissions())

	_, err := svc.Submit(ctx, 99, NewSubmission{Type: "text", Title: "Report"})
	assert.True(t, errors.Is(err, model.ErrNotFound))

	_, err = svc.Submit(ctx, 1, NewSubmission{Type: "text", Title: "  "})
	assert.True(t, errors.Is(err, model.ErrValidation))

	_, err = svc.Submit(ctx, 1, NewSubmission{Type: "spreadsheet", Title: "Report"})
	assert.True(t, errors.Is(err, model.ErrValidation))

	// Nothing was stored for the failed attempts.
	subs, err := svc.ListForStandard(ctx, 1, "")
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestReviewApprove(t *testing.T) {
	ctx := context.Background()
	mem := newCatalogStore(t, 80)
	svc := NewSubmissions(mem.Standards(), mem.Submissions())

	sub, err := svc.Submit(ctx, 41, NewSubmission{Type: "text", Title: "Q1 report"})
	require.NoError(t, err)

	approved, err := svc.Review(ctx, sub.ID, "approved", "evidence complete")
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionApproved, approved.Status)
	assert.Equal(t, "evidence complete", approved.Notes)

	st, err := mem.Standards().GetByID(ctx, 41)
	require.NoError(t, err)
	assert.Equal(t, model.StandardApproved, st.Status)

	stats, err := svc.StatsFor(ctx, 41)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Approved)
	assert.InDelta(t, 1.0, stats.AcceptanceRate, 1e-9)
}

func TestReviewTerminalIsFinal(t *testing.T) {
	ctx := context.Background()
	mem := newCatalogStore(t, 5)
	svc := NewSubmissions(mem.Standards(), mem.Submissions())

	sub, err := svc.Submit(ctx, 1, NewSubmission{Type: "pdf", Title: "Audit"})
	require.NoError(t, err)
	_, err = svc.Review(ctx, sub.ID, "rejected", "missing appendix")
	require.NoError(t, err)

	// A terminal submission accepts no further review.
	_, err = svc.Review(ctx, sub.ID, "approved", "")
	assert.True(t, errors.Is(err, model.ErrInvalidTransition))
	_, err = svc.Review(ctx, sub.ID, "rejected", "")
	assert.True(t, errors.Is(err, model.ErrInvalidTransition))

	got, err := svc.Get(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionRejected, got.Status)
	assert.Equal(t, "missing appendix", got.Notes)
}

func TestReviewDraftLifecycle(t *testing.T) {
	ctx := context.Background()
	mem := newCatalogStore(t, 5)
	svc := NewSubmissions(mem.Standards(), mem.Submissions())

	draft, err := svc.Submit(ctx, 2, NewSubmission{Type: "photo", Title: "Site photos", Draft: true})
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionPending, draft.Status)
	assert.True(t, draft.SubmittedAt.IsZero())

	// Drafts do not count as filed.
	st, err := mem.Standards().GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, model.StandardNotSubmitted, st.Status)

	// A draft cannot be approved directly, only filed.
	_, err = svc.Review(ctx, draft.ID, "approved", "")
	assert.True(t, errors.Is(err, model.ErrInvalidTransition))

	filed, err := svc.Review(ctx, draft.ID, "pending_approval", "")
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionPendingApproval, filed.Status)
	assert.False(t, filed.SubmittedAt.IsZero())

	st, _ = mem.Standards().GetByID(ctx, 2)
	assert.Equal(t, model.StandardPendingApproval, st.Status)
}

func TestReviewBadInput(t *testing.T) {
	ctx := context.Background()
	mem := newCatalogStore(t, 5)
	svc := NewSubmissions(mem.Standards(), mem.Submissions())

	sub, err := svc.Submit(ctx, 1, NewSubmission{Type: "text", Title: "Report"})
	require.NoError(t, err)

	_, err = svc.Review(ctx, sub.ID, "archived", "")
	assert.True(t, errors.Is(err, model.ErrValidation))

	// pending is a creation-time state, never a review target.
	_, err = svc.Review(ctx, sub.ID, "pending", "")
	assert.True(t, errors.Is(err, model.ErrValidation))

	_, err = svc.Review(ctx, "not-a-uuid", "approved", "")
	assert.True(t, errors.Is(err, model.ErrNotFound))
	_, err = svc.Review(ctx, "00000000-0000-0000-0000-0000000000ff", "approved", "")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestListForStandardFiltersByAgency(t *testing.T) {
	ctx := context.Background()
	mem := newCatalogStore(t, 5)
	svc := NewSubmissions(mem.Standards(), mem.Submissions())

	_, err := svc.Submit(ctx, 1, NewSubmission{Type: "text", Title: "First", SubmittedBy: "Municipality"})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, 1, NewSubmission{Type: "pdf", Title: "Second", SubmittedBy: "Water Authority"})
	require.NoError(t, err)

	all, err := svc.ListForStandard(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Creation order is preserved.
	assert.Equal(t, "First", all[0].Title)
	assert.Equal(t, "Second", all[1].Title)

	filtered, err := svc.ListForStandard(ctx, 1, "Water Authority")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Second", filtered[0].Title)

	_, err = svc.ListForStandard(ctx, 99, "")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestStatsOverall(t *testing.T) {
	ctx := context.Background()
	mem := newCatalogStore(t, 10)
	svc := NewSubmissions(mem.Standards(), mem.Submissions())

	first, err := svc.Submit(ctx, 1, NewSubmission{Type: "text", Title: "A"})
	require.NoError(t, err)
	_, err = svc.Review(ctx, first.ID, "approved", "")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, 2, NewSubmission{Type: "pdf", Title: "B"})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, 3, NewSubmission{Type: "photo", Title: "C", Draft: true})
	require.NoError(t, err)

	overall, err := svc.StatsOverall(ctx)
	require.NoError(t, err)

	assert.Equal(t, 10, overall.TotalStandards)
	assert.Equal(t, 1, overall.StandardsByStatus[model.StandardApproved])
	assert.Equal(t, 1, overall.StandardsByStatus[model.StandardPendingApproval])
	// Standard 3 only has a draft, so it still reads not_submitted.
	assert.Equal(t, 8, overall.StandardsByStatus[model.StandardNotSubmitted])
	assert.Equal(t, 0, overall.StandardsByStatus[model.StandardRejected])

	// Per-status counts always sum to the catalog size.
	sum := 0
	for _, n := range overall.StandardsByStatus {
		sum += n
	}
	assert.Equal(t, overall.TotalStandards, sum)

	// The draft counts as a submission, so only 7 standards never submitted.
	assert.Equal(t, 7, overall.DidntSubmit)
	assert.Equal(t, 3, overall.Submissions.Total)
	assert.InDelta(t, 1.0/3.0, overall.Submissions.AcceptanceRate, 1e-9)
}
