package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anggasct/fluo"
	"github.com/google/uuid"

	"github.com/healthycity/compliance/internal/model"
)

// Review lifecycle events. The machine definition below is the single
// source of truth for which status changes are legal.
const (
	eventFile    = "file"
	eventApprove = "approve"
	eventReject  = "reject"
)

// reviewMachine builds the submission lifecycle:
//
//	pending --file--> pending_approval --approve--> approved
//	                                   --reject---> rejected
//
// approved and rejected are final; events sent there are rejected by the
// machine, which is how illegal transitions are detected.
func reviewMachine() fluo.MachineDefinition {
	b := fluo.NewMachine()
	b.State(string(model.SubmissionPending)).Initial().
		To(string(model.SubmissionPendingApproval)).On(eventFile)
	b.State(string(model.SubmissionPendingApproval)).
		To(string(model.SubmissionApproved)).On(eventApprove).
		To(string(model.SubmissionRejected)).On(eventReject)
	b.State(string(model.SubmissionApproved)).Final()
	b.State(string(model.SubmissionRejected)).Final()
	return b.Build()
}

// eventFor maps a requested target status onto a lifecycle event.
func eventFor(target model.SubmissionStatus) (string, bool) {
	switch target {
	case model.SubmissionPendingApproval:
		return eventFile, true
	case model.SubmissionApproved:
		return eventApprove, true
	case model.SubmissionRejected:
		return eventReject, true
	default:
		return "", false
	}
}

// NewSubmission carries the caller-controlled fields of a new evidence
// submission.
type NewSubmission struct {
	Type        string   `json:"submissionType"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Notes       string   `json:"notes"`
	SubmittedBy string   `json:"submittedBy"`
	Files       []string `json:"files"`
	Draft       bool     `json:"draft"`
}

// Submissions owns the evidence submission lifecycle and the derived
// statistics shown to admins and agencies.
type Submissions struct {
	standards   StandardRepository
	submissions SubmissionRepository
	machine     fluo.MachineDefinition
}

// NewSubmissions creates a new Submissions service.
func NewSubmissions(standards StandardRepository, submissions SubmissionRepository) *Submissions {
	return &Submissions{
		standards:   standards,
		submissions: submissions,
		machine:     reviewMachine(),
	}
}

// Submit files evidence against a standard. The standard must exist and the
// evidence type must be one of the enumerated values. New submissions land
// in pending_approval; with Draft set they are saved as pending and filed
// later through Review.
func (s *Submissions) Submit(ctx context.Context, standardID int, in NewSubmission) (*model.Submission, error) {
	if err := s.ensureStandard(ctx, standardID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sub := &model.Submission{
		ID:          uuid.NewString(),
		StandardID:  standardID,
		Type:        model.SubmissionType(in.Type),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Notes:       in.Notes,
		Status:      model.SubmissionPendingApproval,
		SubmittedBy: model.Slugify(in.SubmittedBy),
		Files:       in.Files,
		SubmittedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Draft {
		sub.Status = model.SubmissionPending
		sub.SubmittedAt = time.Time{}
	}

	if err := sub.Validate(); err != nil {
		return nil, err
	}
	if err := s.submissions.Insert(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Review moves a submission to a new status: filing a draft, approving or
// rejecting. Approve and reject are only legal from pending_approval;
// anything else fails with ErrInvalidTransition and leaves the submission
// untouched.
func (s *Submissions) Review(ctx context.Context, id string, status, notes string) (*model.Submission, error) {
	sub, err := s.getSubmission(ctx, id)
	if err != nil {
		return nil, err
	}

	target, ok := model.ParseSubmissionStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", model.ErrValidation, status)
	}
	event, ok := eventFor(target)
	if !ok {
		return nil, fmt.Errorf("%w: cannot move a submission back to %s", model.ErrValidation, target)
	}

	m := s.machine.CreateInstance()
	if err := m.Start(); err != nil {
		return nil, fmt.Errorf("failed to start review machine: %w", err)
	}
	if err := m.SetState(string(sub.Status)); err != nil {
		return nil, fmt.Errorf("failed to restore review state: %w", err)
	}
	if res := m.HandleEvent(event, nil); !res.Processed {
		return nil, fmt.Errorf("%w: %s -> %s", model.ErrInvalidTransition, sub.Status, target)
	}

	// The store re-checks the source status, so a concurrent review of the
	// same submission cannot apply twice.
	updated, err := s.submissions.Transition(ctx, sub.ID, sub.Status, target, notes)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: %s -> %s", model.ErrInvalidTransition, sub.Status, target)
	}
	return updated, nil
}

// Get retrieves one submission, failing with ErrNotFound.
func (s *Submissions) Get(ctx context.Context, id string) (*model.Submission, error) {
	return s.getSubmission(ctx, id)
}

// ListForStandard retrieves all submissions for a standard in creation
// order, optionally restricted to one submitting agency.
func (s *Submissions) ListForStandard(ctx context.Context, standardID int, agency string) ([]model.Submission, error) {
	if err := s.ensureStandard(ctx, standardID); err != nil {
		return nil, err
	}

	var slug string
	if agency != "" {
		slug = model.Slugify(agency)
	}
	subs, err := s.submissions.ListForStandard(ctx, standardID, slug)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []model.Submission{}
	}
	return subs, nil
}

// StatsFor aggregates submission counts for one standard.
func (s *Submissions) StatsFor(ctx context.Context, standardID int) (model.SubmissionStats, error) {
	if err := s.ensureStandard(ctx, standardID); err != nil {
		return model.SubmissionStats{}, err
	}
	return s.submissions.StatsFor(ctx, standardID)
}

// StatsOverall builds the admin dashboard rollup: per-status standard counts
// (always summing to the catalog size), submission aggregates, and the
// number of standards that never received a submission.
func (s *Submissions) StatsOverall(ctx context.Context) (*model.OverallStats, error) {
	standards, err := s.standards.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[model.StandardStatus]int, len(model.StandardStatuses))
	for _, st := range model.StandardStatuses {
		byStatus[st] = 0
	}
	for i := range standards {
		byStatus[standards[i].Status]++
	}

	subStats, didntSubmit, err := s.submissions.StatsOverall(ctx)
	if err != nil {
		return nil, err
	}

	return &model.OverallStats{
		TotalStandards:    len(standards),
		StandardsByStatus: byStatus,
		DidntSubmit:       didntSubmit,
		Submissions:       subStats,
	}, nil
}

func (s *Submissions) ensureStandard(ctx context.Context, standardID int) error {
	st, err := s.standards.GetByID(ctx, standardID)
	if err != nil {
		return err
	}
	if st == nil {
		return fmt.Errorf("standard %d: %w", standardID, model.ErrNotFound)
	}
	return nil
}

func (s *Submissions) getSubmission(ctx context.Context, id string) (*model.Submission, error) {
	// Reject malformed ids before they reach the store; Postgres would
	// otherwise error on the uuid cast.
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("submission %s: %w", id, model.ErrNotFound)
	}
	sub, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, fmt.Errorf("submission %s: %w", id, model.ErrNotFound)
	}
	return sub, nil
}
