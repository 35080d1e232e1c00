package model

import (
	"strings"
	"time"
)

// SubmissionType is the kind of evidence attached to a submission.
type SubmissionType string

const (
	TypeText  SubmissionType = "text"
	TypePDF   SubmissionType = "pdf"
	TypePhoto SubmissionType = "photo"
	TypeVideo SubmissionType = "video"
)

// SubmissionTypes lists every valid evidence type.
var SubmissionTypes = []SubmissionType{TypeText, TypePDF, TypePhoto, TypeVideo}

// ParseSubmissionType reports whether s names a known evidence type.
func ParseSubmissionType(s string) (SubmissionType, bool) {
	for _, t := range SubmissionTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// SubmissionStatus is a submission's position in the review lifecycle:
//
//	pending -> pending_approval -> approved | rejected
//
// pending is a saved draft, pending_approval a filed submission awaiting
// review. approved and rejected are terminal; a rejected submission stays in
// the history and may be superseded by a new submission.
type SubmissionStatus string

const (
	SubmissionPending         SubmissionStatus = "pending"
	SubmissionPendingApproval SubmissionStatus = "pending_approval"
	SubmissionApproved        SubmissionStatus = "approved"
	SubmissionRejected        SubmissionStatus = "rejected"
)

// SubmissionStatuses lists every valid submission status.
var SubmissionStatuses = []SubmissionStatus{
	SubmissionPending,
	SubmissionPendingApproval,
	SubmissionApproved,
	SubmissionRejected,
}

// ParseSubmissionStatus reports whether s names a known submission status.
func ParseSubmissionStatus(s string) (SubmissionStatus, bool) {
	for _, st := range SubmissionStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Filed reports whether the status counts as formally submitted. Drafts do
// not contribute to a standard's derived status.
func (s SubmissionStatus) Filed() bool {
	return s != SubmissionPending
}

// Terminal reports whether the status admits no further review transitions.
func (s SubmissionStatus) Terminal() bool {
	return s == SubmissionApproved || s == SubmissionRejected
}

// StandardStatus maps a submission status onto the standard-level display
// vocabulary. Drafts read as not yet submitted.
func (s SubmissionStatus) StandardStatus() StandardStatus {
	switch s {
	case SubmissionPendingApproval:
		return StandardPendingApproval
	case SubmissionApproved:
		return StandardApproved
	case SubmissionRejected:
		return StandardRejected
	default:
		return StandardNotSubmitted
	}
}

// Submission is a single piece of evidence filed against a standard.
// Submissions are never deleted; rejections remain as history.
type Submission struct {
	ID          string           `json:"id"`
	StandardID  int              `json:"standardId"`
	Type        SubmissionType   `json:"submissionType"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	Status      SubmissionStatus `json:"status"`
	SubmittedBy string           `json:"submittedBy,omitempty"` // agency slug
	Files       []string         `json:"files,omitempty"`       // opaque references
	SubmittedAt time.Time        `json:"submittedAt,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// Validate checks the fields a caller controls at creation time.
func (s *Submission) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return ErrEmptyTitle
	}
	if _, ok := ParseSubmissionType(string(s.Type)); !ok {
		return ErrInvalidType
	}
	return nil
}
