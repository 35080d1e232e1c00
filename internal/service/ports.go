package service

import (
	"context"

	"github.com/healthycity/compliance/internal/model"
)

// Repository interfaces the services consume. Both the Postgres stores and
// the in-memory store satisfy them, keeping the core testable without a
// database and the storage backend swappable.

// StandardRepository stores the catalog of standards. Lookups of absent ids
// return nil without error; the services translate that into ErrNotFound.
type StandardRepository interface {
	GetByID(ctx context.Context, id int) (*model.Standard, error)
	GetAll(ctx context.Context) ([]model.Standard, error)
	Search(ctx context.Context, query, agencySlug string, status model.StandardStatus) ([]model.Standard, error)
	Count(ctx context.Context) (int, error)
	Upsert(ctx context.Context, st *model.Standard) error
}

// AgencyRepository stores agencies and the agency-standard assignment links.
type AgencyRepository interface {
	GetBySlug(ctx context.Context, slug string) (*model.Agency, error)
	GetAll(ctx context.Context) ([]model.Agency, error)
	GetOrCreate(ctx context.Context, name, slug string) (*model.Agency, error)
	Link(ctx context.Context, standardID int, slug string) (created bool, err error)
	Unlink(ctx context.Context, standardID int, slug string) (removed bool, err error)
	StandardIDsFor(ctx context.Context, slug string) ([]int, error)
}

// SubmissionRepository stores evidence submissions. Transition applies a
// guarded status change and returns nil when the submission was not in the
// expected source status.
type SubmissionRepository interface {
	Insert(ctx context.Context, sub *model.Submission) error
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	ListForStandard(ctx context.Context, standardID int, agencySlug string) ([]model.Submission, error)
	Transition(ctx context.Context, id string, from, to model.SubmissionStatus, notes string) (*model.Submission, error)
	StatsFor(ctx context.Context, standardID int) (model.SubmissionStats, error)
	StatsOverall(ctx context.Context) (model.SubmissionStats, int, error)
}
