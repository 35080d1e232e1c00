package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/healthycity/compliance/internal/model"
)

const submissionColumns = `id, standard_id, submission_type, title, description,
		notes, status, submitted_by, files, submitted_at, created_at, updated_at`

// SubmissionStore handles database operations for evidence submissions.
type SubmissionStore struct {
	db *sql.DB
}

// NewSubmissionStore creates a new SubmissionStore.
func NewSubmissionStore(db *sql.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

// Insert stores a new submission.
func (s *SubmissionStore) Insert(ctx context.Context, sub *model.Submission) error {
	query := `
		INSERT INTO submissions (id, standard_id, submission_type, title, description,
		                         notes, status, submitted_by, files, submitted_at,
		                         created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	var submittedAt sql.NullTime
	if !sub.SubmittedAt.IsZero() {
		submittedAt = sql.NullTime{Time: sub.SubmittedAt, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		sub.ID,
		sub.StandardID,
		sub.Type,
		sub.Title,
		sub.Description,
		sub.Notes,
		sub.Status,
		sub.SubmittedBy,
		pq.Array(sub.Files),
		submittedAt,
		sub.CreatedAt,
		sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert submission %s: %w", sub.ID, err)
	}
	return nil
}

// GetByID retrieves a submission. Returns nil without error when absent.
func (s *SubmissionStore) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`

	sub, err := scanSubmission(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission %s: %w", id, err)
	}
	return sub, nil
}

// ListForStandard retrieves all submissions for a standard in creation order,
// optionally restricted to one submitting agency.
func (s *SubmissionStore) ListForStandard(ctx context.Context, standardID int, agencySlug string) ([]model.Submission, error) {
	qb := psql.
		Select("id", "standard_id", "submission_type", "title", "description",
			"notes", "status", "submitted_by", "files", "submitted_at",
			"created_at", "updated_at").
		From("submissions").
		Where(sq.Eq{"standard_id": standardID}).
		OrderBy("created_at ASC", "id ASC")
	if agencySlug != "" {
		qb = qb.Where(sq.Eq{"submitted_by": agencySlug})
	}

	sqlStr, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build submissions query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions for standard %d: %w", standardID, err)
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

// Transition atomically moves a submission from one status to another,
// optionally replacing notes. The status guard in the WHERE clause makes
// concurrent reviews of the same submission safe: the second one finds no
// row and gets nil back.
func (s *SubmissionStore) Transition(ctx context.Context, id string, from, to model.SubmissionStatus, notes string) (*model.Submission, error) {
	query := `
		UPDATE submissions SET
			status = $3,
			notes = CASE WHEN $4 <> '' THEN $4 ELSE notes END,
			submitted_at = CASE WHEN $3 = 'pending_approval' AND submitted_at IS NULL
			               THEN now() ELSE submitted_at END,
			updated_at = now()
		WHERE id = $1 AND status = $2
		RETURNING ` + submissionColumns

	sub, err := scanSubmission(s.db.QueryRowContext(ctx, query, id, from, to, notes))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to transition submission %s: %w", id, err)
	}
	return sub, nil
}

// StatsFor aggregates submission counts for one standard.
func (s *SubmissionStore) StatsFor(ctx context.Context, standardID int) (model.SubmissionStats, error) {
	query := `
		SELECT submission_type, status, COUNT(*)
		FROM submissions
		WHERE standard_id = $1
		GROUP BY submission_type, status
	`
	return s.foldStats(ctx, query, standardID)
}

// StatsOverall aggregates submission counts across the whole catalog and
// counts the standards that never received a submission.
func (s *SubmissionStore) StatsOverall(ctx context.Context) (model.SubmissionStats, int, error) {
	query := `
		SELECT submission_type, status, COUNT(*)
		FROM submissions
		GROUP BY submission_type, status
	`
	stats, err := s.foldStats(ctx, query)
	if err != nil {
		return stats, 0, err
	}

	var didntSubmit int
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM standards s
		WHERE NOT EXISTS (SELECT 1 FROM submissions WHERE standard_id = s.id)
	`).Scan(&didntSubmit)
	if err != nil {
		return stats, 0, fmt.Errorf("failed to count standards without submissions: %w", err)
	}
	return stats, didntSubmit, nil
}

func (s *SubmissionStore) foldStats(ctx context.Context, query string, args ...any) (model.SubmissionStats, error) {
	stats := model.NewSubmissionStats()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return stats, fmt.Errorf("failed to aggregate submissions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var typ model.SubmissionType
		var status model.SubmissionStatus
		var count int
		if err := rows.Scan(&typ, &status, &count); err != nil {
			return stats, fmt.Errorf("failed to scan aggregate row: %w", err)
		}
		stats.Total += count
		stats.ByType[typ] += count
		switch status {
		case model.SubmissionPending:
			stats.Pending += count
		case model.SubmissionPendingApproval:
			stats.PendingApproval += count
		case model.SubmissionApproved:
			stats.Approved += count
		case model.SubmissionRejected:
			stats.Rejected += count
		}
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}
	stats.Finalize()
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*model.Submission, error) {
	var sub model.Submission
	var submittedAt sql.NullTime
	err := row.Scan(
		&sub.ID,
		&sub.StandardID,
		&sub.Type,
		&sub.Title,
		&sub.Description,
		&sub.Notes,
		&sub.Status,
		&sub.SubmittedBy,
		pq.Array(&sub.Files),
		&submittedAt,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if submittedAt.Valid {
		sub.SubmittedAt = submittedAt.Time
	}
	return &sub, nil
}
