package leads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// pgxQuerier is the subset of pgxpool.Pool used here; pgxmock satisfies it in tests.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository stores submissions in the lead_submissions table.
type PostgresRepository struct {
	db pgxQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(db pgxQuerier) *PostgresRepository {
	if db == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

// Create inserts a new row. submitted_at is assigned by the database.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateSubmissionRequest) (*Submission, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lead := req.Lead.Normalized()
	id := uuid.New()
	query := `
		INSERT INTO lead_submissions (id, name, email, industry, message_id, content_source)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING submitted_at
	`
	var submittedAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		lead.Name,
		lead.Email,
		lead.Industry,
		req.MessageID,
		req.ContentSource,
	).Scan(&submittedAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	return &Submission{
		ID:            id.String(),
		Name:          lead.Name,
		Email:         lead.Email,
		Industry:      lead.Industry,
		MessageID:     req.MessageID,
		ContentSource: req.ContentSource,
		SubmittedAt:   submittedAt.UTC(),
	}, nil
}

// GetByID fetches a single submission.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Submission, error) {
	query := `
		SELECT id, name, email, industry, message_id, content_source, submitted_at
		FROM lead_submissions
		WHERE id = $1
	`
	sub, err := scanSubmission(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return sub, nil
}

// List returns submissions newest first.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Submission, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, name, email, industry, message_id, content_source, submitted_at
		FROM lead_submissions
		ORDER BY submitted_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	out := []*Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	return out, nil
}

func scanSubmission(row pgx.Row) (*Submission, error) {
	var sub Submission
	if err := row.Scan(
		&sub.ID,
		&sub.Name,
		&sub.Email,
		&sub.Industry,
		&sub.MessageID,
		&sub.ContentSource,
		&sub.SubmittedAt,
	); err != nil {
		return nil, err
	}
	sub.SubmittedAt = sub.SubmittedAt.UTC()
	return &sub, nil
}
