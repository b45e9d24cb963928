package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/vidrios-leads-api/internal/models"
)

const submissionColumns = `id, nombre, telefono, email, medidas, estado, recibido_en`

// SubmissionRepository persists submissions in PostgreSQL.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository creates a new instance of SubmissionRepository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create inserts a new submission. The caller assigns the identifier and timestamps.
func (r *SubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	const query = `INSERT INTO submissions (` + submissionColumns + `) VALUES (:id, :nombre, :telefono, :email, :medidas, :estado, :recibido_en)`
	if _, err := r.db.NamedExecContext(ctx, query, submission); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// FindAll returns every submission, newest first.
func (r *SubmissionRepository) FindAll(ctx context.Context) ([]models.Submission, error) {
	const query = `SELECT ` + submissionColumns + ` FROM submissions ORDER BY recibido_en DESC, id DESC`
	items := make([]models.Submission, 0)
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return items, nil
}

// FindByID returns a submission by identifier.
func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	const query = `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1 LIMIT 1`
	var submission models.Submission
	if err := r.db.GetContext(ctx, &submission, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("find submission by id: %w", err)
	}
	return &submission, nil
}

// UpdateStatusByID changes only the status column and returns the updated row.
func (r *SubmissionRepository) UpdateStatusByID(ctx context.Context, id string, status models.SubmissionStatus) (*models.Submission, error) {
	const query = `UPDATE submissions SET estado = $2 WHERE id = $1 RETURNING ` + submissionColumns
	var submission models.Submission
	if err := r.db.GetContext(ctx, &submission, query, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("update submission status: %w", err)
	}
	return &submission, nil
}

// Ping checks the database connection.
func (r *SubmissionRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
