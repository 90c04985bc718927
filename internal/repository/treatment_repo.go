package repository

import (
	"context"
	"errors"
	"fmt"

	"treatment_tracker/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TreatmentRepository defines operations for treatment data
type TreatmentRepository interface {
	Create(ctx context.Context, treatment *model.Treatment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Treatment, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Treatment, error)
	Update(ctx context.Context, treatment *model.Treatment) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type treatmentRepository struct {
	db DBTX
}

// NewTreatmentRepository creates a new TreatmentRepository
func NewTreatmentRepository(db DBTX) TreatmentRepository {
	return &treatmentRepository{db: db}
}

const treatmentColumns = `id, user_id, name, dosage, frequency, start_date, end_date, notes, description, created_at, updated_at`

func scanTreatment(row pgx.Row, t *model.Treatment) error {
	return row.Scan(
		&t.ID, &t.UserID, &t.Name, &t.Dosage, &t.Frequency, &t.StartDate,
		&t.EndDate, &t.Notes, &t.Description, &t.CreatedAt, &t.UpdatedAt,
	)
}

// Create inserts a new treatment into the database
func (r *treatmentRepository) Create(ctx context.Context, t *model.Treatment) error {
	sql := `INSERT INTO treatments (id, user_id, name, dosage, frequency, start_date, end_date, notes, description, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, t.ID, t.UserID, t.Name, t.Dosage, t.Frequency, t.StartDate, t.EndDate,
		t.Notes, t.Description, t.CreatedAt, t.UpdatedAt).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create treatment: %w", err)
	}
	return nil
}

// FindByID retrieves a treatment by its ID
func (r *treatmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Treatment, error) {
	t := &model.Treatment{}
	sql := `SELECT ` + treatmentColumns + ` FROM treatments WHERE id = $1`
	if err := scanTreatment(r.db.QueryRow(ctx, sql, id), t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find treatment by ID: %w", err)
	}
	return t, nil
}

// FindByUser retrieves all treatments owned by userID, newest first
func (r *treatmentRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Treatment, error) {
	sql := `SELECT ` + treatmentColumns + ` FROM treatments WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query treatments by user: %w", err)
	}
	defer rows.Close()

	treatments := []model.Treatment{}
	for rows.Next() {
		var t model.Treatment
		if err := scanTreatment(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan treatment row: %w", err)
		}
		treatments = append(treatments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating treatment rows: %w", err)
	}
	return treatments, nil
}

// Update modifies an existing treatment. The owner is part of the filter and
// is never written.
func (r *treatmentRepository) Update(ctx context.Context, t *model.Treatment) error {
	sql := `UPDATE treatments
            SET name = $1, dosage = $2, frequency = $3, start_date = $4, end_date = $5, notes = $6, description = $7, updated_at = NOW()
            WHERE id = $8 AND user_id = $9 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql, t.Name, t.Dosage, t.Frequency, t.StartDate, t.EndDate, t.Notes, t.Description, t.ID, t.UserID).
		Scan(&t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("treatment not found or not owned by user for update: %w", ErrNotFound)
		}
		return fmt.Errorf("failed to update treatment: %w", err)
	}
	return nil
}

// Delete removes a treatment owned by userID
func (r *treatmentRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	sql := `DELETE FROM treatments WHERE id = $1 AND user_id = $2`
	cmdTag, err := r.db.Exec(ctx, sql, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete treatment: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("treatment not found for deletion: %w", ErrNotFound)
	}
	return nil
}
