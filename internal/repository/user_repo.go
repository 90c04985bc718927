package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"treatment_tracker/internal/model"
	"treatment_tracker/internal/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepository defines operations for user data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type userRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user. The password field is hashed here unless it
// already holds a bcrypt hash, so callers may pass either form.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	hash, err := utils.EnsureHashed(user.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to prepare password: %w", err)
	}
	user.PasswordHash = hash
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	sql := `INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at`
	err = r.db.QueryRow(ctx, sql, user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create user: %w", ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by email, ignoring case
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE lower(email) = lower($1)`
	err := r.db.QueryRow(ctx, sql, strings.TrimSpace(email)).
		Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found is not an error here, the service layer decides
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user := &model.User{}
	sql := `SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).
		Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}
