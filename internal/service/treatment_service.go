package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"treatment_tracker/internal/model"
	"treatment_tracker/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrTreatmentNotFound  = errors.New("treatment not found")
	ErrInvalidTreatmentID = errors.New("invalid treatment ID")
	ErrForbidden          = errors.New("forbidden: treatment belongs to another user")
)

// TreatmentService defines operations for treatments. Every method is scoped
// to the calling user; single-record methods check ownership before acting.
type TreatmentService interface {
	ListTreatments(ctx context.Context, userID uuid.UUID) ([]model.Treatment, error)
	CreateTreatment(ctx context.Context, userID uuid.UUID, req model.CreateTreatmentRequest) (*model.Treatment, error)
	GetTreatment(ctx context.Context, treatmentID string, userID uuid.UUID) (*model.Treatment, error)
	UpdateTreatment(ctx context.Context, treatmentID string, userID uuid.UUID, req model.UpdateTreatmentRequest) (*model.Treatment, error)
	DeleteTreatment(ctx context.Context, treatmentID string, userID uuid.UUID) (uuid.UUID, error)
}

type treatmentService struct {
	repo repository.TreatmentRepository
	now  func() time.Time
}

// NewTreatmentService creates a new TreatmentService
func NewTreatmentService(repo repository.TreatmentRepository) TreatmentService {
	return &treatmentService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// ParseTreatmentID checks that raw is a well-formed treatment identifier
func ParseTreatmentID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidTreatmentID, raw)
	}
	return id, nil
}

// storedTime rounds t down to the microsecond precision PostgreSQL keeps
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func (s *treatmentService) ListTreatments(ctx context.Context, userID uuid.UUID) ([]model.Treatment, error) {
	treatments, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user treatments from repo: %w", err)
	}
	if treatments == nil {
		treatments = []model.Treatment{}
	}
	return treatments, nil
}

func (s *treatmentService) CreateTreatment(ctx context.Context, userID uuid.UUID, req model.CreateTreatmentRequest) (*model.Treatment, error) {
	now := storedTime(s.now())

	startDate := now
	if req.StartDate != nil && !req.StartDate.IsZero() {
		startDate = storedTime(*req.StartDate)
	}
	endDate := now.Add(model.DefaultDuration)
	if req.EndDate != nil && !req.EndDate.IsZero() {
		endDate = storedTime(*req.EndDate)
	}

	treatment := &model.Treatment{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Dosage:      orDefault(req.Dosage, model.DefaultDosage),
		Frequency:   orDefault(req.Frequency, model.DefaultFrequency),
		StartDate:   startDate,
		EndDate:     endDate,
		Notes:       strings.TrimSpace(req.Notes),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := validateTreatment(treatment); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, treatment); err != nil {
		return nil, fmt.Errorf("failed to create treatment in repo: %w", err)
	}
	return treatment, nil
}

// loadOwned resolves a treatment id and checks the caller owns the record.
// No method may mutate a record before this returns without error.
func (s *treatmentService) loadOwned(ctx context.Context, rawID string, userID uuid.UUID) (*model.Treatment, error) {
	id, err := ParseTreatmentID(rawID)
	if err != nil {
		return nil, err
	}
	treatment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find treatment by ID: %w", err)
	}
	if treatment == nil {
		return nil, ErrTreatmentNotFound
	}
	if treatment.UserID != userID {
		slog.WarnContext(ctx, "treatment ownership check failed",
			"treatment_id", id, "owner_id", treatment.UserID, "user_id", userID)
		return nil, ErrForbidden
	}
	return treatment, nil
}

func (s *treatmentService) GetTreatment(ctx context.Context, treatmentID string, userID uuid.UUID) (*model.Treatment, error) {
	return s.loadOwned(ctx, treatmentID, userID)
}

func (s *treatmentService) UpdateTreatment(ctx context.Context, treatmentID string, userID uuid.UUID, req model.UpdateTreatmentRequest) (*model.Treatment, error) {
	existing, err := s.loadOwned(ctx, treatmentID, userID)
	if err != nil {
		return nil, err
	}

	// Apply updates
	if req.Name != nil {
		existing.Name = strings.TrimSpace(*req.Name)
	}
	if req.Dosage != nil {
		existing.Dosage = orDefault(*req.Dosage, model.DefaultDosage)
	}
	if req.Frequency != nil {
		existing.Frequency = orDefault(*req.Frequency, model.DefaultFrequency)
	}
	if req.StartDate != nil {
		existing.StartDate = storedTime(*req.StartDate)
	}
	if req.EndDate != nil {
		existing.EndDate = storedTime(*req.EndDate)
	}
	if req.Notes != nil {
		existing.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.Description != nil {
		existing.Description = strings.TrimSpace(*req.Description)
	}
	if err := validateTreatment(existing); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTreatmentNotFound
		}
		return nil, fmt.Errorf("failed to update treatment in repo: %w", err)
	}
	return existing, nil
}

func (s *treatmentService) DeleteTreatment(ctx context.Context, treatmentID string, userID uuid.UUID) (uuid.UUID, error) {
	existing, err := s.loadOwned(ctx, treatmentID, userID)
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.repo.Delete(ctx, existing.ID, userID); err != nil {
		// removed between lookup and delete
		if errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, ErrTreatmentNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to delete treatment in repo: %w", err)
	}
	return existing.ID, nil
}
