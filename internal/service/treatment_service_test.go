package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"treatment_tracker/internal/model"
	"treatment_tracker/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newTreatmentService(t *testing.T) (*treatmentService, *mockTreatmentRepo) {
	t.Helper()
	repo := &mockTreatmentRepo{}
	t.Cleanup(func() { repo.AssertExpectations(t) })
	svc := NewTreatmentService(repo).(*treatmentService)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

func ownedTreatment(owner uuid.UUID) *model.Treatment {
	return &model.Treatment{
		ID:        uuid.New(),
		UserID:    owner,
		Name:      "Ibuprofen",
		Dosage:    "200mg",
		Frequency: "Twice daily",
		StartDate: fixedNow,
		EndDate:   fixedNow.Add(7 * 24 * time.Hour),
	}
}

func ptr[T any](v T) *T { return &v }

func TestTreatmentService_Create_Defaults(t *testing.T) {
	svc, repo := newTreatmentService(t)
	ctx := context.Background()
	owner := uuid.New()

	repo.On("Create", ctx, mock.AnythingOfType("*model.Treatment")).Return(nil)

	got, err := svc.CreateTreatment(ctx, owner, model.CreateTreatmentRequest{Name: "Ibuprofen"})
	require.NoError(t, err)
	assert.Equal(t, owner, got.UserID)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "Ibuprofen", got.Name)
	assert.Equal(t, "N/A", got.Dosage)
	assert.Equal(t, "As needed", got.Frequency)
	assert.Equal(t, fixedNow, got.StartDate)
	assert.Equal(t, fixedNow.Add(30*24*time.Hour), got.EndDate)
	assert.Equal(t, "", got.Notes)
	assert.Equal(t, "", got.Description)
}

func TestTreatmentService_Create_BlankFieldsUseDefaults(t *testing.T) {
	svc, repo := newTreatmentService(t)
	ctx := context.Background()

	repo.On("Create", ctx, mock.Anything).Return(nil)

	got, err := svc.CreateTreatment(ctx, uuid.New(), model.CreateTreatmentRequest{Name: "  Aspirin ", Dosage: "   ", Frequency: ""})
	require.NoError(t, err)
	assert.Equal(t, "Aspirin", got.Name)
	assert.Equal(t, model.DefaultDosage, got.Dosage)
	assert.Equal(t, model.DefaultFrequency, got.Frequency)
}

func TestTreatmentService_Create_Explicit(t *testing.T) {
	svc, repo := newTreatmentService(t)
	ctx := context.Background()

	start := fixedNow.Add(24 * time.Hour)
	end := start.Add(10 * 24 * time.Hour)
	repo.On("Create", ctx, mock.Anything).Return(nil)

	got, err := svc.CreateTreatment(ctx, uuid.New(), model.CreateTreatmentRequest{
		Name: "Amoxicillin", Dosage: "500mg", Frequency: "3x daily",
		StartDate: &start, EndDate: &end, Notes: "with food", Description: "antibiotic",
	})
	require.NoError(t, err)
	assert.Equal(t, "500mg", got.Dosage)
	assert.Equal(t, start, got.StartDate)
	assert.Equal(t, end, got.EndDate)
	assert.Equal(t, "with food", got.Notes)
}

func TestTreatmentService_Create_Validation(t *testing.T) {
	svc, _ := newTreatmentService(t)
	ctx := context.Background()

	before := fixedNow.Add(-time.Hour)
	tests := []struct {
		name string
		req  model.CreateTreatmentRequest
	}{
		{"missing name", model.CreateTreatmentRequest{}},
		{"blank name", model.CreateTreatmentRequest{Name: "   "}},
		{"end before start", model.CreateTreatmentRequest{Name: "X", EndDate: &before}},
		{"end equals start", model.CreateTreatmentRequest{Name: "X", StartDate: &fixedNow, EndDate: &fixedNow}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTreatment(ctx, uuid.New(), tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestTreatmentService_Create_StoreError(t *testing.T) {
	svc, repo := newTreatmentService(t)
	ctx := context.Background()

	repo.On("Create", ctx, mock.Anything).Return(errors.New("db down"))

	_, err := svc.CreateTreatment(ctx, uuid.New(), model.CreateTreatmentRequest{Name: "Ibuprofen"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)
}

func TestTreatmentService_List(t *testing.T) {
	svc, repo := newTreatmentService(t)
	ctx := context.Background()
	owner := uuid.New()

	repo.On("FindByUser", ctx, owner).Return(nil, nil).Once()
	got, err := svc.ListTreatments(ctx, owner)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	repo.On("FindByUser", ctx, owner).Return([]model.Treatment{*ownedTreatment(owner)}, nil).Once()
	got, err = svc.ListTreatments(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestTreatmentService_Delete(t *testing.T) {
	svc, repo := newTreatmentService(t)
	ctx := context.Background()
	owner := uuid.New()
	tr := ownedTreatment(owner)

	repo.On("FindByID", ctx, tr.ID).Return(tr, nil)
	repo.On("Delete", ctx, tr.ID, owner).Return(nil)

	id, err := svc.DeleteTreatment(ctx, tr.ID.String(), owner)
	require.NoError(t, err)
	assert.Equal(t, tr.ID, id)
}

func TestTreatmentService_Delete_NotOwner(t *testing.T) {
	svc, repo := newTreatmentService(t)
	ctx := context.Background()
	tr := ownedTreatment(uuid.New())

	repo.On("FindByID", ctx, tr.ID).Return(tr, nil)

	_, err := svc.DeleteTreatment(ctx, tr.ID.String(), uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestTreatmentService_Delete_NotFound(t *testing.T) {
	svc, repo := newTreatmentService(t)
	ctx := context.Background()
	id := uuid.New()

	repo.On("FindByID", ctx, id).Return(nil, nil)

	_, err := svc.DeleteTreatment(ctx, id.String(), uuid.New())
	assert.ErrorIs(t, err, ErrTreatmentNotFound)
}

func TestTreatmentService_Delete_RemovedConcurrently(t *testing.T) {
	svc, repo := newTreatmentService(t)
	ctx := context.Background()
	owner := uuid.New()
	tr := ownedTreatment(owner)

	repo.On("FindByID", ctx, tr.ID).Return(tr, nil)
	repo.On("Delete", ctx, tr.ID, owner).Return(fmt.Errorf("treatment not found for deletion: %w", repository.ErrNotFound))

	_, err := svc.DeleteTreatment(ctx, tr.ID.String(), owner)
	assert.ErrorIs(t, err, ErrTreatmentNotFound)
}

func TestTreatmentService_Delete_InvalidID(t *testing.T) {
	svc, _ := newTreatmentService(t)

	for _, raw := range []string{"", "123", "not-a-uuid", uuid.Nil.String()} {
		_, err := svc.DeleteTreatment(context.Background(), raw, uuid.New())
		assert.ErrorIs(t, err, ErrInvalidTreatmentID, raw)
	}
}

func TestTreatmentService_Get(t *testing.T) {
	svc, repo := newTreatmentService(t)
	ctx := context.Background()
	owner := uuid.New()
	tr := ownedTreatment(owner)

	repo.On("FindByID", ctx, tr.ID).Return(tr, nil)

	got, err := svc.GetTreatment(ctx, tr.ID.String(), owner)
	require.NoError(t, err)
	assert.Equal(t, tr.ID, got.ID)

	_, err = svc.GetTreatment(ctx, tr.ID.String(), uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTreatmentService_Update(t *testing.T) {
	svc, repo := newTreatmentService(t)
	ctx := context.Background()
	owner := uuid.New()
	tr := ownedTreatment(owner)

	repo.On("FindByID", ctx, tr.ID).Return(tr, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(u *model.Treatment) bool {
		return u.ID == tr.ID && u.UserID == owner && u.Dosage == "400mg"
	})).Return(nil)

	got, err := svc.UpdateTreatment(ctx, tr.ID.String(), owner, model.UpdateTreatmentRequest{Dosage: ptr("400mg")})
	require.NoError(t, err)
	assert.Equal(t, "400mg", got.Dosage)
	assert.Equal(t, "Ibuprofen", got.Name)
}

func TestTreatmentService_Update_NotOwner(t *testing.T) {
	svc, repo := newTreatmentService(t)
	ctx := context.Background()
	tr := ownedTreatment(uuid.New())

	repo.On("FindByID", ctx, tr.ID).Return(tr, nil)

	_, err := svc.UpdateTreatment(ctx, tr.ID.String(), uuid.New(), model.UpdateTreatmentRequest{Name: ptr("Other")})
	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTreatmentService_Update_InvalidDates(t *testing.T) {
	svc, repo := newTreatmentService(t)
	ctx := context.Background()
	owner := uuid.New()
	tr := ownedTreatment(owner)

	repo.On("FindByID", ctx, tr.ID).Return(tr, nil)

	_, err := svc.UpdateTreatment(ctx, tr.ID.String(), owner, model.UpdateTreatmentRequest{EndDate: ptr(fixedNow.Add(-time.Hour))})
	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTreatmentService_Create_TruncatesToMicroseconds(t *testing.T) {
	svc, repo := newTreatmentService(t)
	ctx := context.Background()

	start := fixedNow.Add(24*time.Hour + 1500*time.Nanosecond)
	end := start.Add(24 * time.Hour)
	repo.On("Create", ctx, mock.Anything).Return(nil)

	got, err := svc.CreateTreatment(ctx, uuid.New(), model.CreateTreatmentRequest{Name: "X", StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(24*time.Hour+time.Microsecond), got.StartDate)
	assert.Equal(t, got.StartDate.Add(24*time.Hour), got.EndDate)
}

func TestTreatmentService_SubMicrosecondRangeRejected(t *testing.T) {
	svc, repo := newTreatmentService(t)
	ctx := context.Background()

	// both round down to the same stored microsecond
	start := fixedNow.Add(100 * time.Nanosecond)
	end := fixedNow.Add(900 * time.Nanosecond)
	_, err := svc.CreateTreatment(ctx, uuid.New(), model.CreateTreatmentRequest{Name: "X", StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, ErrValidation)

	owner := uuid.New()
	tr := ownedTreatment(owner)
	repo.On("FindByID", ctx, tr.ID).Return(tr, nil)

	_, err = svc.UpdateTreatment(ctx, tr.ID.String(), owner, model.UpdateTreatmentRequest{StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
