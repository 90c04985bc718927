package service

import (
	"context"

	"treatment_tracker/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

type mockTreatmentRepo struct {
	mock.Mock
}

func (m *mockTreatmentRepo) Create(ctx context.Context, t *model.Treatment) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTreatmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Treatment, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*model.Treatment)
	return t, args.Error(1)
}

func (m *mockTreatmentRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Treatment, error) {
	args := m.Called(ctx, userID)
	ts, _ := args.Get(0).([]model.Treatment)
	return ts, args.Error(1)
}

func (m *mockTreatmentRepo) Update(ctx context.Context, t *model.Treatment) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTreatmentRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return m.Called(ctx, id, userID).Error(0)
}
