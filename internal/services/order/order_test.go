package order

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

type FormulaMock struct{ mock.Mock }

func (m *FormulaMock) Read(ctx context.Context, id int) (*models.Formula, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Formula), args.Error(1)
}

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateFormulaOrder(ctx context.Context, order models.FormulaOrder) (int, error) {
	args := m.Called(ctx, order)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) CreateServiceOrder(ctx context.Context, order models.ServiceOrder) (int, error) {
	args := m.Called(ctx, order)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ListFormulaOrders(ctx context.Context, userUID string, limit, offset int) ([]*models.FormulaOrder, error) {
	args := m.Called(ctx, userUID, limit, offset)
	return args.Get(0).([]*models.FormulaOrder), args.Error(1)
}

func (m *RepoMock) ListServiceOrders(ctx context.Context, kind models.OrderKind, userUID string, limit, offset int) ([]*models.ServiceOrder, error) {
	args := m.Called(ctx, kind, userUID, limit, offset)
	return args.Get(0).([]*models.ServiceOrder), args.Error(1)
}

func (m *RepoMock) GetOrderStatus(ctx context.Context, kind models.OrderKind, id int) (string, error) {
	args := m.Called(ctx, kind, id)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) UpdateOrderStatus(ctx context.Context, kind models.OrderKind, id int, status string) (int, error) {
	args := m.Called(ctx, kind, id, status)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) UpdateOrderNotes(ctx context.Context, kind models.OrderKind, id int, notes string) (int, error) {
	args := m.Called(ctx, kind, id, notes)
	return args.Int(0), args.Error(1)
}

func NewNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestOrder_CreateFormulaOrder(t *testing.T) {
	f := &models.Formula{
		ID:        5,
		Name:      "Монтаж влога",
		BasePrice: 10,
		Category:  models.CategoryEditing,
		Access:    models.AccessUser,
		Fields: []models.FormulaField{
			{Key: "subtitles", Label: "Субтитры", Type: models.FieldTypeYesNo, CostYes: 5},
		},
	}
	adminOnly := &models.Formula{
		ID:       6,
		Category: models.CategoryEditing,
		Access:   models.AccessAdmin,
	}
	wantOrder := models.FormulaOrder{
		UserUID:     "uid-123",
		FormulaID:   5,
		Category:    models.CategoryEditing,
		TotalPoints: 15,
		Items: []models.OrderItem{
			{Key: "subtitles", Label: "Субтитры", Value: true, Cost: 5},
		},
		Status: models.OrderStatusReceived,
	}

	tests := []struct {
		name       string
		setupMocks func(formulas *FormulaMock, repo *RepoMock)
		req        models.DummyFormulaOrder
		role       string
		wantID     int
		wantTotal  int
		wantErr    error
	}{
		{
			name: "success create",
			setupMocks: func(formulas *FormulaMock, repo *RepoMock) {
				formulas.On("Read", mock.Anything, 5).Return(f, nil).Once()
				repo.On("CreateFormulaOrder", mock.Anything, wantOrder).Return(42, nil).Once()
			},
			req:       models.DummyFormulaOrder{FormulaID: 5, Values: map[string]any{"subtitles": true}},
			role:      "user",
			wantID:    42,
			wantTotal: 15,
		},
		{
			name: "formula not available for role",
			setupMocks: func(formulas *FormulaMock, repo *RepoMock) {
				formulas.On("Read", mock.Anything, 6).Return(adminOnly, nil).Once()
			},
			req:     models.DummyFormulaOrder{FormulaID: 6, Values: map[string]any{}},
			role:    "user",
			wantErr: ErrFormulaNotAvailable,
		},
		{
			name: "repository error",
			setupMocks: func(formulas *FormulaMock, repo *RepoMock) {
				formulas.On("Read", mock.Anything, 5).Return(f, nil).Once()
				repo.On("CreateFormulaOrder", mock.Anything, wantOrder).
					Return(0, errors.New("insufficient points")).Once()
			},
			req:     models.DummyFormulaOrder{FormulaID: 5, Values: map[string]any{"subtitles": true}},
			role:    "user",
			wantErr: errors.New("insufficient points"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formulas := new(FormulaMock)
			repo := new(RepoMock)
			svc := New(formulas, repo, NewNoopLogger())

			tt.setupMocks(formulas, repo)

			id, total, err := svc.CreateFormulaOrder(context.Background(), "uid-123", tt.role, tt.req)
			if tt.wantErr != nil {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
				assert.Equal(t, tt.wantTotal, total)
			}

			formulas.AssertExpectations(t)
			repo.AssertExpectations(t)
		})
	}
}

func TestOrder_CreateServiceOrder(t *testing.T) {
	f := &models.Formula{
		ID:        9,
		BasePrice: 20,
		Category:  models.CategoryRecording,
		Access:    models.AccessPublic,
	}
	wantOrder := models.ServiceOrder{
		UserUID:     "uid-123",
		Kind:        models.OrderKindVlog,
		FormulaID:   9,
		Category:    models.CategoryRecording,
		TotalPoints: 20,
		Details:     "запись влога на выезде",
		Status:      models.OrderStatusReceived,
	}

	formulas := new(FormulaMock)
	repo := new(RepoMock)
	svc := New(formulas, repo, NewNoopLogger())

	formulas.On("Read", mock.Anything, 9).Return(f, nil).Once()
	repo.On("CreateServiceOrder", mock.Anything, wantOrder).Return(17, nil).Once()

	id, total, err := svc.CreateServiceOrder(context.Background(), "uid-123", "user", models.DummyServiceOrder{
		Kind:      "vlog",
		FormulaID: 9,
		Values:    map[string]any{},
		Details:   "запись влога на выезде",
	})
	assert.NoError(t, err)
	assert.Equal(t, 17, id)
	assert.Equal(t, 20, total)

	formulas.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestOrder_CreateServiceOrder_UnknownKind(t *testing.T) {
	formulas := new(FormulaMock)
	repo := new(RepoMock)
	svc := New(formulas, repo, NewNoopLogger())

	_, _, err := svc.CreateServiceOrder(context.Background(), "uid-123", "user", models.DummyServiceOrder{
		Kind:      "formula",
		FormulaID: 9,
		Values:    map[string]any{},
	})
	assert.Error(t, err)

	formulas.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestOrder_UpdateStatus(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(repo *RepoMock)
		status     string
		wantErr    error
	}{
		{
			name: "valid transition",
			setupMocks: func(repo *RepoMock) {
				repo.On("GetOrderStatus", mock.Anything, models.OrderKindFormula, 1).
					Return(models.OrderStatusReceived, nil).Once()
				repo.On("UpdateOrderStatus", mock.Anything, models.OrderKindFormula, 1, models.OrderStatusInProgress).
					Return(1, nil).Once()
			},
			status: models.OrderStatusInProgress,
		},
		{
			name: "invalid transition",
			setupMocks: func(repo *RepoMock) {
				repo.On("GetOrderStatus", mock.Anything, models.OrderKindFormula, 1).
					Return(models.OrderStatusCompleted, nil).Once()
			},
			status:  models.OrderStatusInProgress,
			wantErr: ErrInvalidTransition,
		},
		{
			name:       "unknown status rejected before read",
			setupMocks: func(repo *RepoMock) {},
			status:     "Shipped",
			wantErr:    errors.New("unknown order status"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formulas := new(FormulaMock)
			repo := new(RepoMock)
			svc := New(formulas, repo, NewNoopLogger())

			tt.setupMocks(repo)

			count, err := svc.UpdateStatus(context.Background(), models.OrderKindFormula, 1, tt.status)
			if tt.wantErr != nil {
				assert.Error(t, err)
				if errors.Is(tt.wantErr, ErrInvalidTransition) {
					assert.ErrorIs(t, err, ErrInvalidTransition)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 1, count)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestOrder_ListFormulaOrders_AdminSeesAll(t *testing.T) {
	formulas := new(FormulaMock)
	repo := new(RepoMock)
	svc := New(formulas, repo, NewNoopLogger())

	repo.On("ListFormulaOrders", mock.Anything, "", 20, 0).
		Return([]*models.FormulaOrder{}, nil).Once()

	_, err := svc.ListFormulaOrders(context.Background(), "uid-123", "admin", 20, 0)
	assert.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestOrder_ListFormulaOrders_UserSeesOwn(t *testing.T) {
	formulas := new(FormulaMock)
	repo := new(RepoMock)
	svc := New(formulas, repo, NewNoopLogger())

	repo.On("ListFormulaOrders", mock.Anything, "uid-123", 20, 0).
		Return([]*models.FormulaOrder{}, nil).Once()

	_, err := svc.ListFormulaOrders(context.Background(), "uid-123", "user", 20, 0)
	assert.NoError(t, err)

	repo.AssertExpectations(t)
}
