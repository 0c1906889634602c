package pointpackage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreatePackage(ctx context.Context, pkg models.PointPackage) (int, error) {
	args := m.Called(ctx, pkg)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ReadPackage(ctx context.Context, id int) (*models.PointPackage, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.PointPackage), args.Error(1)
}

func (m *RepoMock) ListPackagesByUser(ctx context.Context, userUID string) ([]*models.PointPackage, error) {
	args := m.Called(ctx, userUID)
	return args.Get(0).([]*models.PointPackage), args.Error(1)
}

func (m *RepoMock) ListAllPackages(ctx context.Context, limit, offset int) ([]*models.PointPackage, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.PointPackage), args.Error(1)
}

func (m *RepoMock) UpdatePackage(ctx context.Context, id int, req models.DummyPackageUpdate) (int, error) {
	args := m.Called(ctx, id, req)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) RemovePackage(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) AdjustPackagePoints(ctx context.Context, id int, category models.Category, delta int, auditLine string) (int, error) {
	args := m.Called(ctx, id, category, delta, auditLine)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) CreatePointsOrder(ctx context.Context, po models.PointsOrder) (int, error) {
	args := m.Called(ctx, po)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ListPointsOrders(ctx context.Context, userUID string, limit, offset int) ([]*models.PointsOrder, error) {
	args := m.Called(ctx, userUID, limit, offset)
	return args.Get(0).([]*models.PointsOrder), args.Error(1)
}

func NewNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestPackage_Purchase(t *testing.T) {
	dummyReq := models.DummyPackage{
		EditingPoints: 10,
		DesignPoints:  5,
		LifespanDays:  30,
		Price:         49.90,
		Description:   "стартовый пакет",
	}
	pkg := models.PointPackage{
		UserUID:       "uid-123",
		EditingPoints: 10,
		DesignPoints:  5,
		LifespanDays:  30,
		Status:        models.PackageStatusActive,
		Price:         49.90,
		Description:   "стартовый пакет",
	}
	pointsOrder := models.PointsOrder{
		UserUID:   "uid-123",
		PackageID: 42,
		Price:     49.90,
		Status:    models.OrderStatusReceived,
	}

	tests := []struct {
		name        string
		setupMocks  func(repo *RepoMock)
		req         models.DummyPackage
		wantPkgID   int
		wantOrderID int
		wantErr     bool
	}{
		{
			name: "success purchase",
			setupMocks: func(repo *RepoMock) {
				repo.On("CreatePackage", mock.Anything, pkg).Return(42, nil).Once()
				repo.On("CreatePointsOrder", mock.Anything, pointsOrder).Return(7, nil).Once()
			},
			req:         dummyReq,
			wantPkgID:   42,
			wantOrderID: 7,
		},
		{
			name: "empty description gets default",
			setupMocks: func(repo *RepoMock) {
				repo.On("CreatePackage", mock.Anything, mock.MatchedBy(func(p models.PointPackage) bool {
					return strings.HasPrefix(p.Description, "покупка пакета")
				})).Return(42, nil).Once()
				repo.On("CreatePointsOrder", mock.Anything, pointsOrder).Return(7, nil).Once()
			},
			req: models.DummyPackage{
				EditingPoints: 10,
				DesignPoints:  5,
				LifespanDays:  30,
				Price:         49.90,
			},
			wantPkgID:   42,
			wantOrderID: 7,
		},
		{
			name: "repository error on package",
			setupMocks: func(repo *RepoMock) {
				repo.On("CreatePackage", mock.Anything, pkg).Return(0, errors.New("db down")).Once()
			},
			req:     dummyReq,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := New(repo, NewNoopLogger())

			tt.setupMocks(repo)

			pkgID, orderID, err := svc.Purchase(context.Background(), "uid-123", tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantPkgID, pkgID)
				assert.Equal(t, tt.wantOrderID, orderID)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestPackage_Adjust(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(repo *RepoMock)
		req        models.DummyAdjust
		wantErr    error
	}{
		{
			name: "success adjust",
			setupMocks: func(repo *RepoMock) {
				repo.On("AdjustPackagePoints", mock.Anything, 1, models.CategoryEditing, -3,
					mock.MatchedBy(func(line string) bool {
						return strings.Contains(line, "-3 editing") &&
							strings.Contains(line, "компенсация брака") &&
							strings.Contains(line, "(admin: boss)")
					})).Return(1, nil).Once()
			},
			req: models.DummyAdjust{Category: "editing", Delta: -3, Reason: "компенсация брака"},
		},
		{
			name: "rejected when balance would go negative",
			setupMocks: func(repo *RepoMock) {
				repo.On("AdjustPackagePoints", mock.Anything, 1, models.CategoryEditing, -100, mock.Anything).
					Return(0, nil).Once()
			},
			req:     models.DummyAdjust{Category: "editing", Delta: -100, Reason: "ошибка"},
			wantErr: ErrAdjustRejected,
		},
		{
			name:       "unknown category rejected before storage",
			setupMocks: func(repo *RepoMock) {},
			req:        models.DummyAdjust{Category: "marketing", Delta: 5, Reason: "бонус"},
			wantErr:    errors.New("unknown point category"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := New(repo, NewNoopLogger())

			tt.setupMocks(repo)

			err := svc.Adjust(context.Background(), 1, "boss", tt.req)
			if tt.wantErr != nil {
				assert.Error(t, err)
				if errors.Is(tt.wantErr, ErrAdjustRejected) {
					assert.ErrorIs(t, err, ErrAdjustRejected)
				}
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestPackage_List(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, NewNoopLogger())

	repo.On("ListAllPackages", mock.Anything, 20, 0).
		Return([]*models.PointPackage{}, nil).Once()
	repo.On("ListPackagesByUser", mock.Anything, "uid-123").
		Return([]*models.PointPackage{}, nil).Once()

	_, err := svc.List(context.Background(), "uid-123", "admin", 20, 0)
	assert.NoError(t, err)
	_, err = svc.List(context.Background(), "uid-123", "user", 20, 0)
	assert.NoError(t, err)

	repo.AssertExpectations(t)
}
