package balance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListActivePackages(ctx context.Context, userUID string, category models.Category) ([]*models.PointPackage, error) {
	args := m.Called(ctx, userUID, category)
	return args.Get(0).([]*models.PointPackage), args.Error(1)
}

func NewNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestBalance_ActiveBalance(t *testing.T) {
	now := time.Now()
	fresh := &models.PointPackage{
		ID:            1,
		EditingPoints: 5,
		CreatedAt:     now,
		LifespanDays:  30,
		Status:        models.PackageStatusActive,
	}
	alsoFresh := &models.PointPackage{
		ID:            2,
		EditingPoints: 10,
		CreatedAt:     now,
		LifespanDays:  7,
		Status:        models.PackageStatusActive,
	}
	// Статус Active, но срок жизни давно вышел: в базе рассогласованность.
	stale := &models.PointPackage{
		ID:            3,
		EditingPoints: 100,
		CreatedAt:     now.AddDate(0, 0, -40),
		LifespanDays:  30,
		Status:        models.PackageStatusActive,
	}

	tests := []struct {
		name       string
		setupMocks func(repo *RepoMock)
		wantTotal  int
		wantErr    bool
	}{
		{
			name: "sums usable packages",
			setupMocks: func(repo *RepoMock) {
				repo.On("ListActivePackages", mock.Anything, "uid-123", models.CategoryEditing).
					Return([]*models.PointPackage{fresh, alsoFresh}, nil).Once()
			},
			wantTotal: 15,
		},
		{
			name: "expired active package excluded",
			setupMocks: func(repo *RepoMock) {
				repo.On("ListActivePackages", mock.Anything, "uid-123", models.CategoryEditing).
					Return([]*models.PointPackage{fresh, stale}, nil).Once()
			},
			wantTotal: 5,
		},
		{
			name: "no packages means zero",
			setupMocks: func(repo *RepoMock) {
				repo.On("ListActivePackages", mock.Anything, "uid-123", models.CategoryEditing).
					Return([]*models.PointPackage{}, nil).Once()
			},
			wantTotal: 0,
		},
		{
			name: "repository error",
			setupMocks: func(repo *RepoMock) {
				repo.On("ListActivePackages", mock.Anything, "uid-123", models.CategoryEditing).
					Return([]*models.PointPackage(nil), errors.New("db down")).Once()
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := New(repo, NewNoopLogger())

			tt.setupMocks(repo)

			got, err := svc.ActiveBalance(context.Background(), "uid-123", models.CategoryEditing)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantTotal, got)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestBalance_ActiveBalances(t *testing.T) {
	now := time.Now()
	pkg := &models.PointPackage{
		ID:               1,
		EditingPoints:    5,
		RecordingPoints:  2,
		DesignPoints:     0,
		ConsultingPoints: 9,
		CreatedAt:        now,
		LifespanDays:     30,
		Status:           models.PackageStatusActive,
	}

	repo := new(RepoMock)
	svc := New(repo, NewNoopLogger())

	for _, category := range models.AllCategories() {
		repo.On("ListActivePackages", mock.Anything, "uid-123", category).
			Return([]*models.PointPackage{pkg}, nil).Once()
	}

	got, err := svc.ActiveBalances(context.Background(), "uid-123")
	assert.NoError(t, err)
	assert.Equal(t, map[models.Category]int{
		models.CategoryEditing:    5,
		models.CategoryRecording:  2,
		models.CategoryDesign:     0,
		models.CategoryConsulting: 9,
	}, got)

	repo.AssertExpectations(t)
}
