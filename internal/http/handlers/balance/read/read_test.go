package read

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/points-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ActiveBalance(ctx context.Context, userUID string, category models.Category) (int, error) {
	args := m.Called(ctx, userUID, category)
	return args.Int(0), args.Error(1)
}

func (m *MockService) ActiveBalances(ctx context.Context, userUID string) (map[models.Category]int, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.(map[models.Category]int), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReadBalanceHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		url            string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "балансы по всем категориям",
			url:     "/balance",
			userUID: "uid-123",
			setupMock: func(m *MockService) {
				m.On("ActiveBalances", mock.Anything, "uid-123").Return(map[models.Category]int{
					models.CategoryEditing:    15,
					models.CategoryRecording:  0,
					models.CategoryDesign:     3,
					models.CategoryConsulting: 0,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"editing":15`,
		},
		{
			name:    "баланс одной категории",
			url:     "/balance?category=design",
			userUID: "uid-123",
			setupMock: func(m *MockService) {
				m.On("ActiveBalance", mock.Anything, "uid-123", models.CategoryDesign).Return(3, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"design":3`,
		},
		{
			name:           "неизвестная категория",
			url:            "/balance?category=marketing",
			userUID:        "uid-123",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"unknown category"`,
		},
		{
			name:           "без идентичности в контексте",
			url:            "/balance",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"unauthorized"`,
		},
		{
			name:    "ошибка сервиса",
			url:     "/balance",
			userUID: "uid-123",
			setupMock: func(m *MockService) {
				m.On("ActiveBalances", mock.Anything, "uid-123").
					Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"could not calculate balance"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.userUID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID))
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
