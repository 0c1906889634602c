package middlewarectx

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

	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

// MockService реализует интерфейс middlewarectx.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSessionMiddleware(t *testing.T) {
	user := &models.User{
		UID:      "uid-123",
		Username: "ivan",
		Email:    "ivan@example.com",
		Role:     "admin",
	}

	tests := []struct {
		name           string
		cookie         *http.Cookie
		setupMock      func(*MockService)
		expectedStatus int
		expectNext     bool
	}{
		{
			name:   "валидная сессия кладёт идентичность в контекст",
			cookie: &http.Cookie{Name: "session", Value: "good-token"},
			setupMock: func(m *MockService) {
				m.On("ValidateToken", mock.Anything, "good-token").Return(user, nil)
			},
			expectedStatus: http.StatusOK,
			expectNext:     true,
		},
		{
			name:           "отсутствующая cookie",
			cookie:         nil,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "просроченный токен",
			cookie: &http.Cookie{Name: "session", Value: "stale-token"},
			setupMock: func(m *MockService) {
				m.On("ValidateToken", mock.Anything, "stale-token").
					Return(nil, errors.New("token is expired"))
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			nextCalled := false
			next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				nextCalled = true
				assert.Equal(t, "ivan", r.Context().Value(User))
				assert.Equal(t, "admin", r.Context().Value(Role))
				assert.Equal(t, "uid-123", r.Context().Value(UserUID))
			})

			handler := SessionMiddleware(mockService, "session", noopLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/balance", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectNext, nextCalled)

			mockService.AssertExpectations(t)
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		role           any
		expectedStatus int
		expectNext     bool
	}{
		{name: "админ проходит", role: "admin", expectedStatus: http.StatusOK, expectNext: true},
		{name: "пользователь получает 403", role: "user", expectedStatus: http.StatusForbidden},
		{name: "без роли в контексте 403", role: nil, expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
				nextCalled = true
			})

			handler := AdminMiddleware(noopLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
			if tt.role != nil {
				req = req.WithContext(context.WithValue(req.Context(), Role, tt.role))
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectNext, nextCalled)
		})
	}
}
