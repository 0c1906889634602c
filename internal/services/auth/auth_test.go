package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/points-marketplace/internal/lib/jwt"
	"github.com/magabrotheeeer/points-marketplace/internal/lib/password"
	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UsersMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UsersMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UsersMock) UpdatePassword(ctx context.Context, userUID, passwordHash string) (int, error) {
	args := m.Called(ctx, userUID, passwordHash)
	return args.Int(0), args.Error(1)
}

func testUser(t *testing.T, rawPassword string) *models.User {
	t.Helper()
	hash, err := password.GetHash(rawPassword)
	require.NoError(t, err)
	return &models.User{
		UID:          "uid-123",
		Email:        "ivan@example.com",
		Username:     "ivan",
		PasswordHash: hash,
		Role:         "user",
	}
}

func TestAuth_Register(t *testing.T) {
	users := new(UsersMock)
	svc := New(users, jwt.NewMaker("test-secret", time.Hour))

	users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Username == "ivan" &&
			u.Role == "user" &&
			u.PasswordHash != "secret password" &&
			password.CompareHash(u.PasswordHash, "secret password") == nil
	})).Return("uid-123", nil).Once()

	uid, err := svc.Register(context.Background(), models.DummyRegister{
		Email:    "ivan@example.com",
		Username: "ivan",
		Password: "secret password",
	})
	assert.NoError(t, err)
	assert.Equal(t, "uid-123", uid)

	users.AssertExpectations(t)
}

func TestAuth_Login(t *testing.T) {
	user := testUser(t, "secret password")

	tests := []struct {
		name       string
		setupMocks func(users *UsersMock)
		password   string
		wantErr    error
	}{
		{
			name: "success login",
			setupMocks: func(users *UsersMock) {
				users.On("GetUserByUsername", mock.Anything, "ivan").Return(user, nil).Once()
			},
			password: "secret password",
		},
		{
			name: "wrong password",
			setupMocks: func(users *UsersMock) {
				users.On("GetUserByUsername", mock.Anything, "ivan").Return(user, nil).Once()
			},
			password: "wrong password",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name: "unknown user",
			setupMocks: func(users *UsersMock) {
				users.On("GetUserByUsername", mock.Anything, "ivan").
					Return(nil, errors.New("not found")).Once()
			},
			password: "secret password",
			wantErr:  ErrInvalidCredentials,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			maker := jwt.NewMaker("test-secret", time.Hour)
			svc := New(users, maker)

			tt.setupMocks(users)

			token, role, err := svc.Login(context.Background(), "ivan", tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "user", role)

				claims, err := maker.ParseToken(token)
				require.NoError(t, err)
				assert.Equal(t, "uid-123", claims.UserUID)
				assert.Equal(t, "ivan", claims.Username)
			}

			users.AssertExpectations(t)
		})
	}
}

func TestAuth_ValidateToken(t *testing.T) {
	user := testUser(t, "secret password")
	users := new(UsersMock)
	maker := jwt.NewMaker("test-secret", time.Hour)
	svc := New(users, maker)

	token, err := maker.GenerateToken(user.UID, user.Username, user.Email, user.Role)
	require.NoError(t, err)

	// Роль перечитывается из базы, а не берётся из токена.
	fresh := *user
	fresh.Role = "admin"
	users.On("GetUser", mock.Anything, "uid-123").Return(&fresh, nil).Once()

	got, err := svc.ValidateToken(context.Background(), token)
	assert.NoError(t, err)
	assert.Equal(t, "admin", got.Role)

	users.AssertExpectations(t)
}

func TestAuth_ValidateToken_BadToken(t *testing.T) {
	users := new(UsersMock)
	svc := New(users, jwt.NewMaker("test-secret", time.Hour))

	got, err := svc.ValidateToken(context.Background(), "not.a.token")
	assert.Error(t, err)
	assert.Nil(t, got)

	users.AssertExpectations(t)
}

func TestAuth_ChangePassword(t *testing.T) {
	user := testUser(t, "old password")

	tests := []struct {
		name       string
		setupMocks func(users *UsersMock)
		req        models.DummyChangePassword
		wantErr    error
	}{
		{
			name: "success change",
			setupMocks: func(users *UsersMock) {
				users.On("GetUser", mock.Anything, "uid-123").Return(user, nil).Once()
				users.On("UpdatePassword", mock.Anything, "uid-123", mock.MatchedBy(func(hash string) bool {
					return password.CompareHash(hash, "new password") == nil
				})).Return(1, nil).Once()
			},
			req: models.DummyChangePassword{OldPassword: "old password", NewPassword: "new password"},
		},
		{
			name: "wrong old password",
			setupMocks: func(users *UsersMock) {
				users.On("GetUser", mock.Anything, "uid-123").Return(user, nil).Once()
			},
			req:     models.DummyChangePassword{OldPassword: "wrong", NewPassword: "new password"},
			wantErr: ErrInvalidCredentials,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			svc := New(users, jwt.NewMaker("test-secret", time.Hour))

			tt.setupMocks(users)

			err := svc.ChangePassword(context.Background(), "uid-123", tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			users.AssertExpectations(t)
		})
	}
}
