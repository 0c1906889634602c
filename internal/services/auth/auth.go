// Package auth содержит логику регистрации, входа и проверки сессии.
package auth

import (
	"context"
	"errors"

	"github.com/magabrotheeeer/points-marketplace/internal/lib/jwt"
	"github.com/magabrotheeeer/points-marketplace/internal/lib/password"
	"github.com/magabrotheeeer/points-marketplace/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль
// и при неверном старом пароле при его смене.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// UpdatePassword сохраняет новый хэш пароля пользователя.
	UpdatePassword(ctx context.Context, userUID, passwordHash string) (int, error)
}

// Service отвечает за регистрацию, вход и валидацию сессионного токена.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной ролью "user".
func (s *Service) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		PasswordHash: hashed,
		Role:         "user", // дефолтная роль при регистрации
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя и возвращает подписанный сессионный токен.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(user.UID, user.Username, user.Email, user.Role)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// ValidateToken проверяет сессионный токен и возвращает актуального пользователя.
// Идентичность берётся из токена, остальные поля перечитываются из базы,
// чтобы роль и почта не устаревали на время жизни cookie.
func (s *Service) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return s.users.GetUser(ctx, claims.UserUID)
}

// ChangePassword меняет пароль пользователя после проверки старого.
func (s *Service) ChangePassword(ctx context.Context, userUID string, req models.DummyChangePassword) error {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return err
	}
	if err := password.CompareHash(user.PasswordHash, req.OldPassword); err != nil {
		return ErrInvalidCredentials
	}
	hashed, err := password.GetHash(req.NewPassword)
	if err != nil {
		return err
	}
	_, err = s.users.UpdatePassword(ctx, userUID, hashed)
	return err
}
