// Package jwt реализует генерацию и парсинг подписанных сессионных токенов.
//
// Токен кладётся в HTTP-only cookie и несёт только идентичность пользователя:
// uid, username, email и роль. Балансы очков в токене не кэшируются —
// middleware перечитывает пользователя из базы на каждый запрос.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга сессионных токенов.
type Maker interface {
	// GenerateToken создает токен для пользователя с указанной ролью.
	GenerateToken(userUID, username, email, role string) (string, error)
	// ParseToken возвращает *SessionClaims, если токен корректен.
	ParseToken(tokenStr string) (*SessionClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
