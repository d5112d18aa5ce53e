// Package jwt реализует генерацию и парсинг токена сессии с пользовательскими claim полями.
//
// Токен выступает криптографически подписанным «пропуском» сессии: сторы
// используют его как Credential Token и проверяют при восстановлении сессии.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга токенов сессии.
type Maker interface {
	// GenerateToken создаёт токен с email, ролью и идентификатором пользователя.
	GenerateToken(email, role, userID string) (string, error)
	// ParseToken возвращает *CustomClaims, если токен корректен и не истёк.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
