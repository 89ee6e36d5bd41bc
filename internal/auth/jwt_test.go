package auth_test

import (
	"testing"
	"time"

	"taskdash/internal/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestGenerateAndParseToken(t *testing.T) {
	issuer := auth.NewIssuer("test-secret-key", time.Hour)

	// Генерируем токен
	token, expiresAt, err := issuer.GenerateToken("session-1", "dev001")

	// Проверяем, что токен создан без ошибок
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	// Парсим токен
	claims, err := issuer.ParseToken(token)

	assert.NoError(t, err)
	assert.Equal(t, "session-1", claims.SessionID)
	assert.Equal(t, "dev001", claims.UserID)
}

func TestParseToken_InvalidToken(t *testing.T) {
	issuer := auth.NewIssuer("test-secret-key", time.Hour)

	_, err := issuer.ParseToken("invalid-token")

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _, err := auth.NewIssuer("other-secret", time.Hour).GenerateToken("session-1", "dev001")
	assert.NoError(t, err)

	_, err = auth.NewIssuer("test-secret-key", time.Hour).ParseToken(token)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_ExpiredToken(t *testing.T) {
	// Создаем токен с истекшим сроком действия
	claims := jwt.MapClaims{
		"session_id": "session-1",
		"exp":        time.Now().Add(-1 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	expiredToken, _ := token.SignedString([]byte("test-secret-key"))

	_, err := auth.NewIssuer("test-secret-key", time.Hour).ParseToken(expiredToken)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_MissingClaims(t *testing.T) {
	// Создаем токен без ID сессии
	claims := jwt.MapClaims{
		"user_id": "dev001",
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenWithoutSession, _ := token.SignedString([]byte("test-secret-key"))

	_, err := auth.NewIssuer("test-secret-key", time.Hour).ParseToken(tokenWithoutSession)

	assert.ErrorIs(t, err, auth.ErrInvalidClaims)
}
