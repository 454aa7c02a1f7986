// Package jwt реализует генерацию и парсинг JWT токенов личности пользователя.
//
// IdentityClaims расширяет стандартные claims JWT, добавляя username.
// Методы GenerateToken и ParseToken реализуют создание и валидацию токена.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims описывает данные личности, хранящиеся в JWT.
type IdentityClaims struct {
	Username             string `json:"username"` // Имя пользователя
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (IssuedAt и пр.)
}

// GenerateToken создает JWT токен с заданным username, подписывая его
// секретным ключом. При нулевом tokenTTL срок действия не проставляется.
func (j *MakerImpl) GenerateToken(username string) (string, error) {
	claims := IdentityClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if j.tokenTTL != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(j.tokenTTL))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит JWT токен, проверяет его подпись и валидность,
// возвращает IdentityClaims с данными, если токен корректен.
// Токены, подписанные другим алгоритмом, отвергаются.
func (j *MakerImpl) ParseToken(tokenStr string) (*IdentityClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &IdentityClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
