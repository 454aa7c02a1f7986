// Package middlewarectx содержит HTTP middleware для разрешения личности
// запроса и проверки прав доступа.
//
// Identity разбирает JWT из заголовка Authorization и, если токен валиден,
// кладёт имя пользователя в контекст запроса. Отсутствующий или невалидный
// токен не является ошибкой на этом уровне: запрос продолжается анонимным,
// а требовать личность или её совпадение с владельцем ресурса — забота
// middleware RequireUser и RequireOwner.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/music-favorites/internal/lib/jwt"
	"github.com/magabrotheeeer/music-favorites/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// User — ключ для имени пользователя в контексте.
const User Key = "username"

// TokenParser описывает часть jwt.Maker, нужную для разбора токена.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.IdentityClaims, error)
}

// Identity возвращает middleware, разрешающее личность запроса из
// заголовка Authorization. Ошибка проверки токена деградирует до
// анонимного запроса и логируется на уровне Debug.
func Identity(parser TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Identity"

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			claims, err := parser.ParseToken(tokenStr)
			if err != nil {
				log.Debug("token did not verify, treating request as anonymous",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), User, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Username достаёт имя пользователя, положенное Identity в контекст.
func Username(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(User).(string)
	return username, ok && username != ""
}
