package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/music-favorites/internal/http/response"
)

// RequireUser возвращает middleware, требующее разрешённую личность.
// Анонимный запрос получает 401 Unauthorized.
func RequireUser(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireUser"

			if _, ok := Username(r.Context()); !ok {
				log.Error("anonymous request to protected route",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireOwner возвращает middleware, требующее, чтобы разрешённая личность
// точно совпадала с параметром маршрута {username}. Сравнение регистрозависимое,
// административного обхода нет.
func RequireOwner(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireOwner"

			username, ok := Username(r.Context())
			if !ok || username != chi.URLParam(r, "username") {
				log.Error("identity does not match resource owner",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
