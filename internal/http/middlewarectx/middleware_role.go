package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/movieexplorer/movie-explorer/internal/http/response"
	"github.com/movieexplorer/movie-explorer/internal/policy"
)

// RequireManagerMiddleware пропускает только пользователей с ролью,
// позволяющей управлять каталогом фильмов (супервизор или администратор).
func RequireManagerMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(Role).(string)
			if !ok || !policy.CanManageMovies(role) {
				log.Error("access denied for role", slog.String("role", role))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("supervisor or admin role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
