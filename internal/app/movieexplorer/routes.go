// Package movieexplorer предоставляет маршруты для основного приложения.
package movieexplorer

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/movieexplorer/movie-explorer/internal/http/handlers/auth/login"
	"github.com/movieexplorer/movie-explorer/internal/http/handlers/auth/logout"
	"github.com/movieexplorer/movie-explorer/internal/http/handlers/auth/signup"
	"github.com/movieexplorer/movie-explorer/internal/http/handlers/health"
	movieall "github.com/movieexplorer/movie-explorer/internal/http/handlers/movie/all"
	moviecreate "github.com/movieexplorer/movie-explorer/internal/http/handlers/movie/create"
	movielist "github.com/movieexplorer/movie-explorer/internal/http/handlers/movie/list"
	movieread "github.com/movieexplorer/movie-explorer/internal/http/handlers/movie/read"
	movieremove "github.com/movieexplorer/movie-explorer/internal/http/handlers/movie/remove"
	movieupdate "github.com/movieexplorer/movie-explorer/internal/http/handlers/movie/update"
	notificationsend "github.com/movieexplorer/movie-explorer/internal/http/handlers/notification/send"
	subcancel "github.com/movieexplorer/movie-explorer/internal/http/handlers/subscription/cancel"
	subcreate "github.com/movieexplorer/movie-explorer/internal/http/handlers/subscription/create"
	subindex "github.com/movieexplorer/movie-explorer/internal/http/handlers/subscription/index"
	substatus "github.com/movieexplorer/movie-explorer/internal/http/handlers/subscription/status"
	subsuccess "github.com/movieexplorer/movie-explorer/internal/http/handlers/subscription/success"
	"github.com/movieexplorer/movie-explorer/internal/http/handlers/user/preferences"
	wishlistclear "github.com/movieexplorer/movie-explorer/internal/http/handlers/wishlist/clear"
	wishlistlist "github.com/movieexplorer/movie-explorer/internal/http/handlers/wishlist/list"
	wishlistremove "github.com/movieexplorer/movie-explorer/internal/http/handlers/wishlist/remove"
	wishlisttoggle "github.com/movieexplorer/movie-explorer/internal/http/handlers/wishlist/toggle"
	"github.com/movieexplorer/movie-explorer/internal/http/middlewarectx"
	authservice "github.com/movieexplorer/movie-explorer/internal/services/auth"
	movieservice "github.com/movieexplorer/movie-explorer/internal/services/movie"
	senderservice "github.com/movieexplorer/movie-explorer/internal/services/sender"
	subservice "github.com/movieexplorer/movie-explorer/internal/services/subscription"
	wishlistservice "github.com/movieexplorer/movie-explorer/internal/services/wishlist"
	"github.com/movieexplorer/movie-explorer/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage,
	authService *authservice.AuthService,
	subscriptionService *subservice.SubscriptionService,
	movieService *movieservice.MovieService,
	wishlistService *wishlistservice.WishlistService,
	senderService *senderservice.SenderService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/signup", signup.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Редиректы платёжной системы (без аутентификации)
		r.Get("/subscriptions/success", subsuccess.New(logger, subscriptionService).ServeHTTP)
		r.Get("/subscriptions/cancel", subcancel.New(logger, subscriptionService).ServeHTTP)

		// Просмотр каталога открыт, детали фильма закрыты тарифом
		r.Get("/movies", movielist.New(logger, movieService).ServeHTTP)
		r.Get("/movies/all", movieall.New(logger, movieService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/logout", logout.New(logger, authService).ServeHTTP)
			r.Post("/update_preferences", preferences.New(logger, authService).ServeHTTP)

			r.Get("/movies/{id}", movieread.New(logger, movieService).ServeHTTP)

			r.Post("/subscriptions", subcreate.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions", subindex.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/status", substatus.New(logger, subscriptionService).ServeHTTP)

			r.Post("/wishlists", wishlisttoggle.New(logger, wishlistService).ServeHTTP)
			r.Get("/wishlists", wishlistlist.New(logger, wishlistService).ServeHTTP)
			r.Delete("/wishlists", wishlistclear.New(logger, wishlistService).ServeHTTP)
			r.Delete("/wishlists/{movie_id}", wishlistremove.New(logger, wishlistService).ServeHTTP)

			// Управление каталогом и прямые рассылки доступны
			// супервизорам и администраторам
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireManagerMiddleware(logger))
				r.Post("/movies", moviecreate.New(logger, movieService).ServeHTTP)
				r.Put("/movies/{id}", movieupdate.New(logger, movieService).ServeHTTP)
				r.Patch("/movies/{id}", movieupdate.New(logger, movieService).ServeHTTP)
				r.Delete("/movies/{id}", movieremove.New(logger, movieService).ServeHTTP)
				r.Post("/send_notification", notificationsend.New(logger, senderService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
