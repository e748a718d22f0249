// Package movieexplorer собирает и запускает основное HTTP-приложение
// каталога фильмов.
package movieexplorer

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/movieexplorer/movie-explorer/internal/cache"
	"github.com/movieexplorer/movie-explorer/internal/config"
	"github.com/movieexplorer/movie-explorer/internal/fcm"
	"github.com/movieexplorer/movie-explorer/internal/lib/jwt"
	"github.com/movieexplorer/movie-explorer/internal/migrations"
	"github.com/movieexplorer/movie-explorer/internal/rabbitmq"
	authservice "github.com/movieexplorer/movie-explorer/internal/services/auth"
	movieservice "github.com/movieexplorer/movie-explorer/internal/services/movie"
	senderservice "github.com/movieexplorer/movie-explorer/internal/services/sender"
	subservice "github.com/movieexplorer/movie-explorer/internal/services/subscription"
	wishlistservice "github.com/movieexplorer/movie-explorer/internal/services/wishlist"
	"github.com/movieexplorer/movie-explorer/internal/storage/repository"
	"github.com/movieexplorer/movie-explorer/internal/stripe"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	publisher := &rabbitmq.Publisher{Ch: ch}

	fcmClient, err := fcm.NewClient(ctx, cfg.FCM)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	stripeClient := stripe.New(cfg.Stripe)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, db, cacheRedis, jwtMaker, logger)
	subscriptionService := subservice.NewSubscriptionService(db, db, stripeClient, cfg.Payments, logger)
	movieService := movieservice.NewMovieService(db, subscriptionService, cacheRedis, publisher, logger)
	wishlistService := wishlistservice.NewWishlistService(db, db, logger)
	senderService := senderservice.NewSenderService(db, fcmClient, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db,
		authService, subscriptionService, movieService, wishlistService, senderService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		_ = a.db.DB.Close()
		return err
	}
}
