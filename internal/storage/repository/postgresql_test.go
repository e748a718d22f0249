package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movieexplorer/movie-explorer/internal/models"
)

func TestStorage_Users(t *testing.T) {
	if testing.Short() {
		t.Skip("пропускаем интеграционный тест в коротком режиме")
	}
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("регистрация и чтение пользователя", func(t *testing.T) {
		uid, err := storage.RegisterUser(ctx, &models.User{
			FirstName:            "Ivan",
			LastName:             "Petrov",
			Email:                "ivan@example.com",
			PasswordHash:         "hash",
			MobileNumber:         "9990001122",
			Role:                 models.RoleUser,
			NotificationsEnabled: true,
		})
		require.NoError(t, err)
		require.NotEmpty(t, uid)

		user, err := storage.GetUser(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, "Ivan", user.FirstName)
		assert.Equal(t, "ivan@example.com", user.Email)
		assert.Equal(t, models.RoleUser, user.Role)
		assert.True(t, user.NotificationsEnabled)

		byEmail, err := storage.GetUserByEmail(ctx, "ivan@example.com")
		require.NoError(t, err)
		assert.Equal(t, uid, byEmail.UID)
	})

	t.Run("пользователь не найден", func(t *testing.T) {
		_, err := storage.GetUserByEmail(ctx, "missing@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("обновление настроек уведомлений", func(t *testing.T) {
		factory := NewTestDataFactory(storage)
		uid := factory.CreateUser(t, "Petr", "Sidorov", "petr@example.com", models.RoleUser)

		token := "device-token-1"
		enabled := false
		err := storage.UpdateUserPreferences(ctx, uid, models.DummyPreferences{
			DeviceToken:          &token,
			NotificationsEnabled: &enabled,
		})
		require.NoError(t, err)

		user, err := storage.GetUser(ctx, uid)
		require.NoError(t, err)
		require.NotNil(t, user.DeviceToken)
		assert.Equal(t, token, *user.DeviceToken)
		assert.False(t, user.NotificationsEnabled)
	})

	t.Run("выборка токенов устройств", func(t *testing.T) {
		factory := NewTestDataFactory(storage)
		uid := factory.CreateUser(t, "Anna", "Ivanova", "anna@example.com", models.RoleUser)

		token := "device-token-2"
		err := storage.UpdateUserPreferences(ctx, uid, models.DummyPreferences{DeviceToken: &token})
		require.NoError(t, err)

		tokens, err := storage.ListNotifiableDeviceTokens(ctx)
		require.NoError(t, err)
		assert.Contains(t, tokens, token)
	})
}

func TestStorage_Subscriptions(t *testing.T) {
	if testing.Short() {
		t.Skip("пропускаем интеграционный тест в коротком режиме")
	}
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	t.Run("создание и чтение подписки", func(t *testing.T) {
		uid := factory.CreateUser(t, "Sub", "One", "sub1@example.com", models.RoleUser)

		sub := models.DefaultSubscription(uid)
		id, err := storage.CreateSubscription(ctx, &sub)
		require.NoError(t, err)
		assert.Positive(t, id)

		got, err := storage.GetSubscriptionByUserUID(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, models.PlanBasic, got.Plan)
		assert.Equal(t, models.StatusActive, got.Status)
	})

	t.Run("обновление подписки и поиск по сессии", func(t *testing.T) {
		uid := factory.CreateUser(t, "Sub", "Two", "sub2@example.com", models.RoleUser)

		sub := models.DefaultSubscription(uid)
		id, err := storage.CreateSubscription(ctx, &sub)
		require.NoError(t, err)

		sessionID := "cs_test_12345"
		expires := time.Now().Add(24 * time.Hour)
		sub.ID = id
		sub.Plan = models.PlanGold
		sub.Status = models.StatusPending
		sub.SessionID = &sessionID
		sub.SessionExpiresAt = &expires

		err = storage.UpdateSubscription(ctx, &sub)
		require.NoError(t, err)

		got, err := storage.GetPendingSubscriptionBySessionID(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, models.PlanGold, got.Plan)
		require.NotNil(t, got.SessionID)
		assert.Equal(t, sessionID, *got.SessionID)
	})

	t.Run("сессия с другим статусом не находится", func(t *testing.T) {
		uid := factory.CreateUser(t, "Sub", "Three", "sub3@example.com", models.RoleUser)
		sessionID := "cs_test_done"
		factory.CreateSubscription(t, uid, models.PlanGold, models.StatusActive, &sessionID, nil)

		_, err := storage.GetPendingSubscriptionBySessionID(ctx, sessionID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("обновление несуществующей подписки", func(t *testing.T) {
		sub := models.Subscription{ID: 999999, Plan: models.PlanBasic, Status: models.StatusActive}
		err := storage.UpdateSubscription(ctx, &sub)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStorage_Movies(t *testing.T) {
	if testing.Short() {
		t.Skip("пропускаем интеграционный тест в коротком режиме")
	}
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("CRUD фильма", func(t *testing.T) {
		movie := &models.Movie{
			Title:       "Inception",
			Genre:       "Sci-Fi",
			ReleaseYear: 2010,
			Rating:      8.8,
			Director:    "Christopher Nolan",
			Duration:    148,
			Description: "a dream within a dream",
			Plan:        models.PlanGold,
		}
		id, err := storage.CreateMovie(ctx, movie)
		require.NoError(t, err)

		got, err := storage.GetMovie(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Inception", got.Title)
		assert.Equal(t, models.PlanGold, got.Plan)

		got.Rating = 9.0
		n, err := storage.UpdateMovie(ctx, got)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		n, err = storage.DeleteMovie(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		_, err = storage.GetMovie(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("список с фильтрами и пагинацией", func(t *testing.T) {
		factory := NewTestDataFactory(storage)
		factory.CreateMovie(t, "The Matrix", "Sci-Fi", models.PlanBasic)
		factory.CreateMovie(t, "The Matrix Reloaded", "Sci-Fi", models.PlanGold)
		factory.CreateMovie(t, "Titanic", "Drama", models.PlanBasic)

		movies, total, err := storage.ListMovies(ctx, models.MovieFilter{Search: "matrix", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, movies, 2)

		movies, total, err = storage.ListMovies(ctx, models.MovieFilter{Genre: "Drama", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, movies, 1)
		assert.Equal(t, "Titanic", movies[0].Title)

		movies, total, err = storage.ListMovies(ctx, models.MovieFilter{Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, movies, 2)
	})
}

func TestStorage_Wishlists(t *testing.T) {
	if testing.Short() {
		t.Skip("пропускаем интеграционный тест в коротком режиме")
	}
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	uid := factory.CreateUser(t, "Wish", "User", "wish@example.com", models.RoleUser)
	movieID := factory.CreateMovie(t, "Interstellar", "Sci-Fi", models.PlanBasic)
	otherID := factory.CreateMovie(t, "Dune", "Sci-Fi", models.PlanBasic)

	t.Run("добавление и поиск", func(t *testing.T) {
		found, err := storage.FindWishlist(ctx, uid, movieID)
		require.NoError(t, err)
		assert.False(t, found)

		_, err = storage.AddWishlist(ctx, uid, movieID)
		require.NoError(t, err)

		found, err = storage.FindWishlist(ctx, uid, movieID)
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("список фильмов из вишлиста", func(t *testing.T) {
		_, err := storage.AddWishlist(ctx, uid, otherID)
		require.NoError(t, err)

		movies, err := storage.ListWishlistedMovies(ctx, uid)
		require.NoError(t, err)
		assert.Len(t, movies, 2)
	})

	t.Run("удаление и очистка", func(t *testing.T) {
		err := storage.RemoveWishlist(ctx, uid, movieID)
		require.NoError(t, err)

		found, err := storage.FindWishlist(ctx, uid, movieID)
		require.NoError(t, err)
		assert.False(t, found)

		n, err := storage.ClearWishlist(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}
