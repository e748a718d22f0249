// Package services содержит логику бизнес-уровня для регистрации,
// входа и выхода пользователей.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/movieexplorer/movie-explorer/internal/lib/jwt"
	"github.com/movieexplorer/movie-explorer/internal/lib/password"
	"github.com/movieexplorer/movie-explorer/internal/lib/sl"
	"github.com/movieexplorer/movie-explorer/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре email/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user *models.User) (string, error)
	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdateUserPreferences обновляет токен устройства и флаг уведомлений.
	UpdateUserPreferences(ctx context.Context, uid string, prefs models.DummyPreferences) error
}

// SubscriptionRepository создает подписку по умолчанию при регистрации.
type SubscriptionRepository interface {
	CreateSubscription(ctx context.Context, sub *models.Subscription) (int, error)
}

// TokenBlacklist хранит отозванные токены до истечения их срока жизни.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, token string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
}

// AuthService отвечает за регистрацию, авторизацию и отзыв JWT.
type AuthService struct {
	users     UserRepository
	subs      SubscriptionRepository
	blacklist TokenBlacklist
	jwtMaker  jwt.Maker
	log       *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, subs SubscriptionRepository,
	blacklist TokenBlacklist, jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		subs:      subs,
		blacklist: blacklist,
		jwtMaker:  jwtMaker,
		log:       log,
	}
}

// Register создает пользователя с хэшированным паролем, базовую подписку
// и возвращает UID вместе с токеном доступа.
func (s *AuthService) Register(ctx context.Context, req models.DummyRegisterUser) (string, string, error) {
	const op = "services.auth.Register"

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	user := &models.User{
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		Email:                req.Email,
		PasswordHash:         hashed,
		MobileNumber:         req.MobileNumber,
		Role:                 models.RoleUser, // дефолтная роль при регистрации
		NotificationsEnabled: true,
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	sub := models.DefaultSubscription(uid)
	if _, err := s.subs.CreateSubscription(ctx, &sub); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(uid, user.Role)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("registered new user", slog.String("uid", uid))
	return uid, token, nil
}

// Login проверяет пароль пользователя и возвращает JWT и роль.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, string, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.UID, user.Role)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return token, user.Role, nil
}

// Logout отзывает токен: помещает его в черный список до истечения срока жизни.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	const op = "services.auth.Logout"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.blacklist.BlacklistToken(ctx, token, ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("token revoked", slog.String("user_uid", claims.UserUID))
	return nil
}

// ValidateToken проверяет подпись токена и его отсутствие в черном списке.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*jwt.CustomClaims, error) {
	const op = "services.auth.ValidateToken"

	blacklisted, err := s.blacklist.IsTokenBlacklisted(ctx, token)
	if err != nil {
		s.log.Warn("blacklist check failed", sl.Err(err))
	}
	if blacklisted {
		return nil, fmt.Errorf("%s: token revoked", op)
	}
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return claims, nil
}

// UpdatePreferences обновляет токен устройства и настройку уведомлений пользователя.
func (s *AuthService) UpdatePreferences(ctx context.Context, userUID string, req models.DummyPreferences) error {
	const op = "services.auth.UpdatePreferences"

	if err := s.users.UpdateUserPreferences(ctx, userUID, req); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
