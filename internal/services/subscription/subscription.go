// Package services содержит бизнес-логику тарифов: покупка через Stripe,
// подтверждение и отмена оплаты, актуализация просроченных подписок.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/movieexplorer/movie-explorer/internal/config"
	"github.com/movieexplorer/movie-explorer/internal/lib/sl"
	"github.com/movieexplorer/movie-explorer/internal/models"
	"github.com/movieexplorer/movie-explorer/internal/storage/repository"
	"github.com/movieexplorer/movie-explorer/internal/stripe"
)

var (
	// ErrInvalidPlan возвращается при попытке купить несуществующий тариф.
	ErrInvalidPlan = errors.New("invalid plan")
	// ErrPaymentProvider возвращается, когда платежный шлюз отклонил запрос.
	ErrPaymentProvider = errors.New("payment provider error")
	// ErrPaymentNotCompleted возвращается, когда платежная сессия еще не оплачена.
	ErrPaymentNotCompleted = errors.New("payment not completed")
	// ErrSessionNotFound возвращается, когда нет ожидающей подписки с такой сессией.
	ErrSessionNotFound = errors.New("session not found")
)

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет новую подписку и возвращает её ID.
	CreateSubscription(ctx context.Context, sub *models.Subscription) (int, error)
	// UpdateSubscription обновляет подписку по ID.
	UpdateSubscription(ctx context.Context, sub *models.Subscription) error
	// GetSubscriptionByUserUID возвращает подписку пользователя.
	GetSubscriptionByUserUID(ctx context.Context, userUID string) (*models.Subscription, error)
	// GetPendingSubscriptionBySessionID возвращает ожидающую оплату подписку по ID сессии.
	GetPendingSubscriptionBySessionID(ctx context.Context, sessionID string) (*models.Subscription, error)
}

// UserRepository определяет методы для работы с пользователями.
type UserRepository interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
	UpdateUserStripeCustomerID(ctx context.Context, uid, customerID string) error
}

// PaymentProvider описывает операции платежного шлюза.
type PaymentProvider interface {
	ResolveCustomer(user *models.User) (string, bool, error)
	CreateCheckoutSession(customerID string, plan models.Plan) (*stripe.CheckoutSession, error)
	CreatePaymentIntent(customerID string, plan models.Plan) (*stripe.PaymentIntent, error)
	SessionPaid(sessionID string) (bool, error)
	IntentSucceeded(intentID string) (bool, error)
}

// SubscriptionService реализует покупку и актуализацию тарифов.
type SubscriptionService struct {
	repo     SubscriptionRepository
	users    UserRepository
	provider PaymentProvider
	cfg      config.Payments
	log      *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, users UserRepository,
	provider PaymentProvider, cfg config.Payments, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:     repo,
		users:    users,
		provider: provider,
		cfg:      cfg,
		log:      log,
	}
}

// planDuration возвращает срок действия тарифа
func (s *SubscriptionService) planDuration(plan models.Plan) time.Duration {
	if plan == models.PlanPlatinum {
		return s.cfg.PlatinumDuration
	}
	return s.cfg.GoldDuration
}

// Current возвращает актуальную подписку пользователя. Просроченная
// подписка понижается до базового тарифа и сохраняется. У пользователя
// без записи создается базовая подписка.
func (s *SubscriptionService) Current(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "services.subscription.Current"

	sub, err := s.repo.GetSubscriptionByUserUID(ctx, userUID)
	if errors.Is(err, repository.ErrNotFound) {
		fresh := models.DefaultSubscription(userUID)
		id, err := s.repo.CreateSubscription(ctx, &fresh)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		fresh.ID = id
		return &fresh, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reconciled, changed := models.Reconcile(*sub, time.Now().UTC())
	if changed {
		if err := s.repo.UpdateSubscription(ctx, &reconciled); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("subscription downgraded to basic",
			slog.String("user_uid", userUID), slog.Int("id", reconciled.ID))
	}
	return &reconciled, nil
}

// Create инициирует покупку тарифа. Базовый тариф активируется сразу,
// без оплаты. Для веб-клиентов создается checkout-сессия с URL оплаты,
// для мобильных — payment intent.
func (s *SubscriptionService) Create(ctx context.Context, userUID string, req models.DummySubscription) (*models.CheckoutResult, error) {
	const op = "services.subscription.Create"

	plan, err := models.ParsePlan(req.Plan)
	if err != nil {
		return nil, ErrInvalidPlan
	}

	sub, err := s.Current(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if plan == models.PlanBasic {
		sub.Plan = models.PlanBasic
		sub.Status = models.StatusActive
		sub.SessionID = nil
		sub.SessionExpiresAt = nil
		sub.ExpiryDate = nil
		if err := s.repo.UpdateSubscription(ctx, sub); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("basic plan activated", slog.String("user_uid", userUID))
		return &models.CheckoutResult{Subscription: sub}, nil
	}

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	customerID, created, err := s.provider.ResolveCustomer(user)
	if err != nil {
		s.log.Error("failed to resolve stripe customer",
			slog.String("user_uid", userUID), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, ErrPaymentProvider)
	}
	if created {
		if err := s.users.UpdateUserStripeCustomerID(ctx, userUID, customerID); err != nil {
			s.log.Warn("failed to persist stripe customer id",
				slog.String("user_uid", userUID), sl.Err(err))
		}
	}

	expiry := time.Now().UTC().Add(s.planDuration(plan))
	sub.Plan = plan
	sub.Status = models.StatusPending
	sub.ExpiryDate = &expiry

	result := &models.CheckoutResult{Subscription: sub}
	if req.ClientType == "mobile" {
		intent, err := s.provider.CreatePaymentIntent(customerID, plan)
		if err != nil {
			s.log.Error("failed to create payment intent", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, ErrPaymentProvider)
		}
		sub.SessionID = &intent.ID
		sub.SessionExpiresAt = nil
		result.SessionID = intent.ID
		result.ClientSecret = intent.ClientSecret
	} else {
		sess, err := s.provider.CreateCheckoutSession(customerID, plan)
		if err != nil {
			s.log.Error("failed to create checkout session", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, ErrPaymentProvider)
		}
		expiresAt := sess.ExpiresAt
		sub.SessionID = &sess.ID
		sub.SessionExpiresAt = &expiresAt
		result.SessionID = sess.ID
		result.CheckoutURL = sess.URL
	}

	if err := s.repo.UpdateSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("checkout initiated", slog.String("user_uid", userUID),
		slog.String("plan", plan.String()), slog.String("client_type", req.ClientType))
	return result, nil
}

// Complete подтверждает оплату: проверяет статус сессии у платежного
// шлюза и активирует подписку.
func (s *SubscriptionService) Complete(ctx context.Context, sessionID string) (*models.Subscription, error) {
	const op = "services.subscription.Complete"

	sub, err := s.repo.GetPendingSubscriptionBySessionID(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	paid, err := s.sessionPaid(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !paid {
		return nil, ErrPaymentNotCompleted
	}

	sub.Status = models.StatusActive
	if s.cfg.RefreshExpiryOnComplete {
		expiry := time.Now().UTC().Add(s.planDuration(sub.Plan))
		sub.ExpiryDate = &expiry
	}
	if err := s.repo.UpdateSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("subscription activated", slog.String("user_uid", sub.UserUID),
		slog.String("plan", sub.Plan.String()))
	return sub, nil
}

// CheckStatus возвращает подписку пользователя, сверив платный тариф с
// платежным шлюзом: если ожидающая сессия уже оплачена, подписка
// активируется и без возврата на success-редирект. Базовый тариф
// отдается как есть, ошибка шлюза не мешает отдать локальное состояние.
func (s *SubscriptionService) CheckStatus(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "services.subscription.CheckStatus"

	sub, err := s.Current(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if sub.Plan == models.PlanBasic || sub.SessionID == nil {
		return sub, nil
	}

	paid, err := s.sessionPaid(*sub.SessionID)
	if err != nil {
		s.log.Warn("failed to check session state",
			slog.String("user_uid", userUID), sl.Err(err))
		return sub, nil
	}
	if !paid || sub.Status != models.StatusPending {
		return sub, nil
	}

	sub.Status = models.StatusActive
	if s.cfg.RefreshExpiryOnComplete {
		expiry := time.Now().UTC().Add(s.planDuration(sub.Plan))
		sub.ExpiryDate = &expiry
	}
	if err := s.repo.UpdateSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("pending subscription activated on status check",
		slog.String("user_uid", userUID), slog.String("plan", sub.Plan.String()))
	return sub, nil
}

// Cancel помечает ожидающую оплату подписку как отмененную.
func (s *SubscriptionService) Cancel(ctx context.Context, sessionID string) (*models.Subscription, error) {
	const op = "services.subscription.Cancel"

	sub, err := s.repo.GetPendingSubscriptionBySessionID(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub.Status = models.StatusCancelled
	sub.SessionID = nil
	sub.SessionExpiresAt = nil
	if err := s.repo.UpdateSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("checkout cancelled", slog.String("user_uid", sub.UserUID))
	return sub, nil
}

// sessionPaid выбирает способ проверки по виду идентификатора:
// checkout-сессии начинаются с "cs_", payment intent'ы — с "pi_".
func (s *SubscriptionService) sessionPaid(sessionID string) (bool, error) {
	if strings.HasPrefix(sessionID, "cs_") {
		return s.provider.SessionPaid(sessionID)
	}
	return s.provider.IntentSucceeded(sessionID)
}
