package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/movieexplorer/movie-explorer/internal/models"
)

// CreateSubscription сохраняет новую подписку и возвращает её ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub *models.Subscription) (int, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int
	query := `INSERT INTO subscriptions (user_uid, plan, status, session_id,
			      session_expires_at, expiry_date)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		sub.UserUID, int(sub.Plan), string(sub.Status), sub.SessionID,
		sub.SessionExpiresAt, sub.ExpiryDate).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// UpdateSubscription перезаписывает изменяемые поля подписки по её ID.
func (s *Storage) UpdateSubscription(ctx context.Context, sub *models.Subscription) error {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
		      SET plan = $2,
			      status = $3,
			      session_id = $4,
			      session_expires_at = $5,
			      expiry_date = $6,
			      updated_at = now()
		      WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, sub.ID, int(sub.Plan), string(sub.Status),
		sub.SessionID, sub.SessionExpiresAt, sub.ExpiryDate)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// GetSubscriptionByUserUID возвращает подписку пользователя.
func (s *Storage) GetSubscriptionByUserUID(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.GetSubscriptionByUserUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := subscriptionSelect + ` WHERE user_uid = $1`
	return s.scanSubscription(s.DB.QueryRowContext(ctx, query, userUID), op)
}

// GetPendingSubscriptionBySessionID возвращает подписку в статусе pending,
// привязанную к платёжной сессии. Используется при завершении и отмене
// оплаты: чужая или уже обработанная сессия даёт ErrNotFound.
func (s *Storage) GetPendingSubscriptionBySessionID(ctx context.Context, sessionID string) (*models.Subscription, error) {
	const op = "storage.GetPendingSubscriptionBySessionID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := subscriptionSelect + ` WHERE session_id = $1 AND status = 'pending'`
	return s.scanSubscription(s.DB.QueryRowContext(ctx, query, sessionID), op)
}

const subscriptionSelect = `SELECT id, user_uid, plan, status, session_id,
			      session_expires_at, expiry_date, created_at, updated_at
			  FROM subscriptions`

func (s *Storage) scanSubscription(row *sql.Row, op string) (*models.Subscription, error) {
	sub := &models.Subscription{}
	var plan int
	var status string
	var sessionID sql.NullString
	var sessionExpiresAt, expiryDate sql.NullTime
	if err := row.Scan(&sub.ID, &sub.UserUID, &plan, &status, &sessionID,
		&sessionExpiresAt, &expiryDate, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub.Plan = models.Plan(plan)
	sub.Status = models.Status(status)
	if sessionID.Valid {
		sub.SessionID = &sessionID.String
	}
	if sessionExpiresAt.Valid {
		sub.SessionExpiresAt = &sessionExpiresAt.Time
	}
	if expiryDate.Valid {
		sub.ExpiryDate = &expiryDate.Time
	}
	return sub, nil
}
