package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/movieexplorer/movie-explorer/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user *models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (first_name, last_name, email, password_hash, mobile_number,
			      role, notifications_enabled)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.FirstName, user.LastName, user.Email, user.PasswordHash, user.MobileNumber,
		user.Role, user.NotificationsEnabled).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := userSelect + ` WHERE uid = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userUID), op)
}

// GetUserByEmail возвращает пользователя по его email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := userSelect + ` WHERE email = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, email), op)
}

// UpdateUserStripeCustomerID сохраняет идентификатор клиента платёжной
// системы.
func (s *Storage) UpdateUserStripeCustomerID(ctx context.Context, userUID string, customerID string) error {
	const op = "storage.UpdateUserStripeCustomerID"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET stripe_customer_id = $2 WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID, customerID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateUserPreferences обновляет настройки push-уведомлений.
// Nil-поля не изменяются.
func (s *Storage) UpdateUserPreferences(ctx context.Context, userUID string, prefs models.DummyPreferences) error {
	const op = "storage.UpdateUserPreferences"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
		      SET device_token = COALESCE($2, device_token),
			      notifications_enabled = COALESCE($3, notifications_enabled)
		      WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, userUID, prefs.DeviceToken, prefs.NotificationsEnabled)
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

// ListNotifiableDeviceTokens возвращает токены устройств пользователей,
// разрешивших push-уведомления.
func (s *Storage) ListNotifiableDeviceTokens(ctx context.Context) ([]string, error) {
	const op = "storage.ListNotifiableDeviceTokens"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT DISTINCT device_token
			  FROM users
			  WHERE notifications_enabled = true AND device_token IS NOT NULL`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []string
	for rows.Next() {
		var token string
		if err = rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, token)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

const userSelect = `SELECT uid, first_name, last_name, email, password_hash, mobile_number,
			      role, stripe_customer_id, device_token, notifications_enabled, created_at
			  FROM users`

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var stripeCustomerID, deviceToken sql.NullString
	if err := row.Scan(&u.UID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.MobileNumber, &u.Role, &stripeCustomerID, &deviceToken,
		&u.NotificationsEnabled, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if stripeCustomerID.Valid {
		u.StripeCustomerID = &stripeCustomerID.String
	}
	if deviceToken.Valid {
		u.DeviceToken = &deviceToken.String
	}
	return u, nil
}
