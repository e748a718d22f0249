package models

import (
	"fmt"
	"time"
)

// Plan — тарифный план подписки. Планы образуют порядковую шкалу:
// basic < gold < platinum, сравнение уровней доступа идёт по числовому значению.
type Plan int

// Известные тарифные планы.
const (
	PlanBasic    Plan = 0
	PlanGold     Plan = 1
	PlanPlatinum Plan = 2
)

// ParsePlan разбирает строковое имя плана. Неизвестное имя — ошибка,
// значения вне закрытого множества в систему не попадают.
func ParsePlan(s string) (Plan, error) {
	switch s {
	case "basic":
		return PlanBasic, nil
	case "gold":
		return PlanGold, nil
	case "platinum":
		return PlanPlatinum, nil
	default:
		return 0, fmt.Errorf("unknown plan: %q", s)
	}
}

func (p Plan) String() string {
	switch p {
	case PlanBasic:
		return "basic"
	case PlanGold:
		return "gold"
	case PlanPlatinum:
		return "platinum"
	default:
		return fmt.Sprintf("plan(%d)", int(p))
	}
}

// MarshalJSON сериализует план его строковым именем.
func (p Plan) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// Status — статус жизненного цикла подписки.
type Status string

// Допустимые статусы подписки. Переходы: pending → active,
// active → inactive, active/inactive → cancelled. Статус cancelled
// терминален для конкретной попытки оплаты: новая покупка плана
// заменяет поля подписки целиком.
const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusCancelled Status = "cancelled"
)

// ParseStatus разбирает строковый статус подписки.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusActive, StatusInactive, StatusCancelled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status: %q", s)
	}
}

// Subscription представляет подписку пользователя. У каждого пользователя
// ровно одна подписка; платные планы привязываются к внешней платёжной
// сессии на время оплаты.
type Subscription struct {
	ID               int        // Идентификатор записи
	UserUID          string     // Владелец подписки
	Plan             Plan       // Тарифный план
	Status           Status     // Статус жизненного цикла
	SessionID        *string    // Ссылка на внешнюю платёжную сессию (cs_...) или intent (pi_...)
	SessionExpiresAt *time.Time // Срок действия платёжной сессии
	ExpiryDate       *time.Time // Дата окончания платного плана, nil для basic
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Expired сообщает, истёк ли платный план к моменту now.
// Basic бессрочен и не истекает никогда.
func (s *Subscription) Expired(now time.Time) bool {
	return s.Plan != PlanBasic && s.ExpiryDate != nil && !s.ExpiryDate.After(now)
}

// Active сообщает, активна ли подписка после сверки с now.
// Вызывающий обязан сначала провести подписку через Reconcile:
// чтение сырого статуса без сверки возвращает устаревшее состояние.
func (s *Subscription) Active() bool {
	return s.Status == StatusActive
}

// Reconcile приводит подписку к согласованному состоянию на момент now:
// истёкший платный план понижается до обслуживаемого basic/active, а поля
// платёжной сессии очищаются. Функция чистая — возвращает копию и признак
// того, что состояние изменилось и его нужно сохранить. Вызывается на
// каждой границе чтения вместо фонового процесса.
func Reconcile(s Subscription, now time.Time) (Subscription, bool) {
	if s.Plan == PlanBasic {
		return s, false
	}
	if !s.Expired(now) || s.Status == StatusInactive {
		return s, false
	}
	s.Plan = PlanBasic
	s.Status = StatusActive
	s.ExpiryDate = nil
	s.SessionID = nil
	s.SessionExpiresAt = nil
	return s, true
}

// DefaultSubscription возвращает подписку по умолчанию для нового
// пользователя: бесплатный basic, сразу активный.
func DefaultSubscription(userUID string) Subscription {
	return Subscription{
		UserUID: userUID,
		Plan:    PlanBasic,
		Status:  StatusActive,
	}
}

// DummySubscription используется для приёма запроса на покупку плана.
// ClientType определяет способ оплаты: web — checkout-сессия с редиректом,
// mobile — payment intent с client_secret.
type DummySubscription struct {
	Plan       string `json:"plan" validate:"required"`
	ClientType string `json:"client_type" validate:"omitempty,oneof=web mobile"`
}

// CheckoutResult — результат инициирования покупки плана.
type CheckoutResult struct {
	Subscription *Subscription `json:"subscription,omitempty"`
	CheckoutURL  string        `json:"checkout_url,omitempty"`
	SessionID    string        `json:"session_id,omitempty"`
	ClientSecret string        `json:"client_secret,omitempty"`
}
