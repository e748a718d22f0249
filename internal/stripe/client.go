// Package stripe оборачивает SDK Stripe для оплаты подписок:
// создание покупателей, checkout-сессий и payment intent'ов.
package stripe

import (
	"fmt"
	"time"

	stripesdk "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"

	"github.com/movieexplorer/movie-explorer/internal/config"
	"github.com/movieexplorer/movie-explorer/internal/models"
)

// Client обертка над клиентом Stripe API
type Client struct {
	sc  *client.API
	cfg config.Stripe
}

// CheckoutSession результат создания checkout-сессии
type CheckoutSession struct {
	ID        string
	URL       string
	ExpiresAt time.Time
}

// PaymentIntent результат создания payment intent для мобильных клиентов
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// New создает клиента Stripe из конфигурации
func New(cfg config.Stripe) *Client {
	sc := &client.API{}
	sc.Init(cfg.SecretKey, nil)
	return &Client{sc: sc, cfg: cfg}
}

// IsTestMode возвращает true, если настроен тестовый ключ
func (c *Client) IsTestMode() bool {
	return len(c.cfg.SecretKey) > 7 && c.cfg.SecretKey[:7] == "sk_test"
}

// ResolveCustomer возвращает Stripe customer ID пользователя, создавая
// покупателя при первом обращении. Сохраненный, но недействительный
// или удаленный customer ID пересоздается.
func (c *Client) ResolveCustomer(user *models.User) (string, bool, error) {
	const op = "stripe.ResolveCustomer"

	if user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		cust, err := c.sc.Customers.Get(*user.StripeCustomerID, nil)
		if err == nil && !cust.Deleted {
			return cust.ID, false, nil
		}
	}
	cust, err := c.sc.Customers.New(&stripesdk.CustomerParams{
		Email: stripesdk.String(user.Email),
		Name:  stripesdk.String(user.FullName()),
		Metadata: map[string]string{
			"user_uid": user.UID,
		},
	})
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return cust.ID, true, nil
}

// planAmount возвращает цену тарифа в минимальных единицах валюты
func (c *Client) planAmount(plan models.Plan) int64 {
	if plan == models.PlanPlatinum {
		return c.cfg.AmountPlatinum
	}
	return c.cfg.AmountGold
}

// planPriceID возвращает настроенный price ID тарифа, если он задан
func (c *Client) planPriceID(plan models.Plan) string {
	if plan == models.PlanPlatinum {
		return c.cfg.PricePlatinum
	}
	return c.cfg.PriceGold
}

// lineItem собирает позицию оплаты: настроенный price ID либо
// одноразовый price_data с суммой тарифа.
func (c *Client) lineItem(plan models.Plan) *stripesdk.CheckoutSessionLineItemParams {
	if priceID := c.planPriceID(plan); priceID != "" {
		return &stripesdk.CheckoutSessionLineItemParams{
			Price:    stripesdk.String(priceID),
			Quantity: stripesdk.Int64(1),
		}
	}
	return &stripesdk.CheckoutSessionLineItemParams{
		PriceData: &stripesdk.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripesdk.String(c.cfg.Currency),
			UnitAmount: stripesdk.Int64(c.planAmount(plan)),
			ProductData: &stripesdk.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripesdk.String(plan.String() + " subscription"),
			},
		},
		Quantity: stripesdk.Int64(1),
	}
}

// CreateCheckoutSession создает checkout-сессию для оплаты тарифа через веб
func (c *Client) CreateCheckoutSession(customerID string, plan models.Plan) (*CheckoutSession, error) {
	const op = "stripe.CreateCheckoutSession"

	params := &stripesdk.CheckoutSessionParams{
		Customer:   stripesdk.String(customerID),
		Mode:       stripesdk.String(string(stripesdk.CheckoutSessionModePayment)),
		SuccessURL: stripesdk.String(c.cfg.SuccessURL),
		CancelURL:  stripesdk.String(c.cfg.CancelURL),
		LineItems:  []*stripesdk.CheckoutSessionLineItemParams{c.lineItem(plan)},
		Metadata: map[string]string{
			"plan": plan.String(),
		},
	}
	sess, err := c.sc.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &CheckoutSession{
		ID:        sess.ID,
		URL:       sess.URL,
		ExpiresAt: time.Unix(sess.ExpiresAt, 0),
	}, nil
}

// CreatePaymentIntent создает payment intent для мобильных клиентов,
// которые подтверждают оплату на устройстве.
func (c *Client) CreatePaymentIntent(customerID string, plan models.Plan) (*PaymentIntent, error) {
	const op = "stripe.CreatePaymentIntent"

	params := &stripesdk.PaymentIntentParams{
		Customer: stripesdk.String(customerID),
		Amount:   stripesdk.Int64(c.planAmount(plan)),
		Currency: stripesdk.String(c.cfg.Currency),
		Metadata: map[string]string{
			"plan": plan.String(),
		},
	}
	intent, err := c.sc.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &PaymentIntent{ID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

// SessionPaid проверяет, что checkout-сессия оплачена
func (c *Client) SessionPaid(sessionID string) (bool, error) {
	const op = "stripe.SessionPaid"

	sess, err := c.sc.CheckoutSessions.Get(sessionID, nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return sess.PaymentStatus == stripesdk.CheckoutSessionPaymentStatusPaid, nil
}

// IntentSucceeded проверяет, что payment intent завершился успешно
func (c *Client) IntentSucceeded(intentID string) (bool, error) {
	const op = "stripe.IntentSucceeded"

	intent, err := c.sc.PaymentIntents.Get(intentID, nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return intent.Status == stripesdk.PaymentIntentStatusSucceeded, nil
}
