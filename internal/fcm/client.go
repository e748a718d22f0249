// Package fcm реализует клиента Firebase Cloud Messaging (HTTP v1 API)
// для отправки push-уведомлений на устройства пользователей.
package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/movieexplorer/movie-explorer/internal/config"
)

const messagingScope = "https://www.googleapis.com/auth/firebase.messaging"

// Client клиент push-шлюза FCM
type Client struct {
	projectID   string
	apiURL      string
	tokenSource oauth2.TokenSource
	httpClient  *http.Client
}

// Message push-сообщение для одного устройства
type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// SendResult результат доставки на одно устройство
type SendResult struct {
	Token string
	Err   error
}

type sendRequest struct {
	Message fcmMessage `json:"message"`
}

type fcmMessage struct {
	Token        string            `json:"token"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NewClient создает клиента FCM из файла сервисного аккаунта
func NewClient(ctx context.Context, cfg config.FCM) (*Client, error) {
	const op = "fcm.NewClient"

	credsJSON, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	creds, err := google.CredentialsFromJSON(ctx, credsJSON, messagingScope)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Client{
		projectID:   cfg.ProjectID,
		apiURL:      "https://fcm.googleapis.com/v1",
		tokenSource: creds.TokenSource,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Send отправляет push-сообщение на одно устройство
func (c *Client) Send(ctx context.Context, msg Message) error {
	const op = "fcm.Send"

	token, err := c.tokenSource.Token()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	body := sendRequest{
		Message: fcmMessage{
			Token: msg.Token,
			Notification: fcmNotification{
				Title: msg.Title,
				Body:  msg.Body,
			},
			Data: msg.Data,
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	url := fmt.Sprintf("%s/projects/%s/messages:send", c.apiURL, c.projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s: unexpected status %s: %s", op, resp.Status, respBody)
	}
	return nil
}

// SendToAll отправляет сообщение на каждый токен, собирая результаты
// по устройствам. Ошибка одного устройства не прерывает остальных.
func (c *Client) SendToAll(ctx context.Context, tokens []string, title, body string, data map[string]string) []SendResult {
	results := make([]SendResult, 0, len(tokens))
	for _, token := range tokens {
		err := c.Send(ctx, Message{Token: token, Title: title, Body: body, Data: data})
		results = append(results, SendResult{Token: token, Err: err})
	}
	return results
}
