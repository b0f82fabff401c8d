// Package sbis клиент онлайн-сервиса СБИС: сервисная авторизация
// и отправка документов через JSON-RPC.
package sbis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultServiceURL точка JSON-RPC сервиса документов.
	DefaultServiceURL = "https://online.sbis.ru/service/?srv=1"
	// DefaultAuthURL точка получения сервисного токена.
	DefaultAuthURL = "https://online.sbis.ru/oauth/service/"

	userAgent = "YenPrestoBot/1.0"
)

// AuthProvider выдает токен для заголовка X-SBISAccessToken.
type AuthProvider interface {
	Token(ctx context.Context) (string, error)
}

// Credentials реквизиты сервисной авторизации Saby.
type Credentials struct {
	ClientID   string `json:"app_client_id"`
	Secret     string `json:"app_secret"`
	ServiceKey string `json:"secret_key"`
}

// ServiceAuth провайдер сервисных токенов. Токен запрашивается на
// каждый вызов: документы уходят редко, а частоту держит лимитер
// клиента.
type ServiceAuth struct {
	credentials Credentials
	authURL     string
	httpClient  *http.Client
}

// NewServiceAuth создает провайдер сервисных токенов.
func NewServiceAuth(credentials Credentials, authURL string) *ServiceAuth {
	if authURL == "" {
		authURL = DefaultAuthURL
	}
	return &ServiceAuth{
		credentials: credentials,
		authURL:     authURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Token запрашивает сервисный токен.
func (a *ServiceAuth) Token(ctx context.Context) (string, error) {
	if a.credentials.ClientID == "" || a.credentials.Secret == "" || a.credentials.ServiceKey == "" {
		return "", fmt.Errorf("не заданы реквизиты сервисной авторизации СБИС")
	}

	body, err := json.Marshal(a.credentials)
	if err != nil {
		return "", fmt.Errorf("failed to marshal auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.authURL, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("SBIS auth returned status %d: %s", resp.StatusCode, string(raw))
	}

	var response struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode auth response: %w", err)
	}
	if response.Token == "" {
		return "", fmt.Errorf("SBIS auth response without token")
	}

	return response.Token, nil
}

// Client клиент сервиса документов СБИС.
type Client struct {
	serviceURL string
	auth       AuthProvider
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient создает клиент сервиса документов. requestsPerSecond
// ограничивает частоту обращений; нулевое значение снимает лимит.
func NewClient(serviceURL string, auth AuthProvider, requestsPerSecond float64) *Client {
	if serviceURL == "" {
		serviceURL = DefaultServiceURL
	}

	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxConnsPerHost:     5,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 5,
	}

	return &Client{
		serviceURL: serviceURL,
		auth:       auth,
		limiter:    rate.NewLimiter(limit, 1),
		httpClient: &http.Client{
			Timeout:   35 * time.Second,
			Transport: transport,
		},
	}
}

// Response ответ JSON-RPC сервиса.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ResponseError  `json:"error,omitempty"`
	ID      int             `json:"id"`
}

// ResponseError ошибка JSON-RPC сервиса.
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("SBIS error %d: %s", e.Code, e.Message)
}

// SendDocument отправляет готовый JSON-RPC запрос «СБИС.ЗаписатьДокумент».
func (c *Client) SendDocument(ctx context.Context, payload []byte) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	token, err := c.auth.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain SBIS token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serviceURL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json-rpc;charset=utf-8")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-SBISAccessToken", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SBIS returned status %d: %s", resp.StatusCode, string(raw))
	}

	var response Response
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if response.Error != nil {
		return &response, response.Error
	}
	return &response, nil
}
