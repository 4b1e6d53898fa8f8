package transmit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/samseatt/vitaledge-pi-iot/pkg/common"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenManager owns the session token. It has no expiry clock: a token is kept until
// Invalidate is called after the collector rejects it.
type TokenManager struct {
	httpClient  *resty.Client
	endpoint    string
	credentials Credentials
	logger      *zap.Logger

	mu    sync.Mutex
	token string
}

func NewTokenManager(endpoint string, credentials Credentials, timeout time.Duration) *TokenManager {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &TokenManager{
		httpClient:  client,
		endpoint:    endpoint,
		credentials: credentials,
		logger: common.GetLoggerWith(
			common.LoggerNameTransmitter,
			zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryAuthToken),
		),
	}
}

// Authenticate always asks the endpoint for a fresh token and caches it. Any failure
// clears the cache.
func (m *TokenManager) Authenticate(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticateLocked(ctx)
}

func (m *TokenManager) authenticateLocked(ctx context.Context) (string, error) {
	m.token = ""

	resp, err := m.httpClient.R().
		SetContext(ctx).
		SetBody(m.credentials).
		Post(m.endpoint)
	if err != nil {
		m.logger.Error("Authentication request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	if !resp.IsSuccess() {
		m.logger.Error("Authentication refused", zap.Int("status_code", resp.StatusCode()))
		return "", fmt.Errorf("%w: status %d", ErrAuthentication, resp.StatusCode())
	}

	token := strings.TrimSpace(resp.String())
	if token == "" {
		m.logger.Error("Authentication returned an empty token")
		return "", fmt.Errorf("%w: empty token", ErrAuthentication)
	}

	m.token = token
	m.logger.Info("Authenticated")
	return token, nil
}

// Token returns the cached token, authenticating first when there is none.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" {
		return m.token, nil
	}
	return m.authenticateLocked(ctx)
}

// Invalidate drops token only if it is still the cached one.
func (m *TokenManager) Invalidate(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && m.token == token {
		m.token = ""
		m.logger.Warn("Session token invalidated")
	}
}

func (m *TokenManager) HasToken() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != ""
}
