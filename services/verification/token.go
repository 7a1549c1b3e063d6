package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// refresh when less than this remains on the cached token.
const tokenExpirySkew = 60 * time.Second

const tokenCacheKey = "parkwhiz:oauth:token"

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// TokenManager caches an OAuth2 client-credentials token for the booking
// provider. Refresh is single-writer under the mutex; readers reuse the
// cached token until it nears expiry. An optional redis mirror lets multiple
// replicas share a token; redis being down only costs an extra refresh.
type TokenManager struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client
	Cache        *redis.Client
	Logger       *zap.Logger

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func (m *TokenManager) logger() *zap.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return zap.L()
}

func (m *TokenManager) httpClient() *http.Client {
	if m.HTTPClient != nil {
		return m.HTTPClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

// Token returns a valid access token, refreshing it transparently.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && time.Now().Before(m.expiry.Add(-tokenExpirySkew)) {
		return m.token, nil
	}

	if m.Cache != nil {
		if cached, err := m.Cache.Get(ctx, tokenCacheKey).Result(); err == nil && cached != "" {
			if ttl, err := m.Cache.TTL(ctx, tokenCacheKey).Result(); err == nil && ttl > tokenExpirySkew {
				m.token = cached
				m.expiry = time.Now().Add(ttl)
				return m.token, nil
			}
		}
	}

	return m.refresh(ctx)
}

// refresh performs the client-credentials exchange. Callers hold the mutex.
func (m *TokenManager) refresh(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", m.ClientID)
	form.Set("client_secret", m.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient().Do(req)
	if err != nil {
		if IsTimeout(err) {
			return "", &TimeoutError{Op: "token request", Err: err}
		}
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", NewAuthenticationError(fmt.Sprintf("token endpoint returned %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("token endpoint returned %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", NewAuthenticationError("token endpoint returned an empty access token")
	}

	m.token = tr.AccessToken
	ttl := time.Duration(tr.ExpiresIn) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	m.expiry = time.Now().Add(ttl)

	if m.Cache != nil {
		if err := m.Cache.Set(ctx, tokenCacheKey, m.token, ttl).Err(); err != nil {
			m.logger().Warn("Failed to mirror provider token to redis", zap.Error(err))
		}
	}

	m.logger().Debug("Refreshed provider access token", zap.Duration("ttl", ttl))
	return m.token, nil
}

// Invalidate drops the cached token, forcing a refresh on next use.
func (m *TokenManager) Invalidate(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.expiry = time.Time{}
	if m.Cache != nil {
		_ = m.Cache.Del(ctx, tokenCacheKey).Err()
	}
}
