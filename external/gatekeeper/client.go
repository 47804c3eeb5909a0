package gatekeeper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/ovalbyte/club-ladder/internal/domain/user"
	"github.com/ovalbyte/club-ladder/internal/platform/logging"
	"github.com/ovalbyte/club-ladder/internal/platform/resilience"
)

var (
	// ErrTokenRejected means the identity provider answered and said no.
	ErrTokenRejected = crerr.New("gatekeeper rejected token")

	errGatekeeperTransient = crerr.New("gatekeeper transient failure")
)

type Config struct {
	BaseURL         string
	Timeout         time.Duration
	CacheTTL        time.Duration
	CacheMaxEntries int
	Breaker         resilience.BreakerConfig
}

// Client verifies bearer tokens against the gatekeeper identity provider.
// Verified principals are cached by hashed token so a burst of requests
// from the same session costs one upstream call.
type Client struct {
	client         *http.Client
	baseURL        string
	logger         *logging.Logger
	cache          *ttlCache[user.Principal]
	group          resilience.SingleFlight
	breaker        *resilience.Breaker
	breakerEnabled bool
}

func NewClient(cfg Config, logger *logging.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 60 * time.Second
	}
	maxEntries := cfg.CacheMaxEntries
	if maxEntries <= 0 {
		maxEntries = 4096
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	breakerCfg := resilience.NormalizeBreakerConfig(cfg.Breaker)

	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:        trimBaseURL(cfg.BaseURL),
		logger:         logger,
		cache:          newTTLCache[user.Principal](cacheTTL, maxEntries),
		breaker:        resilience.NewBreaker(breakerCfg),
		breakerEnabled: breakerCfg.Enabled,
	}
}

type introspectResponse struct {
	Active      bool   `json:"active"`
	AccountID   string `json:"account_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// VerifyAccessToken resolves a bearer token into a principal. Concurrent
// calls with the same token collapse into a single upstream request.
func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	if token == "" {
		return user.Principal{}, crerr.Wrap(ErrTokenRejected, "empty token")
	}

	key := hashToken(token)
	if principal, ok := c.cache.Get(key); ok {
		return principal, nil
	}

	val, err, _ := c.group.Do(key, func() (any, error) {
		return c.introspect(ctx, token)
	})
	if err != nil {
		return user.Principal{}, err
	}

	principal := val.(user.Principal)
	c.cache.Set(key, principal)
	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	if c.breakerEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "gatekeeper breaker rejected request", "state", c.breaker.State())
			return user.Principal{}, crerr.Wrap(errGatekeeperTransient, "breaker open")
		}
	}

	principal, err := c.doIntrospect(ctx, token)
	if c.breakerEnabled {
		if IsUnavailable(err) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	return principal, err
}

func (c *Client) doIntrospect(ctx context.Context, token string) (user.Principal, error) {
	if c.baseURL == "" {
		return user.Principal{}, crerr.Wrap(errGatekeeperTransient, "base url is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, buildURL(c.baseURL, "/v1/introspect"), nil)
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "build introspect request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "gatekeeper introspect failed", "error", err)
		return user.Principal{}, crerr.Wrapf(errGatekeeperTransient, "introspect request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return user.Principal{}, crerr.Wrapf(ErrTokenRejected, "status %d", resp.StatusCode)
	case resp.StatusCode >= http.StatusInternalServerError:
		c.logger.WarnContext(ctx, "gatekeeper returned server error", "status", resp.StatusCode)
		return user.Principal{}, crerr.Wrapf(errGatekeeperTransient, "status %d", resp.StatusCode)
	default:
		return user.Principal{}, crerr.Newf("gatekeeper unexpected status %d", resp.StatusCode)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return user.Principal{}, crerr.Wrapf(errGatekeeperTransient, "read introspect response: %v", err)
	}

	var payload introspectResponse
	if err := sonic.Unmarshal(buf.Bytes(), &payload); err != nil {
		return user.Principal{}, crerr.Wrap(err, "decode introspect response")
	}
	if !payload.Active {
		return user.Principal{}, crerr.Wrap(ErrTokenRejected, "token is inactive")
	}
	if payload.AccountID == "" {
		return user.Principal{}, fmt.Errorf("introspect response is missing account_id")
	}

	return user.Principal{
		AccountID:   payload.AccountID,
		DisplayName: payload.DisplayName,
		Email:       payload.Email,
	}, nil
}
