// FILE: eslogger/src/internal/sink/elastic.go
package sink

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"eslogger/src/internal/config"
	ltls "eslogger/src/internal/tls"
	"eslogger/src/internal/version"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lixenwraith/log"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

// ErrBulkRejected is returned when the server accepted the request but
// reported per-item failures.
var ErrBulkRejected = errors.New("bulk request had item errors")

// Elastic posts bulk bodies to an Elasticsearch compatible _bulk endpoint.
type Elastic struct {
	// Configuration
	config   *config.ElasticConfig
	endpoint string
	timeout  time.Duration

	// Network
	client     *fasthttp.Client
	tlsManager *ltls.ClientManager
	limiter    *rate.Limiter

	// Application
	logger    *log.Logger
	sessionID string
	startTime time.Time
	now       func() time.Time

	// Statistics
	totalBatches   atomic.Uint64
	failedBatches  atomic.Uint64
	totalBytes     atomic.Uint64
	lastStatus     atomic.Int64
	lastProcessed  atomic.Value // time.Time
	activeRequests atomic.Int64
}

// NewElastic creates a sink for cfg.URL.
func NewElastic(cfg *config.ElasticConfig, logger *log.Logger) (*Elastic, error) {
	if cfg == nil {
		return nil, fmt.Errorf("elastic sink options cannot be nil")
	}
	if err := config.ValidateElastic(cfg); err != nil {
		return nil, fmt.Errorf("invalid elastic sink options: %w", err)
	}

	e := &Elastic{
		config:    cfg,
		endpoint:  strings.TrimRight(cfg.URL, "/") + "/_bulk",
		timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		logger:    logger,
		sessionID: uuid.NewString(),
		startTime: time.Now(),
		now:       time.Now,
	}
	e.lastProcessed.Store(time.Time{})

	e.client = &fasthttp.Client{
		MaxConnsPerHost:     10,
		MaxIdleConnDuration: 10 * time.Second,
		ReadTimeout:         e.timeout,
		WriteTimeout:        e.timeout,
	}

	if strings.HasPrefix(cfg.URL, "https://") {
		tlsManager, err := ltls.NewClientManager(&cfg.TLS, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS client manager: %w", err)
		}
		e.tlsManager = tlsManager
		e.client.TLSConfig = tlsManager.GetConfig()
	}

	if cfg.RateLimit.Rate > 0 {
		burst := int(cfg.RateLimit.Burst)
		if burst < 1 {
			burst = int(math.Max(1, math.Ceil(cfg.RateLimit.Rate)))
		}
		e.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.Rate), burst)
	}

	logger.Info("msg", "Elastic sink created",
		"component", "elastic_sink",
		"endpoint", e.endpoint,
		"auth", cfg.AuthMode(),
		"session_id", e.sessionID)

	return e, nil
}

// SessionID returns the id sent as X-Opaque-Id with every request.
func (e *Elastic) SessionID() string {
	return e.sessionID
}

// Endpoint returns the full _bulk URL.
func (e *Elastic) Endpoint() string {
	return e.endpoint
}

// Bulk posts body and reports transport, status and item failures as errors.
func (e *Elastic) Bulk(ctx context.Context, index string, body []byte) error {
	if len(body) == 0 {
		return nil
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			e.failedBatches.Add(1)
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	timeout := e.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			e.failedBatches.Add(1)
			return ctx.Err()
		}
		if remaining < timeout {
			timeout = remaining
		}
	}

	e.activeRequests.Add(1)
	defer e.activeRequests.Add(-1)

	e.totalBatches.Add(1)
	e.totalBytes.Add(uint64(len(body)))
	e.lastProcessed.Store(e.now())

	// Acquire resources, release before inspecting the copied response
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()

	req.SetRequestURI(e.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/x-ndjson")
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("X-Opaque-Id", e.sessionID)
	req.SetBody(body)

	if err := e.authorize(req); err != nil {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
		e.failedBatches.Add(1)
		return fmt.Errorf("failed to authorize request: %w", err)
	}

	err := e.client.DoTimeout(req, resp, timeout)

	statusCode := resp.StatusCode()
	var responseBody []byte
	if len(resp.Body()) > 0 {
		responseBody = make([]byte, len(resp.Body()))
		copy(responseBody, resp.Body())
	}

	fasthttp.ReleaseRequest(req)
	fasthttp.ReleaseResponse(resp)

	if err != nil {
		e.failedBatches.Add(1)
		return fmt.Errorf("request failed: %w", err)
	}

	e.lastStatus.Store(int64(statusCode))

	if statusCode < 200 || statusCode >= 300 {
		e.failedBatches.Add(1)
		return fmt.Errorf("server returned status %d: %s", statusCode, truncate(responseBody, 512))
	}

	if err := checkItems(responseBody); err != nil {
		e.failedBatches.Add(1)
		return err
	}

	e.logger.Debug("msg", "Bulk request accepted",
		"component", "elastic_sink",
		"index", index,
		"bytes", len(body),
		"status_code", statusCode)
	return nil
}

// authorize sets the Authorization header for the configured scheme.
func (e *Elastic) authorize(req *fasthttp.Request) error {
	switch e.config.AuthMode() {
	case "jwt":
		token, err := e.mintToken()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	case "api_key":
		req.Header.Set("Authorization", "ApiKey "+e.config.APIKey)
	case "basic":
		credentials := e.config.Username + ":" + e.config.Password
		req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(credentials)))
	}
	return nil
}

// mintToken signs a short-lived HS256 token.
func (e *Elastic) mintToken() (string, error) {
	jwtCfg := e.config.JWT
	now := e.now()

	claims := jwt.RegisteredClaims{
		Issuer:    jwtCfg.Issuer,
		Subject:   jwtCfg.Subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(jwtCfg.TTLSeconds) * time.Second)),
		ID:        uuid.NewString(),
	}
	if jwtCfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{jwtCfg.Audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(jwtCfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

type bulkResponse struct {
	Errors bool                         `json:"errors"`
	Items  []map[string]bulkItemOutcome `json:"items"`
}

type bulkItemOutcome struct {
	Status int `json:"status"`
	Error  *struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

// checkItems inspects a 2xx body for per-item failures. Bodies that are not
// bulk responses are accepted.
func checkItems(body []byte) error {
	if len(body) == 0 {
		return nil
	}

	var parsed bulkResponse
	if err := json.Unmarshal(body, &parsed); err != nil || !parsed.Errors {
		return nil
	}

	failed := 0
	var first string
	for _, item := range parsed.Items {
		for _, outcome := range item {
			if outcome.Error == nil {
				continue
			}
			failed++
			if first == "" {
				first = fmt.Sprintf("%s: %s", outcome.Error.Type, outcome.Error.Reason)
			}
		}
	}

	if first == "" {
		return ErrBulkRejected
	}
	return fmt.Errorf("%w: %d failed, first: %s", ErrBulkRejected, failed, first)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// setDial replaces the client's dialer.
func (e *Elastic) setDial(dial func(addr string) (net.Conn, error)) {
	e.client.Dial = dial
}

// GetStats returns the sink's statistics.
func (e *Elastic) GetStats() SinkStats {
	lastProc, _ := e.lastProcessed.Load().(time.Time)

	return SinkStats{
		Type:           "elastic",
		TotalProcessed: e.totalBatches.Load(),
		ActiveRequests: e.activeRequests.Load(),
		StartTime:      e.startTime,
		LastProcessed:  lastProc,
		Details: map[string]any{
			"endpoint":       e.endpoint,
			"session_id":     e.sessionID,
			"auth":           e.config.AuthMode(),
			"total_batches":  e.totalBatches.Load(),
			"failed_batches": e.failedBatches.Load(),
			"total_bytes":    e.totalBytes.Load(),
			"last_status":    e.lastStatus.Load(),
			"tls":            e.tlsManager.GetStats(),
		},
	}
}
