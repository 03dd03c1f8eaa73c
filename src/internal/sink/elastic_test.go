// FILE: eslogger/src/internal/sink/elastic_test.go
package sink

import (
	"context"
	"encoding/base64"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"eslogger/src/internal/config"
	"eslogger/src/internal/version"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

type capturedRequest struct {
	method      string
	path        string
	contentType string
	userAgent   string
	opaqueID    string
	auth        string
	body        string
}

// bulkServer is an in-memory endpoint answering with a fixed status and body.
type bulkServer struct {
	mu       sync.Mutex
	requests []capturedRequest
	status   int
	reply    string
	ln       *fasthttputil.InmemoryListener
}

func newBulkServer(t *testing.T, status int, reply string) *bulkServer {
	t.Helper()
	s := &bulkServer{status: status, reply: reply, ln: fasthttputil.NewInmemoryListener()}

	server := &fasthttp.Server{Handler: func(ctx *fasthttp.RequestCtx) {
		s.mu.Lock()
		s.requests = append(s.requests, capturedRequest{
			method:      string(ctx.Method()),
			path:        string(ctx.Path()),
			contentType: string(ctx.Request.Header.ContentType()),
			userAgent:   string(ctx.UserAgent()),
			opaqueID:    string(ctx.Request.Header.Peek("X-Opaque-Id")),
			auth:        string(ctx.Request.Header.Peek("Authorization")),
			body:        string(ctx.PostBody()),
		})
		s.mu.Unlock()

		ctx.SetStatusCode(s.status)
		ctx.SetContentType("application/json")
		ctx.SetBodyString(s.reply)
	}}

	go func() { _ = server.Serve(s.ln) }()
	t.Cleanup(func() {
		_ = server.Shutdown()
		_ = s.ln.Close()
	})
	return s
}

func (s *bulkServer) dial(string) (net.Conn, error) {
	return s.ln.Dial()
}

func (s *bulkServer) captured() []capturedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]capturedRequest(nil), s.requests...)
}

func testElasticConfig() *config.ElasticConfig {
	cfg := config.Defaults().Elastic
	cfg.URL = "http://elastic.test:9200/"
	cfg.TimeoutSeconds = 5
	return &cfg
}

func newTestElastic(t *testing.T, cfg *config.ElasticConfig, srv *bulkServer) *Elastic {
	t.Helper()
	e, err := NewElastic(cfg, newTestLogger())
	require.NoError(t, err)
	e.setDial(srv.dial)
	return e
}

const ndjson = "{\"index\":{\"_index\":\"logger-2024-03-01\"}}\n{\"message\":\"a\"}\n"

func TestNewElastic(t *testing.T) {
	logger := newTestLogger()

	t.Run("NilConfig", func(t *testing.T) {
		e, err := NewElastic(nil, logger)
		assert.Error(t, err)
		assert.Nil(t, e)
	})

	t.Run("InvalidURL", func(t *testing.T) {
		cfg := testElasticConfig()
		cfg.URL = "localhost"
		_, err := NewElastic(cfg, logger)
		assert.Error(t, err)
	})

	t.Run("Endpoint", func(t *testing.T) {
		e, err := NewElastic(testElasticConfig(), logger)
		require.NoError(t, err)
		assert.Equal(t, "http://elastic.test:9200/_bulk", e.Endpoint())
		assert.NotEmpty(t, e.SessionID())
	})

	t.Run("RateLimitBurstDefaultsToRate", func(t *testing.T) {
		cfg := testElasticConfig()
		cfg.RateLimit.Rate = 2.5
		e, err := NewElastic(cfg, logger)
		require.NoError(t, err)
		require.NotNil(t, e.limiter)
		assert.Equal(t, 3, e.limiter.Burst())
	})

	t.Run("InsecureTLS", func(t *testing.T) {
		cfg := testElasticConfig()
		cfg.URL = "https://elastic.test:9200"
		cfg.TLS.InsecureSkipVerify = true
		e, err := NewElastic(cfg, logger)
		require.NoError(t, err)
		require.NotNil(t, e.client.TLSConfig)
		assert.True(t, e.client.TLSConfig.InsecureSkipVerify)
		assert.Equal(t, true, e.GetStats().Details["tls"].(map[string]any)["enabled"])
	})

	t.Run("PlainHTTPHasNoTLS", func(t *testing.T) {
		e, err := NewElastic(testElasticConfig(), logger)
		require.NoError(t, err)
		assert.Nil(t, e.client.TLSConfig)
		assert.Equal(t, false, e.GetStats().Details["tls"].(map[string]any)["enabled"])
	})

	t.Run("BadCAFile", func(t *testing.T) {
		cfg := testElasticConfig()
		cfg.URL = "https://elastic.test:9200"
		cfg.TLS.CAFile = "/nonexistent/ca.pem"
		_, err := NewElastic(cfg, logger)
		assert.Error(t, err)
	})
}

func TestElastic_Bulk(t *testing.T) {
	t.Run("PostsNDJSON", func(t *testing.T) {
		srv := newBulkServer(t, 200, `{"took":1,"errors":false,"items":[]}`)
		e := newTestElastic(t, testElasticConfig(), srv)

		require.NoError(t, e.Bulk(context.Background(), "logger-2024-03-01", []byte(ndjson)))

		reqs := srv.captured()
		require.Len(t, reqs, 1)
		assert.Equal(t, "POST", reqs[0].method)
		assert.Equal(t, "/_bulk", reqs[0].path)
		assert.Equal(t, "application/x-ndjson", reqs[0].contentType)
		assert.Equal(t, version.UserAgent(), reqs[0].userAgent)
		assert.Equal(t, e.SessionID(), reqs[0].opaqueID)
		assert.Empty(t, reqs[0].auth)
		assert.Equal(t, ndjson, reqs[0].body)

		stats := e.GetStats()
		assert.Equal(t, uint64(1), stats.TotalProcessed)
		assert.Equal(t, uint64(len(ndjson)), stats.DetailUint("total_bytes"))
		assert.Equal(t, uint64(200), stats.DetailUint("last_status"))
		assert.Zero(t, stats.DetailUint("failed_batches"))
	})

	t.Run("EmptyBodySkipped", func(t *testing.T) {
		srv := newBulkServer(t, 200, `{}`)
		e := newTestElastic(t, testElasticConfig(), srv)

		require.NoError(t, e.Bulk(context.Background(), "logger-2024-03-01", nil))
		assert.Empty(t, srv.captured())
	})

	t.Run("ErrorStatus", func(t *testing.T) {
		srv := newBulkServer(t, 503, `unavailable`)
		e := newTestElastic(t, testElasticConfig(), srv)

		err := e.Bulk(context.Background(), "logger-2024-03-01", []byte(ndjson))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 503")
		assert.Equal(t, uint64(1), e.GetStats().DetailUint("failed_batches"))
	})

	t.Run("ItemErrors", func(t *testing.T) {
		reply := `{"errors":true,"items":[` +
			`{"index":{"status":201}},` +
			`{"index":{"status":400,"error":{"type":"mapper_parsing_exception","reason":"failed to parse"}}}]}`
		srv := newBulkServer(t, 200, reply)
		e := newTestElastic(t, testElasticConfig(), srv)

		err := e.Bulk(context.Background(), "logger-2024-03-01", []byte(ndjson))
		require.ErrorIs(t, err, ErrBulkRejected)
		assert.Contains(t, err.Error(), "mapper_parsing_exception: failed to parse")
		assert.Contains(t, err.Error(), "1 failed")
	})

	t.Run("CancelledContext", func(t *testing.T) {
		srv := newBulkServer(t, 200, `{}`)
		e := newTestElastic(t, testElasticConfig(), srv)

		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()
		assert.Error(t, e.Bulk(ctx, "logger-2024-03-01", []byte(ndjson)))
		assert.Empty(t, srv.captured())
	})
}

func TestElastic_Auth(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		srv := newBulkServer(t, 200, `{}`)
		cfg := testElasticConfig()
		cfg.Username = "elastic"
		cfg.Password = "changeme"
		e := newTestElastic(t, cfg, srv)

		require.NoError(t, e.Bulk(context.Background(), "i", []byte(ndjson)))
		want := "Basic " + base64.StdEncoding.EncodeToString([]byte("elastic:changeme"))
		assert.Equal(t, want, srv.captured()[0].auth)
	})

	t.Run("APIKey", func(t *testing.T) {
		srv := newBulkServer(t, 200, `{}`)
		cfg := testElasticConfig()
		cfg.APIKey = "a2V5"
		e := newTestElastic(t, cfg, srv)

		require.NoError(t, e.Bulk(context.Background(), "i", []byte(ndjson)))
		assert.Equal(t, "ApiKey a2V5", srv.captured()[0].auth)
	})

	t.Run("JWT", func(t *testing.T) {
		srv := newBulkServer(t, 200, `{}`)
		cfg := testElasticConfig()
		cfg.JWT.Secret = "s3cret"
		cfg.JWT.Subject = "shipper"
		cfg.JWT.Audience = "logs"
		cfg.JWT.TTLSeconds = 60
		e := newTestElastic(t, cfg, srv)

		require.NoError(t, e.Bulk(context.Background(), "i", []byte(ndjson)))

		auth := srv.captured()[0].auth
		require.True(t, strings.HasPrefix(auth, "Bearer "))

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), claims,
			func(token *jwt.Token) (any, error) { return []byte("s3cret"), nil },
			jwt.WithValidMethods([]string{"HS256"}),
			jwt.WithIssuer("eslogger"),
			jwt.WithAudience("logs"),
		)
		require.NoError(t, err)
		assert.True(t, token.Valid)
		assert.Equal(t, "shipper", claims.Subject)
		assert.WithinDuration(t, time.Now().Add(60*time.Second), claims.ExpiresAt.Time, 5*time.Second)
	})
}

func TestCheckItems(t *testing.T) {
	assert.NoError(t, checkItems(nil))
	assert.NoError(t, checkItems([]byte("not json")))
	assert.NoError(t, checkItems([]byte(`{"errors":false}`)))
	assert.ErrorIs(t, checkItems([]byte(`{"errors":true,"items":[]}`)), ErrBulkRejected)
}
