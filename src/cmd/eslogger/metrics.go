// FILE: eslogger/src/cmd/eslogger/metrics.go
package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"eslogger/src/internal/version"

	"github.com/lixenwraith/log"
	"github.com/lixenwraith/log/compat"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const metricsPath = "/metrics"

// MetricsServer exposes a Prometheus gatherer over HTTP.
type MetricsServer struct {
	server *fasthttp.Server
	ln     net.Listener
	logger *log.Logger
}

// metricsHandler serves gatherer on metricsPath and 404 elsewhere.
func metricsHandler(gatherer prometheus.Gatherer) fasthttp.RequestHandler {
	scrape := fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Path()) != metricsPath {
			ctx.Error("not found", fasthttp.StatusNotFound)
			return
		}
		scrape(ctx)
	}
}

// StartMetricsServer listens on addr and serves gatherer until Shutdown.
func StartMetricsServer(addr string, gatherer prometheus.Gatherer, logger *log.Logger) (*MetricsServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return serveMetrics(ln, gatherer, logger), nil
}

func serveMetrics(ln net.Listener, gatherer prometheus.Gatherer, logger *log.Logger) *MetricsServer {
	m := &MetricsServer{
		ln:     ln,
		logger: logger,
		server: &fasthttp.Server{
			Name:         fmt.Sprintf("eslogger/%s", version.Short()),
			Handler:      metricsHandler(gatherer),
			Logger:       compat.NewFastHTTPAdapter(logger),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}

	go func() {
		logger.Info("msg", "Metrics server started",
			"component", "metrics_server",
			"addr", ln.Addr().String(),
			"path", metricsPath)
		if err := m.server.Serve(ln); err != nil {
			logger.Error("msg", "Metrics server failed",
				"component", "metrics_server",
				"error", err)
		}
	}()

	return m
}

// Addr returns the listening address.
func (m *MetricsServer) Addr() string {
	return m.ln.Addr().String()
}

// Shutdown stops accepting scrapes, waiting at most until ctx ends.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.server.ShutdownWithContext(ctx)
}
