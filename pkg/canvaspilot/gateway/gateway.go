// Package gateway provides the HTTP API the canvas client talks to:
// sheet import/sync endpoints and the chat endpoint that drives the
// assistant.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/jpcaldeira/canvaspilot/pkg/canvaspilot/copilot"
)

// Gateway is the HTTP API server.
type Gateway struct {
	assistant *copilot.Assistant
	config    copilot.GatewayConfig
	server    *http.Server
	logger    *slog.Logger
	startedAt time.Time
}

// New creates a new Gateway.
func New(assistant *copilot.Assistant, cfg copilot.GatewayConfig, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 8090
	}
	return &Gateway{
		assistant: assistant,
		config:    cfg,
		logger:    logger.With("component", "gateway"),
	}
}

// Handler builds the routed and middleware-wrapped HTTP handler.
func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health (always public)
	mux.HandleFunc("/health", g.handleHealth)

	// Sheet operations
	mux.HandleFunc("/api/sheets/import", g.handleSheetsImport)
	mux.HandleFunc("/api/sheets/sync", g.handleSheetsSync)
	mux.HandleFunc("/api/sheets/list", g.handleSheetsList)
	mux.HandleFunc("/api/sheets/create", g.handleSheetsCreate)

	// Chat
	mux.HandleFunc("/api/chat/", g.handleChat)

	return g.securityHeadersMiddleware(g.corsMiddleware(g.authMiddleware(mux)))
}

// Start starts the HTTP server.
func (g *Gateway) Start(ctx context.Context) error {
	g.startedAt = time.Now()

	address := fmt.Sprintf("%s:%d", g.config.Host, g.config.Port)
	g.server = &http.Server{
		Addr:    address,
		Handler: g.Handler(),
	}

	// Warn when the gateway has no API key and is bound to a non-loopback
	// address.
	if g.config.APIKey == "" {
		ip := net.ParseIP(g.config.Host)
		isLoopback := ip != nil && ip.IsLoopback()
		if !isLoopback && g.config.Host != "localhost" {
			g.logger.Warn("SECURITY: gateway has no API key and is bound to a non-loopback address; anyone on the network can access the API",
				"address", address)
		}
	}

	go func() {
		if err := g.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			g.logger.Error("gateway server error", "error", err)
		}
	}()
	g.logger.Info("gateway started", "address", address)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (g *Gateway) Stop(ctx context.Context) error {
	if g.server == nil {
		return nil
	}
	g.logger.Info("gateway stopping...")
	return g.server.Shutdown(ctx)
}

// securityHeadersMiddleware adds standard security headers to all responses.
func (g *Gateway) securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
