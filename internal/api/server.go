// Package api provides the CTS resolver REST and WebSocket API server.
package api

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/scaife-viewer/ctsresolver/core/resolver"
	"github.com/scaife-viewer/ctsresolver/internal/logging"
)

// Config holds the API server configuration.
type Config struct {
	// Port to listen on.
	Port int
	// ReadTimeout bounds request reads; zero means no timeout.
	ReadTimeout time.Duration
}

// Server serves resolution requests over HTTP and broadcasts resolution
// events to WebSocket subscribers.
type Server struct {
	cfg      Config
	resolver *resolver.Resolver
	hub      *Hub
}

// NewServer creates an API server around a resolver.
func NewServer(cfg Config, r *resolver.Resolver) *Server {
	return &Server{
		cfg:      cfg,
		resolver: r,
		hub:      NewHub(),
	}
}

// Hub returns the server's WebSocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Routes configures all HTTP routes.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/resolve", s.handleResolve)
	mux.HandleFunc("/api/v1/cache/stats", s.handleCacheStats)
	mux.HandleFunc("/ws", s.handleWebSocket)

	return s.logRequests(mux)
}

// Start runs the hub and serves until the listener fails.
func (s *Server) Start() error {
	go s.hub.Run()

	logging.ServerStartup("rest_api", "http", s.cfg.Port)

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", s.cfg.Port),
		Handler:     s.Routes(),
		ReadTimeout: s.cfg.ReadTimeout,
	}
	return srv.ListenAndServe()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets the WebSocket upgrade work through the logging wrapper.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.HTTPRequest(r.Method, r.URL.Path, r.RemoteAddr, rec.status, time.Since(started))
	})
}
