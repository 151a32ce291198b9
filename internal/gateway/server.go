// Package gateway exposes the registry and router over HTTP and
// broadcasts consultation activity to WebSocket listeners.
package gateway

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nikoq/switchboard/internal/config"
	"github.com/nikoq/switchboard/internal/logging"
	"github.com/nikoq/switchboard/internal/registry"
	"github.com/nikoq/switchboard/internal/router"
	"github.com/nikoq/switchboard/internal/version"
)

// Server is the switchboard gateway HTTP + WebSocket server.
type Server struct {
	cfg         config.GatewayConfig
	log         *logging.Logger
	clients     *ClientRegistry
	broadcaster *Broadcaster
	reg         *registry.Registry
	rt          *router.Router

	startedAt  time.Time
	httpServer *http.Server
	upgrader   websocket.Upgrader
}

// New creates a gateway server on top of a registry and router. A nil
// clients registry gets a fresh one; callers that wire the broadcaster
// into reporting before the server exists pass their own.
func New(cfg config.GatewayConfig, reg *registry.Registry, rt *router.Router, clients *ClientRegistry, log *logging.Logger) *Server {
	if clients == nil {
		clients = NewClientRegistry(log.Sub("clients"))
	}
	return &Server{
		cfg:         cfg,
		log:         log.Sub("gateway"),
		clients:     clients,
		broadcaster: NewBroadcaster(clients),
		reg:         reg,
		rt:          rt,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// resolveBindAddr computes the listen address from config.
func resolveBindAddr(cfg config.GatewayConfig) string {
	switch cfg.Bind {
	case "lan":
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	default:
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	}
}

// Start begins listening for HTTP and WebSocket connections. It blocks
// until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	addr := resolveBindAddr(s.cfg)

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	handler := requestIDMiddleware(loggingMiddleware(mux, s.log))

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	if s.cfg.Auth.Token == "" && s.cfg.Bind != "loopback" {
		s.log.Warn().Msg("no auth token configured on a non-loopback bind")
	}

	s.startedAt = time.Now()
	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("bind", s.cfg.Bind).
		Bool("auth", s.cfg.Auth.Token != "").
		Msg("gateway server ready")

	// Shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down gateway server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.clients.CloseAll()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the server's listen address, or empty string if not started.
func (s *Server) Addr() string {
	if s.httpServer != nil {
		return s.httpServer.Addr
	}
	return ""
}

// Version reported in status responses.
func (s *Server) Version() string {
	return version.Version
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/status", s.auth(s.handleStatus))
	mux.HandleFunc("GET /api/agents", s.auth(s.handleAgents))
	mux.HandleFunc("POST /api/route", s.auth(s.handleRoute))
	mux.HandleFunc("POST /api/consult", s.auth(s.handleConsult))
	mux.HandleFunc("GET /api/history", s.auth(s.handleHistory))
	mux.HandleFunc("GET /ws", s.auth(s.handleWebSocket))
	mux.HandleFunc("/", handleNotFound)
}

// auth guards a handler with bearer-token authentication. An empty
// configured token disables the check (local single-user setups).
func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Auth.Token == "" {
			next(w, r)
			return
		}
		token := bearerToken(r)
		if token == "" || !safeEqual(token, s.cfg.Auth.Token) {
			s.log.Warn().Str("remote", r.RemoteAddr).Str("path", r.URL.Path).Msg("unauthorized request")
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

// bearerToken extracts the token from the Authorization header, falling
// back to the token query parameter for WebSocket clients that cannot
// set headers.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// safeEqual performs a constant-time string comparison.
func safeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// handleWebSocket upgrades the connection and keeps it registered for
// broadcasts until the peer goes away. Inbound messages are discarded;
// listeners are read-only.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	conn.SetReadLimit(1 << 20)

	client := NewClient(conn)
	s.clients.Add(client)
	defer func() {
		s.clients.Remove(client.ConnID)
		client.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug().Err(err).Str("connId", client.ConnID).Msg("read ended")
			}
			return
		}
	}
}

// Reporter returns the Reporter that broadcasts every consultation and
// activity to connected WebSocket listeners.
func (s *Server) Reporter() *Broadcaster {
	return s.broadcaster
}

// Broadcaster forwards reporting events to WebSocket listeners. It only
// needs the client registry, so it can be wired into reporting before
// the server itself exists.
type Broadcaster struct {
	clients *ClientRegistry
	seq     atomic.Int64
}

func NewBroadcaster(clients *ClientRegistry) *Broadcaster {
	return &Broadcaster{clients: clients}
}

func (b *Broadcaster) LogConsultation(from, to, query string, success bool, duration time.Duration, payload map[string]any) {
	b.broadcast(EventConsultation, map[string]any{
		"from":       from,
		"to":         to,
		"query":      query,
		"success":    success,
		"durationMs": duration.Milliseconds(),
	})
}

func (b *Broadcaster) LogActivity(agent, activityType, description string, meta map[string]any) {
	b.broadcast(EventActivity, map[string]any{
		"agent":       agent,
		"type":        activityType,
		"description": description,
		"meta":        meta,
	})
}

func (b *Broadcaster) broadcast(event string, payload any) {
	b.clients.Broadcast(Event{
		Event:   event,
		Seq:     b.seq.Add(1),
		Ts:      time.Now(),
		Payload: payload,
	})
}

// loggingMiddleware logs each HTTP request.
func loggingMiddleware(next http.Handler, log *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("duration", time.Since(start)).
			Str("remote", r.RemoteAddr).
			Msg("http request")
	}
}

// requestIDMiddleware adds a unique request ID to each response.
func requestIDMiddleware(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r)
	}
}

// statusWriter wraps ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
