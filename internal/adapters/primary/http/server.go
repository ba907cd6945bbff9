package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/fredcamaral/marpview/internal/adapters/secondary/monitoring"
	"github.com/fredcamaral/marpview/internal/adapters/secondary/renderer"
	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
)

// SessionService is the part of the viewer session the HTTP surface drives
type SessionService interface {
	ports.InputHandler
	Subscribe(surface ports.DisplaySurface) string
	Unsubscribe(id string)
	View() entities.View
	Deck() *entities.Deck
	Theme() entities.ThemePreference
	SetTheme(theme entities.ThemePreference) (entities.View, error)
}

// PageRenderer renders the viewer shell page
type PageRenderer interface {
	RenderViewer(ctx context.Context, page renderer.ViewerPage) ([]byte, error)
}

// ThemeLister lists the slide themes a deck can select
type ThemeLister interface {
	List() []renderer.Theme
}

// Monitor records request and connection activity and reports viewer stats
type Monitor interface {
	RecordHTTPRequest()
	SocketOpened()
	SocketClosed()
	Snapshot() monitoring.Stats
}

// Server is the browser surface of the viewer: it serves the viewer page,
// accepts deck uploads and relays views and input over a WebSocket
type Server struct {
	server   *http.Server
	listener net.Listener
	connMgr  *ConnectionManager
	session  SessionService
	input    ports.InputHandler
	pages    PageRenderer
	printer  ports.PrintSink
	themes   ThemeLister
	monitor  Monitor
	config   *entities.Config
	version  string
	limiter  *rateLimiter
	logger   logrus.FieldLogger
	subID    string
	mu       sync.RWMutex
	running  bool
}

// NewServer creates a new HTTP server.
// config must not be nil - use config.GetDefaultConfig() if needed
func NewServer(session SessionService, pages PageRenderer, config *entities.Config, logger logrus.FieldLogger) *Server {
	if config == nil {
		panic("server config cannot be nil - provide a valid Config")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger = logger.WithField("component", "http")

	return &Server{
		session: session,
		input:   session,
		pages:   pages,
		connMgr: NewConnectionManager(logger),
		config:  config,
		version: "dev",
		limiter: newRateLimiter(),
		logger:  logger,
	}
}

// Register implements ports.InputSurface. Browser input goes to the session
// until another handler is registered.
func (s *Server) Register(handler ports.InputHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = handler
}

// SetPrintSink sets the renderer behind the print page
func (s *Server) SetPrintSink(printer ports.PrintSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.printer = printer
}

// SetThemeLister sets the source of the themes endpoint
func (s *Server) SetThemeLister(themes ThemeLister) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.themes = themes
}

// SetMonitor sets the activity monitor behind the stats endpoint
func (s *Server) SetMonitor(monitor Monitor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monitor = monitor
}

// SetVersion sets the version reported by the viewer page
func (s *Server) SetVersion(version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version = version
}

// Start binds the listener and serves in the background until Stop or ctx is done
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}

	listener, err := net.Listen("tcp", s.config.Server.Address())
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("listening on %s: %w", s.config.Server.Address(), err)
	}

	go s.connMgr.Run(ctx)
	s.subID = s.session.Subscribe(s.connMgr)

	s.listener = listener
	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.GetReadTimeout(),
		WriteTimeout: s.config.Server.GetWriteTimeout(),
		IdleTimeout:  2 * s.config.Server.GetReadTimeout(),
	}
	s.running = true
	srv := s.server
	s.mu.Unlock()

	go func() {
		s.logger.WithField("addr", listener.Addr().String()).Info("HTTP server starting")
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("HTTP server error")
		}
	}()

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return errors.New("server not running")
	}

	s.session.Unsubscribe(s.subID)
	s.connMgr.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.GetShutdownTimeout())
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.running = false
	return nil
}

// Addr returns the bound listener address, or "" before Start
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// URL returns the viewer address for a browser
func (s *Server) URL() string {
	addr := s.Addr()
	if addr == "" {
		return ""
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if ip := net.ParseIP(host); ip == nil || ip.IsUnspecified() {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// IsRunning returns whether the server is currently running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Handler returns the routed handler with middleware and CORS applied
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", s.handleViewer).Methods(http.MethodGet)
	router.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
	router.HandleFunc("/print", s.handlePrint).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/deck", s.handleUpload).Methods(http.MethodPost)
	api.HandleFunc("/view", s.handleView).Methods(http.MethodGet)
	api.HandleFunc("/navigate", s.handleNavigate).Methods(http.MethodPost)
	api.HandleFunc("/preferences/theme", s.handleGetTheme).Methods(http.MethodGet)
	api.HandleFunc("/preferences/theme", s.handleSetTheme).Methods(http.MethodPut)
	api.HandleFunc("/themes", s.handleThemes).Methods(http.MethodGet)
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusNotFound, "not_found", "Resource not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   s.config.Server.GetCORSOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	// metrics -> security -> rate limiting -> logging -> recovery
	var handler http.Handler = c.Handler(router)
	handler = metricsMiddleware(handler, s.activityMonitor)
	handler = securityHeadersMiddleware(handler)
	handler = rateLimitMiddleware(handler, s.limiter, requestsPerMinute)
	handler = loggingMiddleware(handler, s.logger)
	handler = recoveryMiddleware(handler, s.logger)

	return handler
}

func (s *Server) printSink() ports.PrintSink {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.printer
}

func (s *Server) themeLister() ThemeLister {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.themes
}

func (s *Server) inputHandler() ports.InputHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.input
}

func (s *Server) activityMonitor() Monitor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.monitor
}

func (s *Server) versionString() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func closeQuietly(c io.Closer) {
	_ = c.Close()
}

var _ ports.InputSurface = (*Server)(nil)
