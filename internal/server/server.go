package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/LanternOps/breeze-viewer/internal/api/http"
	"github.com/LanternOps/breeze-viewer/internal/api/middleware"
	"github.com/LanternOps/breeze-viewer/internal/api/ws"
	"github.com/LanternOps/breeze-viewer/internal/domain/deeplink"
	"github.com/LanternOps/breeze-viewer/internal/domain/routing"
	"github.com/LanternOps/breeze-viewer/internal/infrastructure/config"
	"github.com/LanternOps/breeze-viewer/internal/infrastructure/logging"
	"github.com/LanternOps/breeze-viewer/internal/infrastructure/monitoring"
	"github.com/LanternOps/breeze-viewer/internal/infrastructure/scheme"
	"github.com/LanternOps/breeze-viewer/internal/infrastructure/singleinstance"
	"github.com/LanternOps/breeze-viewer/internal/infrastructure/webview"
)

// ErrAlreadyRunning is returned by Start when another viewer instance
// owns the hand-off socket; the activation has been forwarded and this
// process should exit cleanly.
var ErrAlreadyRunning = errors.New("activation forwarded to running instance")

// Server is the assembled viewer host.
type Server struct {
	cfg     *config.Config
	log     *logging.Logger
	metrics *monitoring.Metrics

	hub     *ws.Hub
	windows *webview.Host
	router  *routing.Router

	httpSrv  *http.Server
	instance *singleinstance.Listener
}

// New builds the viewer host from configuration.
func New(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	var err error
	if cfg.Logging.Development {
		logger, err = logging.New(logging.Config{
			Level:       cfg.Logging.Level,
			Development: true,
			OutputPaths: []string{"stdout"},
		})
	} else {
		logger, err = logging.New(logging.Config{
			Level:       cfg.Logging.Level,
			OutputPaths: []string{"stdout"},
		})
	}
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	logger.Info("Initializing Breeze viewer host",
		zap.String("scheme", cfg.DeepLink.Scheme),
		zap.String("api_addr", net.JoinHostPort(cfg.API.Host, cfg.API.Port)),
	)

	metrics := monitoring.NewMetrics()
	hub := ws.NewHub(logger.Named("ws")).WithMetrics(metrics)

	contentURL := fmt.Sprintf("http://%s/", net.JoinHostPort(cfg.API.Host, cfg.API.Port))
	windows := webview.NewHost(hub, webview.Config{
		Command:    cfg.Webview.Command,
		ContentURL: contentURL,
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
	}, logger.Named("webview")).WithMetrics(metrics)

	router := routing.NewRouter(windows, logger.Named("routing")).
		WithMetrics(metrics).
		WithRetryDelays(cfg.DeepLink.RetryShort, cfg.DeepLink.RetryLong)
	windows.OnDestroyed(router.WindowDestroyed)

	s := &Server{
		cfg:     cfg,
		log:     logger,
		metrics: metrics,
		hub:     hub,
		windows: windows,
		router:  router,
	}
	s.httpSrv = &http.Server{
		Addr:    net.JoinHostPort(cfg.API.Host, cfg.API.Port),
		Handler: s.buildEngine(),
	}
	return s, nil
}

// Router exposes the deep-link router for activation sources.
func (s *Server) Router() *routing.Router {
	return s.router
}

// Start claims the single-instance socket, registers the URI scheme,
// opens the primary window, and handles any launch activation carried
// in args. Returns ErrAlreadyRunning after forwarding when another
// instance is live.
func (s *Server) Start(args []string) error {
	socket := s.cfg.DeepLink.SingleInstanceSocket
	if socket == "" {
		socket = singleinstance.SocketPath(s.cfg.DeepLink.Scheme)
	}

	listener, err := singleinstance.Listen(socket, s.handleSecondInstance, s.log.Named("instance"))
	if errors.Is(err, singleinstance.ErrAlreadyRunning) {
		s.log.Info("Another instance is running; forwarding activation")
		if ferr := singleinstance.Forward(socket, args); ferr != nil {
			return fmt.Errorf("forward to running instance: %w", ferr)
		}
		return ErrAlreadyRunning
	}
	if err != nil {
		return fmt.Errorf("claim single-instance socket: %w", err)
	}
	s.instance = listener

	scheme.Register(s.log.Named("scheme"))

	if err := s.windows.CreateWindow(routing.PrimaryLabel); err != nil {
		return fmt.Errorf("open primary window: %w", err)
	}

	if url, ok := deeplink.FromArgs(args, s.cfg.DeepLink.Scheme); ok {
		s.metrics.ActivationsTotal.WithLabelValues("launch").Inc()
		s.router.HandleLaunch(url)
	}
	return nil
}

// Run serves the local frontend API until shutdown.
func (s *Server) Run() error {
	s.log.Info("Frontend API listening", zap.String("addr", s.httpSrv.Addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("frontend API server: %w", err)
	}
	return nil
}

// Close shuts the host down: API server, hand-off socket, windows,
// and content connections, in that order.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if s.instance != nil {
		if err := s.instance.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.windows.Close()
	s.hub.CloseAll()
	s.log.Sync()
	return errors.Join(errs...)
}

// HandleActivation routes a live OS activation delivered while the
// process is running.
func (s *Server) HandleActivation(url string) {
	s.metrics.ActivationsTotal.WithLabelValues("live").Inc()
	s.router.Route(url)
}

// handleSecondInstance routes an activation forwarded by a second
// process instance. An argument list without a deep link still brings
// the primary window to the front.
func (s *Server) handleSecondInstance(args []string) {
	s.metrics.ActivationsTotal.WithLabelValues("second_instance").Inc()

	url, ok := deeplink.FromArgs(args, s.cfg.DeepLink.Scheme)
	if !ok {
		if err := s.windows.FocusWindow(routing.PrimaryLabel); err != nil {
			s.log.Warn("Failed to focus primary window on activation", zap.Error(err))
		}
		return
	}
	s.router.Route(url)
}

// buildEngine assembles the gin engine for the local frontend API.
func (s *Server) buildEngine() *gin.Engine {
	if !s.cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS())
	if s.cfg.RateLimit.Enabled {
		engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: s.cfg.RateLimit.RequestsPerSecond,
			Burst:             s.cfg.RateLimit.Burst,
		}))
	}

	engine.GET("/health", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := engine.Group("/api")
	apihttp.NewHandler(s.router, s.windows, s.log.Named("api")).Register(api)
	api.POST("/activate", s.handleActivate)

	wsHandler := ws.NewHandler(s.hub, s.log.Named("ws"))
	engine.GET("/ws/:label", wsHandler.HandleConnection)

	return engine
}

// handleActivate accepts a live activation from the platform helper.
func (s *Server) handleActivate(c *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}
	s.HandleActivation(req.URL)
	c.Status(http.StatusAccepted)
}

func (s *Server) handleHealth(c *gin.Context) {
	s.metrics.UpdateUptime()
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"windows": len(s.windows.Labels()),
	})
}
