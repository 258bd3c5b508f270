// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront-client/internal/config"
	"storefront-client/internal/db"
	wstypes "storefront-client/internal/domain/websocket"
	appointmentHandler "storefront-client/internal/handlers/appointment"
	cartHandler "storefront-client/internal/handlers/cart"
	checkoutHandler "storefront-client/internal/handlers/checkout"
	orderHandler "storefront-client/internal/handlers/order"
	sessionHandler "storefront-client/internal/handlers/session"
	viewHandler "storefront-client/internal/handlers/view"
	wsHandler "storefront-client/internal/handlers/websocket"
	"storefront-client/internal/guard"
	"storefront-client/internal/middleware"
	"storefront-client/internal/pkg/jwt"
	appointmentUsecase "storefront-client/internal/service/appointment"
	cartUsecase "storefront-client/internal/service/cart"
	checkoutUsecase "storefront-client/internal/service/checkout"
	orderUsecase "storefront-client/internal/service/order"
	sessionUsecase "storefront-client/internal/service/session"
	"storefront-client/internal/storage"
	"storefront-client/internal/transport/apiclient"
	"storefront-client/internal/ui"
	"storefront-client/internal/websocket"
	wsHandlers "storefront-client/internal/websocket/handler"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func init() {
	// prices and totals go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Server owns the single session and cart of this process and everything
// wired around them.
type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	Session *sessionUsecase.Store
	Cart    *cartUsecase.Store
	Hub     *websocket.Hub
	API     *apiclient.Client

	closers []func()
}

// NewServer wires the process. creds may be nil, in which case the backend
// named by CREDENTIAL_BACKEND is opened.
func NewServer(ctx context.Context, cfg config.AppConfig, logger *zap.Logger, creds storage.CredentialStore) (*Server, error) {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{cfg: cfg, engine: gin.New(), logger: logger}

	// ----- Credential storage -----
	if creds == nil {
		var err error
		creds, err = s.openCredentialStore(ctx)
		if err != nil {
			s.Close()
			return nil, err
		}
	}

	// ----- JWT -----
	decoder, err := jwt.LoadDecoder(cfg.JWT)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to load credential decoder: %w", err)
	}
	if cfg.JWT.PubPath == "" {
		logger.Warn("JWT_PUBLIC_KEY_PATH not set, credentials are decoded without signature checks")
	}

	// ----- Collaborator API -----
	api := apiclient.New(cfg.API, logger)

	// ----- Signals to views -----
	recorder := ui.NewRecorder()
	hub := websocket.NewHub(logger)
	signals := &ui.Fanout{
		Navigators: []ui.Navigator{recorder, hub},
		Notifiers:  []ui.Notifier{recorder, hub},
	}

	// ----- Stores and services -----
	sessionStore := sessionUsecase.NewStore(creds, decoder, api, api, signals, signals, logger)
	cartStore := cartUsecase.NewStore(signals, logger)
	authz := guard.NewAuthorizer(sessionStore, guard.DefaultRoutes())
	guardedCart := cartUsecase.NewGuardedStore(cartStore, authz, signals, signals)
	checkoutService := checkoutUsecase.NewService(cartStore, api, authz, signals, signals, logger)
	appointmentService := appointmentUsecase.NewService(api, authz, signals, logger)
	orderHistory := orderUsecase.NewHistoryService(api, authz, logger)

	sessionStore.Subscribe(hub.PublishSession)
	cartStore.Subscribe(hub.PublishCart)
	hub.SetSnapshotProvider(func() []*wstypes.WSMessage {
		return wsHandlers.Snapshots(sessionStore, cartStore)
	})
	if err := hub.RegisterHandler(wsHandlers.NewStateHandler(sessionStore, cartStore, logger)); err != nil {
		s.Close()
		return nil, err
	}

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(cfg.CORSOrigins),
	)

	// ----- Router -----
	handlers := &Handlers{
		SessionHandler:     sessionHandler.NewSessionHandler(sessionStore, logger),
		CartHandler:        cartHandler.NewCartHandler(guardedCart, logger),
		CheckoutHandler:    checkoutHandler.NewCheckoutHandler(checkoutService, logger),
		OrderHandler:       orderHandler.NewOrderHandler(orderHistory, logger),
		AppointmentHandler: appointmentHandler.NewAppointmentHandler(appointmentService, logger),
		ViewHandler:        viewHandler.NewViewHandler(authz, recorder),
		WSHandler:          wsHandler.NewWebSocketHandler(hub, cfg.CORSOrigins, logger),
		GuardMiddleware:    middleware.NewGuardMiddleware(authz),
	}
	SetupRouter(s.engine, handlers)

	s.Session = sessionStore
	s.Cart = cartStore
	s.Hub = hub
	s.API = api
	return s, nil
}

func (s *Server) openCredentialStore(ctx context.Context) (storage.CredentialStore, error) {
	switch s.cfg.CredentialBackend {
	case config.BackendMemory, "":
		return storage.NewMemoryStore(), nil

	case config.BackendRedis:
		client, err := db.NewRedisClient(ctx, db.RedisConfig{
			Addr:     s.cfg.RedisAddr,
			Password: s.cfg.RedisPass,
			DB:       s.cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { client.Close() })
		s.logger.Info("credential storage: redis", zap.String("addr", s.cfg.RedisAddr))
		return storage.NewRedisStore(client, s.cfg.CredentialKey), nil

	case config.BackendPostgres:
		pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pool.Close)
		store := storage.NewPostgresStore(pool, s.cfg.CredentialKey)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to prepare credential table: %w", err)
		}
		s.logger.Info("credential storage: postgres")
		return store, nil
	}

	return nil, fmt.Errorf("unknown credential backend %q", s.cfg.CredentialBackend)
}

// Handler exposes the gin engine, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the hub, restores the persisted session in the background and
// serves HTTP until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go s.Hub.Run(ctx)
	go s.Session.Initialize(ctx)

	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("storefront state host listening", zap.String("addr", s.cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// Close releases storage connections.
func (s *Server) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
