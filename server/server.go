package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"budget-server/auth"
	"budget-server/cache"
	"budget-server/confs"
	"budget-server/handlers"
	httpHandler "budget-server/handlers/http"
	"budget-server/metrics"
	"budget-server/repositories"
	"budget-server/services"
	"budget-server/usecases"
	"budget-server/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const viewCacheTTL = 10 * time.Minute

type Server struct {
	app     *gin.Engine
	cfg     *confs.Config
	sweeper *services.SubscriptionSweeper
	metrics *metrics.Metrics
}

// NewServer wires use cases and handlers over gw and builds the route table.
func NewServer(cfg *confs.Config, gw *repositories.Gateway, notifier usecases.Notifier) *Server {
	m := metrics.New()
	s := &Server{
		app:     gin.New(),
		cfg:     cfg,
		metrics: m,
	}

	s.app.Use(gin.Recovery(), handlers.RequestLogger(), m.Middleware())

	// Setup CORS middleware
	config := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		config.AllowOrigins = cfg.AllowedOrigins
		config.AllowCredentials = true
	} else {
		config.AllowAllOrigins = true // Allow all origins for development
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	s.app.Use(cors.New(config))

	// Setup healthcheck route
	s.app.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "OK",
		})
	})
	s.app.GET("/metrics", m.Handler())

	// Shared state: view cache and websocket subscribers
	jwt := auth.NewJWTManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	views := cache.NewViewCache(viewCacheTTL)
	manager := ws.NewManager()
	revalidator := services.NewRevalidator(views, manager, m)

	// Initialize use cases
	authUseCase := usecases.NewAuthUseCase(gw, jwt, cfg.RefreshTokenTTL, nil)
	accountUseCase := usecases.NewAccountUseCase(gw, notifier, revalidator, nil)
	subscriptionUseCase := usecases.NewSubscriptionUseCase(gw, m, nil)
	envelopeUseCase := usecases.NewEnvelopeUseCase(gw, views, revalidator)
	transactionUseCase := usecases.NewTransactionUseCase(gw, views, revalidator, nil)
	householdUseCase := usecases.NewHouseholdUseCase(gw, revalidator)

	s.sweeper = services.NewSubscriptionSweeper(subscriptionUseCase, cfg.SweepInterval)

	// Initialize handlers
	authHandler := httpHandler.NewAuthHandler(authUseCase, accountUseCase, cfg.CookieSecure)
	accountHandler := httpHandler.NewAccountHandler(accountUseCase, authHandler)
	subscriptionHandler := httpHandler.NewSubscriptionHandler(subscriptionUseCase)
	envelopeHandler := httpHandler.NewEnvelopeHandler(envelopeUseCase)
	transactionHandler := httpHandler.NewTransactionHandler(transactionUseCase)
	householdHandler := httpHandler.NewHouseholdHandler(householdUseCase)
	cacheHandler := handlers.NewCacheHandler(views)
	wsHandler := handlers.NewWSHandler(manager, householdUseCase, cfg.AllowedOrigins)

	requireAuth := handlers.RequireAuth(jwt)
	optionalAuth := handlers.OptionalAuth(jwt)

	// Setup API routes
	api := s.app.Group("/api")
	{
		// Auth routes
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.POST("/update-phone", optionalAuth, authHandler.UpdatePhone)
		}

		api.GET("/subscription/status", requireAuth, subscriptionHandler.GetStatus)

		// Account lifecycle routes
		user := api.Group("/user")
		{
			user.POST("/delete", requireAuth, accountHandler.DeleteAccount)
			user.POST("/verify-email/confirm", accountHandler.ConfirmEmail)
		}

		// Household-scoped routes
		envelopes := api.Group("/envelopes", requireAuth)
		{
			envelopes.GET("", envelopeHandler.GetEnvelopes)
			envelopes.POST("", envelopeHandler.CreateEnvelope)
			envelopes.PUT("/order", envelopeHandler.ReorderEnvelopes)
			envelopes.DELETE("/:id", envelopeHandler.DeleteEnvelope)
		}

		transactions := api.Group("/transactions", requireAuth)
		{
			transactions.GET("", transactionHandler.GetTransactions)
			transactions.GET("/summary", transactionHandler.GetSummary)
			transactions.POST("", transactionHandler.CreateTransaction)
			transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
		}

		households := api.Group("/households", requireAuth)
		{
			households.POST("", householdHandler.CreateHousehold)
			households.GET("/current", householdHandler.GetCurrentHousehold)
			households.POST("/members", householdHandler.AddMember)
		}

		api.GET("/cache/stats", requireAuth, cacheHandler.GetCacheStats)
	}

	s.app.GET("/ws", requireAuth, wsHandler.HandleRevalidation)

	return s
}

// Router exposes the engine for tests.
func (s *Server) Router() *gin.Engine { return s.app }

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.sweeper.Start(ctx)

	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", srv.Addr, "storage", s.cfg.Storage)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
