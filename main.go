package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/agentdeck/agentdeck/handlers"
	"github.com/agentdeck/agentdeck/internal/agents"
	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/contents"
	"github.com/agentdeck/agentdeck/internal/database"
	"github.com/agentdeck/agentdeck/internal/oidc"
	"github.com/agentdeck/agentdeck/internal/sessions"
	"github.com/agentdeck/agentdeck/internal/storage"
	"github.com/agentdeck/agentdeck/internal/tokens"
	"github.com/agentdeck/agentdeck/internal/users"
	"github.com/agentdeck/agentdeck/pkg/logger"
	"github.com/agentdeck/agentdeck/pkg/metrics"
	"github.com/agentdeck/agentdeck/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Configure(os.Stdout, strings.EqualFold(os.Getenv("LOG_PRETTY"), "true"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: keycloak=%v mongo=%v redis=%v minio=%v", cfg.Keycloak.URL != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.MinIO.Endpoint != "")
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, err := database.OpenRecordStore(ctx, cfg.MongoDB)
	if err != nil {
		logger.Fatalf("record store: %v", err)
	}
	defer func() { _ = records.Close(context.Background()) }()

	// Redis backs refresh sessions and the access token blacklist when configured
	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s), continuing without it: %v", addr, err)
			_ = rdb.Close()
			rdb = nil
		} else {
			logger.Infof("Connected to Redis: %s", addr)
			defer func() { _ = rdb.Close() }()
		}
	}

	var userRepo users.UserRepository = users.NewMemoryUserRepository()
	var sessionRepo sessions.Repository = sessions.NewMemoryRepository()
	if db := records.Database(); db != nil {
		userRepo = users.NewMongoUserRepository(db.Collection("users"))
		mongoSessions, err := sessions.NewMongoRepository(ctx, db.Collection("sessions"))
		if err != nil {
			logger.Fatalf("failed to prepare session collection: %v", err)
		}
		sessionRepo = mongoSessions
	}
	if rdb != nil {
		sessionRepo = sessions.NewRedisRepository(rdb, sessions.DefaultRedisPrefix)
		logger.Infof("Using Redis for session storage")
	}
	userSvc := users.NewService(userRepo)
	sessionsSvc := sessions.NewService(sessionRepo, cfg.JWT.RefreshTokenTTL)
	blacklist := sessions.NewBlacklist(rdb)

	var verifier middleware.Verifiers
	if cfg.JWT.Secret != "" {
		verifier = append(verifier, tokens.NewVerifier(cfg.JWT.Secret))
	} else {
		logger.Warn("JWT_SECRET not set; locally issued tokens are not accepted")
	}
	if cfg.Keycloak.URL != "" && cfg.Keycloak.ClientID != "" {
		issuer := oidc.IssuerURL(cfg.Keycloak.URL, cfg.Keycloak.Realm)
		if ver, err := oidc.NewVerifier(ctx, issuer, cfg.Keycloak.ClientID); err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			verifier = append(verifier, ver)
		}
	}

	var pdfs handlers.PDFStore
	var minioStore *storage.MinIOStorage
	if cfg.MinIO.Endpoint != "" {
		if minioStore, err = storage.NewMinIOStorage(ctx, cfg.MinIO); err != nil {
			logger.Warnf("PDF storage unavailable: %v", err)
		} else {
			pdfs = minioStore
		}
	}

	contentRepo := contents.NewRepository(records)
	agentRepo := agents.NewRepository(records, agents.NewCoordinator(contentRepo, cfg.Cascade.Concurrency))

	r := gin.New()
	r.Use(cors(), gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// ready only when the configured backends answer
	r.GET("/ready", func(c *gin.Context) {
		pctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		deps := map[string]bool{"store": records.Ping(pctx) == nil}
		if rdb != nil {
			deps["redis"] = rdb.Ping(pctx).Err() == nil
		}
		if minioStore != nil {
			deps["minio"] = minioStore.Ping(pctx) == nil
		}
		status, code := "ready", http.StatusOK
		for _, ok := range deps {
			if !ok {
				status, code = "not_ready", http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r)

	auth := handlers.NewAuthHandler(cfg, userSvc, sessionsSvc, blacklist)
	auth.Register(r.Group("/"))

	api := r.Group("/api/v1", middleware.AuthMiddleware(verifier, blacklist))
	api.GET("/me", auth.Me)
	handlers.NewAgentHandler(agentRepo, contentRepo, pdfs).Register(api)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("Starting agentdeck API on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

// cors sets permissive CORS headers and answers preflight requests.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
