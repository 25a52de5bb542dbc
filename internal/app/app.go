package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"

	"github.com/sooop-pk/sooop-portal/internal/audit"
	"github.com/sooop-pk/sooop-portal/internal/cms"
	"github.com/sooop-pk/sooop-portal/internal/config"
	"github.com/sooop-pk/sooop-portal/internal/db"
	"github.com/sooop-pk/sooop-portal/internal/http/api/admin"
	"github.com/sooop-pk/sooop-portal/internal/http/api/front"
	"github.com/sooop-pk/sooop-portal/internal/membership"
	"github.com/sooop-pk/sooop-portal/internal/settings"
)

// Migrate opens the database and runs migrations.
func Migrate(ctx context.Context, cfg config.AppConfig) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	return db.Migrate(conn)
}

// RunServer boots the portal API server and blocks until ctx is cancelled or
// the listener fails.
func RunServer(ctx context.Context, appCfg config.AppConfig) error {
	configPath := config.ResolveConfigPath(appCfg.ConfigPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	setupLogging(cfg.Log)

	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	jwtCfg, err := config.LoadJWTConfig(configPath)
	if err != nil {
		return err
	}

	if errRefresh := settings.Refresh(ctx, conn); errRefresh != nil {
		return fmt.Errorf("load settings: %w", errRefresh)
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if errPing := rdb.Ping(ctx).Err(); errPing != nil {
			log.WithError(errPing).Warn("redis unreachable, cache invalidation stays local")
			rdb = nil
		}
	}

	cache := cms.NewCache(func() time.Duration {
		return time.Duration(settings.IntValue(settings.RevalidateSecondsKey, settings.DefaultRevalidateSeconds)) * time.Second
	})
	broker := cms.NewBroker(rdb, cache)
	broker.Listen(ctx)
	resolver := cms.NewResolver(conn, cache, broker)
	manager := membership.NewManager(conn, broker)
	recorder := audit.NewRecorder(conn)

	if poller := settings.NewPoller(conn); poller != nil {
		poller.Start(ctx)
	}
	if cleaner := audit.NewRetentionCleaner(conn); cleaner != nil {
		cleaner.Start(ctx)
	}

	engine := newEngine(conn, jwtCfg, resolver, manager, broker, recorder)

	server := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", cfg.Server.Listen)
		if errServe := server.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			errCh <- errServe
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			log.WithError(errShutdown).Warn("shutdown incomplete")
		}
		return nil
	case errServe := <-errCh:
		return errServe
	}
}

// newEngine wires the router with health, front and admin routes.
func newEngine(conn *gorm.DB, jwtCfg config.JWTConfig, resolver *cms.Resolver, manager *membership.Manager, broker *cms.Broker, recorder *audit.Recorder) *gin.Engine {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogMiddleware())

	engine.GET("/healthz", healthHandler(conn))

	front.RegisterFrontRoutes(engine, conn, jwtCfg, resolver, manager)
	admin.RegisterAdminRoutes(engine, conn, jwtCfg, resolver, manager, broker, recorder)
	return engine
}

// healthHandler reports liveness, verifying database connectivity.
func healthHandler(conn *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, errDB := conn.DB()
		if errDB != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if errPing := sqlDB.PingContext(pingCtx); errPing != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// requestLogMiddleware logs one line per request through logrus.
func requestLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("request")
	}
}

// setupLogging configures logrus from the log config. With a file path set,
// output rotates through lumberjack.
func setupLogging(cfg config.LogConfig) {
	level, errParse := log.ParseLevel(cfg.Level)
	if errParse != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	if cfg.File != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
			Compress:   true,
		})
	}
}
