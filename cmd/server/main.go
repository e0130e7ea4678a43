package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jgmsoftworks/calcula-ai-sub001/internal/auth"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/cache"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/config"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/configstore"
	cronrunner "github.com/jgmsoftworks/calcula-ai-sub001/internal/cron"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/db"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/handler"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/logger"
	gormrepository "github.com/jgmsoftworks/calcula-ai-sub001/internal/repository/gorm"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/service"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/watch"
)

func main() {
	cfgPath := os.Getenv("CALC_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("CALC_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)

	settingsSvc := &service.SystemSettingsService{Repo: store}
	if err := settingsSvc.EnsureDefaultSwitches(context.Background()); err != nil {
		logger.Warn("init default feature switches failed", zap.Error(err))
	}

	var memoryCache *cache.MemoryStore
	var cacheStore cache.Store
	if strings.EqualFold(cfg.Cache.Backend, "redis") && cfg.Cache.RedisAddr != "" {
		cacheStore = cache.NewRedisStore(&redis.Options{
			Addr: cfg.Cache.RedisAddr,
			DB:   cfg.Cache.RedisDB,
		})
		logger.Info("cache backend: redis", zap.String("addr", cfg.Cache.RedisAddr))
	} else {
		memoryCache = cache.NewMemoryStore()
		cacheStore = memoryCache
		logger.Info("cache backend: memory")
	}
	cfgStore := configstore.New(store, cacheStore, cfg.Cache.TTL, logger)

	hub := watch.NewHub(logger)

	selectionSvc := &service.SelectionService{Store: cfgStore, Repo: store, Logger: logger}
	revenueSvc := &service.RevenueService{
		Repo:                store,
		Store:               cfgStore,
		Logger:              logger,
		DefaultPeriodMonths: cfg.Revenue.DefaultPeriodMonths,
	}
	scenarioSvc := &service.ScenarioService{
		Repo:         store,
		Store:        cfgStore,
		Selection:    selectionSvc,
		Revenue:      revenueSvc,
		Hub:          hub,
		Logger:       logger,
		MonthlyHours: cfg.Engine.DefaultMonthlyHours,
	}
	billingSvc := &service.BillingService{
		Store:          cfgStore,
		Logger:         logger,
		CheckoutURL:    cfg.Billing.CheckoutURL,
		CheckoutPlanID: cfg.Billing.CheckoutPlanID,
	}

	jwt := auth.JWT{Secret: []byte(cfg.Auth.JWTSecret), TokenTTL: cfg.Auth.TokenTTL}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	engine.Use(handler.WriteAuditMiddleware(logger))

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	handler.RegisterDocs(engine)

	authHandler := &handler.AuthHandler{Repo: store, JWT: jwt}
	authHandler.Register(engine)

	streamHandler := &handler.StreamHandler{
		Hub:    hub,
		JWT:    jwt,
		Logger: logger,
		Buffer: cfg.Stream.SubscriberBuffer,
	}
	streamHandler.Register(engine)

	api := engine.Group("/api/v1")
	api.Use(auth.Middleware(jwt))

	expensesHandler := &handler.ExpensesHandler{Repo: store, Hub: hub}
	expensesHandler.Register(api)
	payrollHandler := &handler.PayrollHandler{Repo: store, Hub: hub}
	payrollHandler.Register(api)
	chargesHandler := &handler.ChargesHandler{Repo: store, Hub: hub}
	chargesHandler.Register(api)
	revenueHandler := &handler.RevenueHandler{Revenue: revenueSvc, Hub: hub}
	revenueHandler.Register(api)
	scenariosHandler := &handler.ScenariosHandler{Scenarios: scenarioSvc, Selection: selectionSvc, Hub: hub}
	scenariosHandler.Register(api)
	recipesHandler := &handler.RecipesHandler{Repo: store, Scenarios: scenarioSvc}
	recipesHandler.Register(api)
	settingsHandler := &handler.SettingsHandler{Repo: store, Settings: settingsSvc}
	settingsHandler.Register(api)
	billingHandler := &handler.BillingHandler{Billing: billingSvc, WebhookSecret: cfg.Billing.WebhookSecret}
	billingHandler.Register(engine, api)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poller := &service.RevenuePoller{
		Repo:    store,
		Revenue: revenueSvc,
		Hub:     hub,
		Logger:  logger,
		Flags:   settingsSvc,
	}

	if cfg.Cron.Enabled {
		runner := cronrunner.New(logger, ctx)
		jobs := cronrunner.Jobs{
			Cfg:       cfg.Cron,
			Logger:    logger,
			Repo:      store,
			Poller:    poller,
			Scenarios: scenarioSvc,
			Flags:     settingsSvc,
			Memory:    memoryCache,
		}
		if err := jobs.Register(runner); err != nil {
			logger.Warn("cron job registration failed", zap.Error(err))
		}
		runner.Start()
		defer runner.Stop()
	}

	recalc := &service.RecalcListener{
		Hub:       hub,
		Scenarios: scenarioSvc,
		Flags:     settingsSvc,
		Logger:    logger,
		Delay:     cfg.Engine.RecomputeDebounce,
	}
	go recalc.Run(ctx)

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
