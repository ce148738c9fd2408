package app

import (
	"code_practice_backend/internal/cache"
	"code_practice_backend/internal/config"
	"code_practice_backend/internal/controller"
	"code_practice_backend/internal/grading"
	"code_practice_backend/internal/middleware"
	"code_practice_backend/internal/model"
	"code_practice_backend/internal/repository"
	"code_practice_backend/internal/service"
	"code_practice_backend/pkg/configwatcher"
	"code_practice_backend/pkg/database"
	"code_practice_backend/pkg/logger"
	"code_practice_backend/pkg/monitoring"
	"code_practice_backend/pkg/security"
	"code_practice_backend/pkg/tracing"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type services struct {
	auth       *service.AuthService
	practice   *service.PracticeService
	mistake    *service.MistakeService
	question   *service.QuestionService
	chapter    *service.ChapterService
	statistics *service.StatisticsService
}

type controllers struct {
	auth       *controller.AuthController
	practice   *controller.PracticeController
	mistake    *controller.MistakeController
	question   *controller.QuestionController
	chapter    *controller.ChapterController
	statistics *controller.StatisticsController
	health     *controller.HealthController
}

// RegisterConfigCallback runs callback with every configuration reloaded
// from disk while the server is running.
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initServices(cfg *config.Config, store repository.Store, rdb *redis.Client) *services {
	counts := cache.NewMistakeCountCache(rdb, cache.DefaultCountTTL)
	grader := grading.NewGrader(cfg.Grading.Policy())

	return &services{
		auth:       service.NewAuthService(store, &cfg.JWT),
		practice:   service.NewPracticeService(store, grader, cache.NewMasteryPublisher(rdb, counts)),
		mistake:    service.NewMistakeService(store, counts),
		question:   service.NewQuestionService(store),
		chapter:    service.NewChapterService(store),
		statistics: service.NewStatisticsService(store),
	}
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		practice:   controller.NewPracticeController(s.practice),
		mistake:    controller.NewMistakeController(s.mistake),
		question:   controller.NewQuestionController(s.question),
		chapter:    controller.NewChapterController(s.chapter),
		statistics: controller.NewStatisticsController(s.statistics),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestID())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks follows the mastery channel so ledger transitions
// show up in metrics, and reloads grading thresholds when the config file
// changes.
func (a *App) startBackgroundTasks(ctx context.Context) {
	if a.Redis != nil {
		go func() {
			err := cache.SubscribeMastery(ctx, a.Redis, func(ev model.MasteryEvent) {
				monitoring.ObserveMastery(string(ev.Change), string(ev.Status))
				logger.Log.Debug("掌握度变更",
					zap.Uint("student_id", ev.StudentID),
					zap.Uint("question_id", ev.QuestionID),
					zap.String("change", string(ev.Change)),
					zap.String("status", string(ev.Status)))
			})
			if err != nil {
				logger.Log.Error("mastery subscription stopped", zap.Error(err))
			}
		}()
	}

	if path := config.ConfigFile(); path != "" {
		go func() {
			if err := configwatcher.WatchConfig(ctx, path, config.Reload, a.applyConfig, configwatcher.DefaultDebounce); err != nil {
				logger.Log.Error("config watcher stopped", zap.Error(err))
			}
		}()
	}
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
		app.Redis = rdb
	}

	store := repository.NewStore(db)
	app.services = app.initServices(cfg, store, app.Redis)
	controllers := app.initControllers(app.services, db, app.Redis)

	app.RegisterConfigCallback(func(c *config.Config) {
		app.services.practice.SetPolicy(c.Grading.Policy())
		logger.Log.Info("grading policy reloaded",
			zap.Float64("partial_correct_ratio", c.Grading.PartialCorrectRatio),
			zap.Int("correct_similarity", c.Grading.CorrectSimilarity),
			zap.Int("partial_similarity", c.Grading.PartialSimilarity))
	})

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("code-practice", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.startBackgroundTasks(ctx)

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
