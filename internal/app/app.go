package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/config"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/controller"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/repository"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/service"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/internal/util"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/pkg/configwatcher"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/pkg/database"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/pkg/logger"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/pkg/monitoring"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/pkg/security"
	"github.com/megamindDeveloper/carrers-dashboard-sub000/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// sweepInterval is how often the expired-attempt sweeper runs.
const sweepInterval = 30 * time.Second

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services

	sweepCancel   context.CancelFunc
	shutdownHooks []func()
}

type repositories struct {
	user       *repository.UserRepository
	job        *repository.JobRepository
	applicant  *repository.ApplicantRepository
	college    *repository.CollegeRepository
	assessment *repository.AssessmentRepository
	attempt    *repository.AttemptRepository
	submission *repository.SubmissionRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	storage    *service.StorageService
	ai         *service.AIService
	mail       *service.MailService
	job        *service.JobService
	applicant  *service.ApplicantService
	college    *service.CollegeService
	assessment *service.AssessmentService
	attempt    *service.AttemptService
	invitation *service.InvitationService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	job        *controller.JobController
	applicant  *controller.ApplicantController
	college    *controller.CollegeController
	assessment *controller.AssessmentController
	attempt    *controller.AttemptController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		job:        repository.NewJobRepository(db),
		applicant:  repository.NewApplicantRepository(db),
		college:    repository.NewCollegeRepository(db),
		assessment: repository.NewAssessmentRepository(db),
		attempt:    repository.NewAttemptRepository(db),
		submission: repository.NewSubmissionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	storage := service.NewStorageService(cfg)
	ai := service.NewAIService(cfg.AI)
	mail := service.NewMailService(cfg.Mail)
	tracker := service.NewUploadTracker(rdb)

	assessment := service.NewAssessmentService(repos.assessment, repos.submission, rdb, cfg)

	return &services{
		auth:       service.NewAuthService(repos.user, cfg),
		user:       service.NewUserService(repos.user),
		storage:    storage,
		ai:         ai,
		mail:       mail,
		job:        service.NewJobService(repos.job, ai),
		applicant:  service.NewApplicantService(repos.applicant, repos.job, storage, ai, mail),
		college:    service.NewCollegeService(repos.college),
		assessment: assessment,
		attempt:    service.NewAttemptService(repos.attempt, repos.assessment, repos.college, assessment, storage, tracker),
		invitation: service.NewInvitationService(assessment, repos.applicant, repos.college, mail),
	}
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, s.user),
		user:       controller.NewUserController(s.user),
		job:        controller.NewJobController(s.job),
		applicant:  controller.NewApplicantController(s.applicant),
		college:    controller.NewCollegeController(s.college),
		assessment: controller.NewAssessmentController(s.assessment, s.invitation),
		attempt:    controller.NewAttemptController(s.attempt),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks runs the expired-attempt sweeper so timed
// attempts get auto-submitted even when the candidate walks away.
func (a *App) startBackgroundTasks(s *services) {
	ctx, cancel := context.WithCancel(context.Background())
	a.sweepCancel = cancel

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.attempt.SweepExpired(ctx)
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.Server.Mode != "release" || cfg.ForceMigrate
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("careers-dashboard", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.onShutdown(func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		})
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	// Hot-reload the config file. Middlewares hold the *Config, so
	// swapped values (JWT secret, CORS origins) apply to new requests.
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		if updated, ok := newCfg.(*config.Config); ok {
			*cfg = *updated
			logger.Log.Info("Configuration reloaded")
		}
	})

	return app
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func (a *App) onShutdown(fn func()) {
	a.shutdownHooks = append(a.shutdownHooks, fn)
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.sweepCancel != nil {
		a.sweepCancel()
	}
	for _, fn := range a.shutdownHooks {
		fn()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Log.Sync()
	log.Println("Server exiting")
}
