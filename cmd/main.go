package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/nexera-quiz/config"
	"github.com/lshigami/nexera-quiz/database"
	"github.com/lshigami/nexera-quiz/internal/controller"
	userctrl "github.com/lshigami/nexera-quiz/internal/controller/user"
	"github.com/lshigami/nexera-quiz/internal/logger"
	"github.com/lshigami/nexera-quiz/internal/middleware"
	"github.com/lshigami/nexera-quiz/internal/monitoring"
	"github.com/lshigami/nexera-quiz/internal/repository"
	"github.com/lshigami/nexera-quiz/internal/service"
	"github.com/lshigami/nexera-quiz/internal/storage"
	"github.com/lshigami/nexera-quiz/internal/tracing"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Nexera Quiz API
// @version 1.0
// @description Turns uploaded study documents into AI-generated quizzes, grades answers and tracks progress.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			storage.NewFileStorage,
			NewGinEngine,
			NewRateLimiter,
		),

		// Repositories
		fx.Provide(
			repository.NewSourceDocumentRepository,
			repository.NewQuizRepository,
			repository.NewQuestionRepository,
			repository.NewQuizAttemptRepository,
			repository.NewUserAnswerRepository,
		),

		// Services
		fx.Provide(
			service.NewGeminiTextService,
			service.NewQuizGenerationService,
			service.NewQuestionNormalizer,
			service.NewQuizPersistenceService,
			service.NewScoringService,
			service.NewAttemptRecorder,
			service.NewUploadService,
			service.NewSectionService,
			service.NewQuizService,
			service.NewAnswerService,
			service.NewDashboardService,
		),

		// Controllers
		fx.Provide(
			userctrl.NewUploadController,
			userctrl.NewAnswerController,
			userctrl.NewQuizController,
			userctrl.NewDashboardController,
			controller.NewController,
		),

		fx.Invoke(ConfigureLogger),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(InitTracing),
		fx.Invoke(PrepareStorage),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown finished with errors")
	}
}

func ConfigureLogger(cfg *config.Config) {
	logger.Configure(cfg)
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	monitoring.Init()

	r := gin.New()
	r.MaxMultipartMemory = cfg.Upload.MaxBytes

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())
	r.Use(tracing.GinMiddleware())
	r.Use(monitoring.MetricsMiddleware())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.Server.AllowedOrigins) == 1 && cfg.Server.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	}
	r.Use(cors.New(corsConfig))

	// Swagger UI at /swagger/index.html; docs are generated with `swag init`.
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func NewRateLimiter(lc fx.Lifecycle, cfg *config.Config) *middleware.RateLimiter {
	limiter := middleware.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			limiter.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			limiter.Stop()
			return nil
		},
	})
	return limiter
}

func AutoMigrateDB(db *gorm.DB) error {
	return database.AutoMigrate(db)
}

func InitTracing(lc fx.Lifecycle, cfg *config.Config) error {
	if !cfg.Tracing.Enabled {
		log.Info().Msg("Tracing disabled")
		return nil
	}
	tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})
	log.Info().Str("collector", cfg.Tracing.CollectorEndpoint).Msg("Tracing enabled")
	return nil
}

func PrepareStorage(lc fx.Lifecycle, fileStorage storage.FileStorage) {
	minioStorage, ok := fileStorage.(*storage.MinioStorage)
	if !ok {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return minioStorage.EnsureBucket(ctx)
		},
	})
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(lc fx.Lifecycle, router *gin.Engine, cfg *config.Config, ctrl *controller.Controller) {
	ctrl.RegisterRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Quiz API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}
