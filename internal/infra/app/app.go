package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/port"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/infra/config"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/infra/database"
	kafkainfra "github.com/DennisSalmasz/dev-ticketing-rest/internal/infra/kafka"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/infra/logger"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/infra/notify"
	redisinfra "github.com/DennisSalmasz/dev-ticketing-rest/internal/infra/redis"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/infra/security"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/infra/telemetry"
	postgresrepo "github.com/DennisSalmasz/dev-ticketing-rest/internal/repository/postgres"
	redisrepo "github.com/DennisSalmasz/dev-ticketing-rest/internal/repository/redis"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/transport/http/handlers"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/transport/http/middleware"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/transport/http/routes"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/usecase"
)

type Application struct {
	cfg         *config.AppConfig
	engine      *gin.Engine
	logger      *zap.Logger
	pool        *pgxpool.Pool
	redis       *redisinfra.Client
	stopTracing telemetry.ShutdownFunc
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	stopTracing, err := telemetry.Attach(ctx, cfg.Telemetry, log)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	argonCfg := security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	}
	if err := security.ConfigureArgon2(argonCfg); err != nil {
		return nil, fmt.Errorf("configure argon2: %w", err)
	}

	codec, err := security.NewCredentialCodec(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("init credential codec: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(kafkaProducer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	passwordPolicy := security.NewPasswordPolicy()

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: cfg.Redis.RateLimitPrefix,
		TTL:       rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	authService := usecase.NewAuthService(repos.Users, codec)
	confirmationService := usecase.NewConfirmationService(repos.Tokens, repos.Users, eventPublisher)
	userService := usecase.NewUserService(repos.Users, repos.Roles, repos.Projects, repos.Tasks, confirmationService, eventPublisher, passwordPolicy)
	projectService := usecase.NewProjectService(repos.Projects, repos.Tasks, repos.Users, eventPublisher, log)
	taskService := usecase.NewTaskService(repos.Tasks, repos.Projects, repos.Users, eventPublisher)
	roleService := usecase.NewRoleService(repos.Roles)

	var notifier port.Notifier
	if cfg.SMTP.Host != "" && cfg.SMTP.From != "" {
		notifier = notify.NewEmailNotifier(cfg.SMTP, log)
	} else {
		log.Info("smtp not configured, logging confirmation mail instead")
		notifier = notify.NewLogNotifier(log)
	}
	dispatcher := handlers.NewConfirmationDispatcher(notifier, cfg.SMTP.ConfirmationURL, log)

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Database:    pool,
		Cache:       redisClient,
		Services: routes.ServiceSet{
			Auth:          authService,
			Confirmations: confirmationService,
			Users:         userService,
			Roles:         roleService,
			Projects:      projectService,
			Tasks:         taskService,
		},
	})

	return &Application{
		cfg:         cfg,
		engine:      engine,
		logger:      log,
		pool:        pool,
		redis:       redisClient,
		stopTracing: stopTracing,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.stopTracing != nil {
			_ = a.stopTracing(context.Background())
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting ticketing API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
