package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/ignatzorin/designmatch-backend/internal/ai"
	"github.com/ignatzorin/designmatch-backend/internal/config"
	"github.com/ignatzorin/designmatch-backend/internal/db"
	"github.com/ignatzorin/designmatch-backend/internal/domain/fieldcaps"
	"github.com/ignatzorin/designmatch-backend/internal/domain/repository"
	httpRouter "github.com/ignatzorin/designmatch-backend/internal/http/router"
	"github.com/ignatzorin/designmatch-backend/internal/infrastructure/cache"
	"github.com/ignatzorin/designmatch-backend/internal/infrastructure/events"
	"github.com/ignatzorin/designmatch-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/designmatch-backend/internal/infrastructure/scoring"
	"github.com/ignatzorin/designmatch-backend/internal/interface/http/handler"
	"github.com/ignatzorin/designmatch-backend/internal/logger"
	"github.com/ignatzorin/designmatch-backend/internal/service"
	"github.com/ignatzorin/designmatch-backend/internal/usecase/designer"
	"github.com/ignatzorin/designmatch-backend/internal/usecase/matching"
	"github.com/ignatzorin/designmatch-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, db.Migrations()); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	healthChecks := map[string]handler.HealthCheck{"database": dbConn.PingContext}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("main: %v", err)
		}
		defer redisClient.Close()
		healthChecks["redis"] = cache.HealthCheck(redisClient)
	}

	fields := fieldcaps.Default()
	tokenManager := service.NewTokenManager(cfg.JWTSecret, time.Hour)

	// Репозитории.
	briefRepo := persistence.NewBriefRepositoryAdapter(dbConn)
	designerRepo := persistence.NewDesignerRepositoryAdapter(dbConn)
	matchRepo := persistence.NewMatchRepositoryAdapter(dbConn)

	// Оценка: AI с кэшем, при сбое - правила.
	scorer := scoring.NewProviderWithFallback(
		primaryProvider(cfg, fields, redisClient),
		scoring.NewRuleBasedProvider(cfg.Scoring.Jitter),
		cfg.Scoring.Timeout,
		cfg.Scoring.MinValidScore,
	)
	quick := scoring.NewRuleBasedProvider(0)

	// Уведомления.
	hub := ws.NewHub()
	go hub.Run(ctx)

	notifiers := []repository.MatchNotifier{events.NewHubNotifier(hub)}
	if cfg.NATSURL != "" {
		nc, err := events.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("main: %v", err)
		}
		defer drainNATS(nc)
		notifiers = append(notifiers, events.NewNATSPublisher(nc, cfg.NATSSubjectPrefix))
	}

	findMatchUC := matching.NewFindMatchUseCase(
		briefRepo, designerRepo, matchRepo, scorer, quick,
		events.NewMultiNotifier(notifiers...),
		matching.Config{Concurrency: cfg.Scoring.Concurrency, Alternatives: cfg.Scoring.Alternatives},
	)
	listMatchesUC := matching.NewListMatchesUseCase(briefRepo, matchRepo)
	getDesignerUC := designer.NewGetDesignerUseCase(designerRepo)

	var wsOrigins []string
	if cfg.Env == "production" {
		wsOrigins = cfg.AllowedOrigins
	}
	engine := httpRouter.SetupRouter(cfg, httpRouter.Handlers{
		Match:    handler.NewMatchHandler(findMatchUC, listMatchesUC, fields),
		Designer: handler.NewDesignerHandler(getDesignerUC, fields),
		Health:   handler.NewHealthHandler(healthChecks),
		WS:       handler.NewWSHandler(hub, tokenManager, wsOrigins),
	}, tokenManager)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	logger.Log.WithField("port", cfg.HTTPPort).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// primaryProvider собирает AI оценку. Без ключа API возвращает nil,
// и подбор целиком работает на правилах.
func primaryProvider(cfg *config.Config, fields *fieldcaps.Table, redisClient *redis.Client) repository.ScoringProvider {
	if cfg.AI.APIKey == "" {
		logger.Log.Warn("main: AI_API_KEY не задан, используется только оценка по правилам")
		return nil
	}

	var completer ai.Completer
	switch cfg.AI.Driver {
	case "openai":
		completer = ai.NewOpenAIClient(cfg.AI.BaseURL, cfg.AI.Model, cfg.AI.APIKey, cfg.Scoring.Timeout)
	default:
		completer = ai.NewClient(cfg.AI.BaseURL, cfg.AI.Model, cfg.AI.APIKey, cfg.Scoring.Timeout)
	}

	var provider repository.ScoringProvider = scoring.NewAIProvider(completer, fields, ai.Options{
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
	})
	if redisClient != nil {
		provider = scoring.NewCachedProvider(provider, redisClient, cfg.ScoreCacheTTL)
	}
	return provider
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}

func drainNATS(nc *nats.Conn) {
	if err := nc.Drain(); err != nil {
		log.Printf("main: ошибка закрытия nats: %v", err)
	}
}
