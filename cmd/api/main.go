package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"pickslate/internal/config"
	"pickslate/internal/db"
	"pickslate/internal/entitlement"
	"pickslate/internal/evaluator"
	apihttp "pickslate/internal/http"
	"pickslate/internal/repository"
	"pickslate/internal/scheduler"
	"pickslate/internal/service"
	"pickslate/internal/sportsfeed"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	location, err := time.LoadLocation(cfg.ReportingTimezone)
	if err != nil {
		logger.Fatal("invalid reporting timezone", zap.String("tz", cfg.ReportingTimezone), zap.Error(err))
	}

	agentRepo := repository.NewPgAgentRepository(pool)
	pickRepo := repository.NewPgPickRepository(pool)
	performanceRepo := repository.NewPgPerformanceRepository(pool)
	archetypeRepo := repository.NewPgArchetypeRepository(pool)

	var checker entitlement.Checker = entitlement.NewStaticChecker(false)
	if cfg.EntitlementBaseURL != "" {
		checker = entitlement.NewHTTPChecker(cfg.EntitlementBaseURL, cfg.EntitlementAPIKey, nil)
	}
	gameEvaluator := evaluator.NewHTTPClient(cfg.EvaluatorBaseURL, cfg.EvaluatorAPIKey, nil)
	feed := sportsfeed.NewHTTPClient(cfg.SportsFeedBaseURL, cfg.SportsFeedAPIKey, nil)

	var leaderboardCache service.LeaderboardCache = service.NewNoopLeaderboardCache()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			ttl := time.Duration(cfg.LeaderboardCacheTTLSeconds) * time.Second
			leaderboardCache = service.NewRedisLeaderboardCache(redisClient, ttl)
		}
		cancel()
	}

	policy := service.GenerationPolicy{
		ConfidenceBase: cfg.ConfidenceBase,
		ConfidenceStep: cfg.ConfidenceStep,
		MinSlateGames:  cfg.MinSlateGames,
		MaxPicksPerRun: cfg.MaxPicksPerRun,
		Location:       location,
	}

	agentSvc := service.NewAgentService(logger, agentRepo, archetypeRepo, checker)
	generationSvc := service.NewGenerationService(logger, agentRepo, pickRepo, feed, gameEvaluator, policy)
	performanceSvc := service.NewPerformanceService(logger, pickRepo, performanceRepo)
	grace := time.Duration(cfg.SettlementGraceHours) * time.Hour
	settlementSvc := service.NewSettlementService(logger, pickRepo, feed, performanceSvc, grace)
	leaderboardSvc := service.NewLeaderboardService(logger, performanceRepo, leaderboardCache)
	jwtSvc := service.NewJWTService(cfg.JWTSecret)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	jobs := scheduler.New(logger, agentRepo, generationSvc, settlementSvc)
	if err := jobs.Start(cfg.SweepCronSpec, cfg.GenerateCronSpec); err != nil {
		logger.Fatal("scheduler start", zap.Error(err))
	}
	defer jobs.Stop()

	agentHandler := apihttp.NewAgentHandler(logger, agentSvc)
	generationHandler := apihttp.NewGenerationHandler(logger, agentSvc, generationSvc, performanceSvc, settlementSvc)
	leaderboardHandler := apihttp.NewLeaderboardHandler(logger, leaderboardSvc)
	router := apihttp.NewRouter(logger, jwtSvc, agentHandler, generationHandler, leaderboardHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
