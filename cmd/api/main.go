package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/interview"
	"server/internal/jobs"
	"server/internal/middleware"
	"server/internal/providers/deepseek"
	"server/internal/sms"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	rdb, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	defer rdb.Close()

	countryResolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}

	gateway, err := deepseek.NewClient(deepseek.Options{
		APIKey:  cfg.DeepSeekAPIKey,
		BaseURL: cfg.DeepSeekBaseURL,
		Model:   cfg.DeepSeekModel,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build deepseek client")
	}

	questionRepo := repo.NewQuestionRepository(dbpool)
	taskRepo := repo.NewTaskRepository(dbpool)
	sessionRepo := repo.NewSessionRepository(dbpool)
	configRepo := repo.NewConfigRepository(dbpool)

	generator := interview.NewGenerator(questionRepo, taskRepo, configRepo, gateway, logger)
	sessions := interview.NewSessions(sessionRepo, questionRepo, configRepo, logger)

	codes := sms.NewStore(rdb, cfg.SMSCodeTTL, cfg.SMSCooldown)
	sender := &sms.SimulatedSender{Logger: logger}

	sweeper := jobs.NewSessionSweeper(sessionRepo, logger, cfg.SessionIdleTTL, cfg.SweepSchedule)
	if err := sweeper.Start(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start session sweeper")
	}
	defer sweeper.Stop()

	app := &handlers.App{
		Logger:    logger,
		DB:        dbpool,
		Generator: generator,
		Sessions:  sessions,
		Gateway:   gateway,
		Codes:     codes,
		Sender:    sender,
		JWTSecret: cfg.JWTSecret,
	}

	var lookup middleware.CountryLookup
	if countryResolver != nil {
		lookup = countryResolver.CountryCode
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		AllowedOrigins:  cfg.AllowedOrigins,
		CountryLookup:   lookup,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
