package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookman/internal/config"
	"bookman/internal/database"
	"bookman/internal/domain"
	"bookman/internal/events"
	"bookman/internal/logging"
	"bookman/internal/metrics"
	"bookman/internal/nonce"
	"bookman/internal/notify"
	"bookman/internal/service"
	"bookman/internal/sheets"
	"bookman/internal/web"
	"bookman/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	nonces := buildNonceStore(cfg, redisClient, &logger)
	bus := events.NewEventBus()

	svc := service.NewBookingService(db, bus, cfg.Server.BaseURL, &logger)

	dispatcher := notify.NewDispatcher(buildNotifiers(cfg, &logger), &logger)
	dispatcher.Attach(bus)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMirror(ctx, cfg, bus, &logger)
	startMetrics(ctx, cfg, &logger)

	services, err := loadServices(cfg, &logger)
	if err != nil {
		return err
	}

	httpServer, err := web.NewServer(cfg, svc, nonces, services, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("create http server")
		return err
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("port", cfg.Server.Port).Str("base_url", cfg.Server.BaseURL).Msg("booking server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("booking server stopped")
	return nil
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "main").Logger()

	return cfg, logger, closer, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := nonce.NewRedisClient(cfg.Redis)
	if err := nonce.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

func buildNonceStore(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) domain.NonceStore {
	ttl := time.Duration(cfg.Nonce.TTLMinutes) * time.Minute
	memory := nonce.NewMemoryStore(ttl)
	if redisClient == nil {
		return memory
	}
	return nonce.NewFailoverStore(nonce.NewRedisStore(redisClient, ttl), memory, logger)
}

func buildNotifiers(cfg *config.Config, logger *zerolog.Logger) []domain.Notifier {
	var notifiers []domain.Notifier

	if cfg.Notify.SMTP.Host != "" && cfg.Notify.AdminEmail != "" {
		notifiers = append(notifiers, notify.NewSMTPMailer(cfg.Notify.SMTP, cfg.Notify.AdminEmail, logger))
	}

	if cfg.Notify.Telegram.BotToken != "" && cfg.Notify.Telegram.ChatID != 0 {
		tg, err := notify.NewTelegramNotifier(cfg.Notify.Telegram.BotToken, cfg.Notify.Telegram.ChatID, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("telegram notifier init failed, continuing without telegram")
		} else {
			notifiers = append(notifiers, tg)
		}
	}

	if len(notifiers) == 0 {
		logger.Warn().Msg("no notification channels configured")
	}
	return notifiers
}

func startMirror(ctx context.Context, cfg *config.Config, bus *events.EventBus, logger *zerolog.Logger) {
	if cfg.Google.CredentialsFile == "" || cfg.Google.SpreadsheetID == "" {
		return
	}

	mirror, err := sheets.NewService(cfg.Google.CredentialsFile, cfg.Google.SpreadsheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without mirror")
		return
	}

	mirrorWorker := worker.NewMirrorWorker(mirror, worker.RetryPolicy{}, logger)
	mirrorWorker.Attach(bus)
	go mirrorWorker.Run(ctx)

	logger.Info().Str("spreadsheet_id", cfg.Google.SpreadsheetID).Msg("google sheets mirror enabled")
}

// loadServices reads the optional services catalog used for the form's
// suggestion list. A missing file is not an error.
func loadServices(cfg *config.Config, logger *zerolog.Logger) ([]string, error) {
	path := cfg.Form.ServicesPath
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Warn().Str("services_path", path).Msg("services catalog not found, skipping")
		return nil, nil
	}
	if err != nil {
		logger.Error().Err(err).Str("services_path", path).Msg("read services catalog")
		return nil, err
	}

	var catalog struct {
		Services []string `yaml:"services"`
	}
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		logger.Error().Err(err).Str("services_path", path).Msg("parse services catalog")
		return nil, err
	}

	return catalog.Services, nil
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
