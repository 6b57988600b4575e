package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"

	"github.com/bellavida/clinic-concierge/internal/api/router"
	"github.com/bellavida/clinic-concierge/internal/buffer"
	"github.com/bellavida/clinic-concierge/internal/catalog"
	appconfig "github.com/bellavida/clinic-concierge/internal/config"
	"github.com/bellavida/clinic-concierge/internal/conversation"
	"github.com/bellavida/clinic-concierge/internal/dispatch"
	"github.com/bellavida/clinic-concierge/internal/llm"
	"github.com/bellavida/clinic-concierge/internal/observability/metrics"
	"github.com/bellavida/clinic-concierge/internal/session"
	"github.com/bellavida/clinic-concierge/internal/transport"
	"github.com/bellavida/clinic-concierge/internal/webhook"
	"github.com/bellavida/clinic-concierge/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-concierge API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Appointments feed: best-effort initial load, then periodic refresh.
	feed := catalog.NewFeed(cfg.AppointmentsFeedURL, logger)
	if err := feed.Refresh(ctx); err != nil {
		logger.Warn("initial appointments feed load failed", "error", err)
	}
	go feed.Run(ctx, cfg.AppointmentsFeedRefresh)

	prompt := func() string {
		return catalog.SystemPrompt(time.Now(), feed.Appointments())
	}

	store := newSessionStore(cfg, prompt, logger)

	conversationMetrics := metrics.NewConversationMetrics(prometheus.DefaultRegisterer)

	openaiClient := openai.NewClient(cfg.OpenAIAPIKey)
	classifier := llm.NewOpenAIClassifier(openaiClient, cfg.OpenAIModel, logger)

	hook := webhook.NewClient(cfg.ActionWebhookURL, cfg.ActionWebhookTimeout, logger)
	dispatcher := dispatch.New(hook, nil, conversationMetrics, logger)

	service := conversation.NewService(store, classifier, dispatcher, conversationMetrics, logger)

	sender := transport.NewGraphSender(cfg.WhatsAppPhoneNumberID, cfg.WhatsAppAccessToken, logger)
	pacer := conversation.NewPacer(sender, conversationMetrics, logger)

	debouncer := buffer.New(cfg.BufferQuietPeriod, nil, func(senderID, combined string) {
		reply := service.HandleMessage(ctx, senderID, combined)
		pacer.Deliver(ctx, senderID, reply)
	}, logger)
	defer debouncer.Stop()

	webhookHandler := transport.NewWebhookHandler(cfg.WhatsAppVerifyToken, debouncer, logger)

	r := router.New(&router.Config{
		Logger:         logger,
		WebhookHandler: webhookHandler,
		MetricsHandler: promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// newSessionStore picks the conversation store per SESSION_BACKEND.
func newSessionStore(cfg *appconfig.Config, prompt session.PromptProvider, logger *logging.Logger) session.Store {
	if cfg.SessionBackend == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		logger.Info("using redis session store", "addr", cfg.RedisAddr)
		return session.NewRedisStore(client, prompt, otel.Tracer("bellavida.internal.session"))
	}
	logger.Info("using in-memory session store")
	return session.NewMemoryStore(session.SystemClock(), prompt)
}
