package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iachat/chat-widget/internal/config"
	"github.com/iachat/chat-widget/internal/handler"
	"github.com/iachat/chat-widget/internal/metrics"
	"github.com/iachat/chat-widget/internal/middleware"
	"github.com/iachat/chat-widget/internal/model/offer"
	"github.com/iachat/chat-widget/internal/service/ai"
	"github.com/iachat/chat-widget/internal/service/assistant"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("failed to load .env file, continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if lvl, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", cfg.Log.Level).Msg("unknown LOG_LEVEL, keeping info")
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	offers, err := loadOffers(cfg.Chat.OffersFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.Chat.OffersFile).Msg("failed to load offers")
	}

	// Initialize AI service
	var replier assistant.Replier
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize AI service, 请检查 Ark 模型相关环境变量")
		} else {
			replier = aiService
			log.Info().Str("model", cfg.AI.Model).Msg("AI service initialized successfully")
		}
	} else {
		log.Info().Msg("Ark 凭证未配置，使用目录回复")
	}

	router := handler.NewRouter(handler.Deps{
		Offers:    offers,
		Assistant: assistant.NewService(offers, replier, cfg.Chat.OfferLimit),
		Limiter:   middleware.NewKeyedLimiter(cfg.Chat.RateRPS, cfg.Chat.RateBurst),
		Metrics:   metrics.New(),
		Widget:    cfg.Widget,
		PublicURL: cfg.Server.PublicURL,
	})

	startServer(ctx, cfg.Server, router)
}

func loadOffers(path string) (offer.Store, error) {
	if path == "" {
		log.Info().Msg("OFFERS_FILE not set, serving demo catalog")
		return offer.NewMemoryStore(offer.Seed()), nil
	}
	store, err := offer.LoadFile(path)
	if err != nil {
		return nil, err
	}
	log.Info().Str("file", path).Msg("offers catalog loaded")
	return store, nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("IA chat widget host listening")
	if err := runServer(ctx, srv); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
