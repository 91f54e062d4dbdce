package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"avatarbot/internal/analytics"
	"avatarbot/internal/background"
	"avatarbot/internal/domain"
	"avatarbot/internal/flow"
	"avatarbot/internal/http/httpapi"
	"avatarbot/internal/infra"
	"avatarbot/internal/overlay"
	"avatarbot/internal/providers/genai"
	imggen "avatarbot/internal/providers/image"
	"avatarbot/internal/providers/prompt"
	"avatarbot/internal/render"
	"avatarbot/internal/session"
	"avatarbot/internal/storage"
	"avatarbot/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := domain.NewRegistry(domain.RegistryOptions{
		VacationOverlay: cfg.VacationAsset,
		LocationRule:    domain.LocationRule(cfg.LocationFormat),
	})

	var store session.Store
	switch cfg.SessionBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Msg("redis unreachable")
		}
		store = session.NewRedisStore(client, cfg.SessionTTL)
	default:
		store = session.NewMemoryStore(cfg.SessionTTL)
	}

	face, err := render.LoadFace(cfg.FontPath, cfg.FontSize)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.FontPath).Msg("font unavailable, using fallback face")
		face = render.FallbackFace()
	}

	enhancer := buildEnhancer(cfg, &logger)
	generator, err := buildGenerator(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("image provider setup failed")
	}

	bg := background.New(background.Options{
		Enhancer:        enhancer,
		Generator:       generator,
		Logger:          &logger,
		EnhanceTimeout:  cfg.EnhanceTimeout,
		GenerateTimeout: cfg.GenerateTimeout,
		FetchTimeout:    cfg.FetchTimeout,
		PerMinute:       cfg.GeneratePerMin,
	})

	metrics := infra.NewMetrics()

	var recorder analytics.Recorder = analytics.Noop{}
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		recorder = analytics.NewPGRecorder(pool, &logger)
	}

	var archive flow.Archiver
	if cfg.ArtifactDir != "" {
		fileStore, err := storage.NewFileStore(cfg.ArtifactDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("artifact archive setup failed")
		}
		archive = fileStore
	}

	tb, err := telegram.Connect(cfg.TelegramToken, cfg.PollTimeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram connect failed")
	}

	engine := flow.New(flow.Options{
		Store:     store,
		Locks:     session.NewLocks(),
		Registry:  registry,
		Catalog:   overlay.NewCatalog(cfg.OverlayDir),
		Face:      face,
		Generator: bg,
		Outbound:  telegram.NewSender(tb),
		Metrics:   metrics,
		Recorder:  recorder,
		Archive:   archive,
		Logger:    &logger,
	})

	bot := telegram.New(tb, telegram.Options{
		HandleTimeout: cfg.HandleTimeout,
		Engine:        engine,
		Logger:        &logger,
	})

	ops := infra.NewHTTPServer(cfg, httpapi.NewRouter(httpapi.Options{
		Registry: registry,
		Metrics:  metrics,
		Logger:   logger,
	}))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("port", cfg.OpsPort).Msg("ops server listening")
		if err := ops.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Info().Msg("bot polling started")
		bot.Start(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return ops.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("shutdown with error")
	}
	logger.Info().Msg("bot stopped")
}

func buildEnhancer(cfg *infra.Config, logger *infra.Logger) prompt.Enhancer {
	static := prompt.NewStaticEnhancer()
	switch cfg.PromptProvider {
	case "gemini":
		enh, err := prompt.NewGeminiEnhancer(prompt.GeminiOptions{
			APIKey:   cfg.GeminiAPIKey,
			Model:    cfg.GeminiModel,
			BaseURL:  cfg.GeminiBaseURL,
			Fallback: static,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("gemini enhancer unavailable, using static prompts")
			return static
		}
		return enh
	case "openai":
		enh, err := prompt.NewOpenAIEnhancer(prompt.OpenAIOptions{
			APIKey:       cfg.OpenAIAPIKey,
			Model:        cfg.OpenAIModel,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
			Fallback:     static,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("openai enhancer unavailable, using static prompts")
			return static
		}
		return enh
	default:
		return static
	}
}

func buildGenerator(cfg *infra.Config) (imggen.Generator, error) {
	if cfg.ImageProvider == "gemini" {
		client, err := genai.NewClient(genai.Options{
			APIKey:  cfg.GeminiAPIKey,
			BaseURL: cfg.GeminiBaseURL,
		})
		if err != nil {
			return nil, err
		}
		return imggen.NewGeminiGenerator(client), nil
	}
	return imggen.NewStub(), nil
}
