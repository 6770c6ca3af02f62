// Package app assembles the bot process with fx.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/BatmanBruc/bat-bot-multitool/internal/config"
	"github.com/BatmanBruc/bat-bot-multitool/internal/controller"
	"github.com/BatmanBruc/bat-bot-multitool/internal/handlers"
	"github.com/BatmanBruc/bat-bot-multitool/internal/middleware"
	"github.com/BatmanBruc/bat-bot-multitool/internal/pipeline"
	"github.com/BatmanBruc/bat-bot-multitool/internal/scheduler"
	"github.com/BatmanBruc/bat-bot-multitool/internal/services"
	"github.com/BatmanBruc/bat-bot-multitool/internal/transport"
	"github.com/BatmanBruc/bat-bot-multitool/store"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

const pollTimeout = 50 * time.Second

// New builds the application. Run it with (*fx.App).Run.
func New(cfg *config.Config, log *zap.Logger) *fx.App {
	return fx.New(
		fx.Supply(cfg, log),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		Module(),
	)
}

// Module provides every component of the bot and registers its lifecycle.
func Module() fx.Option {
	return fx.Module("bot",
		fx.Provide(
			provideBot,
			provideTransport,
			provideTempRegistry,
			provideSweeper,
			provideScheduler,
			provideProfiles,
			provideUsers,
			provideController,
			provideMiddlewares,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideBot(cfg *config.Config, log *zap.Logger) (*bot.Bot, error) {
	botLog := log.Named("telegram")
	return bot.New(cfg.BotToken,
		bot.WithHTTPClient(pollTimeout, &http.Client{Timeout: cfg.DownloadTimeout}),
		bot.WithWorkers(cfg.BotWorkers),
		bot.WithErrorsHandler(func(err error) {
			botLog.Error("telegram api", zap.Error(err))
		}),
	)
}

func provideTransport(b *bot.Bot, log *zap.Logger) transport.Transport {
	return transport.NewTelegram(b, log.Named("transport"))
}

func provideTempRegistry(cfg *config.Config, log *zap.Logger) (*pipeline.Registry, error) {
	return pipeline.NewRegistry(cfg.TempDir, log.Named("temp"))
}

func provideSweeper(cfg *config.Config, reg *pipeline.Registry, log *zap.Logger) (*pipeline.Sweeper, error) {
	return pipeline.NewSweeper(reg, cfg.SweepSchedule, cfg.SweepMaxAge, log.Named("sweep"))
}

func provideScheduler(cfg *config.Config, tr transport.Transport, log *zap.Logger) *scheduler.Scheduler {
	return scheduler.New(tr, log.Named("scheduler"), scheduler.Config{
		Workers:    cfg.Workers,
		JobTimeout: cfg.JobTimeout,
	})
}

func provideProfiles(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (types.ProfileStore, error) {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, keeping profiles in memory")
		return store.NewMemoryProfileStore(), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(rdb.Close))
	return store.NewRedisProfileStore(rdb, cfg.ProfileTTL), nil
}

func provideUsers(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (types.UserStore, error) {
	if cfg.PostgresDSN == "" {
		log.Info("POSTGRES_DSN not set, user registry disabled")
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	pg, err := store.NewPostgresStore(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(pg.Close))
	return pg, nil
}

func provideController(
	cfg *config.Config,
	tr transport.Transport,
	sched *scheduler.Scheduler,
	temp *pipeline.Registry,
	profiles types.ProfileStore,
	users types.UserStore,
	log *zap.Logger,
) *controller.Controller {
	ctrl := controller.New(controller.Options{
		Sessions:    store.NewMemorySessionStore(),
		Profiles:    profiles,
		Transport:   tr,
		Runner:      sched,
		Log:         log.Named("controller"),
		Admins:      cfg.AdminIDs,
		SizeLimitMB: cfg.FileSizeLimitMB,
	})
	handlers.Register(ctrl, buildDeps(cfg, temp, profiles, users, log))
	return ctrl
}

func buildDeps(cfg *config.Config, temp *pipeline.Registry, profiles types.ProfileStore, users types.UserStore, log *zap.Logger) handlers.Deps {
	retry := services.RetryPolicy{MaxAttempts: cfg.MaxRetries, Backoff: time.Second}
	api := services.NewHTTPClient(cfg.HTTPTimeout)
	transfers := &http.Client{}

	return handlers.Deps{
		Profiles:   profiles,
		Users:      users,
		Translator: services.NewTranslator(cfg.TranslateAPIKey, cfg.TranslateURL, api, retry),
		Rates:      services.NewExchangeRates(cfg.ExchangeAPIKey, cfg.ExchangeURL, api, retry, cfg.RatesCacheTTL),
		Converter:  services.NewZamzar(cfg.ZamzarAPIKey, cfg.ZamzarURL, services.NewHTTPClient(cfg.DownloadTimeout), retry),
		Resolver: services.NewMediaResolver(services.MediaResolverConfig{
			APIKey:       cfg.MediaAPIKey,
			YouTubeURL:   cfg.YouTubeURL,
			InstagramURL: cfg.InstagramURL,
			TikTokURL:    cfg.TikTokURL,
		}, api, retry, services.NewPageResolver(api)),
		Speech:  services.NewSpeech(cfg.OpenAIAPIKey, cfg.OpenAIURL, services.NewHTTPClient(cfg.DownloadTimeout), retry),
		Fetcher: pipeline.NewFetcher(transfers, retry, cfg.DownloadTimeout, cfg.SizeLimitBytes(), log.Named("fetch")),
		Merger:  pipeline.NewMerger(cfg.FFmpegPath, log.Named("ffmpeg")),
		Temp:    temp,
		Poll: services.PollPolicy{
			Interval:    cfg.PollInterval,
			MaxAttempts: cfg.PollMaxAttempts,
		},
		Log: log.Named("handlers"),
	}
}

func provideMiddlewares(tr transport.Transport, log *zap.Logger) *middleware.Middlewares {
	return middleware.New(tr, log.Named("updates"))
}

func registerLifecycle(
	lc fx.Lifecycle,
	b *bot.Bot,
	mw *middleware.Middlewares,
	ctrl *controller.Controller,
	sched *scheduler.Scheduler,
	sweeper *pipeline.Sweeper,
	log *zap.Logger,
) {
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			sweeper.RunOnce()
			sweeper.Start()
			sched.Start()

			b.RegisterHandlerMatchFunc(func(*models.Update) bool { return true }, middleware.Route(ctrl), mw.Chain()...)
			go func() {
				defer close(stopped)
				log.Info("bot started")
				b.Start(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-stopped:
			case <-stopCtx.Done():
			}
			sched.Stop()
			if err := sweeper.Stop(stopCtx); err != nil {
				log.Warn("sweeper stop", zap.Error(err))
			}
			log.Info("bot stopped")
			return nil
		},
	})
}
