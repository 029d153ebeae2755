package di

import (
	"context"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
	"github.com/reshetovitsme/transfer-pulse/internal/modules/adapter"
	feedService "github.com/reshetovitsme/transfer-pulse/internal/modules/feed/service"
	rssService "github.com/reshetovitsme/transfer-pulse/internal/modules/rssproxy/service"
	socialClient "github.com/reshetovitsme/transfer-pulse/internal/modules/social/client"
	socialService "github.com/reshetovitsme/transfer-pulse/internal/modules/social/service"
	sourceDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/source/domain"
	"github.com/reshetovitsme/transfer-pulse/internal/modules/source/registry"
	sourceService "github.com/reshetovitsme/transfer-pulse/internal/modules/source/service"
	userService "github.com/reshetovitsme/transfer-pulse/internal/modules/user/service"
	"github.com/reshetovitsme/transfer-pulse/internal/shared/config"
	"github.com/reshetovitsme/transfer-pulse/internal/shared/metrics"
	"github.com/reshetovitsme/transfer-pulse/internal/shared/upstream"
	httpServer "github.com/reshetovitsme/transfer-pulse/internal/transport/http"
	telegramHandler "github.com/reshetovitsme/transfer-pulse/internal/transport/telegram"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Names of the upstream HTTP clients, also used as metric labels
const (
	UpstreamRSS2JSON = "rss2json"
	UpstreamXAPI     = "x-api"
	UpstreamFeeds    = "feeds"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register Metrics
	do.Provide(injector, func(i do.Injector) (*metrics.Collector, error) {
		return metrics.New(), nil
	})

	// Register upstream HTTP clients, one per upstream so metrics and logs tell them apart
	for _, name := range []string{UpstreamRSS2JSON, UpstreamXAPI, UpstreamFeeds} {
		do.ProvideNamed(injector, name, func(i do.Injector) (*upstream.Client, error) {
			cfg := do.MustInvoke[*config.Config](i)
			collector := do.MustInvoke[*metrics.Collector](i)
			return upstream.New(upstream.Config{
				Name:     name,
				Retries:  cfg.UpstreamRetries,
				Observer: collector.ObserveUpstream,
			}, &http.Client{Timeout: cfg.FetchDeadline()}), nil
		})
	}

	// Register Source Registry
	do.Provide(injector, func(i do.Injector) (*registry.Registry, error) {
		cfg := do.MustInvoke[*config.Config](i)
		sources := cfg.Sources
		if len(sources) == 0 {
			sources = registry.Defaults()
		}
		reg, err := registry.New(sources)
		if err != nil {
			return nil, oops.With("context", "invalid source registry").Wrap(err)
		}
		return reg, nil
	})

	// Register Source Service
	do.Provide(injector, func(i do.Injector) (*sourceService.Service, error) {
		return sourceService.New(do.MustInvoke[*registry.Registry](i)), nil
	})

	// Register User Service
	do.Provide(injector, func(i do.Injector) (*userService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return userService.New(cfg.AllowedUsers), nil
	})

	// Register RSS conversion service
	do.Provide(injector, func(i do.Injector) (*rssService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client := do.MustInvokeNamed[*upstream.Client](i, UpstreamRSS2JSON)
		return rssService.New(cfg.RSS2JSONURL, client), nil
	})

	// Register Social pipeline
	do.Provide(injector, func(i do.Injector) (*socialService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client := socialClient.New(cfg.XAPIURL, cfg.XBearerToken, do.MustInvokeNamed[*upstream.Client](i, UpstreamXAPI))
		return socialService.New(client, client), nil
	})

	// Register Adapters
	do.Provide(injector, func(i do.Injector) (*adapter.Set, error) {
		cfg := do.MustInvoke[*config.Config](i)

		var rss adapter.Adapter
		switch cfg.RSSMode {
		case config.RSSModeDirect:
			rss = adapter.NewDirectRSS(do.MustInvokeNamed[*upstream.Client](i, UpstreamFeeds))
		default:
			rss = adapter.NewRSS(do.MustInvoke[*rssService.Service](i))
		}

		return adapter.NewSet(map[sourceDomain.SourceType]adapter.Adapter{
			sourceDomain.SourceTypeRss:   rss,
			sourceDomain.SourceTypeXUser: adapter.NewSocial(do.MustInvoke[*socialService.Service](i)),
		}), nil
	})

	// Register Aggregator
	do.Provide(injector, func(i do.Injector) (*feedService.Aggregator, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return feedService.New(
			do.MustInvoke[*sourceService.Service](i),
			do.MustInvoke[*adapter.Set](i),
			feedService.Options{
				Interval: cfg.RefreshEvery(),
				Timeout:  cfg.FetchDeadline(),
				Recorder: do.MustInvoke[*metrics.Collector](i),
			},
		), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		server := httpServer.New(
			cfg,
			do.MustInvoke[*feedService.Aggregator](i),
			do.MustInvoke[*sourceService.Service](i),
			do.MustInvoke[*rssService.Service](i),
			do.MustInvoke[*socialService.Service](i),
			do.MustInvoke[*metrics.Collector](i).Handler(),
		)
		return server, nil
	})

	// Register Telegram Handler
	do.Provide(injector, func(i do.Injector) (*telegramHandler.Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return telegramHandler.New(
			cfg,
			do.MustInvoke[*feedService.Aggregator](i),
			do.MustInvoke[*sourceService.Service](i),
			do.MustInvoke[*userService.Service](i),
		), nil
	})

	// Register Bot, only usable when a token is configured
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.TelegramBotToken == "" {
			return nil, oops.With("context", "telegram bot disabled").Errorf("telegram_bot_token is not set")
		}

		handler := do.MustInvoke[*telegramHandler.Handler](i)
		opts := []bot.Option{
			bot.WithDefaultHandler(handler.HandleUpdate),
			bot.WithServerURL(cfg.TelegramAPIURL),
		}

		b, err := bot.New(cfg.TelegramBotToken, opts...)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
		}

		// Register bot commands
		handler.RegisterCommands(b)
		return b, nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Stop the scheduler before the server
	if aggregator, err := do.Invoke[*feedService.Aggregator](injector); err == nil && aggregator != nil {
		aggregator.Stop()
	}

	if server, err := do.Invoke[*httpServer.Server](injector); err == nil && server != nil {
		if err := server.Shutdown(ctx); err != nil {
			return oops.With("context", "failed to shut down http server").Wrap(err)
		}
	}

	return nil
}
