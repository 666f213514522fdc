package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/swooby/swoo.by/internal/config"
	"github.com/swooby/swoo.by/internal/geo"
	"github.com/swooby/swoo.by/internal/httpserver"
	"github.com/swooby/swoo.by/internal/httpserver/deps"
	"github.com/swooby/swoo.by/internal/index"
	"github.com/swooby/swoo.by/internal/logger"
	"github.com/swooby/swoo.by/internal/redis"
	"github.com/swooby/swoo.by/internal/render"
	"github.com/swooby/swoo.by/internal/sources/redirects"
	redisstore "github.com/swooby/swoo.by/internal/store/redis"
	"github.com/swooby/swoo.by/internal/utils"
	"github.com/swooby/swoo.by/internal/version"
)

// ReservedPaths are served by the gateway itself and may not be used as triggers.
var ReservedPaths = []string{"/healthz", "/readyz", "/infra"}

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	mmdb        *geo.MMDB
}

func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	startCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Load the redirect table first: without it there is nothing to serve.
	table, err := loadTable(startCtx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}
	loggerClient.Info("redirect table loaded",
		logger.String("source", cfg.RedirectFile),
		logger.Int("routes", table.Count()),
		logger.Int("destinations", table.Destinations()))

	a := &App{cfg: cfg, logger: loggerClient}

	// Redis is optional and only backs the geo cache, but when configured
	// it must be reachable at startup.
	var geoStore *redisstore.GeoStore
	if cfg.RedisEnabled() {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		a.redisClient, err = redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		loggerClient.Info("Redis initialized successfully")
		geoStore = redisstore.NewGeoStore(a.redisClient, cfg.GeoCacheTTL)
	} else {
		loggerClient.Info("redis not configured, shared geo cache disabled")
	}

	lookup, sources, err := a.buildGeoLookup(geoStore)
	if err != nil {
		a.close()
		return nil, err
	}
	resolver := geo.NewResolver(geo.NewCache(cfg.GeoCacheTTL, time.Now), lookup, cfg.GeoTimeout, loggerClient)

	renderer := render.New(cfg.RedirectMode, cfg.AnalyticsID, loggerClient)

	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         time.Now,
		AllowedHosts:    cfg.AllowedHosts,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		RedirectSource:  cfg.RedirectFile,
		Table:           table,
		Geo:             resolver,
		GeoSources:      sources,
		Renderer:        renderer,
		RedisClient:     a.redisClient,
		GeoStore:        geoStore,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitPerMin: cfg.RateLimitPerMin,
	}

	a.server = httpserver.New(cfg, loggerClient, d)
	return a, nil
}

// loadTable fetches, validates and indexes the redirect table.
func loadTable(ctx context.Context, cfg *config.Config, log logger.Logger) (*index.Table, error) {
	var objects redirects.ObjectGetter
	if redirects.IsS3Location(cfg.RedirectFile) {
		client, err := redirects.NewS3Client(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		objects = client
	}

	src, err := redirects.NewLoader(cfg.RedirectFile, objects).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load redirect table: %w", err)
	}

	return buildTable(src, cfg.StrictRedirects, log)
}

func buildTable(src redirects.Config, strict bool, log logger.Logger) (*index.Table, error) {
	routes, conflicts, err := redirects.NewMapper(ReservedPaths...).MapRoutes(src)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect table: %w", err)
	}

	if len(conflicts) > 0 {
		if strict {
			return nil, fmt.Errorf("redirect table has %d conflicting paths, first: %s", len(conflicts), conflicts[0])
		}
		for _, c := range conflicts {
			log.Warn("duplicate trigger path, last entry wins",
				logger.String("path", c.Path),
				logger.String("previous", c.Previous),
				logger.String("winner", c.Winner))
		}
	}

	return index.NewTable(routes), nil
}

// buildGeoLookup assembles the lookup chain: local database first, then the
// online API, optionally fronted by the shared Redis tier.
func (a *App) buildGeoLookup(shared *redisstore.GeoStore) (geo.LookupFunc, []string, error) {
	var (
		chain   []geo.LookupFunc
		sources []string
	)

	if a.cfg.GeoMMDBPath != "" {
		db, err := geo.OpenMMDB(a.cfg.GeoMMDBPath)
		if err != nil {
			return nil, nil, err
		}
		a.mmdb = db
		chain = append(chain, db.Lookup)
		sources = append(sources, "mmdb")
		a.logger.Info("geo database opened", logger.String("path", db.Path()))
	}

	if a.cfg.GeoAPIURL != "" {
		client := geo.NewIPAPIClient(a.cfg.GeoAPIURL, a.cfg.GeoTimeout)
		chain = append(chain, client.Lookup)
		sources = append(sources, "ip-api")
	}

	if len(chain) == 0 {
		a.logger.Warn("no geo source configured, clients will not be geo-annotated")
	}

	lookup := geo.Chain(chain...)
	if shared != nil {
		lookup = geo.WithSharedCache(shared, lookup, func(op string, err error) {
			a.logger.Warn("shared geo cache failed", logger.String("op", op), logger.Error(err))
		})
		sources = append([]string{"redis"}, sources...)
	}
	return lookup, sources, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting swooby %s on %s (mode=%s)", version.Version, a.cfg.ListenPort, a.cfg.RedirectMode)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.close()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		a.close()
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.close()
	a.logger.Info("✅ swooby stopped cleanly")
	return nil
}

func (a *App) close() {
	if a.mmdb != nil {
		utils.CloseLogged(a.mmdb, a.logger, "mmdb")
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}
	_ = a.logger.Sync()
}
