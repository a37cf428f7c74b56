// Package server arma la aplicación completa a partir de la config:
// store, cache, proveedor de identidad, servicios, controllers y router.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dropDatabas3/kurso/internal/auth/flow"
	"github.com/dropDatabas3/kurso/internal/auth/provider"
	"github.com/dropDatabas3/kurso/internal/auth/session"
	"github.com/dropDatabas3/kurso/internal/cache"
	cachemem "github.com/dropDatabas3/kurso/internal/cache/memory"
	cacheredis "github.com/dropDatabas3/kurso/internal/cache/redis"
	"github.com/dropDatabas3/kurso/internal/config"
	adminctrl "github.com/dropDatabas3/kurso/internal/http/controllers/admin"
	authctrl "github.com/dropDatabas3/kurso/internal/http/controllers/auth"
	catalogctrl "github.com/dropDatabas3/kurso/internal/http/controllers/catalog"
	healthctrl "github.com/dropDatabas3/kurso/internal/http/controllers/health"
	"github.com/dropDatabas3/kurso/internal/http/router"
	catalogsvc "github.com/dropDatabas3/kurso/internal/http/services/catalog"
	playbacksvc "github.com/dropDatabas3/kurso/internal/http/services/playback"
	progresssvc "github.com/dropDatabas3/kurso/internal/http/services/progress"
	"github.com/dropDatabas3/kurso/internal/metrics"
	"github.com/dropDatabas3/kurso/internal/observability/logger"
	"github.com/dropDatabas3/kurso/internal/rate"
	"github.com/dropDatabas3/kurso/internal/store"
	storemem "github.com/dropDatabas3/kurso/internal/store/memory"
	storepg "github.com/dropDatabas3/kurso/internal/store/pg"
	"github.com/dropDatabas3/kurso/internal/video"
	"github.com/jackc/pgx/v5/pgxpool"
	rdb "github.com/redis/go-redis/v9"
)

// App es el servicio armado, listo para Run.
type App struct {
	Handler http.Handler
	Store   store.Store
	Addr    string

	redis *cacheredis.Cache
}

// Build cablea todas las piezas. Falla rápido: cualquier dependencia que no
// levante es error de arranque, no degradación silenciosa.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.Named("wiring")

	// ---- Store ----
	var (
		st     store.Store
		pgPool func() *pgxpool.Pool
	)
	switch strings.ToLower(cfg.Storage.Driver) {
	case "", "memory":
		st = storemem.New()
		log.Warn("using in-memory store; data is lost on restart")
	case "postgres":
		pgStore, err := storepg.New(ctx, cfg.Storage.DSN, storepg.Tuning{
			MaxOpenConns:    cfg.Storage.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Storage.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("wiring: postgres: %w", err)
		}
		st = pgStore
		pgPool = pgStore.Pool
	default:
		return nil, fmt.Errorf("wiring: unknown storage driver %q", cfg.Storage.Driver)
	}

	// ---- Cache ----
	var (
		ch       cache.Cache
		redisCli *cacheredis.Cache
	)
	switch strings.ToLower(cfg.Cache.Kind) {
	case "", "memory":
		ttl, _ := time.ParseDuration(cfg.Cache.Memory.DefaultTTL)
		if ttl <= 0 {
			ttl = 2 * time.Minute
		}
		ch = cachemem.New(ttl)
	case "redis":
		redisCli = cacheredis.New(cfg.Cache.Redis.Addr, cfg.Cache.Redis.DB, cfg.Cache.Redis.Prefix)
		if err := redisCli.Ping(ctx); err != nil {
			return nil, fmt.Errorf("wiring: redis: %w", err)
		}
		ch = redisCli
	default:
		return nil, fmt.Errorf("wiring: unknown cache kind %q", cfg.Cache.Kind)
	}

	// ---- Proveedor de identidad ----
	prov := provider.New(provider.Config{
		Name:         cfg.Provider.Name,
		ClientID:     cfg.Provider.ClientID,
		ClientSecret: cfg.Provider.ClientSecret,
		RedirectURL:  strings.TrimRight(cfg.Server.BaseURL, "/") + "/v1/auth/callback",
		AuthorizeURL: cfg.Provider.AuthorizeURL,
		TokenURL:     cfg.Provider.TokenURL,
		UserInfoURL:  cfg.Provider.UserInfoURL,
		Scopes:       cfg.Provider.Scopes,
		Timeout:      cfg.ProviderTimeout(),
	})

	// ---- Sesiones ----
	codec := session.NewCodec(cfg.Session.SigningKey).WithTTL(cfg.SessionTTL())
	cookies := &session.CookieStore{
		Name:     cfg.Session.CookieName,
		Domain:   cfg.Session.Domain,
		SameSite: cfg.Session.SameSite,
		Secure:   cfg.Session.Secure,
	}

	// ---- Video ----
	minters := video.Registry{}
	if cfg.Video.Cloudflare.SigningKey != "" {
		cf, err := video.NewCloudflare(cfg.Video.Cloudflare.SigningKey, cfg.Video.Cloudflare.SigningKID)
		if err != nil {
			return nil, fmt.Errorf("wiring: cloudflare stream: %w", err)
		}
		minters[store.VideoCloudflare] = cf
	}
	minters[store.VideoVimeo] = video.NewVimeo(cfg.Video.Vimeo.OEmbedURL)

	// ---- Rate limit de login ----
	var limiter rate.Limiter
	if cfg.Rate.Enabled {
		window, _ := time.ParseDuration(cfg.Rate.Login.Window)
		if window <= 0 {
			window = time.Minute
		}
		if redisCli != nil {
			limiter = rate.NewRedisLimiter(
				rdb.NewClient(&rdb.Options{Addr: cfg.Cache.Redis.Addr, DB: cfg.Cache.Redis.DB}),
				"rl:login:", cfg.Rate.Login.Limit, window,
			)
		} else {
			limiter = rate.NewMemoryLimiter(cfg.Rate.Login.Limit, window)
		}
	}

	// ---- Métricas ----
	metricsHandler, err := metrics.Register(metrics.Config{Pool: pgPool})
	if err != nil {
		return nil, fmt.Errorf("wiring: metrics: %w", err)
	}

	// ---- Servicios ----
	loginFlow := flow.New(flow.Deps{
		Provider: prov,
		Sessions: codec,
		Users:    st,
		Cache:    ch,
	})
	catalogService := catalogsvc.New(st)
	playbackService := playbacksvc.New(st, minters)
	progressService := progresssvc.New(st)

	// ---- Controllers ----
	authController := authctrl.New(authctrl.Deps{
		Flow:          loginFlow,
		Provider:      prov,
		Cookies:       cookies,
		Progress:      progressService,
		AfterLoginURL: cfg.Server.BaseURL,
		Secure:        cfg.Session.Secure,
	})
	catalogController := catalogctrl.New(catalogctrl.Deps{
		Catalog:  catalogService,
		Playback: playbackService,
		Progress: progressService,
	})
	adminController := adminctrl.New(st)

	healthDeps := map[string]healthctrl.Pinger{"store": st}
	if redisCli != nil {
		healthDeps["cache"] = redisCli
	}
	healthController := healthctrl.New(healthDeps)

	handler := router.New(router.Deps{
		Auth:           authController,
		Catalog:        catalogController,
		Admin:          adminController,
		Health:         healthController,
		SessionCodec:   codec,
		SessionCookies: cookies,
		LoginLimiter:   limiter,
		AdminKey:       cfg.Server.AdminKey,
		MetricsHandler: metricsHandler,
	})

	return &App{
		Handler: handler,
		Store:   st,
		Addr:    cfg.Server.Addr,
		redis:   redisCli,
	}, nil
}

// Close libera las conexiones del app.
func (a *App) Close() {
	if a.Store != nil {
		a.Store.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
