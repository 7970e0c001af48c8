package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/ArnavSingha/ApniSec/internal/config"
	"github.com/ArnavSingha/ApniSec/internal/domain/model"
	"github.com/ArnavSingha/ApniSec/internal/infra/telemetry"
	"github.com/ArnavSingha/ApniSec/internal/jobs/cleanup"
	"github.com/ArnavSingha/ApniSec/internal/repo/memory"
	mongorepo "github.com/ArnavSingha/ApniSec/internal/repo/mongo"
	pgrepo "github.com/ArnavSingha/ApniSec/internal/repo/postgres"
	redrepo "github.com/ArnavSingha/ApniSec/internal/repo/redis"
	authsvc "github.com/ArnavSingha/ApniSec/internal/services/auth"
	emailsvc "github.com/ArnavSingha/ApniSec/internal/services/email"
	issuesvc "github.com/ArnavSingha/ApniSec/internal/services/issues"
	notesvc "github.com/ArnavSingha/ApniSec/internal/services/notes"
	ratesvc "github.com/ArnavSingha/ApniSec/internal/services/rate"
	usersvc "github.com/ArnavSingha/ApniSec/internal/services/users"
	"github.com/ArnavSingha/ApniSec/internal/transport/http/handlers"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	mongo      *mongorepo.Client
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	tracing    telemetry.ShutdownFunc
	cleanup    *cleanup.Job
	stopJobs   context.CancelFunc
	jobsCtx    context.Context
	httpRouter http.Handler
}

type userStore interface {
	authsvc.UserStore
	UpdateProfile(ctx context.Context, userID string, patch model.ProfilePatch, now time.Time) (model.User, error)
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

type stores struct {
	users  userStore
	issues issuesvc.Store
	notes  notesvc.Store
	pinger handlers.Pinger
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	app := &App{cfg: cfg, logger: log}

	tracing, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: cfg.Telemetry.ServiceName,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		Insecure:    cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Warn("telemetry init failed, tracing disabled", zap.Error(err))
	}
	app.tracing = tracing

	st, err := app.openStores(ctx)
	if err != nil {
		_ = app.closeResources(context.Background())
		return nil, err
	}

	tokens, err := authsvc.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL, cfg.Auth.JWTRefreshTTL)
	if err != nil {
		_ = app.closeResources(context.Background())
		return nil, err
	}

	notifier := emailsvc.NewService(emailsvc.NewSender(cfg.Email.ResendAPIKey, cfg.Email.From, log), log)
	authService := authsvc.NewService(st.users, tokens, notifier, authsvc.Config{
		ResetTokenTTL: cfg.Auth.ResetTokenTTL,
		BcryptCost:    cfg.Auth.BcryptCost,
		AppBaseURL:    cfg.Email.AppBaseURL,
	}, log)
	issueService := issuesvc.NewService(st.issues, st.users, notifier)
	noteService := notesvc.NewService(st.notes)
	userService := usersvc.NewService(st.users, notifier)

	proxies, err := ParseTrustedProxies(cfg.HTTP.TrustedProxies)
	if err != nil {
		_ = app.closeResources(context.Background())
		return nil, err
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log, cfg.HTTP.RequestTimeout, proxies)

	RegisterRoutes(r, Dependencies{
		AuthService:  authService,
		IssueService: issueService,
		NoteService:  noteService,
		UserService:  userService,
		Limiter:      app.newLimiter(ctx),
		Store:        st.pinger,
		Cookies: handlers.CookieConfig{
			Secure: cfg.IsProduction(),
			MaxAge: cfg.Auth.JWTAccessTTL,
		},
		StaticDir: cfg.HTTP.StaticDir,
		Logger:    log,
	})

	app.httpRouter = r
	app.server = &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      otelhttp.NewHandler(r, cfg.Telemetry.ServiceName),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}
	app.cleanup = cleanup.New(st.users, cfg.Cleanup.Interval, log)
	app.jobsCtx, app.stopJobs = context.WithCancel(context.Background())

	return app, nil
}

func (a *App) openStores(ctx context.Context) (stores, error) {
	cfg := a.cfg

	switch cfg.Storage.Driver {
	case config.DriverMongo:
		client, err := mongorepo.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.ConnectTimeout)
		if err != nil {
			return stores{}, err
		}
		a.mongo = client
		if err := client.EnsureIndexes(ctx); err != nil {
			a.logger.Warn("mongo index setup failed", zap.Error(err))
		}
		return stores{
			users:  mongorepo.NewUserRepo(client),
			issues: mongorepo.NewIssueRepo(client),
			notes:  mongorepo.NewNoteRepo(client),
			pinger: client,
		}, nil

	case config.DriverPostgres:
		if cfg.Postgres.MigrateOnStart {
			if err := pgrepo.Migrate(cfg.Postgres.DSN, pgrepo.DirectionUp); err != nil {
				return stores{}, err
			}
		}
		pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
		if err != nil {
			return stores{}, err
		}
		a.postgres = pool
		return stores{
			users:  pgrepo.NewUserRepo(pool),
			issues: pgrepo.NewIssueRepo(pool),
			notes:  pgrepo.NewNoteRepo(pool),
			pinger: pgrepo.NewPinger(pool),
		}, nil

	case config.DriverMemory:
		a.logger.Warn("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return stores{users: store, issues: store, notes: store, pinger: store}, nil
	}

	return stores{}, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// newLimiter backs the limiter with redis when configured and reachable, and
// with process memory otherwise.
func (a *App) newLimiter(ctx context.Context) *ratesvc.Limiter {
	cfg := a.cfg.RateLimit

	scopes := make(map[string]ratesvc.Config, len(cfg.Scopes))
	for name, scope := range cfg.Scopes {
		scopes[name] = ratesvc.Config{Limit: scope.Limit, Window: scope.Window}
	}
	defaults := ratesvc.Config{Limit: cfg.Default.Limit, Window: cfg.Default.Window}

	var store ratesvc.WindowStore = ratesvc.NewMemoryStore()
	if cfg.Backend == config.RateBackendRedis {
		client := redrepo.NewClient(a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
		if err := redrepo.Ping(ctx, client); err != nil {
			a.logger.Warn("redis init failed, rate limiting falls back to memory", zap.Error(err))
			_ = client.Close()
		} else {
			a.redis = client
			store = redrepo.NewRateRepo(client)
		}
	}

	return ratesvc.NewLimiter(store, defaults, scopes, a.logger)
}

func (a *App) Run() error {
	go a.cleanup.Start(a.jobsCtx)

	a.logger.Info("api server started",
		zap.String("addr", a.cfg.HTTP.Addr),
		zap.String("storage", a.cfg.Storage.Driver),
	)
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if a.stopJobs != nil {
		a.stopJobs()
	}
	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if err := a.closeResources(ctx); err != nil && shutdownErr == nil {
		shutdownErr = err
	}

	return shutdownErr
}

func (a *App) closeResources(ctx context.Context) error {
	var closeErr error

	if a.mongo != nil {
		if err := a.mongo.Close(ctx); err != nil {
			closeErr = err
		}
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && closeErr == nil {
			closeErr = err
		}
	}
	if a.tracing != nil {
		if err := a.tracing(ctx); err != nil && closeErr == nil {
			closeErr = err
		}
	}

	return closeErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
