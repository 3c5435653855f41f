package main

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/justestif/go-listenfy/internal/chat"
	"github.com/justestif/go-listenfy/internal/chat/gemini"
	"github.com/justestif/go-listenfy/internal/chat/ollama"
	"github.com/justestif/go-listenfy/internal/config"
	"github.com/justestif/go-listenfy/internal/db"
	"github.com/justestif/go-listenfy/internal/logger"
	"github.com/justestif/go-listenfy/internal/spotify"
	"github.com/justestif/go-listenfy/internal/trends"
	"github.com/justestif/go-listenfy/internal/web"
	webfs "github.com/justestif/go-listenfy/web"
)

// pruneInterval is how often expired sessions are removed.
const pruneInterval = time.Hour

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web app",
		Long: `Serve the dashboard, the JSON API and the Spotify login.

Settings come from the environment (LISTENFY_ prefix optional):
  SPOTIFY_ID, SPOTIFY_SECRET   Spotify app credentials (required)
  ADDR                         listen address (default 127.0.0.1:8080)
  DATABASE_URL                 Postgres URL; sessions and trends stay in memory without it
  GEMINI_API_KEY, OLLAMA_HOST  chat backend; chat is disabled without one`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			app := fx.New(serveOptions(cfg))
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}

func serveOptions(cfg config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(
			newLogger,
			newDatabase,
			newSessions,
			newTrendStore,
			trends.NewService,
			newChatModel,
			chat.NewService,
			newConnector,
			newServer,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Invoke(startServer, startPruning),
	)
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	return logger.New(cfg.LogLevel, cfg.Development)
}

// newDatabase connects and migrates when a database is configured. It
// returns nil otherwise.
func newDatabase(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*db.DB, error) {
	if !cfg.HasDatabase() {
		log.Info("no database configured, keeping sessions and trends in memory")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	lc.Append(fx.StopHook(database.Close))
	return database, nil
}

func newSessions(cfg config.Config, database *db.DB, log *zap.Logger) web.SessionManager {
	if database == nil {
		return web.NewSessionStore(cfg.SecureCookies)
	}
	return web.NewDBSessionStore(database, cfg.SecureCookies, log)
}

func newTrendStore(database *db.DB) trends.Store {
	if database == nil {
		return trends.NewMemoryStore()
	}
	return trends.NewDBStore(database)
}

// newChatModel picks Gemini when an API key is set, then Ollama when a
// host is set. The result is a nil interface when neither is configured.
func newChatModel(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (chat.Model, error) {
	switch {
	case cfg.GeminiAPIKey != "":
		model, err := gemini.New(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.StopHook(model.Close))
		log.Info("chat enabled", zap.String("backend", "gemini"), zap.String("model", cfg.GeminiModel))
		return model, nil
	case cfg.OllamaHost != "":
		log.Info("chat enabled", zap.String("backend", "ollama"), zap.String("host", cfg.OllamaHost))
		return ollama.NewClient(cfg.OllamaHost, cfg.OllamaModel), nil
	default:
		log.Warn("no chat backend configured, chat endpoints will return 503")
		return nil, nil
	}
}

func newConnector(cfg config.Config) web.Connector {
	var opts []spotify.ConnectorOption
	if cfg.SpotifyAPIURL != "" {
		opts = append(opts, spotify.WithAPIURL(cfg.SpotifyAPIURL))
	}
	return web.NewSpotifyConnector(spotify.NewConnector(cfg.SpotifyID, cfg.SpotifySecret, cfg.SpotifyRedirectURI, opts...))
}

type serverParams struct {
	fx.In

	Config    config.Config
	Logger    *zap.Logger
	Connector web.Connector
	Sessions  web.SessionManager
	Trends    *trends.Service
	Chat      *chat.Service
}

func newServer(p serverParams) (*web.Server, error) {
	templates, err := fs.Sub(webfs.TemplatesFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("creating templates filesystem: %w", err)
	}
	static, err := fs.Sub(webfs.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("creating static filesystem: %w", err)
	}

	return web.NewServer(web.ServerConfig{
		Addr:        p.Config.Addr,
		TemplatesFS: templates,
		StaticFS:    static,
	}, web.Dependencies{
		Connector:     p.Connector,
		Sessions:      p.Sessions,
		Trends:        p.Trends,
		Chat:          p.Chat,
		Logger:        p.Logger,
		SecureCookies: p.Config.SecureCookies,
	})
}

func startServer(lc fx.Lifecycle, srv *web.Server) {
	lc.Append(fx.Hook{
		OnStart: srv.Start,
		OnStop:  srv.Shutdown,
	})
}

// startPruning removes expired sessions on a timer while the app runs.
func startPruning(lc fx.Lifecycle, sessions web.SessionManager, log *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(pruneInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						n, err := sessions.Prune(ctx)
						if err != nil {
							log.Warn("pruning sessions", zap.Error(err))
							continue
						}
						if n > 0 {
							log.Info("pruned expired sessions", zap.Int64("count", n))
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			<-done
			return nil
		},
	})
}
