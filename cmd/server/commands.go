package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/yukikurage/snacks-api/internal/config"
	"github.com/yukikurage/snacks-api/internal/constants"
	"github.com/yukikurage/snacks-api/internal/database"
	"github.com/yukikurage/snacks-api/internal/handlers"
	"github.com/yukikurage/snacks-api/internal/repository"
	"github.com/yukikurage/snacks-api/internal/services"
)

var (
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "snacks",
		Short: "Q&A API with tagging, voting and full-text search",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = config.Load()
			slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: cfg.SlogLevel(),
			})))
		},
		SilenceUsage: true,
		RunE:         runServe,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP server",
		RunE:  runServe,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create tables, unique indexes and search triggers, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.Connect(cfg); err != nil {
				return err
			}
			return database.Migrate()
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		return err
	}
	if err := database.Migrate(); err != nil {
		return err
	}

	sqlDB, err := database.GetDB().DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	searchDB := sqlx.NewDb(sqlDB, "postgres")

	db := database.GetDB()
	articleRepo := repository.NewArticleRepository(db)
	tagRepo := repository.NewTagRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	userRepo := repository.NewUserRepository(db)
	searchRepo := repository.NewSearchRepository(searchDB)

	svc := handlers.Services{
		Articles: services.NewArticleService(articleRepo, tagRepo, voteRepo),
		Comments: services.NewCommentService(commentRepo, articleRepo),
		Tags:     services.NewTagService(tagRepo, articleRepo, voteRepo),
		Votes:    services.NewVoteService(voteRepo, articleRepo),
		Search:   services.NewSearchService(searchRepo),
		Users:    services.NewUserService(userRepo),
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	store, err := newSessionStore(cfg)
	if err != nil {
		return err
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	handlers.RegisterRoutes(r, svc, cfg)

	addr := ":" + cfg.Port
	slog.Info("Server starting", "addr", addr, "session_store", cfg.SessionStore,
		"anonymous_readers", cfg.AllowAnonymousReaders)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store

	switch cfg.SessionStore {
	case "redis":
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // username (empty for default user)
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
		store = rs
	case "cookie", "":
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	default:
		return nil, fmt.Errorf("unknown SESSION_STORE %q", cfg.SessionStore)
	}

	// Configure session options based on environment
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.GinMode == "release",
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}
