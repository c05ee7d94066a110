package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/backoffice/internal/cache"
	"github.com/dropDatabas3/backoffice/internal/config"
	"github.com/dropDatabas3/backoffice/internal/email"
	"github.com/dropDatabas3/backoffice/internal/events"
	httpx "github.com/dropDatabas3/backoffice/internal/http"
	ctrl "github.com/dropDatabas3/backoffice/internal/http/controllers/admin"
	svc "github.com/dropDatabas3/backoffice/internal/http/services/admin"
	jwtx "github.com/dropDatabas3/backoffice/internal/jwt"
	"github.com/dropDatabas3/backoffice/internal/observability/logger"
	"github.com/dropDatabas3/backoffice/internal/permsync"
	"github.com/dropDatabas3/backoffice/internal/store/pg"
	migrations "github.com/dropDatabas3/backoffice/migrations/postgres"
)

func main() {
	// .env es opcional; en contenedores la config viene del entorno.
	_ = godotenv.Load()

	var configPath string

	root := &cobra.Command{
		Use:           "backoffice",
		Short:         "Back office de usuarios, roles y menús",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "ruta al YAML de configuración")

	root.AddCommand(serveCmd(&configPath))
	root.AddCommand(migrateCmd(&configPath))
	root.AddCommand(seedCmd(&configPath))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "backoffice",
	})
	return cfg, nil
}

func openStore(ctx context.Context, cfg *config.Config) (*pg.Store, error) {
	if cfg.Storage.DSN == "" {
		return nil, fmt.Errorf("storage.dsn is required (or STORAGE_DSN)")
	}
	return pg.New(ctx, cfg.Storage.DSN, pg.Options{
		MaxConns:        cfg.Storage.Postgres.MaxOpenConns,
		MinConns:        cfg.Storage.Postgres.MinConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime(),
	})
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el admin API y el sincronizador de permisos",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			log := logger.L()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := openStore(ctx, cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			cacheClient, err := cache.New(cache.Config{
				Driver:     cfg.Cache.Kind,
				Addr:       cfg.Cache.Redis.Addr,
				Password:   cfg.Cache.Redis.Password,
				DB:         cfg.Cache.Redis.DB,
				Prefix:     cfg.Cache.Redis.Prefix,
				DefaultTTL: cfg.MemoryTTL(),
			})
			if err != nil {
				return fmt.Errorf("init cache: %w", err)
			}
			defer func() { _ = cacheClient.Close() }()

			issuer, err := jwtx.NewIssuer(cfg.JWT.Issuer, cfg.JWT.Secret, cfg.AccessTTL())
			if err != nil {
				return fmt.Errorf("init jwt issuer: %w", err)
			}

			// Sincronizador: reacciona a los eventos de rol del outbox.
			var notifier email.Notifier = email.Noop{}
			if cfg.SMTP.Enabled {
				notifier = email.NewSMTP(email.SMTPConfig{
					Host: cfg.SMTP.Host,
					Port: cfg.SMTP.Port,
					From: cfg.SMTP.From,
					User: cfg.SMTP.User,
					Pass: cfg.SMTP.Pass,
				})
			}
			permsync.RegisterMetrics(prometheus.DefaultRegisterer)
			synchronizer := permsync.New(store.Users(), store.Users(),
				permsync.WithWorkers(cfg.Sync.Workers),
				permsync.WithNotifier(notifier),
			)
			relay := events.NewRelay(store.Outbox(), synchronizer, cfg.RelayInterval(), cfg.Sync.RelayBatch)
			go relay.Run(ctx)

			services := svc.NewServices(svc.Deps{
				Roles:  store.Roles(),
				Users:  store.Users(),
				Menus:  store.Menus(),
				Cache:  cacheClient,
				Issuer: issuer,
			})

			handler, err := httpx.NewHandler(httpx.Deps{
				Controllers: ctrl.NewControllers(services),
				Issuer:      issuer,
				CORSOrigins: cfg.Server.CORSAllowedOrigins,
				Registry:    prometheus.DefaultRegisterer,
			})
			if err != nil {
				return fmt.Errorf("build handler: %w", err)
			}

			server := httpx.NewServer(cfg.Server.Addr, handler)
			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()
			log.Info("server started", logger.String("addr", cfg.Server.Addr), logger.String("env", cfg.App.Env))

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
}

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones SQL embebidas",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			log := logger.L()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := openStore(ctx, cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			names, err := fs.Glob(migrations.FS, "*.sql")
			if err != nil {
				return err
			}
			sort.Strings(names)

			for _, name := range names {
				sql, err := fs.ReadFile(migrations.FS, name)
				if err != nil {
					return err
				}
				if _, err := store.Pool().Exec(ctx, string(sql)); err != nil {
					return fmt.Errorf("apply %s: %w", name, err)
				}
				log.Info("migration applied", logger.String("file", name))
			}
			return nil
		},
	}
}

func seedCmd(configPath *string) *cobra.Command {
	var (
		adminEmail    string
		adminPassword string
		adminName     string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Crea el usuario administrador inicial con permisos directos",
		RunE: func(cmd *cobra.Command, args []string) error {
			if adminEmail == "" || adminPassword == "" {
				return fmt.Errorf("--email y --password son requeridos")
			}

			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			log := logger.L()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := openStore(ctx, cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			services := svc.NewServices(svc.Deps{
				Roles: store.Roles(),
				Users: store.Users(),
				Menus: store.Menus(),
			})

			user, err := services.Users.Create(ctx, adminEmail, adminName, adminPassword, []uuid.UUID{}, []string{
				"roles:read", "roles:write",
				"users:read", "users:write",
				"menus:read", "menus:write",
			})
			if err != nil {
				return fmt.Errorf("create admin user: %w", err)
			}

			log.Info("admin user seeded", logger.UserID(user.ID.String()), logger.Email(user.Email))
			return nil
		},
	}

	cmd.Flags().StringVar(&adminEmail, "email", "", "email del administrador")
	cmd.Flags().StringVar(&adminPassword, "password", "", "password del administrador")
	cmd.Flags().StringVar(&adminName, "name", "Administrator", "nombre completo")
	return cmd
}
