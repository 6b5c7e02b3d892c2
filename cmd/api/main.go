package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/harentsoaR/medicare-api/internal/config"
	"github.com/harentsoaR/medicare-api/internal/database"
	"github.com/harentsoaR/medicare-api/internal/handlers"
	"github.com/harentsoaR/medicare-api/internal/logger"
	"github.com/harentsoaR/medicare-api/internal/repository"
	"github.com/harentsoaR/medicare-api/internal/services"
	"github.com/harentsoaR/medicare-api/internal/utils"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "medicare-api",
		Short: "Hospital management REST API",
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds what every command needs. close releases the store connections.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *mongo.Database
	stores *repository.Stores
	close  func()
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a := &app{cfg: cfg, logger: log, close: func() { _ = log.Sync() }}
	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Warn("using in-memory store; data is lost on restart")
		a.stores = repository.NewMemoryStores()
	default:
		client, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoTimeout)
		if err != nil {
			return nil, err
		}
		log.Info("Successfully connected to MongoDB!", zap.String("database", cfg.MongoDatabase))
		a.db = client.Database(cfg.MongoDatabase)
		a.stores = repository.NewMongoStores(a.db)
		a.close = func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				log.Warn("mongo disconnect", zap.Error(err))
			}
			_ = log.Sync()
		}
		// Email and per-appointment session uniqueness rely on these.
		if err := database.EnsureIndexes(ctx, a.db, log); err != nil {
			a.close()
			return nil, err
		}
	}
	return a, nil
}

// seedAdmin creates the ADMIN_EMAIL account if it does not exist yet.
func (a *app) seedAdmin(ctx context.Context, auth *services.AuthService) error {
	if a.cfg.AdminEmail == "" {
		if a.cfg.StoreDriver == config.StoreMemory {
			a.logger.Warn("no ADMIN_EMAIL configured; admin routes are unreachable with the in-memory store")
		}
		return nil
	}
	user, created, err := auth.EnsureAdmin(ctx, services.RegisterInput{
		FullName: a.cfg.AdminName,
		Email:    a.cfg.AdminEmail,
		Password: a.cfg.AdminPassword,
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		a.logger.Info("admin created", zap.String("userId", user.ID.Hex()), zap.String("email", user.Email))
	}
	return nil
}

func (a *app) buildServices(ctx context.Context) (*services.Services, *utils.JWTManager, func(), error) {
	tokens, err := utils.NewJWTManager(a.cfg.JWTSecret, a.cfg.JWTTTL)
	if err != nil {
		return nil, nil, nil, err
	}

	var counter services.Counter = services.NewMemoryCounter()
	cleanup := func() {}
	if a.cfg.RedisURL != "" {
		rdb, err := database.NewRedisClient(ctx, a.cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		counter = services.NewRedisCounter(rdb, "medicare:")
		cleanup = func() { closeRedis(rdb, a.logger) }
	}

	var sms services.SMSSender = services.NewLogSender(a.logger)
	if a.cfg.TextbeltAPIKey != "" {
		sms = services.NewTextbeltSender(a.cfg.TextbeltURL, a.cfg.TextbeltAPIKey)
	}

	svc := services.New(a.stores, services.Options{
		Tokens:            tokens,
		BcryptCost:        a.cfg.BcryptCost,
		SMS:               sms,
		Counter:           counter,
		TelehealthBaseURL: a.cfg.TelehealthBaseURL,
		DemoPoints:        a.cfg.EngagementDemoPoints,
		TaxRate:           a.cfg.DefaultTaxRate(),
	}, a.logger)
	return svc, tokens, cleanup, nil
}

func closeRedis(rdb *redis.Client, log *zap.Logger) {
	if err := rdb.Close(); err != nil {
		log.Warn("redis close", zap.Error(err))
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			svc, tokens, cleanup, err := a.buildServices(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := a.seedAdmin(ctx, svc.Auth); err != nil {
				return err
			}

			if !a.cfg.IsDev() {
				gin.SetMode(gin.ReleaseMode)
			}
			h := handlers.NewHandler(svc, a.stores, a.logger)
			srv := &http.Server{
				Addr:              ":" + a.cfg.Port,
				Handler:           handlers.NewRouter(h, tokens, a.cfg.CORSOrigins),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("Starting server", zap.String("port", a.cfg.Port))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("graceful shutdown failed", zap.Error(err))
			}
			svc.Notifications.Wait()
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create MongoDB indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()
			if a.db == nil {
				return errors.New("migrate requires STORE_DRIVER=mongo")
			}
			return database.EnsureIndexes(cmd.Context(), a.db, a.logger)
		},
	}
}

func createAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			name, _ := cmd.Flags().GetString("name")

			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()
			if a.db == nil {
				return errors.New("create-admin requires STORE_DRIVER=mongo; set ADMIN_EMAIL and ADMIN_PASSWORD for the in-memory store")
			}
			svc, _, cleanup, err := a.buildServices(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			user, err := svc.Auth.CreateAdmin(cmd.Context(), services.RegisterInput{
				FullName: name,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}
			a.logger.Info("admin created", zap.String("userId", user.ID.Hex()), zap.String("email", user.Email))
			return nil
		},
	}
	cmd.Flags().String("email", "", "Admin email")
	cmd.Flags().String("password", "", "Admin password (min 8 characters)")
	cmd.Flags().String("name", "Administrator", "Admin full name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
