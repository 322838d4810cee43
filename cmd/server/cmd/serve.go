package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/supriyo522/event-api-backend/config"
	_ "github.com/supriyo522/event-api-backend/docs"
	"github.com/supriyo522/event-api-backend/internal/adapters/auth"
	"github.com/supriyo522/event-api-backend/internal/adapters/blob"
	deliveryhttp "github.com/supriyo522/event-api-backend/internal/delivery/http"
	"github.com/supriyo522/event-api-backend/internal/delivery/http/controllers"
	"github.com/supriyo522/event-api-backend/internal/delivery/http/middleware"
	"github.com/supriyo522/event-api-backend/internal/metrics"
	"github.com/supriyo522/event-api-backend/internal/repository/postgres"
	"github.com/supriyo522/event-api-backend/internal/services"
)

const shutdownTimeout = 10 * time.Second

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server and begin accepting API requests.

The server will:
- Connect to PostgreSQL and apply pending migrations (unless AUTO_MIGRATE=false)
- Serve the REST API, /metrics, /healthz and /swagger/
- Shut down gracefully on SIGINT/SIGTERM

Examples:
  server serve
  server serve --port 9090 --log-level debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (default: $PORT or 3000)")
}

func runServer(ctx context.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Port = servePort
	}

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := postgres.Open(openCtx, cfg.DBUrl, cfg.DBMaxOpenConns, cfg.DBConnMaxLifetime)
	cancel()
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := postgres.MigrateUp(db); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
		if err := m.RegisterDB(db, "events"); err != nil {
			return fmt.Errorf("register db metrics: %w", err)
		}
	}

	blobs, err := blob.NewStore(ctx, storeConfig(cfg))
	if err != nil {
		return fmt.Errorf("blob store: %w", err)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	attendeeRepo := postgres.NewAttendeeRepository(db)

	// Services
	userSvc := services.NewUserService(userRepo, auth.NewBcryptHasher(cfg.BcryptCost), auth.NewJWTIssuer(cfg.JWTSecret), cfg.JWTExpiry)
	guard := services.NewAccessGuard(auth.NewJWTVerifier(cfg.JWTSecret), userRepo)
	eventSvc := services.NewEventService(eventRepo, attendeeRepo, userRepo, services.NewUploadValidator(), blobs, cfg.RequestTimeout)
	attendeeSvc := services.NewAttendeeService(eventRepo, attendeeRepo)

	var uploadsDir string
	if cfg.BlobProvider == blob.ProviderDisk {
		uploadsDir = cfg.UploadsDir
	}

	handler := deliveryhttp.NewRouter(deliveryhttp.RouterConfig{
		Logger:         logger,
		Auth:           controllers.NewAuthController(logger, userSvc, cfg.AllowAdminSignup),
		Users:          controllers.NewUserController(logger),
		Events:         controllers.NewEventController(logger, eventSvc, m, cfg.MaxUploadBytes),
		Attendees:      controllers.NewAttendeeController(logger, attendeeSvc, m),
		Authenticator:  middleware.NewAuthenticator(guard, logger, m),
		Metrics:        m,
		Health:         db,
		UploadsDir:     uploadsDir,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", server.Addr, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return shutdown(server, logger)
	})
	return g.Wait()
}

func shutdown(server *http.Server, logger *slog.Logger) error {
	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func storeConfig(cfg *config.Config) blob.StoreConfig {
	return blob.StoreConfig{
		Provider: cfg.BlobProvider,
		Disk:     blob.DiskConfig{Dir: cfg.UploadsDir, URLPrefix: "/uploads"},
		S3: blob.S3Config{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			Prefix:          cfg.S3.Prefix,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Endpoint:        cfg.S3.Endpoint,
			PublicBaseURL:   cfg.S3.PublicBaseURL,
		},
		GCS: blob.GCSConfig{
			Bucket:          cfg.GCS.Bucket,
			Prefix:          cfg.GCS.Prefix,
			CredentialsFile: cfg.GCS.CredentialsFile,
		},
	}
}
