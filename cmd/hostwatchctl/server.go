package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/hostwatch/pkg/audit"
	"github.com/doodlesbykumbi/hostwatch/pkg/config"
	"github.com/doodlesbykumbi/hostwatch/pkg/fleet"
	"github.com/doodlesbykumbi/hostwatch/pkg/logging"
	"github.com/doodlesbykumbi/hostwatch/pkg/server"
	"github.com/doodlesbykumbi/hostwatch/pkg/server/endpoints"
	"github.com/doodlesbykumbi/hostwatch/pkg/session"
	"github.com/doodlesbykumbi/hostwatch/pkg/telemetry"
)

const shutdownTimeout = 10 * time.Second

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

func loadConfig() (*config.HostwatchConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the hostwatch server",
	Long: `Run the hostwatch server

To run the server requires the environment variables HOSTWATCH_DATA_KEY and
HOSTWATCH_SESSION_KEY, plus DATABASE_URL for the postgres backend.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServer(cmd); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}

func runServer(cmd *cobra.Command) error {
	logger, err := logging.New(logging.FromEnv())
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Fail fast on missing keys before touching storage.
	cipher, err := loadCipher()
	if err != nil {
		return err
	}
	sessionKey, ok := os.LookupEnv("HOSTWATCH_SESSION_KEY")
	if !ok {
		return fmt.Errorf("HOSTWATCH_SESSION_KEY environment variable is required")
	}
	sessions, err := session.NewManagerFromBase64(sessionKey, cfg.SessionDuration())
	if err != nil {
		return fmt.Errorf("bad HOSTWATCH_SESSION_KEY: %w", err)
	}

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate && cfg.StorageBackend == config.BackendPostgres {
		logger.Info("running database migrations")
		if err := runMigrations(); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	shutdownTracing, err := telemetry.SetupTracing(cfg.TraceExporter, os.Stdout)
	if err != nil {
		return err
	}

	st, err := openStores(cfg, cipher, logger)
	if err != nil {
		return err
	}

	svc := fleet.NewService(st.Users, st.Servers,
		fleet.WithLogger(logger.Named("fleet")),
		fleet.WithMetrics(telemetry.NewMetrics(prometheus.DefaultRegisterer)),
	)

	host, _ := cmd.Flags().GetString("bind-address")
	port, _ := cmd.Flags().GetString("port")
	s, err := server.NewServer(svc, sessions, st.Health, cfg, logger.Named("http"), host, port)
	if err != nil {
		_ = st.Close()
		return err
	}
	s.AddCloser(st)
	s.AddCloser(closerFunc(func() error { return shutdownTracing(context.Background()) }))

	if cfg.AuditNATSURL != "" {
		pub, err := audit.NewPublisher(cfg.AuditNATSURL, cfg.AuditNATSSubject, logger.Named("audit"))
		if err != nil {
			_ = s.Shutdown(context.Background())
			return fmt.Errorf("failed to connect audit publisher: %w", err)
		}
		audit.AddSink(pub)
		s.AddCloser(closerFunc(func() error { pub.Close(); return nil }))
	}

	endpoints.RegisterAll(s)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		err := config.Watch(ctx, func(next *config.HostwatchConfig, err error) {
			if err != nil {
				logger.Warn("ignoring invalid configuration", zap.Error(err))
				return
			}
			s.SetConfig(next)
			logger.Info("configuration reloaded", zap.String("path", next.ConfigFilePath()))
		})
		if err != nil {
			logger.Warn("configuration watch disabled", zap.Error(err))
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("running server",
		zap.String("address", fmt.Sprintf("http://%s:%s", host, port)),
		zap.String("storage_backend", cfg.StorageBackend),
	)
	if err := s.Start(); err != nil {
		stop()
		<-done
		return err
	}
	<-done
	return nil
}
