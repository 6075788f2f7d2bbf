package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/combat-tracker/internal/config"
	"github.com/KirkDiggler/combat-tracker/internal/errors"
	ledgerorch "github.com/KirkDiggler/combat-tracker/internal/orchestrators/ledger"
	rosterorch "github.com/KirkDiggler/combat-tracker/internal/orchestrators/roster"
	sessionorch "github.com/KirkDiggler/combat-tracker/internal/orchestrators/session"
	"github.com/KirkDiggler/combat-tracker/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/combat-tracker/internal/redis"
	damagerepo "github.com/KirkDiggler/combat-tracker/internal/repositories/damage"
	monsterrepo "github.com/KirkDiggler/combat-tracker/internal/repositories/monster"
	sessionrepo "github.com/KirkDiggler/combat-tracker/internal/repositories/session"
)

var grpcPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gRPC server",
	Long:  `Start the combat tracker gRPC server with all configured services.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().IntVar(&grpcPort, "port", 0, "gRPC server port (overrides PORT)")
}

// application holds the wired service graph. Domain RPC registration is
// pending an API proto surface; the services are fully wired so handlers
// only need to be attached in registerServices.
type application struct {
	sessions sessionorch.Service
	roster   rosterorch.Service
	ledger   ledgerorch.Service
}

func buildApplication(cfg *config.Config) (*application, error) {
	client, err := redisclient.NewClient(cfg.RedisAddr, &redisclient.Options{
		PoolSize: cfg.RedisPoolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	sessions, err := sessionrepo.NewRedis(&sessionrepo.RedisConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create session repository: %w", err)
	}
	monsters, err := monsterrepo.NewRedis(&monsterrepo.RedisConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create monster repository: %w", err)
	}
	damage, err := damagerepo.NewRedis(&damagerepo.RedisConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create damage repository: %w", err)
	}

	sessionSvc, err := sessionorch.NewOrchestrator(&sessionorch.Config{
		SessionRepo:   sessions,
		MonsterRepo:   monsters,
		DamageRepo:    damage,
		CodeGenerator: idgen.NewNumericCode(nil),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session orchestrator: %w", err)
	}

	rosterSvc, err := rosterorch.NewOrchestrator(&rosterorch.Config{
		SessionRepo: sessions,
		MonsterRepo: monsters,
		IDGenerator: idgen.NewUUID("mon"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create roster orchestrator: %w", err)
	}

	ledgerSvc, err := ledgerorch.NewOrchestrator(&ledgerorch.Config{
		SessionRepo: sessions,
		MonsterRepo: monsters,
		DamageRepo:  damage,
		IDGenerator: idgen.NewUUID("dmg"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger orchestrator: %w", err)
	}

	return &application{
		sessions: sessionSvc,
		roster:   rosterSvc,
		ledger:   ledgerSvc,
	}, nil
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if grpcPort != 0 {
		cfg.Port = grpcPort
	}

	app, err := buildApplication(cfg)
	if err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Received shutdown signal, gracefully stopping...")
		cancel()
	}()

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.UnaryServerInterceptor(),
			errorUnaryInterceptor,
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.StreamServerInterceptor(),
			errorStreamInterceptor,
		),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	registerServices(healthServer, app)

	reflection.Register(srv)

	errChan := make(chan error, 1)
	go func() {
		slog.Info("gRPC server starting", "port", cfg.Port, "redis_addr", cfg.RedisAddr)
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down gRPC server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()

		select {
		case <-shutdownCtx.Done():
			slog.Warn("Graceful shutdown timeout exceeded, forcing stop")
			srv.Stop()
		case <-stopped:
			slog.Info("Server stopped gracefully")
		}

		return nil
	case err := <-errChan:
		return err
	}
}

// registerServices publishes per-service health for the wired service graph.
// Domain RPC handlers attach here once the API proto surface lands.
func registerServices(healthServer *health.Server, app *application) {
	services := map[string]bool{
		"combattracker.v1alpha1.SessionService": app.sessions != nil,
		"combattracker.v1alpha1.RosterService":  app.roster != nil,
		"combattracker.v1alpha1.LedgerService":  app.ledger != nil,
	}
	for name, wired := range services {
		status := grpc_health_v1.HealthCheckResponse_SERVING
		if !wired {
			status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
		healthServer.SetServingStatus(name, status)
	}
}

// errorUnaryInterceptor maps domain errors onto gRPC status codes at the
// transport boundary so handlers return internal/errors values untranslated.
func errorUnaryInterceptor(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	return resp, errors.ToGRPCError(err)
}

func errorStreamInterceptor(srv any, ss grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	return errors.ToGRPCError(handler(srv, ss))
}

func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	slog.Log(ctx, slog.Level(level), msg, fields...)
}
