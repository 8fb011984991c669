package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"hoopstats/fetcher/data"
	"hoopstats/fetcher/repositories"
	"hoopstats/fetcher/server"
	profileservice "hoopstats/fetcher/services/profile"
	"hoopstats/pkg/config"
	"hoopstats/pkg/database"
	pb "hoopstats/pkg/grpc"
	"hoopstats/pkg/logger"
	"hoopstats/pkg/redis"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

const logUploadInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Couldn't initialize the configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Couldn't create the logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	log.Info("Starting fetcher...")

	db, err := database.NewConnection(cfg.Database.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close(db)

	rawDb, err := db.DB()
	if err != nil {
		log.Fatalf("Couldn't get raw db connection: %v", err)
	}

	// The scheduler may be migrating at the same time.
	if err := database.RunMigrations(cfg, rawDb); err != nil {
		if !errors.Is(err, database.ErrMigrationsLocked) {
			log.Fatal(err)
		}
		log.Warn("Migrations are running on another service")
	}

	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer redisClient.Close()

	// Every request to the provider goes through this fetcher, sharing the rate limit.
	fetcher := data.NewStatsFetcher(cfg, log)

	profileService := profileservice.NewProfileService(&profileservice.ProfileServiceDeps{
		Player:            fetcher.Player,
		Team:              fetcher.Team,
		Shots:             fetcher.Shots,
		ProfileRepository: repositories.NewProfileRepository(db),
		CacheRepository:   repositories.NewCacheRepository(redisClient, cfg.Cache.ProfileTTL),
		Logger:            log,
		DefaultSeason:     cfg.Stats.DefaultSeason,
		DefaultSeasonType: cfg.Stats.DefaultSeasonType,
	})

	go uploadLogs(ctx, log)

	grpcServer, healthServer := startGRPCServer(cfg, profileService, log)

	handleShutdown(grpcServer, healthServer, log, stop)
}

// Start the grpc server for the on demand and background profile builds.
func startGRPCServer(cfg *config.Config, profiles server.ProfileBuilder, log *logger.Logger) (*grpc.Server, *health.Server) {
	list, err := net.Listen("tcp", ":"+cfg.Grpc.Port)
	if err != nil {
		log.Fatalf("Couldn't start the tcp server: %v", err)
	}

	grpcServer := grpc.NewServer()
	pb.RegisterProfileServiceServer(grpcServer, server.NewServer(profiles, log))

	// Register the health check.
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(pb.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	go func() {
		log.WithField("port", cfg.Grpc.Port).Info("Running gRPC server.")
		if err := grpcServer.Serve(list); err != nil {
			log.Fatalf("Failed to serve grpc: %v", err)
		}
	}()

	return grpcServer, healthServer
}

// Ship the log file to the bucket from time to time.
func uploadLogs(ctx context.Context, log *logger.Logger) {
	ticker := time.NewTicker(logUploadInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			key := fmt.Sprintf("fetcher/%s.log", now.UTC().Format("2006-01-02T15-04-05"))
			if err := log.UploadToS3Bucket(ctx, key); err != nil {
				log.WithError(err).Warn("Couldn't upload the logs")
			}
		}
	}
}

// Handle the shutdown of the whole server.
func handleShutdown(grpcServer *grpc.Server, healthServer *health.Server, log *logger.Logger, cancel context.CancelFunc) {
	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, os.Interrupt, syscall.SIGTERM)
	<-signalChannel

	log.Info("Shutting down fetcher...")
	healthServer.SetServingStatus(pb.ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		grpcServer.GracefulStop()
	}()

	// Don't wait forever on builds stuck behind the rate limiter.
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		log.Warn("Graceful stop timed out, forcing the stop")
		grpcServer.Stop()
	}

	cancel()

	// Last upload with whatever is left on the file.
	uploadCtx, uploadCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer uploadCancel()
	if err := log.UploadToS3Bucket(uploadCtx, fmt.Sprintf("fetcher/%s-shutdown.log", time.Now().UTC().Format("2006-01-02T15-04-05"))); err != nil {
		log.WithError(err).Warn("Couldn't upload the logs")
	}
}
