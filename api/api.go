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

	"hoopstats/api/modules"
	"hoopstats/api/routes"
	"hoopstats/pkg/config"
	"hoopstats/pkg/database"
	"hoopstats/pkg/logger"
	"hoopstats/pkg/redis"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
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

	uploadCtx, stopUploads := context.WithCancel(context.Background())
	defer stopUploads()
	go uploadLogs(uploadCtx, log)

	if cfg.Environment != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewConnection(cfg.Database.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close(db)

	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer redisClient.Close()

	// Connect to the fetcher grpc.
	grpcClient, err := grpc.NewClient(cfg.Grpc.Address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("Error to connect to the gRPC server: %v", err)
	}
	defer grpcClient.Close()

	// Create a module with all necessary handlers.
	module := modules.NewModule(&modules.ModuleDependencies{
		Config:     cfg,
		DB:         db,
		Redis:      redisClient,
		GrpcClient: grpcClient,
		Logger:     log,
	})
	defer module.Close()

	// Create a new router with the routes setup.
	router := routes.NewRouter(module.Router)
	router.SetupRoutes(
		module.ProfileHandler,
		module.MetricsHandler,
		module.HealthHandler,
	)

	server := &http.Server{
		Addr:              ":" + cfg.Api.Port,
		Handler:           router.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Api.Port).Info("Running the API.")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve the API: %v", err)
		}
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, os.Interrupt, syscall.SIGTERM)
	<-signalChannel

	log.Info("Shutting down the API...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("Couldn't shut down the API gracefully")
	}

	stopUploads()
	if err := log.UploadToS3Bucket(ctx, fmt.Sprintf("api/%s-shutdown.log", time.Now().UTC().Format("2006-01-02T15-04-05"))); err != nil {
		log.WithError(err).Warn("Couldn't upload the logs")
	}
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
			key := fmt.Sprintf("api/%s.log", now.UTC().Format("2006-01-02T15-04-05"))
			if err := log.UploadToS3Bucket(ctx, key); err != nil {
				log.WithError(err).Warn("Couldn't upload the logs")
			}
		}
	}
}
