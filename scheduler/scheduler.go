package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hoopstats/pkg/config"
	"hoopstats/pkg/database"
	pb "hoopstats/pkg/grpc"
	"hoopstats/pkg/logger"
	"hoopstats/scheduler/jobs"

	"github.com/go-co-op/gocron/v2"
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

	db, err := database.NewConnection(cfg.Database.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close(db)

	// Runs the migrations.
	rawDb, err := db.DB()
	if err != nil {
		log.Fatalf("Couldn't get raw db connection: %v", err)
	}

	if err := database.RunMigrations(cfg, rawDb); err != nil {
		if !errors.Is(err, database.ErrMigrationsLocked) {
			log.Fatal(err)
		}
		log.Warn("Migrations are running on another service")
	}

	grpcClient, err := grpc.NewClient(cfg.Grpc.Address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("Error to connect to the gRPC server: %v", err)
	}
	defer grpcClient.Close()

	log.Info("Starting scheduler.")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := jobs.NewTrackedStore(db)
	refresher := jobs.NewRefresher(&jobs.RefresherDeps{
		Store:    store,
		Client:   pb.NewProfileServiceClient(grpcClient),
		Logger:   log,
		Interval: cfg.Scheduler.RefreshInterval,
		// A background build waits the slow interval before each of its requests.
		Timeout: 10*cfg.Limits.SlowInterval + 4*cfg.Stats.Timeout,
	})
	pruner := jobs.NewPruner(store, log, cfg.Scheduler.StaleAfter)

	// Create a new scheduler with options.
	s, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	// Refresh the tracked profiles, a slow run is never overlapped.
	_, err = s.NewJob(
		gocron.DurationJob(cfg.Scheduler.RefreshInterval),
		gocron.NewTask(func() {
			if err := refresher.RefreshTrackedProfiles(ctx); err != nil {
				log.WithError(err).Error("Tracked profiles refresh failed")
			}
		}),
		gocron.WithName("refresh-tracked-profiles"),
		gocron.WithTags("profiles"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		log.Fatalf("Failed to create the refresh job: %v", err)
	}

	// Prune the untracked snapshots - once per day at 4:00 AM.
	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(4, 0, 0),
			),
		),
		gocron.NewTask(func() {
			if err := pruner.PruneProfileSnapshots(ctx); err != nil {
				log.WithError(err).Error("Profile snapshots prune failed")
			}
		}),
		gocron.WithName("prune-profile-snapshots"),
		gocron.WithTags("profiles"),
	)
	if err != nil {
		log.Fatalf("Failed to create the prune job: %v", err)
	}

	// Ship the log file to the bucket.
	_, err = s.NewJob(
		gocron.DurationJob(logUploadInterval),
		gocron.NewTask(func() {
			key := fmt.Sprintf("scheduler/%s.log", time.Now().UTC().Format("2006-01-02T15-04-05"))
			if err := log.UploadToS3Bucket(ctx, key); err != nil {
				log.WithError(err).Warn("Couldn't upload the logs")
			}
		}),
		gocron.WithName("log-upload"),
		gocron.WithTags("logs"),
	)
	if err != nil {
		log.Fatalf("Failed to create the log upload job: %v", err)
	}

	// Start the scheduler.
	s.Start()

	// Setup signal handling for graceful shutdown.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for termination signal.
	<-sigChan
	log.Info("Shutting down scheduler...")

	cancel()
	if err := s.Shutdown(); err != nil {
		log.WithError(err).Error("Error shutting down scheduler")
	}
}
