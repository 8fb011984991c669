package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"hoopstats/fetcher/data"
	profileservice "hoopstats/fetcher/services/profile"
	"hoopstats/pkg/config"
	"hoopstats/pkg/logger"
	"hoopstats/pkg/profile"
)

// ProfileBuilder builds a profile straight from the provider.
type ProfileBuilder interface {
	BuildPlayerProfile(ctx context.Context, req profileservice.Request, onDemand bool) (*profile.Profile, error)
}

var errMissingPlayer = errors.New("the -player flag is required")

// Fetch a single profile and print it, nothing is stored.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Couldn't initialize the configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Couldn't create the logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher := data.NewStatsFetcher(cfg, log)
	builder := profileservice.NewProfileService(&profileservice.ProfileServiceDeps{
		Player:            fetcher.Player,
		Team:              fetcher.Team,
		Shots:             fetcher.Shots,
		Logger:            log,
		DefaultSeason:     cfg.Stats.DefaultSeason,
		DefaultSeasonType: cfg.Stats.DefaultSeasonType,
	})

	if err := run(ctx, os.Args[1:], os.Stdout, builder); err != nil {
		log.Error(err)
		stop()
		log.Close()
		os.Exit(1)
	}
}

// run parses the flags, builds the profile and prints it.
func run(ctx context.Context, args []string, out io.Writer, builder ProfileBuilder) error {
	fs := flag.NewFlagSet("profiler", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	playerID := fs.Int("player", 0, "player id")
	season := fs.String("season", "", "season label, 2023-24")
	seasonType := fs.String("season-type", "", "Regular Season, Playoffs, PlayIn or Pre Season")
	asJSON := fs.Bool("json", false, "print the profile as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *playerID == 0 {
		return errMissingPlayer
	}

	// The CLI is the only consumer, run at the on demand pace.
	p, err := builder.BuildPlayerProfile(ctx, profileservice.Request{
		PlayerID:   *playerID,
		Season:     *season,
		SeasonType: *seasonType,
	}, true)
	if err != nil {
		return err
	}

	if *asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(p)
	}

	for _, field := range p.Fields() {
		if _, err := fmt.Fprintf(out, "%s: %v\n", field.Key, field.Value); err != nil {
			return err
		}
	}

	return nil
}
