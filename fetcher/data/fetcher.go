package data

import (
	playerfetcher "hoopstats/fetcher/data/player"
	shotfetcher "hoopstats/fetcher/data/shots"
	teamfetcher "hoopstats/fetcher/data/team"
	"hoopstats/fetcher/requests"
	"hoopstats/pkg/config"

	"github.com/sirupsen/logrus"
)

// StatsFetcher groups every endpoint of the stats provider.
type StatsFetcher struct {
	Player *playerfetcher.PlayerFetcher
	Team   *teamfetcher.TeamFetcher
	Shots  *shotfetcher.ShotFetcher
}

// NewStatsFetcher creates the fetchers around a single client and limiter.
// Every request to the provider goes through the same rate limit windows.
func NewStatsFetcher(cfg *config.Config, log logrus.FieldLogger) *StatsFetcher {
	limiter := requests.NewRateLimiter(cfg.Limits)
	client := requests.NewClient(&requests.ClientDeps{Config: cfg, Logger: log})

	return &StatsFetcher{
		Player: playerfetcher.NewPlayerFetcher(client, limiter),
		Team:   teamfetcher.NewTeamFetcher(client, limiter),
		Shots:  shotfetcher.NewShotFetcher(client, limiter),
	}
}
