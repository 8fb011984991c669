package profileservice

import (
	"context"
	"errors"
	"testing"
	"time"

	playerfetcher "hoopstats/fetcher/data/player"
	teamfetcher "hoopstats/fetcher/data/team"
	"hoopstats/fetcher/services/testutil"
	"hoopstats/pkg/advanced"
	"hoopstats/pkg/nbavalues/permode"
	"hoopstats/pkg/profile"
	"hoopstats/pkg/shotzones"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	playerID   = 201939
	teamID     = 1610612744
	testSeason = "2023-24"
	regular    = "Regular Season"
)

var fetchedAt = time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC)

type mocks struct {
	player  *testutil.MockPlayerSource
	team    *testutil.MockTeamSource
	shots   *testutil.MockShotSource
	repo    *testutil.MockProfileRepository
	cache   *testutil.MockCacheRepository
	logHook *logtest.Hook
}

// Helper to initialize the mocks.
func setupTestService() (*ProfileService, *mocks) {
	log, hook := logtest.NewNullLogger()
	m := &mocks{
		player:  new(testutil.MockPlayerSource),
		team:    new(testutil.MockTeamSource),
		shots:   new(testutil.MockShotSource),
		repo:    new(testutil.MockProfileRepository),
		cache:   new(testutil.MockCacheRepository),
		logHook: hook,
	}

	service := NewProfileService(&ProfileServiceDeps{
		Player:            m.player,
		Team:              m.team,
		Shots:             m.shots,
		ProfileRepository: m.repo,
		CacheRepository:   m.cache,
		Logger:            log,
		DefaultSeason:     testSeason,
		DefaultSeasonType: regular,
	})
	service.now = func() time.Time { return fetchedAt }

	return service, m
}

func playerTotals() playerfetcher.PlayerStats {
	return playerfetcher.PlayerStats{
		{PlayerID: 2544, TeamID: 1610612747, Name: "LeBron James"},
		{PlayerID: playerID, TeamID: teamID, Name: "Stephen Curry", Totals: advanced.PlayerTotals{
			GamesPlayed: 74, Minutes: 2421, FGM: 650, FGA: 1443, FG3M: 357, FG3Pct: 0.408,
			FTA: 315, FTPct: 0.923, TOV: 210, AST: 470, PTS: 1956,
		}},
	}
}

func playerPer100() playerfetcher.PlayerStats {
	return playerfetcher.PlayerStats{
		{PlayerID: playerID, TeamID: teamID, Totals: advanced.PlayerTotals{FGA: 28.6}},
	}
}

func teamTotals() teamfetcher.TeamStats {
	return teamfetcher.TeamStats{
		{TeamID: teamID, Name: "Golden State Warriors", Totals: advanced.TeamTotals{
			Minutes: 3966, FGM: 3500, FGA: 7400, FTA: 1800, TOV: 1100,
		}},
	}
}

func shotChart() []shotzones.Shot {
	return []shotzones.Shot{
		{Zone: shotzones.RestrictedArea, Made: true},
		{Zone: shotzones.RestrictedArea},
		{Zone: shotzones.AboveTheBreak3, Made: true, ThreePoint: true},
		{Zone: shotzones.AboveTheBreak3, ThreePoint: true},
	}
}

func bio() *profile.Bio {
	return &profile.Bio{PlayerID: playerID, TeamID: teamID, Name: "Stephen Curry", Position: "Guard", Height: "6-2", Weight: "185"}
}

// Every source answers with the fixtures.
func (m *mocks) expectSources(onDemand bool) {
	m.player.On("GetBio", mock.Anything, playerID, onDemand).Return(bio(), true, nil)
	m.player.On("GetLeagueStats", mock.Anything, testSeason, regular, permode.Totals, onDemand).Return(playerTotals(), nil)
	m.player.On("GetLeagueStats", mock.Anything, testSeason, regular, permode.Per100Possessions, onDemand).Return(playerPer100(), nil)
	m.team.On("GetLeagueStats", mock.Anything, testSeason, regular, permode.Totals, onDemand).Return(teamTotals(), nil)
	m.shots.On("GetShotChart", mock.Anything, playerID, teamID, testSeason, regular, onDemand).Return(shotChart(), nil)
}

func TestBuildPlayerProfile(t *testing.T) {
	service, m := setupTestService()
	m.expectSources(true)
	m.repo.On("UpsertProfile", mock.Anything, mock.AnythingOfType("*profile.Profile")).Return(nil)
	m.cache.On("SetProfile", mock.Anything, mock.AnythingOfType("*profile.Profile")).Return(nil)

	p, err := service.BuildPlayerProfile(context.Background(), Request{PlayerID: playerID}, true)
	require.NoError(t, err)

	assert.Equal(t, "Stephen Curry", p.PlayerName)
	assert.Equal(t, teamID, p.TeamID)
	assert.Equal(t, testSeason, p.Season)
	assert.Equal(t, regular, p.SeasonType)
	assert.Equal(t, 74, p.GamesPlayed)
	assert.Equal(t, fetchedAt, p.FetchedAt)

	assert.Equal(t, profile.Volume{UsageRate: 31.59, FGAPer100: 28.6, MinutesPerGame: 32.72}, p.Volume)
	assert.Equal(t, profile.Efficiency{TrueShooting: 0.618, AssistPercentage: 27.02, EffectiveFieldGoal: 0.574, TurnoverPercentage: 11.72}, p.Efficiency)

	assert.Equal(t, shotzones.ZoneStats{Attempts: 2, FGPct: 0.5, EFGPct: 0.5}, p.ShotChart[shotzones.RestrictedArea])
	assert.Equal(t, shotzones.ZoneStats{Attempts: 2, FGPct: 0.5, EFGPct: 0.75}, p.ShotChart[shotzones.AboveTheBreak3])
	assert.Equal(t, shotzones.ZoneStats{Attempts: 315, FGPct: 0.923, EFGPct: 0.923}, p.ShotChart[shotzones.FreeThrowZone])

	testutil.VerifyAllMocks(t, m.player, m.team, m.shots, m.repo, m.cache)
}

func TestBuildPlayerProfileBackground(t *testing.T) {
	service, m := setupTestService()
	m.expectSources(false)
	m.repo.On("UpsertProfile", mock.Anything, mock.Anything).Return(nil)
	m.cache.On("SetProfile", mock.Anything, mock.Anything).Return(nil)

	_, err := service.BuildPlayerProfile(context.Background(), Request{PlayerID: playerID, Season: testSeason, SeasonType: regular}, false)
	require.NoError(t, err)

	testutil.VerifyAllMocks(t, m.player, m.team, m.shots)
}

func TestStoreFailuresAreLogged(t *testing.T) {
	service, m := setupTestService()
	m.expectSources(true)
	m.repo.On("UpsertProfile", mock.Anything, mock.Anything).Return(errors.New("database down"))
	m.cache.On("SetProfile", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	p, err := service.BuildPlayerProfile(context.Background(), Request{PlayerID: playerID}, true)
	require.NoError(t, err)
	assert.NotNil(t, p)

	var levels []logrus.Level
	for _, entry := range m.logHook.AllEntries() {
		levels = append(levels, entry.Level)
	}
	assert.Contains(t, levels, logrus.ErrorLevel)
	assert.Contains(t, levels, logrus.WarnLevel)
}

func TestWithoutRepositories(t *testing.T) {
	player := new(testutil.MockPlayerSource)
	team := new(testutil.MockTeamSource)
	shots := new(testutil.MockShotSource)
	m := &mocks{player: player, team: team, shots: shots}
	m.expectSources(true)

	service := NewProfileService(&ProfileServiceDeps{
		Player:        player,
		Team:          team,
		Shots:         shots,
		DefaultSeason: testSeason,
	})

	p, err := service.BuildPlayerProfile(context.Background(), Request{PlayerID: playerID}, true)
	require.NoError(t, err)
	assert.Equal(t, regular, p.SeasonType)
}

func TestBuildPlayerProfileNotFound(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(m *mocks)
		wantErr error
	}{
		{
			name: "Unknown player",
			setup: func(m *mocks) {
				m.player.On("GetBio", mock.Anything, playerID, true).Return(nil, false, nil)
				m.player.On("GetLeagueStats", mock.Anything, testSeason, regular, mock.Anything, true).Return(playerTotals(), nil)
				m.team.On("GetLeagueStats", mock.Anything, testSeason, regular, permode.Totals, true).Return(teamTotals(), nil)
			},
			wantErr: ErrPlayerNotFound,
		},
		{
			name: "No totals in the season",
			setup: func(m *mocks) {
				m.player.On("GetBio", mock.Anything, playerID, true).Return(bio(), true, nil)
				m.player.On("GetLeagueStats", mock.Anything, testSeason, regular, mock.Anything, true).Return(playerfetcher.PlayerStats{}, nil)
				m.team.On("GetLeagueStats", mock.Anything, testSeason, regular, permode.Totals, true).Return(teamTotals(), nil)
			},
			wantErr: ErrPlayerNotFound,
		},
		{
			name: "Team missing from the dashboard",
			setup: func(m *mocks) {
				m.player.On("GetBio", mock.Anything, playerID, true).Return(bio(), true, nil)
				m.player.On("GetLeagueStats", mock.Anything, testSeason, regular, permode.Totals, true).Return(playerTotals(), nil)
				m.player.On("GetLeagueStats", mock.Anything, testSeason, regular, permode.Per100Possessions, true).Return(playerPer100(), nil)
				m.team.On("GetLeagueStats", mock.Anything, testSeason, regular, permode.Totals, true).Return(teamfetcher.TeamStats{}, nil)
			},
			wantErr: ErrTeamNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := setupTestService()
			tt.setup(m)

			p, err := service.BuildPlayerProfile(context.Background(), Request{PlayerID: playerID}, true)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, tt.wantErr)

			// Nothing is stored for a failed build.
			m.repo.AssertNotCalled(t, "UpsertProfile", mock.Anything, mock.Anything)
			m.shots.AssertNotCalled(t, "GetShotChart", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestBuildPlayerProfileFetchError(t *testing.T) {
	service, m := setupTestService()
	m.player.On("GetBio", mock.Anything, playerID, true).Return(bio(), true, nil)
	m.player.On("GetLeagueStats", mock.Anything, testSeason, regular, mock.Anything, true).Return(nil, errors.New("status code 500"))
	m.team.On("GetLeagueStats", mock.Anything, testSeason, regular, permode.Totals, true).Return(teamTotals(), nil)

	_, err := service.BuildPlayerProfile(context.Background(), Request{PlayerID: playerID}, true)
	assert.ErrorContains(t, err, "couldn't fetch the stats of 201939")
	assert.ErrorContains(t, err, "status code 500")
}

func TestBuildPlayerProfileShotChartError(t *testing.T) {
	service, m := setupTestService()
	m.player.On("GetBio", mock.Anything, playerID, true).Return(bio(), true, nil)
	m.player.On("GetLeagueStats", mock.Anything, testSeason, regular, permode.Totals, true).Return(playerTotals(), nil)
	m.player.On("GetLeagueStats", mock.Anything, testSeason, regular, permode.Per100Possessions, true).Return(playerPer100(), nil)
	m.team.On("GetLeagueStats", mock.Anything, testSeason, regular, permode.Totals, true).Return(teamTotals(), nil)
	m.shots.On("GetShotChart", mock.Anything, playerID, teamID, testSeason, regular, true).Return(nil, errors.New("timeout"))

	_, err := service.BuildPlayerProfile(context.Background(), Request{PlayerID: playerID}, true)
	assert.ErrorContains(t, err, "couldn't fetch the shot chart")
}

func TestNormalize(t *testing.T) {
	service, _ := setupTestService()

	tests := []struct {
		name    string
		req     Request
		want    Request
		wantErr bool
	}{
		{
			name: "Defaults",
			req:  Request{PlayerID: playerID},
			want: Request{PlayerID: playerID, Season: testSeason, SeasonType: regular},
		},
		{
			name: "Explicit playoffs",
			req:  Request{PlayerID: playerID, Season: "2015-16", SeasonType: "Playoffs"},
			want: Request{PlayerID: playerID, Season: "2015-16", SeasonType: "Playoffs"},
		},
		{name: "Missing player", req: Request{}, wantErr: true},
		{name: "Bad testSeason", req: Request{PlayerID: playerID, Season: "2023"}, wantErr: true},
		{name: "Non consecutive testSeason", req: Request{PlayerID: playerID, Season: "2023-26"}, wantErr: true},
		{name: "Bad testSeason type", req: Request{PlayerID: playerID, SeasonType: "All Star"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.Normalize(tt.req)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
