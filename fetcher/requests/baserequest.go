package requests

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"hoopstats/pkg/config"
	"hoopstats/pkg/messages"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// StatusError is returned when the provider answers with a non 200 status.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf(messages.BadStatusCodeMsg, e.StatusCode, e.URL)
}

// ClientDeps are the dependencies of the stats client.
type ClientDeps struct {
	Config     *config.Config
	Logger     logrus.FieldLogger
	HTTPClient *http.Client
}

// Client does the requests to the stats provider.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	breaker    *gobreaker.CircuitBreaker
	logger     logrus.FieldLogger
}

// NewClient creates the client with its circuit breaker.
func NewClient(deps *ClientDeps) *Client {
	cfg := deps.Config

	httpClient := deps.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Stats.Timeout}
	}

	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "stats-api",
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.Breaker.MinRequests && failureRatio >= cfg.Breaker.FailureRatio
		},
		// Client errors and cancelled calls say nothing about the provider health.
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				return statusErr.StatusCode < 500 && statusErr.StatusCode != http.StatusTooManyRequests
			}
			return false
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"component": "circuit_breaker",
				"service":   name,
				"from":      from.String(),
				"to":        to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.Stats.BaseURL, "/"),
		userAgent:  cfg.Stats.UserAgent,
		breaker:    breaker,
		logger:     log,
	}
}

// Get requests an endpoint of the provider and returns the body.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	fullURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	body, err := c.breaker.Execute(func() (interface{}, error) {
		return c.do(ctx, fullURL)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("stats provider unavailable for %s: %w", endpoint, err)
		}
		return nil, err
	}

	return body.([]byte), nil
}

func (c *Client) do(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("couldn't create the request: %w", err)
	}

	// The provider rejects requests that don't look like they come from its own site.
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("Origin", "https://www.nba.com")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("x-nba-stats-origin", "stats")
	req.Header.Set("x-nba-stats-token", "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf(messages.RequestFailedMsg+": %w", fullURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"url":    fullURL,
			"status": resp.StatusCode,
		}).Warn("Stats request failed")
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: fullURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf(messages.RequestFailedMsg+": %w", fullURL, err)
	}

	return body, nil
}

// Getter is implemented by the stats client.
type Getter interface {
	Get(ctx context.Context, endpoint string, params url.Values) ([]byte, error)
}

// Waiter is implemented by the rate limiter.
type Waiter interface {
	Wait(ctx context.Context, onDemand bool) error
}
