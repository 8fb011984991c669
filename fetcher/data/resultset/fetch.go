package resultset

import (
	"context"
	"fmt"
	"net/url"

	"hoopstats/fetcher/requests"
)

// Source is where the tables come from, a client paced by the shared limiter.
type Source struct {
	Client  requests.Getter
	Limiter requests.Waiter
}

// Fetch waits for the limiter, requests the endpoint and returns the validated table.
func (s Source) Fetch(ctx context.Context, endpoint string, set string, query url.Values, columns []string, onDemand bool) (*Table, error) {
	if err := s.Limiter.Wait(ctx, onDemand); err != nil {
		return nil, err
	}

	body, err := s.Client.Get(ctx, endpoint, query)
	if err != nil {
		return nil, fmt.Errorf("couldn't fetch %s: %w", endpoint, err)
	}

	resp, err := Decode(body)
	if err != nil {
		return nil, fmt.Errorf("couldn't decode %s: %w", endpoint, err)
	}

	table, err := resp.Set(set)
	if err != nil {
		return nil, err
	}

	if err := table.Require(columns...); err != nil {
		return nil, err
	}

	return table, nil
}
