package grpcclient

import (
	"context"
	"fmt"
	"time"

	pb "hoopstats/pkg/grpc"
	"hoopstats/pkg/profile"

	"google.golang.org/grpc"
)

const defaultTimeout = 2 * time.Minute

// ProfileGRPCClient is the interface for the profile force fetching on the fetcher.
type ProfileGRPCClient interface {
	FetchPlayerProfile(ctx context.Context, req pb.ProfileRequest) (*profile.Profile, error)
}

type profileGRPCClient struct {
	client  pb.ProfileServiceClient
	timeout time.Duration
}

// NewProfileGRPCClient creates a new profile gRPC client.
// The fetcher may wait on the provider rate limit, so the timeout is generous.
func NewProfileGRPCClient(conn grpc.ClientConnInterface, timeout time.Duration) ProfileGRPCClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &profileGRPCClient{
		client:  pb.NewProfileServiceClient(conn),
		timeout: timeout,
	}
}

// FetchPlayerProfile asks the fetcher to build a profile.
// Status errors are returned untouched, callers read the code.
func (pgc *profileGRPCClient) FetchPlayerProfile(ctx context.Context, req pb.ProfileRequest) (*profile.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, pgc.timeout)
	defer cancel()

	resp, err := pgc.client.FetchPlayerProfile(ctx, req.ToStruct())
	if err != nil {
		return nil, err
	}

	p, err := profile.FromStruct(resp)
	if err != nil {
		return nil, fmt.Errorf("couldn't read the fetcher response: %w", err)
	}

	return p, nil
}
