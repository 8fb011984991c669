package server

import (
	"context"
	"errors"

	profileservice "hoopstats/fetcher/services/profile"
	pb "hoopstats/pkg/grpc"
	"hoopstats/pkg/profile"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProfileBuilder builds the profiles served by the fetcher.
type ProfileBuilder interface {
	BuildPlayerProfile(ctx context.Context, req profileservice.Request, onDemand bool) (*profile.Profile, error)
}

// Server definition.
type Server struct {
	pb.UnimplementedProfileServiceServer
	profiles ProfileBuilder
	logger   logrus.FieldLogger
}

// NewServer creates the profile gRPC server.
func NewServer(profiles ProfileBuilder, log logrus.FieldLogger) *Server {
	return &Server{profiles: profiles, logger: log}
}

// FetchPlayerProfile builds the profile of a player and returns it as a struct.
func (s *Server) FetchPlayerProfile(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := pb.ParseProfileRequest(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	p, err := s.profiles.BuildPlayerProfile(ctx, profileservice.Request{
		PlayerID:   req.PlayerID,
		Season:     req.Season,
		SeasonType: req.SeasonType,
	}, req.OnDemand)
	if err != nil {
		return nil, s.toStatus(req, err)
	}

	out, err := p.ToStruct()
	if err != nil {
		s.logger.WithError(err).WithField("player_id", req.PlayerID).Error("Couldn't convert the profile")
		return nil, status.Error(codes.Internal, "couldn't convert the profile")
	}

	return out, nil
}

// Map the service errors to the gRPC codes.
func (s *Server) toStatus(req pb.ProfileRequest, err error) error {
	switch {
	case errors.Is(err, profileservice.ErrInvalidRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, profileservice.ErrPlayerNotFound), errors.Is(err, profileservice.ErrTeamNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	s.logger.WithError(err).WithFields(logrus.Fields{
		"player_id":   req.PlayerID,
		"season":      req.Season,
		"season_type": req.SeasonType,
	}).Error("Couldn't build the profile")
	return status.Error(codes.Internal, err.Error())
}
