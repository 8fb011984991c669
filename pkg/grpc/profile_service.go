// Package pb holds the contract between the fetcher and its gRPC clients.
// Messages are carried as structpb.Struct, so the service is declared by hand.
package pb

import (
	"context"
	"errors"
	"fmt"
	"math"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName               = "hoopstats.ProfileService"
	FetchPlayerProfileMethod  = "/" + ServiceName + "/FetchPlayerProfile"
	fetchPlayerProfileHandler = "FetchPlayerProfile"
)

// Request field names.
const (
	FieldPlayerID   = "player_id"
	FieldSeason     = "season"
	FieldSeasonType = "season_type"
	FieldOnDemand   = "on_demand"
)

var ErrMissingPlayerID = errors.New("player_id is required")

// ProfileRequest is the typed view of a FetchPlayerProfile request.
type ProfileRequest struct {
	PlayerID   int
	Season     string
	SeasonType string
	OnDemand   bool
}

// ToStruct converts the request to the wire message.
func (r ProfileRequest) ToStruct() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldPlayerID:   structpb.NewNumberValue(float64(r.PlayerID)),
		FieldSeason:     structpb.NewStringValue(r.Season),
		FieldSeasonType: structpb.NewStringValue(r.SeasonType),
		FieldOnDemand:   structpb.NewBoolValue(r.OnDemand),
	}}
}

// ParseProfileRequest reads the wire message.
// Season and season type may be empty, the server applies its defaults.
func ParseProfileRequest(s *structpb.Struct) (ProfileRequest, error) {
	var req ProfileRequest
	if s == nil {
		return req, ErrMissingPlayerID
	}

	fields := s.GetFields()
	id, ok := fields[FieldPlayerID]
	if !ok {
		return req, ErrMissingPlayerID
	}

	number := id.GetNumberValue()
	if number <= 0 || number != math.Trunc(number) {
		return req, fmt.Errorf("invalid player_id %v", id.AsInterface())
	}

	req.PlayerID = int(number)
	req.Season = fields[FieldSeason].GetStringValue()
	req.SeasonType = fields[FieldSeasonType].GetStringValue()
	req.OnDemand = fields[FieldOnDemand].GetBoolValue()

	return req, nil
}

// ProfileServiceClient is the client API for the profile service.
type ProfileServiceClient interface {
	FetchPlayerProfile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type profileServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewProfileServiceClient(cc grpc.ClientConnInterface) ProfileServiceClient {
	return &profileServiceClient{cc}
}

func (c *profileServiceClient) FetchPlayerProfile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FetchPlayerProfileMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ProfileServiceServer is the server API for the profile service.
type ProfileServiceServer interface {
	FetchPlayerProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedProfileServiceServer can be embedded to satisfy the interface.
type UnimplementedProfileServiceServer struct{}

func (UnimplementedProfileServiceServer) FetchPlayerProfile(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method FetchPlayerProfile not implemented")
}

func RegisterProfileServiceServer(s grpc.ServiceRegistrar, srv ProfileServiceServer) {
	s.RegisterService(&ProfileService_ServiceDesc, srv)
}

func fetchPlayerProfileHandlerFunc(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProfileServiceServer).FetchPlayerProfile(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: FetchPlayerProfileMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ProfileServiceServer).FetchPlayerProfile(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// ProfileService_ServiceDesc is the grpc.ServiceDesc for the profile service.
var ProfileService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProfileServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: fetchPlayerProfileHandler,
			Handler:    fetchPlayerProfileHandlerFunc,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "profile_service",
}
