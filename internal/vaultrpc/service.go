package vaultrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "recoveryvault.v1.JournalService"

// Full method names, as seen by interceptors.
const (
	CreateEntryMethod   = "/" + ServiceName + "/CreateEntry"
	ListEntriesMethod   = "/" + ServiceName + "/ListEntries"
	WatchMethod         = "/" + ServiceName + "/Watch"
	PresignUploadMethod = "/" + ServiceName + "/PresignUpload"
	PresignGetMethod    = "/" + ServiceName + "/PresignGet"
	ClaimTaskMethod     = "/" + ServiceName + "/ClaimTask"
	ListClaimsMethod    = "/" + ServiceName + "/ListClaims"
	UnlockMethod        = "/" + ServiceName + "/Unlock"
	PurgeMethod         = "/" + ServiceName + "/Purge"
	GetProfileMethod    = "/" + ServiceName + "/GetProfile"
	SaveProfileMethod   = "/" + ServiceName + "/SaveProfile"
	PingMethod          = "/" + ServiceName + "/Ping"
)

// JournalServiceServer is implemented by the vault server.
type JournalServiceServer interface {
	CreateEntry(context.Context, *CreateEntryRequest) (*CreateEntryResponse, error)
	ListEntries(context.Context, *ListEntriesRequest) (*ListEntriesResponse, error)
	Watch(*WatchRequest, grpc.ServerStreamingServer[WatchEvent]) error
	PresignUpload(context.Context, *PresignUploadRequest) (*PresignUploadResponse, error)
	PresignGet(context.Context, *PresignGetRequest) (*PresignGetResponse, error)
	ClaimTask(context.Context, *ClaimTaskRequest) (*ClaimTaskResponse, error)
	ListClaims(context.Context, *ListClaimsRequest) (*ListClaimsResponse, error)
	Unlock(context.Context, *UnlockRequest) (*UnlockResponse, error)
	Purge(context.Context, *PurgeRequest) (*PurgeResponse, error)
	GetProfile(context.Context, *GetProfileRequest) (*GetProfileResponse, error)
	SaveProfile(context.Context, *SaveProfileRequest) (*SaveProfileResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
}

// UnimplementedJournalServiceServer answers every call with Unimplemented.
// Embed it to satisfy JournalServiceServer partially.
type UnimplementedJournalServiceServer struct{}

func (UnimplementedJournalServiceServer) CreateEntry(context.Context, *CreateEntryRequest) (*CreateEntryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateEntry not implemented")
}
func (UnimplementedJournalServiceServer) ListEntries(context.Context, *ListEntriesRequest) (*ListEntriesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListEntries not implemented")
}
func (UnimplementedJournalServiceServer) Watch(*WatchRequest, grpc.ServerStreamingServer[WatchEvent]) error {
	return status.Error(codes.Unimplemented, "method Watch not implemented")
}
func (UnimplementedJournalServiceServer) PresignUpload(context.Context, *PresignUploadRequest) (*PresignUploadResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PresignUpload not implemented")
}
func (UnimplementedJournalServiceServer) PresignGet(context.Context, *PresignGetRequest) (*PresignGetResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PresignGet not implemented")
}
func (UnimplementedJournalServiceServer) ClaimTask(context.Context, *ClaimTaskRequest) (*ClaimTaskResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ClaimTask not implemented")
}
func (UnimplementedJournalServiceServer) ListClaims(context.Context, *ListClaimsRequest) (*ListClaimsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListClaims not implemented")
}
func (UnimplementedJournalServiceServer) Unlock(context.Context, *UnlockRequest) (*UnlockResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Unlock not implemented")
}
func (UnimplementedJournalServiceServer) Purge(context.Context, *PurgeRequest) (*PurgeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Purge not implemented")
}
func (UnimplementedJournalServiceServer) GetProfile(context.Context, *GetProfileRequest) (*GetProfileResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProfile not implemented")
}
func (UnimplementedJournalServiceServer) SaveProfile(context.Context, *SaveProfileRequest) (*SaveProfileResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SaveProfile not implemented")
}
func (UnimplementedJournalServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

// unary adapts a typed server method to grpc.MethodHandler.
func unary[Req, Res any](fullMethod string, call func(JournalServiceServer, context.Context, *Req) (*Res, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(JournalServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(JournalServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func watchHandler(srv any, stream grpc.ServerStream) error {
	m := new(WatchRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(JournalServiceServer).Watch(m, &grpc.GenericServerStream[WatchRequest, WatchEvent]{ServerStream: stream})
}

// JournalService_ServiceDesc describes the service for grpc.Server.
var JournalService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*JournalServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateEntry", Handler: unary(CreateEntryMethod, JournalServiceServer.CreateEntry)},
		{MethodName: "ListEntries", Handler: unary(ListEntriesMethod, JournalServiceServer.ListEntries)},
		{MethodName: "PresignUpload", Handler: unary(PresignUploadMethod, JournalServiceServer.PresignUpload)},
		{MethodName: "PresignGet", Handler: unary(PresignGetMethod, JournalServiceServer.PresignGet)},
		{MethodName: "ClaimTask", Handler: unary(ClaimTaskMethod, JournalServiceServer.ClaimTask)},
		{MethodName: "ListClaims", Handler: unary(ListClaimsMethod, JournalServiceServer.ListClaims)},
		{MethodName: "Unlock", Handler: unary(UnlockMethod, JournalServiceServer.Unlock)},
		{MethodName: "Purge", Handler: unary(PurgeMethod, JournalServiceServer.Purge)},
		{MethodName: "GetProfile", Handler: unary(GetProfileMethod, JournalServiceServer.GetProfile)},
		{MethodName: "SaveProfile", Handler: unary(SaveProfileMethod, JournalServiceServer.SaveProfile)},
		{MethodName: "Ping", Handler: unary(PingMethod, JournalServiceServer.Ping)},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Watch", Handler: watchHandler, ServerStreams: true},
	},
	Metadata: "recoveryvault/v1/journal.json",
}

func RegisterJournalServiceServer(s grpc.ServiceRegistrar, srv JournalServiceServer) {
	s.RegisterService(&JournalService_ServiceDesc, srv)
}

// JournalServiceClient is the client API. Every call is sent with the JSON
// content subtype.
type JournalServiceClient interface {
	CreateEntry(ctx context.Context, in *CreateEntryRequest, opts ...grpc.CallOption) (*CreateEntryResponse, error)
	ListEntries(ctx context.Context, in *ListEntriesRequest, opts ...grpc.CallOption) (*ListEntriesResponse, error)
	Watch(ctx context.Context, in *WatchRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[WatchEvent], error)
	PresignUpload(ctx context.Context, in *PresignUploadRequest, opts ...grpc.CallOption) (*PresignUploadResponse, error)
	PresignGet(ctx context.Context, in *PresignGetRequest, opts ...grpc.CallOption) (*PresignGetResponse, error)
	ClaimTask(ctx context.Context, in *ClaimTaskRequest, opts ...grpc.CallOption) (*ClaimTaskResponse, error)
	ListClaims(ctx context.Context, in *ListClaimsRequest, opts ...grpc.CallOption) (*ListClaimsResponse, error)
	Unlock(ctx context.Context, in *UnlockRequest, opts ...grpc.CallOption) (*UnlockResponse, error)
	Purge(ctx context.Context, in *PurgeRequest, opts ...grpc.CallOption) (*PurgeResponse, error)
	GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*GetProfileResponse, error)
	SaveProfile(ctx context.Context, in *SaveProfileRequest, opts ...grpc.CallOption) (*SaveProfileResponse, error)
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
}

type journalServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewJournalServiceClient(cc grpc.ClientConnInterface) JournalServiceClient {
	return &journalServiceClient{cc: cc}
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

func invoke[Res any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Res, error) {
	out := new(Res)
	if err := cc.Invoke(ctx, method, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *journalServiceClient) CreateEntry(ctx context.Context, in *CreateEntryRequest, opts ...grpc.CallOption) (*CreateEntryResponse, error) {
	return invoke[CreateEntryResponse](ctx, c.cc, CreateEntryMethod, in, opts)
}

func (c *journalServiceClient) ListEntries(ctx context.Context, in *ListEntriesRequest, opts ...grpc.CallOption) (*ListEntriesResponse, error) {
	return invoke[ListEntriesResponse](ctx, c.cc, ListEntriesMethod, in, opts)
}

func (c *journalServiceClient) Watch(ctx context.Context, in *WatchRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[WatchEvent], error) {
	stream, err := c.cc.NewStream(ctx, &JournalService_ServiceDesc.Streams[0], WatchMethod, withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[WatchRequest, WatchEvent]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func (c *journalServiceClient) PresignUpload(ctx context.Context, in *PresignUploadRequest, opts ...grpc.CallOption) (*PresignUploadResponse, error) {
	return invoke[PresignUploadResponse](ctx, c.cc, PresignUploadMethod, in, opts)
}

func (c *journalServiceClient) PresignGet(ctx context.Context, in *PresignGetRequest, opts ...grpc.CallOption) (*PresignGetResponse, error) {
	return invoke[PresignGetResponse](ctx, c.cc, PresignGetMethod, in, opts)
}

func (c *journalServiceClient) ClaimTask(ctx context.Context, in *ClaimTaskRequest, opts ...grpc.CallOption) (*ClaimTaskResponse, error) {
	return invoke[ClaimTaskResponse](ctx, c.cc, ClaimTaskMethod, in, opts)
}

func (c *journalServiceClient) ListClaims(ctx context.Context, in *ListClaimsRequest, opts ...grpc.CallOption) (*ListClaimsResponse, error) {
	return invoke[ListClaimsResponse](ctx, c.cc, ListClaimsMethod, in, opts)
}

func (c *journalServiceClient) Unlock(ctx context.Context, in *UnlockRequest, opts ...grpc.CallOption) (*UnlockResponse, error) {
	return invoke[UnlockResponse](ctx, c.cc, UnlockMethod, in, opts)
}

func (c *journalServiceClient) Purge(ctx context.Context, in *PurgeRequest, opts ...grpc.CallOption) (*PurgeResponse, error) {
	return invoke[PurgeResponse](ctx, c.cc, PurgeMethod, in, opts)
}

func (c *journalServiceClient) GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*GetProfileResponse, error) {
	return invoke[GetProfileResponse](ctx, c.cc, GetProfileMethod, in, opts)
}

func (c *journalServiceClient) SaveProfile(ctx context.Context, in *SaveProfileRequest, opts ...grpc.CallOption) (*SaveProfileResponse, error) {
	return invoke[SaveProfileResponse](ctx, c.cc, SaveProfileMethod, in, opts)
}

func (c *journalServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, PingMethod, in, opts)
}
