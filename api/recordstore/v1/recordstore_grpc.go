package recordstorev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "recordstore.v1.RecordStore"

const (
	RecordStore_RegisterVehicle_FullMethodName     = "/" + ServiceName + "/RegisterVehicle"
	RecordStore_TransferVehicle_FullMethodName     = "/" + ServiceName + "/TransferVehicle"
	RecordStore_RemoveVehicle_FullMethodName       = "/" + ServiceName + "/RemoveVehicle"
	RecordStore_LookupVehicle_FullMethodName       = "/" + ServiceName + "/LookupVehicle"
	RecordStore_SearchVehicles_FullMethodName      = "/" + ServiceName + "/SearchVehicles"
	RecordStore_ListVehicles_FullMethodName        = "/" + ServiceName + "/ListVehicles"
	RecordStore_GetAccount_FullMethodName          = "/" + ServiceName + "/GetAccount"
	RecordStore_ClaimDaily_FullMethodName          = "/" + ServiceName + "/ClaimDaily"
	RecordStore_ClaimWeekly_FullMethodName         = "/" + ServiceName + "/ClaimWeekly"
	RecordStore_Work_FullMethodName                = "/" + ServiceName + "/Work"
	RecordStore_Deposit_FullMethodName             = "/" + ServiceName + "/Deposit"
	RecordStore_Withdraw_FullMethodName            = "/" + ServiceName + "/Withdraw"
	RecordStore_Pay_FullMethodName                 = "/" + ServiceName + "/Pay"
	RecordStore_Leaderboard_FullMethodName         = "/" + ServiceName + "/Leaderboard"
	RecordStore_AdjustAccount_FullMethodName       = "/" + ServiceName + "/AdjustAccount"
	RecordStore_CreateSession_FullMethodName       = "/" + ServiceName + "/CreateSession"
	RecordStore_UpdateSessionStatus_FullMethodName = "/" + ServiceName + "/UpdateSessionStatus"
	RecordStore_JoinSession_FullMethodName         = "/" + ServiceName + "/JoinSession"
	RecordStore_LeaveSession_FullMethodName        = "/" + ServiceName + "/LeaveSession"
	RecordStore_GetSession_FullMethodName          = "/" + ServiceName + "/GetSession"
	RecordStore_ListSessions_FullMethodName        = "/" + ServiceName + "/ListSessions"
	RecordStore_AddWarning_FullMethodName          = "/" + ServiceName + "/AddWarning"
	RecordStore_ListWarnings_FullMethodName        = "/" + ServiceName + "/ListWarnings"
	RecordStore_GetLastSticky_FullMethodName       = "/" + ServiceName + "/GetLastSticky"
	RecordStore_RecordSticky_FullMethodName        = "/" + ServiceName + "/RecordSticky"
	RecordStore_GetSettings_FullMethodName         = "/" + ServiceName + "/GetSettings"
)

// RecordStoreServer is implemented by the daemon.
type RecordStoreServer interface {
	RegisterVehicle(context.Context, *RegisterVehicleRequest) (*VehicleResponse, error)
	TransferVehicle(context.Context, *TransferVehicleRequest) (*TransferVehicleResponse, error)
	RemoveVehicle(context.Context, *VehicleKey) (*VehicleResponse, error)
	LookupVehicle(context.Context, *VehicleKey) (*VehiclesResponse, error)
	SearchVehicles(context.Context, *SearchVehiclesRequest) (*VehiclesResponse, error)
	ListVehicles(context.Context, *ListVehiclesRequest) (*VehiclesResponse, error)
	GetAccount(context.Context, *UserRequest) (*AccountResponse, error)
	ClaimDaily(context.Context, *UserRequest) (*DailyClaimResponse, error)
	ClaimWeekly(context.Context, *UserRequest) (*WeeklyClaimResponse, error)
	Work(context.Context, *UserRequest) (*WorkResponse, error)
	Deposit(context.Context, *BankMoveRequest) (*AccountResponse, error)
	Withdraw(context.Context, *BankMoveRequest) (*AccountResponse, error)
	Pay(context.Context, *PayRequest) (*PayResponse, error)
	Leaderboard(context.Context, *LeaderboardRequest) (*LeaderboardResponse, error)
	AdjustAccount(context.Context, *AdjustAccountRequest) (*AccountResponse, error)
	CreateSession(context.Context, *CreateSessionRequest) (*SessionResponse, error)
	UpdateSessionStatus(context.Context, *UpdateSessionStatusRequest) (*SessionResponse, error)
	JoinSession(context.Context, *SessionMemberRequest) (*SessionResponse, error)
	LeaveSession(context.Context, *SessionMemberRequest) (*SessionResponse, error)
	GetSession(context.Context, *SessionRequest) (*SessionResponse, error)
	ListSessions(context.Context, *ListSessionsRequest) (*SessionsResponse, error)
	AddWarning(context.Context, *AddWarningRequest) (*AddWarningResponse, error)
	ListWarnings(context.Context, *ListWarningsRequest) (*WarningsResponse, error)
	GetLastSticky(context.Context, *StickyRequest) (*StickyResponse, error)
	RecordSticky(context.Context, *StickyRequest) (*StickyResponse, error)
	GetSettings(context.Context, *Empty) (*SettingsResponse, error)
}

// UnimplementedRecordStoreServer answers Unimplemented for every method.
type UnimplementedRecordStoreServer struct{}

func (UnimplementedRecordStoreServer) RegisterVehicle(context.Context, *RegisterVehicleRequest) (*VehicleResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RegisterVehicle not implemented")
}

func (UnimplementedRecordStoreServer) TransferVehicle(context.Context, *TransferVehicleRequest) (*TransferVehicleResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method TransferVehicle not implemented")
}

func (UnimplementedRecordStoreServer) RemoveVehicle(context.Context, *VehicleKey) (*VehicleResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RemoveVehicle not implemented")
}

func (UnimplementedRecordStoreServer) LookupVehicle(context.Context, *VehicleKey) (*VehiclesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method LookupVehicle not implemented")
}

func (UnimplementedRecordStoreServer) SearchVehicles(context.Context, *SearchVehiclesRequest) (*VehiclesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SearchVehicles not implemented")
}

func (UnimplementedRecordStoreServer) ListVehicles(context.Context, *ListVehiclesRequest) (*VehiclesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListVehicles not implemented")
}

func (UnimplementedRecordStoreServer) GetAccount(context.Context, *UserRequest) (*AccountResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAccount not implemented")
}

func (UnimplementedRecordStoreServer) ClaimDaily(context.Context, *UserRequest) (*DailyClaimResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ClaimDaily not implemented")
}

func (UnimplementedRecordStoreServer) ClaimWeekly(context.Context, *UserRequest) (*WeeklyClaimResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ClaimWeekly not implemented")
}

func (UnimplementedRecordStoreServer) Work(context.Context, *UserRequest) (*WorkResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Work not implemented")
}

func (UnimplementedRecordStoreServer) Deposit(context.Context, *BankMoveRequest) (*AccountResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Deposit not implemented")
}

func (UnimplementedRecordStoreServer) Withdraw(context.Context, *BankMoveRequest) (*AccountResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Withdraw not implemented")
}

func (UnimplementedRecordStoreServer) Pay(context.Context, *PayRequest) (*PayResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Pay not implemented")
}

func (UnimplementedRecordStoreServer) Leaderboard(context.Context, *LeaderboardRequest) (*LeaderboardResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Leaderboard not implemented")
}

func (UnimplementedRecordStoreServer) AdjustAccount(context.Context, *AdjustAccountRequest) (*AccountResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AdjustAccount not implemented")
}

func (UnimplementedRecordStoreServer) CreateSession(context.Context, *CreateSessionRequest) (*SessionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateSession not implemented")
}

func (UnimplementedRecordStoreServer) UpdateSessionStatus(context.Context, *UpdateSessionStatusRequest) (*SessionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateSessionStatus not implemented")
}

func (UnimplementedRecordStoreServer) JoinSession(context.Context, *SessionMemberRequest) (*SessionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method JoinSession not implemented")
}

func (UnimplementedRecordStoreServer) LeaveSession(context.Context, *SessionMemberRequest) (*SessionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method LeaveSession not implemented")
}

func (UnimplementedRecordStoreServer) GetSession(context.Context, *SessionRequest) (*SessionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSession not implemented")
}

func (UnimplementedRecordStoreServer) ListSessions(context.Context, *ListSessionsRequest) (*SessionsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListSessions not implemented")
}

func (UnimplementedRecordStoreServer) AddWarning(context.Context, *AddWarningRequest) (*AddWarningResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AddWarning not implemented")
}

func (UnimplementedRecordStoreServer) ListWarnings(context.Context, *ListWarningsRequest) (*WarningsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListWarnings not implemented")
}

func (UnimplementedRecordStoreServer) GetLastSticky(context.Context, *StickyRequest) (*StickyResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetLastSticky not implemented")
}

func (UnimplementedRecordStoreServer) RecordSticky(context.Context, *StickyRequest) (*StickyResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RecordSticky not implemented")
}

func (UnimplementedRecordStoreServer) GetSettings(context.Context, *Empty) (*SettingsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSettings not implemented")
}

// RegisterRecordStoreServer registers server on registrar.
func RegisterRecordStoreServer(registrar grpc.ServiceRegistrar, server RecordStoreServer) {
	registrar.RegisterService(&RecordStore_ServiceDesc, server)
}

// unaryHandler decodes Req, runs interceptors, and dispatches to call.
func unaryHandler[Req any, Resp any](fullMethod string, call func(RecordStoreServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(server any, ctx context.Context, decode func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		request := new(Req)
		if err := decode(request); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(server.(RecordStoreServer), ctx, request)
		}
		info := &grpc.UnaryServerInfo{Server: server, FullMethod: fullMethod}
		handler := func(ctx context.Context, request any) (any, error) {
			return call(server.(RecordStoreServer), ctx, request.(*Req))
		}
		return interceptor(ctx, request, info, handler)
	}
}

// RecordStore_ServiceDesc describes the RecordStore service for grpc.Server.
var RecordStore_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RecordStoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RegisterVehicle", Handler: unaryHandler(RecordStore_RegisterVehicle_FullMethodName, RecordStoreServer.RegisterVehicle)},
		{MethodName: "TransferVehicle", Handler: unaryHandler(RecordStore_TransferVehicle_FullMethodName, RecordStoreServer.TransferVehicle)},
		{MethodName: "RemoveVehicle", Handler: unaryHandler(RecordStore_RemoveVehicle_FullMethodName, RecordStoreServer.RemoveVehicle)},
		{MethodName: "LookupVehicle", Handler: unaryHandler(RecordStore_LookupVehicle_FullMethodName, RecordStoreServer.LookupVehicle)},
		{MethodName: "SearchVehicles", Handler: unaryHandler(RecordStore_SearchVehicles_FullMethodName, RecordStoreServer.SearchVehicles)},
		{MethodName: "ListVehicles", Handler: unaryHandler(RecordStore_ListVehicles_FullMethodName, RecordStoreServer.ListVehicles)},
		{MethodName: "GetAccount", Handler: unaryHandler(RecordStore_GetAccount_FullMethodName, RecordStoreServer.GetAccount)},
		{MethodName: "ClaimDaily", Handler: unaryHandler(RecordStore_ClaimDaily_FullMethodName, RecordStoreServer.ClaimDaily)},
		{MethodName: "ClaimWeekly", Handler: unaryHandler(RecordStore_ClaimWeekly_FullMethodName, RecordStoreServer.ClaimWeekly)},
		{MethodName: "Work", Handler: unaryHandler(RecordStore_Work_FullMethodName, RecordStoreServer.Work)},
		{MethodName: "Deposit", Handler: unaryHandler(RecordStore_Deposit_FullMethodName, RecordStoreServer.Deposit)},
		{MethodName: "Withdraw", Handler: unaryHandler(RecordStore_Withdraw_FullMethodName, RecordStoreServer.Withdraw)},
		{MethodName: "Pay", Handler: unaryHandler(RecordStore_Pay_FullMethodName, RecordStoreServer.Pay)},
		{MethodName: "Leaderboard", Handler: unaryHandler(RecordStore_Leaderboard_FullMethodName, RecordStoreServer.Leaderboard)},
		{MethodName: "AdjustAccount", Handler: unaryHandler(RecordStore_AdjustAccount_FullMethodName, RecordStoreServer.AdjustAccount)},
		{MethodName: "CreateSession", Handler: unaryHandler(RecordStore_CreateSession_FullMethodName, RecordStoreServer.CreateSession)},
		{MethodName: "UpdateSessionStatus", Handler: unaryHandler(RecordStore_UpdateSessionStatus_FullMethodName, RecordStoreServer.UpdateSessionStatus)},
		{MethodName: "JoinSession", Handler: unaryHandler(RecordStore_JoinSession_FullMethodName, RecordStoreServer.JoinSession)},
		{MethodName: "LeaveSession", Handler: unaryHandler(RecordStore_LeaveSession_FullMethodName, RecordStoreServer.LeaveSession)},
		{MethodName: "GetSession", Handler: unaryHandler(RecordStore_GetSession_FullMethodName, RecordStoreServer.GetSession)},
		{MethodName: "ListSessions", Handler: unaryHandler(RecordStore_ListSessions_FullMethodName, RecordStoreServer.ListSessions)},
		{MethodName: "AddWarning", Handler: unaryHandler(RecordStore_AddWarning_FullMethodName, RecordStoreServer.AddWarning)},
		{MethodName: "ListWarnings", Handler: unaryHandler(RecordStore_ListWarnings_FullMethodName, RecordStoreServer.ListWarnings)},
		{MethodName: "GetLastSticky", Handler: unaryHandler(RecordStore_GetLastSticky_FullMethodName, RecordStoreServer.GetLastSticky)},
		{MethodName: "RecordSticky", Handler: unaryHandler(RecordStore_RecordSticky_FullMethodName, RecordStoreServer.RecordSticky)},
		{MethodName: "GetSettings", Handler: unaryHandler(RecordStore_GetSettings_FullMethodName, RecordStoreServer.GetSettings)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "recordstore/v1/recordstore.json",
}

// RecordStoreClient is the bot-side API.
type RecordStoreClient interface {
	RegisterVehicle(ctx context.Context, in *RegisterVehicleRequest, opts ...grpc.CallOption) (*VehicleResponse, error)
	TransferVehicle(ctx context.Context, in *TransferVehicleRequest, opts ...grpc.CallOption) (*TransferVehicleResponse, error)
	RemoveVehicle(ctx context.Context, in *VehicleKey, opts ...grpc.CallOption) (*VehicleResponse, error)
	LookupVehicle(ctx context.Context, in *VehicleKey, opts ...grpc.CallOption) (*VehiclesResponse, error)
	SearchVehicles(ctx context.Context, in *SearchVehiclesRequest, opts ...grpc.CallOption) (*VehiclesResponse, error)
	ListVehicles(ctx context.Context, in *ListVehiclesRequest, opts ...grpc.CallOption) (*VehiclesResponse, error)
	GetAccount(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*AccountResponse, error)
	ClaimDaily(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*DailyClaimResponse, error)
	ClaimWeekly(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*WeeklyClaimResponse, error)
	Work(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*WorkResponse, error)
	Deposit(ctx context.Context, in *BankMoveRequest, opts ...grpc.CallOption) (*AccountResponse, error)
	Withdraw(ctx context.Context, in *BankMoveRequest, opts ...grpc.CallOption) (*AccountResponse, error)
	Pay(ctx context.Context, in *PayRequest, opts ...grpc.CallOption) (*PayResponse, error)
	Leaderboard(ctx context.Context, in *LeaderboardRequest, opts ...grpc.CallOption) (*LeaderboardResponse, error)
	AdjustAccount(ctx context.Context, in *AdjustAccountRequest, opts ...grpc.CallOption) (*AccountResponse, error)
	CreateSession(ctx context.Context, in *CreateSessionRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	UpdateSessionStatus(ctx context.Context, in *UpdateSessionStatusRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	JoinSession(ctx context.Context, in *SessionMemberRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	LeaveSession(ctx context.Context, in *SessionMemberRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	GetSession(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	ListSessions(ctx context.Context, in *ListSessionsRequest, opts ...grpc.CallOption) (*SessionsResponse, error)
	AddWarning(ctx context.Context, in *AddWarningRequest, opts ...grpc.CallOption) (*AddWarningResponse, error)
	ListWarnings(ctx context.Context, in *ListWarningsRequest, opts ...grpc.CallOption) (*WarningsResponse, error)
	GetLastSticky(ctx context.Context, in *StickyRequest, opts ...grpc.CallOption) (*StickyResponse, error)
	RecordSticky(ctx context.Context, in *StickyRequest, opts ...grpc.CallOption) (*StickyResponse, error)
	GetSettings(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SettingsResponse, error)
}

type recordStoreClient struct {
	connection grpc.ClientConnInterface
}

// NewRecordStoreClient returns a client that always uses the JSON codec.
func NewRecordStoreClient(connection grpc.ClientConnInterface) RecordStoreClient {
	return &recordStoreClient{connection: connection}
}

func invoke[Resp any](ctx context.Context, connection grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	callOptions := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := connection.Invoke(ctx, method, in, out, callOptions...); err != nil {
		return nil, err
	}
	return out, nil
}

func (client *recordStoreClient) RegisterVehicle(ctx context.Context, in *RegisterVehicleRequest, opts ...grpc.CallOption) (*VehicleResponse, error) {
	return invoke[VehicleResponse](ctx, client.connection, RecordStore_RegisterVehicle_FullMethodName, in, opts)
}

func (client *recordStoreClient) TransferVehicle(ctx context.Context, in *TransferVehicleRequest, opts ...grpc.CallOption) (*TransferVehicleResponse, error) {
	return invoke[TransferVehicleResponse](ctx, client.connection, RecordStore_TransferVehicle_FullMethodName, in, opts)
}

func (client *recordStoreClient) RemoveVehicle(ctx context.Context, in *VehicleKey, opts ...grpc.CallOption) (*VehicleResponse, error) {
	return invoke[VehicleResponse](ctx, client.connection, RecordStore_RemoveVehicle_FullMethodName, in, opts)
}

func (client *recordStoreClient) LookupVehicle(ctx context.Context, in *VehicleKey, opts ...grpc.CallOption) (*VehiclesResponse, error) {
	return invoke[VehiclesResponse](ctx, client.connection, RecordStore_LookupVehicle_FullMethodName, in, opts)
}

func (client *recordStoreClient) SearchVehicles(ctx context.Context, in *SearchVehiclesRequest, opts ...grpc.CallOption) (*VehiclesResponse, error) {
	return invoke[VehiclesResponse](ctx, client.connection, RecordStore_SearchVehicles_FullMethodName, in, opts)
}

func (client *recordStoreClient) ListVehicles(ctx context.Context, in *ListVehiclesRequest, opts ...grpc.CallOption) (*VehiclesResponse, error) {
	return invoke[VehiclesResponse](ctx, client.connection, RecordStore_ListVehicles_FullMethodName, in, opts)
}

func (client *recordStoreClient) GetAccount(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*AccountResponse, error) {
	return invoke[AccountResponse](ctx, client.connection, RecordStore_GetAccount_FullMethodName, in, opts)
}

func (client *recordStoreClient) ClaimDaily(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*DailyClaimResponse, error) {
	return invoke[DailyClaimResponse](ctx, client.connection, RecordStore_ClaimDaily_FullMethodName, in, opts)
}

func (client *recordStoreClient) ClaimWeekly(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*WeeklyClaimResponse, error) {
	return invoke[WeeklyClaimResponse](ctx, client.connection, RecordStore_ClaimWeekly_FullMethodName, in, opts)
}

func (client *recordStoreClient) Work(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*WorkResponse, error) {
	return invoke[WorkResponse](ctx, client.connection, RecordStore_Work_FullMethodName, in, opts)
}

func (client *recordStoreClient) Deposit(ctx context.Context, in *BankMoveRequest, opts ...grpc.CallOption) (*AccountResponse, error) {
	return invoke[AccountResponse](ctx, client.connection, RecordStore_Deposit_FullMethodName, in, opts)
}

func (client *recordStoreClient) Withdraw(ctx context.Context, in *BankMoveRequest, opts ...grpc.CallOption) (*AccountResponse, error) {
	return invoke[AccountResponse](ctx, client.connection, RecordStore_Withdraw_FullMethodName, in, opts)
}

func (client *recordStoreClient) Pay(ctx context.Context, in *PayRequest, opts ...grpc.CallOption) (*PayResponse, error) {
	return invoke[PayResponse](ctx, client.connection, RecordStore_Pay_FullMethodName, in, opts)
}

func (client *recordStoreClient) Leaderboard(ctx context.Context, in *LeaderboardRequest, opts ...grpc.CallOption) (*LeaderboardResponse, error) {
	return invoke[LeaderboardResponse](ctx, client.connection, RecordStore_Leaderboard_FullMethodName, in, opts)
}

func (client *recordStoreClient) AdjustAccount(ctx context.Context, in *AdjustAccountRequest, opts ...grpc.CallOption) (*AccountResponse, error) {
	return invoke[AccountResponse](ctx, client.connection, RecordStore_AdjustAccount_FullMethodName, in, opts)
}

func (client *recordStoreClient) CreateSession(ctx context.Context, in *CreateSessionRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, client.connection, RecordStore_CreateSession_FullMethodName, in, opts)
}

func (client *recordStoreClient) UpdateSessionStatus(ctx context.Context, in *UpdateSessionStatusRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, client.connection, RecordStore_UpdateSessionStatus_FullMethodName, in, opts)
}

func (client *recordStoreClient) JoinSession(ctx context.Context, in *SessionMemberRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, client.connection, RecordStore_JoinSession_FullMethodName, in, opts)
}

func (client *recordStoreClient) LeaveSession(ctx context.Context, in *SessionMemberRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, client.connection, RecordStore_LeaveSession_FullMethodName, in, opts)
}

func (client *recordStoreClient) GetSession(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, client.connection, RecordStore_GetSession_FullMethodName, in, opts)
}

func (client *recordStoreClient) ListSessions(ctx context.Context, in *ListSessionsRequest, opts ...grpc.CallOption) (*SessionsResponse, error) {
	return invoke[SessionsResponse](ctx, client.connection, RecordStore_ListSessions_FullMethodName, in, opts)
}

func (client *recordStoreClient) AddWarning(ctx context.Context, in *AddWarningRequest, opts ...grpc.CallOption) (*AddWarningResponse, error) {
	return invoke[AddWarningResponse](ctx, client.connection, RecordStore_AddWarning_FullMethodName, in, opts)
}

func (client *recordStoreClient) ListWarnings(ctx context.Context, in *ListWarningsRequest, opts ...grpc.CallOption) (*WarningsResponse, error) {
	return invoke[WarningsResponse](ctx, client.connection, RecordStore_ListWarnings_FullMethodName, in, opts)
}

func (client *recordStoreClient) GetLastSticky(ctx context.Context, in *StickyRequest, opts ...grpc.CallOption) (*StickyResponse, error) {
	return invoke[StickyResponse](ctx, client.connection, RecordStore_GetLastSticky_FullMethodName, in, opts)
}

func (client *recordStoreClient) RecordSticky(ctx context.Context, in *StickyRequest, opts ...grpc.CallOption) (*StickyResponse, error) {
	return invoke[StickyResponse](ctx, client.connection, RecordStore_RecordSticky_FullMethodName, in, opts)
}

func (client *recordStoreClient) GetSettings(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SettingsResponse, error) {
	return invoke[SettingsResponse](ctx, client.connection, RecordStore_GetSettings_FullMethodName, in, opts)
}
