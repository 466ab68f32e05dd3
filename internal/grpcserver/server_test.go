package grpcserver

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	recordstorev1 "github.com/MarkoPoloResearchLab/communityledger/api/recordstore/v1"
	"github.com/MarkoPoloResearchLab/communityledger/internal/store/docstore"
	"github.com/MarkoPoloResearchLab/communityledger/pkg/ledger"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const (
	bufconnSize     = 1 << 20
	testSigningKey  = "service-secret"
	testIssuer      = "rpledger-bot"
	firstMemberID   = "100000000000000001"
	secondMemberID  = "100000000000000002"
	moderatorID     = "100000000000000009"
	testSessionLink = "https://example.com/join/abc"
)

type testClock struct {
	mu      sync.Mutex
	current time.Time
}

func (clock *testClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.current
}

func (clock *testClock) Advance(delta time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.current = clock.current.Add(delta)
}

type firstRandom struct{}

func (firstRandom) Int64N(int64) int64 { return 0 }
func (firstRandom) IntN(int) int       { return 0 }

type testEnv struct {
	client recordstorev1.RecordStoreClient
	clock  *testClock
}

func startRecordStore(test *testing.T, serverOptions []grpc.ServerOption, dialOptions ...grpc.DialOption) testEnv {
	test.Helper()
	clock := &testClock{current: time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)}
	store, err := docstore.New(test.TempDir(), docstore.WithClock(clock.Now))
	if err != nil {
		test.Fatalf("store init failed: %v", err)
	}
	service, err := ledger.NewService(store, clock.Now, ledger.WithRandom(firstRandom{}))
	if err != nil {
		test.Fatalf("ledger service init failed: %v", err)
	}

	listener := bufconn.Listen(bufconnSize)
	grpcServer := grpc.NewServer(serverOptions...)
	recordstorev1.RegisterRecordStoreServer(grpcServer, NewRecordStoreServer(service, clock.Now))
	go func() {
		if serveErr := grpcServer.Serve(listener); serveErr != nil {
			test.Logf("gRPC server error: %v", serveErr)
		}
	}()

	dialer := func(ctx context.Context, _ string) (net.Conn, error) {
		return listener.DialContext(ctx)
	}
	options := append([]grpc.DialOption{grpc.WithContextDialer(dialer), grpc.WithTransportCredentials(insecure.NewCredentials())}, dialOptions...)
	conn, err := grpc.NewClient("passthrough:///bufnet", options...)
	if err != nil {
		test.Fatalf("gRPC client init failed: %v", err)
	}
	test.Cleanup(func() {
		_ = conn.Close()
		grpcServer.Stop()
	})
	return testEnv{client: recordstorev1.NewRecordStoreClient(conn), clock: clock}
}

func requireStatus(test *testing.T, err error, code codes.Code, message string) *status.Status {
	test.Helper()
	grpcStatus, ok := status.FromError(err)
	if !ok {
		test.Fatalf("expected gRPC status, got %v", err)
	}
	if grpcStatus.Code() != code || grpcStatus.Message() != message {
		test.Fatalf("expected %s/%s, got %s/%s", code, message, grpcStatus.Code(), grpcStatus.Message())
	}
	return grpcStatus
}

func TestVehicleRoundTrip(test *testing.T) {
	test.Parallel()
	env := startRecordStore(test, nil)
	ctx := context.Background()

	registered, err := env.client.RegisterVehicle(ctx, &recordstorev1.RegisterVehicleRequest{
		UserID: firstMemberID, Make: "Ford", Model: "F150", Color: "Red", State: "tx", Plate: " abc123 ",
	})
	if err != nil {
		test.Fatalf("register failed: %v", err)
	}
	if registered.Vehicle.Plate != "ABC123" || registered.Vehicle.State != "TX" {
		test.Fatalf("expected normalized vehicle, got %+v", registered.Vehicle)
	}

	_, err = env.client.RegisterVehicle(ctx, &recordstorev1.RegisterVehicleRequest{
		UserID: secondMemberID, Make: "Ford", Model: "F150", Color: "Blue", State: "TX", Plate: "ABC123",
	})
	requireStatus(test, err, codes.AlreadyExists, errorDuplicatePlate)

	_, err = env.client.RegisterVehicle(ctx, &recordstorev1.RegisterVehicleRequest{
		UserID: firstMemberID, Make: "Ford", Model: "F150", Color: "Red", State: "ZZ", Plate: "XYZ1",
	})
	requireStatus(test, err, codes.InvalidArgument, errorInvalidState)

	transferred, err := env.client.TransferVehicle(ctx, &recordstorev1.TransferVehicleRequest{Plate: "abc123", State: "TX", NewOwnerID: secondMemberID})
	if err != nil {
		test.Fatalf("transfer failed: %v", err)
	}
	if transferred.PreviousOwnerID != firstMemberID || transferred.Vehicle.OwnerID != secondMemberID {
		test.Fatalf("unexpected transfer %+v", transferred)
	}

	owned, err := env.client.ListVehicles(ctx, &recordstorev1.ListVehiclesRequest{OwnerID: secondMemberID})
	if err != nil || len(owned.Vehicles) != 1 {
		test.Fatalf("expected one vehicle for new owner, got %+v (%v)", owned, err)
	}

	if _, err := env.client.RemoveVehicle(ctx, &recordstorev1.VehicleKey{Plate: "ABC123", State: "TX"}); err != nil {
		test.Fatalf("remove failed: %v", err)
	}
	_, err = env.client.RemoveVehicle(ctx, &recordstorev1.VehicleKey{Plate: "ABC123", State: "TX"})
	requireStatus(test, err, codes.NotFound, errorVehicleNotFound)
}

func TestEconomyCooldownCarriesRetryInfo(test *testing.T) {
	test.Parallel()
	env := startRecordStore(test, nil)
	ctx := context.Background()

	claim, err := env.client.ClaimDaily(ctx, &recordstorev1.UserRequest{UserID: firstMemberID})
	if err != nil {
		test.Fatalf("daily failed: %v", err)
	}
	if claim.Reward != ledger.DailyReward || claim.Streak != 1 || claim.Account.Balance != ledger.DailyReward {
		test.Fatalf("unexpected claim %+v", claim)
	}

	env.clock.Advance(time.Hour)
	_, err = env.client.ClaimDaily(ctx, &recordstorev1.UserRequest{UserID: firstMemberID})
	grpcStatus := requireStatus(test, err, codes.FailedPrecondition, errorAlreadyClaimed)
	var retry *errdetails.RetryInfo
	for _, detail := range grpcStatus.Details() {
		if info, ok := detail.(*errdetails.RetryInfo); ok {
			retry = info
		}
	}
	if retry == nil {
		test.Fatalf("expected RetryInfo detail")
	}
	if got := retry.GetRetryDelay().AsDuration(); got != ledger.DailyCooldown-time.Hour {
		test.Fatalf("expected retry delay %s, got %s", ledger.DailyCooldown-time.Hour, got)
	}
}

func TestEconomyPaymentsAndBank(test *testing.T) {
	test.Parallel()
	env := startRecordStore(test, nil)
	ctx := context.Background()

	if _, err := env.client.ClaimWeekly(ctx, &recordstorev1.UserRequest{UserID: firstMemberID}); err != nil {
		test.Fatalf("weekly failed: %v", err)
	}
	_, err := env.client.Pay(ctx, &recordstorev1.PayRequest{SenderID: firstMemberID, RecipientID: secondMemberID, Amount: ledger.WeeklyReward + 1})
	requireStatus(test, err, codes.FailedPrecondition, errorInsufficientFunds)

	_, err = env.client.Pay(ctx, &recordstorev1.PayRequest{SenderID: firstMemberID, RecipientID: firstMemberID, Amount: 10})
	requireStatus(test, err, codes.InvalidArgument, errorSelfPayment)

	paid, err := env.client.Pay(ctx, &recordstorev1.PayRequest{SenderID: firstMemberID, RecipientID: secondMemberID, Amount: 1000})
	if err != nil {
		test.Fatalf("pay failed: %v", err)
	}
	if paid.SenderBalance != ledger.WeeklyReward-1000 || paid.RecipientBalance != 1000 {
		test.Fatalf("unexpected balances %+v", paid)
	}

	deposited, err := env.client.Deposit(ctx, &recordstorev1.BankMoveRequest{UserID: firstMemberID, Amount: "all"})
	if err != nil {
		test.Fatalf("deposit failed: %v", err)
	}
	if deposited.Account.Balance != 0 || deposited.Account.Bank != ledger.WeeklyReward-1000 {
		test.Fatalf("unexpected account %+v", deposited.Account)
	}
	_, err = env.client.Withdraw(ctx, &recordstorev1.BankMoveRequest{UserID: firstMemberID, Amount: "-5"})
	requireStatus(test, err, codes.InvalidArgument, errorInvalidAmount)

	board, err := env.client.Leaderboard(ctx, &recordstorev1.LeaderboardRequest{FilterMembers: true, MemberIDs: []string{secondMemberID}})
	if err != nil {
		test.Fatalf("leaderboard failed: %v", err)
	}
	if len(board.Entries) != 1 || board.Entries[0].UserID != secondMemberID || board.Entries[0].Rank != 1 {
		test.Fatalf("unexpected leaderboard %+v", board.Entries)
	}

	global, err := env.client.Leaderboard(ctx, &recordstorev1.LeaderboardRequest{})
	if err != nil {
		test.Fatalf("global leaderboard failed: %v", err)
	}
	if len(global.Entries) != 2 {
		test.Fatalf("expected both accounts on the global board, got %+v", global.Entries)
	}

	nobody, err := env.client.Leaderboard(ctx, &recordstorev1.LeaderboardRequest{FilterMembers: true})
	if err != nil {
		test.Fatalf("member leaderboard failed: %v", err)
	}
	if len(nobody.Entries) != 0 {
		test.Fatalf("expected empty board for an empty member list, got %+v", nobody.Entries)
	}
}

func TestSessionPermissionsAndRoster(test *testing.T) {
	test.Parallel()
	env := startRecordStore(test, nil)
	ctx := context.Background()

	created, err := env.client.CreateSession(ctx, &recordstorev1.CreateSessionRequest{
		HostID: firstMemberID, Priority: "High", FRPSpeedLimit: 80, HouseClaiming: true, SessionLink: testSessionLink,
	})
	if err != nil {
		test.Fatalf("create failed: %v", err)
	}
	sessionID := created.Session.ID

	_, err = env.client.UpdateSessionStatus(ctx, &recordstorev1.UpdateSessionStatusRequest{SessionID: sessionID, Status: "public", RequesterID: secondMemberID})
	requireStatus(test, err, codes.PermissionDenied, errorNotAuthorized)

	updated, err := env.client.UpdateSessionStatus(ctx, &recordstorev1.UpdateSessionStatusRequest{SessionID: sessionID, Status: "public", RequesterID: secondMemberID, Privileged: true})
	if err != nil || updated.Session.Status != ledger.SessionPublic {
		test.Fatalf("expected privileged update, got %+v (%v)", updated, err)
	}

	if _, err := env.client.JoinSession(ctx, &recordstorev1.SessionMemberRequest{SessionID: sessionID, UserID: secondMemberID}); err != nil {
		test.Fatalf("join failed: %v", err)
	}
	_, err = env.client.JoinSession(ctx, &recordstorev1.SessionMemberRequest{SessionID: sessionID, UserID: secondMemberID})
	requireStatus(test, err, codes.AlreadyExists, errorAlreadyJoined)
	_, err = env.client.LeaveSession(ctx, &recordstorev1.SessionMemberRequest{SessionID: sessionID, UserID: moderatorID})
	requireStatus(test, err, codes.FailedPrecondition, errorNotJoined)
	_, err = env.client.GetSession(ctx, &recordstorev1.SessionRequest{SessionID: 42})
	requireStatus(test, err, codes.NotFound, errorSessionNotFound)

	active, err := env.client.ListSessions(ctx, &recordstorev1.ListSessionsRequest{ActiveOnly: true})
	if err != nil || len(active.Sessions) != 1 {
		test.Fatalf("expected one active session, got %+v (%v)", active, err)
	}
}

func TestWarningsStickyAndSettings(test *testing.T) {
	test.Parallel()
	env := startRecordStore(test, nil)
	ctx := context.Background()

	for index := 1; index <= 2; index++ {
		issued, err := env.client.AddWarning(ctx, &recordstorev1.AddWarningRequest{UserID: firstMemberID, ModeratorID: moderatorID, Reason: "  spam  ", GuildID: "guild"})
		if err != nil {
			test.Fatalf("warning failed: %v", err)
		}
		if issued.UserTotal != index || issued.Warning.Reason != "spam" {
			test.Fatalf("unexpected warning %+v", issued)
		}
	}
	_, err := env.client.AddWarning(ctx, &recordstorev1.AddWarningRequest{UserID: firstMemberID, ModeratorID: moderatorID, Reason: "   "})
	requireStatus(test, err, codes.InvalidArgument, errorInvalidReason)

	listed, err := env.client.ListWarnings(ctx, &recordstorev1.ListWarningsRequest{UserID: firstMemberID})
	if err != nil || len(listed.Warnings) != 2 || listed.Total != 2 {
		test.Fatalf("unexpected warnings %+v (%v)", listed, err)
	}

	previous, err := env.client.RecordSticky(ctx, &recordstorev1.StickyRequest{ChannelID: "chan", MessageID: "m1"})
	if err != nil || previous.MessageID != "" {
		test.Fatalf("expected empty previous sticky, got %+v (%v)", previous, err)
	}
	current, err := env.client.GetLastSticky(ctx, &recordstorev1.StickyRequest{ChannelID: "chan"})
	if err != nil || current.MessageID != "m1" {
		test.Fatalf("expected m1, got %+v (%v)", current, err)
	}

	settings, err := env.client.GetSettings(ctx, &recordstorev1.Empty{})
	if err != nil || settings.Settings != ledger.DefaultSettings() {
		test.Fatalf("expected default settings, got %+v (%v)", settings, err)
	}
}

func TestServiceTokenInterceptor(test *testing.T) {
	test.Parallel()
	now := time.Now()
	validator, err := NewTokenValidator(testSigningKey, testIssuer, nil)
	if err != nil {
		test.Fatalf("validator init failed: %v", err)
	}
	serverOptions := []grpc.ServerOption{grpc.ChainUnaryInterceptor(validator.UnaryInterceptor())}

	anonymous := startRecordStore(test, serverOptions)
	_, err = anonymous.client.GetSettings(context.Background(), &recordstorev1.Empty{})
	requireStatus(test, err, codes.Unauthenticated, errorMissingToken)

	forged, err := MintServiceToken("other-secret", testIssuer, "bot", time.Hour, now)
	if err != nil {
		test.Fatalf("mint failed: %v", err)
	}
	_, err = anonymous.client.GetSettings(context.Background(), &recordstorev1.Empty{}, grpc.PerRPCCredentials(BearerToken(forged)))
	requireStatus(test, err, codes.Unauthenticated, errorInvalidToken)

	token, err := MintServiceToken(testSigningKey, testIssuer, "bot", time.Hour, now)
	if err != nil {
		test.Fatalf("mint failed: %v", err)
	}
	trusted := startRecordStore(test, serverOptions, grpc.WithPerRPCCredentials(BearerToken(token)))
	if _, err := trusted.client.GetSettings(context.Background(), &recordstorev1.Empty{}); err != nil {
		test.Fatalf("expected authorized call, got %v", err)
	}
}

func TestMapToGRPCErrorHidesInternalDetail(test *testing.T) {
	test.Parallel()
	now := time.Now()
	cases := []struct {
		name    string
		err     error
		code    codes.Code
		message string
	}{
		{name: "persistence", err: ledger.WrapError("store", "economy", "write", ledger.ErrPersistence), code: codes.Internal, message: errorInternal},
		{name: "unknown", err: errors.New("disk on fire"), code: codes.Internal, message: errorInternal},
		{name: "canceled", err: context.Canceled, code: codes.Canceled, message: context.Canceled.Error()},
		{name: "deadline", err: context.DeadlineExceeded, code: codes.DeadlineExceeded, message: context.DeadlineExceeded.Error()},
		{name: "store canceled", err: ledger.WrapError("store", "economy", "canceled", context.Canceled), code: codes.Canceled, message: context.Canceled.Error()},
		{name: "lock deadline", err: ledger.WrapError("store", ".vehicles.lock", "canceled", context.DeadlineExceeded), code: codes.DeadlineExceeded, message: context.DeadlineExceeded.Error()},
		{name: "work cooldown", err: &ledger.CooldownError{Kind: ledger.CooldownWork, NextEligibleAt: now.Add(time.Minute)}, code: codes.FailedPrecondition, message: errorOnCooldown},
	}
	for _, tc := range cases {
		tc := tc
		test.Run(tc.name, func(test *testing.T) {
			test.Parallel()
			requireStatus(test, mapToGRPCError(tc.err, now), tc.code, tc.message)
		})
	}
	if mapToGRPCError(nil, now) != nil {
		test.Fatalf("expected nil for nil error")
	}
}

func TestLoggingInterceptorEchoesRequestID(test *testing.T) {
	test.Parallel()
	env := startRecordStore(test, []grpc.ServerOption{grpc.ChainUnaryInterceptor(LoggingInterceptor(nil))})

	var header metadata.MD
	ctx := metadata.AppendToOutgoingContext(context.Background(), RequestIDHeader, "req-42")
	if _, err := env.client.GetSettings(ctx, &recordstorev1.Empty{}, grpc.Header(&header)); err != nil {
		test.Fatalf("get settings failed: %v", err)
	}
	if got := header.Get(RequestIDHeader); len(got) != 1 || got[0] != "req-42" {
		test.Fatalf("expected echoed request id, got %v", got)
	}

	header = nil
	if _, err := env.client.GetSettings(context.Background(), &recordstorev1.Empty{}, grpc.Header(&header)); err != nil {
		test.Fatalf("get settings failed: %v", err)
	}
	if got := header.Get(RequestIDHeader); len(got) != 1 || got[0] == "" {
		test.Fatalf("expected generated request id, got %v", got)
	}
}
