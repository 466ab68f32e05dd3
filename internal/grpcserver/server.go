package grpcserver

import (
	"context"
	"time"

	recordstorev1 "github.com/MarkoPoloResearchLab/communityledger/api/recordstore/v1"
	"github.com/MarkoPoloResearchLab/communityledger/pkg/ledger"
)

const defaultRecentWarnings = 10

// RecordStoreServer exposes the ledgers over gRPC.
type RecordStoreServer struct {
	recordstorev1.UnimplementedRecordStoreServer
	service *ledger.Service
	nowFn   func() time.Time
}

// NewRecordStoreServer constructs a gRPC server for the ledger service. now is
// used to compute retry delays for cooldown errors.
func NewRecordStoreServer(service *ledger.Service, now func() time.Time) *RecordStoreServer {
	if now == nil {
		now = time.Now
	}
	return &RecordStoreServer{service: service, nowFn: now}
}

func (server *RecordStoreServer) fail(err error) error {
	return mapToGRPCError(err, server.nowFn())
}

func (server *RecordStoreServer) RegisterVehicle(ctx context.Context, request *recordstorev1.RegisterVehicleRequest) (*recordstorev1.VehicleResponse, error) {
	owner, err := ledger.NewUserID(request.UserID)
	if err != nil {
		return nil, server.fail(err)
	}
	vehicle, err := server.service.Vehicles().Register(ctx, ledger.VehicleRegistration{
		Owner: owner,
		Make:  request.Make,
		Model: request.Model,
		Color: request.Color,
		State: request.State,
		Plate: request.Plate,
	})
	if err != nil {
		return nil, server.fail(err)
	}
	return &recordstorev1.VehicleResponse{Vehicle: vehicle}, nil
}

func (server *RecordStoreServer) TransferVehicle(ctx context.Context, request *recordstorev1.TransferVehicleRequest) (*recordstorev1.TransferVehicleResponse, error) {
	newOwner, err := ledger.NewUserID(request.NewOwnerID)
	if err != nil {
		return nil, server.fail(err)
	}
	transfer, err := server.service.Vehicles().Transfer(ctx, request.Plate, request.State, newOwner)
	if err != nil {
		return nil, server.fail(err)
	}
	return &recordstorev1.TransferVehicleResponse{Vehicle: transfer.Vehicle, PreviousOwnerID: transfer.PreviousOwner}, nil
}

func (server *RecordStoreServer) RemoveVehicle(ctx context.Context, request *recordstorev1.VehicleKey) (*recordstorev1.VehicleResponse, error) {
	vehicle, err := server.service.Vehicles().Remove(ctx, request.Plate, request.State)
	if err != nil {
		return nil, server.fail(err)
	}
	return &recordstorev1.VehicleResponse{Vehicle: vehicle}, nil
}

func (server *RecordStoreServer) LookupVehicle(ctx context.Context, request *recordstorev1.VehicleKey) (*recordstorev1.VehiclesResponse, error) {
	vehicles, err := server.service.Vehicles().Lookup(ctx, request.Plate, request.State)
	if err != nil {
		return nil, server.fail(err)
	}
	return &recordstorev1.VehiclesResponse{Vehicles: vehicles}, nil
}

func (server *RecordStoreServer) SearchVehicles(ctx context.Context, request *recordstorev1.SearchVehiclesRequest) (*recordstorev1.VehiclesResponse, error) {
	vehicles, err := server.service.Vehicles().Search(ctx, request.Query, ledger.VehicleFilter{State: request.State, Owner: request.OwnerID})
	if err != nil {
		return nil, server.fail(err)
	}
	return &recordstorev1.VehiclesResponse{Vehicles: vehicles}, nil
}

func (server *RecordStoreServer) ListVehicles(ctx context.Context, request *recordstorev1.ListVehiclesRequest) (*recordstorev1.VehiclesResponse, error) {
	var (
		vehicles []ledger.VehicleRecord
		err      error
	)
	if request.OwnerID == "" {
		vehicles, err = server.service.Vehicles().List(ctx)
	} else {
		var owner ledger.UserID
		owner, err = ledger.NewUserID(request.OwnerID)
		if err == nil {
			vehicles, err = server.service.Vehicles().ListByOwner(ctx, owner)
		}
	}
	if err != nil {
		return nil, server.fail(err)
	}
	return &recordstorev1.VehiclesResponse{Vehicles: vehicles}, nil
}

func (server *RecordStoreServer) GetAccount(ctx context.Context, request *recordstorev1.UserRequest) (*recordstorev1.AccountResponse, error) {
	user, err := ledger.NewUserID(request.UserID)
	if err != nil {
		return nil, server.fail(err)
	}
	account, err := server.service.Economy().Account(ctx, user)
	if err != nil {
		return nil, server.fail(err)
	}
	return &recordstorev1.AccountResponse{Account: account}, nil
}

func (server *RecordStoreServer) ClaimDaily(ctx context.Context, request *recordstorev1.UserRequest) (*recordstorev1.DailyClaimResponse, error) {
	user, err := ledger.NewUserID(request.UserID)
	if err != nil {
		return nil, server.fail(err)
	}
	claim, err := server.service.Economy().ClaimDaily(ctx, user)
	if err != nil {
		return nil, server.fail(err)
	}
	return &recordstorev1.DailyClaimResponse{
		Reward:  claim.Reward,
		Base:    claim.Base,
		Bonus:   claim.Bonus,
		Streak:  claim.Streak,
		Account: claim.Account,
	}, nil
}

func (server *RecordStoreServer) ClaimWeekly(ctx context.Context, request *recordstorev1.UserRequest) (*recordstorev1.WeeklyClaimResponse, error) {
	user, err := ledger.NewUserID(request.UserID)
	if err != nil {
		return nil, server.fail(err)
	}
	claim, err := server.service.Economy().ClaimWeekly(ctx, user)
	if err != nil {
		return nil, server.fail(err)
	}
	return &recordstorev1.WeeklyClaimResponse{Reward: claim.Reward, Account: claim.Account}, nil
}

func (server *RecordStoreServer) Work(ctx context.Context, request *recordstorev1.UserRequest) (*recordstorev1.WorkResponse, error) {
	user, err := ledger.NewUserID(request.UserID)
	if err != nil {
		return nil, server.fail(err)
	}
	result, err := server.service.Economy().Work(ctx, user)
	if err != nil {
		return nil, server.fail(err)
	}
	return &recordstorev1.WorkResponse{
		Earned:       result.Earned,
		Base:         result.Base,
		VehicleBonus: result.VehicleBonus,
		Job:          result.Job,
		Account:      result.Account,
	}, nil
}

func (server *RecordStoreServer) Deposit(ctx context.Context, request *recordstorev1.BankMoveRequest) (*recordstorev1.AccountResponse, error) {
	return server.bankMove(ctx, request, server.service.Economy().Deposit)
}

func (server *RecordStoreServer) Withdraw(ctx context.Context, request *recordstorev1.BankMoveRequest) (*recordstorev1.AccountResponse, error) {
	return server.bankMove(ctx, request, server.service.Economy().Withdraw)
}

func (server *RecordStoreServer) bankMove(ctx context.Context, request *recordstorev1.BankMoveRequest, move func(context.Context, ledger.UserID, ledger.AmountSpec) (ledger.Account, error)) (*recordstorev1.AccountResponse, error) {
	user, err := ledger.NewUserID(request.UserID)
	if err != nil {
		return nil, server.fail(err)
	}
	spec, err := ledger.ParseAmountSpec(request.Amount)
	if err != nil {
		return nil, server.fail(err)
	}
	account, err := move(ctx, user, spec)
	if err != nil {
		return nil, server.fail(err)
	}
	return &recordstorev1.AccountResponse{Account: account}, nil
}

func (server *RecordStoreServer) Pay(ctx context.Context, request *recordstorev1.PayRequest) (*recordstorev1.PayResponse, error) {
	sender, err := ledger.NewUserID(request.SenderID)
	if err != nil {
		return nil, server.fail(err)
	}
	recipient, err := ledger.NewUserID(request.RecipientID)
	if err != nil {
		return nil, server.fail(err)
	}
	receipt, err := server.service.Economy().Pay(ctx, ledger.Payment{
		Sender:         sender,
		Recipient:      recipient,
		RecipientIsBot: request.RecipientIsBot,
		Amount:         request.Amount,
	})
	if err != nil {
		return nil, server.fail(err)
	}
	return &recordstorev1.PayResponse{SenderBalance: receipt.SenderBalance, RecipientBalance: receipt.RecipientBalance}, nil
}

func (server *RecordStoreServer) Leaderboard(ctx context.Context, request *recordstorev1.LeaderboardRequest) (*recordstorev1.LeaderboardResponse, error) {
	query := ledger.LeaderboardQuery{Limit: request.Limit}
	if request.FilterMembers {
		members := make(map[string]struct{}, len(request.MemberIDs))
		for _, memberID := range request.MemberIDs {
			members[memberID] = struct{}{}
		}
		query.IsMember = func(userID string) bool {
			_, ok := members[userID]
			return ok
		}
	}
	entries, err := server.service.Economy().Leaderboard(ctx, query)
	if err != nil {
		return nil, server.fail(err)
	}
	return &recordstorev1.LeaderboardResponse{Entries: entries}, nil
}

func (server *RecordStoreServer) AdjustAccount(ctx context.Context, request *recordstorev1.AdjustAccountRequest) (*recordstorev1.AccountResponse, error) {
	user, err := ledger.NewUserID(request.UserID)
	if err != nil {
		return nil, server.fail(err)
	}
	account, err := server.service.Economy().Adjust(ctx, ledger.AccountAdjustment{
		User:   user,
		Action: ledger.AdjustAction(request.Action),
		Target: request.Target,
		Amount: request.Amount,
	})
	if err != nil {
		return nil, server.fail(err)
	}
	return &recordstorev1.AccountResponse{Account: account}, nil
}

func (server *RecordStoreServer) CreateSession(ctx context.Context, request *recordstorev1.CreateSessionRequest) (*recordstorev1.SessionResponse, error) {
	host, err := ledger.NewUserID(request.HostID)
	if err != nil {
		return nil, server.fail(err)
	}
	session, err := server.service.Sessions().Create(ctx, ledger.SessionRequest{
		Host:          host,
		Cohost:        request.CohostID,
		Priority:      request.Priority,
		FRPSpeedLimit: request.FRPSpeedLimit,
		HouseClaiming: request.HouseClaiming,
		Link:          request.SessionLink,
	})
	if err != nil {
		return nil, server.fail(err)
	}
	return &recordstorev1.SessionResponse{Session: session}, nil
}

func (server *RecordStoreServer) UpdateSessionStatus(ctx context.Context, request *recordstorev1.UpdateSessionStatusRequest) (*recordstorev1.SessionResponse, error) {
	requester, err := ledger.NewUserID(request.RequesterID)
	if err != nil {
		return nil, server.fail(err)
	}
	status, err := ledger.ParseSessionStatus(request.Status)
	if err != nil {
		return nil, server.fail(err)
	}
	session, err := server.service.Sessions().UpdateStatus(ctx, request.SessionID, status, ledger.Requester{User: requester, Privileged: request.Privileged})
	if err != nil {
		return nil, server.fail(err)
	}
	return &recordstorev1.SessionResponse{Session: session}, nil
}

func (server *RecordStoreServer) JoinSession(ctx context.Context, request *recordstorev1.SessionMemberRequest) (*recordstorev1.SessionResponse, error) {
	return server.roster(ctx, request, server.service.Sessions().Join)
}

func (server *RecordStoreServer) LeaveSession(ctx context.Context, request *recordstorev1.SessionMemberRequest) (*recordstorev1.SessionResponse, error) {
	return server.roster(ctx, request, server.service.Sessions().Leave)
}

func (server *RecordStoreServer) roster(ctx context.Context, request *recordstorev1.SessionMemberRequest, change func(context.Context, int64, ledger.UserID) (ledger.SessionRecord, error)) (*recordstorev1.SessionResponse, error) {
	user, err := ledger.NewUserID(request.UserID)
	if err != nil {
		return nil, server.fail(err)
	}
	session, err := change(ctx, request.SessionID, user)
	if err != nil {
		return nil, server.fail(err)
	}
	return &recordstorev1.SessionResponse{Session: session}, nil
}

func (server *RecordStoreServer) GetSession(ctx context.Context, request *recordstorev1.SessionRequest) (*recordstorev1.SessionResponse, error) {
	session, err := server.service.Sessions().Get(ctx, request.SessionID)
	if err != nil {
		return nil, server.fail(err)
	}
	return &recordstorev1.SessionResponse{Session: session}, nil
}

func (server *RecordStoreServer) ListSessions(ctx context.Context, request *recordstorev1.ListSessionsRequest) (*recordstorev1.SessionsResponse, error) {
	list := server.service.Sessions().List
	if request.ActiveOnly {
		list = server.service.Sessions().ListActive
	}
	sessions, err := list(ctx)
	if err != nil {
		return nil, server.fail(err)
	}
	return &recordstorev1.SessionsResponse{Sessions: sessions}, nil
}

func (server *RecordStoreServer) AddWarning(ctx context.Context, request *recordstorev1.AddWarningRequest) (*recordstorev1.AddWarningResponse, error) {
	user, err := ledger.NewUserID(request.UserID)
	if err != nil {
		return nil, server.fail(err)
	}
	moderator, err := ledger.NewUserID(request.ModeratorID)
	if err != nil {
		return nil, server.fail(err)
	}
	issued, err := server.service.Warnings().Add(ctx, ledger.WarningRequest{
		User:      user,
		Moderator: moderator,
		Reason:    request.Reason,
		Guild:     request.GuildID,
	})
	if err != nil {
		return nil, server.fail(err)
	}
	return &recordstorev1.AddWarningResponse{Warning: issued.Warning, UserTotal: issued.UserTotal}, nil
}

func (server *RecordStoreServer) ListWarnings(ctx context.Context, request *recordstorev1.ListWarningsRequest) (*recordstorev1.WarningsResponse, error) {
	var (
		warnings []ledger.WarningRecord
		err      error
	)
	if request.UserID != "" {
		var user ledger.UserID
		user, err = ledger.NewUserID(request.UserID)
		if err == nil {
			warnings, err = server.service.Warnings().ListFor(ctx, user)
		}
	} else {
		limit := request.Limit
		if limit <= 0 {
			limit = defaultRecentWarnings
		}
		warnings, err = server.service.Warnings().Recent(ctx, limit)
	}
	if err != nil {
		return nil, server.fail(err)
	}
	total, err := server.service.Warnings().Count(ctx)
	if err != nil {
		return nil, server.fail(err)
	}
	return &recordstorev1.WarningsResponse{Warnings: warnings, Total: total}, nil
}

func (server *RecordStoreServer) GetLastSticky(ctx context.Context, request *recordstorev1.StickyRequest) (*recordstorev1.StickyResponse, error) {
	messageID, err := server.service.LastSticky(ctx, request.ChannelID)
	if err != nil {
		return nil, server.fail(err)
	}
	return &recordstorev1.StickyResponse{MessageID: messageID}, nil
}

// RecordSticky stores the new sticky message and returns the one it replaced.
func (server *RecordStoreServer) RecordSticky(ctx context.Context, request *recordstorev1.StickyRequest) (*recordstorev1.StickyResponse, error) {
	previous, err := server.service.RecordSticky(ctx, request.ChannelID, request.MessageID)
	if err != nil {
		return nil, server.fail(err)
	}
	return &recordstorev1.StickyResponse{MessageID: previous}, nil
}

func (server *RecordStoreServer) GetSettings(ctx context.Context, _ *recordstorev1.Empty) (*recordstorev1.SettingsResponse, error) {
	settings, err := server.service.Settings(ctx)
	if err != nil {
		return nil, server.fail(err)
	}
	return &recordstorev1.SettingsResponse{Settings: settings}, nil
}
