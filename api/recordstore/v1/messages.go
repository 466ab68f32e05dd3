package recordstorev1

import "github.com/MarkoPoloResearchLab/communityledger/pkg/ledger"

// Empty carries no fields.
type Empty struct{}

type RegisterVehicleRequest struct {
	UserID string `json:"user_id"`
	Make   string `json:"make"`
	Model  string `json:"model"`
	Color  string `json:"color"`
	State  string `json:"state"`
	Plate  string `json:"plate"`
}

// VehicleKey addresses one vehicle by plate and state.
type VehicleKey struct {
	Plate string `json:"plate"`
	State string `json:"state"`
}

type TransferVehicleRequest struct {
	Plate      string `json:"plate"`
	State      string `json:"state"`
	NewOwnerID string `json:"new_owner_id"`
}

type TransferVehicleResponse struct {
	Vehicle         ledger.VehicleRecord `json:"vehicle"`
	PreviousOwnerID string               `json:"previous_owner_id"`
}

type VehicleResponse struct {
	Vehicle ledger.VehicleRecord `json:"vehicle"`
}

type SearchVehiclesRequest struct {
	Query   string `json:"query"`
	State   string `json:"state,omitempty"`
	OwnerID string `json:"owner_id,omitempty"`
}

// ListVehiclesRequest lists a single owner's vehicles, or all of them when
// OwnerID is empty.
type ListVehiclesRequest struct {
	OwnerID string `json:"owner_id,omitempty"`
}

type VehiclesResponse struct {
	Vehicles []ledger.VehicleRecord `json:"vehicles"`
}

type UserRequest struct {
	UserID string `json:"user_id"`
}

type AccountResponse struct {
	Account ledger.Account `json:"account"`
}

type DailyClaimResponse struct {
	Reward  int64          `json:"reward"`
	Base    int64          `json:"base"`
	Bonus   int64          `json:"bonus"`
	Streak  int64          `json:"streak"`
	Account ledger.Account `json:"account"`
}

type WeeklyClaimResponse struct {
	Reward  int64          `json:"reward"`
	Account ledger.Account `json:"account"`
}

type WorkResponse struct {
	Earned       int64          `json:"earned"`
	Base         int64          `json:"base"`
	VehicleBonus int64          `json:"vehicle_bonus"`
	Job          string         `json:"job"`
	Account      ledger.Account `json:"account"`
}

// BankMoveRequest moves funds between wallet and bank. Amount is a positive
// integer (commas allowed) or "all".
type BankMoveRequest struct {
	UserID string `json:"user_id"`
	Amount string `json:"amount"`
}

type PayRequest struct {
	SenderID       string `json:"sender_id"`
	RecipientID    string `json:"recipient_id"`
	RecipientIsBot bool   `json:"recipient_is_bot"`
	Amount         int64  `json:"amount"`
}

type PayResponse struct {
	SenderBalance    int64 `json:"sender_balance"`
	RecipientBalance int64 `json:"recipient_balance"`
}

// LeaderboardRequest ranks every account unless FilterMembers is set, in which
// case only MemberIDs are ranked and an empty list yields an empty board.
type LeaderboardRequest struct {
	Limit         int      `json:"limit,omitempty"`
	FilterMembers bool     `json:"filter_members,omitempty"`
	MemberIDs     []string `json:"member_ids,omitempty"`
}

type LeaderboardResponse struct {
	Entries []ledger.LeaderboardEntry `json:"entries"`
}

type AdjustAccountRequest struct {
	UserID string `json:"user_id"`
	Action string `json:"action"`
	Target string `json:"target"`
	Amount int64  `json:"amount"`
}

type CreateSessionRequest struct {
	HostID        string `json:"host_id"`
	CohostID      string `json:"cohost_id,omitempty"`
	Priority      string `json:"priority"`
	FRPSpeedLimit int64  `json:"frp_speed"`
	HouseClaiming bool   `json:"house_claiming"`
	SessionLink   string `json:"session_link"`
}

// UpdateSessionStatusRequest carries the requester's privilege as already
// resolved by the bot against the chat platform's roles.
type UpdateSessionStatusRequest struct {
	SessionID   int64  `json:"session_id"`
	Status      string `json:"status"`
	RequesterID string `json:"requester_id"`
	Privileged  bool   `json:"privileged"`
}

type SessionMemberRequest struct {
	SessionID int64  `json:"session_id"`
	UserID    string `json:"user_id"`
}

type SessionRequest struct {
	SessionID int64 `json:"session_id"`
}

type SessionResponse struct {
	Session ledger.SessionRecord `json:"session"`
}

type ListSessionsRequest struct {
	ActiveOnly bool `json:"active_only,omitempty"`
}

type SessionsResponse struct {
	Sessions []ledger.SessionRecord `json:"sessions"`
}

type AddWarningRequest struct {
	UserID      string `json:"user_id"`
	ModeratorID string `json:"moderator_id"`
	Reason      string `json:"reason"`
	GuildID     string `json:"guild_id"`
}

type AddWarningResponse struct {
	Warning   ledger.WarningRecord `json:"warning"`
	UserTotal int                  `json:"user_total"`
}

// ListWarningsRequest returns one user's warnings when UserID is set, and the
// most recent Limit warnings otherwise.
type ListWarningsRequest struct {
	UserID string `json:"user_id,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

type WarningsResponse struct {
	Warnings []ledger.WarningRecord `json:"warnings"`
	Total    int                    `json:"total"`
}

type StickyRequest struct {
	ChannelID string `json:"channel_id,omitempty"`
	MessageID string `json:"message_id,omitempty"`
}

type StickyResponse struct {
	MessageID string `json:"message_id"`
}

type SettingsResponse struct {
	Settings ledger.SettingsDocument `json:"settings"`
}
