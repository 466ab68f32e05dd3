package ledger

import "time"

const (
	operationRegisterVehicle  = "vehicle.register"
	operationTransferVehicle  = "vehicle.transfer"
	operationRemoveVehicle    = "vehicle.remove"
	operationPurgeVehicles    = "vehicle.purge_test"
	operationRepairVehicles   = "vehicle.repair"
	operationOpenAccount      = "economy.open_account"
	operationClaimDaily       = "economy.daily"
	operationClaimWeekly      = "economy.weekly"
	operationWork             = "economy.work"
	operationDeposit          = "economy.deposit"
	operationWithdraw         = "economy.withdraw"
	operationPay              = "economy.pay"
	operationAdjust           = "economy.adjust"
	operationCreateSession    = "session.create"
	operationUpdateSession    = "session.update_status"
	operationJoinSession      = "session.join"
	operationLeaveSession     = "session.leave"
	operationAddWarning       = "warning.add"
	operationRecordSticky     = "sticky.record"
	operationSaveSettings     = "settings.save"
	operationNotifyPayment    = "economy.pay.notify"
)

// Operation statuses reported in OperationLog.Status.
const (
	OperationStatusOK      = "ok"
	OperationStatusError   = "error"
	OperationStatusIgnored = "ignored_error"
)

// Economy rules.
const (
	DailyReward           int64 = 1000
	WeeklyReward          int64 = 5000
	WorkPayMin            int64 = 100
	WorkPayMax            int64 = 500
	VehicleBonusPerCar    int64 = 25
	VehicleBonusCap       int64 = 100
	StreakBonusPerDay     int64 = 50
	StreakBonusCap        int64 = 500
	DailyCooldown               = 24 * time.Hour
	WeeklyCooldown              = 7 * 24 * time.Hour
	WorkCooldown                = time.Hour
	DailyStreakGrace            = 48 * time.Hour
	defaultLeaderboardTop       = 10
	amountSpecAll               = "all"
	adjustTargetBalance         = "balance"
	adjustTargetBank            = "bank"
	maxVehicleFieldLength       = 20
	minPlateLength              = 2
	maxPlateLength              = 8
	statsTopLimit               = 5
	recentRegistrationWindow    = 7 * 24 * time.Hour
	testRecordMarker            = "test"
	maxStickyChannelIDLength    = 64
	maxSettingsPrefixLength     = 5
	maxWarningReasonLength      = 1024
)

// Jobs is the flavor text shown for work payouts. It has no effect on pay.
var Jobs = []string{
	"delivered packages for UPS",
	"worked as a taxi driver",
	"completed a construction job",
	"worked at the local diner",
	"did some freelance coding",
	"worked as a security guard",
	"completed a delivery route",
	"worked at the gas station",
	"did some landscaping work",
	"worked as a mechanic",
}

// validStates lists the 50 US states and 13 Canadian provinces and territories.
var validStates = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {}, "DE": {}, "FL": {}, "GA": {},
	"HI": {}, "ID": {}, "IL": {}, "IN": {}, "IA": {}, "KS": {}, "KY": {}, "LA": {}, "ME": {}, "MD": {},
	"MA": {}, "MI": {}, "MN": {}, "MS": {}, "MO": {}, "MT": {}, "NE": {}, "NV": {}, "NH": {}, "NJ": {},
	"NM": {}, "NY": {}, "NC": {}, "ND": {}, "OH": {}, "OK": {}, "OR": {}, "PA": {}, "RI": {}, "SC": {},
	"SD": {}, "TN": {}, "TX": {}, "UT": {}, "VT": {}, "VA": {}, "WA": {}, "WV": {}, "WI": {}, "WY": {},
	"AB": {}, "BC": {}, "MB": {}, "NB": {}, "NL": {}, "NS": {}, "NT": {}, "NU": {}, "ON": {}, "PE": {},
	"QC": {}, "SK": {}, "YT": {},
}
