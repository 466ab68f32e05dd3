package ledger

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Document is a typed JSON document owned by one file.
type Document interface {
	Name() DocumentName
	// Reset restores the documented empty default.
	Reset()
	// Normalize fills missing collections and repairs out-of-range values after a load.
	Normalize() error
}

// VehicleRecord is one registered vehicle.
type VehicleRecord struct {
	OwnerID      string    `json:"userId"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Color        string    `json:"color"`
	State        string    `json:"state"`
	Plate        string    `json:"plate"`
	RegisteredAt Timestamp `json:"registeredAt"`
}

func (record VehicleRecord) matchesKey(plate string, state string) bool {
	return strings.EqualFold(record.Plate, plate) && strings.EqualFold(record.State, state)
}

// VehicleDocument is the content of vehicles.json.
type VehicleDocument struct {
	Vehicles []VehicleRecord `json:"vehicles"`
}

func (document *VehicleDocument) Name() DocumentName { return DocumentVehicles }

func (document *VehicleDocument) Reset() { document.Vehicles = []VehicleRecord{} }

func (document *VehicleDocument) Normalize() error {
	if document.Vehicles == nil {
		document.Vehicles = []VehicleRecord{}
	}
	return nil
}

// EconomyAccount is the persisted state of one wallet.
type EconomyAccount struct {
	Balance     int64      `json:"balance"`
	Bank        int64      `json:"bank"`
	LastDaily   *Timestamp `json:"last_daily"`
	LastWeekly  *Timestamp `json:"last_weekly"`
	LastWork    *Timestamp `json:"last_work"`
	DailyStreak int64      `json:"daily_streak"`
	TotalEarned int64      `json:"total_earned"`
	TotalSpent  int64      `json:"total_spent"`
}

// EconomyDocument is the content of economy.json.
type EconomyDocument struct {
	Users map[string]*EconomyAccount `json:"users"`
}

func (document *EconomyDocument) Name() DocumentName { return DocumentEconomy }

func (document *EconomyDocument) Reset() { document.Users = map[string]*EconomyAccount{} }

func (document *EconomyDocument) Normalize() error {
	if document.Users == nil {
		document.Users = map[string]*EconomyAccount{}
	}
	for userID, account := range document.Users {
		if account == nil {
			document.Users[userID] = &EconomyAccount{}
			continue
		}
		account.Balance = max(account.Balance, 0)
		account.Bank = max(account.Bank, 0)
		account.DailyStreak = max(account.DailyStreak, 0)
	}
	return nil
}

func (document *EconomyDocument) account(userID string) (*EconomyAccount, bool) {
	account, ok := document.Users[userID]
	if ok {
		return account, false
	}
	account = &EconomyAccount{}
	document.Users[userID] = account
	return account, true
}

// YesNo is a flag persisted as "Yes" or "No".
type YesNo bool

func (flag YesNo) MarshalJSON() ([]byte, error) {
	if flag {
		return []byte(`"Yes"`), nil
	}
	return []byte(`"No"`), nil
}

// UnmarshalJSON accepts "Yes"/"No" in any case as well as JSON booleans.
func (flag *YesNo) UnmarshalJSON(data []byte) error {
	var asBool bool
	if err := json.Unmarshal(data, &asBool); err == nil {
		*flag = YesNo(asBool)
		return nil
	}
	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		*flag = false
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(asString)) {
	case "yes", "y", "true":
		*flag = true
	default:
		*flag = false
	}
	return nil
}

// SessionRecord is one roleplay session.
type SessionRecord struct {
	ID            int64         `json:"id"`
	HostID        string        `json:"host_id"`
	CohostID      string        `json:"cohost_id,omitempty"`
	Priority      string        `json:"priority"`
	FRPSpeedLimit int64         `json:"frp_speed"`
	HouseClaiming YesNo         `json:"house_claiming"`
	SessionLink   string        `json:"session_link"`
	Status        SessionStatus `json:"status"`
	Participants  []string      `json:"participants"`
	CreatedAt     Timestamp     `json:"created_at"`
	EndedAt       *Timestamp    `json:"ended_at"`
}

func (record SessionRecord) hasParticipant(userID string) bool {
	for _, participant := range record.Participants {
		if participant == userID {
			return true
		}
	}
	return false
}

// SessionDocument is the content of sessions.json.
type SessionDocument struct {
	Sessions []SessionRecord `json:"sessions"`
}

func (document *SessionDocument) Name() DocumentName { return DocumentSessions }

func (document *SessionDocument) Reset() { document.Sessions = []SessionRecord{} }

func (document *SessionDocument) Normalize() error {
	if document.Sessions == nil {
		document.Sessions = []SessionRecord{}
	}
	for index := range document.Sessions {
		session := &document.Sessions[index]
		if session.Participants == nil {
			session.Participants = []string{}
		}
		if status, err := ParseSessionStatus(string(session.Status)); err == nil {
			session.Status = status
		}
	}
	return nil
}

func (document *SessionDocument) find(id int64) (*SessionRecord, bool) {
	for index := range document.Sessions {
		if document.Sessions[index].ID == id {
			return &document.Sessions[index], true
		}
	}
	return nil, false
}

// WarningRecord is one moderation warning.
type WarningRecord struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	ModeratorID string    `json:"moderator_id"`
	Reason      string    `json:"reason"`
	Timestamp   Timestamp `json:"timestamp"`
	GuildID     string    `json:"guild_id"`
}

// WarningDocument is the content of warnings.json.
type WarningDocument struct {
	Data []WarningRecord `json:"data"`
}

func (document *WarningDocument) Name() DocumentName { return DocumentWarnings }

func (document *WarningDocument) Reset() { document.Data = []WarningRecord{} }

func (document *WarningDocument) Normalize() error {
	if document.Data == nil {
		document.Data = []WarningRecord{}
	}
	return nil
}

// StickyDocument is the content of sticky.json.
type StickyDocument struct {
	LastStickyID string            `json:"last_sticky_id,omitempty"`
	Channels     map[string]string `json:"channels,omitempty"`
}

func (document *StickyDocument) Name() DocumentName { return DocumentSticky }

func (document *StickyDocument) Reset() {
	document.LastStickyID = ""
	document.Channels = map[string]string{}
}

func (document *StickyDocument) Normalize() error {
	if document.Channels == nil {
		document.Channels = map[string]string{}
	}
	return nil
}

// UnmarshalJSON accepts the legacy numeric message id as well as a string.
func (document *StickyDocument) UnmarshalJSON(data []byte) error {
	var raw struct {
		LastStickyID json.RawMessage   `json:"last_sticky_id"`
		Channels     map[string]string `json:"channels"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	document.Channels = raw.Channels
	document.LastStickyID = decodeMessageID(raw.LastStickyID)
	return nil
}

func decodeMessageID(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var asString string
	if err := json.Unmarshal(trimmed, &asString); err == nil {
		return strings.TrimSpace(asString)
	}
	var asNumber json.Number
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()
	if err := decoder.Decode(&asNumber); err == nil {
		if integer, err := strconv.ParseInt(asNumber.String(), 10, 64); err == nil {
			return strconv.FormatInt(integer, 10)
		}
		return asNumber.String()
	}
	return ""
}

// SettingsDocument is the content of settings.json.
type SettingsDocument struct {
	BotPrefix        string `json:"botPrefix"`
	CurrencySymbol   string `json:"currencySymbol"`
	DailyReward      int64  `json:"dailyReward"`
	WeeklyReward     int64  `json:"weeklyReward"`
	AutobanThreshold int64  `json:"autobanThreshold"`
	DefaultTimeout   int64  `json:"defaultTimeout"`
}

// DefaultSettings returns the values used when settings.json is absent.
func DefaultSettings() SettingsDocument {
	return SettingsDocument{
		BotPrefix:        "!",
		CurrencySymbol:   "$",
		DailyReward:      DailyReward,
		WeeklyReward:     WeeklyReward,
		AutobanThreshold: 5,
		DefaultTimeout:   60,
	}
}

func (document *SettingsDocument) Name() DocumentName { return DocumentSettings }

func (document *SettingsDocument) Reset() { *document = DefaultSettings() }

// Normalize fills fields a partial file left empty.
func (document *SettingsDocument) Normalize() error {
	defaults := DefaultSettings()
	if strings.TrimSpace(document.BotPrefix) == "" {
		document.BotPrefix = defaults.BotPrefix
	}
	if strings.TrimSpace(document.CurrencySymbol) == "" {
		document.CurrencySymbol = defaults.CurrencySymbol
	}
	if document.DefaultTimeout <= 0 {
		document.DefaultTimeout = defaults.DefaultTimeout
	}
	return nil
}
