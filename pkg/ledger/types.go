package ledger

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// UserID identifies a community member on the chat platform.
type UserID struct {
	value string
}

// NewUserID validates and normalizes a user id.
func NewUserID(raw string) (UserID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return UserID{}, fmt.Errorf("%w: empty value", ErrInvalidUserID)
	}
	return UserID{value: trimmed}, nil
}

// String returns the normalized identifier.
func (id UserID) String() string {
	return id.value
}

// IsZero reports whether the id was never set.
func (id UserID) IsZero() bool {
	return id.value == ""
}

// StateCode is an upper-case jurisdiction code from the fixed registry set.
type StateCode struct {
	value string
}

// ParseStateCode validates a state or province code.
func ParseStateCode(raw string) (StateCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if _, ok := validStates[normalized]; !ok {
		return StateCode{}, fmt.Errorf("%w: %q", ErrInvalidState, raw)
	}
	return StateCode{value: normalized}, nil
}

// String returns the normalized code.
func (code StateCode) String() string {
	return code.value
}

// ValidStateCodes returns the accepted codes in sorted order.
func ValidStateCodes() []string {
	codes := make([]string, 0, len(validStates))
	for code := range validStates {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// Plate is an upper-case license plate of 2 to 8 letters, digits or hyphens.
type Plate struct {
	value string
}

// ParsePlate validates and normalizes a license plate.
func ParsePlate(raw string) (Plate, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if !isPlateText(normalized) {
		return Plate{}, fmt.Errorf("%w: %q must be %d-%d letters, digits or hyphens", ErrInvalidPlateFormat, raw, minPlateLength, maxPlateLength)
	}
	return Plate{value: normalized}, nil
}

// String returns the normalized plate.
func (plate Plate) String() string {
	return plate.value
}

func isPlateText(value string) bool {
	if len(value) < minPlateLength || len(value) > maxPlateLength {
		return false
	}
	for _, character := range value {
		switch {
		case character >= 'A' && character <= 'Z':
		case character >= 'a' && character <= 'z':
		case character >= '0' && character <= '9':
		case character == '-':
		default:
			return false
		}
	}
	return true
}

func normalizeVehicleField(name string, raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: %s cannot be empty", ErrInvalidField, name)
	}
	if utf8.RuneCountInString(trimmed) > maxVehicleFieldLength {
		return "", fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidField, name, maxVehicleFieldLength)
	}
	return trimmed, nil
}

// AmountSpec is either a concrete positive amount or "everything available".
type AmountSpec struct {
	all    bool
	amount int64
}

// ParseAmountSpec accepts "all" or an integer with optional thousands commas.
func ParseAmountSpec(raw string) (AmountSpec, error) {
	trimmed := strings.TrimSpace(raw)
	if strings.EqualFold(trimmed, amountSpecAll) {
		return AmountSpec{all: true}, nil
	}
	amount, err := strconv.ParseInt(strings.ReplaceAll(trimmed, ",", ""), 10, 64)
	if err != nil {
		return AmountSpec{}, fmt.Errorf("%w: use a number or %q", ErrInvalidAmount, amountSpecAll)
	}
	if amount <= 0 {
		return AmountSpec{}, fmt.Errorf("%w: must be positive", ErrInvalidAmount)
	}
	return AmountSpec{amount: amount}, nil
}

// AllFunds means "move everything available".
func AllFunds() AmountSpec {
	return AmountSpec{all: true}
}

// ExactAmount moves a fixed amount.
func ExactAmount(amount int64) AmountSpec {
	return AmountSpec{amount: amount}
}

func (spec AmountSpec) resolve(available int64) (int64, error) {
	amount := spec.amount
	if spec.all {
		amount = available
	}
	if amount <= 0 {
		return 0, fmt.Errorf("%w: must be positive", ErrInvalidAmount)
	}
	return amount, nil
}

// SessionStatus tracks the lifecycle of a roleplay session.
type SessionStatus string

const (
	SessionSettingUp   SessionStatus = "Setting Up"
	SessionEarlyAccess SessionStatus = "Early Access"
	SessionPublic      SessionStatus = "Public"
	SessionEnded       SessionStatus = "Ended"
)

// ParseSessionStatus accepts the display value or a compact alias such as "early_access".
func ParseSessionStatus(raw string) (SessionStatus, error) {
	compact := strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(raw)))
	switch compact {
	case "settingup":
		return SessionSettingUp, nil
	case "earlyaccess":
		return SessionEarlyAccess, nil
	case "public":
		return SessionPublic, nil
	case "ended":
		return SessionEnded, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSessionStatus, raw)
	}
}

// String returns the persisted display value.
func (status SessionStatus) String() string {
	return string(status)
}

// CooldownKind names a cooldown-gated claim.
type CooldownKind string

const (
	CooldownDaily  CooldownKind = "daily"
	CooldownWeekly CooldownKind = "weekly"
	CooldownWork   CooldownKind = "work"
)

// Requester is a caller whose privilege has already been resolved by a front end.
type Requester struct {
	User       UserID
	Privileged bool
}

// PermissionOracle answers whether a user holds elevated privileges.
type PermissionOracle interface {
	IsPrivileged(ctx context.Context, user UserID) (bool, error)
}

// PermissionFunc adapts a function to PermissionOracle.
type PermissionFunc func(ctx context.Context, user UserID) (bool, error)

// IsPrivileged calls the function.
func (fn PermissionFunc) IsPrivileged(ctx context.Context, user UserID) (bool, error) {
	return fn(ctx, user)
}

// ResolveRequester asks the oracle about user. A nil oracle grants nothing.
func ResolveRequester(ctx context.Context, oracle PermissionOracle, user UserID) (Requester, error) {
	if oracle == nil {
		return Requester{User: user}, nil
	}
	privileged, err := oracle.IsPrivileged(ctx, user)
	if err != nil {
		return Requester{}, err
	}
	return Requester{User: user, Privileged: privileged}, nil
}

// DocumentName identifies a persisted JSON document.
type DocumentName string

const (
	DocumentVehicles DocumentName = "vehicles"
	DocumentEconomy  DocumentName = "economy"
	DocumentSessions DocumentName = "sessions"
	DocumentWarnings DocumentName = "warnings"
	DocumentSticky   DocumentName = "sticky"
	DocumentSettings DocumentName = "settings"
)

// FileName returns the on-disk file name.
func (name DocumentName) FileName() string {
	return string(name) + ".json"
}

// KnownDocuments lists every document the ledgers own.
func KnownDocuments() []DocumentName {
	return []DocumentName{DocumentVehicles, DocumentEconomy, DocumentSessions, DocumentWarnings, DocumentSticky, DocumentSettings}
}
