package ledger

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// WarningLedger manages warnings.json. Records are never edited or removed.
type WarningLedger struct {
	service *Service
}

// WarningRequest is the raw input for Add.
type WarningRequest struct {
	User      UserID
	Moderator UserID
	Reason    string
	Guild     string
}

// IssuedWarning is a stored warning plus the user's running total.
type IssuedWarning struct {
	Warning   WarningRecord
	UserTotal int
}

// Add appends a warning with id = count + 1.
func (ledger *WarningLedger) Add(ctx context.Context, request WarningRequest) (IssuedWarning, error) {
	var issued IssuedWarning
	reason, err := validateWarningRequest(request)
	if err == nil {
		document := &WarningDocument{}
		err = ledger.service.update(ctx, document, func(context.Context) error {
			record := WarningRecord{
				ID:          int64(len(document.Data)) + 1,
				UserID:      request.User.String(),
				ModeratorID: request.Moderator.String(),
				Reason:      reason,
				Timestamp:   NewTimestamp(ledger.service.now()),
				GuildID:     strings.TrimSpace(request.Guild),
			}
			document.Data = append(document.Data, record)
			issued = IssuedWarning{Warning: record, UserTotal: countWarnings(document.Data, record.UserID)}
			return nil
		})
	}
	ledger.service.logOperation(ctx, OperationLog{
		Operation: operationAddWarning,
		Document:  DocumentWarnings,
		UserID:    request.User.String(),
		Subject:   request.Moderator.String(),
		Error:     err,
	})
	if err != nil {
		return IssuedWarning{}, err
	}
	return issued, nil
}

func validateWarningRequest(request WarningRequest) (string, error) {
	if request.User.IsZero() || request.Moderator.IsZero() {
		return "", fmt.Errorf("%w: empty value", ErrInvalidUserID)
	}
	reason := strings.TrimSpace(request.Reason)
	if reason == "" {
		return "", fmt.Errorf("%w: cannot be empty", ErrInvalidReason)
	}
	if utf8.RuneCountInString(reason) > maxWarningReasonLength {
		return "", fmt.Errorf("%w: exceeds %d characters", ErrInvalidReason, maxWarningReasonLength)
	}
	return reason, nil
}

func countWarnings(records []WarningRecord, userID string) int {
	total := 0
	for _, record := range records {
		if record.UserID == userID {
			total++
		}
	}
	return total
}

// ListFor returns the user's warnings in insertion order.
func (ledger *WarningLedger) ListFor(ctx context.Context, user UserID) ([]WarningRecord, error) {
	document := &WarningDocument{}
	if err := ledger.service.store.Read(ctx, document); err != nil {
		return nil, err
	}
	warnings := make([]WarningRecord, 0)
	for _, record := range document.Data {
		if record.UserID == user.String() {
			warnings = append(warnings, record)
		}
	}
	return warnings, nil
}

// Recent returns up to limit of the newest warnings, newest last.
func (ledger *WarningLedger) Recent(ctx context.Context, limit int) ([]WarningRecord, error) {
	document := &WarningDocument{}
	if err := ledger.service.store.Read(ctx, document); err != nil {
		return nil, err
	}
	if limit > 0 && len(document.Data) > limit {
		return document.Data[len(document.Data)-limit:], nil
	}
	return document.Data, nil
}

// Count returns the total number of warnings ever issued.
func (ledger *WarningLedger) Count(ctx context.Context) (int, error) {
	document := &WarningDocument{}
	if err := ledger.service.store.Read(ctx, document); err != nil {
		return 0, err
	}
	return len(document.Data), nil
}
