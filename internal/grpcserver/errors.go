package grpcserver

import (
	"context"
	"errors"
	"time"

	"github.com/MarkoPoloResearchLab/communityledger/pkg/ledger"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"
)

const (
	errorInvalidUserID        = "invalid_user_id"
	errorInvalidState         = "invalid_state"
	errorInvalidPlate         = "invalid_plate"
	errorInvalidField         = "invalid_field"
	errorInvalidAmount        = "invalid_amount"
	errorSelfPayment          = "self_payment"
	errorBotRecipient         = "bot_recipient"
	errorInvalidAdjustment    = "invalid_adjustment"
	errorInvalidSessionID     = "invalid_session_id"
	errorInvalidSessionStatus = "invalid_session_status"
	errorInvalidSessionLink   = "invalid_session_link"
	errorInvalidReason        = "invalid_reason"
	errorInvalidSettings      = "invalid_settings"
	errorInvalidArgument      = "invalid_argument"
	errorVehicleNotFound      = "vehicle_not_found"
	errorSessionNotFound      = "session_not_found"
	errorNotFound             = "not_found"
	errorDuplicatePlate       = "duplicate_plate"
	errorAlreadyJoined        = "already_joined"
	errorNotJoined            = "not_joined"
	errorAlreadyClaimed       = "already_claimed"
	errorOnCooldown           = "on_cooldown"
	errorInsufficientFunds    = "insufficient_funds"
	errorConflict             = "conflict"
	errorNotAuthorized        = "not_authorized"
	errorInternal             = "internal_error"
)

type errorMapping struct {
	target  error
	code    codes.Code
	message string
}

// Specific errors are checked before the class fallbacks below them.
var errorMappings = []errorMapping{
	{target: ledger.ErrInvalidUserID, code: codes.InvalidArgument, message: errorInvalidUserID},
	{target: ledger.ErrInvalidState, code: codes.InvalidArgument, message: errorInvalidState},
	{target: ledger.ErrInvalidPlateFormat, code: codes.InvalidArgument, message: errorInvalidPlate},
	{target: ledger.ErrInvalidField, code: codes.InvalidArgument, message: errorInvalidField},
	{target: ledger.ErrInvalidAmount, code: codes.InvalidArgument, message: errorInvalidAmount},
	{target: ledger.ErrSelfPayment, code: codes.InvalidArgument, message: errorSelfPayment},
	{target: ledger.ErrBotRecipient, code: codes.InvalidArgument, message: errorBotRecipient},
	{target: ledger.ErrInvalidAdjustment, code: codes.InvalidArgument, message: errorInvalidAdjustment},
	{target: ledger.ErrInvalidSessionID, code: codes.InvalidArgument, message: errorInvalidSessionID},
	{target: ledger.ErrInvalidSessionStatus, code: codes.InvalidArgument, message: errorInvalidSessionStatus},
	{target: ledger.ErrInvalidSessionLink, code: codes.InvalidArgument, message: errorInvalidSessionLink},
	{target: ledger.ErrInvalidReason, code: codes.InvalidArgument, message: errorInvalidReason},
	{target: ledger.ErrInvalidSettings, code: codes.InvalidArgument, message: errorInvalidSettings},
	{target: ledger.ErrValidation, code: codes.InvalidArgument, message: errorInvalidArgument},
	{target: ledger.ErrVehicleNotFound, code: codes.NotFound, message: errorVehicleNotFound},
	{target: ledger.ErrSessionNotFound, code: codes.NotFound, message: errorSessionNotFound},
	{target: ledger.ErrNotFound, code: codes.NotFound, message: errorNotFound},
	{target: ledger.ErrDuplicatePlate, code: codes.AlreadyExists, message: errorDuplicatePlate},
	{target: ledger.ErrAlreadyJoined, code: codes.AlreadyExists, message: errorAlreadyJoined},
	{target: ledger.ErrNotJoined, code: codes.FailedPrecondition, message: errorNotJoined},
	{target: ledger.ErrAlreadyClaimed, code: codes.FailedPrecondition, message: errorAlreadyClaimed},
	{target: ledger.ErrOnCooldown, code: codes.FailedPrecondition, message: errorOnCooldown},
	{target: ledger.ErrInsufficientFunds, code: codes.FailedPrecondition, message: errorInsufficientFunds},
	{target: ledger.ErrConflict, code: codes.FailedPrecondition, message: errorConflict},
	{target: ledger.ErrPermission, code: codes.PermissionDenied, message: errorNotAuthorized},
}

// mapToGRPCError converts ledger errors into gRPC statuses. Persistence and
// unknown failures become Internal without leaking their detail.
func mapToGRPCError(source error, now time.Time) error {
	if source == nil {
		return nil
	}
	switch {
	case errors.Is(source, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, context.DeadlineExceeded.Error())
	case errors.Is(source, context.Canceled):
		return status.Error(codes.Canceled, context.Canceled.Error())
	}
	for _, mapping := range errorMappings {
		if !errors.Is(source, mapping.target) {
			continue
		}
		grpcStatus := status.New(mapping.code, mapping.message)
		var cooldownError *ledger.CooldownError
		if errors.As(source, &cooldownError) {
			retry := &errdetails.RetryInfo{RetryDelay: durationpb.New(cooldownError.RetryAfter(now))}
			if detailed, err := grpcStatus.WithDetails(retry); err == nil {
				grpcStatus = detailed
			}
		}
		return grpcStatus.Err()
	}
	return status.Error(codes.Internal, errorInternal)
}
