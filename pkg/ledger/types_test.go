package ledger

import (
	"context"
	"errors"
	"testing"
)

func TestNewUserID(test *testing.T) {
	test.Parallel()
	cases := []struct {
		name    string
		input   string
		wantErr error
		wantVal string
	}{
		{name: "valid", input: " 123456789 ", wantVal: "123456789"},
		{name: "empty", input: "   ", wantErr: ErrInvalidUserID},
	}
	for _, tc := range cases {
		tc := tc
		test.Run(tc.name, func(test *testing.T) {
			test.Parallel()
			result, err := NewUserID(tc.input)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					test.Fatalf("expected error %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				test.Fatalf("unexpected error: %v", err)
			}
			if result.String() != tc.wantVal {
				test.Fatalf("expected %q, got %q", tc.wantVal, result.String())
			}
		})
	}
}

func TestParseStateCode(test *testing.T) {
	test.Parallel()
	cases := []struct {
		name    string
		input   string
		wantErr error
		wantVal string
	}{
		{name: "us state", input: "tx", wantVal: "TX"},
		{name: "province", input: " on ", wantVal: "ON"},
		{name: "unknown", input: "ZZ", wantErr: ErrInvalidState},
		{name: "empty", input: "", wantErr: ErrInvalidState},
	}
	for _, tc := range cases {
		tc := tc
		test.Run(tc.name, func(test *testing.T) {
			test.Parallel()
			result, err := ParseStateCode(tc.input)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					test.Fatalf("expected error %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil || result.String() != tc.wantVal {
				test.Fatalf("expected %q, got %q (%v)", tc.wantVal, result.String(), err)
			}
		})
	}
	if got := len(ValidStateCodes()); got != 63 {
		test.Fatalf("expected 63 codes, got %d", got)
	}
}

func TestParsePlate(test *testing.T) {
	test.Parallel()
	cases := []struct {
		name    string
		input   string
		wantErr bool
		wantVal string
	}{
		{name: "mixed case", input: "abc123", wantVal: "ABC123"},
		{name: "hyphen", input: "AB-12", wantVal: "AB-12"},
		{name: "minimum", input: "a1", wantVal: "A1"},
		{name: "too short", input: "A", wantErr: true},
		{name: "too long", input: "ABCDEFGHI", wantErr: true},
		{name: "space", input: "AB 12", wantErr: true},
		{name: "symbol", input: "AB$12", wantErr: true},
		{name: "non ascii", input: "ÄB12", wantErr: true},
	}
	for _, tc := range cases {
		tc := tc
		test.Run(tc.name, func(test *testing.T) {
			test.Parallel()
			result, err := ParsePlate(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidPlateFormat) {
					test.Fatalf("expected ErrInvalidPlateFormat, got %v", err)
				}
				return
			}
			if err != nil || result.String() != tc.wantVal {
				test.Fatalf("expected %q, got %q (%v)", tc.wantVal, result.String(), err)
			}
		})
	}
}

func TestParseAmountSpec(test *testing.T) {
	test.Parallel()
	cases := []struct {
		name      string
		input     string
		wantErr   bool
		available int64
		want      int64
	}{
		{name: "plain", input: "500", available: 1000, want: 500},
		{name: "commas", input: "1,500", available: 2000, want: 1500},
		{name: "all", input: "ALL", available: 750, want: 750},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "-5", wantErr: true},
		{name: "garbage", input: "lots", wantErr: true},
	}
	for _, tc := range cases {
		tc := tc
		test.Run(tc.name, func(test *testing.T) {
			test.Parallel()
			spec, err := ParseAmountSpec(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					test.Fatalf("expected ErrInvalidAmount, got %v", err)
				}
				return
			}
			if err != nil {
				test.Fatalf("unexpected error: %v", err)
			}
			resolved, err := spec.resolve(tc.available)
			if err != nil || resolved != tc.want {
				test.Fatalf("expected %d, got %d (%v)", tc.want, resolved, err)
			}
		})
	}
	if _, err := AllFunds().resolve(0); !errors.Is(err, ErrInvalidAmount) {
		test.Fatalf("expected all of nothing to be rejected, got %v", err)
	}
}

func TestParseSessionStatus(test *testing.T) {
	test.Parallel()
	cases := map[string]SessionStatus{
		"Setting Up":   SessionSettingUp,
		"early_access": SessionEarlyAccess,
		"PUBLIC":       SessionPublic,
		"ended":        SessionEnded,
	}
	for input, want := range cases {
		got, err := ParseSessionStatus(input)
		if err != nil || got != want {
			test.Fatalf("%q: expected %q, got %q (%v)", input, want, got, err)
		}
	}
	if _, err := ParseSessionStatus("paused"); !errors.Is(err, ErrInvalidSessionStatus) {
		test.Fatalf("expected ErrInvalidSessionStatus, got %v", err)
	}
}

func TestResolveRequester(test *testing.T) {
	test.Parallel()
	user := mustUserID(test, "42")
	requester, err := ResolveRequester(context.Background(), nil, user)
	if err != nil || requester.Privileged {
		test.Fatalf("expected unprivileged requester without oracle, got %+v (%v)", requester, err)
	}
	oracle := PermissionFunc(func(_ context.Context, candidate UserID) (bool, error) {
		return candidate == user, nil
	})
	requester, err = ResolveRequester(context.Background(), oracle, user)
	if err != nil || !requester.Privileged {
		test.Fatalf("expected privileged requester, got %+v (%v)", requester, err)
	}
	failing := PermissionFunc(func(context.Context, UserID) (bool, error) {
		return false, errors.New("role lookup failed")
	})
	if _, err := ResolveRequester(context.Background(), failing, user); err == nil {
		test.Fatalf("expected oracle error")
	}
}
