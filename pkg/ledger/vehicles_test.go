package ledger

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRegisterVehicleNormalizesAndRejectsDuplicates(test *testing.T) {
	test.Parallel()
	store := newMemStore()
	service := newTestService(test, store, newTestClock())
	record := mustRegister(test, service, "111", " Ford ", "Explorer", "Blue", "tx", "abc123")
	if record.Plate != "ABC123" || record.State != "TX" || record.Make != "Ford" {
		test.Fatalf("expected normalized record, got %+v", record)
	}
	_, err := service.Vehicles().Register(context.Background(), VehicleRegistration{
		Owner: mustUserID(test, "222"), Make: "Chevy", Model: "Tahoe", Color: "Black", State: "TX", Plate: "ABC123",
	})
	if !errors.Is(err, ErrDuplicatePlate) || !errors.Is(err, ErrConflict) {
		test.Fatalf("expected ErrDuplicatePlate, got %v", err)
	}
	sameplateOtherState := mustRegister(test, service, "222", "Chevy", "Tahoe", "Black", "OK", "ABC123")
	if sameplateOtherState.State != "OK" {
		test.Fatalf("expected plate to be reusable across states, got %+v", sameplateOtherState)
	}
	removed, err := service.Vehicles().PurgeTestRecords(context.Background())
	if err != nil || removed != 0 {
		test.Fatalf("expected nothing purged, got %d (%v)", removed, err)
	}
}

func TestRegisterVehicleValidationLeavesLedgerUntouched(test *testing.T) {
	test.Parallel()
	cases := []struct {
		name         string
		registration VehicleRegistration
		wantErr      error
	}{
		{name: "state", registration: VehicleRegistration{Make: "Ford", Model: "F150", Color: "Red", State: "XX", Plate: "AB12"}, wantErr: ErrInvalidState},
		{name: "plate", registration: VehicleRegistration{Make: "Ford", Model: "F150", Color: "Red", State: "TX", Plate: "A"}, wantErr: ErrInvalidPlateFormat},
		{name: "empty make", registration: VehicleRegistration{Make: "  ", Model: "F150", Color: "Red", State: "TX", Plate: "AB12"}, wantErr: ErrInvalidField},
		{name: "long color", registration: VehicleRegistration{Make: "Ford", Model: "F150", Color: strings.Repeat("r", 21), State: "TX", Plate: "AB12"}, wantErr: ErrInvalidField},
	}
	for _, tc := range cases {
		tc := tc
		test.Run(tc.name, func(test *testing.T) {
			test.Parallel()
			store := newMemStore()
			service := newTestService(test, store, newTestClock())
			tc.registration.Owner = mustUserID(test, "111")
			_, err := service.Vehicles().Register(context.Background(), tc.registration)
			if !errors.Is(err, tc.wantErr) || !errors.Is(err, ErrValidation) {
				test.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if store.writeCount() != 0 {
				test.Fatalf("expected no writes, got %d", store.writeCount())
			}
		})
	}
}

func TestTransferVehicle(test *testing.T) {
	test.Parallel()
	service := newTestService(test, newMemStore(), newTestClock())
	mustRegister(test, service, "111", "Ford", "Explorer", "Blue", "TX", "ABC123")
	transfer, err := service.Vehicles().Transfer(context.Background(), "abc123", "tx", mustUserID(test, "222"))
	if err != nil {
		test.Fatalf("transfer failed: %v", err)
	}
	if transfer.PreviousOwner != "111" || transfer.Vehicle.OwnerID != "222" {
		test.Fatalf("unexpected transfer: %+v", transfer)
	}
	owned, err := service.Vehicles().ListByOwner(context.Background(), mustUserID(test, "222"))
	if err != nil || len(owned) != 1 {
		test.Fatalf("expected new owner to hold the vehicle, got %v (%v)", owned, err)
	}
	_, err = service.Vehicles().Transfer(context.Background(), "NOPE", "TX", mustUserID(test, "222"))
	if !errors.Is(err, ErrVehicleNotFound) {
		test.Fatalf("expected ErrVehicleNotFound, got %v", err)
	}
}

func TestSearchVehicles(test *testing.T) {
	test.Parallel()
	service := newTestService(test, newMemStore(), newTestClock())
	mustRegister(test, service, "111", "Ford", "Explorer", "Blue", "TX", "ABC123")
	mustRegister(test, service, "222", "Dodge", "Charger", "Blue", "CA", "XYZ9")
	mustRegister(test, service, "111", "Ford", "Mustang", "Red", "CA", "FAST1")
	cases := []struct {
		name   string
		query  string
		filter VehicleFilter
		want   []string
	}{
		{name: "empty query", query: "", want: []string{"ABC123", "XYZ9", "FAST1"}},
		{name: "color", query: "BLUE", want: []string{"ABC123", "XYZ9"}},
		{name: "plate fragment", query: "xyz", want: []string{"XYZ9"}},
		{name: "cross field", query: "ford mustang", want: []string{"FAST1"}},
		{name: "state filter", query: "ford", filter: VehicleFilter{State: "ca"}, want: []string{"FAST1"}},
		{name: "owner filter", query: "", filter: VehicleFilter{Owner: "111"}, want: []string{"ABC123", "FAST1"}},
		{name: "no match", query: "tesla", want: []string{}},
	}
	for _, tc := range cases {
		tc := tc
		test.Run(tc.name, func(test *testing.T) {
			test.Parallel()
			results, err := service.Vehicles().Search(context.Background(), tc.query, tc.filter)
			if err != nil {
				test.Fatalf("search failed: %v", err)
			}
			if len(results) != len(tc.want) {
				test.Fatalf("expected %v, got %+v", tc.want, results)
			}
			for index, plate := range tc.want {
				if results[index].Plate != plate {
					test.Fatalf("expected %v in order, got %+v", tc.want, results)
				}
			}
		})
	}
}

func TestLookupAndRemoveVehicle(test *testing.T) {
	test.Parallel()
	service := newTestService(test, newMemStore(), newTestClock())
	mustRegister(test, service, "111", "Ford", "Explorer", "Blue", "TX", "ABC123")
	mustRegister(test, service, "222", "Dodge", "Charger", "Blue", "CA", "ABC123")
	matches, err := service.Vehicles().Lookup(context.Background(), "abc123", "")
	if err != nil || len(matches) != 2 {
		test.Fatalf("expected two matches, got %v (%v)", matches, err)
	}
	matches, err = service.Vehicles().Lookup(context.Background(), "ABC123", "ca")
	if err != nil || len(matches) != 1 || matches[0].OwnerID != "222" {
		test.Fatalf("expected the CA match, got %v (%v)", matches, err)
	}
	removed, err := service.Vehicles().Remove(context.Background(), "ABC123", "TX")
	if err != nil || removed.OwnerID != "111" {
		test.Fatalf("expected removal of TX record, got %+v (%v)", removed, err)
	}
	if _, err := service.Vehicles().Lookup(context.Background(), "ABC123", "TX"); !errors.Is(err, ErrVehicleNotFound) {
		test.Fatalf("expected ErrVehicleNotFound after removal, got %v", err)
	}
	if _, err := service.Vehicles().Remove(context.Background(), "ABC123", "TX"); !errors.Is(err, ErrVehicleNotFound) {
		test.Fatalf("expected ErrVehicleNotFound on second removal, got %v", err)
	}
}

func TestPurgeTestRecords(test *testing.T) {
	test.Parallel()
	service := newTestService(test, newMemStore(), newTestClock())
	mustRegister(test, service, "111", "Test", "Explorer", "Blue", "TX", "AB1")
	mustRegister(test, service, "111", "Ford", "TEST", "Blue", "TX", "AB2")
	mustRegister(test, service, "111", "Ford", "Explorer", "Blue", "TX", "test")
	mustRegister(test, service, "111", "Ford", "Tester", "Blue", "TX", "AB3")
	removed, err := service.Vehicles().PurgeTestRecords(context.Background())
	if err != nil || removed != 3 {
		test.Fatalf("expected 3 purged, got %d (%v)", removed, err)
	}
	remaining, err := service.Vehicles().List(context.Background())
	if err != nil || len(remaining) != 1 || remaining[0].Plate != "AB3" {
		test.Fatalf("expected only AB3 to remain, got %v (%v)", remaining, err)
	}
}

func TestVehicleStats(test *testing.T) {
	test.Parallel()
	clock := newTestClock()
	service := newTestService(test, newMemStore(), clock)
	mustRegister(test, service, "111", "ford", "Explorer", "blue", "TX", "OLD1")
	clock.Advance(10 * 24 * time.Hour)
	mustRegister(test, service, "222", "Ford", "Mustang", "Blue", "TX", "NEW1")
	mustRegister(test, service, "333", "Dodge", "Charger", "red", "CA", "NEW2")
	stats, err := service.Vehicles().Stats(context.Background())
	if err != nil {
		test.Fatalf("stats failed: %v", err)
	}
	if stats.Total != 3 || stats.PerState["TX"] != 2 || stats.PerState["CA"] != 1 {
		test.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.Recent != 2 {
		test.Fatalf("expected 2 recent registrations, got %d", stats.Recent)
	}
	if stats.TopMakes[0] != (CountEntry{Key: "Ford", Count: 2}) || stats.TopColors[0] != (CountEntry{Key: "Blue", Count: 2}) {
		test.Fatalf("expected title-cased tallies, got makes=%v colors=%v", stats.TopMakes, stats.TopColors)
	}
	if stats.TopStates[0].Key != "TX" || stats.TopStates[1].Key != "CA" {
		test.Fatalf("unexpected state ranking: %v", stats.TopStates)
	}
}

func TestRepairVehicles(test *testing.T) {
	test.Parallel()
	store := newMemStore()
	store.put(test, DocumentVehicles, `{"vehicles":[
		{"userId":"111","make":" Ford ","model":"Explorer","color":"Blue","state":"tx","plate":"abc123","registeredAt":"2025-07-01T10:00:00.123456"},
		{"userId":"222","make":"Ford","model":"Explorer","color":"Blue","state":"TX","plate":"ABC123","registeredAt":"2025-07-02T10:00:00"},
		{"userId":"","make":"Ford","model":"Explorer","color":"Blue","state":"TX","plate":"EMPTY1","registeredAt":"2025-07-02T10:00:00"},
		{"userId":"333","make":"Ford","model":"Explorer","color":"Blue","state":"ZZ","plate":"LEGACY","registeredAt":"2025-07-02T10:00:00"},
		{"userId":"444","make":"Ford","model":"Explorer","color":"Blue","state":"TX","plate":"BAD PLATE","registeredAt":"2025-07-02T10:00:00"},
		{"userId":"555","make":"Ford","model":"Explorer","color":"Blue","state":"TX","plate":"NODATE","registeredAt":"yesterday"},
		{"userId":"666","make":"Ford","model":"ExplorerSportTracAdvX","color":"Blue","state":"TX","plate":"LONG21","registeredAt":"2025-07-02T10:00:00"}
	]}`)
	service := newTestService(test, store, newTestClock())
	report, err := service.Vehicles().Repair(context.Background())
	if err != nil {
		test.Fatalf("repair failed: %v", err)
	}
	if report.Kept != 2 || report.Dropped != 5 || report.BackupPath == "" {
		test.Fatalf("unexpected report: %+v", report)
	}
	vehicles, err := service.Vehicles().List(context.Background())
	if err != nil {
		test.Fatalf("list failed: %v", err)
	}
	if vehicles[0].OwnerID != "111" || vehicles[0].Make != "Ford" || vehicles[0].Plate != "ABC123" || vehicles[0].State != "TX" {
		test.Fatalf("expected first duplicate kept and normalized, got %+v", vehicles[0])
	}
	if vehicles[1].State != "ZZ" {
		test.Fatalf("expected legacy state to survive repair, got %+v", vehicles[1])
	}
}
