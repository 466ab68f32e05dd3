package docstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MarkoPoloResearchLab/communityledger/pkg/ledger"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestStore(test *testing.T) *Store {
	test.Helper()
	clock := func() time.Time { return time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC) }
	store, err := New(test.TempDir(), WithClock(clock), WithLockPollInterval(time.Millisecond))
	if err != nil {
		test.Fatalf("store init failed: %v", err)
	}
	return store
}

func appendVehicle(document *ledger.VehicleDocument, plate string) func(context.Context) error {
	return func(context.Context) error {
		document.Vehicles = append(document.Vehicles, ledger.VehicleRecord{OwnerID: "111", Make: "Ford", Model: "F150", Color: "Red", State: "TX", Plate: plate})
		return nil
	}
}

func TestReadMissingDocumentReturnsDefault(test *testing.T) {
	test.Parallel()
	store := newTestStore(test)
	document := &ledger.EconomyDocument{}
	if err := store.Read(context.Background(), document); err != nil {
		test.Fatalf("read failed: %v", err)
	}
	if document.Users == nil || len(document.Users) != 0 {
		test.Fatalf("expected empty users map, got %#v", document.Users)
	}
	if _, err := os.Stat(store.Path(ledger.DocumentEconomy)); !errors.Is(err, os.ErrNotExist) {
		test.Fatalf("expected read to leave no file, got %v", err)
	}
}

func TestUpdateWritesIndentedDocumentAtomically(test *testing.T) {
	test.Parallel()
	store := newTestStore(test)
	document := &ledger.VehicleDocument{}
	if err := store.Update(context.Background(), document, appendVehicle(document, "ABC123")); err != nil {
		test.Fatalf("update failed: %v", err)
	}
	raw, err := os.ReadFile(store.Path(ledger.DocumentVehicles))
	if err != nil {
		test.Fatalf("read file failed: %v", err)
	}
	if !strings.HasPrefix(string(raw), "{\n  \"vehicles\": [") || !strings.Contains(string(raw), `"userId": "111"`) {
		test.Fatalf("unexpected file content:\n%s", raw)
	}
	leftovers, err := filepath.Glob(filepath.Join(store.Dir(), ".*.tmp-*"))
	if err != nil || len(leftovers) != 0 {
		test.Fatalf("expected no temp files, got %v (%v)", leftovers, err)
	}
	reloaded := &ledger.VehicleDocument{}
	if err := store.Read(context.Background(), reloaded); err != nil || len(reloaded.Vehicles) != 1 {
		test.Fatalf("expected one vehicle after reload, got %+v (%v)", reloaded, err)
	}
}

func TestUpdateErrorAndSkipLeaveFileUntouched(test *testing.T) {
	test.Parallel()
	store := newTestStore(test)
	document := &ledger.VehicleDocument{}
	if err := store.Update(context.Background(), document, appendVehicle(document, "KEEP1")); err != nil {
		test.Fatalf("seed update failed: %v", err)
	}
	before, _ := os.ReadFile(store.Path(ledger.DocumentVehicles))

	boom := errors.New("boom")
	err := store.Update(context.Background(), document, func(ctx context.Context) error {
		_ = appendVehicle(document, "LOST1")(ctx)
		return boom
	})
	if !errors.Is(err, boom) {
		test.Fatalf("expected mutate error, got %v", err)
	}
	err = store.Update(context.Background(), document, func(ctx context.Context) error {
		_ = appendVehicle(document, "LOST2")(ctx)
		return ledger.ErrSkipSave
	})
	if err != nil {
		test.Fatalf("expected skip save to succeed, got %v", err)
	}
	after, _ := os.ReadFile(store.Path(ledger.DocumentVehicles))
	if string(before) != string(after) {
		test.Fatalf("expected file unchanged, got:\n%s", after)
	}
}

func TestCorruptDocumentIsResetAndQuarantined(test *testing.T) {
	test.Parallel()
	store := newTestStore(test)
	garbage := []byte(`{"vehicles": [ {"userId": `)
	if err := os.WriteFile(store.Path(ledger.DocumentVehicles), garbage, 0o644); err != nil {
		test.Fatalf("seed failed: %v", err)
	}

	document := &ledger.VehicleDocument{}
	if err := store.Read(context.Background(), document); err != nil || len(document.Vehicles) != 0 {
		test.Fatalf("expected empty default on corrupt read, got %+v (%v)", document, err)
	}
	if raw, _ := os.ReadFile(store.Path(ledger.DocumentVehicles)); string(raw) != string(garbage) {
		test.Fatalf("expected read to leave corrupt file in place")
	}

	if err := store.Update(context.Background(), document, appendVehicle(document, "NEW1")); err != nil {
		test.Fatalf("update failed: %v", err)
	}
	quarantined, err := filepath.Glob(store.Path(ledger.DocumentVehicles) + ".corrupt-*")
	if err != nil || len(quarantined) != 1 {
		test.Fatalf("expected one quarantined file, got %v (%v)", quarantined, err)
	}
	if raw, _ := os.ReadFile(quarantined[0]); string(raw) != string(garbage) {
		test.Fatalf("expected quarantined bytes preserved, got %s", raw)
	}
	if !strings.HasSuffix(quarantined[0], ".corrupt-20250801T120000Z") {
		test.Fatalf("unexpected quarantine name %s", quarantined[0])
	}
}

func TestBackupCopiesDocument(test *testing.T) {
	test.Parallel()
	store := newTestStore(test)
	path, err := store.Backup(context.Background(), ledger.DocumentVehicles)
	if err != nil || path != "" {
		test.Fatalf("expected no backup for a missing document, got %q (%v)", path, err)
	}
	document := &ledger.VehicleDocument{}
	if err := store.Update(context.Background(), document, appendVehicle(document, "ABC123")); err != nil {
		test.Fatalf("update failed: %v", err)
	}
	path, err = store.Backup(context.Background(), ledger.DocumentVehicles)
	if err != nil {
		test.Fatalf("backup failed: %v", err)
	}
	if filepath.Base(path) != "vehicles_backup_20250801_120000.json" {
		test.Fatalf("unexpected backup name %s", path)
	}
	original, _ := os.ReadFile(store.Path(ledger.DocumentVehicles))
	copied, _ := os.ReadFile(path)
	if string(original) != string(copied) {
		test.Fatalf("expected identical backup")
	}
}

func TestConcurrentUpdatesDoNotLoseWrites(test *testing.T) {
	test.Parallel()
	store := newTestStore(test)
	const writers = 25
	var group sync.WaitGroup
	errs := make(chan error, writers)
	for index := 0; index < writers; index++ {
		group.Add(1)
		go func() {
			defer group.Done()
			document := &ledger.EconomyDocument{}
			errs <- store.Update(context.Background(), document, func(context.Context) error {
				account, ok := document.Users["111"]
				if !ok {
					account = &ledger.EconomyAccount{}
					document.Users["111"] = account
				}
				account.Balance++
				return nil
			})
		}()
	}
	group.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			test.Fatalf("update failed: %v", err)
		}
	}
	document := &ledger.EconomyDocument{}
	if err := store.Read(context.Background(), document); err != nil {
		test.Fatalf("read failed: %v", err)
	}
	if document.Users["111"].Balance != writers {
		test.Fatalf("expected balance %d, got %d", writers, document.Users["111"].Balance)
	}
}

func TestUpdateHonorsCanceledContext(test *testing.T) {
	test.Parallel()
	store := newTestStore(test)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	document := &ledger.VehicleDocument{}
	err := store.Update(ctx, document, appendVehicle(document, "ABC123"))
	if !errors.Is(err, context.Canceled) {
		test.Fatalf("expected context.Canceled, got %v", err)
	}
	var operationError ledger.OperationError
	if !errors.As(err, &operationError) || operationError.Subject() != "vehicles" || operationError.Code() != errorCodeCanceled {
		test.Fatalf("expected store.vehicles.canceled, got %v", err)
	}
	if ledger.ErrorClass(err) != ledger.ErrorClassCanceled {
		test.Fatalf("expected canceled class, got %q", ledger.ErrorClass(err))
	}
	if err := store.Read(ctx, &ledger.EconomyDocument{}); !errors.As(err, &operationError) || operationError.Code() != errorCodeCanceled {
		test.Fatalf("expected canceled read, got %v", err)
	}
}

func TestPersistenceErrorsAreClassified(test *testing.T) {
	test.Parallel()
	store := newTestStore(test)
	if err := os.Mkdir(store.Path(ledger.DocumentWarnings), 0o755); err != nil {
		test.Fatalf("seed failed: %v", err)
	}
	err := store.Read(context.Background(), &ledger.WarningDocument{})
	if !errors.Is(err, ledger.ErrPersistence) {
		test.Fatalf("expected ErrPersistence, got %v", err)
	}
	var operationError ledger.OperationError
	if !errors.As(err, &operationError) || operationError.Subject() != "warnings" || operationError.Code() != errorCodeRead {
		test.Fatalf("expected store.warnings.read, got %v", err)
	}
}
