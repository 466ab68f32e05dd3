package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/MarkoPoloResearchLab/communityledger/pkg/ledger"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type steppingClock struct {
	current time.Time
}

func (clock *steppingClock) Now() time.Time {
	clock.current = clock.current.Add(time.Second)
	return clock.current
}

func newTestStore(test *testing.T) *Store {
	test.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(test.TempDir(), "audit.db")), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		test.Fatalf("open sqlite: %v", err)
	}
	test.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	clock := &steppingClock{current: time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)}
	store := New(db, WithClock(clock.Now))
	if err := store.Migrate(context.Background()); err != nil {
		test.Fatalf("migrate: %v", err)
	}
	return store
}

func TestLogOperationPersistsRecords(test *testing.T) {
	test.Parallel()
	store := newTestStore(test)
	ctx := context.Background()
	store.LogOperation(ctx, ledger.OperationLog{
		Operation: "economy.pay",
		Document:  ledger.DocumentEconomy,
		UserID:    "111",
		Subject:   "222",
		Amount:    150,
		Status:    ledger.OperationStatusOK,
	})
	store.LogOperation(ctx, ledger.OperationLog{
		Operation: "economy.work",
		Document:  ledger.DocumentEconomy,
		UserID:    "111",
		Status:    ledger.OperationStatusError,
		Error:     &ledger.CooldownError{Kind: ledger.CooldownWork, NextEligibleAt: time.Date(2025, 8, 1, 13, 0, 0, 0, time.UTC)},
	})
	store.LogOperation(ctx, ledger.OperationLog{
		Operation: "vehicle.register",
		Document:  ledger.DocumentVehicles,
		UserID:    "333",
		Status:    ledger.OperationStatusOK,
	})

	records, err := store.ListOperations(ctx, OperationQuery{})
	if err != nil {
		test.Fatalf("list: %v", err)
	}
	if len(records) != 3 {
		test.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Operation != "vehicle.register" || records[2].Operation != "economy.pay" {
		test.Fatalf("expected newest first, got %s .. %s", records[0].Operation, records[2].Operation)
	}
	if records[2].RecordID == "" || records[2].Amount != 150 || records[2].Subject != "222" {
		test.Fatalf("unexpected payment record %+v", records[2])
	}

	failed := records[1]
	if failed.Status != ledger.OperationStatusError || failed.Error == "" {
		test.Fatalf("expected failed record, got %+v", failed)
	}
	var metadata map[string]string
	if err := json.Unmarshal(failed.Metadata, &metadata); err != nil {
		test.Fatalf("decode metadata: %v", err)
	}
	if metadata["error_class"] != ledger.ErrorClassConflict || metadata["next_eligible_at"] != "2025-08-01T13:00:00Z" {
		test.Fatalf("unexpected metadata %v", metadata)
	}
}

func TestListOperationsFilters(test *testing.T) {
	test.Parallel()
	store := newTestStore(test)
	ctx := context.Background()
	for _, userID := range []string{"111", "222", "111", "111"} {
		store.LogOperation(ctx, ledger.OperationLog{Operation: "economy.daily", Document: ledger.DocumentEconomy, UserID: userID, Status: ledger.OperationStatusOK})
	}
	store.LogOperation(ctx, ledger.OperationLog{Operation: "warning.add", Document: ledger.DocumentWarnings, UserID: "111", Status: ledger.OperationStatusOK})

	cases := []struct {
		name     string
		query    OperationQuery
		expected int
	}{
		{name: "all", query: OperationQuery{}, expected: 5},
		{name: "document", query: OperationQuery{Document: ledger.DocumentEconomy}, expected: 4},
		{name: "user", query: OperationQuery{UserID: "111"}, expected: 4},
		{name: "user and document", query: OperationQuery{UserID: "111", Document: ledger.DocumentEconomy}, expected: 3},
		{name: "status", query: OperationQuery{Status: ledger.OperationStatusError}, expected: 0},
		{name: "limit", query: OperationQuery{Limit: 2}, expected: 2},
	}
	for _, tc := range cases {
		tc := tc
		test.Run(tc.name, func(test *testing.T) {
			records, err := store.ListOperations(ctx, tc.query)
			if err != nil {
				test.Fatalf("list: %v", err)
			}
			if len(records) != tc.expected {
				test.Fatalf("expected %d records, got %d", tc.expected, len(records))
			}
		})
	}
}

func TestAppendDuplicateIDIsConflict(test *testing.T) {
	test.Parallel()
	store := newTestStore(test)
	ctx := context.Background()
	first := OperationRecord{RecordID: "8d0d6bc4-4d2c-4a55-9a65-4d8f4c6f2a10", Operation: "session.create", Document: string(ledger.DocumentSessions), Status: ledger.OperationStatusOK}
	if err := store.Append(ctx, &first); err != nil {
		test.Fatalf("first append: %v", err)
	}
	second := first
	err := store.Append(ctx, &second)
	if !errors.Is(err, ledger.ErrConflict) {
		test.Fatalf("expected conflict, got %v", err)
	}
	var operationError ledger.OperationError
	if !errors.As(err, &operationError) || operationError.Code() != errorCodeDuplicate {
		test.Fatalf("expected duplicate code, got %v", err)
	}
}

func TestListAfterCloseIsPersistenceError(test *testing.T) {
	test.Parallel()
	store := newTestStore(test)
	sqlDB, err := store.db.DB()
	if err != nil {
		test.Fatalf("db handle: %v", err)
	}
	_ = sqlDB.Close()
	_, err = store.ListOperations(context.Background(), OperationQuery{})
	if !errors.Is(err, ledger.ErrPersistence) {
		test.Fatalf("expected persistence error, got %v", err)
	}
}
