package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MarkoPoloResearchLab/communityledger/pkg/ledger"
	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultMetadataJSON   = "{}"
	defaultListLimit      = 50
	maxListLimit          = 500
	pgUniqueViolationCode = "23505"
	sqliteConstraintCode  = 19
	errorOperationStore   = "store"
	errorSubjectOperation = "operation_record"
	errorCodeDuplicate    = "duplicate"
	errorCodeInsert       = "insert"
	errorCodeList         = "list"
	errorCodeMigrate      = "migrate"
)

// Store is the SQL journal of ledger operations. It implements
// ledger.OperationLogger so the service can write to it directly.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
	nowFn  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger reports journal write failures, which LogOperation cannot return.
func WithLogger(logger *zap.Logger) Option {
	return func(store *Store) {
		if logger != nil {
			store.logger = logger
		}
	}
}

// WithClock replaces the time source for records without a timestamp.
func WithClock(now func() time.Time) Option {
	return func(store *Store) {
		if now != nil {
			store.nowFn = now
		}
	}
}

// New returns a Store backed by gorm.DB.
func New(db *gorm.DB, options ...Option) *Store {
	store := &Store{db: db, logger: zap.NewNop(), nowFn: time.Now}
	for _, option := range options {
		if option != nil {
			option(store)
		}
	}
	return store
}

// Migrate creates or updates the journal schema.
func (store *Store) Migrate(ctx context.Context) error {
	if err := store.db.WithContext(ctx).AutoMigrate(&OperationRecord{}); err != nil {
		return wrapStoreError(errorSubjectOperation, errorCodeMigrate, err)
	}
	return nil
}

// LogOperation appends entry to the journal. Failures are logged, never returned,
// so auditing cannot fail a ledger operation.
func (store *Store) LogOperation(ctx context.Context, entry ledger.OperationLog) {
	record := OperationRecord{
		Operation: entry.Operation,
		Document:  string(entry.Document),
		UserID:    entry.UserID,
		Subject:   entry.Subject,
		Amount:    entry.Amount,
		Status:    entry.Status,
		Metadata:  metadataFor(entry.Error),
	}
	if entry.Error != nil {
		record.Error = entry.Error.Error()
	}
	if err := store.Append(ctx, &record); err != nil {
		store.logger.Warn("operation journal write failed",
			zap.String("operation", entry.Operation),
			zap.Error(err),
		)
	}
}

// Append inserts record, assigning an id and timestamp when missing.
func (store *Store) Append(ctx context.Context, record *OperationRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = store.nowFn().UTC()
	}
	if len(record.Metadata) == 0 {
		record.Metadata = datatypes.JSON(defaultMetadataJSON)
	}
	err := store.db.WithContext(ctx).Create(record).Error
	if isDuplicateRecord(err) {
		return wrapStoreError(errorSubjectOperation, errorCodeDuplicate, fmt.Errorf("%w: %w", ledger.ErrConflict, err))
	}
	if err != nil {
		return wrapStoreError(errorSubjectOperation, errorCodeInsert, fmt.Errorf("%w: %w", ledger.ErrPersistence, err))
	}
	return nil
}

// OperationQuery filters ListOperations. Zero fields match everything.
type OperationQuery struct {
	Document ledger.DocumentName
	UserID   string
	Status   string
	Limit    int
}

// ListOperations returns the newest records first.
func (store *Store) ListOperations(ctx context.Context, query OperationQuery) ([]OperationRecord, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	statement := store.db.WithContext(ctx).Model(&OperationRecord{})
	if query.Document != "" {
		statement = statement.Where("document = ?", string(query.Document))
	}
	if query.UserID != "" {
		statement = statement.Where("user_id = ?", query.UserID)
	}
	if query.Status != "" {
		statement = statement.Where("status = ?", query.Status)
	}
	var rows []OperationRecord
	err := statement.Order("created_at DESC").Order("record_id DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectOperation, errorCodeList, fmt.Errorf("%w: %w", ledger.ErrPersistence, err))
	}
	return rows, nil
}

func metadataFor(err error) datatypes.JSON {
	if err == nil {
		return datatypes.JSON(defaultMetadataJSON)
	}
	metadata := map[string]string{"error_class": ledger.ErrorClass(err)}
	var operationError ledger.OperationError
	if errors.As(err, &operationError) {
		metadata["error_code"] = operationError.Operation() + "." + operationError.Subject() + "." + operationError.Code()
	}
	var cooldownError *ledger.CooldownError
	if errors.As(err, &cooldownError) {
		metadata["next_eligible_at"] = cooldownError.NextEligibleAt.UTC().Format(time.RFC3339)
	}
	encoded, encodeErr := json.Marshal(metadata)
	if encodeErr != nil {
		return datatypes.JSON(defaultMetadataJSON)
	}
	return datatypes.JSON(encoded)
}

func wrapStoreError(subject string, code string, err error) error {
	return ledger.WrapError(errorOperationStore, subject, code, err)
}

func isDuplicateRecord(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolationCode
	}
	var sqliteErr *gosqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xFF == sqliteConstraintCode
	}
	return false
}
