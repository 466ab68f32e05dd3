package gormstore

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OperationRecord mirrors the operation_records table.
type OperationRecord struct {
	RecordID  string         `gorm:"type:uuid;primaryKey" json:"id"`
	Operation string         `gorm:"not null;index:idx_operation_records_operation" json:"operation"`
	Document  string         `gorm:"not null;index:idx_operation_records_document_created,priority:1" json:"document"`
	UserID    string         `gorm:"not null;default:'';index:idx_operation_records_user" json:"user_id"`
	Subject   string         `gorm:"not null;default:''" json:"subject"`
	Amount    int64          `gorm:"not null;default:0" json:"amount"`
	Status    string         `gorm:"not null" json:"status"`
	Error     string         `gorm:"not null;default:''" json:"error,omitempty"`
	Metadata  datatypes.JSON `gorm:"not null" json:"metadata"`
	CreatedAt time.Time      `gorm:"not null;index:idx_operation_records_document_created,priority:2" json:"created_at"`
}

func (OperationRecord) TableName() string { return "operation_records" }

func (record *OperationRecord) BeforeCreate(tx *gorm.DB) error {
	if record.RecordID == "" {
		record.RecordID = uuid.NewString()
	}
	return nil
}
