package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// Store loads and persists named documents.
type Store interface {
	// Read loads doc fresh. A missing file yields the document's empty default.
	Read(ctx context.Context, doc Document) error
	// Update loads doc under an exclusive lock, runs mutate and saves the result
	// unless mutate returns an error. ErrSkipSave succeeds without writing.
	Update(ctx context.Context, doc Document, mutate func(ctx context.Context) error) error
	// Backup copies the current document aside and returns the copy's path.
	Backup(ctx context.Context, name DocumentName) (string, error)
}

// Service holds the dependencies shared by every ledger.
type Service struct {
	store          Store
	nowFn          func() time.Time
	logger         OperationLogger
	notifier       PaymentNotifier
	random         Random
	vehicleCounter VehicleCounter

	vehicles *VehicleLedger
	economy  *EconomyLedger
	sessions *SessionLedger
	warnings *WarningLedger
}

// NewService wires a Service.
func NewService(store Store, now func() time.Time, options ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store dependency is nil", ErrInvalidServiceConfig)
	}
	if now == nil {
		return nil, fmt.Errorf("%w: clock dependency is nil", ErrInvalidServiceConfig)
	}
	service := &Service{store: store, nowFn: now, random: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	service.vehicles = &VehicleLedger{service: service}
	service.economy = &EconomyLedger{service: service}
	service.sessions = &SessionLedger{service: service}
	service.warnings = &WarningLedger{service: service}
	service.vehicleCounter = service.vehicles
	for _, option := range options {
		if option != nil {
			option(service)
		}
	}
	return service, nil
}

// Vehicles returns the vehicle ledger.
func (service *Service) Vehicles() *VehicleLedger { return service.vehicles }

// Economy returns the economy ledger.
func (service *Service) Economy() *EconomyLedger { return service.economy }

// Sessions returns the session ledger.
func (service *Service) Sessions() *SessionLedger { return service.sessions }

// Warnings returns the warning ledger.
func (service *Service) Warnings() *WarningLedger { return service.warnings }

func (service *Service) now() time.Time {
	return service.nowFn().UTC()
}

func (service *Service) logOperation(ctx context.Context, entry OperationLog) {
	if service.logger == nil {
		return
	}
	if entry.Status == "" {
		if entry.Error != nil {
			entry.Status = OperationStatusError
		} else {
			entry.Status = OperationStatusOK
		}
	}
	service.logger.LogOperation(ctx, entry)
}

// update runs a mutation against doc and strips ErrSkipSave from the result.
func (service *Service) update(ctx context.Context, doc Document, mutate func(ctx context.Context) error) error {
	err := service.store.Update(ctx, doc, mutate)
	if errors.Is(err, ErrSkipSave) {
		return nil
	}
	return err
}
