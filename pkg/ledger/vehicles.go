package ledger

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// VehicleLedger manages vehicles.json.
type VehicleLedger struct {
	service *Service
}

// VehicleRegistration is the raw input for Register.
type VehicleRegistration struct {
	Owner UserID
	Make  string
	Model string
	Color string
	State string
	Plate string
}

// VehicleFilter holds exact-match pre-filters for Search. Empty fields match all.
type VehicleFilter struct {
	State string
	Owner string
}

// VehicleTransfer reports an ownership change.
type VehicleTransfer struct {
	Vehicle       VehicleRecord
	PreviousOwner string
}

// CountEntry is one row of a ranked tally.
type CountEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// VehicleStats summarizes the registry.
type VehicleStats struct {
	Total     int            `json:"total"`
	PerState  map[string]int `json:"per_state"`
	TopStates []CountEntry   `json:"top_states"`
	TopMakes  []CountEntry   `json:"top_makes"`
	TopColors []CountEntry   `json:"top_colors"`
	Recent    int            `json:"recent"`
}

// RepairReport describes a Repair run.
type RepairReport struct {
	BackupPath string `json:"backup_path"`
	Kept       int    `json:"kept"`
	Dropped    int    `json:"dropped"`
}

// VehicleCounter counts the vehicles a user owns.
type VehicleCounter interface {
	CountByOwner(ctx context.Context, owner UserID) (int, error)
}

// VehicleCounterFunc adapts a function to VehicleCounter.
type VehicleCounterFunc func(ctx context.Context, owner UserID) (int, error)

// CountByOwner calls the function.
func (fn VehicleCounterFunc) CountByOwner(ctx context.Context, owner UserID) (int, error) {
	return fn(ctx, owner)
}

// Register validates and stores a new vehicle.
func (ledger *VehicleLedger) Register(ctx context.Context, registration VehicleRegistration) (VehicleRecord, error) {
	record, err := ledger.newRecord(registration)
	if err == nil {
		document := &VehicleDocument{}
		err = ledger.service.update(ctx, document, func(context.Context) error {
			for _, existing := range document.Vehicles {
				if existing.matchesKey(record.Plate, record.State) {
					return fmt.Errorf("%w: %s in %s", ErrDuplicatePlate, record.Plate, record.State)
				}
			}
			document.Vehicles = append(document.Vehicles, record)
			return nil
		})
	}
	ledger.service.logOperation(ctx, OperationLog{
		Operation: operationRegisterVehicle,
		Document:  DocumentVehicles,
		UserID:    registration.Owner.String(),
		Subject:   normalizeKey(registration.State) + "/" + normalizeKey(registration.Plate),
		Error:     err,
	})
	if err != nil {
		return VehicleRecord{}, err
	}
	return record, nil
}

func (ledger *VehicleLedger) newRecord(registration VehicleRegistration) (VehicleRecord, error) {
	if registration.Owner.IsZero() {
		return VehicleRecord{}, fmt.Errorf("%w: empty value", ErrInvalidUserID)
	}
	state, err := ParseStateCode(registration.State)
	if err != nil {
		return VehicleRecord{}, err
	}
	plate, err := ParsePlate(registration.Plate)
	if err != nil {
		return VehicleRecord{}, err
	}
	makeName, err := normalizeVehicleField("make", registration.Make)
	if err != nil {
		return VehicleRecord{}, err
	}
	model, err := normalizeVehicleField("model", registration.Model)
	if err != nil {
		return VehicleRecord{}, err
	}
	color, err := normalizeVehicleField("color", registration.Color)
	if err != nil {
		return VehicleRecord{}, err
	}
	return VehicleRecord{
		OwnerID:      registration.Owner.String(),
		Make:         makeName,
		Model:        model,
		Color:        color,
		State:        state.String(),
		Plate:        plate.String(),
		RegisteredAt: NewTimestamp(ledger.service.now()),
	}, nil
}

// Transfer hands the vehicle identified by plate and state to newOwner.
func (ledger *VehicleLedger) Transfer(ctx context.Context, plate string, state string, newOwner UserID) (VehicleTransfer, error) {
	var transfer VehicleTransfer
	plateKey, stateKey := normalizeKey(plate), normalizeKey(state)
	var err error
	if newOwner.IsZero() {
		err = fmt.Errorf("%w: empty value", ErrInvalidUserID)
	} else {
		document := &VehicleDocument{}
		err = ledger.service.update(ctx, document, func(context.Context) error {
			for index := range document.Vehicles {
				vehicle := &document.Vehicles[index]
				if !vehicle.matchesKey(plateKey, stateKey) {
					continue
				}
				transfer.PreviousOwner = vehicle.OwnerID
				vehicle.OwnerID = newOwner.String()
				transfer.Vehicle = *vehicle
				return nil
			}
			return fmt.Errorf("%w: %s in %s", ErrVehicleNotFound, plateKey, stateKey)
		})
	}
	ledger.service.logOperation(ctx, OperationLog{
		Operation: operationTransferVehicle,
		Document:  DocumentVehicles,
		UserID:    newOwner.String(),
		Subject:   stateKey + "/" + plateKey,
		Error:     err,
	})
	if err != nil {
		return VehicleTransfer{}, err
	}
	return transfer, nil
}

// Search returns vehicles whose "make model color plate" contains query,
// case-insensitively, after applying filter. Order is insertion order.
func (ledger *VehicleLedger) Search(ctx context.Context, query string, filter VehicleFilter) ([]VehicleRecord, error) {
	document := &VehicleDocument{}
	if err := ledger.service.store.Read(ctx, document); err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	stateFilter := normalizeKey(filter.State)
	ownerFilter := strings.TrimSpace(filter.Owner)
	results := make([]VehicleRecord, 0)
	for _, vehicle := range document.Vehicles {
		if stateFilter != "" && !strings.EqualFold(vehicle.State, stateFilter) {
			continue
		}
		if ownerFilter != "" && vehicle.OwnerID != ownerFilter {
			continue
		}
		haystack := strings.ToLower(strings.Join([]string{vehicle.Make, vehicle.Model, vehicle.Color, vehicle.Plate}, " "))
		if needle != "" && !strings.Contains(haystack, needle) {
			continue
		}
		results = append(results, vehicle)
	}
	return results, nil
}

// ListByOwner returns every vehicle owned by owner.
func (ledger *VehicleLedger) ListByOwner(ctx context.Context, owner UserID) ([]VehicleRecord, error) {
	return ledger.Search(ctx, "", VehicleFilter{Owner: owner.String()})
}

// CountByOwner returns how many vehicles owner has registered.
func (ledger *VehicleLedger) CountByOwner(ctx context.Context, owner UserID) (int, error) {
	vehicles, err := ledger.ListByOwner(ctx, owner)
	if err != nil {
		return 0, err
	}
	return len(vehicles), nil
}

// List returns every vehicle in insertion order.
func (ledger *VehicleLedger) List(ctx context.Context) ([]VehicleRecord, error) {
	return ledger.Search(ctx, "", VehicleFilter{})
}

// Lookup finds vehicles with exactly this plate, optionally within one state.
func (ledger *VehicleLedger) Lookup(ctx context.Context, plate string, state string) ([]VehicleRecord, error) {
	document := &VehicleDocument{}
	if err := ledger.service.store.Read(ctx, document); err != nil {
		return nil, err
	}
	plateKey, stateKey := normalizeKey(plate), normalizeKey(state)
	var matches []VehicleRecord
	for _, vehicle := range document.Vehicles {
		if !strings.EqualFold(vehicle.Plate, plateKey) {
			continue
		}
		if stateKey != "" && !strings.EqualFold(vehicle.State, stateKey) {
			continue
		}
		matches = append(matches, vehicle)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrVehicleNotFound, plateKey)
	}
	return matches, nil
}

// Remove deletes the vehicle identified by plate and state.
func (ledger *VehicleLedger) Remove(ctx context.Context, plate string, state string) (VehicleRecord, error) {
	var removed VehicleRecord
	plateKey, stateKey := normalizeKey(plate), normalizeKey(state)
	document := &VehicleDocument{}
	err := ledger.service.update(ctx, document, func(context.Context) error {
		index := slices.IndexFunc(document.Vehicles, func(vehicle VehicleRecord) bool {
			return vehicle.matchesKey(plateKey, stateKey)
		})
		if index < 0 {
			return fmt.Errorf("%w: %s in %s", ErrVehicleNotFound, plateKey, stateKey)
		}
		removed = document.Vehicles[index]
		document.Vehicles = slices.Delete(document.Vehicles, index, index+1)
		return nil
	})
	ledger.service.logOperation(ctx, OperationLog{
		Operation: operationRemoveVehicle,
		Document:  DocumentVehicles,
		UserID:    removed.OwnerID,
		Subject:   stateKey + "/" + plateKey,
		Error:     err,
	})
	if err != nil {
		return VehicleRecord{}, err
	}
	return removed, nil
}

// PurgeTestRecords removes placeholder registrations and returns how many were dropped.
func (ledger *VehicleLedger) PurgeTestRecords(ctx context.Context) (int, error) {
	removed := 0
	document := &VehicleDocument{}
	err := ledger.service.update(ctx, document, func(context.Context) error {
		before := len(document.Vehicles)
		document.Vehicles = slices.DeleteFunc(document.Vehicles, isTestVehicle)
		removed = before - len(document.Vehicles)
		if removed == 0 {
			return ErrSkipSave
		}
		return nil
	})
	ledger.service.logOperation(ctx, OperationLog{
		Operation: operationPurgeVehicles,
		Document:  DocumentVehicles,
		Amount:    int64(removed),
		Error:     err,
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func isTestVehicle(vehicle VehicleRecord) bool {
	return strings.EqualFold(strings.TrimSpace(vehicle.Make), testRecordMarker) ||
		strings.EqualFold(strings.TrimSpace(vehicle.Model), testRecordMarker) ||
		strings.EqualFold(strings.TrimSpace(vehicle.Plate), testRecordMarker)
}

// Stats tallies the registry.
func (ledger *VehicleLedger) Stats(ctx context.Context) (VehicleStats, error) {
	document := &VehicleDocument{}
	if err := ledger.service.store.Read(ctx, document); err != nil {
		return VehicleStats{}, err
	}
	caser := cases.Title(language.English)
	perState := make(map[string]int)
	makes := make(map[string]int)
	colors := make(map[string]int)
	recentCutoff := ledger.service.now().Add(-recentRegistrationWindow)
	recent := 0
	for _, vehicle := range document.Vehicles {
		perState[strings.ToUpper(vehicle.State)]++
		makes[caser.String(strings.TrimSpace(vehicle.Make))]++
		colors[caser.String(strings.TrimSpace(vehicle.Color))]++
		if !vehicle.RegisteredAt.IsZero() && !vehicle.RegisteredAt.Before(recentCutoff) {
			recent++
		}
	}
	return VehicleStats{
		Total:     len(document.Vehicles),
		PerState:  perState,
		TopStates: topCounts(perState, statsTopLimit),
		TopMakes:  topCounts(makes, statsTopLimit),
		TopColors: topCounts(colors, statsTopLimit),
		Recent:    recent,
	}, nil
}

// Repair backs the document up, then drops invalid and duplicate records and
// normalizes the rest. State codes are not checked so legacy data survives.
func (ledger *VehicleLedger) Repair(ctx context.Context) (RepairReport, error) {
	var report RepairReport
	backupPath, err := ledger.service.store.Backup(ctx, DocumentVehicles)
	if err == nil {
		report.BackupPath = backupPath
		document := &VehicleDocument{}
		err = ledger.service.update(ctx, document, func(context.Context) error {
			seen := make(map[string]struct{}, len(document.Vehicles))
			cleaned := make([]VehicleRecord, 0, len(document.Vehicles))
			for _, vehicle := range document.Vehicles {
				repaired, ok := repairVehicle(vehicle)
				if !ok {
					continue
				}
				key := repaired.Plate + "|" + repaired.State
				if _, duplicate := seen[key]; duplicate {
					continue
				}
				seen[key] = struct{}{}
				cleaned = append(cleaned, repaired)
			}
			report.Kept = len(cleaned)
			report.Dropped = len(document.Vehicles) - len(cleaned)
			document.Vehicles = cleaned
			return nil
		})
	}
	ledger.service.logOperation(ctx, OperationLog{
		Operation: operationRepairVehicles,
		Document:  DocumentVehicles,
		Subject:   report.BackupPath,
		Amount:    int64(report.Dropped),
		Error:     err,
	})
	if err != nil {
		return RepairReport{}, err
	}
	return report, nil
}

func repairVehicle(vehicle VehicleRecord) (VehicleRecord, bool) {
	owner := strings.TrimSpace(vehicle.OwnerID)
	if owner == "" || strings.ContainsAny(owner, " \t\n") {
		return VehicleRecord{}, false
	}
	fields := []*string{&vehicle.Make, &vehicle.Model, &vehicle.Color}
	for _, field := range fields {
		normalized, err := normalizeVehicleField("field", *field)
		if err != nil {
			return VehicleRecord{}, false
		}
		*field = normalized
	}
	vehicle.State = normalizeKey(vehicle.State)
	if vehicle.State == "" {
		return VehicleRecord{}, false
	}
	vehicle.Plate = normalizeKey(vehicle.Plate)
	if !isPlateText(vehicle.Plate) {
		return VehicleRecord{}, false
	}
	if vehicle.RegisteredAt.IsZero() {
		return VehicleRecord{}, false
	}
	vehicle.OwnerID = owner
	return vehicle, true
}

func normalizeKey(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// topCounts returns the limit largest tallies, ties broken by key ascending.
func topCounts(tally map[string]int, limit int) []CountEntry {
	entries := make([]CountEntry, 0, len(tally))
	for key, count := range tally {
		entries = append(entries, CountEntry{Key: key, Count: count})
	}
	slices.SortFunc(entries, func(left, right CountEntry) int {
		if byCount := cmp.Compare(right.Count, left.Count); byCount != 0 {
			return byCount
		}
		return cmp.Compare(left.Key, right.Key)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
