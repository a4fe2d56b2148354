package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinistock/internal/dto"
	"clinistock/internal/model"
	"clinistock/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound marks a missing referenced record; handlers map it to 404.
var ErrNotFound = errors.New("not found")

// ErrEmptyKit is returned when a kit with no lines is consumed.
var ErrEmptyKit = errors.New("kit has no items")

// ConsumptionService records stock usage and drives automatic reordering.
// Each call is one batch: a single transaction covering every line's
// usage record, stock decrement, and reorder routing.
type ConsumptionService interface {
	// RecordUsage processes an ad-hoc list of (item, quantity) lines.
	RecordUsage(ctx context.Context, req dto.RecordUsageRequest) (*dto.ConsumptionResult, error)
	// UsePatientSet expands a patient kit; usage is always recorded
	// against the kit's owning patient.
	UsePatientSet(ctx context.Context, setID uuid.UUID) (*dto.ConsumptionResult, error)
	// UseItemSet expands a generic kit, optionally on behalf of a patient.
	UseItemSet(ctx context.Context, setID uuid.UUID, patientID *uuid.UUID) (*dto.ConsumptionResult, error)
}

// reorderPolicy selects how the reorder quantity is computed when a
// consumption line pushes an item to or below its minimum stock.
type reorderPolicy int

const (
	// replenishConsumed orders exactly the quantity that was just used.
	// Applies to ad-hoc, bulk, and patient-kit consumption.
	replenishConsumed reorderPolicy = iota
	// replenishToTarget orders max(1, 2*minimum - current), topping the
	// item back up toward twice its threshold. Applies to generic-kit
	// consumption only. The two policies diverge deliberately; do not
	// unify them without a product decision.
	replenishToTarget
)

// reorderBatch caches the order selected for each supplier within one
// batch so repeated triggers merge instead of opening duplicates. Its
// lifetime ends with the batch — it is never shared across requests.
type reorderBatch struct {
	bySupplier map[uuid.UUID]*model.Order
	touched    []*model.Order // insertion order, first = redirect target
}

func newReorderBatch() *reorderBatch {
	return &reorderBatch{bySupplier: make(map[uuid.UUID]*model.Order)}
}

func (b *reorderBatch) put(supplierID uuid.UUID, o *model.Order) {
	b.bySupplier[supplierID] = o
	b.touched = append(b.touched, o)
}

type consumptionService struct {
	itemRepo  repository.ItemRepository
	usageRepo repository.UsageRepository
	orderRepo repository.OrderRepository
	kitRepo   repository.KitRepository
}

func NewConsumptionService(
	itemRepo repository.ItemRepository,
	usageRepo repository.UsageRepository,
	orderRepo repository.OrderRepository,
	kitRepo repository.KitRepository,
) ConsumptionService {
	return &consumptionService{
		itemRepo:  itemRepo,
		usageRepo: usageRepo,
		orderRepo: orderRepo,
		kitRepo:   kitRepo,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *consumptionService) RecordUsage(ctx context.Context, req dto.RecordUsageRequest) (*dto.ConsumptionResult, error) {
	patientID, err := parseOptionalUUID(req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("invalid patient_id: %w", err)
	}

	res := &dto.ConsumptionResult{}
	batch := newReorderBatch()

	txErr := runTx(ctx, s.orderRepo.DB(), func(tx *gorm.DB) error {
		for _, line := range req.Lines {
			// Malformed lines are skipped, counted, never fatal.
			if line.ItemID == "" || line.Quantity <= 0 {
				res.SkippedLines++
				continue
			}
			id, err := uuid.Parse(line.ItemID)
			if err != nil {
				res.SkippedLines++
				continue
			}
			// A well-formed id referencing no item is a hard stop for the
			// whole batch ("get-or-404" semantics).
			item, err := s.itemRepo.FindByIDTx(tx, id)
			if err != nil {
				return fmt.Errorf("item %s: %w", line.ItemID, ErrNotFound)
			}
			if err := s.consumeLine(tx, item, line.Quantity, patientID, replenishConsumed, batch); err != nil {
				return err
			}
			res.UsedLines++
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	finishResult(res, batch)
	return res, nil
}

func (s *consumptionService) UsePatientSet(ctx context.Context, setID uuid.UUID) (*dto.ConsumptionResult, error) {
	set, err := s.kitRepo.FindPatientSetByID(ctx, setID)
	if err != nil {
		return nil, fmt.Errorf("patient set %s: %w", setID, ErrNotFound)
	}
	if len(set.Lines) == 0 {
		return nil, ErrEmptyKit
	}

	patientID := set.PatientID
	return s.expandKit(ctx, set.Lines, &patientID, replenishConsumed)
}

func (s *consumptionService) UseItemSet(ctx context.Context, setID uuid.UUID, patientID *uuid.UUID) (*dto.ConsumptionResult, error) {
	set, err := s.kitRepo.FindItemSetByID(ctx, setID)
	if err != nil {
		return nil, fmt.Errorf("item set %s: %w", setID, ErrNotFound)
	}
	if len(set.Lines) == 0 {
		return nil, ErrEmptyKit
	}

	return s.expandKit(ctx, set.Lines, patientID, replenishToTarget)
}

// expandKit consumes every kit line in one transaction. Kit lines are
// validated positive at authoring time and are not re-validated here;
// lines whose item has since been deleted are skipped, not fatal.
func (s *consumptionService) expandKit(ctx context.Context, lines []model.SetItem, patientID *uuid.UUID, policy reorderPolicy) (*dto.ConsumptionResult, error) {
	res := &dto.ConsumptionResult{}
	batch := newReorderBatch()

	txErr := runTx(ctx, s.orderRepo.DB(), func(tx *gorm.DB) error {
		for _, line := range lines {
			item, err := s.itemRepo.FindByIDTx(tx, line.ItemID)
			if err != nil {
				res.SkippedLines++
				continue
			}
			if err := s.consumeLine(tx, item, line.Quantity, patientID, policy, batch); err != nil {
				return err
			}
			res.UsedLines++
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	finishResult(res, batch)
	return res, nil
}

// consumeLine is the core of the tracker: it records the usage,
// decrements stock (floored at zero), and, when the item hits its
// reorder threshold and has a supplier, routes the reorder into the
// batch's order for that supplier, merging lines per (order, item).
func (s *consumptionService) consumeLine(tx *gorm.DB, item *model.Item, qty int, patientID *uuid.UUID, policy reorderPolicy, batch *reorderBatch) error {
	usage := &model.Usage{
		ItemID:    item.ID,
		Quantity:  qty,
		PatientID: patientID,
		UsedAt:    time.Now().UTC(),
	}
	if err := s.usageRepo.CreateTx(tx, usage); err != nil {
		return err
	}

	newStock := item.CurrentStock - qty
	if newStock < 0 {
		newStock = 0
	}
	item.CurrentStock = newStock
	if err := s.itemRepo.SaveTx(tx, item); err != nil {
		return err
	}

	// Reorder trigger: at or below threshold AND a supplier configured.
	if item.CurrentStock > item.MinimumStock || item.SupplierID == nil {
		return nil
	}
	supplierID := *item.SupplierID

	order, ok := batch.bySupplier[supplierID]
	if !ok {
		// Reuse the supplier's open order if one exists, latest first;
		// otherwise create one and flush it so lines can reference it.
		existing, err := s.orderRepo.FindPendingBySupplierTx(tx, supplierID)
		if err == nil {
			order = existing
		} else {
			order = &model.Order{
				SupplierID: supplierID,
				Status:     model.OrderStatusPending,
				OrderDate:  time.Now().UTC(),
			}
			if err := s.orderRepo.CreateTx(tx, order); err != nil {
				return err
			}
		}
		batch.put(supplierID, order)
	}

	reorderQty := qty
	if policy == replenishToTarget {
		// Uses the already-decremented stock value.
		reorderQty = item.MinimumStock*2 - item.CurrentStock
		if reorderQty < 1 {
			reorderQty = 1
		}
	}

	// One line per (order, item): merge by summing, never duplicate.
	line, err := s.orderRepo.FindLineTx(tx, order.ID, item.ID)
	if err == nil {
		line.Quantity += reorderQty
		return s.orderRepo.SaveLineTx(tx, line)
	}
	return s.orderRepo.CreateLineTx(tx, &model.OrderItem{
		OrderID:  order.ID,
		ItemID:   item.ID,
		Quantity: reorderQty,
	})
}

func finishResult(res *dto.ConsumptionResult, batch *reorderBatch) {
	res.Reordered = len(batch.touched) > 0
	for _, o := range batch.touched {
		res.OrderIDs = append(res.OrderIDs, o.ID.String())
	}
	if len(res.OrderIDs) > 0 {
		first := res.OrderIDs[0]
		res.RedirectOrderID = &first
	}
}

func parseOptionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
