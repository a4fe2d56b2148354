package service

import (
	"context"
	"errors"
	"testing"

	"clinistock/internal/dto"
	"clinistock/internal/model"
	"clinistock/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ─── In-memory stubs ─────────────────────────────────────────────────────────
// The embedded interfaces panic on methods a test does not exercise,
// which is exactly what we want.

type stubItemRepo struct {
	repository.ItemRepository
	items map[uuid.UUID]*model.Item
}

func newStubItemRepo(items ...*model.Item) *stubItemRepo {
	s := &stubItemRepo{items: map[uuid.UUID]*model.Item{}}
	for _, it := range items {
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		s.items[it.ID] = it
	}
	return s
}

func (s *stubItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	return s.FindByIDTx(nil, id)
}

func (s *stubItemRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Item, error) {
	if it, ok := s.items[id]; ok {
		return it, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubItemRepo) SaveTx(tx *gorm.DB, i *model.Item) error { return nil }

func (s *stubItemRepo) DB() *gorm.DB { return nil }

type stubUsageRepo struct {
	repository.UsageRepository
	usages []*model.Usage
}

func (s *stubUsageRepo) CreateTx(tx *gorm.DB, u *model.Usage) error {
	s.usages = append(s.usages, u)
	return nil
}

type stubOrderRepo struct {
	repository.OrderRepository
	orders []*model.Order
	lines  []*model.OrderItem
}

func (s *stubOrderRepo) DB() *gorm.DB { return nil }

func (s *stubOrderRepo) FindPendingBySupplierTx(tx *gorm.DB, supplierID uuid.UUID) (*model.Order, error) {
	var latest *model.Order
	for _, o := range s.orders {
		if o.SupplierID != supplierID || o.Status != model.OrderStatusPending {
			continue
		}
		if latest == nil || o.OrderDate.After(latest.OrderDate) {
			latest = o
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (s *stubOrderRepo) CreateTx(tx *gorm.DB, o *model.Order) error {
	o.ID = uuid.New()
	s.orders = append(s.orders, o)
	return nil
}

func (s *stubOrderRepo) FindLineTx(tx *gorm.DB, orderID, itemID uuid.UUID) (*model.OrderItem, error) {
	for _, line := range s.lines {
		if line.OrderID == orderID && line.ItemID == itemID {
			return line, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) CreateLineTx(tx *gorm.DB, line *model.OrderItem) error {
	line.ID = uuid.New()
	s.lines = append(s.lines, line)
	return nil
}

func (s *stubOrderRepo) SaveLineTx(tx *gorm.DB, line *model.OrderItem) error { return nil }

func (s *stubOrderRepo) linesFor(orderID uuid.UUID) []*model.OrderItem {
	var out []*model.OrderItem
	for _, line := range s.lines {
		if line.OrderID == orderID {
			out = append(out, line)
		}
	}
	return out
}

type stubKitRepo struct {
	repository.KitRepository
	itemSets    map[uuid.UUID]*model.ItemSet
	patientSets map[uuid.UUID]*model.PatientSet
}

func newStubKitRepo() *stubKitRepo {
	return &stubKitRepo{
		itemSets:    map[uuid.UUID]*model.ItemSet{},
		patientSets: map[uuid.UUID]*model.PatientSet{},
	}
}

func (s *stubKitRepo) FindItemSetByID(ctx context.Context, id uuid.UUID) (*model.ItemSet, error) {
	if set, ok := s.itemSets[id]; ok {
		return set, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubKitRepo) FindPatientSetByID(ctx context.Context, id uuid.UUID) (*model.PatientSet, error) {
	if set, ok := s.patientSets[id]; ok {
		return set, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newConsumptionFixture(items ...*model.Item) (ConsumptionService, *stubItemRepo, *stubUsageRepo, *stubOrderRepo, *stubKitRepo) {
	itemRepo := newStubItemRepo(items...)
	usageRepo := &stubUsageRepo{}
	orderRepo := &stubOrderRepo{}
	kitRepo := newStubKitRepo()
	svc := NewConsumptionService(itemRepo, usageRepo, orderRepo, kitRepo)
	return svc, itemRepo, usageRepo, orderRepo, kitRepo
}

func lineReq(id uuid.UUID, qty int) dto.ConsumptionLineRequest {
	return dto.ConsumptionLineRequest{ItemID: id.String(), Quantity: qty}
}

// ─── Ad-hoc consumption ──────────────────────────────────────────────────────

func TestRecordUsage_DecrementsStockAndRecordsUsage(t *testing.T) {
	item := &model.Item{Name: "Gauze", CurrentStock: 10, MinimumStock: 2}
	svc, _, usageRepo, orderRepo, _ := newConsumptionFixture(item)

	res, err := svc.RecordUsage(context.Background(), dto.RecordUsageRequest{
		Lines: []dto.ConsumptionLineRequest{lineReq(item.ID, 3)},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, res.UsedLines)
	assert.Equal(t, 7, item.CurrentStock)
	require.Len(t, usageRepo.usages, 1)
	assert.Equal(t, 3, usageRepo.usages[0].Quantity)
	assert.Nil(t, usageRepo.usages[0].PatientID)
	assert.False(t, res.Reordered)
	assert.Empty(t, orderRepo.orders)
}

func TestRecordUsage_StockClampsAtZero(t *testing.T) {
	item := &model.Item{Name: "Swabs", CurrentStock: 3, MinimumStock: 0}
	svc, _, usageRepo, _, _ := newConsumptionFixture(item)

	_, err := svc.RecordUsage(context.Background(), dto.RecordUsageRequest{
		Lines: []dto.ConsumptionLineRequest{lineReq(item.ID, 5)},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, item.CurrentStock)
	// The usage still records what was actually consumed as requested.
	require.Len(t, usageRepo.usages, 1)
	assert.Equal(t, 5, usageRepo.usages[0].Quantity)
}

func TestRecordUsage_ReordersConsumedQuantity(t *testing.T) {
	supplierID := uuid.New()
	item := &model.Item{Name: "Gloves", CurrentStock: 10, MinimumStock: 5, SupplierID: &supplierID}
	svc, _, _, orderRepo, _ := newConsumptionFixture(item)

	res, err := svc.RecordUsage(context.Background(), dto.RecordUsageRequest{
		Lines: []dto.ConsumptionLineRequest{lineReq(item.ID, 6)},
	})

	require.NoError(t, err)
	assert.Equal(t, 4, item.CurrentStock)
	assert.True(t, res.Reordered)
	require.Len(t, orderRepo.orders, 1)
	assert.Equal(t, model.OrderStatusPending, orderRepo.orders[0].Status)
	lines := orderRepo.linesFor(orderRepo.orders[0].ID)
	require.Len(t, lines, 1)
	assert.Equal(t, 6, lines[0].Quantity)
	require.NotNil(t, res.RedirectOrderID)
	assert.Equal(t, orderRepo.orders[0].ID.String(), *res.RedirectOrderID)
}

func TestRecordUsage_SecondBatchMergesIntoPendingOrder(t *testing.T) {
	supplierID := uuid.New()
	item := &model.Item{Name: "Gloves", CurrentStock: 10, MinimumStock: 5, SupplierID: &supplierID}
	svc, _, _, orderRepo, _ := newConsumptionFixture(item)

	_, err := svc.RecordUsage(context.Background(), dto.RecordUsageRequest{
		Lines: []dto.ConsumptionLineRequest{lineReq(item.ID, 6)},
	})
	require.NoError(t, err)

	// A separate request while the order is still pending must merge
	// into the same line, not open a second order.
	_, err = svc.RecordUsage(context.Background(), dto.RecordUsageRequest{
		Lines: []dto.ConsumptionLineRequest{lineReq(item.ID, 1)},
	})
	require.NoError(t, err)

	require.Len(t, orderRepo.orders, 1)
	lines := orderRepo.linesFor(orderRepo.orders[0].ID)
	require.Len(t, lines, 1)
	assert.Equal(t, 7, lines[0].Quantity)
}

func TestRecordUsage_OneOrderPerSupplierPerBatch(t *testing.T) {
	supplierID := uuid.New()
	itemA := &model.Item{Name: "A", CurrentStock: 1, MinimumStock: 5, SupplierID: &supplierID}
	itemB := &model.Item{Name: "B", CurrentStock: 1, MinimumStock: 5, SupplierID: &supplierID}
	svc, _, _, orderRepo, _ := newConsumptionFixture(itemA, itemB)

	res, err := svc.RecordUsage(context.Background(), dto.RecordUsageRequest{
		Lines: []dto.ConsumptionLineRequest{lineReq(itemA.ID, 1), lineReq(itemB.ID, 1)},
	})

	require.NoError(t, err)
	require.Len(t, orderRepo.orders, 1)
	assert.Len(t, orderRepo.linesFor(orderRepo.orders[0].ID), 2)
	assert.Len(t, res.OrderIDs, 1)
}

func TestRecordUsage_DistinctSuppliersGetDistinctOrders(t *testing.T) {
	supplierA, supplierB := uuid.New(), uuid.New()
	itemA := &model.Item{Name: "A", CurrentStock: 1, MinimumStock: 5, SupplierID: &supplierA}
	itemB := &model.Item{Name: "B", CurrentStock: 1, MinimumStock: 5, SupplierID: &supplierB}
	svc, _, _, orderRepo, _ := newConsumptionFixture(itemA, itemB)

	res, err := svc.RecordUsage(context.Background(), dto.RecordUsageRequest{
		Lines: []dto.ConsumptionLineRequest{lineReq(itemA.ID, 1), lineReq(itemB.ID, 1)},
	})

	require.NoError(t, err)
	assert.Len(t, orderRepo.orders, 2)
	assert.Len(t, res.OrderIDs, 2)
}

func TestRecordUsage_SameItemTwiceInBatchMerges(t *testing.T) {
	supplierID := uuid.New()
	item := &model.Item{Name: "A", CurrentStock: 4, MinimumStock: 5, SupplierID: &supplierID}
	svc, _, _, orderRepo, _ := newConsumptionFixture(item)

	_, err := svc.RecordUsage(context.Background(), dto.RecordUsageRequest{
		Lines: []dto.ConsumptionLineRequest{lineReq(item.ID, 2), lineReq(item.ID, 3)},
	})

	require.NoError(t, err)
	require.Len(t, orderRepo.orders, 1)
	lines := orderRepo.linesFor(orderRepo.orders[0].ID)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestRecordUsage_NoSupplierMeansNoReorder(t *testing.T) {
	item := &model.Item{Name: "Orphan", CurrentStock: 1, MinimumStock: 5}
	svc, _, _, orderRepo, _ := newConsumptionFixture(item)

	res, err := svc.RecordUsage(context.Background(), dto.RecordUsageRequest{
		Lines: []dto.ConsumptionLineRequest{lineReq(item.ID, 1)},
	})

	require.NoError(t, err)
	assert.False(t, res.Reordered)
	assert.Empty(t, orderRepo.orders)
}

func TestRecordUsage_UnknownItemFailsBatch(t *testing.T) {
	svc, _, usageRepo, _, _ := newConsumptionFixture()

	_, err := svc.RecordUsage(context.Background(), dto.RecordUsageRequest{
		Lines: []dto.ConsumptionLineRequest{lineReq(uuid.New(), 1)},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Empty(t, usageRepo.usages)
}

func TestRecordUsage_MalformedLinesAreSkipped(t *testing.T) {
	item := &model.Item{Name: "A", CurrentStock: 10, MinimumStock: 0}
	svc, _, usageRepo, _, _ := newConsumptionFixture(item)

	res, err := svc.RecordUsage(context.Background(), dto.RecordUsageRequest{
		Lines: []dto.ConsumptionLineRequest{
			{ItemID: "", Quantity: 1},
			{ItemID: item.ID.String(), Quantity: 0},
			{ItemID: "not-a-uuid", Quantity: 2},
			lineReq(item.ID, 4),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 3, res.SkippedLines)
	assert.Equal(t, 1, res.UsedLines)
	require.Len(t, usageRepo.usages, 1)
	assert.Equal(t, 4, usageRepo.usages[0].Quantity)
}

func TestRecordUsage_AttributesPatient(t *testing.T) {
	item := &model.Item{Name: "A", CurrentStock: 10, MinimumStock: 0}
	svc, _, usageRepo, _, _ := newConsumptionFixture(item)

	patientID := uuid.New().String()
	_, err := svc.RecordUsage(context.Background(), dto.RecordUsageRequest{
		PatientID: &patientID,
		Lines:     []dto.ConsumptionLineRequest{lineReq(item.ID, 1)},
	})

	require.NoError(t, err)
	require.Len(t, usageRepo.usages, 1)
	require.NotNil(t, usageRepo.usages[0].PatientID)
	assert.Equal(t, patientID, usageRepo.usages[0].PatientID.String())
}

// ─── Kit consumption ─────────────────────────────────────────────────────────

func TestUsePatientSet_ConsumesAllLinesForThePatient(t *testing.T) {
	itemA := &model.Item{Name: "A", CurrentStock: 10, MinimumStock: 0}
	itemB := &model.Item{Name: "B", CurrentStock: 10, MinimumStock: 0}
	svc, _, usageRepo, _, kitRepo := newConsumptionFixture(itemA, itemB)

	patientID := uuid.New()
	set := &model.PatientSet{
		ID:        uuid.New(),
		Name:      "Weekly visit",
		PatientID: patientID,
		Lines: []model.SetItem{
			{ItemID: itemA.ID, Quantity: 2},
			{ItemID: itemB.ID, Quantity: 3},
		},
	}
	kitRepo.patientSets[set.ID] = set

	res, err := svc.UsePatientSet(context.Background(), set.ID)

	require.NoError(t, err)
	assert.Equal(t, 2, res.UsedLines)
	assert.Equal(t, 8, itemA.CurrentStock)
	assert.Equal(t, 7, itemB.CurrentStock)
	require.Len(t, usageRepo.usages, 2)
	for _, u := range usageRepo.usages {
		require.NotNil(t, u.PatientID)
		assert.Equal(t, patientID, *u.PatientID)
	}
}

func TestUsePatientSet_ReordersConsumedQuantity(t *testing.T) {
	supplierID := uuid.New()
	item := &model.Item{Name: "Gauze", CurrentStock: 6, MinimumStock: 5, SupplierID: &supplierID}
	svc, _, _, orderRepo, kitRepo := newConsumptionFixture(item)

	set := &model.PatientSet{
		ID:        uuid.New(),
		PatientID: uuid.New(),
		Lines:     []model.SetItem{{ItemID: item.ID, Quantity: 2}},
	}
	kitRepo.patientSets[set.ID] = set

	res, err := svc.UsePatientSet(context.Background(), set.ID)

	require.NoError(t, err)
	assert.Equal(t, 4, item.CurrentStock)
	assert.True(t, res.Reordered)
	require.Len(t, orderRepo.orders, 1)
	lines := orderRepo.linesFor(orderRepo.orders[0].ID)
	require.Len(t, lines, 1)
	// Patient kits replenish what was consumed, not the top-up amount.
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestUsePatientSet_DanglingLineIsSkipped(t *testing.T) {
	item := &model.Item{Name: "A", CurrentStock: 10, MinimumStock: 0}
	svc, _, _, _, kitRepo := newConsumptionFixture(item)

	set := &model.PatientSet{
		ID:        uuid.New(),
		PatientID: uuid.New(),
		Lines: []model.SetItem{
			{ItemID: uuid.New(), Quantity: 2}, // item was deleted since
			{ItemID: item.ID, Quantity: 1},
		},
	}
	kitRepo.patientSets[set.ID] = set

	res, err := svc.UsePatientSet(context.Background(), set.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, res.UsedLines)
	assert.Equal(t, 1, res.SkippedLines)
}

func TestUsePatientSet_EmptyKitRejected(t *testing.T) {
	svc, _, _, _, kitRepo := newConsumptionFixture()
	set := &model.PatientSet{ID: uuid.New(), PatientID: uuid.New()}
	kitRepo.patientSets[set.ID] = set

	_, err := svc.UsePatientSet(context.Background(), set.ID)
	assert.ErrorIs(t, err, ErrEmptyKit)
}

func TestUsePatientSet_UnknownKit(t *testing.T) {
	svc, _, _, _, _ := newConsumptionFixture()
	_, err := svc.UsePatientSet(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUseItemSet_TopsUpToTwiceMinimum(t *testing.T) {
	supplierID := uuid.New()
	item := &model.Item{Name: "A", CurrentStock: 10, MinimumStock: 5, SupplierID: &supplierID}
	svc, _, _, orderRepo, kitRepo := newConsumptionFixture(item)

	set := &model.ItemSet{
		ID:    uuid.New(),
		Name:  "Wound care",
		Lines: []model.SetItem{{ItemID: item.ID, Quantity: 5}},
	}
	kitRepo.itemSets[set.ID] = set

	res, err := svc.UseItemSet(context.Background(), set.ID, nil)

	require.NoError(t, err)
	assert.Equal(t, 5, item.CurrentStock)
	assert.True(t, res.Reordered)
	require.Len(t, orderRepo.orders, 1)
	lines := orderRepo.linesFor(orderRepo.orders[0].ID)
	require.Len(t, lines, 1)
	// 2*minimum - current = 10 - 5.
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestUseItemSet_TopUpNeverBelowOne(t *testing.T) {
	supplierID := uuid.New()
	item := &model.Item{Name: "A", CurrentStock: 2, MinimumStock: 0, SupplierID: &supplierID}
	svc, _, _, orderRepo, kitRepo := newConsumptionFixture(item)

	set := &model.ItemSet{
		ID:    uuid.New(),
		Lines: []model.SetItem{{ItemID: item.ID, Quantity: 2}},
	}
	kitRepo.itemSets[set.ID] = set

	_, err := svc.UseItemSet(context.Background(), set.ID, nil)

	require.NoError(t, err)
	lines := orderRepo.linesFor(orderRepo.orders[0].ID)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestUseItemSet_OptionalPatientAttribution(t *testing.T) {
	item := &model.Item{Name: "A", CurrentStock: 10, MinimumStock: 0}
	svc, _, usageRepo, _, kitRepo := newConsumptionFixture(item)

	set := &model.ItemSet{
		ID:    uuid.New(),
		Lines: []model.SetItem{{ItemID: item.ID, Quantity: 1}},
	}
	kitRepo.itemSets[set.ID] = set

	patientID := uuid.New()
	_, err := svc.UseItemSet(context.Background(), set.ID, &patientID)

	require.NoError(t, err)
	require.Len(t, usageRepo.usages, 1)
	require.NotNil(t, usageRepo.usages[0].PatientID)
	assert.Equal(t, patientID, *usageRepo.usages[0].PatientID)
}
