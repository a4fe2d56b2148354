package service

import (
	"context"
	"testing"

	"clinistock/internal/dto"
	"clinistock/internal/model"
	"clinistock/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func (s *stubItemRepo) Create(ctx context.Context, i *model.Item) error {
	i.ID = uuid.New()
	s.items[i.ID] = i
	return nil
}

func (s *stubItemRepo) Update(ctx context.Context, i *model.Item) error { return nil }

func (s *stubItemRepo) ListBelowMinimum(ctx context.Context) ([]model.Item, error) {
	var out []model.Item
	for _, it := range s.items {
		if it.BelowMinimum() {
			out = append(out, *it)
		}
	}
	return out, nil
}

type stubSupplierRepo struct {
	repository.SupplierRepository
	byName map[string]*model.Supplier
}

func (s *stubSupplierRepo) FindByName(ctx context.Context, name string) (*model.Supplier, error) {
	if sup, ok := s.byName[name]; ok {
		return sup, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubSupplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	for _, sup := range s.byName {
		if sup.ID == id {
			return sup, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func TestImportCSV_ImportsRowsAndResolvesSuppliers(t *testing.T) {
	supplier := &model.Supplier{ID: uuid.New(), Name: "Acme", FaxNumber: "000"}
	itemRepo := newStubItemRepo()
	svc := NewItemService(itemRepo, &stubSupplierRepo{byName: map[string]*model.Supplier{"Acme": supplier}}, nil)

	csv := "name,unit_type,items_per_box,minimum_stock,current_stock,supplier_name\n" +
		"Gauze,box,10,5,20,Acme\n" +
		"Swabs,individual,,30,100,\n" +
		"Mystery,crate,,,,\n" + // unknown unit type falls back to individual
		",individual,,,,\n" // missing name

	resp, err := svc.ImportCSV(context.Background(), []byte(csv))

	require.NoError(t, err)
	assert.Equal(t, 3, resp.Imported)
	assert.Equal(t, 1, resp.Failed)

	for _, it := range itemRepo.items {
		if it.Name == "Mystery" {
			assert.Equal(t, model.UnitTypeIndividual, it.UnitType)
		}
	}

	var gauze *model.Item
	for _, it := range itemRepo.items {
		if it.Name == "Gauze" {
			gauze = it
		}
	}
	require.NotNil(t, gauze)
	require.NotNil(t, gauze.SupplierID)
	assert.Equal(t, supplier.ID, *gauze.SupplierID)
	require.NotNil(t, gauze.ItemsPerBox)
	assert.Equal(t, 10, *gauze.ItemsPerBox)
	assert.Equal(t, 5, gauze.MinimumStock)
	assert.Equal(t, 20, gauze.CurrentStock)
}

func TestImportCSV_DefaultsAndUnknownSupplier(t *testing.T) {
	itemRepo := newStubItemRepo()
	svc := NewItemService(itemRepo, &stubSupplierRepo{byName: map[string]*model.Supplier{}}, nil)

	csv := "name,unit_type,items_per_box,minimum_stock,current_stock,supplier_name\n" +
		"Tape,individual,,,,Nobody Ltd\n"

	resp, err := svc.ImportCSV(context.Background(), []byte(csv))

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Imported)
	for _, it := range itemRepo.items {
		assert.Equal(t, 1, it.MinimumStock, "minimum defaults to 1")
		assert.Equal(t, 0, it.CurrentStock)
		assert.Nil(t, it.SupplierID, "unknown supplier leaves the item unassigned")
	}
}

func TestSetStock_ClampsNegativeToZero(t *testing.T) {
	item := &model.Item{Name: "A", CurrentStock: 5}
	itemRepo := newStubItemRepo(item)
	svc := NewItemService(itemRepo, &stubSupplierRepo{}, nil)

	resp, err := svc.SetStock(context.Background(), item.ID, -3)

	require.NoError(t, err)
	assert.Equal(t, 0, resp.CurrentStock)
	assert.Equal(t, 0, item.CurrentStock)
}

func TestAlerts_ListsItemsAtOrBelowMinimum(t *testing.T) {
	low := &model.Item{Name: "Low", CurrentStock: 2, MinimumStock: 5}
	atMin := &model.Item{Name: "AtMin", CurrentStock: 5, MinimumStock: 5}
	fine := &model.Item{Name: "Fine", CurrentStock: 50, MinimumStock: 5}
	itemRepo := newStubItemRepo(low, atMin, fine)
	svc := NewItemService(itemRepo, &stubSupplierRepo{}, nil)

	alerts, err := svc.Alerts(context.Background())

	require.NoError(t, err)
	names := map[string]bool{}
	for _, a := range alerts {
		names[a.Name] = true
		assert.True(t, a.BelowMin)
	}
	assert.True(t, names["Low"])
	assert.True(t, names["AtMin"], "at-minimum counts as an alert")
	assert.False(t, names["Fine"])
}

func TestCreateItem_BoxFieldsOnlyForBoxes(t *testing.T) {
	itemRepo := newStubItemRepo()
	svc := NewItemService(itemRepo, &stubSupplierRepo{}, nil)

	n := 12
	resp, err := svc.Create(context.Background(), dto.CreateItemRequest{
		Name:        "Swabs",
		UnitType:    model.UnitTypeIndividual,
		ItemsPerBox: &n, // must be dropped for individual items
	})

	require.NoError(t, err)
	assert.Nil(t, resp.ItemsPerBox)
}
