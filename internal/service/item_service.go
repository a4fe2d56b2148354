package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"clinistock/internal/dto"
	"clinistock/internal/model"
	"clinistock/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	alertsCacheKey = "alerts:low_stock"
	alertsCacheTTL = 60 * time.Second
)

type ItemService interface {
	Create(ctx context.Context, req dto.CreateItemRequest) (*dto.ItemResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error)
	List(ctx context.Context, filter dto.ItemFilter) (*dto.ItemListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// SetStock is the inline stock correction from the item list view. It
	// bypasses usage recording on purpose: corrections are not consumption.
	SetStock(ctx context.Context, id uuid.UUID, stock int) (*dto.ItemResponse, error)
	// Alerts lists items at or below their minimum, cached briefly since
	// dashboards poll it.
	Alerts(ctx context.Context) ([]dto.ItemResponse, error)
	// ImportCSV bulk-loads the item catalog; bad rows are counted, not fatal.
	ImportCSV(ctx context.Context, data []byte) (*dto.CSVImportResponse, error)
}

type itemService struct {
	itemRepo     repository.ItemRepository
	supplierRepo repository.SupplierRepository
	rdb          *redis.Client
}

func NewItemService(itemRepo repository.ItemRepository, supplierRepo repository.SupplierRepository, rdb *redis.Client) ItemService {
	return &itemService{itemRepo: itemRepo, supplierRepo: supplierRepo, rdb: rdb}
}

func (s *itemService) Create(ctx context.Context, req dto.CreateItemRequest) (*dto.ItemResponse, error) {
	supplierID, err := parseOptionalUUID(req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("invalid supplier_id: %w", err)
	}
	if supplierID != nil {
		if _, err := s.supplierRepo.FindByID(ctx, *supplierID); err != nil {
			return nil, fmt.Errorf("supplier %s: %w", *supplierID, ErrNotFound)
		}
	}

	item := &model.Item{
		Name:         strings.TrimSpace(req.Name),
		UnitType:     req.UnitType,
		ItemsPerBox:  req.ItemsPerBox,
		MinimumStock: req.MinimumStock,
		CurrentStock: req.CurrentStock,
		SupplierID:   supplierID,
	}
	if item.UnitType != model.UnitTypeBox {
		item.ItemsPerBox = nil
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	s.invalidateAlerts(ctx)

	resp := toItemResponse(item)
	return &resp, nil
}

func (s *itemService) Get(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	resp := toItemResponse(item)
	return &resp, nil
}

func (s *itemService) List(ctx context.Context, filter dto.ItemFilter) (*dto.ItemListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	items, total, err := s.itemRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ItemListResponse{
		Data:  make([]dto.ItemResponse, 0, len(items)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range items {
		resp.Data = append(resp.Data, toItemResponse(&items[i]))
	}
	return resp, nil
}

func (s *itemService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
	}

	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.UnitType != nil {
		item.UnitType = *req.UnitType
	}
	if req.ItemsPerBox != nil {
		item.ItemsPerBox = req.ItemsPerBox
	}
	if item.UnitType != model.UnitTypeBox {
		item.ItemsPerBox = nil
	}
	if req.MinimumStock != nil {
		item.MinimumStock = *req.MinimumStock
	}
	if req.SupplierID != nil {
		supplierID, err := parseOptionalUUID(req.SupplierID)
		if err != nil {
			return nil, fmt.Errorf("invalid supplier_id: %w", err)
		}
		if supplierID != nil {
			if _, err := s.supplierRepo.FindByID(ctx, *supplierID); err != nil {
				return nil, fmt.Errorf("supplier %s: %w", *supplierID, ErrNotFound)
			}
		}
		item.SupplierID = supplierID
		item.Supplier = nil
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.invalidateAlerts(ctx)

	resp := toItemResponse(item)
	return &resp, nil
}

func (s *itemService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.itemRepo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateAlerts(ctx)
	return nil
}

func (s *itemService) SetStock(ctx context.Context, id uuid.UUID, stock int) (*dto.ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	if stock < 0 {
		stock = 0
	}
	item.CurrentStock = stock
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.invalidateAlerts(ctx)

	resp := toItemResponse(item)
	return &resp, nil
}

func (s *itemService) Alerts(ctx context.Context) ([]dto.ItemResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, alertsCacheKey).Bytes(); err == nil {
			var out []dto.ItemResponse
			if err := json.Unmarshal(cached, &out); err == nil {
				return out, nil
			}
		}
	}

	items, err := s.itemRepo.ListBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, toItemResponse(&items[i]))
	}

	if s.rdb != nil {
		if data, err := json.Marshal(out); err == nil {
			if err := s.rdb.Set(ctx, alertsCacheKey, data, alertsCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("alerts cache write failed")
			}
		}
	}
	return out, nil
}

// ImportCSV expects a header row then
// name,unit_type,items_per_box,minimum_stock,current_stock,supplier_name.
// Unknown suppliers leave the item supplier-less; minimum defaults to 1
// and current stock to 0 when the cells are empty.
func (s *itemService) ImportCSV(ctx context.Context, data []byte) (*dto.CSVImportResponse, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// Header row is mandatory.
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("csv import: read header: %w", err)
	}

	resp := &dto.CSVImportResponse{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			resp.Failed++
			continue
		}
		item, ok := s.parseCSVRow(ctx, record)
		if !ok {
			resp.Failed++
			continue
		}
		if err := s.itemRepo.Create(ctx, item); err != nil {
			log.Warn().Err(err).Str("item", item.Name).Msg("csv row insert failed")
			resp.Failed++
			continue
		}
		resp.Imported++
	}

	s.invalidateAlerts(ctx)
	return resp, nil
}

func (s *itemService) parseCSVRow(ctx context.Context, record []string) (*model.Item, bool) {
	if len(record) < 2 {
		return nil, false
	}
	name := strings.TrimSpace(record[0])
	if name == "" {
		return nil, false
	}
	// Unknown unit types fall back to individual rather than failing the row.
	unitType := strings.TrimSpace(record[1])
	if unitType != model.UnitTypeBox {
		unitType = model.UnitTypeIndividual
	}

	item := &model.Item{Name: name, UnitType: unitType, MinimumStock: 1}

	if unitType == model.UnitTypeBox && len(record) > 2 && strings.TrimSpace(record[2]) != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(record[2])); err == nil && n > 0 {
			item.ItemsPerBox = &n
		}
	}
	if len(record) > 3 && strings.TrimSpace(record[3]) != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(record[3])); err == nil && n >= 0 {
			item.MinimumStock = n
		}
	}
	if len(record) > 4 && strings.TrimSpace(record[4]) != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(record[4])); err == nil && n >= 0 {
			item.CurrentStock = n
		}
	}
	if len(record) > 5 && strings.TrimSpace(record[5]) != "" {
		if supplier, err := s.supplierRepo.FindByName(ctx, strings.TrimSpace(record[5])); err == nil {
			item.SupplierID = &supplier.ID
		}
	}
	return item, true
}

func (s *itemService) invalidateAlerts(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, alertsCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("alerts cache invalidation failed")
	}
}

func toItemResponse(i *model.Item) dto.ItemResponse {
	resp := dto.ItemResponse{
		ID:           i.ID.String(),
		Name:         i.Name,
		UnitType:     i.UnitType,
		ItemsPerBox:  i.ItemsPerBox,
		MinimumStock: i.MinimumStock,
		CurrentStock: i.CurrentStock,
		BelowMin:     i.BelowMinimum(),
	}
	if i.SupplierID != nil {
		sid := i.SupplierID.String()
		resp.SupplierID = &sid
	}
	if i.Supplier != nil {
		resp.SupplierName = &i.Supplier.Name
	}
	return resp
}
