package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clinistock/internal/dto"
	"clinistock/internal/model"
	"clinistock/internal/repository"

	"github.com/google/uuid"
)

// ErrSupplierInUse blocks deleting a supplier that still has items.
var ErrSupplierInUse = errors.New("supplier has items assigned")

type SupplierService interface {
	Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error)
	List(ctx context.Context) ([]dto.SupplierResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type supplierService struct {
	repo repository.SupplierRepository
}

func NewSupplierService(repo repository.SupplierRepository) SupplierService {
	return &supplierService{repo: repo}
}

func (s *supplierService) Create(ctx context.Context, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier := &model.Supplier{
		Name:      strings.TrimSpace(req.Name),
		FaxNumber: strings.TrimSpace(req.FaxNumber),
		Address:   req.Address,
		Email:     req.Email,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	resp := toSupplierResponse(supplier, 0)
	return &resp, nil
}

func (s *supplierService) Get(ctx context.Context, id uuid.UUID) (*dto.SupplierResponse, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("supplier %s: %w", id, ErrNotFound)
	}
	count, err := s.repo.CountItems(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toSupplierResponse(supplier, count)
	return &resp, nil
}

func (s *supplierService) List(ctx context.Context) ([]dto.SupplierResponse, error) {
	suppliers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		count, err := s.repo.CountItems(ctx, suppliers[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, toSupplierResponse(&suppliers[i], count))
	}
	return out, nil
}

func (s *supplierService) Update(ctx context.Context, id uuid.UUID, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("supplier %s: %w", id, ErrNotFound)
	}
	supplier.Name = strings.TrimSpace(req.Name)
	supplier.FaxNumber = strings.TrimSpace(req.FaxNumber)
	supplier.Address = req.Address
	supplier.Email = req.Email
	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	count, err := s.repo.CountItems(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toSupplierResponse(supplier, count)
	return &resp, nil
}

func (s *supplierService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("supplier %s: %w", id, ErrNotFound)
	}
	count, err := s.repo.CountItems(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSupplierInUse
	}
	return s.repo.Delete(ctx, id)
}

func toSupplierResponse(s *model.Supplier, itemCount int64) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		FaxNumber: s.FaxNumber,
		Address:   s.Address,
		Email:     s.Email,
		ItemCount: int(itemCount),
	}
}
