package service

import (
	"context"
	"fmt"
	"strings"

	"clinistock/internal/dto"
	"clinistock/internal/model"
	"clinistock/internal/repository"

	"github.com/google/uuid"
)

type KitService interface {
	CreateItemSet(ctx context.Context, req dto.CreateItemSetRequest) (*dto.ItemSetResponse, error)
	GetItemSet(ctx context.Context, id uuid.UUID) (*dto.ItemSetResponse, error)
	ListItemSets(ctx context.Context) ([]dto.ItemSetResponse, error)
	ReplaceItemSetLines(ctx context.Context, id uuid.UUID, req dto.ReplaceKitLinesRequest) (*dto.ItemSetResponse, error)

	CreatePatientSet(ctx context.Context, req dto.CreatePatientSetRequest) (*dto.PatientSetResponse, error)
	GetPatientSet(ctx context.Context, id uuid.UUID) (*dto.PatientSetResponse, error)
	ListPatientSets(ctx context.Context, patientID *uuid.UUID) ([]dto.PatientSetResponse, error)
	ReplacePatientSetLines(ctx context.Context, id uuid.UUID, req dto.ReplaceKitLinesRequest) (*dto.PatientSetResponse, error)
	DeletePatientSet(ctx context.Context, id uuid.UUID) error
}

type kitService struct {
	kitRepo     repository.KitRepository
	itemRepo    repository.ItemRepository
	patientRepo repository.PatientRepository
}

func NewKitService(kitRepo repository.KitRepository, itemRepo repository.ItemRepository, patientRepo repository.PatientRepository) KitService {
	return &kitService{kitRepo: kitRepo, itemRepo: itemRepo, patientRepo: patientRepo}
}

// buildKitLines converts request lines, dropping malformed ones and any
// referencing a nonexistent item. Kits tolerate sloppy input at authoring
// time the same way consumption does.
func (s *kitService) buildKitLines(ctx context.Context, lines []dto.KitLineRequest) []model.SetItem {
	out := make([]model.SetItem, 0, len(lines))
	for _, line := range lines {
		if line.ItemID == "" || line.Quantity <= 0 {
			continue
		}
		itemID, err := uuid.Parse(line.ItemID)
		if err != nil {
			continue
		}
		if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
			continue
		}
		out = append(out, model.SetItem{ItemID: itemID, Quantity: line.Quantity})
	}
	return out
}

func (s *kitService) CreateItemSet(ctx context.Context, req dto.CreateItemSetRequest) (*dto.ItemSetResponse, error) {
	set := &model.ItemSet{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	lines := s.buildKitLines(ctx, req.Lines)
	if err := s.kitRepo.CreateItemSet(ctx, set, lines); err != nil {
		return nil, err
	}
	return s.GetItemSet(ctx, set.ID)
}

func (s *kitService) GetItemSet(ctx context.Context, id uuid.UUID) (*dto.ItemSetResponse, error) {
	set, err := s.kitRepo.FindItemSetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("item set %s: %w", id, ErrNotFound)
	}
	resp := toItemSetResponse(set)
	return &resp, nil
}

func (s *kitService) ListItemSets(ctx context.Context) ([]dto.ItemSetResponse, error) {
	sets, err := s.kitRepo.ListItemSets(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemSetResponse, 0, len(sets))
	for i := range sets {
		out = append(out, toItemSetResponse(&sets[i]))
	}
	return out, nil
}

func (s *kitService) ReplaceItemSetLines(ctx context.Context, id uuid.UUID, req dto.ReplaceKitLinesRequest) (*dto.ItemSetResponse, error) {
	if _, err := s.kitRepo.FindItemSetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("item set %s: %w", id, ErrNotFound)
	}
	lines := s.buildKitLines(ctx, req.Lines)
	if err := s.kitRepo.ReplaceItemSetLines(ctx, id, lines); err != nil {
		return nil, err
	}
	return s.GetItemSet(ctx, id)
}

func (s *kitService) CreatePatientSet(ctx context.Context, req dto.CreatePatientSetRequest) (*dto.PatientSetResponse, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("invalid patient_id: %w", err)
	}
	if _, err := s.patientRepo.FindByID(ctx, patientID); err != nil {
		return nil, fmt.Errorf("patient %s: %w", patientID, ErrNotFound)
	}

	set := &model.PatientSet{
		Name:      strings.TrimSpace(req.Name),
		PatientID: patientID,
	}
	lines := s.buildKitLines(ctx, req.Lines)
	if err := s.kitRepo.CreatePatientSet(ctx, set, lines); err != nil {
		return nil, err
	}
	return s.GetPatientSet(ctx, set.ID)
}

func (s *kitService) GetPatientSet(ctx context.Context, id uuid.UUID) (*dto.PatientSetResponse, error) {
	set, err := s.kitRepo.FindPatientSetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("patient set %s: %w", id, ErrNotFound)
	}
	resp := toPatientSetResponse(set)
	return &resp, nil
}

func (s *kitService) ListPatientSets(ctx context.Context, patientID *uuid.UUID) ([]dto.PatientSetResponse, error) {
	sets, err := s.kitRepo.ListPatientSets(ctx, patientID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PatientSetResponse, 0, len(sets))
	for i := range sets {
		out = append(out, toPatientSetResponse(&sets[i]))
	}
	return out, nil
}

func (s *kitService) ReplacePatientSetLines(ctx context.Context, id uuid.UUID, req dto.ReplaceKitLinesRequest) (*dto.PatientSetResponse, error) {
	if _, err := s.kitRepo.FindPatientSetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("patient set %s: %w", id, ErrNotFound)
	}
	lines := s.buildKitLines(ctx, req.Lines)
	if err := s.kitRepo.ReplacePatientSetLines(ctx, id, lines); err != nil {
		return nil, err
	}
	return s.GetPatientSet(ctx, id)
}

func (s *kitService) DeletePatientSet(ctx context.Context, id uuid.UUID) error {
	if _, err := s.kitRepo.FindPatientSetByID(ctx, id); err != nil {
		return fmt.Errorf("patient set %s: %w", id, ErrNotFound)
	}
	return s.kitRepo.DeletePatientSet(ctx, id)
}

func toKitLineResponses(lines []model.SetItem) []dto.KitLineResponse {
	out := make([]dto.KitLineResponse, 0, len(lines))
	for _, line := range lines {
		lr := dto.KitLineResponse{ItemID: line.ItemID.String(), Quantity: line.Quantity}
		if line.Item != nil {
			lr.ItemName = line.Item.Name
		}
		out = append(out, lr)
	}
	return out
}

func toItemSetResponse(s *model.ItemSet) dto.ItemSetResponse {
	return dto.ItemSetResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		Description: s.Description,
		Lines:       toKitLineResponses(s.Lines),
	}
}

func toPatientSetResponse(s *model.PatientSet) dto.PatientSetResponse {
	resp := dto.PatientSetResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		PatientID: s.PatientID.String(),
		Lines:     toKitLineResponses(s.Lines),
	}
	if s.Patient != nil {
		resp.PatientName = s.Patient.Name
	}
	return resp
}
