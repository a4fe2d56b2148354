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

type PatientService interface {
	Create(ctx context.Context, req dto.CreatePatientRequest) (*dto.PatientResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)
	List(ctx context.Context) ([]dto.PatientResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.CreatePatientRequest) (*dto.PatientResponse, error)
}

type patientService struct {
	repo repository.PatientRepository
}

func NewPatientService(repo repository.PatientRepository) PatientService {
	return &patientService{repo: repo}
}

func (s *patientService) Create(ctx context.Context, req dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	patient := &model.Patient{
		Name:    strings.TrimSpace(req.Name),
		Code:    req.Code,
		Address: req.Address,
		Phone:   req.Phone,
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}
	resp := toPatientResponse(patient)
	return &resp, nil
}

func (s *patientService) Get(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	patient, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("patient %s: %w", id, ErrNotFound)
	}
	resp := toPatientResponse(patient)
	return &resp, nil
}

func (s *patientService) List(ctx context.Context) ([]dto.PatientResponse, error) {
	patients, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PatientResponse, 0, len(patients))
	for i := range patients {
		out = append(out, toPatientResponse(&patients[i]))
	}
	return out, nil
}

func (s *patientService) Update(ctx context.Context, id uuid.UUID, req dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	patient, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("patient %s: %w", id, ErrNotFound)
	}
	patient.Name = strings.TrimSpace(req.Name)
	patient.Code = req.Code
	patient.Address = req.Address
	patient.Phone = req.Phone
	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}
	resp := toPatientResponse(patient)
	return &resp, nil
}

func toPatientResponse(p *model.Patient) dto.PatientResponse {
	return dto.PatientResponse{
		ID:      p.ID.String(),
		Name:    p.Name,
		Code:    p.Code,
		Address: p.Address,
		Phone:   p.Phone,
	}
}
