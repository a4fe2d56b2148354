package service

import (
	"context"
	"strings"

	"clinistock/internal/dto"
	"clinistock/internal/model"
	"clinistock/internal/repository"
)

type ClinicService interface {
	// Get returns the clinic record, creating the default one on first call.
	Get(ctx context.Context) (*dto.ClinicResponse, error)
	Update(ctx context.Context, req dto.UpdateClinicRequest) (*dto.ClinicResponse, error)
}

type clinicService struct {
	repo repository.ClinicRepository
}

func NewClinicService(repo repository.ClinicRepository) ClinicService {
	return &clinicService{repo: repo}
}

func (s *clinicService) Get(ctx context.Context) (*dto.ClinicResponse, error) {
	clinic, err := s.repo.GetOrInit(ctx)
	if err != nil {
		return nil, err
	}
	resp := toClinicResponse(clinic)
	return &resp, nil
}

func (s *clinicService) Update(ctx context.Context, req dto.UpdateClinicRequest) (*dto.ClinicResponse, error) {
	clinic, err := s.repo.GetOrInit(ctx)
	if err != nil {
		return nil, err
	}
	clinic.Name = strings.TrimSpace(req.Name)
	clinic.Address = req.Address
	clinic.Phone = req.Phone
	clinic.Fax = req.Fax
	clinic.Email = req.Email
	clinic.Website = req.Website
	clinic.Director = req.Director
	if err := s.repo.Update(ctx, clinic); err != nil {
		return nil, err
	}
	resp := toClinicResponse(clinic)
	return &resp, nil
}

func toClinicResponse(c *model.ClinicInfo) dto.ClinicResponse {
	return dto.ClinicResponse{
		Name:     c.Name,
		Address:  c.Address,
		Phone:    c.Phone,
		Fax:      c.Fax,
		Email:    c.Email,
		Website:  c.Website,
		Director: c.Director,
	}
}
