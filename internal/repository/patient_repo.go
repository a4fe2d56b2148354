package repository

import (
	"context"

	"clinistock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(ctx context.Context, p *model.Patient) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	List(ctx context.Context) ([]model.Patient, error)
	Update(ctx context.Context, p *model.Patient) error
}

type patientRepo struct{ db *gorm.DB }

func NewPatientRepository(db *gorm.DB) PatientRepository { return &patientRepo{db: db} }

func (r *patientRepo) Create(ctx context.Context, p *model.Patient) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *patientRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	var p model.Patient
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *patientRepo) List(ctx context.Context) ([]model.Patient, error) {
	var patients []model.Patient
	err := r.db.WithContext(ctx).Order("name ASC").Find(&patients).Error
	return patients, err
}

func (r *patientRepo) Update(ctx context.Context, p *model.Patient) error {
	return r.db.WithContext(ctx).Save(p).Error
}
