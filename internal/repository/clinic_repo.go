package repository

import (
	"context"
	"errors"

	"clinistock/internal/model"

	"gorm.io/gorm"
)

type ClinicRepository interface {
	// GetOrInit returns the singleton clinic record, creating it with the
	// default name on first access.
	GetOrInit(ctx context.Context) (*model.ClinicInfo, error)
	Update(ctx context.Context, c *model.ClinicInfo) error
}

type clinicRepo struct{ db *gorm.DB }

func NewClinicRepository(db *gorm.DB) ClinicRepository { return &clinicRepo{db: db} }

func (r *clinicRepo) GetOrInit(ctx context.Context) (*model.ClinicInfo, error) {
	var c model.ClinicInfo
	err := r.db.WithContext(ctx).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c = model.ClinicInfo{Name: model.DefaultClinicName}
		if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
			return nil, err
		}
		return &c, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clinicRepo) Update(ctx context.Context, c *model.ClinicInfo) error {
	return r.db.WithContext(ctx).Save(c).Error
}
