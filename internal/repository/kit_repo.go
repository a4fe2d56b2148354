package repository

import (
	"context"

	"clinistock/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// KitRepository covers both kit flavors. Authoring updates replace all
// lines wholesale (delete-then-insert), so no per-line update exists.
type KitRepository interface {
	CreateItemSet(ctx context.Context, s *model.ItemSet, lines []model.SetItem) error
	FindItemSetByID(ctx context.Context, id uuid.UUID) (*model.ItemSet, error)
	ListItemSets(ctx context.Context) ([]model.ItemSet, error)
	ReplaceItemSetLines(ctx context.Context, id uuid.UUID, lines []model.SetItem) error

	CreatePatientSet(ctx context.Context, s *model.PatientSet, lines []model.SetItem) error
	FindPatientSetByID(ctx context.Context, id uuid.UUID) (*model.PatientSet, error)
	ListPatientSets(ctx context.Context, patientID *uuid.UUID) ([]model.PatientSet, error)
	ReplacePatientSetLines(ctx context.Context, id uuid.UUID, lines []model.SetItem) error
	DeletePatientSet(ctx context.Context, id uuid.UUID) error
}

type kitRepo struct{ db *gorm.DB }

func NewKitRepository(db *gorm.DB) KitRepository { return &kitRepo{db: db} }

func (r *kitRepo) CreateItemSet(ctx context.Context, s *model.ItemSet, lines []model.SetItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(s).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].ItemSetID = &s.ID
			if err := tx.Create(&lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *kitRepo) FindItemSetByID(ctx context.Context, id uuid.UUID) (*model.ItemSet, error) {
	var s model.ItemSet
	err := r.db.WithContext(ctx).Preload("Lines").Preload("Lines.Item").First(&s, "id = ?", id).Error
	return &s, err
}

func (r *kitRepo) ListItemSets(ctx context.Context) ([]model.ItemSet, error) {
	var sets []model.ItemSet
	err := r.db.WithContext(ctx).Preload("Lines").Preload("Lines.Item").Order("name ASC").Find(&sets).Error
	return sets, err
}

func (r *kitRepo) ReplaceItemSetLines(ctx context.Context, id uuid.UUID, lines []model.SetItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_set_id = ?", id).Delete(&model.SetItem{}).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].ItemSetID = &id
			if err := tx.Create(&lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *kitRepo) CreatePatientSet(ctx context.Context, s *model.PatientSet, lines []model.SetItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(s).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].PatientSetID = &s.ID
			if err := tx.Create(&lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *kitRepo) FindPatientSetByID(ctx context.Context, id uuid.UUID) (*model.PatientSet, error) {
	var s model.PatientSet
	err := r.db.WithContext(ctx).Preload("Patient").Preload("Lines").Preload("Lines.Item").
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *kitRepo) ListPatientSets(ctx context.Context, patientID *uuid.UUID) ([]model.PatientSet, error) {
	var sets []model.PatientSet
	q := r.db.WithContext(ctx).Preload("Patient").Preload("Lines").Preload("Lines.Item")
	if patientID != nil {
		q = q.Where("patient_id = ?", *patientID)
	}
	err := q.Order("name ASC").Find(&sets).Error
	return sets, err
}

func (r *kitRepo) ReplacePatientSetLines(ctx context.Context, id uuid.UUID, lines []model.SetItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("patient_set_id = ?", id).Delete(&model.SetItem{}).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].PatientSetID = &id
			if err := tx.Create(&lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeletePatientSet removes the set and its lines.
func (r *kitRepo) DeletePatientSet(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("patient_set_id = ?", id).Delete(&model.SetItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.PatientSet{}, "id = ?", id).Error
	})
}
