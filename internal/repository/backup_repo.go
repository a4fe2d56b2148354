package repository

import (
	"context"

	"clinistock/internal/dto"
	"clinistock/internal/model"

	"gorm.io/gorm"
)

// BackupRepository sweeps whole tables for export, restore and clear.
// Restore and Clear run in one transaction; a failure leaves the
// database untouched.
type BackupRepository interface {
	ExportAll(ctx context.Context) (*dto.BackupSnapshot, error)
	RestoreAll(ctx context.Context, snap *dto.BackupSnapshot) error
	Clear(ctx context.Context, keepSuppliers bool) error
}

type backupRepo struct{ db *gorm.DB }

func NewBackupRepository(db *gorm.DB) BackupRepository { return &backupRepo{db: db} }

func (r *backupRepo) ExportAll(ctx context.Context) (*dto.BackupSnapshot, error) {
	snap := &dto.BackupSnapshot{}
	db := r.db.WithContext(ctx)

	if err := db.Find(&snap.Suppliers).Error; err != nil {
		return nil, err
	}
	if err := db.Find(&snap.Items).Error; err != nil {
		return nil, err
	}
	if err := db.Find(&snap.Patients).Error; err != nil {
		return nil, err
	}
	if err := db.Find(&snap.ItemSets).Error; err != nil {
		return nil, err
	}
	if err := db.Find(&snap.PatientSets).Error; err != nil {
		return nil, err
	}
	if err := db.Find(&snap.SetItems).Error; err != nil {
		return nil, err
	}
	if err := db.Find(&snap.Usages).Error; err != nil {
		return nil, err
	}
	if err := db.Find(&snap.Orders).Error; err != nil {
		return nil, err
	}
	if err := db.Find(&snap.OrderItems).Error; err != nil {
		return nil, err
	}

	var clinic model.ClinicInfo
	if err := db.First(&clinic).Error; err == nil {
		snap.Clinic = &clinic
	}
	return snap, nil
}

// deleteOrder respects foreign keys: children before parents.
var deleteOrder = []any{
	&model.OrderItem{},
	&model.Order{},
	&model.Usage{},
	&model.SetItem{},
	&model.PatientSet{},
	&model.ItemSet{},
	&model.Item{},
	&model.Patient{},
}

func (r *backupRepo) RestoreAll(ctx context.Context, snap *dto.BackupSnapshot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range deleteOrder {
			if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("1 = 1").Delete(&model.Supplier{}).Error; err != nil {
			return err
		}

		// Parents before children on the way back in.
		if len(snap.Suppliers) > 0 {
			if err := tx.Create(&snap.Suppliers).Error; err != nil {
				return err
			}
		}
		if len(snap.Patients) > 0 {
			if err := tx.Create(&snap.Patients).Error; err != nil {
				return err
			}
		}
		if len(snap.Items) > 0 {
			if err := tx.Create(&snap.Items).Error; err != nil {
				return err
			}
		}
		if len(snap.ItemSets) > 0 {
			if err := tx.Create(&snap.ItemSets).Error; err != nil {
				return err
			}
		}
		if len(snap.PatientSets) > 0 {
			if err := tx.Create(&snap.PatientSets).Error; err != nil {
				return err
			}
		}
		if len(snap.SetItems) > 0 {
			if err := tx.Create(&snap.SetItems).Error; err != nil {
				return err
			}
		}
		if len(snap.Usages) > 0 {
			if err := tx.Create(&snap.Usages).Error; err != nil {
				return err
			}
		}
		if len(snap.Orders) > 0 {
			if err := tx.Create(&snap.Orders).Error; err != nil {
				return err
			}
		}
		if len(snap.OrderItems) > 0 {
			if err := tx.Create(&snap.OrderItems).Error; err != nil {
				return err
			}
		}
		if snap.Clinic != nil {
			if err := tx.Where("1 = 1").Delete(&model.ClinicInfo{}).Error; err != nil {
				return err
			}
			if err := tx.Create(snap.Clinic).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *backupRepo) Clear(ctx context.Context, keepSuppliers bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range deleteOrder {
			if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
				return err
			}
		}
		if !keepSuppliers {
			if err := tx.Where("1 = 1").Delete(&model.Supplier{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
