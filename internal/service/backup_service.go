package service

import (
	"context"
	"time"

	"clinistock/internal/dto"
	"clinistock/internal/repository"

	"github.com/rs/zerolog/log"
)

type BackupService interface {
	// Export dumps every table into one JSON snapshot.
	Export(ctx context.Context) (*dto.BackupSnapshot, error)
	// Restore replaces the database contents with the snapshot, all or
	// nothing.
	Restore(ctx context.Context, snap *dto.BackupSnapshot) error
	// Clear wipes operational data; suppliers survive when keepSuppliers
	// is set.
	Clear(ctx context.Context, keepSuppliers bool) error
}

type backupService struct {
	repo repository.BackupRepository
}

func NewBackupService(repo repository.BackupRepository) BackupService {
	return &backupService{repo: repo}
}

func (s *backupService) Export(ctx context.Context) (*dto.BackupSnapshot, error) {
	snap, err := s.repo.ExportAll(ctx)
	if err != nil {
		return nil, err
	}
	snap.ExportedAt = time.Now().UTC().Format(time.RFC3339)
	return snap, nil
}

func (s *backupService) Restore(ctx context.Context, snap *dto.BackupSnapshot) error {
	if err := s.repo.RestoreAll(ctx, snap); err != nil {
		return err
	}
	log.Info().
		Int("suppliers", len(snap.Suppliers)).
		Int("items", len(snap.Items)).
		Int("orders", len(snap.Orders)).
		Msg("backup restored")
	return nil
}

func (s *backupService) Clear(ctx context.Context, keepSuppliers bool) error {
	if err := s.repo.Clear(ctx, keepSuppliers); err != nil {
		return err
	}
	log.Warn().Bool("keep_suppliers", keepSuppliers).Msg("operational data cleared")
	return nil
}
