package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/budgetbook/budgetbook/internal/domain"
	"github.com/rs/zerolog/log"
)

// BackupService copies exported snapshots to an off-device object store and
// restores them through the import path
type BackupService struct {
	repo     domain.BackupRepository
	transfer *TransferService
}

// NewBackupService creates a new BackupService. A nil repo disables backups.
func NewBackupService(repo domain.BackupRepository, transfer *TransferService) *BackupService {
	return &BackupService{
		repo:     repo,
		transfer: transfer,
	}
}

// Enabled reports whether a backup store is configured
func (s *BackupService) Enabled() bool {
	return s.repo != nil
}

// CreateBackup uploads the current document as budget-backup-<date>.json.
// A second backup on the same day replaces the first.
func (s *BackupService) CreateBackup(ctx context.Context) (*domain.BackupObject, error) {
	if !s.Enabled() {
		return nil, domain.ErrBackupsDisabled
	}

	data, name, err := s.transfer.ExportJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to export document: %w", err)
	}
	if err := s.repo.Upload(ctx, name, data); err != nil {
		log.Error().Err(err).Str("backup", name).Msg("Failed to upload backup")
		return nil, err
	}

	log.Info().Str("backup", name).Int("bytes", len(data)).Msg("Backup created")
	return &domain.BackupObject{
		Name:         name,
		Size:         int64(len(data)),
		LastModified: s.transfer.store.Now(),
	}, nil
}

// ListBackups returns the stored backups
func (s *BackupService) ListBackups(ctx context.Context) ([]domain.BackupObject, error) {
	if !s.Enabled() {
		return nil, domain.ErrBackupsDisabled
	}
	return s.repo.List(ctx)
}

// RestoreBackup downloads a backup and imports it with mode
func (s *BackupService) RestoreBackup(ctx context.Context, name string, mode ImportMode) (*ImportResult, error) {
	if !s.Enabled() {
		return nil, domain.ErrBackupsDisabled
	}
	if !validBackupName(name) {
		return nil, fmt.Errorf("%w: invalid backup name", domain.ErrInvalidInput)
	}

	data, err := s.repo.Download(ctx, name)
	if err != nil {
		return nil, err
	}

	result, err := s.transfer.ImportSnapshot(ctx, data, mode)
	if err != nil {
		return result, err
	}
	log.Info().Str("backup", name).Str("mode", string(mode)).Msg("Backup restored")
	return result, nil
}

func validBackupName(name string) bool {
	return name != "" &&
		path.Base(name) == name &&
		strings.HasSuffix(name, ".json")
}
