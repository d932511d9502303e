package repo

import (
	"time"

	"planejeja/internal/models"

	"gorm.io/gorm"
)

// ReplaceSnapshot upserts the snapshot for its (symbol, captured_at) key:
// any prior row for the same minute is deleted before the insert, so
// re-collection within one minute overwrites instead of duplicating.
func (r *Repository) ReplaceSnapshot(snap *models.PriceSnapshot) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("symbol = ? AND captured_at = ?", snap.Symbol, snap.CapturedAt).
			Delete(&models.PriceSnapshot{}).Error; err != nil {
			return err
		}
		return tx.Create(snap).Error
	})
}

// DeleteSnapshotsBefore prunes snapshots older than cutoff and returns how
// many rows were removed.
func (r *Repository) DeleteSnapshotsBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("captured_at < ?", cutoff).Delete(&models.PriceSnapshot{})
	return result.RowsAffected, result.Error
}

// GetSnapshotsSince returns the snapshots for symbol captured at or after
// since, in ascending time order.
func (r *Repository) GetSnapshotsSince(symbol string, since time.Time) ([]models.PriceSnapshot, error) {
	var snapshots []models.PriceSnapshot
	if err := r.db.Where("symbol = ? AND captured_at >= ?", symbol, since).
		Order("captured_at ASC").
		Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (r *Repository) CountSnapshots(symbol string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.PriceSnapshot{}).Where("symbol = ?", symbol).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
