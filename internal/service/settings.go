package service

import (
	"errors"
	"fmt"

	"github.com/frequentation/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoreInfo 汇总数据集的元信息。
type StoreInfo struct {
	DatasetVersion string `json:"dataset_version"`
	SeededAt       string `json:"seeded_at"`
}

func getSetting(tx *gorm.DB, key string) (string, bool, error) {
	var setting db.SystemSetting
	if err := tx.Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("load setting %s: %w", key, err)
	}
	return setting.Value, true, nil
}

func upsertSetting(tx *gorm.DB, key, value string) error {
	setting := db.SystemSetting{Key: key, Value: value}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}

func loadStoreInfo(tx *gorm.DB) (StoreInfo, error) {
	var records []db.SystemSetting
	keys := []string{db.SettingKeyDatasetVersion, db.SettingKeySeededAt}
	if err := tx.Where("key IN ?", keys).Find(&records).Error; err != nil {
		return StoreInfo{}, fmt.Errorf("load store info: %w", err)
	}

	var info StoreInfo
	for _, record := range records {
		switch record.Key {
		case db.SettingKeyDatasetVersion:
			info.DatasetVersion = record.Value
		case db.SettingKeySeededAt:
			info.SeededAt = record.Value
		}
	}
	return info, nil
}
