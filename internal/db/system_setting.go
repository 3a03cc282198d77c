package db

import "gorm.io/gorm"

// SystemSetting 存储系统级键值对。
type SystemSetting struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

// TableName 自定义表名以保持命名一致。
func (SystemSetting) TableName() string {
	return "system_settings"
}

const (
	// SettingKeyDatasetVersion 记录数据集的结构版本。
	SettingKeyDatasetVersion = "dataset_version"
	// SettingKeySeededAt 标记首次初始化（默认类型与示例数据）已完成的时间。
	SettingKeySeededAt = "seeded_at"
)
