package db

import "time"

// Category 对应 typologies 表，记录访客类型
// ID 为字符串（默认类型使用 "1".."5"，新增类型使用 uuid）
// Family 可为空，用于分组展示
type Category struct {
	ID     string  `gorm:"primaryKey;size:64"`
	Name   string  `gorm:"column:nom;not null"`
	Color  string  `gorm:"column:couleur;size:16"`
	Active bool    `gorm:"column:actif;not null"`
	Order  int     `gorm:"column:ordre;index"`
	Family *string `gorm:"column:famille"`
}

// TableName 保持与导出文档一致的表名
func (Category) TableName() string {
	return "typologies"
}

// Day 对应 jours 表，每个日期最多一条
// Counts 声明 comptages.date -> jours.date 的外键，删除日期时级联删除计数
type Day struct {
	Date          string     `gorm:"primaryKey;size:10"`
	TotalVisits   int        `gorm:"column:total_visites;not null"`
	OverrideTotal bool       `gorm:"column:override_total;not null"`
	Note          string     `gorm:"column:note;type:text"`
	Estimated     bool       `gorm:"column:estimee;not null"`
	LastUpdated   time.Time  `gorm:"column:derniere_maj"`
	Counts        []DayCount `gorm:"foreignKey:Date;references:Date;constraint:OnDelete:CASCADE"`
}

// TableName 重写表名
func (Day) TableName() string {
	return "jours"
}

// DayCount 对应 comptages 表
// Date + CategoryID 采用唯一索引，保证同一天同一类型只有一条计数
type DayCount struct {
	ID         uint     `gorm:"primaryKey"`
	Date       string   `gorm:"size:10;not null;index:idx_comptage_unique,unique"`
	CategoryID string   `gorm:"column:typologie_id;size:64;not null;index;index:idx_comptage_unique,unique"`
	Category   Category `gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:CASCADE"`
	Count      int      `gorm:"column:count;not null"`
}

// TableName 重写确保唯一索引作用到 date + typologie_id
func (DayCount) TableName() string {
	return "comptages"
}
