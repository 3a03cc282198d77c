package service

import (
	"math/rand/v2"
	"time"

	"github.com/frequentation/internal/model"
)

const (
	// DemoHistoryDays 为示例数据覆盖的天数（不含今天）
	DemoHistoryDays = 30
	demoSkipChance  = 0.15
	demoMaxCount    = 15
	demoNote        = "Journée normale"
)

// GenerateDemoDays 生成最近 DemoHistoryDays 天的示例记录
// 约 15% 的日期随机跳过；每个启用类型计数 1..15；今天不带备注
// total_visites 始终等于各计数之和
func GenerateDemoDays(rng *rand.Rand, today time.Time, categories []model.Category, stamp time.Time) []model.DayRecord {
	today = model.DateOf(today)
	active := model.ActiveCategories(categories)

	days := make([]model.DayRecord, 0, DemoHistoryDays+1)
	for i := DemoHistoryDays; i >= 0; i-- {
		if rng.Float64() < demoSkipChance {
			continue
		}

		counts := make([]model.CategoryCount, 0, len(active))
		for _, c := range active {
			counts = append(counts, model.CategoryCount{CategoryID: c.ID, Count: rng.IntN(demoMaxCount) + 1})
		}

		note := ""
		if i != 0 && rng.Float64() > 0.7 {
			note = demoNote
		}

		days = append(days, model.DayRecord{
			Date:        model.FormatDate(today.AddDate(0, 0, -i)),
			TotalVisits: model.SumCounts(counts),
			Counts:      counts,
			Note:        note,
			Estimated:   rng.Float64() > 0.9,
			LastUpdated: stamp.UTC(),
		})
	}
	return days
}

// SeedDataset 返回默认类型加示例记录组成的完整数据集
func SeedDataset(rng *rand.Rand, today, stamp time.Time) model.Dataset {
	categories := model.DefaultCategories()
	return model.Dataset{
		Days:       GenerateDemoDays(rng, today, categories, stamp),
		Categories: categories,
		Version:    model.CurrentVersion,
	}
}
