package service

import (
	"github.com/frequentation/internal/locale"
	"github.com/frequentation/internal/model"
)

// DatasetStats 汇总数据集规模
type DatasetStats struct {
	RecordedDays     int `json:"joursEnregistres"`
	Categories       int `json:"typologies"`
	ActiveCategories int `json:"typologiesActives"`
	TotalVisits      int `json:"totalVisites"`
}

// FamilyGroup 同一家族下的类型，按显示顺序排列
type FamilyGroup struct {
	Family     string           `json:"famille"`
	Categories []model.Category `json:"typologies"`
}

// ComputeStats 统计记录天数、类型数量与 total_visites 总和
func ComputeStats(data model.Dataset) DatasetStats {
	stats := DatasetStats{
		RecordedDays: len(data.Days),
		Categories:   len(data.Categories),
	}
	for _, c := range data.Categories {
		if c.Active {
			stats.ActiveCategories++
		}
	}
	for _, d := range data.Days {
		stats.TotalVisits += d.TotalVisits
	}
	return stats
}

// GroupByFamily 按家族分组，组顺序为各家族首次出现的顺序；无家族的类型归入“Sans famille”
func GroupByFamily(categories []model.Category, language string) []FamilyGroup {
	noFamily := locale.Pick(language, "No family", "Sans famille")

	var groups []FamilyGroup
	index := make(map[string]int)
	for _, c := range model.SortCategories(categories) {
		family := c.Family
		if family == "" {
			family = noFamily
		}
		i, ok := index[family]
		if !ok {
			i = len(groups)
			index[family] = i
			groups = append(groups, FamilyGroup{Family: family})
		}
		groups[i].Categories = append(groups[i].Categories, c)
	}
	return groups
}
