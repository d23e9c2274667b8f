package feature

import "math"

// DiversityReport 描述一批推荐结果的类别多样性。
// 只统计元数据可用的条目；分布的 key 是类别 ID。
type DiversityReport struct {
	CategoryDiversity      float64         `json:"category_diversity"`
	UniqueCategories       int             `json:"unique_categories"`
	TotalWithMetadata      int             `json:"total_with_metadata"`
	CategoriesDistribution map[int64]int   `json:"categories_distribution"`
}

// MeasureDiversity 计算类别多样性：去重类别数 / 有元数据的条目数。
// 没有任何条目带元数据时各项为零值，不报错。
func MeasureDiversity(items []EnrichedItem) DiversityReport {
	dist := make(map[int64]int)
	total := 0
	for _, it := range items {
		if !it.MetadataAvailable {
			continue
		}
		total++
		dist[it.CategoryID]++
	}

	report := DiversityReport{
		UniqueCategories:       len(dist),
		TotalWithMetadata:      total,
		CategoriesDistribution: dist,
	}
	if total > 0 {
		report.CategoryDiversity = math.Round(float64(len(dist))/float64(total)*1000) / 1000
	}
	return report
}
