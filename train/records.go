// Package train 把原始点击事件加工成可供隐因子训练消费的数据集：
// 聚合 -> 活跃度过滤 -> 稀疏矩阵（双方向）+ 已读集 + 热门表。
package train

import "sort"

// ClickEvent 是原始交互事件（训练输入，短暂存在）。
type ClickEvent struct {
	UserID    int64 `json:"user_id"`
	ArticleID int64 `json:"article_id"`
	// Timestamp 毫秒时间戳，用于训练窗口过滤。
	Timestamp int64 `json:"timestamp"`
}

// Interaction 是聚合后的 (user, item) 置信度记录。
// Weight 是该用户对该文章的累计点击数，非负；0 等价于从未交互。
type Interaction struct {
	UserID    int64
	ArticleID int64
	Weight    float64
}

// Aggregate 按 (user, item) 分组累加点击，输出按 (user, item) 升序排序，
// 保证同一事件集合的聚合结果确定。权重为 0 的记录被丢弃。
func Aggregate(events []ClickEvent) []Interaction {
	type key struct{ u, i int64 }
	agg := make(map[key]float64, len(events))
	for _, ev := range events {
		agg[key{ev.UserID, ev.ArticleID}]++
	}

	out := make([]Interaction, 0, len(agg))
	for k, w := range agg {
		if w <= 0 {
			continue
		}
		out = append(out, Interaction{UserID: k.u, ArticleID: k.i, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].ArticleID < out[j].ArticleID
	})
	return out
}
