package recall

import (
	"sort"

	"github.com/mycontent/recserve/core"
	"github.com/mycontent/recserve/pkg/utils"
)

// Popular 是热门召回源：按训练期派生的热门表对已知文章全集降序排序。
// 同热度按文章 ID 升序打破，保证结果确定。
//
// 作为未知用户/打分失败时的 fallback 路径，也可独立作为榜单使用。
type Popular struct {
	// Popularity: articleID -> 交互用户数（快照中的热门表）。
	Popularity map[int64]int64

	// AllItems 候选池：训练窗口内出现过的全部文章。
	AllItems []int64
}

// Rank 返回热门排序的候选，seen 中的文章被排除（seen 可为 nil），
// 截断到 n；候选池小于 n 时返回更少的条目，不是错误。
func (p *Popular) Rank(seen map[int64]struct{}, n int) []*core.Item {
	ranked := make([]int64, len(p.AllItems))
	copy(ranked, p.AllItems)
	sort.Slice(ranked, func(i, j int) bool {
		pi, pj := p.Popularity[ranked[i]], p.Popularity[ranked[j]]
		if pi != pj {
			return pi > pj
		}
		return ranked[i] < ranked[j]
	})

	out := make([]*core.Item, 0, n)
	for _, id := range ranked {
		if _, ok := seen[id]; ok {
			continue
		}
		it := core.NewItem(id)
		it.Score = float64(p.Popularity[id])
		it.PutLabel("recall_source", utils.Label{Value: "popular", Source: "recall"})
		out = append(out, it)
		if len(out) == n {
			break
		}
	}
	return out
}
