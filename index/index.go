// Package index 维护外部用户/文章 ID 与稠密矩阵下标之间的双向映射。
//
// 映射在一次训练中构建一次，之后冻结；映射内双射。
// 不在映射中的 ID 是"未知实体"——常规的冷启动分支，
// 查询返回 (0, false) 而不是错误，禁止用未知 ID 直接索引矩阵。
package index

import "sort"

// IdentifierIndex 是用户/文章 ID 到稠密下标的双向映射。
// 四个 map 一起持久化到快照中；序列化为 JSON 时 int64 key 自动转为字符串。
type IdentifierIndex struct {
	UserToIndex map[int64]int `json:"user_to_index"`
	IndexToUser []int64       `json:"index_to_user"`
	ItemToIndex map[int64]int `json:"item_to_index"`
	IndexToItem []int64       `json:"index_to_item"`
}

// Build 从去重后的 ID 集合构建映射。
// ID 先升序排序再分配下标，保证同一输入集合重建结果完全一致。
func Build(userIDs, itemIDs []int64) *IdentifierIndex {
	users := dedupSorted(userIDs)
	items := dedupSorted(itemIDs)

	idx := &IdentifierIndex{
		UserToIndex: make(map[int64]int, len(users)),
		IndexToUser: users,
		ItemToIndex: make(map[int64]int, len(items)),
		IndexToItem: items,
	}
	for i, u := range users {
		idx.UserToIndex[u] = i
	}
	for i, it := range items {
		idx.ItemToIndex[it] = i
	}
	return idx
}

// LookupUser 查询用户下标；未知用户返回 (0, false)。
func (idx *IdentifierIndex) LookupUser(userID int64) (int, bool) {
	i, ok := idx.UserToIndex[userID]
	return i, ok
}

// LookupItem 查询文章下标；未知文章返回 (0, false)。
func (idx *IdentifierIndex) LookupItem(itemID int64) (int, bool) {
	i, ok := idx.ItemToIndex[itemID]
	return i, ok
}

// UserAt 反查下标对应的用户 ID；越界返回 (0, false)。
func (idx *IdentifierIndex) UserAt(i int) (int64, bool) {
	if i < 0 || i >= len(idx.IndexToUser) {
		return 0, false
	}
	return idx.IndexToUser[i], true
}

// ItemAt 反查下标对应的文章 ID；越界返回 (0, false)。
func (idx *IdentifierIndex) ItemAt(i int) (int64, bool) {
	if i < 0 || i >= len(idx.IndexToItem) {
		return 0, false
	}
	return idx.IndexToItem[i], true
}

// Users 返回用户数。
func (idx *IdentifierIndex) Users() int { return len(idx.IndexToUser) }

// Items 返回文章数。
func (idx *IdentifierIndex) Items() int { return len(idx.IndexToItem) }

func dedupSorted(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
