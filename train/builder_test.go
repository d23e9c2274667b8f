package train

import "testing"

// 训练场景：用户 {1,2,3}，文章 {10,20,30}，
// 1→10 (×5), 1→20 (×3), 2→30 (×6), 3→10/20/30 (各 ×1)。
// 用户 3 累计 3 次点击，低于阈值 5，被剔除出训练矩阵，
// 但已读集与热门表仍覆盖它。
func scenarioInteractions() []Interaction {
	return []Interaction{
		{UserID: 1, ArticleID: 10, Weight: 5},
		{UserID: 1, ArticleID: 20, Weight: 3},
		{UserID: 2, ArticleID: 30, Weight: 6},
		{UserID: 3, ArticleID: 10, Weight: 1},
		{UserID: 3, ArticleID: 20, Weight: 1},
		{UserID: 3, ArticleID: 30, Weight: 1},
	}
}

func TestAggregate(t *testing.T) {
	events := []ClickEvent{
		{UserID: 1, ArticleID: 10}, {UserID: 1, ArticleID: 10}, {UserID: 1, ArticleID: 10},
		{UserID: 1, ArticleID: 20},
		{UserID: 2, ArticleID: 10},
	}
	got := Aggregate(events)
	want := []Interaction{
		{UserID: 1, ArticleID: 10, Weight: 3},
		{UserID: 1, ArticleID: 20, Weight: 1},
		{UserID: 2, ArticleID: 10, Weight: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d interactions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("interaction %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestBuild_MinActivityFilter(t *testing.T) {
	ds := Build(scenarioInteractions(), BuildOptions{})

	// 用户 3 不在训练映射中
	if _, ok := ds.Index.LookupUser(3); ok {
		t.Error("user 3 should be dropped from the training index")
	}
	if _, ok := ds.Index.LookupUser(1); !ok {
		t.Error("user 1 should survive the activity filter")
	}
	if _, ok := ds.Index.LookupUser(2); !ok {
		t.Error("user 2 should survive the activity filter")
	}

	// 但已读集覆盖全量口径
	seen := ds.SeenSets[3]
	if len(seen) != 3 {
		t.Fatalf("user 3 seen set = %d items, want 3", len(seen))
	}
	for _, it := range []int64{10, 20, 30} {
		if _, ok := seen[it]; !ok {
			t.Errorf("user 3 should have seen item %d", it)
		}
	}

	// 热门表 = 聚合对计数（交互用户数）
	for it, want := range map[int64]int64{10: 2, 20: 2, 30: 2} {
		if ds.Popularity[it] != want {
			t.Errorf("popularity[%d] = %d, want %d", it, ds.Popularity[it], want)
		}
	}
	if len(ds.AllItems) != 3 {
		t.Errorf("all items = %d, want 3", len(ds.AllItems))
	}
}

func TestBuild_MatrixOrientationsConsistent(t *testing.T) {
	ds := Build(scenarioInteractions(), BuildOptions{})

	if ds.UserItem.NNZ() != ds.ItemUser.NNZ() {
		t.Fatalf("nnz mismatch: %d vs %d", ds.UserItem.NNZ(), ds.ItemUser.NNZ())
	}

	// 每个非零元必须在转置方向出现且值一致
	for u := 0; u < ds.UserItem.RowCount; u++ {
		cols, vals := ds.UserItem.Row(u)
		for k, c := range cols {
			if got := ds.ItemUser.RowMap(c)[u]; got != vals[k] {
				t.Errorf("entry (%d,%d)=%v missing or wrong in transpose: %v", u, c, vals[k], got)
			}
		}
	}
}

func TestBuild_ZeroWeightDropped(t *testing.T) {
	ds := Build([]Interaction{
		{UserID: 1, ArticleID: 10, Weight: 0},
		{UserID: 1, ArticleID: 20, Weight: 6},
	}, BuildOptions{})

	if _, ok := ds.SeenSets[1][10]; ok {
		t.Error("zero-weight interaction must behave as never interacted")
	}
	if ds.Popularity[10] != 0 {
		t.Errorf("popularity[10] = %d, want 0", ds.Popularity[10])
	}
}
