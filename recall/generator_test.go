package recall

import (
	"context"
	"testing"

	"github.com/mycontent/recserve/core"
	"github.com/mycontent/recserve/index"
)

type fakeOracle struct {
	ranked []core.ScoredIndex
	err    error
}

func (f *fakeOracle) Fit(context.Context, *core.SparseMatrix) error { return nil }
func (f *fakeOracle) Trained() bool                                 { return true }
func (f *fakeOracle) Hyperparameters() map[string]float64           { return nil }
func (f *fakeOracle) Recommend(_ int, _ map[int]float64, n int) ([]core.ScoredIndex, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := f.ranked
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// 场景固定资产：训练映射只含用户 {1,2}（用户 3 低活被剔除），
// 文章 {10,20,30}；热门表三者同热度（各 2 个用户），
// 已读集为全量口径，用户 3 读过全部三篇。
func scenarioGenerator(oracle core.FactorOracle) *Generator {
	idx := index.Build([]int64{1, 2}, []int64{10, 20, 30})
	userItem := core.NewSparseMatrix(2, 3, []core.Entry{
		{Row: 0, Col: 0, Value: 5}, {Row: 0, Col: 1, Value: 3},
		{Row: 1, Col: 2, Value: 6},
	})
	return &Generator{
		Index:    idx,
		Oracle:   oracle,
		UserItem: userItem,
		Popular: &Popular{
			Popularity: map[int64]int64{10: 2, 20: 2, 30: 2},
			AllItems:   []int64{30, 10, 20},
		},
		Seen: map[int64]map[int64]struct{}{
			1: {10: {}, 20: {}},
			2: {30: {}},
			3: {10: {}, 20: {}, 30: {}},
		},
	}
}

func ids(items []*core.Item) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestRecommend_ModelPathExcludesSeen(t *testing.T) {
	// oracle 返回全部三篇（下标 0/1/2 即文章 10/20/30）
	g := scenarioGenerator(&fakeOracle{ranked: []core.ScoredIndex{
		{Index: 2, Score: 0.9}, {Index: 0, Score: 0.8}, {Index: 1, Score: 0.7},
	}})

	items, outcome := g.Recommend(1, 2, true)
	if outcome != OutcomeModel {
		t.Fatalf("outcome = %v, want model", outcome)
	}
	// 用户 1 已读 {10,20}，只剩 30
	got := ids(items)
	if len(got) != 1 || got[0] != 30 {
		t.Errorf("got %v, want [30]", got)
	}

	// 不排除已读时可以返回已读文章
	items, _ = g.Recommend(1, 3, false)
	if len(items) != 3 {
		t.Errorf("exclude_seen=false should keep seen items, got %v", ids(items))
	}
}

func TestRecommend_UnknownUserFallsBackToPopular(t *testing.T) {
	g := scenarioGenerator(&fakeOracle{})

	items, outcome := g.Recommend(999, 5, true)
	if outcome != OutcomeFallbackUnknown {
		t.Fatalf("outcome = %v, want fallback_unknown_user", outcome)
	}
	// 同热度按 ID 升序：10, 20, 30；池子只有 3 篇，不足 5 不是错误
	got := ids(items)
	want := []int64{10, 20, 30}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rank %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestRecommend_SubThresholdUserMatchesUnknown(t *testing.T) {
	g := scenarioGenerator(&fakeOracle{})

	// 用户 3 不在训练映射中，读过全部三篇 → 排除后为空，不是错误
	items, outcome := g.Recommend(3, 2, true)
	if outcome != OutcomeFallbackUnknown {
		t.Fatalf("outcome = %v, want fallback_unknown_user", outcome)
	}
	if len(items) != 0 {
		t.Errorf("expected empty result, got %v", ids(items))
	}

	// 低活用户与同已读集的未知用户排序必须一致
	g.Seen[12345] = g.Seen[3]
	a, _ := g.Recommend(3, 3, false)
	b, _ := g.Recommend(12345, 3, false)
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Errorf("sub-threshold user ranking differs from unknown user at %d: %d vs %d", i, a[i].ID, b[i].ID)
		}
	}
}

func TestRecommend_OracleFailureFallsBack(t *testing.T) {
	g := scenarioGenerator(&fakeOracle{err: core.ErrOracleFailure})

	items, outcome := g.Recommend(1, 3, false)
	if outcome != OutcomeFallbackOracle {
		t.Fatalf("outcome = %v, want fallback_oracle_error", outcome)
	}
	if len(items) != 3 {
		t.Errorf("fallback should still produce candidates, got %v", ids(items))
	}
	if lbl, ok := items[0].Labels["fallback_reason"]; !ok || lbl.Value != string(OutcomeFallbackOracle) {
		t.Error("fallback items should carry a fallback_reason label")
	}
}

func TestRecommend_NeverReturnsSeenWhenExcluding(t *testing.T) {
	g := scenarioGenerator(&fakeOracle{ranked: []core.ScoredIndex{
		{Index: 0, Score: 1}, {Index: 1, Score: 0.9}, {Index: 2, Score: 0.8},
	}})

	for _, user := range []int64{1, 2, 3} {
		items, _ := g.Recommend(user, 3, true)
		for _, it := range items {
			if _, ok := g.Seen[user][it.ID]; ok {
				t.Errorf("user %d: seen item %d leaked into result", user, it.ID)
			}
		}
	}
}

func TestCandidates_OverFetchWithoutExclusion(t *testing.T) {
	g := scenarioGenerator(&fakeOracle{ranked: []core.ScoredIndex{
		{Index: 2, Score: 0.9}, {Index: 0, Score: 0.8}, {Index: 1, Score: 0.7},
	}})

	// Pipeline 形态：不截断、不排除，交给下游 Node
	items, outcome := g.Candidates(1, 1)
	if outcome != OutcomeModel {
		t.Fatalf("outcome = %v", outcome)
	}
	if len(items) != 3 {
		t.Errorf("over-fetch should request n+|seen| = 3 candidates, got %d", len(items))
	}
}
