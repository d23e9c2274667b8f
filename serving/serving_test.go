package serving

import (
	"context"
	"testing"

	"github.com/mycontent/recserve/core"
	"github.com/mycontent/recserve/feature"
	"github.com/mycontent/recserve/model"
	"github.com/mycontent/recserve/recall"
	"github.com/mycontent/recserve/snapshot"
	"github.com/mycontent/recserve/train"
)

// 场景数据：用户 1 点 10 五次、20 三次；用户 2 点 30 六次；
// 用户 3 各点一次（累计 3，低于阈值 5，不进训练映射）。
func scenarioEvents() []train.ClickEvent {
	var events []train.ClickEvent
	add := func(user, article int64, times int) {
		for i := 0; i < times; i++ {
			events = append(events, train.ClickEvent{UserID: user, ArticleID: article, Timestamp: 1756600000000})
		}
	}
	add(1, 10, 5)
	add(1, 20, 3)
	add(2, 30, 6)
	add(3, 10, 1)
	add(3, 20, 1)
	add(3, 30, 1)
	return events
}

func scenarioSnapshot(t *testing.T) *snapshot.Snapshot {
	t.Helper()

	ds := train.Build(train.Aggregate(scenarioEvents()), train.BuildOptions{})

	als := model.NewALS(2, 3, 0, 0)
	if err := als.Fit(context.Background(), ds.ItemUser); err != nil {
		t.Fatal(err)
	}
	return snapshot.Build(ds, als)
}

func scenarioCatalog() core.MetadataCatalog {
	return feature.NewMemoryCatalog([]core.ArticleMetadata{
		{ArticleID: 10, CategoryID: 281, PublisherID: 1, WordsCount: 200, CreatedAtTS: 1508211544000},
		{ArticleID: 20, CategoryID: 281, PublisherID: 2, WordsCount: 150, CreatedAtTS: 1508211544000},
		{ArticleID: 30, CategoryID: 431, PublisherID: 1, WordsCount: 300, CreatedAtTS: 1508211544000},
	})
}

type countingLoader struct {
	snap  *snapshot.Snapshot
	err   error
	calls int
}

func (l *countingLoader) Load(context.Context) (*snapshot.Snapshot, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.snap, nil
}

func TestCache_LoadOnce(t *testing.T) {
	loader := &countingLoader{snap: scenarioSnapshot(t)}
	cache := &Cache{Loader: loader, Catalog: scenarioCatalog()}
	ctx := context.Background()

	if cache.Loaded() {
		t.Fatal("new cache should be unloaded")
	}
	if _, err := cache.Engine(); err != core.ErrModelUnavailable {
		t.Fatalf("unloaded cache: got %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := cache.Load(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if loader.calls != 1 {
		t.Errorf("loader called %d times, want 1", loader.calls)
	}
	if !cache.Loaded() || cache.LoadCount() != 1 {
		t.Errorf("loaded=%v loadCount=%d", cache.Loaded(), cache.LoadCount())
	}
}

func TestCache_FailedLoadStaysUnloaded(t *testing.T) {
	loader := &countingLoader{err: core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeUnavailable, "down")}
	cache := &Cache{Loader: loader}
	ctx := context.Background()

	if err := cache.Load(ctx); err == nil {
		t.Fatal("expected load error")
	}
	if cache.Loaded() {
		t.Fatal("failed load must stay unloaded")
	}
	if _, err := cache.Engine(); err != core.ErrModelUnavailable {
		t.Fatalf("got %v", err)
	}

	// 故障恢复后可以重试
	loader.err = nil
	loader.snap = scenarioSnapshot(t)
	if err := cache.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if !cache.Loaded() {
		t.Fatal("retry should succeed")
	}
}

func loadedEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(scenarioSnapshot(t), scenarioCatalog(), nil, "")
}

func TestEngine_SubThresholdUserSeenEverything(t *testing.T) {
	e := loadedEngine(t)

	// 用户 3 不在训练映射中但读过全部三篇：排除已读后为空，不是错误
	items, outcome, err := e.Recommend(context.Background(), 3, 2, true)
	if err != nil {
		t.Fatal(err)
	}
	if outcome != recall.OutcomeFallbackUnknown {
		t.Errorf("outcome = %v", outcome)
	}
	if len(items) != 0 {
		t.Errorf("expected empty result, got %d items", len(items))
	}
}

func TestEngine_UnknownUserGetsPopularity(t *testing.T) {
	e := loadedEngine(t)

	items, outcome, err := e.Recommend(context.Background(), 999, 5, true)
	if err != nil {
		t.Fatal(err)
	}
	if outcome != recall.OutcomeFallbackUnknown {
		t.Errorf("outcome = %v", outcome)
	}
	// 三篇同热度（各 2 个用户），按 ID 升序
	want := []int64{10, 20, 30}
	if len(items) != len(want) {
		t.Fatalf("got %d items", len(items))
	}
	for i := range want {
		if items[i].ID != want[i] {
			t.Errorf("rank %d = %d, want %d", i, items[i].ID, want[i])
		}
	}
}

func TestEngine_KnownUserModelPath(t *testing.T) {
	e := loadedEngine(t)

	items, outcome, err := e.Recommend(context.Background(), 1, 3, true)
	if err != nil {
		t.Fatal(err)
	}
	if outcome != recall.OutcomeModel {
		t.Errorf("outcome = %v, want model", outcome)
	}
	// 用户 1 已读 {10,20}，排除后只剩 30
	for _, it := range items {
		if it.ID == 10 || it.ID == 20 {
			t.Errorf("seen item %d leaked", it.ID)
		}
	}
}

func TestEngine_RecommendEnriched(t *testing.T) {
	e := loadedEngine(t)

	rec, err := e.RecommendEnriched(context.Background(), 999, 5, false)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Count != 3 || len(rec.Recommendations) != 3 {
		t.Fatalf("count = %d", rec.Count)
	}
	if rec.Outcome != recall.OutcomeFallbackUnknown {
		t.Errorf("outcome = %v", rec.Outcome)
	}
	for _, it := range rec.Recommendations {
		if !it.MetadataAvailable {
			t.Errorf("article %d should be enriched", it.ArticleID)
		}
	}
	// 类别 {281, 431}，3 篇全有元数据
	if rec.Diversity.UniqueCategories != 2 || rec.Diversity.TotalWithMetadata != 3 {
		t.Errorf("diversity: %+v", rec.Diversity)
	}
	if rec.Diversity.CategoryDiversity != 0.667 {
		t.Errorf("category_diversity = %v", rec.Diversity.CategoryDiversity)
	}
}

func TestEngine_UserInfo(t *testing.T) {
	e := loadedEngine(t)

	info := e.UserInfo(1)
	if !info.IsKnown || len(info.ItemsSeen) != 2 {
		t.Errorf("user 1: %+v", info)
	}

	// 低活用户：不在映射中但有已读集
	info = e.UserInfo(3)
	if info.IsKnown {
		t.Error("sub-threshold user must not be known")
	}
	if len(info.ItemsSeen) != 3 {
		t.Errorf("user 3 items_seen = %v", info.ItemsSeen)
	}

	info = e.UserInfo(424242)
	if info.IsKnown || len(info.ItemsSeen) != 0 {
		t.Errorf("unknown user: %+v", info)
	}
}

func TestEngine_UsersPagination(t *testing.T) {
	e := loadedEngine(t)

	users, total := e.Users(0, 0)
	if total != 2 || len(users) != 2 {
		t.Fatalf("users = %v, total = %d", users, total)
	}
	users, _ = e.Users(1, 1)
	if len(users) != 1 || users[0] != 2 {
		t.Errorf("page 2: %v", users)
	}
	users, _ = e.Users(10, 5)
	if len(users) != 0 {
		t.Errorf("out of range offset: %v", users)
	}
}

func TestEngine_ModelInfo(t *testing.T) {
	e := loadedEngine(t)

	info := e.ModelInfo()
	if !info.IsTrained || info.NUsers != 2 || info.NItems != 3 {
		t.Errorf("model info: %+v", info)
	}
	if info.Hyperparameters["factors"] != 2 {
		t.Errorf("hyperparameters: %v", info.Hyperparameters)
	}
}
