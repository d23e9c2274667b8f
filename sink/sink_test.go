package sink

import (
	"context"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/mycontent/recserve/core"
	"github.com/mycontent/recserve/snapshot"
	"github.com/mycontent/recserve/store"
)

func TestValidate(t *testing.T) {
	if err := Validate(&Event{UserID: 1, ArticleID: 10}); err != nil {
		t.Errorf("valid event rejected: %v", err)
	}
	if err := Validate(&Event{UserID: 0, ArticleID: 10}); !core.IsInvalidInput(err) {
		t.Errorf("zero user_id should be invalid, got %v", err)
	}
	if err := Validate(&Event{UserID: 1, ArticleID: -1}); !core.IsInvalidInput(err) {
		t.Errorf("negative article_id should be invalid, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	ev := &Event{UserID: 1, ArticleID: 10}
	Normalize(ev)
	if ev.EventID == "" || ev.InteractionType != "click" || ev.Timestamp <= 0 {
		t.Errorf("normalize incomplete: %+v", ev)
	}

	// 已填字段不被覆盖
	ev2 := &Event{UserID: 1, ArticleID: 10, InteractionType: "share", Timestamp: 42}
	Normalize(ev2)
	if ev2.InteractionType != "share" || ev2.Timestamp != 42 {
		t.Errorf("normalize overwrote fields: %+v", ev2)
	}
}

func TestStoreSink_Track(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()
	s := &StoreSink{Store: kv}
	ctx := context.Background()

	ev := &Event{UserID: 1, ArticleID: 10, Timestamp: 1756600000000}
	if err := s.Track(ctx, ev); err != nil {
		t.Fatal(err)
	}

	members, err := kv.ZRange(ctx, "clicks:"+DateKey(ev.Timestamp), 0, -1)
	if err != nil || len(members) != 1 {
		t.Fatalf("expected one event in zset, got %v, %v", members, err)
	}

	var stored Event
	if err := json.Unmarshal([]byte(members[0]), &stored); err != nil {
		t.Fatal(err)
	}
	if stored.UserID != 1 || stored.ArticleID != 10 || stored.EventID == "" {
		t.Errorf("stored event: %+v", stored)
	}

	// 非法事件拒绝且不落盘
	if err := s.Track(ctx, &Event{UserID: 0, ArticleID: 10}); !core.IsInvalidInput(err) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestBlobSink_AppendsLines(t *testing.T) {
	s := &BlobSink{Blobs: &snapshot.FileStore{Dir: t.TempDir()}}
	ctx := context.Background()

	ts := int64(1756600000000)
	for _, article := range []int64{10, 20} {
		if err := s.Track(ctx, &Event{UserID: 1, ArticleID: article, Timestamp: ts}); err != nil {
			t.Fatal(err)
		}
	}

	data, err := s.Blobs.Get(ctx, s.objectName(ts))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 jsonl lines, got %d", len(lines))
	}
	var ev Event
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.ArticleID != 20 {
		t.Errorf("second line article_id = %d", ev.ArticleID)
	}
}
