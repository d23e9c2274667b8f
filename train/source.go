package train

import (
	"context"
	"time"

	json "github.com/goccy/go-json"

	"github.com/mycontent/recserve/core"
)

// ClickSource 是训练期读取的原始交互源，按时间窗口过滤。
// 服务链路不读它；它只在训练任务中被消费一次。
type ClickSource interface {
	// Events 返回 [from, to) 窗口内的点击事件。
	Events(ctx context.Context, from, to time.Time) ([]ClickEvent, error)
}

// StoreSource 从 KeyValueStore 读取按日期分 key 的点击日志
// （sink 包写入的格式：key "{prefix}:{YYYY-MM-DD}"，member 为事件 JSON，
// score 为毫秒时间戳）。
type StoreSource struct {
	Store core.KeyValueStore

	// KeyPrefix 默认 "clicks"。
	KeyPrefix string
}

func (s *StoreSource) Events(ctx context.Context, from, to time.Time) ([]ClickEvent, error) {
	prefix := s.KeyPrefix
	if prefix == "" {
		prefix = "clicks"
	}

	var out []ClickEvent
	for day := from.UTC().Truncate(24 * time.Hour); day.Before(to); day = day.Add(24 * time.Hour) {
		key := prefix + ":" + day.Format("2006-01-02")
		members, err := s.Store.ZRange(ctx, key, 0, -1)
		if err != nil {
			if core.IsStoreNotFound(err) {
				continue
			}
			return nil, err
		}
		for _, m := range members {
			var ev ClickEvent
			if err := json.Unmarshal([]byte(m), &ev); err != nil {
				// 单条脏数据跳过，不中断整个窗口
				continue
			}
			ts := time.UnixMilli(ev.Timestamp)
			if ts.Before(from) || !ts.Before(to) {
				continue
			}
			out = append(out, ev)
		}
	}
	return out, nil
}

// MemorySource 是内存事件源，用于测试与本地训练。
type MemorySource struct {
	Clicks []ClickEvent
}

func (s *MemorySource) Events(_ context.Context, from, to time.Time) ([]ClickEvent, error) {
	var out []ClickEvent
	for _, ev := range s.Clicks {
		ts := time.UnixMilli(ev.Timestamp)
		if ts.Before(from) || !ts.Before(to) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}
