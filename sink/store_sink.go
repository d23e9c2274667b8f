package sink

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/mycontent/recserve/core"
)

// DefaultKeyPrefix 按日期分 key："clicks:2026-08-31"。
const DefaultKeyPrefix = "clicks"

// StoreSink 把事件写进 KeyValueStore 的日期有序集合，
// score 是事件时间戳，训练侧按时间窗口读回（train.StoreSource）。
type StoreSink struct {
	Store core.KeyValueStore

	// KeyPrefix 默认 DefaultKeyPrefix
	KeyPrefix string
}

var _ Sink = (*StoreSink)(nil)

func (s *StoreSink) Track(ctx context.Context, ev *Event) error {
	Normalize(ev)
	if err := Validate(ev); err != nil {
		return err
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return core.NewDomainError(core.ModuleSink, core.ErrorCodeInternalError, "sink: encode event failed: "+err.Error())
	}

	prefix := s.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	key := fmt.Sprintf("%s:%s", prefix, DateKey(ev.Timestamp))

	if err := s.Store.ZAdd(ctx, key, float64(ev.Timestamp), string(data)); err != nil {
		return core.NewDomainError(core.ModuleSink, core.ErrorCodeUnavailable, "sink: store write failed: "+err.Error())
	}
	return nil
}
