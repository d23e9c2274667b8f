package sink

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mycontent/recserve/core"
)

// Event 是一条用户交互事件，训练数据的原始来源。
type Event struct {
	EventID         string         `json:"event_id"`
	UserID          int64          `json:"user_id"`
	ArticleID       int64          `json:"article_id"`
	InteractionType string         `json:"interaction_type"`
	Timestamp       int64          `json:"timestamp"` // 毫秒
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// Sink 接收交互事件并落盘。
type Sink interface {
	// Track 记录一条事件，Normalize/校验由实现统一调用
	Track(ctx context.Context, ev *Event) error
}

// Normalize 补全事件的缺省字段：事件 ID、交互类型、时间戳。
func Normalize(ev *Event) {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if ev.InteractionType == "" {
		ev.InteractionType = "click"
	}
	if ev.Timestamp <= 0 {
		ev.Timestamp = time.Now().UnixMilli()
	}
}

// Validate 校验事件的必填字段。
func Validate(ev *Event) error {
	if ev == nil {
		return invalid("event is nil")
	}
	if ev.UserID < 1 {
		return invalid("user_id must be a positive integer")
	}
	if ev.ArticleID < 1 {
		return invalid("article_id must be a positive integer")
	}
	return nil
}

// DateKey 返回事件所属日期的存储 key 后缀（UTC）。
func DateKey(ts int64) string {
	return time.UnixMilli(ts).UTC().Format("2006-01-02")
}

func invalid(msg string) error {
	return core.NewDomainError(core.ModuleSink, core.ErrorCodeInvalidInput, "sink: "+msg)
}
