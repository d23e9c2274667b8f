package sink

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/mycontent/recserve/core"
)

// BlobStore 是对象存储的最小接口，snapshot 包的文件/MinIO 后端都满足。
type BlobStore interface {
	Put(ctx context.Context, name string, data []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
}

// BlobSink 把事件追加到对象存储里按日期分片的 JSONL 文件：
// clicks/2026-08-31.jsonl，一行一条事件。
// 对象存储没有原子追加，采用读回-拼接-覆盖写，单写入方场景下够用。
type BlobSink struct {
	Blobs BlobStore

	// Prefix 默认 "clicks"
	Prefix string
}

var _ Sink = (*BlobSink)(nil)

func (s *BlobSink) objectName(ts int64) string {
	prefix := s.Prefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return fmt.Sprintf("%s/%s.jsonl", prefix, DateKey(ts))
}

func (s *BlobSink) Track(ctx context.Context, ev *Event) error {
	Normalize(ev)
	if err := Validate(ev); err != nil {
		return err
	}

	line, err := json.Marshal(ev)
	if err != nil {
		return core.NewDomainError(core.ModuleSink, core.ErrorCodeInternalError, "sink: encode event failed: "+err.Error())
	}

	name := s.objectName(ev.Timestamp)
	existing, err := s.Blobs.Get(ctx, name)
	if err != nil && !core.IsNotFound(err) {
		return core.NewDomainError(core.ModuleSink, core.ErrorCodeUnavailable, "sink: blob read failed: "+err.Error())
	}

	buf := make([]byte, 0, len(existing)+len(line)+1)
	buf = append(buf, existing...)
	buf = append(buf, line...)
	buf = append(buf, '\n')

	if err := s.Blobs.Put(ctx, name, buf); err != nil {
		return core.NewDomainError(core.ModuleSink, core.ErrorCodeUnavailable, "sink: blob write failed: "+err.Error())
	}
	return nil
}
