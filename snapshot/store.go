package snapshot

import (
	"context"

	"github.com/mycontent/recserve/core"
)

// DefaultObjectName 是快照在存储中的固定对象名。
// 每次发布覆盖同一个对象，服务端总是加载最新版。
const DefaultObjectName = "model_snapshot.json"

// BlobStore 是快照字节的存取接口，文件系统和对象存储各有实现。
type BlobStore interface {
	// Put 覆盖写入对象
	Put(ctx context.Context, name string, data []byte) error

	// Get 读取对象，不存在时返回 NOT_FOUND 领域错误
	Get(ctx context.Context, name string) ([]byte, error)
}

// Store 组合编解码与存储，是训练侧发布、服务侧加载的统一入口。
type Store struct {
	Blobs BlobStore

	// ObjectName 默认 DefaultObjectName
	ObjectName string
}

func (s *Store) name() string {
	if s.ObjectName == "" {
		return DefaultObjectName
	}
	return s.ObjectName
}

// Save 校验、编码并覆盖发布快照。
func (s *Store) Save(ctx context.Context, snap *Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	return s.Blobs.Put(ctx, s.name(), data)
}

// Load 读取、解码并校验快照。
// 对象不存在时返回 NOT_FOUND，存储不可达时返回 UNAVAILABLE。
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	data, err := s.Blobs.Get(ctx, s.name())
	if err != nil {
		if core.IsNotFound(err) {
			return nil, err
		}
		return nil, core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeUnavailable, "snapshot: store unreachable: "+err.Error())
	}
	return Decode(data)
}
