package snapshot

import (
	"github.com/goccy/go-json"

	"github.com/mycontent/recserve/core"
)

// Encode 将快照序列化为 JSON 字节。
func Encode(s *Snapshot) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeInternalError, "snapshot: encode failed: "+err.Error())
	}
	return data, nil
}

// Decode 反序列化并校验快照。解码失败和校验失败同样按损坏处理。
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeCorrupt, "snapshot: decode failed: "+err.Error())
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
