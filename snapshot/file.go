package snapshot

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mycontent/recserve/core"
)

// FileStore 是文件系统快照存储，单机部署和测试用。
type FileStore struct {
	Dir string
}

var _ BlobStore = (*FileStore)(nil)

func (f *FileStore) Put(_ context.Context, name string, data []byte) error {
	path := filepath.Join(f.Dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeInternalError, "snapshot: mkdir failed: "+err.Error())
	}

	// 先写临时文件再替换，避免读到半截快照

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeInternalError, "snapshot: write failed: "+err.Error())
	}
	if err := os.Rename(tmp, path); err != nil {
		return core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeInternalError, "snapshot: rename failed: "+err.Error())
	}
	return nil
}

func (f *FileStore) Get(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(f.Dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeNotFound, "snapshot: object not found: "+name)
		}
		return nil, core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeInternalError, "snapshot: read failed: "+err.Error())
	}
	return data, nil
}
