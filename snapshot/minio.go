package snapshot

import (
	"bytes"
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mycontent/recserve/core"
)

// MinIOConfig 对象存储连接配置。
type MinIOConfig struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	UseSSL          bool   `yaml:"use_ssl"`
}

// MinIOStore 是对象存储快照后端，生产部署的默认选择。
type MinIOStore struct {
	client *minio.Client
	bucket string
}

var _ BlobStore = (*MinIOStore)(nil)

// NewMinIOStore 建立对象存储连接并确保 bucket 存在。
func NewMinIOStore(ctx context.Context, cfg MinIOConfig) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeUnavailable, "snapshot: minio client failed: "+err.Error())
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeUnavailable, "snapshot: bucket check failed: "+err.Error())
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeUnavailable, "snapshot: make bucket failed: "+err.Error())
		}
	}

	return &MinIOStore{client: client, bucket: cfg.Bucket}, nil
}

func (m *MinIOStore) Put(ctx context.Context, name string, data []byte) error {
	_, err := m.client.PutObject(ctx, m.bucket, name,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeUnavailable, "snapshot: put object failed: "+err.Error())
	}
	return nil
}

func (m *MinIOStore) Get(ctx context.Context, name string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeUnavailable, "snapshot: get object failed: "+err.Error())
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		// 对象不存在在 Read 时才暴露
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return nil, core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeNotFound, "snapshot: object not found: "+name)
		}
		return nil, core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeUnavailable, "snapshot: read object failed: "+err.Error())
	}
	return data, nil
}
