package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config addresses a bucket on MinIO or any S3 compatible endpoint.
type S3Config struct {
	Endpoint  string // "minio:9000" or "https://s3.example.com"
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string // optional key prefix, e.g. "content/"
}

// MinioBackend keeps items as objects named Prefix+name in one bucket.
type MinioBackend struct {
	client *minio.Client
	bucket string
	prefix string
}

func normaliseEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("empty endpoint")
	}

	// Accept either "minio:9000" or "http://minio:9000" / "https://minio:9000".
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, fmt.Errorf("invalid endpoint")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, fmt.Errorf("endpoint must not contain a path")
		}
		return u.Host, u.Scheme == "https", nil
	}

	// host:port without scheme is treated as plain http, as for a local MinIO.
	return raw, false, nil
}

// normalisePrefix turns "content", "/content/" and "" into "content/" or "".
func normalisePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return path.Clean(p) + "/"
}

// NewMinioBackend connects to cfg.Endpoint and checks that the bucket exists.
func NewMinioBackend(ctx context.Context, cfg S3Config) (*MinioBackend, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("minio configuration incomplete")
	}

	endpoint, secure, err := normaliseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("minio bucket does not exist: %s", cfg.Bucket)
	}

	return &MinioBackend{client: client, bucket: cfg.Bucket, prefix: normalisePrefix(cfg.Prefix)}, nil
}

func (b *MinioBackend) key(name string) string {
	return b.prefix + name
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

func (b *MinioBackend) Read(ctx context.Context, name string) ([]byte, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, b.key(name), minio.GetObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, ErrNotExist
		}
		return nil, err
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, ErrNotExist
		}
		return nil, err
	}
	return data, nil
}

func (b *MinioBackend) Exists(ctx context.Context, name string) (bool, error) {
	_, err := b.client.StatObject(ctx, b.bucket, b.key(name), minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isNoSuchKey(err) {
		return false, nil
	}
	return false, err
}

// Create checks then puts. S3 offers no portable exclusive create, so two
// concurrent creates of one name can both pass the check.
func (b *MinioBackend) Create(ctx context.Context, name string, data []byte) error {
	exists, err := b.Exists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return ErrExist
	}
	return b.Write(ctx, name, data)
}

func (b *MinioBackend) Write(ctx context.Context, name string, data []byte) error {
	_, err := b.client.PutObject(ctx, b.bucket, b.key(name), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "text/markdown; charset=utf-8"})
	return err
}

func (b *MinioBackend) Remove(ctx context.Context, name string) error {
	exists, err := b.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotExist
	}
	return b.client.RemoveObject(ctx, b.bucket, b.key(name), minio.RemoveObjectOptions{})
}

func (b *MinioBackend) List(ctx context.Context) ([]Object, error) {
	var out []Object
	for info := range b.client.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{Prefix: b.prefix}) {
		if info.Err != nil {
			return nil, info.Err
		}
		name := strings.TrimPrefix(info.Key, b.prefix)
		// Non-recursive listings report "sub/" for nested keys.
		if name == "" || strings.Contains(name, "/") {
			continue
		}
		out = append(out, Object{Name: name, Size: info.Size, Modified: info.LastModified})
	}
	return out, nil
}

func (b *MinioBackend) Ping(ctx context.Context) error {
	ok, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("bucket missing")
	}
	return nil
}
