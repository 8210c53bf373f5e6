//go:build integration

// Runs the Store against a disposable MinIO container.
//
//	go test -tags integration ./internal/content -run TestMinioBackend
//
// PE_MINIO_TEST_TAG overrides the image tag.

package content

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

func startMinio(t *testing.T) S3Config {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("could not connect to docker: %v", err)
	}

	tag := os.Getenv("PE_MINIO_TEST_TAG")
	if tag == "" {
		tag = "RELEASE.2024-01-31T20-20-33Z"
	}
	res, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "minio/minio",
		Tag:        tag,
		Cmd:        []string{"server", "/data"},
		Env: []string{
			"MINIO_ROOT_USER=minio",
			"MINIO_ROOT_PASSWORD=minio123",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		t.Fatalf("could not start minio: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(res) })

	endpoint := "localhost:" + res.GetPort("9000/tcp")
	if err := pool.Retry(func() error {
		resp, err := http.Get("http://" + endpoint + "/minio/health/live")
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("minio not ready: %d", resp.StatusCode)
		}
		return nil
	}); err != nil {
		t.Fatalf("minio not ready: %v", err)
	}

	mc, err := minio.New(endpoint, &minio.Options{
		Creds: credentials.NewStaticV4("minio", "minio123", ""),
	})
	if err != nil {
		t.Fatalf("minio client: %v", err)
	}
	if err := mc.MakeBucket(context.Background(), "content", minio.MakeBucketOptions{}); err != nil {
		t.Fatalf("make bucket: %v", err)
	}

	return S3Config{
		Endpoint:  endpoint,
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "content",
		Prefix:    "site",
	}
}

func TestMinioBackend(t *testing.T) {
	cfg := startMinio(t)
	ctx := context.Background()

	b, err := NewMinioBackend(ctx, cfg)
	if err != nil {
		t.Fatalf("NewMinioBackend: %v", err)
	}
	if err := b.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	s := NewStore(b, ".md", WithClock(fixedNow))

	res, err := s.Create(ctx, "Bucket Post")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.Create(ctx, "Bucket Post"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	data, err := s.Open(ctx, res.File)
	if err != nil || string(data) != res.Content {
		t.Fatalf("Open = %q, %v", data, err)
	}

	if _, err := s.Save(ctx, res.File, "---\nTitle: Renamed\n---\nbody"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	items, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Renamed" {
		t.Fatalf("unexpected list: %+v", items)
	}

	if ok, err := s.Delete(ctx, res.File); err != nil || !ok {
		t.Fatalf("Delete = %v, %v", ok, err)
	}
	if _, err := s.Open(ctx, res.File); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := s.Delete(ctx, res.File); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
