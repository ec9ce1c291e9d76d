// Package archive stores raw HTML snapshots of probed pages in object
// storage. Archiving is strictly best-effort: it runs after a successful
// probe and its failures are logged, never propagated.
package archive

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"risclens_backend/internal/intel/domain"
	"risclens_backend/platform/config"
	"risclens_backend/platform/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// SnapshotStore uploads page snapshots to a MinIO bucket.
type SnapshotStore struct {
	client *minio.Client
	bucket string
	log    *logger.Logger
}

// NewSnapshotStore creates the store and ensures the bucket exists.
func NewSnapshotStore(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (*SnapshotStore, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("minio is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	s := &SnapshotStore{client: client, bucket: cfg.GetMinioBucketSnapshots(), log: log}
	if err := s.ensureBucketExists(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SnapshotStore) ensureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// Archive uploads every page of a probe run under <host>/<path>.html.
// Individual upload failures are logged and skipped.
func (s *SnapshotStore) Archive(ctx context.Context, host string, pages []domain.Page) {
	for _, page := range pages {
		key := objectKey(host, page.URL)
		reader := strings.NewReader(page.HTML)

		_, err := s.client.PutObject(ctx, s.bucket, key, reader, int64(len(page.HTML)), minio.PutObjectOptions{
			ContentType: "text/html; charset=utf-8",
		})
		if err != nil {
			s.log.Warn("snapshot upload failed", "key", key, "error", err.Error())
			continue
		}
		s.log.Debug("snapshot archived", "key", key, "bytes", len(page.HTML))
	}
}

// objectKey derives a stable storage key from the probed URL, e.g.
// acme.io/.well-known/security.txt becomes
// "acme.io/well-known-security.txt.html".
func objectKey(host, pageURL string) string {
	p := "/"
	if u, err := url.Parse(pageURL); err == nil && u.Path != "" {
		p = u.Path
	}
	slug := strings.Trim(p, "/")
	slug = strings.ReplaceAll(slug, "/", "-")
	slug = strings.ReplaceAll(slug, ".well-known", "well-known")
	if slug == "" {
		slug = "index"
	}
	return host + "/" + slug + ".html"
}
