package s3

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/subkultur/teilwas-bot/internal/app/config"
	"github.com/subkultur/teilwas-bot/internal/domain/entity"
	"github.com/subkultur/teilwas-bot/internal/platform/logger"
	"github.com/subkultur/teilwas-bot/internal/render"
)

// MapCache wraps a MapRenderer with a MinIO-backed object cache keyed by
// the point set, so repeatedly shown result sets (own listings, repeated
// notifications) don't hit the render endpoint again. Cache failures fall
// back to rendering; they are never surfaced to the caller.
type MapCache struct {
	client   *minio.Client
	bucket   string
	renderer render.MapRenderer
	log      logger.Logger
}

func NewMapCache(cfg config.MinIOConfig, renderer render.MapRenderer, log logger.Logger) (*MapCache, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	err = client.MakeBucket(context.Background(), cfg.Bucket, minio.MakeBucketOptions{})
	if err != nil {
		exists, errExists := client.BucketExists(context.Background(), cfg.Bucket)
		if errExists != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)", cfg.Bucket, err, errExists)
		}
	}

	return &MapCache{
		client:   client,
		bucket:   cfg.Bucket,
		renderer: renderer,
		log:      log,
	}, nil
}

// readObject drains and closes a cached object. GetObject only fails lazily
// on first read, so a miss surfaces here, not at the call itself.
func readObject(obj io.ReadCloser) ([]byte, bool) {
	defer obj.Close()
	image, err := io.ReadAll(obj)
	if err != nil || len(image) == 0 {
		return nil, false
	}
	return image, true
}

func objectKey(points []entity.Location) string {
	h := sha256.New()
	for _, p := range points {
		fmt.Fprintf(h, "%f,%f;", p.Latitude, p.Longitude)
	}
	return fmt.Sprintf("maps/%x.png", h.Sum(nil))
}

func (c *MapCache) RenderMap(ctx context.Context, points []entity.Location) ([]byte, error) {
	key := objectKey(points)

	obj, err := c.client.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err == nil {
		if image, ok := readObject(obj); ok {
			return image, nil
		}
	}

	image, err := c.renderer.RenderMap(ctx, points)
	if err != nil {
		return nil, err
	}

	_, putErr := c.client.PutObject(ctx, c.bucket, key, bytes.NewReader(image), int64(len(image)), minio.PutObjectOptions{
		ContentType: "image/png",
	})
	if putErr != nil {
		c.log.Errorf("MapCache: failed to store %s: %v", key, putErr)
	}
	return image, nil
}
