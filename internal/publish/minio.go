package publish

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	Prefix    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// objectPutter is the part of *minio.Client that Publish needs.
type objectPutter interface {
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Store uploads dashboard artifacts to an S3-compatible bucket.
type Store struct {
	client  objectPutter
	bucket  string
	prefix  string
	baseURL string
}

// New connects to the bucket endpoint and creates the bucket if it does not
// exist yet.
func New(ctx context.Context, opts Options) (*Store, error) {
	if strings.TrimSpace(opts.Endpoint) == "" || strings.TrimSpace(opts.Bucket) == "" {
		return nil, errors.New("publish: endpoint and bucket are required")
	}
	cli, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("publish: connect %s: %w", opts.Endpoint, err)
	}

	exists, err := cli.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("publish: check bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{Region: opts.Region}); err != nil {
			return nil, fmt.Errorf("publish: create bucket %s: %w", opts.Bucket, err)
		}
	}

	u := cli.EndpointURL()
	return newStore(cli, opts.Bucket, opts.Prefix, fmt.Sprintf("%s://%s", u.Scheme, u.Host)), nil
}

func newStore(client objectPutter, bucket, prefix, baseURL string) *Store {
	return &Store{
		client:  client,
		bucket:  bucket,
		prefix:  strings.Trim(prefix, "/"),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Publish uploads each file under prefix/<basename> and returns the object
// URLs in input order. It stops at the first failed upload.
func (s *Store) Publish(ctx context.Context, paths []string) ([]string, error) {
	urls := make([]string, 0, len(paths))
	for _, p := range paths {
		key := s.objectKey(p)
		_, err := s.client.FPutObject(ctx, s.bucket, key, p, minio.PutObjectOptions{
			ContentType: ContentType(p),
		})
		if err != nil {
			return urls, fmt.Errorf("upload %s: %w", p, err)
		}
		urls = append(urls, fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key))
	}
	return urls, nil
}

func (s *Store) objectKey(localPath string) string {
	base := filepath.Base(localPath)
	if s.prefix == "" {
		return base
	}
	return path.Join(s.prefix, base)
}

func ContentType(localPath string) string {
	switch strings.ToLower(filepath.Ext(localPath)) {
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".json":
		return "application/json"
	case ".sha256", ".log", ".txt":
		return "text/plain; charset=utf-8"
	}
	return "application/octet-stream"
}
