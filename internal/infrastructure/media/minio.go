package media

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const presignedTTL = 1 * time.Hour

// Storage wraps the object store holding course images and lesson media.
type Storage struct {
	client *minio.Client
	bucket string
}

func NewStorage(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*Storage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("error checking bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("error creating bucket %s: %w", bucket, err)
		}
	}

	return &Storage{client: client, bucket: bucket}, nil
}

type UploadInput struct {
	Reader      io.Reader
	Size        int64
	Filename    string
	ContentType string
	Tags        map[string]string
}

// Upload stores a file under the owning entity's folder and returns the
// object key. Display name and tags are recorded at upload time only;
// they are not rewritten if the entity changes later.
func (s *Storage) Upload(ctx context.Context, entity any, in UploadInput) (string, error) {
	ext := filepath.Ext(in.Filename)
	if ext == "" {
		ext = ".bin"
	}

	objectKey := fmt.Sprintf("%s/%d%s", PathPrefix(entity), time.Now().UnixNano(), ext)

	contentType := in.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
		if contentType == "" {
			contentType = "application/octet-stream"
		}
	}

	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		objectKey,
		in.Reader,
		in.Size,
		minio.PutObjectOptions{
			ContentType:  contentType,
			UserMetadata: map[string]string{"Display-Name": UploadDisplayName(entity)},
			UserTags:     in.Tags,
		},
	)
	if err != nil {
		return "", err
	}
	return objectKey, nil
}

type ResolveOptions struct {
	Width int
}

// ResolveURL returns a presigned GET URL for an object key. A width, if
// given, rides along as a query parameter for the image proxy in front
// of the store; the store itself does not transform.
func (s *Storage) ResolveURL(ctx context.Context, objectKey string, opts ResolveOptions) (string, error) {
	reqParams := make(url.Values)
	presignedURL, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, presignedTTL, reqParams)
	if err != nil {
		return "", err
	}

	if opts.Width > 0 {
		q := presignedURL.Query()
		q.Set("width", strconv.Itoa(opts.Width))
		presignedURL.RawQuery = q.Encode()
	}
	return presignedURL.String(), nil
}

func (s *Storage) Delete(ctx context.Context, objectKey string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
}
