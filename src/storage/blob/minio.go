package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore keeps blobs in a single MinIO bucket. Stored paths have the
// form bucket-name/object-name.
type MinioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(ctx context.Context, endpoint, accessKeyID, secretAccessKey, bucket string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create minio client: %v", ErrStorage, err)
	}

	s := &MinioStore{client: client, bucket: bucket}
	if err := s.ensureBucketExists(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *MinioStore) ensureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("%w: failed to check bucket existence: %v", ErrStorage, err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("%w: failed to create bucket: %v", ErrStorage, err)
		}
	}

	return nil
}

func (s *MinioStore) Save(ctx context.Context, objectName string, data []byte) (string, error) {
	reader := bytes.NewReader(data)
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to put object: %v", ErrStorage, err)
	}

	return fmt.Sprintf("%s/%s", s.bucket, objectName), nil
}

func (s *MinioStore) Fetch(ctx context.Context, path string) ([]byte, error) {
	bucket, objectName, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get object: %v", ErrStorage, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read object data: %v", ErrStorage, err)
	}

	return data, nil
}

func (s *MinioStore) Delete(ctx context.Context, path string) error {
	bucket, objectName, err := splitPath(path)
	if err != nil {
		return err
	}

	if err := s.client.RemoveObject(ctx, bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: failed to delete object: %v", ErrStorage, err)
	}

	return nil
}

func splitPath(path string) (bucket, objectName string, err error) {
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: invalid object path: %s", ErrStorage, path)
	}
	return parts[0], parts[1], nil
}
