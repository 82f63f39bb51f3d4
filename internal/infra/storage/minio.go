package storage

import (
	"bytes"
	"context"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DefaultShareExpiry is the lifetime of a presigned share link
const DefaultShareExpiry = 24 * time.Hour

type Store struct {
	client     *minio.Client
	bucketName string
	region     string
	expiry     time.Duration
}

// New buat koneksi MinIO
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool, expiry time.Duration) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	// pastikan bucket ada
	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}
	if expiry <= 0 {
		expiry = DefaultShareExpiry
	}

	return &Store{client: cli, bucketName: bucket, region: region, expiry: expiry}, nil
}

// Share implementasi ShareStore: upload JSON lalu kasih presigned URL
func (s *Store) Share(ctx context.Context, key string, payload []byte) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", err
	}

	// bucket private, jadi pakai presigned URL
	u, err := s.client.PresignedGetObject(ctx, s.bucketName, key, s.expiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// Check implements the health checker: is the bucket reachable
func (s *Store) Check(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucketName)
	return err
}
