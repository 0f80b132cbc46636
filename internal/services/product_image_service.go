package services

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Product images live in a single bucket keyed by product ID, so uploading a
// new image for a product overwrites the previous one.
const imageBucket = "product-images"

type ProductImageService interface {
	StoreImage(ctx context.Context, productID uuid.UUID, reader io.Reader, size int64) error
	ImageURL(ctx context.Context, productID uuid.UUID, expiry time.Duration) (string, error)
	RemoveImage(ctx context.Context, productID uuid.UUID) error
}

type productImageStore struct {
	client *minio.Client
}

func NewProductImageService(endpoint, accessKey, secretKey string, useSSL bool) (ProductImageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &productImageStore{client: client}, nil
}

func imageObjectName(productID uuid.UUID) string {
	return "products/" + productID.String()
}

// detectImageContentType sniffs the content type from the leading bytes of the
// upload and returns a reader that replays them before the rest of the stream.
func detectImageContentType(reader io.Reader) (string, io.Reader, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(reader, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, err
	}
	head = head[:n]
	return http.DetectContentType(head), io.MultiReader(bytes.NewReader(head), reader), nil
}

func (s *productImageStore) ensureBucket(ctx context.Context) error {
	found, err := s.client.BucketExists(ctx, imageBucket)
	if err != nil {
		return err
	}
	if !found {
		return s.client.MakeBucket(ctx, imageBucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (s *productImageStore) StoreImage(ctx context.Context, productID uuid.UUID, reader io.Reader, size int64) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	contentType, body, err := detectImageContentType(reader)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, imageBucket, imageObjectName(productID), body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (s *productImageStore) ImageURL(ctx context.Context, productID uuid.UUID, expiry time.Duration) (string, error) {
	url, err := s.client.PresignedGetObject(ctx, imageBucket, imageObjectName(productID), expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (s *productImageStore) RemoveImage(ctx context.Context, productID uuid.UUID) error {
	return s.client.RemoveObject(ctx, imageBucket, imageObjectName(productID), minio.RemoveObjectOptions{})
}
