package services

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// GCSService stores cat pictures and archived scan images in a single
// public bucket.
type GCSService struct {
	client     *storage.Client
	bucketName string
}

func NewGCSService(ctx context.Context, bucketName string) (*GCSService, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSService{client: client, bucketName: bucketName}, nil
}

// UploadPublic writes the object and returns its public URL.
func (s *GCSService) UploadPublic(ctx context.Context, objectName, contentType string, content io.Reader) (string, error) {
	obj := s.client.Bucket(s.bucketName).Object(objectName)
	writer := obj.NewWriter(ctx)
	writer.ContentType = contentType
	if _, err := io.Copy(writer, content); err != nil {
		writer.Close()
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, objectName), nil
}

func (s *GCSService) Download(ctx context.Context, objectName string) ([]byte, error) {
	reader, err := s.client.Bucket(s.bucketName).Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

func (s *GCSService) Delete(ctx context.Context, objectName string) error {
	return s.client.Bucket(s.bucketName).Object(objectName).Delete(ctx)
}
