package db

import (
	"context"
	"errors"
	"fmt"

	gcs "cloud.google.com/go/storage"
)

// firebaseObjectStore implements ObjectStore on top of the Firebase Storage
// default bucket.
type firebaseObjectStore struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

// NewFirebaseObjectStore creates an ObjectStore backed by the given bucket.
// bucketName is used to build public object URLs.
func NewFirebaseObjectStore(bucket *gcs.BucketHandle, bucketName string) (ObjectStore, error) {
	if bucket == nil {
		return nil, errors.New("storage bucket is not initialized for ObjectStore")
	}
	if bucketName == "" {
		return nil, errors.New("bucket name is required for ObjectStore")
	}
	return &firebaseObjectStore{bucket: bucket, bucketName: bucketName}, nil
}

// Save uploads data under objectName and returns its public URL.
func (s *firebaseObjectStore) Save(ctx context.Context, objectName string, contentType string, data []byte) (string, error) {
	if objectName == "" {
		return "", errors.New("objectName cannot be empty for Save operation")
	}

	w := s.bucket.Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write object '%s': %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object '%s': %w", objectName, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, objectName), nil
}
