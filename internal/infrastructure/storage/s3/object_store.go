// Package s3 stores dataset files in an S3 bucket.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"dashboard-backend/internal/application/ports"
	apperrors "dashboard-backend/internal/errors"
)

// Client is the subset of the S3 API used by the object store.
type Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// ObjectStore keeps raw CSV uploads and their parsed JSON in one bucket.
// Objects are written with server-side encryption.
type ObjectStore struct {
	client Client
	bucket string
	logger *zap.Logger
}

var _ ports.ObjectStore = (*ObjectStore)(nil)

func NewObjectStore(client Client, bucket string, logger *zap.Logger) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket, logger: logger.Named("S3ObjectStore")}
}

func (o *ObjectStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := o.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(o.bucket),
		Key:                  aws.String(key),
		Body:                 bytes.NewReader(body),
		ContentLength:        aws.Int64(int64(len(body))),
		ContentType:          aws.String(contentType),
		ServerSideEncryption: types.ServerSideEncryptionAes256,
	})
	if err != nil {
		return storageError(err, "PutObject", key)
	}
	o.logger.Debug("object stored", zap.String("key", key), zap.Int("bytes", len(body)))
	return nil
}

func (o *ObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, storageError(err, "GetObject", key)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return body, nil
}

// Delete is idempotent; S3 does not report missing keys.
func (o *ObjectStore) Delete(ctx context.Context, key string) error {
	_, err := o.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return storageError(err, "DeleteObject", key)
	}
	return nil
}

func storageError(err error, operation, key string) error {
	converted := apperrors.FromAWS(err, operation, key)
	if ue, ok := apperrors.As(converted); ok && ue.Code == apperrors.CodeDatabaseError.String() {
		ue.Code = apperrors.CodeStorageError.String()
	}
	return converted
}
