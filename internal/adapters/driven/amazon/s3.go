package amazon

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
)

// Ensure ObjectStore implements driven.ObjectStore
var _ driven.ObjectStore = (*ObjectStore)(nil)

// S3API is the subset of the S3 client used here.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// ObjectStore implements driven.ObjectStore with S3. Objects are written
// with SSE-S3 (AES256) encryption.
type ObjectStore struct {
	client S3API
}

// NewObjectStore creates an ObjectStore.
func NewObjectStore(client S3API) *ObjectStore {
	return &ObjectStore{client: client}
}

// NewObjectStoreFromConfig creates an ObjectStore from an AWS config.
func NewObjectStoreFromConfig(cfg aws.Config) *ObjectStore {
	return NewObjectStore(s3.NewFromConfig(cfg))
}

// Put writes an object.
func (o *ObjectStore) Put(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket:               aws.String(bucket),
		Key:                  aws.String(key),
		Body:                 bytes.NewReader(body),
		ServerSideEncryption: types.ServerSideEncryptionAes256,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := o.client.PutObject(ctx, in); err != nil {
		return classify("PutObject", err)
	}
	return nil
}

// Get reads an object.
func (o *ObjectStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classify("GetObject", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", bucket, key, err)
	}
	return data, nil
}
