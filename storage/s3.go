package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of *s3.Client used by S3Backend.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Backend stores uploads as <prefix><name> in a bucket.
type S3Backend struct {
	client  S3API
	bucket  string
	prefix  string
	baseURL string
}

// NewS3Backend builds the backend. publicURL wins over endpoint when both are set;
// with neither, virtual-hosted AWS URLs are used.
func NewS3Backend(client S3API, bucket, prefix, publicURL, endpoint string) *S3Backend {
	var base string
	switch {
	case publicURL != "":
		base = strings.TrimRight(publicURL, "/")
	case endpoint != "":
		base = fmt.Sprintf("%s/%s", strings.TrimRight(endpoint, "/"), bucket)
	default:
		base = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}
	return &S3Backend{client: client, bucket: bucket, prefix: prefix, baseURL: base + "/"}
}

func (b *S3Backend) Put(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error) {
	key := b.prefix + name
	in := &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		in.ContentLength = aws.Int64(size)
	}
	if _, err := b.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("failed to upload to s3: %w", err)
	}
	return b.baseURL + key, nil
}

func (b *S3Backend) Delete(ctx context.Context, name string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.prefix + name),
	})
	return err
}

func (b *S3Backend) Open(ctx context.Context, name string) (*Object, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.prefix + name),
	})
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, err
	}
	ct := aws.ToString(out.ContentType)
	if ct == "" {
		ct = ContentTypeFor(name)
	}
	return &Object{Name: name, Body: out.Body, Size: aws.ToInt64(out.ContentLength), ContentType: ct}, nil
}

func (b *S3Backend) NameFromRef(ref string) (string, bool) {
	name, ok := strings.CutPrefix(ref, b.baseURL+b.prefix)
	return name, ok && name != ""
}
