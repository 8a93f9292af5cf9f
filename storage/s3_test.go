package storage_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/ayoogunade/AyoZon/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	deleted []string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(f.types[aws.ToString(in.Key)]),
	}, nil
}

func TestS3Backend_StoreOpenDelete(t *testing.T) {
	fake := newFakeS3()
	backend := storage.NewS3Backend(fake, "storefront", "products/", "https://cdn.shop.test/", "")
	m := storage.NewManager(backend, zap.NewNop())
	ctx := context.Background()

	ref, err := m.Store(ctx, upload("sunset.webp", "img"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(ref, "https://cdn.shop.test/products/"))

	key := strings.TrimPrefix(ref, "https://cdn.shop.test/")
	assert.Equal(t, []byte("img"), fake.objects[key])
	assert.Equal(t, "image/webp", fake.types[key])

	obj, err := m.Open(ctx, ref)
	require.NoError(t, err)
	data, _ := io.ReadAll(obj.Body)
	obj.Body.Close()
	assert.Equal(t, "img", string(data))

	m.Delete(ctx, ref)
	assert.Equal(t, []string{key}, fake.deleted)

	_, err = m.Open(ctx, ref)
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestS3Backend_URLForms(t *testing.T) {
	local := storage.NewS3Backend(newFakeS3(), "bucket", "p/", "", "http://localstack:4566/")
	ref, err := local.Put(context.Background(), "a.png", strings.NewReader("x"), 1, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://localstack:4566/bucket/p/a.png", ref)

	hosted := storage.NewS3Backend(newFakeS3(), "bucket", "p/", "", "")
	ref, err = hosted.Put(context.Background(), "a.png", strings.NewReader("x"), 1, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/p/a.png", ref)

	name, ok := hosted.NameFromRef(ref)
	assert.True(t, ok)
	assert.Equal(t, "a.png", name)

	_, ok = hosted.NameFromRef("https://other-bucket.s3.amazonaws.com/p/a.png")
	assert.False(t, ok)
}
