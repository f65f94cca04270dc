package s3

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/corray333/backend-labs/shop/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	put     *awss3.PutObjectInput
	body    []byte
	deleted []string
	err     error
}

func (f *fakeAPI) PutObject(
	_ context.Context,
	in *awss3.PutObjectInput,
	_ ...func(*awss3.Options),
) (*awss3.PutObjectOutput, error) {
	f.put = in
	f.body, _ = io.ReadAll(in.Body)

	return &awss3.PutObjectOutput{}, f.err
}

func (f *fakeAPI) DeleteObject(
	_ context.Context,
	in *awss3.DeleteObjectInput,
	_ ...func(*awss3.Options),
) (*awss3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(in.Key))

	return &awss3.DeleteObjectOutput{}, f.err
}

func TestPut(t *testing.T) {
	api := &fakeAPI{}
	c := newClient(api, config.S3{Bucket: "shop", Region: "eu-north-1"})

	url, err := c.Put(context.Background(), "a.png", []byte("img"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "https://shop.s3.eu-north-1.amazonaws.com/a.png", url)
	assert.Equal(t, "shop", aws.ToString(api.put.Bucket))
	assert.Equal(t, "image/png", aws.ToString(api.put.ContentType))
	assert.Equal(t, []byte("img"), api.body)
}

func TestPut_Error(t *testing.T) {
	c := newClient(&fakeAPI{err: errors.New("boom")}, config.S3{Bucket: "shop"})

	_, err := c.Put(context.Background(), "a.png", nil, "image/png")
	assert.ErrorContains(t, err, "a.png")
}

func TestDelete(t *testing.T) {
	api := &fakeAPI{}
	c := newClient(api, config.S3{Bucket: "shop"})

	require.NoError(t, c.Delete(context.Background(), "a.png"))
	require.NoError(t, c.Delete(context.Background(), ""))
	assert.Equal(t, []string{"a.png"}, api.deleted)
}

func TestKeyFromURL(t *testing.T) {
	c := newClient(&fakeAPI{}, config.S3{Bucket: "shop", PublicBaseURL: "http://minio:9000/shop/"})

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "own url", url: c.URLFor("dir/a.png"), want: "dir/a.png"},
		{name: "foreign url", url: "https://cdn.example/x/b.jpg", want: "b.jpg"},
		{name: "bare key", url: "c.webp", want: "c.webp"},
		{name: "empty", url: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.KeyFromURL(tt.url))
		})
	}
}
