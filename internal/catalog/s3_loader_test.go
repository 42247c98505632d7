package catalog

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"skinker-shop/internal/model"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockObjectGetter is a mock implementation of objectGetter.
type MockObjectGetter struct {
	mock.Mock
}

func (m *MockObjectGetter) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, *params.Bucket, *params.Key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

// MockLoader is a mock implementation of Loader.
type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) Load(ctx context.Context, path string) ([]model.Product, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func TestS3Loader_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		client := new(MockObjectGetter)
		client.On("GetObject", ctx, "shop-bucket", "catalog/products.json").
			Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(sampleCatalogue))}, nil)

		products, err := newS3Loader(client, "shop-bucket", zerolog.Nop()).Load(ctx, "catalog/products.json")

		require.NoError(t, err)
		assert.Len(t, products, 2)
		client.AssertExpectations(t)
	})

	t.Run("Object missing", func(t *testing.T) {
		client := new(MockObjectGetter)
		client.On("GetObject", ctx, "shop-bucket", "catalog/missing.json").Return(nil, errors.New("NoSuchKey"))

		products, err := newS3Loader(client, "shop-bucket", zerolog.Nop()).Load(ctx, "catalog/missing.json")

		require.Error(t, err)
		assert.Nil(t, products)
		assert.Contains(t, err.Error(), "bucket=shop-bucket")
	})

	t.Run("Corrupt object", func(t *testing.T) {
		client := new(MockObjectGetter)
		client.On("GetObject", ctx, "shop-bucket", "catalog/products.json").
			Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("nope"))}, nil)

		_, err := newS3Loader(client, "shop-bucket", zerolog.Nop()).Load(ctx, "catalog/products.json")

		assert.Error(t, err)
	})
}

func TestFallbackLoader(t *testing.T) {
	ctx := context.Background()
	fromS3 := []model.Product{{ID: "s3"}}
	fromFile := []model.Product{{ID: "file"}}

	tests := []struct {
		name      string
		withS3    bool
		s3Err     error
		fileErr   error
		want      []model.Product
		expectErr bool
	}{
		{name: "S3 success", withS3: true, want: fromS3},
		{name: "S3 fails, falls back to local", withS3: true, s3Err: errors.New("access denied"), want: fromFile},
		{name: "No S3 loader", withS3: false, want: fromFile},
		{name: "Both fail", withS3: true, s3Err: errors.New("access denied"), fileErr: errors.New("not found"), expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileLoader := new(MockLoader)
			var s3Source Loader

			if tt.withS3 {
				s3Mock := new(MockLoader)
				if tt.s3Err != nil {
					s3Mock.On("Load", ctx, "catalog/products.json").Return(nil, tt.s3Err)
				} else {
					s3Mock.On("Load", ctx, "catalog/products.json").Return(fromS3, nil)
				}
				s3Source = s3Mock
			}

			if !tt.withS3 || tt.s3Err != nil {
				if tt.fileErr != nil {
					fileLoader.On("Load", ctx, "products.json").Return(nil, tt.fileErr)
				} else {
					fileLoader.On("Load", ctx, "products.json").Return(fromFile, nil)
				}
			}

			products, err := NewFallbackLoader(s3Source, fileLoader, "catalog/", zerolog.Nop()).Load(ctx, "products.json")

			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, products)
			fileLoader.AssertExpectations(t)
		})
	}
}
