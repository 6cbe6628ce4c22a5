package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yungbote/seobrain/internal/platform/gcp"
	"github.com/yungbote/seobrain/internal/platform/logger"
)

func TestClassifyStorageProviderBootstrapError(t *testing.T) {
	cases := []struct {
		name string
		cfg  gcp.StorageConfig
		err  error
		want StorageProviderBootstrapErrorCode
	}{
		{
			name: "invalid mode",
			cfg:  gcp.StorageConfig{Mode: "bad-mode"},
			err:  &gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorInvalidMode, Value: "bad-mode"},
			want: StorageProviderBootstrapErrorInvalidMode,
		},
		{
			name: "missing emulator host",
			cfg:  gcp.StorageConfig{Mode: gcp.ObjectStorageModeGCSEmulator},
			err:  &gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorMissingEmulatorHost},
			want: StorageProviderBootstrapErrorMissingEmulatorHost,
		},
		{
			name: "invalid emulator host",
			cfg:  gcp.StorageConfig{Mode: gcp.ObjectStorageModeGCSEmulator, EmulatorHost: "fake-gcs:4443"},
			err:  &gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorInvalidEmulatorHost, Value: "fake-gcs:4443"},
			want: StorageProviderBootstrapErrorInvalidEmulatorHost,
		},
		{
			name: "missing bucket wrapped",
			cfg:  gcp.StorageConfig{Mode: gcp.ObjectStorageModeGCS},
			err:  errors.Join(errors.New("validate"), &gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorMissingBucket}),
			want: StorageProviderBootstrapErrorMissingBucket,
		},
		{
			name: "connect failed",
			cfg:  gcp.StorageConfig{Mode: gcp.ObjectStorageModeGCS},
			err:  errors.New("dial tcp: connection refused"),
			want: StorageProviderBootstrapErrorConnectFailed,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classifyStorageProviderBootstrapError(tc.cfg, tc.err)
			var got *StorageProviderBootstrapError
			if !errors.As(err, &got) {
				t.Fatalf("expected StorageProviderBootstrapError, got=%T", err)
			}
			if got.Code != tc.want {
				t.Fatalf("code: want=%q got=%q", tc.want, got.Code)
			}
			if !errors.Is(err, tc.err) {
				t.Fatalf("cause not preserved: %v", err)
			}
			if storageProviderBootstrapErrorCode(err) != tc.want {
				t.Fatalf("code helper: want=%q got=%q", tc.want, storageProviderBootstrapErrorCode(err))
			}
		})
	}
}

func TestResolveBucketServiceNoneUsesMemory(t *testing.T) {
	called := false
	orig := newBucketService
	newBucketService = func(context.Context, *logger.Logger, gcp.StorageConfig) (gcp.BucketService, error) {
		called = true
		return nil, errors.New("unexpected")
	}
	t.Cleanup(func() { newBucketService = orig })

	bucket, err := resolveBucketService(context.Background(), logger.Nop(), Config{
		ObjectStorageMode: "none",
		StoragePublicBase: "http://localhost:8080/media",
	})
	if err != nil {
		t.Fatalf("resolveBucketService: %v", err)
	}
	if called {
		t.Fatalf("gcs bootstrap should be skipped for mode none")
	}
	if _, ok := bucket.(*gcp.MemoryBucketService); !ok {
		t.Fatalf("bucket: want=*gcp.MemoryBucketService got=%T", bucket)
	}
	if url := bucket.GetPublicURL(gcp.BucketCategoryImage, "seo/hero/a.jpg"); !strings.HasPrefix(url, "http://localhost:8080/media") {
		t.Fatalf("public url: %q", url)
	}
}

func TestResolveBucketServiceClassifiesInvalidConfig(t *testing.T) {
	_, err := resolveBucketService(context.Background(), logger.Nop(), Config{
		ObjectStorageMode: "gcs_emulator",
		ImagesBucket:      "seo-images",
	})
	if got := storageProviderBootstrapErrorCode(err); got != StorageProviderBootstrapErrorMissingEmulatorHost {
		t.Fatalf("code: want=%q got=%q (err=%v)", StorageProviderBootstrapErrorMissingEmulatorHost, got, err)
	}
}
