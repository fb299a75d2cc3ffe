package publish

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	buckets map[string]bool
	objects map[string]string
	types   map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{buckets: map[string]bool{}, objects: map[string]string{}, types: map[string]string{}}
}

func (f *fakeStore) BucketExists(_ context.Context, bucket string) (bool, error) {
	return f.buckets[bucket], nil
}

func (f *fakeStore) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	f.buckets[bucket] = true
	return nil
}

func (f *fakeStore) FPutObject(_ context.Context, bucket, object, file string, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	info, err := os.Stat(file)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[bucket+"/"+object] = file
	f.types[object] = opts.ContentType
	return minio.UploadInfo{Bucket: bucket, Key: object, Size: info.Size()}, nil
}

func TestObjectKey(t *testing.T) {
	run := filepath.Join("out", "7")
	tests := []struct {
		prefix, file, want string
	}{
		{"", filepath.Join(run, "pattern", "pattern_000001.png"), "7/pattern/pattern_000001.png"},
		{"datasets/", filepath.Join(run, "scene_parameters.json"), "datasets/7/scene_parameters.json"},
		{"/a/b", filepath.Join(run, "depth", "depth_R_0001.exr"), "a/b/7/depth/depth_R_0001.exr"},
	}
	for _, tt := range tests {
		got, err := ObjectKey(tt.prefix, run, tt.file)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ObjectKey("", run, filepath.Join("out", "8", "x.png"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	err := Options{Endpoint: "localhost:9000"}.Validate()
	assert.ErrorIs(t, err, ErrMissingOption)
	assert.Contains(t, err.Error(), "bucket")
	assert.NotContains(t, err.Error(), "endpoint")

	assert.NoError(t, Options{Endpoint: "e", AccessKey: "a", SecretKey: "s", Bucket: "b"}.Validate())
}

func TestLoadOptions(t *testing.T) {
	t.Setenv("SLGEN_S3_ENDPOINT", "minio.local:9000")
	t.Setenv("SLGEN_S3_ACCESS_KEY", "key")
	t.Setenv("SLGEN_S3_BUCKET", "from-env")
	t.Setenv("SLGEN_S3_SECURE", "false")

	flags := pflag.NewFlagSet("publish", pflag.ContinueOnError)
	AddFlags(flags)
	require.NoError(t, flags.Parse([]string{"--bucket", "from-flag", "--secret-key", "s3cr3t"}))

	o, err := LoadOptions(flags)
	require.NoError(t, err)
	assert.Equal(t, Options{
		Endpoint:  "minio.local:9000",
		AccessKey: "key",
		SecretKey: "s3cr3t",
		Bucket:    "from-flag",
		Secure:    false,
	}, o)
}

func TestUpload(t *testing.T) {
	run := filepath.Join(t.TempDir(), "3")
	require.NoError(t, os.MkdirAll(filepath.Join(run, "pattern"), 0755))
	f, err := os.Create(filepath.Join(run, "pattern", "pattern_000001.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 4, 4))))
	require.NoError(t, f.Close())
	require.NoError(t, os.WriteFile(filepath.Join(run, "scene_parameters.json"), []byte(`{"camera": {}}`), 0644))

	store := newFakeStore()
	sum, err := upload(context.Background(), store, Options{Bucket: "sl", Prefix: "runs"}, run)
	require.NoError(t, err)

	assert.True(t, store.buckets["sl"])
	assert.Equal(t, 2, sum.Objects)
	assert.Positive(t, sum.Bytes)

	var keys []string
	for k := range store.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{"sl/runs/3/pattern/pattern_000001.png", "sl/runs/3/scene_parameters.json"}, keys)
	assert.Equal(t, "image/png", store.types["runs/3/pattern/pattern_000001.png"])
	assert.Equal(t, "application/json", store.types["runs/3/scene_parameters.json"])
}

func TestUploadRejectsFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "run.txt")
	require.NoError(t, os.WriteFile(f, nil, 0644))
	_, err := upload(context.Background(), newFakeStore(), Options{Bucket: "sl"}, f)
	assert.Error(t, err)
}
