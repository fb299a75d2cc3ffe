// Package publish uploads finished runs to S3 compatible storage.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Rapid-Vision/slgen/cmd/internal/logs"
)

// EnvPrefix scopes the storage settings, e.g. SLGEN_S3_BUCKET.
const EnvPrefix = "SLGEN_S3"

var ErrMissingOption = errors.New("missing storage option")

type Options struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	Secure    bool   `mapstructure:"secure"`
}

// flagKeys maps CLI flag names to option keys.
var flagKeys = map[string]string{
	"endpoint":   "endpoint",
	"access-key": "access_key",
	"secret-key": "secret_key",
	"bucket":     "bucket",
	"prefix":     "prefix",
	"secure":     "secure",
}

// AddFlags registers the storage flags.
func AddFlags(flags *pflag.FlagSet) {
	flags.String("endpoint", "", "S3 endpoint host[:port] ($SLGEN_S3_ENDPOINT)")
	flags.String("access-key", "", "access key ($SLGEN_S3_ACCESS_KEY)")
	flags.String("secret-key", "", "secret key ($SLGEN_S3_SECRET_KEY)")
	flags.String("bucket", "", "target bucket ($SLGEN_S3_BUCKET)")
	flags.String("prefix", "", "object key prefix ($SLGEN_S3_PREFIX)")
	flags.Bool("secure", true, "use TLS ($SLGEN_S3_SECURE)")
}

// LoadOptions merges the environment with changed flags. flags may be nil.
func LoadOptions(flags *pflag.FlagSet) (Options, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetDefault("secure", true)
	for _, key := range flagKeys {
		// AutomaticEnv only resolves keys viper already knows about
		if err := v.BindEnv(key); err != nil {
			return Options{}, err
		}
	}
	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Options{}, err
				}
			}
		}
	}

	var o Options
	if err := v.Unmarshal(&o); err != nil {
		return Options{}, err
	}
	return o, nil
}

func (o Options) Validate() error {
	var errs []error
	for name, val := range map[string]string{"endpoint": o.Endpoint, "access key": o.AccessKey, "secret key": o.SecretKey, "bucket": o.Bucket} {
		if val == "" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingOption, name))
		}
	}
	return errors.Join(errs...)
}

// ObjectKey names the object for file inside runDir:
// <prefix>/<run name>/<path relative to runDir>.
func ObjectKey(prefix, runDir, file string) (string, error) {
	rel, err := filepath.Rel(runDir, file)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside %s", file, runDir)
	}
	run := filepath.Base(filepath.Clean(runDir))
	return strings.TrimPrefix(path.Join(strings.Trim(prefix, "/"), run, filepath.ToSlash(rel)), "/"), nil
}

// ContentType sniffs file, falling back to its extension.
func ContentType(file string) string {
	if kind, err := filetype.MatchFile(file); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	switch strings.ToLower(filepath.Ext(file)) {
	case ".exr":
		return "image/x-exr"
	case ".json":
		return "application/json"
	}
	if t := mime.TypeByExtension(filepath.Ext(file)); t != "" {
		return t
	}
	return "application/octet-stream"
}

type objectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	FPutObject(ctx context.Context, bucket, object, file string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type Summary struct {
	Objects int
	Bytes   int64
}

// Upload copies every file under runDir into the configured bucket, creating
// the bucket when it does not exist.
func Upload(ctx context.Context, opts Options, runDir string) (*Summary, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	return upload(ctx, client, opts, runDir)
}

func upload(ctx context.Context, store objectStore, opts Options, runDir string) (*Summary, error) {
	info, err := os.Stat(runDir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a run directory", runDir)
	}

	exists, err := store.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := store.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", opts.Bucket, err)
		}
		logs.Info.Println("Created bucket", opts.Bucket)
	}

	sum := &Summary{}
	err = filepath.WalkDir(runDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		key, err := ObjectKey(opts.Prefix, runDir, p)
		if err != nil {
			return err
		}
		up, err := store.FPutObject(ctx, opts.Bucket, key, p, minio.PutObjectOptions{ContentType: ContentType(p)})
		if err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}
		sum.Objects++
		sum.Bytes += up.Size
		return nil
	})
	return sum, err
}
