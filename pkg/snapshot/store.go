package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Store persists exported snapshots under a key.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
}

// FileStore writes snapshots as files under a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore, creating dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory snapshots are written to.
func (s *FileStore) Dir() string {
	return s.dir
}

// Put writes data to dir/key. Keys may not leave the directory.
func (s *FileStore) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if rel, err := filepath.Rel(s.dir, path); err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("invalid snapshot key %q", key)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	// Write through a temp file so readers never see a partial snapshot.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// PutObjectAPI is the part of *s3.Client used by S3Store.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads snapshots to an S3 bucket.
//
//	client, err := snapshot.NewS3Client(ctx, "eu-west-1")
//	store := snapshot.NewS3Store(client, "trees", "dev/")
type S3Store struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// NewS3Store creates an S3Store. Keys are stored as prefix+key.
func NewS3Store(client PutObjectAPI, bucket, prefix string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Put uploads data as a JSON object.
func (s *S3Store) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.prefix + key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 upload failed: %w", err)
	}
	return nil
}

// NewS3Client creates an S3 client for region from the default AWS
// configuration chain (environment, shared config files, instance roles).
// AWS_ENDPOINT_URL selects an S3-compatible endpoint with path-style
// addressing.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg, withEndpoint(os.Getenv("AWS_ENDPOINT_URL"))), nil
}

func withEndpoint(endpoint string) func(*s3.Options) {
	return func(o *s3.Options) {
		if endpoint == "" {
			return
		}
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	}
}
