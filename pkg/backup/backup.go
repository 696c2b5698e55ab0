// Package backup stores a copy of the current export before an import wipes the dataset.
package backup

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"agrimind/config"
)

// Store receives backup documents.
type Store interface {
	Driver() string
	Put(ctx context.Context, key string, body []byte) error
}

// Open builds the configured store. It returns nil, nil when backups are off.
func Open(ctx context.Context, cfg config.AppConfig) (Store, error) {
	switch cfg.BackupDriver {
	case "", "none":
		return nil, nil
	case "fs":
		return NewFS(cfg.BackupDir)
	case "s3":
		return NewS3(ctx, S3Config{
			Bucket:    cfg.BackupS3Bucket,
			Region:    cfg.BackupS3Region,
			Endpoint:  cfg.BackupS3Endpoint,
			PathStyle: cfg.BackupS3PathStyle,
		})
	}
	return nil, fmt.Errorf("unsupported BACKUP_DRIVER %q", cfg.BackupDriver)
}

// Key names the backup taken before import run runID.
func Key(runID string, at time.Time) string {
	return fmt.Sprintf("exports/%s-%s.json", at.UTC().Format("20060102T150405Z"), runID)
}

// FSStore writes backups under a directory.
type FSStore struct {
	dir string
}

func NewFS(dir string) (*FSStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("backup dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	return &FSStore{dir: dir}, nil
}

func (s *FSStore) Driver() string { return "fs" }

func (s *FSStore) Put(_ context.Context, key string, body []byte) error {
	if strings.Contains(key, "..") {
		return fmt.Errorf("invalid backup key %q", key)
	}
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// S3Config mirrors the BACKUP_S3_* settings.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, e.g. MinIO
	PathStyle bool
}

// S3Store writes backups to one bucket. Credentials come from the default AWS chain.
type S3Store struct {
	client *s3.Client
	bucket string
}

func NewS3(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

func (s *S3Store) Driver() string { return "s3" }

func (s *S3Store) Put(ctx context.Context, key string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", key, err)
	}
	return nil
}
