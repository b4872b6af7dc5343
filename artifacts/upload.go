// Package artifacts publishes a run's output directory (reports, screenshots, traces) to an
// S3-compatible bucket so CI jobs can link to failures.
package artifacts

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"

	"github.com/petelc/NexusPlaywright/framework/obs"
)

const (
	putAttempts = 3
	putDelay    = 500 * time.Millisecond
)

// S3Config says where artifacts go. Credentials come from the standard AWS environment.
type S3Config struct {
	Bucket string

	// Endpoint selects an S3-compatible service instead of AWS. It implies path-style
	// addressing.
	Endpoint string

	Region string
}

// Uploader copies files into one bucket under a per-run prefix.
type Uploader struct {
	client *s3.Client
	bucket string
	prefix string
}

// Summary describes a completed upload.
type Summary struct {
	Files    int
	Bytes    int64
	Location string
}

func (s Summary) String() string {
	return fmt.Sprintf("%d files (%s) to %s", s.Files, humanize.Bytes(uint64(s.Bytes)), s.Location)
}

// NewS3Uploader creates an uploader that writes under runID/ in the configured bucket.
func NewS3Uploader(ctx context.Context, cfg S3Config, runID string) (*Uploader, error) {
	sdkConfig, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewUploader(client, cfg.Bucket, runID), nil
}

// NewUploader wraps an existing client.
func NewUploader(client *s3.Client, bucket, runID string) *Uploader {
	return &Uploader{client: client, bucket: bucket, prefix: strings.Trim(runID, "/")}
}

// Location is the s3:// URL of the run's prefix.
func (u *Uploader) Location() string {
	return "s3://" + u.bucket + "/" + u.prefix + "/"
}

// Key is the object key a file at rel (relative to the uploaded directory) is stored under.
func (u *Uploader) Key(rel string) string {
	return path.Join(u.prefix, filepath.ToSlash(rel))
}

// UploadDir uploads every regular file below root. It stops at the first file that still
// fails after retries; files already uploaded stay in the bucket.
func (u *Uploader) UploadDir(ctx context.Context, root string) (Summary, error) {
	summary := Summary{Location: u.Location()}
	logger := obs.From(ctx).With("pkg", "artifacts", "bucket", u.bucket)

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		n, err := u.uploadFile(ctx, p, u.Key(rel))
		if err != nil {
			return err
		}
		logger.Debug("uploaded artifact", "key", u.Key(rel), "size", humanize.Bytes(uint64(n)))
		summary.Files++
		summary.Bytes += n
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("artifact upload to %s: %w", u.Location(), err)
	}
	logger.Info("uploaded artifacts", "files", summary.Files, "size", humanize.Bytes(uint64(summary.Bytes)))
	return summary, nil
}

func (u *Uploader) uploadFile(ctx context.Context, p, key string) (int64, error) {
	var size int64
	err := retry.Do(
		func() error {
			f, err := os.Open(p)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			defer func() { _ = f.Close() }()
			info, err := f.Stat()
			if err != nil {
				return retry.Unrecoverable(err)
			}
			size = info.Size()
			_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
				Bucket:        aws.String(u.bucket),
				Key:           aws.String(key),
				Body:          f,
				ContentLength: aws.Int64(size),
				ContentType:   aws.String(contentType(p)),
			})
			return err
		},
		retry.Context(ctx),
		retry.Attempts(putAttempts),
		retry.Delay(putDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to put object %q: %w", key, err)
	}
	return size, nil
}

func contentType(p string) string {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".zip":
		return "application/zip"
	case ".xml":
		return "application/xml"
	}
	if t := mime.TypeByExtension(filepath.Ext(p)); t != "" {
		return t
	}
	return "application/octet-stream"
}
