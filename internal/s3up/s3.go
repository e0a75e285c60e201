// Package s3up mirrors generated report files into the S3 bucket the
// downstream dashboards read from.
package s3up

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/crucial707/asset-recon/internal/config"
)

// Uploader pushes local report files into one bucket/prefix.
type Uploader struct {
	Cfg    config.Config
	client *s3.Client
}

// New builds an uploader with credentials from the default AWS chain
// (env vars, shared config).
func New(ctx context.Context, cfg config.Config) (*Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}
	return &Uploader{Cfg: cfg, client: s3.NewFromConfig(awsCfg)}, nil
}

// UploadReports walks localDir and uploads every file whose name carries
// today's date stamp under <prefix>/<yyyymmdd>/. Keys that already exist
// remotely are skipped, so a re-run of the same day never overwrites a
// report someone may already have downloaded.
func (u *Uploader) UploadReports(ctx context.Context, localDir string) error {
	stamp := u.Cfg.DateStamp()
	prefix := path.Join(u.Cfg.S3Prefix, stamp)

	return filepath.WalkDir(localDir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if !strings.Contains(d.Name(), stamp) {
			return nil
		}
		rel, err := filepath.Rel(localDir, p)
		if err != nil {
			return err
		}
		key := path.Join(prefix, filepath.ToSlash(rel))

		if u.exists(ctx, key) {
			slog.Info("s3 key exists, skipped", "bucket", u.Cfg.S3Bucket, "key", key)
			return nil
		}

		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()

		slog.Info("uploading report", "bucket", u.Cfg.S3Bucket, "key", key)
		_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: &u.Cfg.S3Bucket,
			Key:    &key,
			Body:   f,
		})
		if err != nil {
			return fmt.Errorf("s3: upload %s: %w", key, err)
		}
		return nil
	})
}

// EmptyPrefix deletes every object under the given prefix. Used before a
// forced re-publish of a day's reports.
func (u *Uploader) EmptyPrefix(ctx context.Context, prefix string) error {
	paginator := s3.NewListObjectsV2Paginator(u.client, &s3.ListObjectsV2Input{
		Bucket: &u.Cfg.S3Bucket,
		Prefix: &prefix,
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("s3: list %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			slog.Info("deleting s3 object", "key", *obj.Key)
			if _, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: &u.Cfg.S3Bucket,
				Key:    obj.Key,
			}); err != nil {
				return fmt.Errorf("s3: delete %s: %w", *obj.Key, err)
			}
		}
	}
	return nil
}

func (u *Uploader) exists(ctx context.Context, key string) bool {
	_, err := u.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &u.Cfg.S3Bucket,
		Key:    &key,
	})
	return err == nil
}
