package export

import (
	"context"
	"fmt"
	"os"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ContentType is the media type the table is uploaded with.
const ContentType = "text/tab-separated-values"

// UploadConfig holds S3 construction parameters. Credentials come from the
// default AWS chain.
type UploadConfig struct {
	Bucket    string
	Region    string
	Endpoint  string // optional; set for S3-compatible stores such as MinIO
	PathStyle bool
}

// Uploader puts finished tables into a single bucket.
type Uploader struct {
	client *s3.Client
	bucket string
}

// NewUploader creates an Uploader from cfg.
func NewUploader(ctx context.Context, cfg UploadConfig, optFns ...func(*s3.Options)) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return newUploader(awsCfg, cfg, optFns...), nil
}

func newUploader(awsCfg aws.Config, cfg UploadConfig, optFns ...func(*s3.Options)) *Uploader {
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		for _, fn := range optFns {
			fn(o)
		}
	})
	return &Uploader{client: client, bucket: cfg.Bucket}
}

// Upload puts the file at path under key, tagged with the run id.
func (u *Uploader) Upload(ctx context.Context, path, key, runID string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(ContentType),
		Metadata:    map[string]string{"run-id": runID},
	})
	if err != nil {
		return fmt.Errorf("uploading s3://%s/%s: %w", u.bucket, key, err)
	}
	return nil
}
