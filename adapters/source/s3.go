package source

import (
	"context"
	"fmt"
	"io"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options configures s3:// sources. Credentials come from the default
// AWS chain (environment, shared config, instance role).
type S3Options struct {
	Region    string
	Endpoint  string // optional; set for MinIO or other S3-compatible stores
	PathStyle bool
}

// splitS3URI parses s3://bucket/key.
func splitS3URI(uri string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(uri, "s3://")
	i := strings.IndexByte(rest, '/')
	if i <= 0 || i == len(rest)-1 {
		return "", "", fmt.Errorf("s3 uri must be s3://bucket/key, got %q", uri)
	}
	return rest[:i], rest[i+1:], nil
}

func (l *Loader) openS3(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, key, err := splitS3URI(uri)
	if err != nil {
		return nil, err
	}

	region := l.S3.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if l.S3.PathStyle {
			o.UsePathStyle = true
		}
		if l.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(l.S3.Endpoint)
		}
	})

	out, err := client.GetObject(ctx, &s3.GetObjectInput{Bucket: &bucket, Key: &key})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}
