package publishers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type s3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Publisher uploads the rendered HTML report so it can be served statically.
type s3Publisher struct {
	id     string
	bucket string
	key    string
	client s3Client
	log    Logger
}

func newS3Publisher(ctx context.Context, cfg Config, log Logger) (Publisher, error) {
	if cfg.S3 == nil {
		return nil, fmt.Errorf("publisher %q missing s3 configuration", cfg.ID)
	}
	awsCfg, err := loadAWSConfig(ctx, cfg.S3.AWSCredentials)
	if err != nil {
		return nil, fmt.Errorf("publisher %q: %w", cfg.ID, err)
	}
	return &s3Publisher{
		id:     cfg.ID,
		bucket: cfg.S3.Bucket,
		key:    cfg.S3.Key,
		client: s3.NewFromConfig(awsCfg),
		log:    ensureLogger(log),
	}, nil
}

func (p *s3Publisher) ID() string   { return p.id }
func (p *s3Publisher) Type() string { return TypeS3 }

func (p *s3Publisher) Publish(ctx context.Context, evt DigestEvent) error {
	if len(evt.HTML) == 0 {
		return errors.New("s3 publisher: digest has no rendered html")
	}

	key := objectKey(p.key, evt)
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(evt.HTML),
		ContentType: aws.String("text/html; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("upload s3://%s/%s: %w", p.bucket, key, err)
	}

	p.log.InfoObj("html report uploaded", "publisher_s3_upload", map[string]any{
		"bucket": p.bucket,
		"key":    key,
		"bytes":  len(evt.HTML),
	})
	return nil
}

// objectKey fills the {date} and {pipeline} placeholders of a key template.
func objectKey(tmpl string, evt DigestEvent) string {
	return strings.NewReplacer(
		"{date}", evt.GeneratedAt.Format("2006-01-02"),
		"{pipeline}", evt.Pipeline,
	).Replace(tmpl)
}
