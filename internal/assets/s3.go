package assets

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/cardfolio/dashboard-sync/internal/config"
	"github.com/cardfolio/dashboard-sync/internal/logger"
)

// S3Resolver builds presigned GET URLs for objects in a bucket.
type S3Resolver struct {
	// ctx carries the logger used when presigning fails.
	ctx context.Context //nolint:containedctx // Resolver methods have no context parameter.
	// presigner signs GetObject requests locally.
	presigner *s3.PresignClient
	// bucket holds the images.
	bucket string
	// prefix is prepended to every key.
	prefix string
	// ttl is the validity of each URL.
	ttl time.Duration
}

// NewS3Resolver creates a resolver from bucket settings. Static credentials
// are used when an access key is configured, otherwise the default chain.
func NewS3Resolver(ctx context.Context, settings config.S3) (*S3Resolver, error) {
	options := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(settings.Region),
	}

	if settings.AccessKeyID != "" {
		staticProvider := credentials.NewStaticCredentialsProvider(
			settings.AccessKeyID,
			settings.SecretAccessKey,
			"",
		)
		options = append(options, awsConfig.WithCredentialsProvider(staticProvider))
	}

	cfg, err := awsConfig.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("load aws configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if settings.Endpoint != "" {
			o.BaseEndpoint = aws.String(settings.Endpoint)
			o.UsePathStyle = true
		}
	})

	ttl := settings.PresignTTL
	if ttl <= 0 {
		ttl = config.DefaultPresignTTL
	}

	return &S3Resolver{
		ctx:       logger.WithName(ctx, "s3-assets"),
		presigner: s3.NewPresignClient(client),
		bucket:    settings.Bucket,
		prefix:    settings.Prefix,
		ttl:       ttl,
	}, nil
}

// BaseURL presigns {prefix}/{asset}/image.
func (r *S3Resolver) BaseURL(assetID string) string {
	return r.presign(path.Join(r.prefix, assetID, imageName))
}

// VariantURL presigns {prefix}/{asset}/{variant}.
func (r *S3Resolver) VariantURL(assetID, variantID string) string {
	return r.presign(path.Join(r.prefix, assetID, variantID))
}

// PlaceholderURL presigns {prefix}/placeholder-image.
func (r *S3Resolver) PlaceholderURL() string {
	return r.presign(path.Join(r.prefix, placeholderName))
}

// presign returns a GET URL for key. On failure it returns an empty URL,
// which the image loader treats as a failed candidate.
func (r *S3Resolver) presign(key string) string {
	request, err := r.presigner.PresignGetObject(r.ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(r.ttl))
	if err != nil {
		logger.WarnKV(r.ctx, "failed to presign image URL", "key", key, "error", err)

		return ""
	}

	return request.URL
}
