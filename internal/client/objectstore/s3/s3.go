// Package s3 implements the objectstore client against AWS S3 and
// S3-compatible stores such as MinIO.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go/ptr"

	"github.com/beanbocchi/companion/internal/client/objectstore"
)

type S3Config struct {
	// Endpoint is an optional custom endpoint (MinIO, LocalStack, ...).
	Endpoint string
	Region   string
	// AccessKeyID/SecretAccessKey are used as static credentials when both
	// are set; otherwise the default AWS credential chain applies.
	AccessKeyID     string
	SecretAccessKey string
	// Bucket is the bucket all upload sessions live in.
	Bucket string
	// UsePathStyle enables path-style addressing (required for MinIO).
	UsePathStyle bool
}

type ClientImpl struct {
	client  *awss3.Client
	presign *awss3.PresignClient
	bucket  string
}

var _ objectstore.Client = (*ClientImpl)(nil)

// NewClient creates a new S3 objectstore client.
func NewClient(ctx context.Context, cfg S3Config) (*ClientImpl, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	var optFuncs []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		optFuncs = append(optFuncs, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		optFuncs = append(optFuncs, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFuncs...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3Opts []func(*awss3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *awss3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *awss3.Options) {
			o.UsePathStyle = true
		})
	}

	client := awss3.NewFromConfig(awsCfg, s3Opts...)

	return &ClientImpl{
		client:  client,
		presign: awss3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}, nil
}

// Ping verifies that the configured bucket is reachable.
func (c *ClientImpl) Ping(ctx context.Context) error {
	_, err := c.client.HeadBucket(ctx, &awss3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		return fmt.Errorf("head bucket %q: %w", c.bucket, err)
	}
	return nil
}

// EnsureFolder writes a zero-byte marker object at the given prefix.
func (c *ClientImpl) EnsureFolder(ctx context.Context, prefix string) error {
	_, err := c.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(prefix),
		Body:          bytes.NewReader(nil),
		ContentLength: aws.Int64(0),
	})
	if err != nil {
		return fmt.Errorf("create folder marker %q: %w", prefix, err)
	}
	return nil
}

// Exists reports whether the object exists via a HEAD request.
func (c *ClientImpl) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.client.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("head object %q: %w", key, err)
	}
	return true, nil
}

// ListPrefixes returns the top-level common prefixes of the bucket.
func (c *ClientImpl) ListPrefixes(ctx context.Context) ([]string, error) {
	prefixes := make([]string, 0)
	paginator := awss3.NewListObjectsV2Paginator(c.client, &awss3.ListObjectsV2Input{
		Bucket:    aws.String(c.bucket),
		Delimiter: aws.String("/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list common prefixes: %w", err)
		}
		for _, p := range page.CommonPrefixes {
			prefixes = append(prefixes, aws.ToString(p.Prefix))
		}
	}

	return prefixes, nil
}

// PresignPut returns a presigned single-shot PUT URL. The signed request
// pins the Content-Type header, so the client must send it verbatim.
func (c *ClientImpl) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	req, err := c.presign.PresignPutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, awss3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("presign put %q: %w", key, err)
	}
	return req.URL, nil
}

// CreateMultipart allocates a new multipart upload for the key.
func (c *ClientImpl) CreateMultipart(ctx context.Context, key, contentType string) (string, error) {
	out, err := c.client.CreateMultipartUpload(ctx, &awss3.CreateMultipartUploadInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("create multipart upload %q: %w", key, err)
	}
	return aws.ToString(out.UploadId), nil
}

// PresignPart returns a presigned PUT URL for one part slot.
func (c *ClientImpl) PresignPart(ctx context.Context, key, uploadID string, partNumber int32, expires time.Duration) (string, error) {
	req, err := c.presign.PresignUploadPart(ctx, &awss3.UploadPartInput{
		Bucket:     aws.String(c.bucket),
		Key:        aws.String(key),
		UploadId:   aws.String(uploadID),
		PartNumber: aws.Int32(partNumber),
	}, awss3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("presign part %d of %q: %w", partNumber, key, err)
	}
	return req.URL, nil
}

// CompleteMultipart assembles the parts into the final object.
func (c *ClientImpl) CompleteMultipart(ctx context.Context, key, uploadID string, parts []objectstore.Part) (string, error) {
	completed := make([]types.CompletedPart, 0, len(parts))
	for _, p := range parts {
		completed = append(completed, types.CompletedPart{
			PartNumber: ptr.Int32(p.PartNumber),
			ETag:       ptr.String(p.ETag),
		})
	}

	out, err := c.client.CompleteMultipartUpload(ctx, &awss3.CompleteMultipartUploadInput{
		Bucket:   aws.String(c.bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{
			Parts: completed,
		},
	})
	if err != nil {
		return "", fmt.Errorf("complete multipart upload %q: %w", key, err)
	}
	return aws.ToString(out.Location), nil
}

// AbortMultipart releases all uncommitted part data for the upload.
func (c *ClientImpl) AbortMultipart(ctx context.Context, key, uploadID string) error {
	_, err := c.client.AbortMultipartUpload(ctx, &awss3.AbortMultipartUploadInput{
		Bucket:   aws.String(c.bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	})
	if err != nil {
		return fmt.Errorf("abort multipart upload %q: %w", key, err)
	}
	return nil
}
