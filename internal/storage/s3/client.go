package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"card-service/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const (
	emptyAWSSessionToken                     = ""
	defaultS3Region                          = "us-east-1"
	errFailedCreateAWSSessionFmt             = "failed to create AWS session: %w"
	errFailedUploadObjectFmt                 = "failed to upload object: %w"
	errFailedGeneratePresignedDownloadURLFmt = "failed to generate presigned download URL: %w"
	errFailedDeleteObjectFmt                 = "failed to delete object: %w"
	errFailedCreateBucketFmt                 = "failed to create bucket: %w"
	errFailedWaitBucketExistsFmt             = "failed to wait for bucket to exist: %w"
	errFailedHeadBucketFmt                   = "failed to check bucket: %w"
	errBucketRequired                        = "bucket name is required"
)

// Client stores card assets in one S3-compatible bucket.
type Client struct {
	svc                *s3.S3
	bucket             string
	region             string
	presignedURLExpiry time.Duration
}

func NewClient(cfg *config.S3Config, presignedURLExpiry time.Duration) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, errors.New(errBucketRequired)
	}

	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			emptyAWSSessionToken,
		),
		S3ForcePathStyle: aws.Bool(cfg.ForcePathStyle),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf(errFailedCreateAWSSessionFmt, err)
	}

	return &Client{
		svc:                s3.New(sess),
		bucket:             cfg.Bucket,
		region:             cfg.Region,
		presignedURLExpiry: presignedURLExpiry,
	}, nil
}

func (c *Client) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := c.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf(errFailedUploadObjectFmt, err)
	}
	return nil
}

func (c *Client) PresignedURL(ctx context.Context, key string) (string, error) {
	req, _ := c.svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	req.SetContext(ctx)

	url, err := req.Presign(c.presignedURLExpiry)
	if err != nil {
		return "", fmt.Errorf(errFailedGeneratePresignedDownloadURLFmt, err)
	}

	return url, nil
}

// Delete removes key. S3 treats deleting a missing key as success.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf(errFailedDeleteObjectFmt, err)
	}
	return nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (c *Client) EnsureBucket(ctx context.Context) error {
	_, err := c.svc.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)})
	if err == nil {
		return nil
	}

	var aerr awserr.RequestFailure
	if !errors.As(err, &aerr) || aerr.StatusCode() != 404 {
		return fmt.Errorf(errFailedHeadBucketFmt, err)
	}

	input := &s3.CreateBucketInput{
		Bucket: aws.String(c.bucket),
	}
	if c.region != defaultS3Region {
		input.CreateBucketConfiguration = &s3.CreateBucketConfiguration{
			LocationConstraint: aws.String(c.region),
		}
	}

	if _, err := c.svc.CreateBucketWithContext(ctx, input); err != nil {
		return fmt.Errorf(errFailedCreateBucketFmt, err)
	}

	if err := c.svc.WaitUntilBucketExistsWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	}); err != nil {
		return fmt.Errorf(errFailedWaitBucketExistsFmt, err)
	}

	return nil
}
