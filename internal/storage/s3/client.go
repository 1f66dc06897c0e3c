package s3

import (
	"bytes"
	"context"
	"fmt"

	"memowindow/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const (
	emptyAWSSessionToken = ""
	objectURLFmt         = "https://%s.s3.%s.amazonaws.com/%s"

	errFailedCreateAWSSessionFmt = "failed to create AWS session: %w"
	errFailedUploadObjectFmt     = "failed to upload object: %w"
	errFailedDeleteObjectFmt     = "failed to delete object: %w"
	errFailedHeadObjectFmt       = "failed to head object: %w"
)

type Client struct {
	svc    *s3.S3
	region string
}

func NewClient(cfg *config.AWSConfig) (*Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			emptyAWSSessionToken,
		),
	})

	if err != nil {
		return nil, fmt.Errorf(errFailedCreateAWSSessionFmt, err)
	}

	return &Client{
		svc:    s3.New(sess),
		region: cfg.Region,
	}, nil
}

// Upload writes the object and returns its public URL.
func (c *Client) Upload(ctx context.Context, bucketName, objectKey string, body []byte, contentType string) (string, error) {
	_, err := c.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucketName),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})

	if err != nil {
		return "", fmt.Errorf(errFailedUploadObjectFmt, err)
	}

	return c.ObjectURL(bucketName, objectKey), nil
}

func (c *Client) DeleteObject(ctx context.Context, bucketName, objectKey string) error {
	_, err := c.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(objectKey),
	})

	if err != nil {
		return fmt.Errorf(errFailedDeleteObjectFmt, err)
	}

	return nil
}

// HeadObject checks the object exists without fetching its body.
func (c *Client) HeadObject(ctx context.Context, bucketName, objectKey string) error {
	_, err := c.svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(objectKey),
	})

	if err != nil {
		return fmt.Errorf(errFailedHeadObjectFmt, err)
	}

	return nil
}

func (c *Client) ObjectURL(bucketName, objectKey string) string {
	return fmt.Sprintf(objectURLFmt, bucketName, c.region, objectKey)
}
