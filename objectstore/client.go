package objectstore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectInfo contains head metadata about a stored object.
type ObjectInfo struct {
	Key           string
	ContentType   string
	ContentLength int64
	ETag          string
	LastModified  time.Time
	Metadata      map[string]string
}

// CompletedPart identifies one finished part of a multipart upload.
type CompletedPart struct {
	PartNumber int32
	ETag       string
}

// Client is a thin transport to an S3-compatible endpoint.
type Client struct {
	client  *awss3.Client
	presign *awss3.PresignClient
	bucket  string
}

// NewClient creates an object store client from the given config.
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("objectstore: load aws config: %w", err)
	}

	var s3Opts []func(*awss3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *awss3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	} else if cfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *awss3.Options) {
			o.UsePathStyle = true
		})
	}

	client := awss3.NewFromConfig(awsCfg, s3Opts...)
	return &Client{
		client:  client,
		presign: awss3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}, nil
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string { return c.bucket }

// PutObject stores an object in a single request and returns its ETag.
func (c *Client) PutObject(ctx context.Context, key string, body io.Reader, contentType string, metadata map[string]string) (string, error) {
	out, err := c.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: optionalString(contentType),
		Metadata:    metadata,
	})
	if err != nil {
		return "", classify("putObject", key, err)
	}
	return aws.ToString(out.ETag), nil
}

// GetObject returns the object body and its head metadata.
// The caller is responsible for closing the returned ReadCloser.
func (c *Client) GetObject(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	out, err := c.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, ObjectInfo{}, classify("getObject", key, err)
	}
	info := ObjectInfo{
		Key:           key,
		ContentType:   aws.ToString(out.ContentType),
		ContentLength: aws.ToInt64(out.ContentLength),
		ETag:          aws.ToString(out.ETag),
		Metadata:      out.Metadata,
	}
	if out.LastModified != nil {
		info.LastModified = *out.LastModified
	}
	return out.Body, info, nil
}

// HeadObject returns object metadata without transferring the body.
func (c *Client) HeadObject(ctx context.Context, key string) (ObjectInfo, error) {
	out, err := c.client.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return ObjectInfo{}, classify("headObject", key, err)
	}
	info := ObjectInfo{
		Key:           key,
		ContentType:   aws.ToString(out.ContentType),
		ContentLength: aws.ToInt64(out.ContentLength),
		ETag:          aws.ToString(out.ETag),
		Metadata:      out.Metadata,
	}
	if out.LastModified != nil {
		info.LastModified = *out.LastModified
	}
	return info, nil
}

// CopyObject performs a server-side copy within the bucket.
func (c *Client) CopyObject(ctx context.Context, sourceKey, destKey string) error {
	_, err := c.client.CopyObject(ctx, &awss3.CopyObjectInput{
		Bucket:     aws.String(c.bucket),
		CopySource: aws.String(c.bucket + "/" + sourceKey),
		Key:        aws.String(destKey),
	})
	if err != nil {
		return classify("copyObject", sourceKey, err)
	}
	return nil
}

// DeleteObject removes an object. Returns nil if the object does not exist.
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	_, err := c.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return classify("deleteObject", key, err)
	}
	return nil
}

// List returns metadata for up to max objects whose key starts with prefix.
// A max of 1 makes this a cheap connectivity probe.
func (c *Client) List(ctx context.Context, prefix string, max int32) ([]ObjectInfo, error) {
	out, err := c.client.ListObjectsV2(ctx, &awss3.ListObjectsV2Input{
		Bucket:  aws.String(c.bucket),
		Prefix:  optionalString(prefix),
		MaxKeys: aws.Int32(max),
	})
	if err != nil {
		return nil, classify("listObjects", prefix, err)
	}
	infos := make([]ObjectInfo, 0, len(out.Contents))
	for _, obj := range out.Contents {
		info := ObjectInfo{
			Key:           aws.ToString(obj.Key),
			ContentLength: aws.ToInt64(obj.Size),
			ETag:          aws.ToString(obj.ETag),
		}
		if obj.LastModified != nil {
			info.LastModified = *obj.LastModified
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// CreateMultipartUpload starts a multipart upload and returns its upload id.
func (c *Client) CreateMultipartUpload(ctx context.Context, key, contentType string, metadata map[string]string) (string, error) {
	out, err := c.client.CreateMultipartUpload(ctx, &awss3.CreateMultipartUploadInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: optionalString(contentType),
		Metadata:    metadata,
	})
	if err != nil {
		return "", classify("createMultipartUpload", key, err)
	}
	return aws.ToString(out.UploadId), nil
}

// UploadPart uploads a single part and returns its ETag.
func (c *Client) UploadPart(ctx context.Context, key, uploadID string, partNumber int32, body io.Reader) (string, error) {
	out, err := c.client.UploadPart(ctx, &awss3.UploadPartInput{
		Bucket:     aws.String(c.bucket),
		Key:        aws.String(key),
		UploadId:   aws.String(uploadID),
		PartNumber: aws.Int32(partNumber),
		Body:       body,
	})
	if err != nil {
		return "", classify("uploadPart", key, err)
	}
	return aws.ToString(out.ETag), nil
}

// CompleteMultipartUpload assembles the uploaded parts server-side.
func (c *Client) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []CompletedPart) (string, error) {
	completed := make([]types.CompletedPart, len(parts))
	for i, p := range parts {
		completed[i] = types.CompletedPart{
			PartNumber: aws.Int32(p.PartNumber),
			ETag:       aws.String(p.ETag),
		}
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
		return "", classify("completeMultipartUpload", key, err)
	}
	return aws.ToString(out.ETag), nil
}

// AbortMultipartUpload discards an in-progress multipart upload.
func (c *Client) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	_, err := c.client.AbortMultipartUpload(ctx, &awss3.AbortMultipartUploadInput{
		Bucket:   aws.String(c.bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	})
	if err != nil {
		return classify("abortMultipartUpload", key, err)
	}
	return nil
}

// PresignGet returns a time-limited URL granting direct GET access.
func (c *Client) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	req, err := c.presign.PresignGetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, awss3.WithPresignExpires(expiry))
	if err != nil {
		return "", classify("presignGet", key, err)
	}
	return req.URL, nil
}

// PresignPut returns a time-limited URL granting direct PUT access.
func (c *Client) PresignPut(ctx context.Context, key string, expiry time.Duration) (string, error) {
	req, err := c.presign.PresignPutObject(ctx, &awss3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, awss3.WithPresignExpires(expiry))
	if err != nil {
		return "", classify("presignPut", key, err)
	}
	return req.URL, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}
