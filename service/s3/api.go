// Package s3 provides a typed client for the S3 rest-xml API surface this
// module supports: object put/get/head/delete and the multipart upload
// operation family. Payloads are supplied as body sources and stream to the
// wire whenever their length can be resolved without consuming them.
package s3

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streamforge/awsclient"
	s3errors "github.com/streamforge/awsclient/errors"
	"github.com/streamforge/awsclient/internal/validation"
)

// Client is the typed S3 service client.
type Client struct {
	runtime *awsclient.Client
	logger  *slog.Logger
}

// New creates an S3 client. When no endpoint or custom transport is
// configured, the regional S3 endpoint is derived from the region option.
//
//	client, err := s3.New(s3.WithRegion("eu-west-1"))
func New(opts ...awsclient.Option) (*Client, error) {
	var cfg awsclient.Config
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Endpoint == "" && cfg.Transport == nil {
		region := cfg.Region
		if region == "" {
			region = "us-east-1"
		}
		opts = append(opts, awsclient.WithEndpoint(fmt.Sprintf("https://s3.%s.amazonaws.com", region)))
	}

	runtime, err := awsclient.New(opts...)
	if err != nil {
		return nil, err
	}
	return NewFromClient(runtime), nil
}

// NewFromClient wraps an already-configured runtime client.
func NewFromClient(runtime *awsclient.Client) *Client {
	return &Client{
		runtime: runtime,
		logger:  runtime.Logger(),
	}
}

// WithRegion re-exports the runtime region option for convenience.
func WithRegion(region string) awsclient.Option {
	return awsclient.WithRegion(region)
}

// PutObject uploads a single object. The payload streams to the transport
// when its length is known (intrinsically or via input.ContentLength);
// otherwise it is buffered in memory first so the request can declare a
// Content-Length.
func (c *Client) PutObject(ctx context.Context, input *PutObjectInput) (*PutObjectOutput, error) {
	const op = "s3.PutObject"

	if err := c.validateWrite(input.Bucket, input.Key, input.Metadata,
		input.StorageClass, input.ACL, input.ServerSideEncryption); err != nil {
		return nil, err
	}
	if input.Body == nil {
		return nil, s3errors.NewObjectError(op, input.Bucket, input.Key, s3errors.ErrInvalidInput).
			WithMessage("body is required")
	}

	req, err := serializePutObject(input, c.logger)
	if err != nil {
		return nil, s3errors.NewObjectError(op, input.Bucket, input.Key, err)
	}
	defer req.Body.Close()

	c.logger.DebugContext(ctx, "put object",
		slog.String("bucket", input.Bucket),
		slog.String("key", input.Key),
	)

	res, err := c.runtime.Do(ctx, req)
	if err != nil {
		return nil, s3errors.NewObjectError(op, input.Bucket, input.Key, err)
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return nil, decodeAPIError(op, input.Bucket, input.Key, res)
	}
	return deserializePutObject(res), nil
}

// GetObject retrieves an object. The caller owns the returned Body and must
// close it.
func (c *Client) GetObject(ctx context.Context, input *GetObjectInput) (*GetObjectOutput, error) {
	const op = "s3.GetObject"

	if err := validateObject(input.Bucket, input.Key); err != nil {
		return nil, err
	}

	res, err := c.runtime.Do(ctx, serializeGetObject(input))
	if err != nil {
		return nil, s3errors.NewObjectError(op, input.Bucket, input.Key, err)
	}
	if res.StatusCode/100 != 2 {
		defer res.Body.Close()
		return nil, decodeAPIError(op, input.Bucket, input.Key, res)
	}
	return deserializeGetObject(res), nil
}

// HeadObject retrieves object metadata without the payload.
func (c *Client) HeadObject(ctx context.Context, input *HeadObjectInput) (*HeadObjectOutput, error) {
	const op = "s3.HeadObject"

	if err := validateObject(input.Bucket, input.Key); err != nil {
		return nil, err
	}

	res, err := c.runtime.Do(ctx, serializeHeadObject(input))
	if err != nil {
		return nil, s3errors.NewObjectError(op, input.Bucket, input.Key, err)
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return nil, decodeAPIError(op, input.Bucket, input.Key, res)
	}
	return deserializeHeadObject(res), nil
}

// DeleteObject removes an object.
func (c *Client) DeleteObject(ctx context.Context, input *DeleteObjectInput) (*DeleteObjectOutput, error) {
	const op = "s3.DeleteObject"

	if err := validateObject(input.Bucket, input.Key); err != nil {
		return nil, err
	}

	res, err := c.runtime.Do(ctx, serializeDeleteObject(input))
	if err != nil {
		return nil, s3errors.NewObjectError(op, input.Bucket, input.Key, err)
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return nil, decodeAPIError(op, input.Bucket, input.Key, res)
	}
	return &DeleteObjectOutput{}, nil
}

// CreateMultipartUpload initiates a multipart upload and returns its upload
// id.
func (c *Client) CreateMultipartUpload(ctx context.Context, input *CreateMultipartUploadInput) (*CreateMultipartUploadOutput, error) {
	const op = "s3.CreateMultipartUpload"

	if err := c.validateWrite(input.Bucket, input.Key, input.Metadata,
		input.StorageClass, input.ACL, input.ServerSideEncryption); err != nil {
		return nil, err
	}

	res, err := c.runtime.Do(ctx, serializeCreateMultipartUpload(input))
	if err != nil {
		return nil, s3errors.NewObjectError(op, input.Bucket, input.Key, err)
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return nil, decodeAPIError(op, input.Bucket, input.Key, res)
	}
	return deserializeCreateMultipartUpload(res)
}

// UploadPart uploads one part of a multipart upload.
func (c *Client) UploadPart(ctx context.Context, input *UploadPartInput) (*UploadPartOutput, error) {
	const op = "s3.UploadPart"

	if err := validateObject(input.Bucket, input.Key); err != nil {
		return nil, err
	}
	if input.PartNumber < 1 {
		return nil, s3errors.NewObjectError(op, input.Bucket, input.Key, s3errors.ErrInvalidInput).
			WithMessage("part number must be at least 1")
	}
	if input.Body == nil {
		return nil, s3errors.NewObjectError(op, input.Bucket, input.Key, s3errors.ErrInvalidInput).
			WithMessage("body is required")
	}

	req, err := serializeUploadPart(input, c.logger)
	if err != nil {
		return nil, s3errors.NewObjectError(op, input.Bucket, input.Key, err)
	}
	defer req.Body.Close()

	c.logger.DebugContext(ctx, "upload part",
		slog.String("bucket", input.Bucket),
		slog.String("key", input.Key),
		slog.String("upload_id", input.UploadID),
		slog.Int("part_number", int(input.PartNumber)),
	)

	res, err := c.runtime.Do(ctx, req)
	if err != nil {
		return nil, s3errors.NewObjectError(op, input.Bucket, input.Key, err)
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return nil, decodeAPIError(op, input.Bucket, input.Key, res)
	}
	return deserializeUploadPart(res), nil
}

// CompleteMultipartUpload assembles previously uploaded parts into the
// final object.
func (c *Client) CompleteMultipartUpload(ctx context.Context, input *CompleteMultipartUploadInput) (*CompleteMultipartUploadOutput, error) {
	const op = "s3.CompleteMultipartUpload"

	if err := validateObject(input.Bucket, input.Key); err != nil {
		return nil, err
	}
	if len(input.Parts) == 0 {
		return nil, s3errors.NewObjectError(op, input.Bucket, input.Key, s3errors.ErrInvalidInput).
			WithMessage("at least one part is required")
	}

	req, err := serializeCompleteMultipartUpload(input, c.logger)
	if err != nil {
		return nil, s3errors.NewObjectError(op, input.Bucket, input.Key, err)
	}
	defer req.Body.Close()

	res, err := c.runtime.Do(ctx, req)
	if err != nil {
		return nil, s3errors.NewObjectError(op, input.Bucket, input.Key, err)
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return nil, decodeAPIError(op, input.Bucket, input.Key, res)
	}
	return deserializeCompleteMultipartUpload(res)
}

// AbortMultipartUpload abandons a multipart upload and frees its parts.
func (c *Client) AbortMultipartUpload(ctx context.Context, input *AbortMultipartUploadInput) (*AbortMultipartUploadOutput, error) {
	const op = "s3.AbortMultipartUpload"

	if err := validateObject(input.Bucket, input.Key); err != nil {
		return nil, err
	}

	res, err := c.runtime.Do(ctx, serializeAbortMultipartUpload(input))
	if err != nil {
		return nil, s3errors.NewObjectError(op, input.Bucket, input.Key, err)
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return nil, decodeAPIError(op, input.Bucket, input.Key, res)
	}
	return &AbortMultipartUploadOutput{}, nil
}

func (c *Client) validateWrite(
	bucket, key string,
	metadata map[string]string,
	storageClass StorageClass,
	acl ObjectCannedACL,
	sse ServerSideEncryption,
) error {
	if err := validateObject(bucket, key); err != nil {
		return err
	}
	if err := validation.ValidateMetadata(metadata); err != nil {
		return err
	}
	if err := validateEnum("storage class", storageClass, storageClass.Values()); err != nil {
		return err
	}
	if err := validateEnum("ACL", acl, acl.Values()); err != nil {
		return err
	}
	return validateEnum("server-side encryption", sse, sse.Values())
}
