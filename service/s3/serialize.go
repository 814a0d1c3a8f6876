package s3

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/streamforge/awsclient/body"
	s3errors "github.com/streamforge/awsclient/errors"
	"github.com/streamforge/awsclient/internal/protocol"
	"github.com/streamforge/awsclient/internal/validation"
	"github.com/streamforge/awsclient/transport"
)

// objectPath builds the path-style request path for an object.
func objectPath(bucket, key string) string {
	return "/" + bucket + "/" + key
}

func validateObject(bucket, key string) error {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return err
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return err
	}
	return nil
}

func validateEnum[T ~string](name string, v T, known []T) error {
	if v == "" {
		return nil
	}
	for _, k := range known {
		if v == k {
			return nil
		}
	}
	return s3errors.NewError("validateEnum", s3errors.ErrInvalidInput).
		WithMessage(fmt.Sprintf("invalid %s %q", name, string(v)))
}

// writeCommonHeaders sets the headers shared by PutObject and
// CreateMultipartUpload.
func writeCommonHeaders(
	h http.Header,
	contentType string,
	metadata map[string]string,
	storageClass StorageClass,
	acl ObjectCannedACL,
	sse ServerSideEncryption,
	kmsKeyID string,
) {
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	if storageClass != "" {
		h.Set("X-Amz-Storage-Class", string(storageClass))
	}
	if acl != "" {
		h.Set("X-Amz-Acl", string(acl))
	}
	if sse != "" {
		h.Set("X-Amz-Server-Side-Encryption", string(sse))
		if sse == ServerSideEncryptionAwsKms && kmsKeyID != "" {
			h.Set("X-Amz-Server-Side-Encryption-Aws-Kms-Key-Id", kmsKeyID)
		}
	}
	protocol.MetadataToHeaders(h, metadata)
}

func serializePutObject(input *PutObjectInput, logger *slog.Logger) (*transport.Request, error) {
	opts := []body.BuildOption{body.WithLogger(logger)}
	if input.ContentLength != nil {
		opts = append(opts, body.WithContentLength(*input.ContentLength))
	}
	rb, err := body.Build(input.Body, opts...)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	writeCommonHeaders(header, input.ContentType, input.Metadata,
		input.StorageClass, input.ACL, input.ServerSideEncryption, input.SSEKMSKeyID)

	return &transport.Request{
		Method: http.MethodPut,
		Path:   objectPath(input.Bucket, input.Key),
		Header: header,
		Body:   rb,
	}, nil
}

func serializeGetObject(input *GetObjectInput) *transport.Request {
	header := http.Header{}
	if input.Range != "" {
		header.Set("Range", input.Range)
	}
	return &transport.Request{
		Method: http.MethodGet,
		Path:   objectPath(input.Bucket, input.Key),
		Header: header,
	}
}

func serializeHeadObject(input *HeadObjectInput) *transport.Request {
	return &transport.Request{
		Method: http.MethodHead,
		Path:   objectPath(input.Bucket, input.Key),
	}
}

func serializeDeleteObject(input *DeleteObjectInput) *transport.Request {
	return &transport.Request{
		Method: http.MethodDelete,
		Path:   objectPath(input.Bucket, input.Key),
	}
}

func serializeCreateMultipartUpload(input *CreateMultipartUploadInput) *transport.Request {
	header := http.Header{}
	writeCommonHeaders(header, input.ContentType, input.Metadata,
		input.StorageClass, input.ACL, input.ServerSideEncryption, input.SSEKMSKeyID)

	query := url.Values{}
	query.Set("uploads", "")

	return &transport.Request{
		Method: http.MethodPost,
		Path:   objectPath(input.Bucket, input.Key),
		Query:  query,
		Header: header,
	}
}

func serializeUploadPart(input *UploadPartInput, logger *slog.Logger) (*transport.Request, error) {
	opts := []body.BuildOption{body.WithLogger(logger)}
	if input.ContentLength != nil {
		opts = append(opts, body.WithContentLength(*input.ContentLength))
	}
	rb, err := body.Build(input.Body, opts...)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("partNumber", strconv.Itoa(int(input.PartNumber)))
	query.Set("uploadId", input.UploadID)

	return &transport.Request{
		Method: http.MethodPut,
		Path:   objectPath(input.Bucket, input.Key),
		Query:  query,
		Body:   rb,
	}, nil
}

// completeMultipartUploadBody is the rest-xml request payload for
// CompleteMultipartUpload.
type completeMultipartUploadBody struct {
	XMLName xml.Name        `xml:"CompleteMultipartUpload"`
	Parts   []CompletedPart `xml:"Part"`
}

func serializeCompleteMultipartUpload(input *CompleteMultipartUploadInput, logger *slog.Logger) (*transport.Request, error) {
	payload, err := xml.Marshal(completeMultipartUploadBody{Parts: input.Parts})
	if err != nil {
		return nil, s3errors.NewError("s3.CompleteMultipartUpload", err)
	}
	payload = append([]byte(xml.Header), payload...)

	rb, err := body.Build(body.FromBytes(payload), body.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("uploadId", input.UploadID)

	header := http.Header{}
	header.Set("Content-Type", "application/xml")

	return &transport.Request{
		Method: http.MethodPost,
		Path:   objectPath(input.Bucket, input.Key),
		Query:  query,
		Header: header,
		Body:   rb,
	}, nil
}

func serializeAbortMultipartUpload(input *AbortMultipartUploadInput) *transport.Request {
	query := url.Values{}
	query.Set("uploadId", input.UploadID)

	return &transport.Request{
		Method: http.MethodDelete,
		Path:   objectPath(input.Bucket, input.Key),
		Query:  query,
	}
}
