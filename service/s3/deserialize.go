package s3

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/aws/smithy-go"

	s3errors "github.com/streamforge/awsclient/errors"
	"github.com/streamforge/awsclient/internal/protocol"
	"github.com/streamforge/awsclient/transport"
)

// decodeAPIError turns a non-2xx response into an operation error carrying
// both the service's coded API error (via errors.As) and, where the code
// maps onto one, a package sentinel (via errors.Is).
func decodeAPIError(op, bucket, key string, res *transport.Response) error {
	apiErr := protocol.DecodeError(res.StatusCode, res.Body)

	var err error = apiErr
	if sentinel := sentinelFor(apiErr, res.StatusCode); sentinel != nil {
		err = fmt.Errorf("%w: %w", sentinel, apiErr)
	}
	return s3errors.NewObjectError(op, bucket, key, err)
}

func sentinelFor(apiErr *smithy.GenericAPIError, statusCode int) error {
	switch apiErr.Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return s3errors.ErrObjectNotFound
	case "AccessDenied":
		return s3errors.ErrAccessDenied
	}
	switch statusCode {
	case http.StatusNotFound:
		return s3errors.ErrObjectNotFound
	case http.StatusForbidden:
		return s3errors.ErrAccessDenied
	}
	return nil
}

func deserializePutObject(res *transport.Response) *PutObjectOutput {
	return &PutObjectOutput{
		ETag:      protocol.TrimETag(res.Header.Get("ETag")),
		VersionID: res.Header.Get("X-Amz-Version-Id"),
	}
}

func deserializeGetObject(res *transport.Response) *GetObjectOutput {
	return &GetObjectOutput{
		Body:          res.Body,
		ContentLength: headerInt64(res.Header, "Content-Length"),
		ContentType:   res.Header.Get("Content-Type"),
		ETag:          protocol.TrimETag(res.Header.Get("ETag")),
		LastModified:  headerTime(res.Header, "Last-Modified"),
		Metadata:      protocol.MetadataFromHeaders(res.Header),
	}
}

func deserializeHeadObject(res *transport.Response) *HeadObjectOutput {
	return &HeadObjectOutput{
		ContentLength: headerInt64(res.Header, "Content-Length"),
		ContentType:   res.Header.Get("Content-Type"),
		ETag:          protocol.TrimETag(res.Header.Get("ETag")),
		LastModified:  headerTime(res.Header, "Last-Modified"),
		Metadata:      protocol.MetadataFromHeaders(res.Header),
	}
}

// initiateMultipartUploadResult is the rest-xml response payload of
// CreateMultipartUpload.
type initiateMultipartUploadResult struct {
	XMLName  xml.Name `xml:"InitiateMultipartUploadResult"`
	Bucket   string   `xml:"Bucket"`
	Key      string   `xml:"Key"`
	UploadID string   `xml:"UploadId"`
}

func deserializeCreateMultipartUpload(res *transport.Response) (*CreateMultipartUploadOutput, error) {
	var result initiateMultipartUploadResult
	if err := xml.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, s3errors.NewError("s3.CreateMultipartUpload", err).
			WithMessage("decoding response")
	}
	return &CreateMultipartUploadOutput{UploadID: result.UploadID}, nil
}

func deserializeUploadPart(res *transport.Response) *UploadPartOutput {
	return &UploadPartOutput{
		ETag: protocol.TrimETag(res.Header.Get("ETag")),
	}
}

// completeMultipartUploadResult is the rest-xml response payload of
// CompleteMultipartUpload.
type completeMultipartUploadResult struct {
	XMLName  xml.Name `xml:"CompleteMultipartUploadResult"`
	Location string   `xml:"Location"`
	Bucket   string   `xml:"Bucket"`
	Key      string   `xml:"Key"`
	ETag     string   `xml:"ETag"`
}

func deserializeCompleteMultipartUpload(res *transport.Response) (*CompleteMultipartUploadOutput, error) {
	var result completeMultipartUploadResult
	if err := xml.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, s3errors.NewError("s3.CompleteMultipartUpload", err).
			WithMessage("decoding response")
	}
	return &CompleteMultipartUploadOutput{
		ETag:     protocol.TrimETag(result.ETag),
		Location: result.Location,
	}, nil
}

func headerInt64(h http.Header, name string) int64 {
	n, err := strconv.ParseInt(h.Get(name), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func headerTime(h http.Header, name string) time.Time {
	t, err := http.ParseTime(h.Get(name))
	if err != nil {
		return time.Time{}
	}
	return t
}
