// Package protocol implements the wire-level details of the rest-xml
// protocol family: decoding service error responses and translating
// metadata between native maps and x-amz-meta-* headers.
package protocol

import (
	"encoding/xml"
	"io"
	"net/http"
	"strings"

	"github.com/aws/smithy-go"
)

// metadataPrefix is the header prefix for user-defined object metadata.
const metadataPrefix = "x-amz-meta-"

// errorResponse is the rest-xml error envelope returned by S3-style
// services.
type errorResponse struct {
	XMLName   xml.Name `xml:"Error"`
	Code      string   `xml:"Code"`
	Message   string   `xml:"Message"`
	RequestID string   `xml:"RequestId"`
}

// DecodeError parses a non-2xx response body into a smithy API error. When
// the body carries no parseable error envelope, a generic error derived
// from the HTTP status is returned instead so the caller always gets a
// coded error.
func DecodeError(statusCode int, r io.Reader) *smithy.GenericAPIError {
	apiErr := &smithy.GenericAPIError{
		Code:    http.StatusText(statusCode),
		Message: "no response body",
		Fault:   faultFor(statusCode),
	}

	var envelope errorResponse
	if err := xml.NewDecoder(r).Decode(&envelope); err == nil && envelope.Code != "" {
		apiErr.Code = envelope.Code
		apiErr.Message = envelope.Message
	}
	return apiErr
}

func faultFor(statusCode int) smithy.ErrorFault {
	if statusCode >= 500 {
		return smithy.FaultServer
	}
	return smithy.FaultClient
}

// MetadataToHeaders writes user metadata into h under the x-amz-meta-
// prefix.
func MetadataToHeaders(h http.Header, metadata map[string]string) {
	for k, v := range metadata {
		h.Set(metadataPrefix+strings.ToLower(k), v)
	}
}

// MetadataFromHeaders extracts user metadata from response headers. It
// returns nil when the response carries none.
func MetadataFromHeaders(h http.Header) map[string]string {
	var metadata map[string]string
	for k, vs := range h {
		lower := strings.ToLower(k)
		if !strings.HasPrefix(lower, metadataPrefix) || len(vs) == 0 {
			continue
		}
		if metadata == nil {
			metadata = make(map[string]string)
		}
		metadata[strings.TrimPrefix(lower, metadataPrefix)] = vs[0]
	}
	return metadata
}

// TrimETag strips the surrounding quotes services put on ETag values.
func TrimETag(etag string) string {
	return strings.Trim(etag, `"`)
}
