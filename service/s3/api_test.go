package s3

import (
	"context"
	"net/http"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamforge/awsclient"
	"github.com/streamforge/awsclient/body"
	s3errors "github.com/streamforge/awsclient/errors"
	"github.com/streamforge/awsclient/internal/testutil"
	"github.com/streamforge/awsclient/transport"
)

func newTestClient(t *testing.T, mock *testutil.MockRoundTripper) *Client {
	t.Helper()
	runtime, err := awsclient.New(awsclient.WithTransport(mock))
	require.NoError(t, err)
	return NewFromClient(runtime)
}

func TestPutObject(t *testing.T) {
	mock := &testutil.MockRoundTripper{
		DoFunc: func(ctx context.Context, req *transport.Request, rec testutil.RecordedRequest) (*transport.Response, error) {
			res := testutil.Response(http.StatusOK, "")
			res.Header.Set("ETag", `"abc123"`)
			res.Header.Set("X-Amz-Version-Id", "v1")
			return res, nil
		},
	}
	client := newTestClient(t, mock)

	out, err := client.PutObject(context.Background(), &PutObjectInput{
		Bucket:       "my-bucket",
		Key:          "docs/report.pdf",
		Body:         body.FromString("pdf bytes"),
		ContentType:  "application/pdf",
		StorageClass: StorageClassStandardIa,
		Metadata:     map[string]string{"Owner": "team-a"},
	})
	require.NoError(t, err)
	assert.Equal(t, "abc123", out.ETag)
	assert.Equal(t, "v1", out.VersionID)

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPut, reqs[0].Method)
	assert.Equal(t, "/my-bucket/docs/report.pdf", reqs[0].Path)
	assert.Equal(t, "pdf bytes", string(reqs[0].Body))
	assert.True(t, reqs[0].LengthKnown)
	assert.Equal(t, int64(9), reqs[0].ContentLength)
	assert.Equal(t, "application/pdf", reqs[0].Header.Get("Content-Type"))
	assert.Equal(t, "STANDARD_IA", reqs[0].Header.Get("X-Amz-Storage-Class"))
	assert.Equal(t, "team-a", reqs[0].Header.Get("X-Amz-Meta-Owner"))
}

func TestPutObjectValidation(t *testing.T) {
	client := newTestClient(t, &testutil.MockRoundTripper{})
	ctx := context.Background()

	tests := []struct {
		name  string
		input *PutObjectInput
		check error
	}{
		{
			name:  "bad bucket",
			input: &PutObjectInput{Bucket: "AB", Key: "k", Body: body.FromString("x")},
			check: s3errors.ErrInvalidBucketName,
		},
		{
			name:  "bad key",
			input: &PutObjectInput{Bucket: "my-bucket", Key: "", Body: body.FromString("x")},
			check: s3errors.ErrInvalidObjectKey,
		},
		{
			name:  "missing body",
			input: &PutObjectInput{Bucket: "my-bucket", Key: "k"},
			check: s3errors.ErrInvalidInput,
		},
		{
			name: "reserved metadata key",
			input: &PutObjectInput{
				Bucket:   "my-bucket",
				Key:      "k",
				Body:     body.FromString("x"),
				Metadata: map[string]string{"aws:tag": "v"},
			},
			check: s3errors.ErrInvalidInput,
		},
		{
			name: "unknown storage class",
			input: &PutObjectInput{
				Bucket:       "my-bucket",
				Key:          "k",
				Body:         body.FromString("x"),
				StorageClass: StorageClass("FROZEN"),
			},
			check: s3errors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.PutObject(ctx, tt.input)
			assert.ErrorIs(t, err, tt.check)
		})
	}
}

func TestPutObjectNegativeContentLength(t *testing.T) {
	client := newTestClient(t, &testutil.MockRoundTripper{})

	bad := int64(-1)
	_, err := client.PutObject(context.Background(), &PutObjectInput{
		Bucket:        "my-bucket",
		Key:           "k",
		Body:          body.FromString("x"),
		ContentLength: &bad,
	})
	assert.ErrorIs(t, err, s3errors.ErrInvalidContentLength)
}

func TestGetObject(t *testing.T) {
	mock := &testutil.MockRoundTripper{
		DoFunc: func(ctx context.Context, req *transport.Request, rec testutil.RecordedRequest) (*transport.Response, error) {
			res := testutil.Response(http.StatusOK, "object payload")
			res.Header.Set("Content-Length", "14")
			res.Header.Set("Content-Type", "text/plain")
			res.Header.Set("ETag", `"etag-1"`)
			res.Header.Set("X-Amz-Meta-Origin", "import")
			return res, nil
		},
	}
	client := newTestClient(t, mock)

	out, err := client.GetObject(context.Background(), &GetObjectInput{
		Bucket: "my-bucket",
		Key:    "file.txt",
		Range:  "bytes=0-13",
	})
	require.NoError(t, err)
	defer out.Body.Close()

	assert.Equal(t, int64(14), out.ContentLength)
	assert.Equal(t, "text/plain", out.ContentType)
	assert.Equal(t, "etag-1", out.ETag)
	assert.Equal(t, map[string]string{"origin": "import"}, out.Metadata)

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
	assert.Equal(t, "bytes=0-13", reqs[0].Header.Get("Range"))
}

func TestGetObjectNotFound(t *testing.T) {
	const payload = `<?xml version="1.0"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message><RequestId>req-1</RequestId></Error>`
	mock := &testutil.MockRoundTripper{
		DoFunc: func(ctx context.Context, req *transport.Request, rec testutil.RecordedRequest) (*transport.Response, error) {
			return testutil.XMLResponse(http.StatusNotFound, payload), nil
		},
	}
	client := newTestClient(t, mock)

	_, err := client.GetObject(context.Background(), &GetObjectInput{
		Bucket: "my-bucket",
		Key:    "missing.txt",
	})
	require.Error(t, err)
	assert.True(t, s3errors.IsObjectNotFound(err))

	var apiErr *smithy.GenericAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "NoSuchKey", apiErr.Code)
	assert.Equal(t, "The specified key does not exist.", apiErr.Message)

	var opErr *s3errors.Error
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "s3.GetObject", opErr.Op)
	assert.Equal(t, "my-bucket", opErr.Bucket)
	assert.Equal(t, "missing.txt", opErr.Key)
}

func TestAccessDeniedMapping(t *testing.T) {
	const payload = `<Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`
	mock := &testutil.MockRoundTripper{
		DoFunc: func(ctx context.Context, req *transport.Request, rec testutil.RecordedRequest) (*transport.Response, error) {
			return testutil.XMLResponse(http.StatusForbidden, payload), nil
		},
	}
	client := newTestClient(t, mock)

	_, err := client.DeleteObject(context.Background(), &DeleteObjectInput{
		Bucket: "my-bucket",
		Key:    "locked.txt",
	})
	assert.True(t, s3errors.IsAccessDenied(err))
}

func TestHeadObject(t *testing.T) {
	mock := &testutil.MockRoundTripper{
		DoFunc: func(ctx context.Context, req *transport.Request, rec testutil.RecordedRequest) (*transport.Response, error) {
			res := testutil.Response(http.StatusOK, "")
			res.Header.Set("Content-Length", "2048")
			res.Header.Set("ETag", `"head-etag"`)
			res.Header.Set("Last-Modified", "Mon, 02 Jan 2006 15:04:05 GMT")
			return res, nil
		},
	}
	client := newTestClient(t, mock)

	out, err := client.HeadObject(context.Background(), &HeadObjectInput{
		Bucket: "my-bucket",
		Key:    "file.bin",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2048), out.ContentLength)
	assert.Equal(t, "head-etag", out.ETag)
	assert.Equal(t, 2006, out.LastModified.Year())

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodHead, reqs[0].Method)
}

func TestDeleteObject(t *testing.T) {
	mock := &testutil.MockRoundTripper{
		DoFunc: func(ctx context.Context, req *transport.Request, rec testutil.RecordedRequest) (*transport.Response, error) {
			return testutil.Response(http.StatusNoContent, ""), nil
		},
	}
	client := newTestClient(t, mock)

	_, err := client.DeleteObject(context.Background(), &DeleteObjectInput{
		Bucket: "my-bucket",
		Key:    "old.txt",
	})
	require.NoError(t, err)

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodDelete, reqs[0].Method)
	assert.Equal(t, "/my-bucket/old.txt", reqs[0].Path)
}

func TestCreateMultipartUpload(t *testing.T) {
	const payload = `<InitiateMultipartUploadResult><Bucket>my-bucket</Bucket><Key>big.bin</Key><UploadId>upload-42</UploadId></InitiateMultipartUploadResult>`
	mock := &testutil.MockRoundTripper{
		DoFunc: func(ctx context.Context, req *transport.Request, rec testutil.RecordedRequest) (*transport.Response, error) {
			return testutil.XMLResponse(http.StatusOK, payload), nil
		},
	}
	client := newTestClient(t, mock)

	out, err := client.CreateMultipartUpload(context.Background(), &CreateMultipartUploadInput{
		Bucket:      "my-bucket",
		Key:         "big.bin",
		ContentType: "application/octet-stream",
	})
	require.NoError(t, err)
	assert.Equal(t, "upload-42", out.UploadID)

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "uploads=", reqs[0].Query)
}

func TestUploadPart(t *testing.T) {
	mock := &testutil.MockRoundTripper{
		DoFunc: func(ctx context.Context, req *transport.Request, rec testutil.RecordedRequest) (*transport.Response, error) {
			res := testutil.Response(http.StatusOK, "")
			res.Header.Set("ETag", `"part-etag-2"`)
			return res, nil
		},
	}
	client := newTestClient(t, mock)

	out, err := client.UploadPart(context.Background(), &UploadPartInput{
		Bucket:     "my-bucket",
		Key:        "big.bin",
		UploadID:   "upload-42",
		PartNumber: 2,
		Body:       body.FromString("part two bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "part-etag-2", out.ETag)

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "partNumber=2&uploadId=upload-42", reqs[0].Query)
	assert.Equal(t, "part two bytes", string(reqs[0].Body))
}

func TestUploadPartValidation(t *testing.T) {
	client := newTestClient(t, &testutil.MockRoundTripper{})

	_, err := client.UploadPart(context.Background(), &UploadPartInput{
		Bucket:     "my-bucket",
		Key:        "big.bin",
		UploadID:   "upload-42",
		PartNumber: 0,
		Body:       body.FromString("x"),
	})
	assert.ErrorIs(t, err, s3errors.ErrInvalidInput)
}

func TestCompleteMultipartUpload(t *testing.T) {
	const payload = `<CompleteMultipartUploadResult><Location>https://my-bucket.s3.amazonaws.com/big.bin</Location><Bucket>my-bucket</Bucket><Key>big.bin</Key><ETag>"final-etag"</ETag></CompleteMultipartUploadResult>`
	mock := &testutil.MockRoundTripper{
		DoFunc: func(ctx context.Context, req *transport.Request, rec testutil.RecordedRequest) (*transport.Response, error) {
			return testutil.XMLResponse(http.StatusOK, payload), nil
		},
	}
	client := newTestClient(t, mock)

	out, err := client.CompleteMultipartUpload(context.Background(), &CompleteMultipartUploadInput{
		Bucket:   "my-bucket",
		Key:      "big.bin",
		UploadID: "upload-42",
		Parts: []CompletedPart{
			{ETag: "etag-1", PartNumber: 1},
			{ETag: "etag-2", PartNumber: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "final-etag", out.ETag)
	assert.Equal(t, "https://my-bucket.s3.amazonaws.com/big.bin", out.Location)

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "uploadId=upload-42", reqs[0].Query)
	assert.Equal(t, "application/xml", reqs[0].Header.Get("Content-Type"))
	assert.Contains(t, string(reqs[0].Body), "<CompleteMultipartUpload>")
	assert.Contains(t, string(reqs[0].Body), "<PartNumber>1</PartNumber>")
	assert.Contains(t, string(reqs[0].Body), "<ETag>etag-2</ETag>")
}

func TestCompleteMultipartUploadRequiresParts(t *testing.T) {
	client := newTestClient(t, &testutil.MockRoundTripper{})

	_, err := client.CompleteMultipartUpload(context.Background(), &CompleteMultipartUploadInput{
		Bucket:   "my-bucket",
		Key:      "big.bin",
		UploadID: "upload-42",
	})
	assert.ErrorIs(t, err, s3errors.ErrInvalidInput)
}

func TestAbortMultipartUpload(t *testing.T) {
	mock := &testutil.MockRoundTripper{
		DoFunc: func(ctx context.Context, req *transport.Request, rec testutil.RecordedRequest) (*transport.Response, error) {
			return testutil.Response(http.StatusNoContent, ""), nil
		},
	}
	client := newTestClient(t, mock)

	_, err := client.AbortMultipartUpload(context.Background(), &AbortMultipartUploadInput{
		Bucket:   "my-bucket",
		Key:      "big.bin",
		UploadID: "upload-42",
	})
	require.NoError(t, err)

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodDelete, reqs[0].Method)
	assert.Equal(t, "uploadId=upload-42", reqs[0].Query)
}

func TestErrorWithoutXMLBody(t *testing.T) {
	mock := &testutil.MockRoundTripper{
		DoFunc: func(ctx context.Context, req *transport.Request, rec testutil.RecordedRequest) (*transport.Response, error) {
			return testutil.Response(http.StatusNotFound, "not xml at all"), nil
		},
	}
	client := newTestClient(t, mock)

	_, err := client.HeadObject(context.Background(), &HeadObjectInput{
		Bucket: "my-bucket",
		Key:    "whatever",
	})
	// Status-based mapping still applies when the body is not decodable.
	assert.True(t, s3errors.IsObjectNotFound(err))
}
