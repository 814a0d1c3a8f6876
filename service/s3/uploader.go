package s3

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/aws/smithy-go/ptr"
	"github.com/gabriel-vasile/mimetype"
	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/streamforge/awsclient/body"
	s3errors "github.com/streamforge/awsclient/errors"
	"github.com/streamforge/awsclient/internal/pool"
)

const (
	// MinPartSize is the service's lower bound for multipart parts
	// (except the last).
	MinPartSize = 5 * 1024 * 1024

	// DefaultPartSize is used when no part size is configured.
	DefaultPartSize = 8 * 1024 * 1024

	defaultUploadConcurrency = 5

	// sniffLen bounds how many payload bytes content-type detection looks
	// at.
	sniffLen = 512
)

// ErrMinPartSize is returned when a configured part size is below the
// service's 5MiB minimum.
var ErrMinPartSize = errors.New("s3: part size below 5MiB minimum")

// Uploader uploads a payload of any source shape, switching between a
// single PutObject and a multipart upload based on the payload's actual
// size. Unlike PutObject with an unknown-length source, the multipart path
// never materializes the whole payload: memory use is bounded by
// partSize * concurrency.
type Uploader struct {
	client      *Client
	logger      *slog.Logger
	partSize    int64
	concurrency int
}

// UploaderOption configures an Uploader.
type UploaderOption func(*Uploader) error

// WithPartSize sets the multipart part size. Values below MinPartSize are
// rejected.
func WithPartSize(size int64) UploaderOption {
	return func(u *Uploader) error {
		if size < MinPartSize {
			return ErrMinPartSize
		}
		u.partSize = size
		return nil
	}
}

// WithConcurrency sets how many parts upload in parallel.
func WithConcurrency(n int) UploaderOption {
	return func(u *Uploader) error {
		if n > 0 {
			u.concurrency = n
		}
		return nil
	}
}

// NewUploader creates an Uploader on top of an S3 client.
func NewUploader(client *Client, opts ...UploaderOption) (*Uploader, error) {
	u := &Uploader{
		client:      client,
		logger:      client.logger,
		partSize:    DefaultPartSize,
		concurrency: defaultUploadConcurrency,
	}
	for _, opt := range opts {
		if err := opt(u); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// UploadInput carries the parameters for Upload.
type UploadInput struct {
	Bucket string
	Key    string

	// Body is the payload in any source shape. Required.
	Body body.Source

	// ContentType is detected from the payload's first bytes when empty.
	ContentType string

	Metadata             map[string]string
	StorageClass         StorageClass
	ACL                  ObjectCannedACL
	ServerSideEncryption ServerSideEncryption
	SSEKMSKeyID          string
}

// UploadResult reports what Upload wrote.
type UploadResult struct {
	Key       string
	ETag      string
	VersionID string
	Size      int64
	Parts     int
}

// Upload writes the payload to bucket/key. Payloads that fit in one part go
// through PutObject; larger ones become a multipart upload whose parts are
// read sequentially from the source and sent concurrently. A failure after
// the multipart upload was initiated aborts it before returning.
func (u *Uploader) Upload(ctx context.Context, input *UploadInput) (*UploadResult, error) {
	const op = "s3.Upload"

	if input.Body == nil {
		return nil, s3errors.NewObjectError(op, input.Bucket, input.Key, s3errors.ErrInvalidInput).
			WithMessage("body is required")
	}

	ch, err := body.NewChunker(input.Body)
	if err != nil {
		return nil, s3errors.NewObjectError(op, input.Bucket, input.Key, err)
	}
	defer ch.Close()

	first := pool.Get(int(u.partSize))[:u.partSize]
	n, err := fillPart(ch, first)
	if err != nil && err != io.EOF {
		pool.Put(first)
		return nil, s3errors.NewObjectError(op, input.Bucket, input.Key, err)
	}

	contentType := input.ContentType
	if contentType == "" {
		contentType = detectContentType(first[:min(n, sniffLen)])
	}

	if err == io.EOF {
		// The whole payload fit in one part.
		defer pool.Put(first)
		return u.putSingle(ctx, input, contentType, first[:n])
	}

	return u.putMultipart(ctx, input, contentType, ch, first, n)
}

// UploadFile opens path on the given filesystem and uploads its contents.
func (u *Uploader) UploadFile(ctx context.Context, bucket, key string, fsys fs.Filesystem, path string) (*UploadResult, error) {
	src, err := body.FromFile(fsys, path)
	if err != nil {
		return nil, s3errors.NewObjectError("s3.UploadFile", bucket, key, err)
	}
	return u.Upload(ctx, &UploadInput{
		Bucket: bucket,
		Key:    key,
		Body:   src,
	})
}

func (u *Uploader) putSingle(ctx context.Context, input *UploadInput, contentType string, data []byte) (*UploadResult, error) {
	u.logger.DebugContext(ctx, "upload small payload",
		slog.String("bucket", input.Bucket),
		slog.String("key", input.Key),
		slog.Int("size", len(data)),
	)

	out, err := u.client.PutObject(ctx, &PutObjectInput{
		Bucket:               input.Bucket,
		Key:                  input.Key,
		Body:                 body.FromBytes(data),
		ContentLength:        ptr.Int64(int64(len(data))),
		ContentType:          contentType,
		Metadata:             input.Metadata,
		StorageClass:         input.StorageClass,
		ACL:                  input.ACL,
		ServerSideEncryption: input.ServerSideEncryption,
		SSEKMSKeyID:          input.SSEKMSKeyID,
	})
	if err != nil {
		return nil, err
	}
	return &UploadResult{
		Key:       input.Key,
		ETag:      out.ETag,
		VersionID: out.VersionID,
		Size:      int64(len(data)),
		Parts:     1,
	}, nil
}

func (u *Uploader) putMultipart(
	ctx context.Context,
	input *UploadInput,
	contentType string,
	ch *body.Chunker,
	first []byte,
	firstLen int,
) (*UploadResult, error) {
	const op = "s3.Upload"

	created, err := u.client.CreateMultipartUpload(ctx, &CreateMultipartUploadInput{
		Bucket:               input.Bucket,
		Key:                  input.Key,
		ContentType:          contentType,
		Metadata:             input.Metadata,
		StorageClass:         input.StorageClass,
		ACL:                  input.ACL,
		ServerSideEncryption: input.ServerSideEncryption,
		SSEKMSKeyID:          input.SSEKMSKeyID,
	})
	if err != nil {
		pool.Put(first)
		return nil, err
	}
	uploadID := created.UploadID

	u.logger.DebugContext(ctx, "multipart upload started",
		slog.String("bucket", input.Bucket),
		slog.String("key", input.Key),
		slog.String("upload_id", uploadID),
	)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		parts     []CompletedPart
		uploadErr error
		total     int64
	)
	sem := make(chan struct{}, u.concurrency)

	send := func(num int32, buf []byte, data []byte) {
		defer wg.Done()
		defer func() { <-sem }()
		defer pool.Put(buf)

		out, err := u.client.UploadPart(ctx, &UploadPartInput{
			Bucket:        input.Bucket,
			Key:           input.Key,
			UploadID:      uploadID,
			PartNumber:    num,
			Body:          body.FromBytes(data),
			ContentLength: ptr.Int64(int64(len(data))),
		})

		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			if uploadErr == nil {
				uploadErr = err
			}
			return
		}
		parts = append(parts, CompletedPart{ETag: out.ETag, PartNumber: num})
	}

	buf, n := first, firstLen
	partNum := int32(0)
	last := false
	for {
		partNum++
		total += int64(n)

		wg.Add(1)
		sem <- struct{}{}
		go send(partNum, buf, buf[:n])

		if last {
			break
		}

		mu.Lock()
		failed := uploadErr != nil
		mu.Unlock()
		if failed {
			break
		}

		buf = pool.Get(int(u.partSize))[:u.partSize]
		n, err = fillPart(ch, buf)
		if err == io.EOF {
			if n == 0 {
				pool.Put(buf)
				break
			}
			// One more (short) part to send.
			last = true
			continue
		}
		if err != nil {
			pool.Put(buf)
			mu.Lock()
			if uploadErr == nil {
				uploadErr = err
			}
			mu.Unlock()
			break
		}
	}

	wg.Wait()

	if uploadErr != nil {
		u.abort(ctx, input.Bucket, input.Key, uploadID)
		return nil, s3errors.NewObjectError(op, input.Bucket, input.Key, uploadErr)
	}

	sort.Slice(parts, func(i, j int) bool { return parts[i].PartNumber < parts[j].PartNumber })

	completed, err := u.client.CompleteMultipartUpload(ctx, &CompleteMultipartUploadInput{
		Bucket:   input.Bucket,
		Key:      input.Key,
		UploadID: uploadID,
		Parts:    parts,
	})
	if err != nil {
		u.abort(ctx, input.Bucket, input.Key, uploadID)
		return nil, err
	}

	u.logger.DebugContext(ctx, "multipart upload completed",
		slog.String("upload_id", uploadID),
		slog.Int("parts", len(parts)),
		slog.Int64("size", total),
	)

	return &UploadResult{
		Key:   input.Key,
		ETag:  completed.ETag,
		Size:  total,
		Parts: len(parts),
	}, nil
}

// abort cleans up a failed multipart upload. Cleanup errors are logged and
// dropped; the original failure is what the caller sees.
func (u *Uploader) abort(ctx context.Context, bucket, key, uploadID string) {
	_, err := u.client.AbortMultipartUpload(ctx, &AbortMultipartUploadInput{
		Bucket:   bucket,
		Key:      key,
		UploadID: uploadID,
	})
	if err != nil {
		u.logger.DebugContext(ctx, "abort multipart upload failed",
			slog.String("upload_id", uploadID),
			slog.Any("error", err),
		)
	}
}

// fillPart pulls from the chunker until buf is full or the source ends.
// It returns io.EOF alongside the final byte count.
func fillPart(ch *body.Chunker, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		chunk, err := ch.Next(len(buf) - n)
		if err == io.EOF {
			return n, io.EOF
		}
		if err != nil {
			return n, err
		}
		n += copy(buf[n:], chunk)
	}
	return n, nil
}

// detectContentType sniffs the payload head, falling back to the service
// default for empty payloads.
func detectContentType(head []byte) string {
	if len(head) == 0 {
		return "application/octet-stream"
	}
	return mimetype.Detect(head).String()
}
