// Package errors provides error types and handling for AWS client operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a failed client operation with context about where it
// failed. It wraps the underlying cause for errors.Is / errors.As chaining.
type Error struct {
	// Op is the operation that failed (e.g., "body.next", "s3.PutObject")
	Op string

	// Bucket is the S3 bucket name (if applicable)
	Bucket string

	// Key is the object key (if applicable)
	Key string

	// Err is the underlying cause
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("%s object %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewObjectError creates a new Error with bucket and key context.
func NewObjectError(op, bucket, key string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Key:    key,
		Err:    err,
	}
}

// Sentinel errors for common failures. Check with errors.Is().
var (
	// ErrInvalidContentLength indicates a negative content-length override
	ErrInvalidContentLength = errors.New("awsclient: invalid content length")

	// ErrNotRewindable indicates a request body backed by a source that
	// cannot be restarted after (partial) consumption
	ErrNotRewindable = errors.New("awsclient: request body is not rewindable")

	// ErrBodyConsumed indicates an attempt to build a second request body
	// from a source whose consumption has already been handed off
	ErrBodyConsumed = errors.New("awsclient: body source already consumed")

	// ErrSourceRead indicates the underlying body source failed while
	// being pulled
	ErrSourceRead = errors.New("awsclient: body source read failed")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("awsclient: invalid input")

	// ErrInvalidBucketName indicates that the bucket name is invalid
	ErrInvalidBucketName = errors.New("awsclient: invalid bucket name")

	// ErrInvalidObjectKey indicates that the object key is invalid
	ErrInvalidObjectKey = errors.New("awsclient: invalid object key")

	// ErrObjectNotFound indicates that the requested object does not exist
	ErrObjectNotFound = errors.New("awsclient: object not found")

	// ErrAccessDenied indicates that access to the resource is denied
	ErrAccessDenied = errors.New("awsclient: access denied")
)

// IsObjectNotFound checks if an error indicates that an object was not found.
func IsObjectNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound)
}

// IsAccessDenied checks if an error indicates access was denied.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsInvalidInput checks if an error indicates invalid input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
