package validation

import (
	"fmt"
	"net"
	"strings"
	"unicode"

	"github.com/streamforge/awsclient/errors"
)

// ValidateBucketName validates that a bucket name is DNS-compliant
// according to AWS S3 rules.
func ValidateBucketName(bucket string) error {
	fail := func(msg string) error {
		return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
			WithBucket(bucket).
			WithMessage(msg)
	}

	if len(bucket) < 3 || len(bucket) > 63 {
		return fail("bucket name must be between 3 and 63 characters long")
	}
	for _, c := range bucket {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || c == '.' || c == '-') {
			return fail("bucket name can only contain lowercase letters, numbers, dots, and hyphens")
		}
	}
	if strings.IndexByte("-.", bucket[0]) >= 0 || strings.IndexByte("-.", bucket[len(bucket)-1]) >= 0 {
		return fail("bucket name cannot start or end with a hyphen or dot")
	}
	if strings.Contains(bucket, "..") || strings.Contains(bucket, "--") {
		return fail("bucket name cannot contain two adjacent periods or hyphens")
	}
	if net.ParseIP(bucket) != nil {
		return fail("bucket name cannot be formatted as an IP address")
	}
	return nil
}

// ValidateObjectKey validates that an object key is acceptable: non-empty,
// within the 1024-byte S3 limit, free of control characters and of path
// traversal sequences.
func ValidateObjectKey(key string) error {
	fail := func(msg string) error {
		return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
			WithKey(key).
			WithMessage(msg)
	}

	if key == "" {
		return fail("object key cannot be empty")
	}
	if len(key) > 1024 {
		return fail("object key cannot exceed 1024 bytes")
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return fail("object key cannot contain path traversal sequences")
		}
	}
	for _, c := range key {
		if unicode.IsControl(c) {
			return fail("object key cannot contain control characters")
		}
	}
	return nil
}

// ValidateMetadata validates user metadata keys and values according to S3
// rules: printable ASCII keys under 128 bytes without reserved prefixes,
// printable values under 2KB.
func ValidateMetadata(metadata map[string]string) error {
	fail := func(msg string) error {
		return errors.NewError("validateMetadata", errors.ErrInvalidInput).WithMessage(msg)
	}

	for key, value := range metadata {
		if len(key) == 0 || len(key) > 128 {
			return fail(fmt.Sprintf("metadata key %q must be between 1 and 128 bytes", key))
		}
		lower := strings.ToLower(key)
		for _, prefix := range []string{"aws:", "x-amz-"} {
			if strings.HasPrefix(lower, prefix) {
				return fail(fmt.Sprintf("metadata key %q uses reserved prefix %q", key, prefix))
			}
		}
		for _, c := range key {
			if c < 33 || c > 126 {
				return fail(fmt.Sprintf("metadata key %q must be printable ASCII without spaces", key))
			}
		}
		if len(value) > 2048 {
			return fail(fmt.Sprintf("metadata value for %q cannot exceed 2048 bytes", key))
		}
		for _, c := range value {
			if !unicode.IsPrint(c) && c != '\t' {
				return fail(fmt.Sprintf("metadata value for %q must be printable", key))
			}
		}
	}
	return nil
}
