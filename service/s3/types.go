package s3

import (
	"io"
	"time"

	"github.com/streamforge/awsclient/body"
)

// StorageClass represents the storage class written with an object.
type StorageClass string

// Enum values for StorageClass, mirroring the service's definition.
const (
	StorageClassStandard           StorageClass = "STANDARD"
	StorageClassReducedRedundancy  StorageClass = "REDUCED_REDUNDANCY"
	StorageClassStandardIa         StorageClass = "STANDARD_IA"
	StorageClassOnezoneIa          StorageClass = "ONEZONE_IA"
	StorageClassIntelligentTiering StorageClass = "INTELLIGENT_TIERING"
	StorageClassGlacier            StorageClass = "GLACIER"
	StorageClassDeepArchive        StorageClass = "DEEP_ARCHIVE"
	StorageClassGlacierIr          StorageClass = "GLACIER_IR"
)

// Values returns all known values for StorageClass.
func (StorageClass) Values() []StorageClass {
	return []StorageClass{
		StorageClassStandard,
		StorageClassReducedRedundancy,
		StorageClassStandardIa,
		StorageClassOnezoneIa,
		StorageClassIntelligentTiering,
		StorageClassGlacier,
		StorageClassDeepArchive,
		StorageClassGlacierIr,
	}
}

// ObjectCannedACL represents a canned access control list.
type ObjectCannedACL string

// Enum values for ObjectCannedACL.
const (
	ObjectCannedACLPrivate                ObjectCannedACL = "private"
	ObjectCannedACLPublicRead             ObjectCannedACL = "public-read"
	ObjectCannedACLPublicReadWrite        ObjectCannedACL = "public-read-write"
	ObjectCannedACLAuthenticatedRead      ObjectCannedACL = "authenticated-read"
	ObjectCannedACLAwsExecRead            ObjectCannedACL = "aws-exec-read"
	ObjectCannedACLBucketOwnerRead        ObjectCannedACL = "bucket-owner-read"
	ObjectCannedACLBucketOwnerFullControl ObjectCannedACL = "bucket-owner-full-control"
)

// Values returns all known values for ObjectCannedACL.
func (ObjectCannedACL) Values() []ObjectCannedACL {
	return []ObjectCannedACL{
		ObjectCannedACLPrivate,
		ObjectCannedACLPublicRead,
		ObjectCannedACLPublicReadWrite,
		ObjectCannedACLAuthenticatedRead,
		ObjectCannedACLAwsExecRead,
		ObjectCannedACLBucketOwnerRead,
		ObjectCannedACLBucketOwnerFullControl,
	}
}

// ServerSideEncryption represents the server-side encryption algorithm.
type ServerSideEncryption string

// Enum values for ServerSideEncryption.
const (
	ServerSideEncryptionAes256 ServerSideEncryption = "AES256"
	ServerSideEncryptionAwsKms ServerSideEncryption = "aws:kms"
)

// Values returns all known values for ServerSideEncryption.
func (ServerSideEncryption) Values() []ServerSideEncryption {
	return []ServerSideEncryption{
		ServerSideEncryptionAes256,
		ServerSideEncryptionAwsKms,
	}
}

// PutObjectInput carries the parameters for PutObject.
type PutObjectInput struct {
	// Bucket receiving the object. Required.
	Bucket string

	// Key of the object. Required.
	Key string

	// Body is the object payload in any of its source shapes. Required.
	Body body.Source

	// ContentLength asserts the payload's byte count, bypassing intrinsic
	// size detection. Without it, sources of unknown size are buffered in
	// memory before sending.
	ContentLength *int64

	// ContentType is the object's MIME type.
	ContentType string

	// Metadata holds user-defined object metadata.
	Metadata map[string]string

	StorageClass         StorageClass
	ACL                  ObjectCannedACL
	ServerSideEncryption ServerSideEncryption

	// SSEKMSKeyID names the KMS key when ServerSideEncryption is aws:kms.
	SSEKMSKeyID string
}

// PutObjectOutput is the result of PutObject.
type PutObjectOutput struct {
	ETag      string
	VersionID string
}

// GetObjectInput carries the parameters for GetObject.
type GetObjectInput struct {
	Bucket string
	Key    string

	// Range is an HTTP byte range such as "bytes=0-1023".
	Range string
}

// GetObjectOutput is the result of GetObject. The caller owns Body and must
// close it.
type GetObjectOutput struct {
	Body          io.ReadCloser
	ContentLength int64
	ContentType   string
	ETag          string
	LastModified  time.Time
	Metadata      map[string]string
}

// HeadObjectInput carries the parameters for HeadObject.
type HeadObjectInput struct {
	Bucket string
	Key    string
}

// HeadObjectOutput is the result of HeadObject.
type HeadObjectOutput struct {
	ContentLength int64
	ContentType   string
	ETag          string
	LastModified  time.Time
	Metadata      map[string]string
}

// DeleteObjectInput carries the parameters for DeleteObject.
type DeleteObjectInput struct {
	Bucket string
	Key    string
}

// DeleteObjectOutput is the result of DeleteObject.
type DeleteObjectOutput struct{}

// CreateMultipartUploadInput carries the parameters for
// CreateMultipartUpload.
type CreateMultipartUploadInput struct {
	Bucket      string
	Key         string
	ContentType string
	Metadata    map[string]string

	StorageClass         StorageClass
	ACL                  ObjectCannedACL
	ServerSideEncryption ServerSideEncryption
	SSEKMSKeyID          string
}

// CreateMultipartUploadOutput is the result of CreateMultipartUpload.
type CreateMultipartUploadOutput struct {
	UploadID string
}

// UploadPartInput carries the parameters for UploadPart.
type UploadPartInput struct {
	Bucket     string
	Key        string
	UploadID   string
	PartNumber int32

	// Body is the part payload. Required.
	Body body.Source

	// ContentLength asserts the part's byte count.
	ContentLength *int64
}

// UploadPartOutput is the result of UploadPart.
type UploadPartOutput struct {
	ETag string
}

// CompletedPart identifies one uploaded part when completing a multipart
// upload.
type CompletedPart struct {
	ETag       string `xml:"ETag"`
	PartNumber int32  `xml:"PartNumber"`
}

// CompleteMultipartUploadInput carries the parameters for
// CompleteMultipartUpload.
type CompleteMultipartUploadInput struct {
	Bucket   string
	Key      string
	UploadID string
	Parts    []CompletedPart
}

// CompleteMultipartUploadOutput is the result of CompleteMultipartUpload.
type CompleteMultipartUploadOutput struct {
	ETag     string
	Location string
}

// AbortMultipartUploadInput carries the parameters for
// AbortMultipartUpload.
type AbortMultipartUploadInput struct {
	Bucket   string
	Key      string
	UploadID string
}

// AbortMultipartUploadOutput is the result of AbortMultipartUpload.
type AbortMultipartUploadOutput struct{}
