// Package awsclient is a hand-written AWS service client runtime.
//
// Typed service packages (see service/s3) build operation inputs, serialize
// them into HTTP requests, and decode the responses. The body package
// normalizes upload payloads of any shape (byte slices, open files,
// producer callbacks, lazy chunk sequences) into a streaming request body
// with a resolved content length, so large objects reach the wire without
// being held in memory when their size is knowable.
//
// Upload a file without buffering it:
//
//	client, err := s3.New(s3.WithRegion("eu-west-1"))
//	if err != nil {
//	    return err
//	}
//
//	src, err := body.FromFile(fsys, "backups/db.tar.gz")
//	if err != nil {
//	    return err
//	}
//
//	out, err := client.PutObject(ctx, &s3.PutObjectInput{
//	    Bucket: "my-bucket",
//	    Key:    "backups/db.tar.gz",
//	    Body:   src,
//	})
//
// Request signing, credentials, and presigned URLs are out of scope: point
// the client at an endpoint that accepts unsigned requests (a gateway or
// sidecar that signs, or an S3-compatible store with anonymous access).
package awsclient
