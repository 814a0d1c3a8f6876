// Package pool provides buffer pooling to reduce allocations on the
// streaming hot path. Buffers come in two size classes, one for chunk
// scratch space and one sized to a default multipart part.
package pool
