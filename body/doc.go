// Package body normalizes the many shapes an upload payload can take into
// a single streaming request body that a transport can drive.
//
// A caller supplies a Source built from whatever it has on hand: a byte
// slice, an open file or reader, a producer callback, or a lazy sequence of
// chunks. Build combines the source with a resolved content length into a
// RequestBody that streams the payload without materializing it, falling
// back to full in-memory buffering only when the length cannot be
// determined up front.
//
//	src, err := body.FromFile(fsys, "backups/db.tar.gz")
//	if err != nil {
//	    return err
//	}
//	rb, err := body.Build(src)
//	if err != nil {
//	    return err
//	}
//	defer rb.Close()
//
// A RequestBody is single-pass. Transports that need to resend a request
// must call Rewind first; sources that cannot be restarted report
// errors.ErrNotRewindable and the resend must be refused.
package body
