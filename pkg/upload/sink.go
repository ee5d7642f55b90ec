package upload

import "context"

// Part describes a part as declared by its header block.
type Part struct {
	Name        string
	Filename    string
	ContentType string
}

// IsFile reports whether the part carries a file. An empty filename is
// treated the same as an absent one.
func (p Part) IsFile() bool {
	return p.Filename != ""
}

// Sink allocates destinations for file parts.
// Implementations must be safe for concurrent use by independent decoders.
type Sink interface {
	// Open allocates a destination for the part and returns its handle.
	Open(ctx context.Context, part Part) (Handle, error)
}

// Handle is a single open destination. The decoder owns it exclusively and
// calls exactly one of Close or Abort.
type Handle interface {
	// Write appends p in full or fails. Implementations must not retain p.
	Write(ctx context.Context, p []byte) error
	// Close finalizes the destination and returns its storage reference.
	Close(ctx context.Context) (string, error)
	// Abort releases the destination and discards what was written, best-effort.
	Abort(ctx context.Context) error
}
