package httpupload

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrymomot/streamupload/pkg/logger"
	"github.com/dmitrymomot/streamupload/pkg/upload"
)

// Request headers naming the implicit part of a raw body.
const (
	HeaderName     = "X-Name"
	HeaderFilename = "X-Filename"
)

// InfoFromRequest collects the headers the decoder depends on.
func InfoFromRequest(r *http.Request) upload.RequestInfo {
	return upload.RequestInfo{
		ContentType:   r.Header.Get("Content-Type"),
		ContentLength: r.ContentLength,
		FieldName:     r.Header.Get(HeaderName),
		Filename:      r.Header.Get(HeaderFilename),
	}
}

// Decode streams the request body through a new decoder and returns the
// decoded arguments. On error the arguments finalized so far are returned
// alongside it and every open sink handle has been aborted.
//
// Reading stops once the decoder is done, so bytes after the closing
// delimiter or beyond Content-Length are never read.
func Decode(ctx context.Context, r *http.Request, sink upload.Sink, opts ...Option) (*upload.Arguments, error) {
	o := newOptions(opts)
	return decode(ctx, r, sink, o)
}

func decode(ctx context.Context, r *http.Request, sink upload.Sink, o *options) (*upload.Arguments, error) {
	decoderOpts := append([]upload.Option{upload.WithLogger(o.log)}, o.decoderOpts...)
	d := upload.NewDecoder(InfoFromRequest(r), sink, decoderOpts...)

	if r.Body == nil || r.Body == http.NoBody {
		return d.Arguments(), d.Finish(ctx)
	}

	if o.maxBodyBytes > 0 && r.ContentLength > o.maxBodyBytes {
		return d.Arguments(), ErrBodyTooLarge
	}
	body := io.Reader(r.Body)
	if o.maxBodyBytes > 0 {
		body = io.LimitReader(r.Body, o.maxBodyBytes+1)
	}

	// Sink teardown must outlive a canceled request context.
	abort := func() {
		if err := d.Abort(context.WithoutCancel(ctx)); err != nil {
			o.log.WarnContext(ctx, "failed to abort upload", logger.Error(err))
		}
	}

	var (
		buf  = make([]byte, o.chunkSize)
		read int64
	)
	for d.State() != upload.StateDone {
		if err := ctx.Err(); err != nil {
			abort()
			return d.Arguments(), err
		}

		n, rerr := body.Read(buf)
		read += int64(n)
		if o.maxBodyBytes > 0 && read > o.maxBodyBytes {
			abort()
			return d.Arguments(), ErrBodyTooLarge
		}
		if n > 0 {
			if err := d.Write(ctx, buf[:n]); err != nil {
				return d.Arguments(), err
			}
		}

		switch {
		case errors.Is(rerr, io.EOF):
			return d.Arguments(), d.Finish(ctx)
		case rerr != nil:
			abort()
			return d.Arguments(), errors.Join(ErrReadBody, rerr)
		}
	}

	return d.Arguments(), nil
}
