package upload

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/dmitrymomot/streamupload/pkg/logger"
)

// sniffLen is how much of a file part is kept for content detection.
const sniffLen = 512

// partContext is the part currently being assembled.
type partContext struct {
	Part
	size  int64  // bytes forwarded for this part
	value []byte // plain field data
	sniff []byte // leading file bytes
}

// Decoder incrementally decodes one request body delivered as a sequence of
// chunks. It must be fed sequentially by a single goroutine and must not be
// shared between requests.
type Decoder struct {
	info           RequestInfo
	sink           Sink
	log            *slog.Logger
	maxHeaderBytes int
	maxFieldBytes  int64

	mode     Mode
	state    State
	boundary string
	delim    []byte // "--" + boundary
	buf      []byte // residual not yet consumed
	received int64

	part   *partContext
	handle Handle
	args   *Arguments
}

// NewDecoder returns a decoder for a request with the given headers.
// File parts are streamed to sink; sink may be nil when no files are expected.
func NewDecoder(info RequestInfo, sink Sink, opts ...Option) *Decoder {
	d := &Decoder{
		info:           info,
		sink:           sink,
		log:            slog.New(slog.DiscardHandler),
		maxHeaderBytes: DefaultMaxHeaderBytes,
		maxFieldBytes:  DefaultMaxFieldBytes,
		args:           NewArguments(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Arguments returns the decoded fields. Values appear only once their part is
// finalized.
func (d *Decoder) Arguments() *Arguments {
	return d.args
}

// State returns the current decoder state.
func (d *Decoder) State() State {
	return d.state
}

// Mode returns the decoding mode, ModeUnknown before the first chunk.
func (d *Decoder) Mode() Mode {
	return d.mode
}

// Boundary returns the resolved multipart boundary token.
func (d *Decoder) Boundary() string {
	return d.boundary
}

// Write consumes the next chunk of the body. Once the declared Content-Length
// has been received the open part is finalized without waiting for Finish.
// A returned error is fatal: the decoder is aborted.
func (d *Decoder) Write(ctx context.Context, chunk []byte) error {
	switch d.state {
	case StateAborted:
		return ErrAborted
	case StateDone:
		d.received += int64(len(chunk))
		return nil
	case StateAwaitingMode:
		d.resolveMode(ctx)
	}

	d.received += int64(len(chunk))

	var err error
	switch d.mode {
	case ModeMultipart:
		err = d.writeMultipart(ctx, chunk)
	case ModeURLEncoded:
		err = d.writeURLEncoded(ctx, chunk)
	default:
		err = d.writeRaw(ctx, chunk)
	}
	if err == nil && d.bodyComplete() {
		err = d.endOfBody(ctx)
	}
	if err != nil {
		d.fail(ctx, err)
		return err
	}
	return nil
}

// Finish signals that the body ended cleanly. When the declared
// Content-Length has not been reached the open part is discarded and
// ErrTruncatedBody is returned.
func (d *Decoder) Finish(ctx context.Context) error {
	switch d.state {
	case StateAborted:
		return ErrAborted
	case StateDone:
		return nil
	}

	if d.info.ContentLength > 0 && d.received < d.info.ContentLength {
		d.log.WarnContext(ctx, "request body truncated",
			logger.Mode(d.mode.String()),
			slog.Int64("received", d.received),
			slog.Int64("content_length", d.info.ContentLength),
		)
		_ = d.Abort(ctx)
		return ErrTruncatedBody
	}

	if err := d.endOfBody(ctx); err != nil {
		d.fail(ctx, err)
		return err
	}
	return nil
}

// Abort tears the decoder down: the active sink is aborted, the partial part
// is discarded and finalized arguments are kept. It is safe to call more than
// once and after Finish.
func (d *Decoder) Abort(ctx context.Context) error {
	if d.state == StateAborted || d.state == StateDone {
		return nil
	}

	var err error
	if d.handle != nil {
		err = d.handle.Abort(ctx)
		if err != nil {
			d.log.WarnContext(ctx, "failed to abort part sink",
				logger.Field(d.part.Name),
				logger.Error(err),
			)
		}
	}

	d.handle = nil
	d.part = nil
	d.buf = nil
	d.state = StateAborted
	return err
}

func (d *Decoder) fail(ctx context.Context, cause error) {
	d.log.ErrorContext(ctx, "upload decoding failed",
		logger.Mode(d.mode.String()),
		logger.Error(cause),
	)
	_ = d.Abort(ctx)
}

func (d *Decoder) resolveMode(ctx context.Context) {
	ct := d.info.ContentType

	if boundary, ok := ResolveBoundary(ct); ok {
		d.mode = ModeMultipart
		d.boundary = boundary
		d.delim = append([]byte("--"), boundary...)
		d.state = StateAwaitingBoundary
		return
	}

	if isURLEncoded(ct) {
		d.mode = ModeURLEncoded
		d.state = StateBetweenParts
		return
	}

	if isMultipart(ct) {
		d.log.WarnContext(ctx, "multipart request without boundary, decoding body as a single file",
			slog.String("content_type", ct),
		)
	}
	d.mode = ModeRaw
	d.state = StateBetweenParts
}

func (d *Decoder) bodyComplete() bool {
	return d.info.ContentLength > 0 && d.received >= d.info.ContentLength
}

// endOfBody finalizes whatever is pending once no more bytes will arrive.
func (d *Decoder) endOfBody(ctx context.Context) error {
	switch d.mode {
	case ModeURLEncoded:
		d.addQuery(ctx, d.buf)
	case ModeMultipart:
		switch d.state {
		case StateInPartBody:
			if !isTruncatedDelimiter(d.buf, d.delim) {
				if err := d.emit(ctx, d.buf); err != nil {
					return err
				}
			}
		case StateInPartHeader:
			d.log.WarnContext(ctx, "body ended inside a part header block")
		}
	}

	if d.part != nil {
		if err := d.finalizePart(ctx); err != nil {
			return err
		}
	}

	d.buf = nil
	d.state = StateDone
	return nil
}

func (d *Decoder) writeMultipart(ctx context.Context, chunk []byte) error {
	d.buf = append(d.buf, chunk...)
	for {
		more, err := d.step(ctx)
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}
	// Keep only the residual; drop the consumed prefix of the backing array.
	d.buf = bytes.Clone(d.buf)
	return nil
}

// step advances the multipart state machine by one transition and reports
// whether further progress is possible with the buffered bytes.
func (d *Decoder) step(ctx context.Context) (bool, error) {
	switch d.state {
	case StateAwaitingBoundary:
		i := bytes.Index(d.buf, d.delim)
		if i < 0 {
			d.buf = d.buf[len(d.buf)-partialPrefixLen(d.buf, d.delim):]
			return false, nil
		}
		d.buf = d.buf[i+len(d.delim):]
		d.state = StateBetweenParts
		return true, nil

	case StateBetweenParts:
		if len(d.buf) < 2 {
			return false, nil
		}
		if bytes.HasPrefix(d.buf, dashes) {
			d.buf = nil
			d.state = StateDone
			return false, nil
		}
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			if len(d.buf) > d.maxHeaderBytes {
				return false, ErrHeaderTooLarge
			}
			return false, nil
		}
		d.buf = d.buf[i+1:]
		d.state = StateInPartHeader
		return true, nil

	case StateInPartHeader:
		n, body := headerEnd(d.buf)
		if n < 0 {
			if len(d.buf) > d.maxHeaderBytes {
				return false, ErrHeaderTooLarge
			}
			return false, nil
		}
		if n > d.maxHeaderBytes {
			return false, ErrHeaderTooLarge
		}
		part := ParsePartHeader(d.buf[:n])
		d.buf = d.buf[body:]
		if err := d.openPart(ctx, part); err != nil {
			return false, err
		}
		d.state = StateInPartBody
		return true, nil

	case StateInPartBody:
		i := bytes.Index(d.buf, d.delim)
		if i < 0 {
			keep := holdback(d.buf, d.delim)
			if err := d.emit(ctx, d.buf[:len(d.buf)-keep]); err != nil {
				return false, err
			}
			d.buf = d.buf[len(d.buf)-keep:]
			return false, nil
		}
		if err := d.emit(ctx, trimLineEnd(d.buf[:i])); err != nil {
			return false, err
		}
		if err := d.finalizePart(ctx); err != nil {
			return false, err
		}
		d.buf = d.buf[i+len(d.delim):]
		d.state = StateBetweenParts
		return true, nil
	}

	return false, nil
}

func (d *Decoder) writeRaw(ctx context.Context, chunk []byte) error {
	if d.part == nil {
		part := Part{
			Name:        d.info.FieldName,
			Filename:    d.info.Filename,
			ContentType: d.info.ContentType,
		}
		if part.Name == "" {
			part.Name = DefaultFieldName
		}
		if part.Filename == "" {
			part.Filename = DefaultFilename
		}
		if err := d.openPart(ctx, part); err != nil {
			return err
		}
		d.state = StateInPartBody
	}
	return d.emit(ctx, chunk)
}

func (d *Decoder) writeURLEncoded(ctx context.Context, chunk []byte) error {
	d.buf = append(d.buf, chunk...)

	i := bytes.LastIndexByte(d.buf, '&')
	if i < 0 {
		if int64(len(d.buf)) > d.maxFieldBytes {
			return ErrFieldTooLarge
		}
		return nil
	}

	d.addQuery(ctx, d.buf[:i])
	d.buf = bytes.Clone(d.buf[i+1:])
	return nil
}

// addQuery decodes complete k=v pairs. Pairs that fail percent-decoding are
// skipped; blank values are kept.
func (d *Decoder) addQuery(ctx context.Context, query []byte) {
	for _, pair := range strings.Split(string(query), "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err == nil {
			v, err = url.QueryUnescape(v)
		}
		if err != nil {
			d.log.DebugContext(ctx, "skipping malformed form pair", logger.Error(err))
			continue
		}
		d.args.Add(key, RawValue([]byte(v)))
	}
}

// openPart starts a new part, finalizing a still open one first.
func (d *Decoder) openPart(ctx context.Context, part Part) error {
	if d.part != nil {
		if err := d.finalizePart(ctx); err != nil {
			return err
		}
	}

	if part.IsFile() {
		if d.sink == nil {
			return ErrNoSink
		}
		h, err := d.sink.Open(ctx, part)
		if err != nil {
			return errors.Join(ErrSinkOpen, err)
		}
		d.handle = h
	}

	d.part = &partContext{Part: part}
	d.log.DebugContext(ctx, "part opened",
		logger.Field(part.Name),
		logger.Filename(part.Filename),
	)
	return nil
}

// emit forwards body bytes of the open part.
func (d *Decoder) emit(ctx context.Context, p []byte) error {
	if len(p) == 0 || d.part == nil {
		return nil
	}

	if d.handle != nil {
		if err := d.handle.Write(ctx, p); err != nil {
			return errors.Join(ErrSinkWrite, err)
		}
		if n := sniffLen - len(d.part.sniff); n > 0 {
			d.part.sniff = append(d.part.sniff, p[:min(n, len(p))]...)
		}
	} else {
		if int64(len(d.part.value)+len(p)) > d.maxFieldBytes {
			return ErrFieldTooLarge
		}
		d.part.value = append(d.part.value, p...)
	}

	d.part.size += int64(len(p))
	return nil
}

// finalizePart closes the sink and publishes the part. A file becomes
// visible in the arguments only after its sink is closed.
func (d *Decoder) finalizePart(ctx context.Context) error {
	p, h := d.part, d.handle
	d.part, d.handle = nil, nil

	if h == nil {
		d.args.Add(p.Name, RawValue(p.value))
		return nil
	}

	ref, err := h.Close(ctx)
	if err != nil {
		return errors.Join(ErrSinkClose, err)
	}

	f := File{
		Name:        p.Name,
		Filename:    p.Filename,
		ContentType: p.ContentType,
		Size:        p.size,
		Reference:   ref,
	}
	if len(p.sniff) > 0 {
		f.DetectedType = mimetype.Detect(p.sniff).String()
	}
	d.args.Add(p.Name, FileValue(f))
	d.log.DebugContext(ctx, "file part stored",
		logger.Field(p.Name),
		logger.Filename(p.Filename),
		logger.Size(p.size),
		logger.Reference(ref),
	)
	return nil
}
