// Package upload decodes HTTP request bodies incrementally as they arrive.
//
// A Decoder is created per request from the request headers and fed the body
// in arbitrarily sized chunks. The mode is chosen from the Content-Type:
//
//   - multipart/form-data with a boundary: parts are split out as bytes
//     arrive. Plain fields are buffered in memory; file parts are streamed
//     to a Sink without being held in full.
//   - application/x-www-form-urlencoded: key=value pairs are decoded,
//     including pairs split across chunks.
//   - anything else: the whole body becomes a single file part named by the
//     X-Name and X-Filename request headers.
//
// Results are collected in Arguments, an ordered multimap where repeated
// field names keep every value. A file value becomes visible only after its
// sink handle has been closed and carries the storage reference returned by
// the sink.
//
// # Usage
//
//	d := upload.NewDecoder(upload.RequestInfo{
//		ContentType:   r.Header.Get("Content-Type"),
//		ContentLength: r.ContentLength,
//	}, sink, upload.WithLogger(log))
//
//	for {
//		n, err := r.Body.Read(buf)
//		if n > 0 {
//			if werr := d.Write(ctx, buf[:n]); werr != nil {
//				return werr
//			}
//		}
//		if err == io.EOF {
//			return d.Finish(ctx)
//		}
//		if err != nil {
//			_ = d.Abort(ctx)
//			return err
//		}
//	}
//
// The decoder finalizes the open part as soon as the declared Content-Length
// has been received, even when the closing delimiter is missing. Finish
// reports ErrTruncatedBody when the body ended early; the unfinished part is
// then discarded through Handle.Abort.
//
// # Errors
//
// Every error returned by Write or Finish is fatal: the decoder aborts the
// active sink handle and moves to StateAborted. Use errors.Is with
// ErrSinkOpen, ErrSinkWrite, ErrSinkClose, ErrNoSink, ErrTruncatedBody,
// ErrHeaderTooLarge or ErrFieldTooLarge to tell the causes apart.
//
// A Decoder is not safe for concurrent use. Independent decoders share
// nothing but the Sink, which must tolerate concurrent Open calls.
package upload
