package upload

import "bytes"

var (
	crlf      = []byte("\r\n")
	lf        = []byte("\n")
	cr        = []byte("\r")
	dashes    = []byte("--")
	blankCRLF = []byte("\r\n\r\n")
	blankLF   = []byte("\n\n")
)

// partialPrefixLen returns the length of the longest suffix of buf that is a
// proper prefix of delim.
func partialPrefixLen(buf, delim []byte) int {
	for n := min(len(buf), len(delim)-1); n > 0; n-- {
		if bytes.Equal(buf[len(buf)-n:], delim[:n]) {
			return n
		}
	}
	return 0
}

// holdback returns how many trailing bytes of buf must be retained because
// they may belong to a delimiter completed by the next chunk: a partial
// delimiter plus the line terminator in front of it.
func holdback(buf, delim []byte) int {
	n := partialPrefixLen(buf, delim)
	rest := buf[:len(buf)-n]
	switch {
	case bytes.HasSuffix(rest, crlf):
		n += 2
	case bytes.HasSuffix(rest, lf):
		n++
	case n == 0 && bytes.HasSuffix(rest, cr):
		n++
	}
	return n
}

// trimLineEnd drops one trailing CRLF or LF.
func trimLineEnd(b []byte) []byte {
	if bytes.HasSuffix(b, crlf) {
		return b[:len(b)-2]
	}
	return bytes.TrimSuffix(b, lf)
}

// headerEnd locates the blank line closing a header block. It returns the
// header length and the offset of the body, or -1 when the block is incomplete.
func headerEnd(buf []byte) (int, int) {
	switch {
	case bytes.HasPrefix(buf, crlf):
		return 0, 2
	case bytes.HasPrefix(buf, lf):
		return 0, 1
	}

	i := bytes.Index(buf, blankCRLF)
	j := bytes.Index(buf, blankLF)
	switch {
	case i < 0 && j < 0:
		return -1, -1
	case j < 0 || (i >= 0 && i < j):
		return i, i + len(blankCRLF)
	default:
		return j, j + len(blankLF)
	}
}

// isTruncatedDelimiter reports whether residual is the beginning of a
// closing delimiter cut off by the end of the body. A delimiter always
// follows a line terminator, so a residual without one is part content.
func isTruncatedDelimiter(residual, delim []byte) bool {
	switch {
	case len(residual) == 0:
		return true
	case bytes.HasPrefix(residual, crlf):
		residual = residual[len(crlf):]
	case bytes.HasPrefix(residual, lf):
		residual = residual[len(lf):]
	default:
		return false
	}
	closing := append(append([]byte{}, delim...), dashes...)
	return len(residual) <= len(closing) && bytes.HasPrefix(closing, residual)
}
