package ppm

// isSpace reports whether b is header whitespace. The format uses the
// ASCII classification only.
func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// findIndex returns the first index at or after start where pred
// holds, or -1 when the buffer is exhausted first.
func findIndex(buf []byte, start int, pred func(byte) bool) int {
	for i := start; i < len(buf); i++ {
		if pred(buf[i]) {
			return i
		}
	}
	return -1
}

// contentStart returns the index of the first non-whitespace byte at
// or after skip. A '#' starts a comment running to the next newline;
// consecutive comment lines are all skipped. Returns -1 when only
// whitespace and comments remain, which is how the end of an image
// sequence is detected.
func contentStart(buf []byte, skip int) int {
	skip = findIndex(buf, skip, func(b byte) bool { return !isSpace(b) })
	for skip != -1 && buf[skip] == '#' {
		skip = findIndex(buf, skip+1, func(b byte) bool { return b == '\n' })
		if skip == -1 {
			return -1
		}
		skip = findIndex(buf, skip+1, func(b byte) bool { return !isSpace(b) })
	}
	return skip
}

// contentEnd returns the index of the first token boundary, whitespace
// or a comment marker, at or after start. Returns -1 when the token
// runs to the end of the buffer with no terminator.
func contentEnd(buf []byte, start int) int {
	return findIndex(buf, start, func(b byte) bool { return isSpace(b) || b == '#' })
}
