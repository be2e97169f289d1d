package proc

import "io"

// limitedWriter keeps at most max bytes and silently drops the rest.
// A max of 0 disables the limit.
type limitedWriter struct {
	w         io.Writer
	max       int64
	written   int64
	truncated bool
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	if lw.max <= 0 {
		written, err := lw.w.Write(p)
		lw.written += int64(written)
		return written, err
	}
	remaining := lw.max - lw.written
	if remaining <= 0 {
		lw.truncated = true
		return n, nil
	}
	if int64(n) > remaining {
		lw.truncated = true
		written, err := lw.w.Write(p[:remaining])
		lw.written += int64(written)
		return n, err // Report the full length, or the copy goroutine would fail with ErrShortWrite.
	}
	written, err := lw.w.Write(p)
	lw.written += int64(written)
	return written, err
}
