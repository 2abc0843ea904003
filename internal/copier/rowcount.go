package copier

import (
	"bytes"
	"io"
)

// countingReader feeds file bytes to a COPY payload while counting rows.
//
// It caps every Read at the configured chunk size, counts newlines as
// they pass through, and when the source ends without a trailing newline
// injects one so the server accepts the final row. The injected newline
// counts as a row; a zero-byte source counts zero rows and injects
// nothing. Raw source bytes (not the injected newline) are mirrored to
// the optional digest writer.
type countingReader struct {
	src       io.Reader
	digest    io.Writer
	chunkSize int

	rows           int64
	lastByte       byte
	sawData        bool
	srcDone        bool
	pendingNewline bool
}

func newCountingReader(src io.Reader, digest io.Writer, chunkSize int) *countingReader {
	return &countingReader{
		src:       src,
		digest:    digest,
		chunkSize: chunkSize,
	}
}

func (r *countingReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.srcDone {
		return r.finish(p)
	}

	if len(p) > r.chunkSize {
		p = p[:r.chunkSize]
	}

	n, err := r.src.Read(p)
	if n > 0 {
		r.sawData = true
		r.rows += int64(bytes.Count(p[:n], []byte{'\n'}))
		r.lastByte = p[n-1]
		if r.digest != nil {
			// hash.Hash writes never fail
			r.digest.Write(p[:n])
		}
	}

	if err == io.EOF {
		r.srcDone = true
		r.pendingNewline = r.sawData && r.lastByte != '\n'
		if n > 0 {
			return n, nil
		}
		return r.finish(p)
	}
	return n, err
}

func (r *countingReader) finish(p []byte) (int, error) {
	if !r.pendingNewline {
		return 0, io.EOF
	}
	r.pendingNewline = false
	r.rows++
	p[0] = '\n'
	return 1, nil
}

// Rows returns the number of rows seen so far, including an injected
// trailing newline.
func (r *countingReader) Rows() int64 {
	return r.rows
}
