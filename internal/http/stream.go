package http

import (
	"context"
	"errors"
	"io"
)

// rangeReader is an io.ReadSeekCloser over a remote file served with byte
// range support. Reads continue on one response body; a seek drops it and
// the next read requests the remainder of the file from the new offset.
type rangeReader struct {
	client *Client
	ctx    context.Context
	url    string
	size   int64
	pos    int64
	body   io.ReadCloser // nil until the next read after a seek
}

func (r *rangeReader) Read(p []byte) (int, error) {
	if r.pos >= r.size {
		return 0, io.EOF
	}
	if r.body == nil {
		resp, err := r.client.do(r.ctx, r.url, r.pos)
		if err != nil {
			return 0, err
		}
		r.body = resp.Body
	}

	n, err := r.body.Read(p)
	r.pos += int64(n)
	if err == io.EOF && r.pos < r.size {
		err = io.ErrUnexpectedEOF
	}
	return n, err
}

func (r *rangeReader) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = r.pos + offset
	case io.SeekEnd:
		abs = r.size + offset
	default:
		return 0, errors.New("http: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("http: negative position")
	}

	if abs != r.pos && r.body != nil {
		r.body.Close()
		r.body = nil
	}
	r.pos = abs
	return abs, nil
}

func (r *rangeReader) Close() error {
	if r.body == nil {
		return nil
	}
	err := r.body.Close()
	r.body = nil
	return err
}
