/*
 * MIT License
 *
 * Copyright (c) 2026 Profile Node Contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package wire

import (
	"encoding/binary"
	"errors"
	"io"
	"sync"
)

// ReadOutcome classifies how ReadFrame ended.
type ReadOutcome uint8

const (
	ReadOK ReadOutcome = iota
	ReadClosed
	ReadProtocolViolation
)

// readState is the two explicit states a partial read can be resumed from.
type readState uint8

const (
	stateReadingHeader readState = iota
	stateReadingBody
)

// Reader reads one message at a time off a stream, resuming a short read
// from the correct offset. It is not safe for concurrent use by more than
// one goroutine; reads are strictly serial per session.
type Reader struct {
	r    io.Reader
	st   readState
	buf  []byte // HeaderSize bytes, reused; body length decoded from buf[1:5]
	body []byte
	off  int
}

// NewReader returns a frame Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		r:   r,
		st:  stateReadingHeader,
		buf: make([]byte, HeaderSize),
	}
}

// ReadFrame reads exactly one framed message body (without the header) and
// classifies the outcome.
func (fr *Reader) ReadFrame() (body []byte, outcome ReadOutcome, err error) {
	for {
		switch fr.st {
		case stateReadingHeader:
			n, rerr := fr.r.Read(fr.buf[fr.off:HeaderSize])
			if n > 0 {
				fr.off += n
			}
			if rerr != nil {
				if fr.off == 0 && errors.Is(rerr, io.EOF) {
					return nil, ReadClosed, nil
				}
				return nil, ReadClosed, rerr
			}
			if n == 0 {
				return nil, ReadClosed, nil
			}
			if fr.off < HeaderSize {
				continue
			}

			if fr.buf[0] != Marker {
				fr.reset()
				return nil, ReadProtocolViolation, nil
			}

			bodyLen := binary.LittleEndian.Uint32(fr.buf[1:5])
			if uint64(bodyLen)+HeaderSize > MaxFrameSize {
				fr.reset()
				return nil, ReadProtocolViolation, nil
			}

			fr.st = stateReadingBody
			fr.off = 0
			fr.body = make([]byte, bodyLen)

		case stateReadingBody:
			if len(fr.body) == 0 {
				fr.reset()
				return fr.body, ReadOK, nil
			}
			n, rerr := fr.r.Read(fr.body[fr.off:])
			if n > 0 {
				fr.off += n
			}
			if rerr != nil {
				return nil, ReadClosed, rerr
			}
			if n == 0 {
				return nil, ReadClosed, nil
			}
			if fr.off < len(fr.body) {
				continue
			}
			b := fr.body
			fr.reset()
			return b, ReadOK, nil
		}
	}
}

func (fr *Reader) reset() {
	fr.st = stateReadingHeader
	fr.off = 0
	fr.body = nil
}

// Writer serializes frames under a single mutex so concurrent writers on
// one stream never interleave.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter returns a frame Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteFrame writes one already-serialized message body as a complete
// frame (marker + length + body).
func (fw *Writer) WriteFrame(body []byte) error {
	if uint64(len(body))+HeaderSize > MaxFrameSize {
		return errors.New("wire: body exceeds max frame size")
	}

	hdr := make([]byte, HeaderSize)
	hdr[0] = Marker
	binary.LittleEndian.PutUint32(hdr[1:5], uint32(len(body)))

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if _, err := fw.w.Write(hdr); err != nil {
		return err
	}
	if len(body) > 0 {
		if _, err := fw.w.Write(body); err != nil {
			return err
		}
	}
	return nil
}

// WriteMessage encodes msg and writes it as a frame.
func (fw *Writer) WriteMessage(msg *Message) error {
	body, err := Encode(msg)
	if err != nil {
		return err
	}
	return fw.WriteFrame(body)
}
