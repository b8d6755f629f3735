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

package wire_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/sabouaram/profile-node/wire"
)

// oneByteReader forces ReadFrame through its resumable partial-read path by
// never returning more than one byte per Read call.
type oneByteReader struct {
	data []byte
	pos  int
}

func (r *oneByteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	p[0] = r.data[r.pos]
	r.pos++
	return 1, nil
}

func TestWriteFrameThenReadFrameRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	if err := w.WriteFrame([]byte("hello")); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	r := wire.NewReader(&buf)
	body, outcome, err := r.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if outcome != wire.ReadOK {
		t.Fatalf("outcome = %v, want ReadOK", outcome)
	}
	if string(body) != "hello" {
		t.Fatalf("body = %q, want %q", body, "hello")
	}
}

func TestReadFrameResumesAcrossShortReads(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	if err := w.WriteFrame([]byte("a longer body than one byte")); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	r := wire.NewReader(&oneByteReader{data: buf.Bytes()})
	body, outcome, err := r.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if outcome != wire.ReadOK {
		t.Fatalf("outcome = %v, want ReadOK", outcome)
	}
	if string(body) != "a longer body than one byte" {
		t.Fatalf("body = %q", body)
	}
}

func TestReadFrameRejectsBadMarker(t *testing.T) {
	hdr := make([]byte, wire.HeaderSize)
	hdr[0] = 0xFF
	binary.LittleEndian.PutUint32(hdr[1:5], 0)

	r := wire.NewReader(bytes.NewReader(hdr))
	_, outcome, err := r.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if outcome != wire.ReadProtocolViolation {
		t.Fatalf("outcome = %v, want ReadProtocolViolation", outcome)
	}
}

func TestReadFrameRejectsOversizeBody(t *testing.T) {
	hdr := make([]byte, wire.HeaderSize)
	hdr[0] = wire.Marker
	binary.LittleEndian.PutUint32(hdr[1:5], wire.MaxFrameSize)

	r := wire.NewReader(bytes.NewReader(hdr))
	_, outcome, err := r.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if outcome != wire.ReadProtocolViolation {
		t.Fatalf("outcome = %v, want ReadProtocolViolation", outcome)
	}
}

func TestEncodeDecodePingRoundTrips(t *testing.T) {
	b := wire.NewBuilder(wire.ClientCustomer)
	msg := b.NewPing([]byte("ping-payload"))

	body, err := wire.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := wire.Decode(body)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Kind != wire.KindSingleRequest {
		t.Fatalf("Kind = %v, want KindSingleRequest", decoded.Kind)
	}
	payload, ok := decoded.Single.Body.(*wire.PingRequest)
	if !ok {
		t.Fatalf("Body type = %T, want *wire.PingRequest", decoded.Single.Body)
	}
	if string(payload.Payload) != "ping-payload" {
		t.Fatalf("Payload = %q", payload.Payload)
	}
}

func TestMessageIDsStayInsideRolesDisjointSpace(t *testing.T) {
	a := wire.NewBuilder(wire.ClientCustomer)
	b := wire.NewBuilder(wire.ServerNeighbor)

	idA := a.NextID()
	idB := b.NextID()

	if idA>>24 == idB>>24 {
		t.Fatalf("expected disjoint role bases, got %#x and %#x", idA, idB)
	}
}
