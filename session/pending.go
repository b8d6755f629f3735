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

package session

import (
	"github.com/sabouaram/profile-node/protoerr"
	"github.com/sabouaram/profile-node/wire"
)

// SendMessage writes msg on the session's single writer, serializing against
// any concurrent writer on this connection.
func (s *Session) SendMessage(msg *wire.Message) error {
	return s.writer.WriteMessage(msg)
}

// SendAndExpectResponse registers a pending entry for msg.ID before writing
// it, so a response arriving on the read loop can be correlated back to
// ctx/cb. It fails ErrorQuotaExceeded without writing anything once the
// session already has MaxUnfinishedRequests outstanding; if
// the write itself fails, the pending entry is removed before the error is
// returned so the map never accumulates dead entries.
func (s *Session) SendAndExpectResponse(msg *wire.Message, ctx interface{}, cb func(resp *wire.Message, ctx interface{})) error {
	s.pendingMu.Lock()
	if len(s.pending) >= MaxUnfinishedRequests {
		s.pendingMu.Unlock()
		return protoerr.New(protoerr.ErrorQuotaExceeded)
	}
	s.pending[msg.ID] = &PendingEntry{Request: msg, Context: ctx, Callback: cb}
	s.pendingMu.Unlock()

	if err := s.writer.WriteMessage(msg); err != nil {
		s.pendingMu.Lock()
		delete(s.pending, msg.ID)
		s.pendingMu.Unlock()
		return err
	}
	return nil
}

// TakePending removes and returns the pending entry for id, if any. The
// read loop calls this when a Response frame arrives; a miss (ok == false)
// means the response is unsolicited and should be treated as a protocol
// violation.
func (s *Session) TakePending(id uint32) (*PendingEntry, bool) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	e, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
	}
	return e, ok
}

// TakeAllPending drains every pending entry, for use when the connection is
// torn down and any outstanding callers must be unblocked/notified rather
// than left waiting forever.
func (s *Session) TakeAllPending() []*PendingEntry {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	out := make([]*PendingEntry, 0, len(s.pending))
	for id, e := range s.pending {
		out = append(out, e)
		delete(s.pending, id)
	}
	return out
}

// PendingCount reports how many requests are outstanding.
func (s *Session) PendingCount() int {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	return len(s.pending)
}
