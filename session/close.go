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

import "github.com/sabouaram/profile-node/logger"

// Close tears the connection down exactly once: it closes the underlying
// socket, drains any pending outbound requests (delivering nil responses
// to their callbacks so callers don't hang), and notifies the relay peer
// if one is attached. Safe to call from multiple goroutines and multiple
// times: close is idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.disposed = true
		relay := s.relay
		s.mu.Unlock()

		_ = s.conn.Close()

		for _, e := range s.TakeAllPending() {
			if e.Callback != nil {
				e.Callback(nil, e.Context)
			}
		}

		if relay != nil {
			relay.DisconnectPeer(s)
		}
	})
}

// Disposed reports whether Close has run.
func (s *Session) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// HandleDisconnect is the read loop's notification that the peer closed (or
// an unrecoverable read error occurred). It logs at debug level and tears
// the session down; it never returns an error since there is no peer left
// to report one to.
func (s *Session) HandleDisconnect(log logger.Logger, cause error) {
	if log != nil {
		fields := logger.Fields{"session_id": s.ID, "remote": s.RemoteEndpoint}
		if cause != nil {
			fields["cause"] = cause.Error()
		}
		log.Debug("session disconnected", fields)
	}
	s.Close()
}
