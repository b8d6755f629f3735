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

package session_test

import (
	"fmt"
	"net"
	"testing"

	"github.com/sabouaram/profile-node/logger"
	"github.com/sabouaram/profile-node/protoerr"
	"github.com/sabouaram/profile-node/session"
	"github.com/sabouaram/profile-node/wire"
)

func newTestSession(t *testing.T, role wire.Role) (*session.Session, net.Conn) {
	t.Helper()
	client, srv := net.Pipe()
	t.Cleanup(func() { _ = client.Close() })
	return session.New(1, srv, role, false, logger.New()), client
}

// TestPendingCapRejectsBeyondLimit exercises invariant 5: an insert beyond
// MaxUnfinishedRequests fails with ErrorQuotaExceeded and leaves the
// pending count unchanged. The bytes written to the pipe are drained and
// not inspected.
func TestPendingCapRejectsBeyondLimit(t *testing.T) {
	sess, client := newTestSession(t, wire.ClientCustomer)

	drain := make(chan struct{})
	go func() {
		buf := make([]byte, 4096)
		for {
			if _, err := client.Read(buf); err != nil {
				close(drain)
				return
			}
		}
	}()

	for i := 0; i < session.MaxUnfinishedRequests; i++ {
		msg := sess.Builder.NewPing([]byte{byte(i)})
		if err := sess.SendAndExpectResponse(msg, nil, nil); err != nil {
			t.Fatalf("unexpected error at %d: %v", i, err)
		}
	}

	if got := sess.PendingCount(); got != session.MaxUnfinishedRequests {
		t.Fatalf("pending count = %d, want %d", got, session.MaxUnfinishedRequests)
	}

	over := sess.Builder.NewPing([]byte("overflow"))
	err := sess.SendAndExpectResponse(over, nil, nil)
	if protoerr.CodeOf(err) != protoerr.ErrorQuotaExceeded {
		t.Fatalf("expected ErrorQuotaExceeded, got %v", err)
	}
	if got := sess.PendingCount(); got != session.MaxUnfinishedRequests {
		t.Fatalf("pending count after rejected insert = %d, want unchanged %d", got, session.MaxUnfinishedRequests)
	}
}

// TestChallengeSurvivesPromotionToAuthenticated covers the session-state
// side of invariant 7: the challenge recorded at StartConversation is
// returned unchanged before and after the status moves to Authenticated,
// so a later comparison sees the same bytes. The rule that Authenticated
// is reached only after verification is enforced by the handlers, not
// checked here.
func TestChallengeSurvivesPromotionToAuthenticated(t *testing.T) {
	sess, _ := newTestSession(t, wire.ClientCustomer)

	challenge := [32]byte{1, 2, 3}
	sess.SetChallenge(challenge)
	sess.SetStatus(wire.ConversationStarted)

	if got := sess.Challenge(); got != challenge {
		t.Fatalf("challenge = %v, want %v", got, challenge)
	}

	sess.SetStatus(wire.Authenticated)
	if sess.Status() != wire.Authenticated {
		t.Fatalf("status = %v, want Authenticated", sess.Status())
	}
	if got := sess.Challenge(); got != challenge {
		t.Fatalf("challenge after promotion = %v, want unchanged %v", got, challenge)
	}
}

// TestAddApplicationServicesIsAllOrNothing exercises invariant 8: the batch
// insert succeeds iff the resulting cardinality is strictly less than the
// cap, and on failure the existing set is left untouched.
func TestAddApplicationServicesIsAllOrNothing(t *testing.T) {
	sess, _ := newTestSession(t, wire.ClientCustomer)

	names := make([]string, session.MaxClientApplicationServices-1)
	for i := range names {
		names[i] = fmt.Sprintf("svc-%d", i)
	}
	if err := sess.AddApplicationServices(names); err != nil {
		t.Fatalf("unexpected error filling to one below cap: %v", err)
	}
	if got := len(sess.ApplicationServices()); got != len(names) {
		t.Fatalf("service count = %d, want %d", got, len(names))
	}

	err := sess.AddApplicationServices([]string{"one-more", "two-more"})
	if protoerr.CodeOf(err) != protoerr.ErrorQuotaExceeded {
		t.Fatalf("expected ErrorQuotaExceeded, got %v", err)
	}
	if got := len(sess.ApplicationServices()); got != len(names) {
		t.Fatalf("service count after rejected batch = %d, want unchanged %d", got, len(names))
	}
}

// TestCloseIsIdempotent exercises invariant 9: calling Close N times
// produces the same observable state as calling it once.
func TestCloseIsIdempotent(t *testing.T) {
	sess, client := newTestSession(t, wire.ClientCustomer)

	go func() {
		buf := make([]byte, 4096)
		for {
			if _, err := client.Read(buf); err != nil {
				return
			}
		}
	}()

	var delivered int
	_ = sess.SendAndExpectResponse(sess.Builder.NewPing(nil), nil, func(resp *wire.Message, _ interface{}) {
		delivered++
	})

	for i := 0; i < 3; i++ {
		sess.Close()
	}

	if !sess.Disposed() {
		t.Fatalf("expected session disposed after Close")
	}
	if got := sess.PendingCount(); got != 0 {
		t.Fatalf("pending count after close = %d, want 0", got)
	}
	if delivered != 1 {
		t.Fatalf("pending callback delivered %d times across 3 Close() calls, want exactly 1", delivered)
	}
}
