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

// These tests exercise the two end-to-end scenarios spec.md calls out as
// concrete literal-value scenarios: a Ping echo on any role, and a
// ListRoles request rejected ErrorBadRole on a role that does not carry
// the Primary flag. Importing handlers (rather than registering test-only
// stub entries) runs the real roster so the test catches roster wiring
// regressions too.
package engine_test

import (
	"net"
	"testing"
	"time"

	"github.com/sabouaram/profile-node/engine"
	_ "github.com/sabouaram/profile-node/handlers"
	"github.com/sabouaram/profile-node/logger"
	"github.com/sabouaram/profile-node/protoerr"
	"github.com/sabouaram/profile-node/session"
	"github.com/sabouaram/profile-node/wire"
)

func newTestSession(t *testing.T, role wire.Role) *session.Session {
	t.Helper()
	client, srv := net.Pipe()
	t.Cleanup(func() { _ = client.Close() })
	return session.New(1, srv, role, false, logger.New())
}

func TestPingEchoesPayloadAndClock(t *testing.T) {
	sess := newTestSession(t, wire.Primary)
	hc := &engine.Context{Log: logger.New()}

	before := time.Now().UnixMilli()
	req := sess.Builder.NewPing([]byte{0x01, 0x02, 0x03})
	resp, outcome := engine.Dispatch(hc, sess, req)
	after := time.Now().UnixMilli()

	if outcome != session.KeepOpen {
		t.Fatalf("outcome = %v, want KeepOpen", outcome)
	}
	if resp == nil || resp.Response == nil {
		t.Fatalf("expected a response")
	}
	if protoerr.CodeError(resp.Response.Status) != protoerr.Ok {
		t.Fatalf("status = %v, want Ok", protoerr.CodeError(resp.Response.Status))
	}

	body, ok := resp.Response.Body.(*wire.PingResponse)
	if !ok {
		t.Fatalf("body type = %T, want *wire.PingResponse", resp.Response.Body)
	}
	if string(body.Payload) != "\x01\x02\x03" {
		t.Fatalf("payload = %q, want \\x01\\x02\\x03", body.Payload)
	}
	if body.ClockMs < before || body.ClockMs > after {
		t.Fatalf("clock %d not within [%d, %d]", body.ClockMs, before, after)
	}
}

// TestListRolesFromWrongRoleIsRejected is spec scenario S6: a ClientCustomer
// connection sending ListRoles gets ErrorBadRole and the connection stays
// open.
func TestListRolesFromWrongRoleIsRejected(t *testing.T) {
	sess := newTestSession(t, wire.ClientCustomer)
	hc := &engine.Context{Log: logger.New()}

	req := &wire.Message{
		ID:   20,
		Kind: wire.KindSingleRequest,
		Single: &wire.SingleRequest{
			Version: [3]byte{1, 0, 0},
			Type:    wire.ReqListRoles,
		},
	}

	resp, outcome := engine.Dispatch(hc, sess, req)

	if outcome != session.KeepOpen {
		t.Fatalf("outcome = %v, want KeepOpen (connection stays open)", outcome)
	}
	if resp == nil || resp.Response == nil {
		t.Fatalf("expected a response")
	}
	if protoerr.CodeError(resp.Response.Status) != protoerr.ErrorBadRole {
		t.Fatalf("status = %v, want ErrorBadRole", protoerr.CodeError(resp.Response.Status))
	}
	if resp.ID != 20 {
		t.Fatalf("response id = %d, want 20 (echoed)", resp.ID)
	}
}
