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

package roleserver_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/sabouaram/profile-node/engine"
	_ "github.com/sabouaram/profile-node/handlers"
	"github.com/sabouaram/profile-node/logger"
	"github.com/sabouaram/profile-node/protoerr"
	"github.com/sabouaram/profile-node/registry"
	"github.com/sabouaram/profile-node/roleserver"
	"github.com/sabouaram/profile-node/wire"
)

// TestAcceptAndDispatchPing starts a real Server against an ephemeral
// port, dials it as a plain client, sends a Ping, and checks the framed
// response comes back correctly — exercising bind, accept, dispatch, and
// the read loop together rather than any one in isolation.
func TestAcceptAndDispatchPing(t *testing.T) {
	reg := registry.New()
	hc := &engine.Context{Log: logger.New(), Registry: reg}

	srv := &roleserver.Server{
		Endpoint: wire.RoleEndpointInfo{Role: wire.Primary, TCP: true},
		Address:  "127.0.0.1:0",
		Context:  hc,
		Registry: reg,
		Log:      logger.New(),
	}

	// Init binds srv.Address verbatim and the test needs to know the
	// port to dial, so it asks the OS for a free port first and
	// reconfigures Address to point at it before calling Init.
	probe, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("probe listen: %v", err)
	}
	addr := probe.Addr().String()
	probe.Close()
	srv.Address = addr

	ctx := context.Background()
	if err := srv.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer srv.Stop(ctx)

	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	builder := wire.NewBuilder(wire.Primary)
	req := builder.NewPing([]byte{0xAA})

	writer := wire.NewWriter(conn)
	if err := writer.WriteMessage(req); err != nil {
		t.Fatalf("write: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	reader := wire.NewReader(conn)
	body, outcome, err := reader.ReadFrame()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if outcome != wire.ReadOK {
		t.Fatalf("outcome = %v, want ReadOK", outcome)
	}

	resp, err := wire.Decode(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Response == nil {
		t.Fatalf("expected a response message")
	}
	if protoerr.CodeError(resp.Response.Status) != protoerr.Ok {
		t.Fatalf("status = %v, want Ok", protoerr.CodeError(resp.Response.Status))
	}
}

// TestStopJoinsLoopsAndClosesListener checks Stop is safe to call right
// after Start with no connections ever accepted (the common shutdown
// path in tests and in a node that never saw traffic).
func TestStopJoinsLoopsAndClosesListener(t *testing.T) {
	reg := registry.New()
	hc := &engine.Context{Log: logger.New(), Registry: reg}

	srv := &roleserver.Server{
		Endpoint: wire.RoleEndpointInfo{Role: wire.Primary, TCP: true},
		Address:  "127.0.0.1:0",
		Context:  hc,
		Registry: reg,
		Log:      logger.New(),
	}

	ctx := context.Background()
	if err := srv.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Stop(ctx); err != nil {
			t.Errorf("Stop: %v", err)
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Stop did not return in time")
	}
}
