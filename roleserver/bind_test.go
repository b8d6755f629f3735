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

package roleserver

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/sabouaram/profile-node/wire"
)

func TestBindWithRetrySucceedsImmediatelyOnFreePort(t *testing.T) {
	probe, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("probe listen: %v", err)
	}
	addr := probe.Addr().String()
	probe.Close()

	ln, err := bindWithRetry(context.Background(), addr, nil, wire.RoleEndpointInfo{Role: wire.Primary})
	if err != nil {
		t.Fatalf("bindWithRetry: %v", err)
	}
	defer ln.Close()

	if ln.Addr().String() != addr {
		t.Fatalf("bound %s, want %s", ln.Addr(), addr)
	}
}

// TestBindWithRetryAbortsOnCancelledContext checks the backoff sleep
// itself observes ctx.Done() rather than riding out the full delay, by
// occupying the target port and cancelling the context up front.
func TestBindWithRetryAbortsOnCancelledContext(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer occupied.Close()
	addr := occupied.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = bindWithRetry(ctx, addr, nil, wire.RoleEndpointInfo{Role: wire.Primary})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled from the backoff wait, got %v", err)
	}
}
