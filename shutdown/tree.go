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

// Package shutdown is the process-wide cancellation tree: triggering the
// root cancels every child; a child can also be cancelled
// on its own (one role server stopping without tearing down the process).
// The role servers' accept, dispatch and read loops and the idle scanner
// check a Node's Done() channel instead of a bespoke stop flag. A blocked
// socket read or write is not interrupted by it, and the bind-retry sleep
// observes the context passed to Init, not a Node.
package shutdown

import (
	"context"
	"sync"
)

// Node is one point in the shutdown tree.
type Node struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	children []*Node
}

// NewRoot returns the tree's root node.
func NewRoot() *Node {
	ctx, cancel := context.WithCancel(context.Background())
	return &Node{ctx: ctx, cancel: cancel}
}

// Child creates a new node that is cancelled whenever n is, but which can
// also be cancelled independently without affecting n or n's siblings.
func (n *Node) Child() *Node {
	ctx, cancel := context.WithCancel(n.ctx)
	c := &Node{ctx: ctx, cancel: cancel}

	n.mu.Lock()
	n.children = append(n.children, c)
	n.mu.Unlock()

	return c
}

// Done returns the channel suspension points select on.
func (n *Node) Done() <-chan struct{} {
	return n.ctx.Done()
}

// Context returns the node as a context.Context, for APIs (net.Dialer,
// database calls) that take one directly.
func (n *Node) Context() context.Context {
	return n.ctx
}

// Cancelled reports whether this node (or an ancestor) has been triggered.
func (n *Node) Cancelled() bool {
	select {
	case <-n.ctx.Done():
		return true
	default:
		return false
	}
}

// Trigger cancels this node and every descendant registered through Child.
func (n *Node) Trigger() {
	n.cancel()
}
