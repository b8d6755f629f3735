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

package shutdown

import (
	"context"
	"time"

	"github.com/sabouaram/profile-node/logger"
	"github.com/sabouaram/profile-node/session"
)

// ScanInterval is how often the idle scanner walks the registry snapshot.
const ScanInterval = 120 * time.Second

// SessionSnapshot is the narrow slice of registry.Registry the scanner
// needs, kept as an interface so this package does not import registry.
type SessionSnapshot interface {
	Snapshot() []*session.Session
}

// Scanner is the idle-session maintenance task: every ScanInterval, it closes
// any session whose keep-alive deadline has passed.
type Scanner struct {
	key      string
	registry SessionSnapshot
	log      logger.Logger
	node     *Node
	stopped  chan struct{}
}

// NewScanner returns an idle scanner reading from registry.
func NewScanner(key string, registry SessionSnapshot, log logger.Logger) *Scanner {
	return &Scanner{key: key, registry: registry, log: log}
}

func (s *Scanner) Key() string             { return s.key }
func (s *Scanner) Dependencies() []string  { return nil }
func (s *Scanner) Init(context.Context) error { return nil }

// Start launches the scan loop against root's shutdown tree.
func (s *Scanner) Start(ctx context.Context) error {
	root, _ := ctx.Value(rootKey{}).(*Node)
	if root == nil {
		root = NewRoot()
	}
	s.node = root.Child()
	s.stopped = make(chan struct{})

	go s.run()
	return nil
}

// Stop signals the scan loop to exit and waits for it.
func (s *Scanner) Stop(context.Context) error {
	if s.node != nil {
		s.node.Trigger()
	}
	if s.stopped != nil {
		<-s.stopped
	}
	return nil
}

func (s *Scanner) run() {
	defer close(s.stopped)

	ticker := time.NewTicker(ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.node.Done():
			return
		case now := <-ticker.C:
			s.sweep(now)
		}
	}
}

func (s *Scanner) sweep(now time.Time) {
	for _, sess := range s.registry.Snapshot() {
		if sess.IsIdle(now) {
			if s.log != nil {
				s.log.Debug("closing idle session", logger.Fields{"session_id": sess.ID})
			}
			sess.Close()
		}
	}
}

// rootKey is the context.Context value key under which the shutdown root
// node is stored,
// so components receive it from their shared construction context rather
// than a package-level global.
type rootKey struct{}

// RootKey returns the context key a node package wiring function uses to
// store/retrieve the tree's root node.
func RootKey() interface{} { return rootKey{} }

// WithRoot returns a context carrying root under RootKey, for components
// (like Scanner) that read the tree's root from their Start context.
func WithRoot(ctx context.Context, root *Node) context.Context {
	return context.WithValue(ctx, rootKey{}, root)
}
