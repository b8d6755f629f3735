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

// Package roleserver is one listener per configured role endpoint, with a
// bind-retry loop, a bounded accept FIFO, a dispatch loop that wraps each
// accepted connection into a session.Session, and a per-connection read
// loop that feeds the conversation engine.
package roleserver

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/sabouaram/profile-node/engine"
	"github.com/sabouaram/profile-node/logger"
	"github.com/sabouaram/profile-node/registry"
	"github.com/sabouaram/profile-node/session"
	"github.com/sabouaram/profile-node/shutdown"
	"github.com/sabouaram/profile-node/wire"
)

// MaxBindRetries caps the bind-retry loop.
const MaxBindRetries = 10

// BindRetryUnit is the delay multiplier: the Nth retry waits N*BindRetryUnit.
// The multiplier increments (never decrements) across attempts.
const BindRetryUnit = 3 * time.Second

// AcceptQueueDepth bounds the FIFO between the accept loop and the dispatch
// loop.
const AcceptQueueDepth = 64

// StopJoinTimeout is how long Stop waits for each of the accept and
// dispatch loops before giving up and logging.
const StopJoinTimeout = 10 * time.Second

// Server is one role endpoint's listener plus its accept/dispatch loops.
type Server struct {
	Endpoint wire.RoleEndpointInfo

	Address   string
	TLSConfig *tls.Config

	Context  *engine.Context
	Registry *registry.Registry
	Log      logger.Logger

	// ConnIDSource hands out session IDs that are unique across every
	// role listener sharing Registry, not just this one. Callers
	// constructing a fleet of Servers against one registry must share a
	// single counter (see node.Build), since registry.Registry keys
	// sessions by this ID across all roles at once.
	ConnIDSource *atomic.Uint64

	listener net.Listener
	node     *shutdown.Node

	accepted chan net.Conn

	acceptDone  chan struct{}
	dispatchDone chan struct{}
}

func (s *Server) Key() string { return "roleserver:" + s.Endpoint.Role.String() }

func (s *Server) Dependencies() []string { return []string{"registry"} }

// Init binds the listener, retrying on failure.
func (s *Server) Init(ctx context.Context) error {
	ln, err := bindWithRetry(ctx, s.Address, s.Log, s.Endpoint)
	if err != nil {
		return err
	}
	if s.Endpoint.TLS {
		if s.TLSConfig == nil {
			ln.Close()
			return fmt.Errorf("roleserver %s: TLS role without a TLS config", s.Endpoint.Role)
		}
		ln = tls.NewListener(ln, s.TLSConfig)
	}
	s.listener = ln
	s.accepted = make(chan net.Conn, AcceptQueueDepth)
	if s.ConnIDSource == nil {
		s.ConnIDSource = new(atomic.Uint64)
	}
	return nil
}

// Start launches the accept and dispatch loops.
func (s *Server) Start(ctx context.Context) error {
	root, _ := ctx.Value(shutdown.RootKey()).(*shutdown.Node)
	if root == nil {
		root = shutdown.NewRoot()
	}
	s.node = root.Child()

	s.acceptDone = make(chan struct{})
	s.dispatchDone = make(chan struct{})

	go s.acceptLoop()
	go s.dispatchLoop()
	return nil
}

// Stop signals shutdown, joins both loops (with a timeout each), and
// drains/closes any accepted-but-not-yet-dispatched connections.
func (s *Server) Stop(context.Context) error {
	if s.node != nil {
		s.node.Trigger()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}

	s.joinWithTimeout(s.acceptDone, "accept")
	s.joinWithTimeout(s.dispatchDone, "dispatch")

	close(s.accepted)
	for conn := range s.accepted {
		_ = conn.Close()
	}
	return nil
}

func (s *Server) joinWithTimeout(done <-chan struct{}, name string) {
	if done == nil {
		return
	}
	select {
	case <-done:
	case <-time.After(StopJoinTimeout):
		if s.Log != nil {
			s.Log.Warning("roleserver: loop did not join in time", logger.Fields{
				"role": s.Endpoint.Role.String(),
				"loop": name,
			})
		}
	}
}

// acceptLoop awaits accept() concurrently with the shutdown signal,
// pushing each raw client into the bounded FIFO.
func (s *Server) acceptLoop() {
	defer close(s.acceptDone)

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.node.Done():
				return
			default:
			}
			if s.Log != nil {
				s.Log.Warning("roleserver: accept error", logger.Fields{"role": s.Endpoint.Role.String(), "error": err.Error()})
			}
			return
		}

		select {
		case s.accepted <- conn:
		case <-s.node.Done():
			_ = conn.Close()
			return
		}
	}
}

// dispatchLoop drains the FIFO, wraps each connection in a session.Session,
// registers it, and spawns its per-connection read loop.
func (s *Server) dispatchLoop() {
	defer close(s.dispatchDone)

	for {
		select {
		case conn, ok := <-s.accepted:
			if !ok {
				return
			}
			id := s.ConnIDSource.Add(1)
			sess := session.New(id, conn, s.Endpoint.Role, s.Endpoint.TLS, s.Log)
			s.Registry.AddPeer(sess)
			go s.readLoop(sess)
		case <-s.node.Done():
			return
		}
	}
}

// readLoop alternates reading a frame and dispatching it to the
// conversation engine, terminating on protocol violation (after sending
// one last violation response), remote close, shutdown, or a handler
// requesting teardown.
func (s *Server) readLoop(sess *session.Session) {
	defer func() {
		s.Registry.RemovePeer(sess.ID)
		sess.HandleDisconnect(s.Log, nil)
	}()

	reader := sess.Reader()

	for {
		select {
		case <-s.node.Done():
			return
		default:
		}

		body, outcome, err := reader.ReadFrame()
		switch outcome {
		case wire.ReadClosed:
			return
		case wire.ReadProtocolViolation:
			_ = sess.SendMessage(wire.NewProtocolViolation(&wire.Message{ID: wire.BadRequestID}, "frame"))
			return
		}
		if err != nil {
			return
		}

		msg, err := wire.Decode(body)
		if err != nil {
			_ = sess.SendMessage(wire.NewProtocolViolation(&wire.Message{ID: wire.BadRequestID}, "decode"))
			return
		}

		resp, ioOutcome := engine.Dispatch(s.Context, sess, msg)
		if resp != nil {
			if werr := sess.SendMessage(resp); werr != nil {
				return
			}
		}
		if ioOutcome == session.Close {
			return
		}
	}
}
