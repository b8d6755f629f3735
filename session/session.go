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

// Package session models one TCP/TLS connection: its conversation state,
// key material, pending outbound requests, and the single-writer stream it
// owns.
package session

import (
	"crypto/ed25519"
	"net"
	"sync"
	"time"

	"github.com/sabouaram/profile-node/logger"
	"github.com/sabouaram/profile-node/protoerr"
	"github.com/sabouaram/profile-node/wire"
)

// MaxApplicationServiceNameLengthBytes caps one application-service name.
const MaxApplicationServiceNameLengthBytes = 32

// MaxClientApplicationServices caps the cardinality of one session's
// application-service set. The AddLimit check below uses strict '<' against
// this value.
const MaxClientApplicationServices = 50

// MaxUnfinishedRequests caps session.pending.
const MaxUnfinishedRequests = 20

const (
	clientKeepAlive = 60 * time.Second
	serverKeepAlive = 300 * time.Second
)

// IoOutcome is what a read-loop caller should do with the connection after
// an I/O operation, replacing exception-based control flow.
type IoOutcome uint8

const (
	KeepOpen IoOutcome = iota
	Close
	ProtocolViolation
)

// PendingEntry is one outstanding outbound request awaiting a correlated
// response.
type PendingEntry struct {
	Request  *wire.Message
	Context  interface{}
	Callback func(resp *wire.Message, ctx interface{})
}

// Relay couples two sessions (caller/callee) on the AppService role; it
// holds non-owning references to both sides and coordinates teardown. It
// does not forward messages between them.
type Relay struct {
	mu     sync.Mutex
	caller *Session
	callee *Session
}

// NewRelay pairs two sessions into a Relay and attaches it to both.
func NewRelay(caller, callee *Session) *Relay {
	r := &Relay{caller: caller, callee: callee}
	caller.mu.Lock()
	caller.relay = r
	caller.mu.Unlock()
	callee.mu.Lock()
	callee.relay = r
	callee.mu.Unlock()
	return r
}

// DisconnectPeer closes whichever side of the relay is not the caller of
// this method: teardown is initiated by whichever side disconnects first.
func (r *Relay) DisconnectPeer(from *Session) {
	r.mu.Lock()
	var peer *Session
	switch from {
	case r.caller:
		peer = r.callee
	case r.callee:
		peer = r.caller
	}
	r.mu.Unlock()

	if peer != nil {
		peer.Close()
	}
}

// Session is one TCP/TLS connection and its conversation state.
type Session struct {
	ID             uint64
	Role           wire.Role
	RemoteEndpoint string
	UseTLS         bool

	Builder *wire.Builder

	conn   net.Conn
	reader *wire.Reader
	writer *wire.Writer
	log    logger.Logger

	keepAliveInterval time.Duration

	mu                  sync.Mutex
	conversationStatus  wire.ConversationStatus
	publicKey           ed25519.PublicKey
	identityID          [32]byte
	hasIdentity         bool
	authChallenge       [32]byte
	isCheckedInClient   bool
	applicationServices map[string]struct{}
	relay               *Relay
	forceDisconnect     bool
	keepAliveDeadline   time.Time

	pendingMu sync.Mutex
	pending   map[uint32]*PendingEntry

	closeOnce sync.Once
	disposed  bool
}

// New wraps an already-accepted connection into a Session. role must be
// exactly the (possibly composite) role flags of the listener it was
// accepted on.
func New(id uint64, conn net.Conn, role wire.Role, useTLS bool, log logger.Logger) *Session {
	interval := clientKeepAlive
	if role.IsServerFacing() {
		interval = serverKeepAlive
	}

	s := &Session{
		ID:                  id,
		Role:                role,
		RemoteEndpoint:      conn.RemoteAddr().String(),
		UseTLS:              useTLS,
		Builder:             wire.NewBuilder(role),
		conn:                conn,
		reader:              wire.NewReader(conn),
		writer:              wire.NewWriter(conn),
		log:                 log,
		keepAliveInterval:   interval,
		conversationStatus:  wire.NoConversation,
		applicationServices: make(map[string]struct{}),
		pending:             make(map[uint32]*PendingEntry),
	}
	s.RefreshKeepAlive()
	return s
}

// RefreshKeepAlive resets the idle deadline to now + keepAliveInterval.
func (s *Session) RefreshKeepAlive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keepAliveDeadline = time.Now().Add(s.keepAliveInterval)
}

// IsIdle reports whether the session's keep-alive deadline has passed.
func (s *Session) IsIdle(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.After(s.keepAliveDeadline)
}

// Status returns the current conversation status.
func (s *Session) Status() wire.ConversationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationStatus
}

// SetStatus transitions the conversation status.
func (s *Session) SetStatus(st wire.ConversationStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversationStatus = st
}

// SetIdentity records the peer's public key and derived identity id,
// computed by the caller (StartConversation handler) as SHA-256(pubkey).
func (s *Session) SetIdentity(pub ed25519.PublicKey, identityID [32]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publicKey = pub
	s.identityID = identityID
	s.hasIdentity = true
}

// Identity returns the session's identity id and whether one has been set.
func (s *Session) Identity() ([32]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identityID, s.hasIdentity
}

// PublicKey returns the peer's Ed25519 public key, if known.
func (s *Session) PublicKey() ed25519.PublicKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.publicKey
}

// SetChallenge records the server-issued authentication challenge.
func (s *Session) SetChallenge(c [32]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authChallenge = c
}

// Challenge returns the server-issued authentication challenge.
func (s *Session) Challenge() [32]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authChallenge
}

// SetCheckedIn marks whether this session is the registry's checked_in
// entry for its identity.
func (s *Session) SetCheckedIn(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isCheckedInClient = v
}

// IsCheckedIn reports whether this session believes it is the checked_in
// entry for its identity.
func (s *Session) IsCheckedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isCheckedInClient
}

// RequestForceDisconnect sets the advisory flag a handler uses to defer
// teardown until after the current response is flushed.
func (s *Session) RequestForceDisconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forceDisconnect = true
}

// ForceDisconnectRequested reports whether a handler asked for teardown.
func (s *Session) ForceDisconnectRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forceDisconnect
}

// RelayRef returns the session's attached relay, if any.
func (s *Session) RelayRef() *Relay {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.relay
}

// Reader exposes the frame reader for the connection's read loop.
func (s *Session) Reader() *wire.Reader { return s.reader }

// --- Application services (ApplicationServiceAdd/Remove) ---

// AddApplicationServices inserts names all-or-nothing: it fails
// ErrorQuotaExceeded if the resulting set would reach
// MaxClientApplicationServices, leaving the existing set untouched.
func (s *Session) AddApplicationServices(names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]struct{}, len(s.applicationServices)+len(names))
	for k := range s.applicationServices {
		next[k] = struct{}{}
	}
	for _, n := range names {
		next[n] = struct{}{}
	}

	if len(next) >= MaxClientApplicationServices {
		return protoerr.New(protoerr.ErrorQuotaExceeded)
	}

	s.applicationServices = next
	return nil
}

// RemoveApplicationService removes one name, ErrorNotFound if absent.
func (s *Session) RemoveApplicationService(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.applicationServices[name]; !ok {
		return protoerr.New(protoerr.ErrorNotFound)
	}
	delete(s.applicationServices, name)
	return nil
}

// ApplicationServices returns a snapshot of the session's service names.
func (s *Session) ApplicationServices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.applicationServices))
	for k := range s.applicationServices {
		out = append(out, k)
	}
	return out
}
