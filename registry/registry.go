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

// Package registry holds the process-wide connection table: every live
// Session indexed by connection id, by identity id, and by which session
// is the current checked-in endpoint for an identity.
package registry

import (
	"sync"

	"github.com/sabouaram/profile-node/metrics"
	"github.com/sabouaram/profile-node/session"
	"github.com/sabouaram/profile-node/wire"
)

// Registry is the single authority over which sessions are live. All three
// indices share one mutex so add/remove/checked-in transitions are observed
// atomically together, not as three separate critical sections.
type Registry struct {
	mu sync.RWMutex

	byConnID     map[uint64]*session.Session
	byIdentityID map[[32]byte]map[uint64]*session.Session
	checkedIn    map[[32]byte]*session.Session
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		byConnID:     make(map[uint64]*session.Session),
		byIdentityID: make(map[[32]byte]map[uint64]*session.Session),
		checkedIn:    make(map[[32]byte]*session.Session),
	}
}

// AddPeer registers a newly accepted session that has not yet proven an
// identity (pre-StartConversation), indexed only by connection id.
func (r *Registry) AddPeer(s *session.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byConnID[s.ID] = s
	metrics.Sessions.WithLabelValues(s.Role.String()).Inc()
}

// AddPeerWithIdentity records that s has proven identityID, adding it to
// the by-identity index alongside any other live connections for the same
// identity (a peer may hold more than one concurrent connection).
func (r *Registry) AddPeerWithIdentity(s *session.Session, identityID [32]byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, existed := r.byConnID[s.ID]; !existed {
		metrics.Sessions.WithLabelValues(s.Role.String()).Inc()
	}
	r.byConnID[s.ID] = s

	set, ok := r.byIdentityID[identityID]
	if !ok {
		set = make(map[uint64]*session.Session)
		r.byIdentityID[identityID] = set
	}
	set[s.ID] = s
}

// AddCheckedIn installs s as the checked_in session for identityID,
// displacing and returning whatever session previously held that slot (the
// caller closes it): at most one checked-in session per identity, and a new
// check-in evicts the old one.
func (r *Registry) AddCheckedIn(identityID [32]byte, s *session.Session) (evicted *session.Session, hadPrevious bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.checkedIn[identityID]
	r.checkedIn[identityID] = s
	if ok && prev != s {
		return prev, true
	}
	return nil, false
}

// RemovePeer removes connID from every index it appears in. If it was the
// checked-in session for some identity, that slot is cleared too.
func (r *Registry) RemovePeer(connID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byConnID[connID]
	if !ok {
		return
	}
	delete(r.byConnID, connID)
	metrics.Sessions.WithLabelValues(s.Role.String()).Dec()

	if identityID, hasIdentity := s.Identity(); hasIdentity {
		if set, ok := r.byIdentityID[identityID]; ok {
			delete(set, connID)
			if len(set) == 0 {
				delete(r.byIdentityID, identityID)
			}
		}
		if cur, ok := r.checkedIn[identityID]; ok && cur.ID == connID {
			delete(r.checkedIn, identityID)
		}
	}
}

// GetByConnID looks a session up by connection id.
func (r *Registry) GetByConnID(connID uint64) (*session.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byConnID[connID]
	return s, ok
}

// GetCheckedIn returns the checked-in session for identityID, if any.
func (r *Registry) GetCheckedIn(identityID [32]byte) (*session.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.checkedIn[identityID]
	return s, ok
}

// SessionsForIdentity returns every live connection known for identityID.
func (r *Registry) SessionsForIdentity(identityID [32]byte) []*session.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.byIdentityID[identityID]
	if !ok {
		return nil
	}
	out := make([]*session.Session, 0, len(set))
	for _, s := range set {
		out = append(out, s)
	}
	return out
}

// Snapshot returns every live session, for the idle scanner and for
// GetNodeCount/GetNeighbourNodesByDistance-style read paths.
func (r *Registry) Snapshot() []*session.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*session.Session, 0, len(r.byConnID))
	for _, s := range r.byConnID {
		out = append(out, s)
	}
	return out
}

// CountByRole counts live sessions whose Role carries every flag in mask.
func (r *Registry) CountByRole(mask wire.Role) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.byConnID {
		if s.Role.Has(mask) {
			n++
		}
	}
	return n
}

// Len returns the number of live connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConnID)
}
