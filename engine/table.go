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

// Package engine is the conversation engine: admission checks, the static
// handler dispatch table, and outbound response correlation.
package engine

import (
	"context"
	"crypto/ed25519"
	"sync"

	"github.com/sabouaram/profile-node/imagestore"
	"github.com/sabouaram/profile-node/logger"
	"github.com/sabouaram/profile-node/registry"
	"github.com/sabouaram/profile-node/repository"
	"github.com/sabouaram/profile-node/session"
	"github.com/sabouaram/profile-node/wire"
)

// HandlerFunc processes one admitted request and returns the response to
// write. It must never mutate session state on an error path.
type HandlerFunc func(hc *Context, sess *session.Session, msg *wire.Message) *wire.Message

// Entry is one static dispatch-table row: the role mask and conversation
// status a request type requires, plus its handler.
type Entry struct {
	RequiredRole   wire.Role
	RequiredStatus *wire.ConversationStatus
	Handler        HandlerFunc
}

var (
	tableMu sync.RWMutex
	table   = make(map[wire.RequestType]Entry)
)

// Register installs the handler for t. Called from package handlers' init
// functions (or explicit wiring in node) rather than from engine itself, so
// engine carries no dependency on any individual handler's domain logic.
func Register(t wire.RequestType, e Entry) {
	tableMu.Lock()
	defer tableMu.Unlock()
	table[t] = e
}

// Lookup returns the registered entry for t.
func Lookup(t wire.RequestType) (Entry, bool) {
	tableMu.RLock()
	defer tableMu.RUnlock()
	e, ok := table[t]
	return e, ok
}

// Context is the shared, read-mostly dependency set every handler receives,
// constructed once at startup and passed down instead of relying on
// package-level globals or a raw config map.
type Context struct {
	Ctx       context.Context
	Registry  *registry.Registry
	Repo      *repository.Repository
	Images    *imagestore.Store
	Neighbors *NeighborCache
	Log       logger.Logger
	Endpoints []wire.RoleEndpointInfo

	NodePrivateKey ed25519.PrivateKey
	NodePublicKey  ed25519.PublicKey

	MaxHostedIdentities         int
	MaxIdentityRelations        int
	MaxNeighborhoodSize         int
	MaxSearchResults            int
	NeighborhoodInitParallelism int
}
