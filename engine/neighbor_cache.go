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

package engine

import (
	"encoding/hex"
	"sync"
	"time"

	"github.com/sabouaram/profile-node/wire"
)

// NeighborCache holds the last neighbor set fetched from each of this node's
// own ServerNeighbor peers, keyed by the peer's node id. Entries expire after
// TTL so a peer that goes quiet eventually drops out of GetNeighbourNodesByDistance
// responses instead of serving stale data forever.
type NeighborCache struct {
	TTL time.Duration

	mu      sync.Mutex
	entries map[string]neighborCacheEntry
}

type neighborCacheEntry struct {
	nodes     []wire.NeighbourNode
	fetchedAt time.Time
}

// NewNeighborCache returns a cache that expires entries after ttl. A
// non-positive ttl disables expiration.
func NewNeighborCache(ttl time.Duration) *NeighborCache {
	return &NeighborCache{TTL: ttl, entries: make(map[string]neighborCacheEntry)}
}

// Store records the neighbor set most recently fetched from nodeID.
func (c *NeighborCache) Store(nodeID []byte, nodes []wire.NeighbourNode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[hex.EncodeToString(nodeID)] = neighborCacheEntry{nodes: nodes, fetchedAt: time.Now()}
}

// All returns every still-fresh cached neighbor, flattened across peers.
func (c *NeighborCache) All() []wire.NeighbourNode {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []wire.NeighbourNode
	now := time.Now()
	for key, e := range c.entries {
		if c.TTL > 0 && now.Sub(e.fetchedAt) > c.TTL {
			delete(c.entries, key)
			continue
		}
		out = append(out, e.nodes...)
	}
	return out
}
