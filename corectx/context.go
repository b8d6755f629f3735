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

// Package corectx carries shared, mutable process state (logger, shutdown
// tree, registry, repository handles) behind a typed key/value context
// instead of package-level globals, so every component receives only the
// slice of state it was constructed with.
package corectx

import (
	"context"
	"sync"
	"time"
)

// FuncContext returns the parent context.Context a Config was built from.
type FuncContext func() context.Context

// Config is a generic context-scoped key/value store layered over a
// context.Context. K is typically a small enum (uint8) of well-known keys
// local to one package.
type Config[K comparable] interface {
	context.Context

	// GetContext returns the underlying context.Context.
	GetContext() context.Context

	Load(key K) (val interface{}, ok bool)
	Store(key K, val interface{})
	Delete(key K)
	LoadOrStore(key K, val interface{}) (interface{}, bool)

	// Merge copies every entry of other into this config, without
	// replacing entries already present.
	Merge(other Config[K])

	// Clone returns a new Config sharing the same parent context.Context
	// but an independent key/value store seeded from this one.
	Clone() Config[K]
}

type ccx[K comparable] struct {
	mu sync.RWMutex
	x  context.Context
	m  map[K]interface{}
}

// New returns a Config rooted at the given context.Context. A nil parent
// defaults to context.Background().
func New[K comparable](parent context.Context) Config[K] {
	if parent == nil {
		parent = context.Background()
	}
	return &ccx[K]{
		x: parent,
		m: make(map[K]interface{}),
	}
}

func (c *ccx[K]) GetContext() context.Context {
	if c.x != nil {
		return c.x
	}
	return context.Background()
}

func (c *ccx[K]) Deadline() (deadline time.Time, ok bool) {
	return c.GetContext().Deadline()
}

func (c *ccx[K]) Done() <-chan struct{} {
	return c.GetContext().Done()
}

func (c *ccx[K]) Err() error {
	return c.GetContext().Err()
}

func (c *ccx[K]) Value(key any) any {
	if k, ok := key.(K); ok {
		if v, found := c.Load(k); found {
			return v
		}
	}
	return c.GetContext().Value(key)
}

func (c *ccx[K]) Load(key K) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *ccx[K]) Store(key K, val interface{}) {
	if val == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = val
}

func (c *ccx[K]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
}

func (c *ccx[K]) LoadOrStore(key K, val interface{}) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.m[key]; ok {
		return v, true
	}
	c.m[key] = val
	return val, false
}

func (c *ccx[K]) Merge(other Config[K]) {
	if other == nil {
		return
	}
	o, ok := other.(*ccx[K])
	if !ok {
		return
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range o.m {
		if _, exists := c.m[k]; !exists {
			c.m[k] = v
		}
	}
}

func (c *ccx[K]) Clone() Config[K] {
	n := New[K](c.x)
	n.Merge(c)
	return n
}
