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

// Package component is a narrow replacement for class-based Init/Shutdown
// inheritance: a capability-tagged set of named components, started and
// stopped in the order their declared dependencies demand.
package component

import (
	"context"
	"fmt"
)

// Component is one independently startable/stoppable piece of the node:
// the registry, a role server, the repository, the image store, the
// shutdown scanner.
type Component interface {
	// Key is the component's unique name, used for dependency references
	// and log fields.
	Key() string

	// Dependencies lists the Keys that must be started before this one.
	Dependencies() []string

	// Init prepares the component (opening files, validating config) but
	// does not yet start any background activity.
	Init(ctx context.Context) error

	// Start begins the component's background activity, if any. Called in
	// dependency order.
	Start(ctx context.Context) error

	// Stop tears the component down. Called in reverse dependency order.
	Stop(ctx context.Context) error
}

// Registry holds a named set of components and runs them in
// dependency order.
type Registry struct {
	byKey map[string]Component
	order []string
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{byKey: make(map[string]Component)}
}

// Add registers c. It is an error to register the same Key twice.
func (r *Registry) Add(c Component) error {
	if _, exists := r.byKey[c.Key()]; exists {
		return fmt.Errorf("component: duplicate key %q", c.Key())
	}
	r.byKey[c.Key()] = c
	return nil
}

// resolveOrder topologically sorts registered components by Dependencies,
// failing on an unknown dependency or a cycle.
func (r *Registry) resolveOrder() ([]string, error) {
	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := make(map[string]int, len(r.byKey))
	order := make([]string, 0, len(r.byKey))

	var visit func(key string) error
	visit = func(key string) error {
		switch color[key] {
		case black:
			return nil
		case grey:
			return fmt.Errorf("component: dependency cycle at %q", key)
		}
		color[key] = grey

		c, ok := r.byKey[key]
		if !ok {
			return fmt.Errorf("component: unknown dependency %q", key)
		}
		for _, dep := range c.Dependencies() {
			if err := visit(dep); err != nil {
				return err
			}
		}
		color[key] = black
		order = append(order, key)
		return nil
	}

	for key := range r.byKey {
		if err := visit(key); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// InitAll initializes every component; order does not matter for Init since
// it must not start background activity.
func (r *Registry) InitAll(ctx context.Context) error {
	order, err := r.resolveOrder()
	if err != nil {
		return err
	}
	r.order = order

	for _, key := range order {
		if err := r.byKey[key].Init(ctx); err != nil {
			return fmt.Errorf("component %q: init: %w", key, err)
		}
	}
	return nil
}

// StartAll starts every component in dependency order.
func (r *Registry) StartAll(ctx context.Context) error {
	if r.order == nil {
		order, err := r.resolveOrder()
		if err != nil {
			return err
		}
		r.order = order
	}
	for _, key := range r.order {
		if err := r.byKey[key].Start(ctx); err != nil {
			return fmt.Errorf("component %q: start: %w", key, err)
		}
	}
	return nil
}

// StopAll stops every component in reverse dependency order, collecting
// (rather than aborting on) the first error so every component gets a
// chance to release its resources.
func (r *Registry) StopAll(ctx context.Context) error {
	var firstErr error
	for i := len(r.order) - 1; i >= 0; i-- {
		key := r.order[i]
		if err := r.byKey[key].Stop(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("component %q: stop: %w", key, err)
		}
	}
	return firstErr
}

// Get returns the registered component for key, if any.
func (r *Registry) Get(key string) (Component, bool) {
	c, ok := r.byKey[key]
	return c, ok
}
