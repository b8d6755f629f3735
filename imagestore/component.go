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

package imagestore

import "context"

// Component wraps Store for the component framework.
type Component struct {
	DataDir string
	TmpDir  string
	store   *Store
}

func (c *Component) Key() string           { return "imagestore" }
func (c *Component) Dependencies() []string { return nil }

func (c *Component) Init(context.Context) error {
	store, err := New(c.DataDir, c.TmpDir)
	if err != nil {
		return err
	}
	c.store = store
	return nil
}

func (c *Component) Start(context.Context) error { return nil }
func (c *Component) Stop(context.Context) error  { return nil }

// Store returns the opened Store, valid after Init.
func (c *Component) Store() *Store { return c.store }
