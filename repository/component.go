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

package repository

import "context"

// Component wraps Repository for the component framework: the database
// file is opened in Init (so config/path errors surface before any
// listener starts accepting) and closed in Stop.
type Component struct {
	Path string
	repo *Repository
}

func (c *Component) Key() string            { return "repository" }
func (c *Component) Dependencies() []string  { return nil }

func (c *Component) Init(context.Context) error {
	repo, err := Open(c.Path)
	if err != nil {
		return err
	}
	c.repo = repo
	return nil
}

func (c *Component) Start(context.Context) error { return nil }

func (c *Component) Stop(context.Context) error {
	if c.repo == nil {
		return nil
	}
	return c.repo.Close()
}

// Repo returns the opened Repository, valid after Init.
func (c *Component) Repo() *Repository { return c.repo }
