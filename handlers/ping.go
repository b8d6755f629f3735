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

// Package handlers implements the static dispatch table's handler roster:
// one file per request family, each registering itself with engine.Register
// from an init function so wiring the roster is just importing the package.
package handlers

import (
	"time"

	"github.com/sabouaram/profile-node/engine"
	"github.com/sabouaram/profile-node/session"
	"github.com/sabouaram/profile-node/wire"
)

func init() {
	engine.Register(wire.ReqPing, engine.Entry{
		Handler: handlePing,
	})
}

// handlePing echoes the payload and the server clock in Unix milliseconds.
// Any role may ping any listener.
func handlePing(_ *engine.Context, sess *session.Session, msg *wire.Message) *wire.Message {
	req := msg.Single.Body.(*wire.PingRequest)
	return wire.NewResponse(msg.ID, wire.KindSingleRequest, wire.ReqPing, &wire.PingResponse{
		Payload: req.Payload,
		ClockMs: time.Now().UnixMilli(),
	})
}
