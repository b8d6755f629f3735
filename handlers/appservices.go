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

package handlers

import (
	"unicode/utf8"

	"github.com/sabouaram/profile-node/engine"
	"github.com/sabouaram/profile-node/protoerr"
	"github.com/sabouaram/profile-node/session"
	"github.com/sabouaram/profile-node/wire"
)

func init() {
	engine.Register(wire.ReqApplicationServiceAdd, engine.Entry{
		RequiredRole:   wire.ClientCustomer,
		RequiredStatus: &statusAuthenticated,
		Handler:        handleApplicationServiceAdd,
	})
	engine.Register(wire.ReqApplicationServiceRemove, engine.Entry{
		RequiredRole:   wire.ClientCustomer,
		RequiredStatus: &statusAuthenticated,
		Handler:        handleApplicationServiceRemove,
	})
}

// handleApplicationServiceAdd validates each name then delegates to
// Session.AddApplicationServices for the insert-all-or-none quota check.
func handleApplicationServiceAdd(_ *engine.Context, sess *session.Session, msg *wire.Message) *wire.Message {
	req := msg.Conversation.Body.(*wire.ApplicationServiceAddRequest)

	for _, name := range req.Names {
		if name == "" || !utf8.ValidString(name) || len(name) > session.MaxApplicationServiceNameLengthBytes {
			return wire.NewErrorResponse(msg, protoerr.ErrorInvalidValue, "name")
		}
	}

	if err := sess.AddApplicationServices(req.Names); err != nil {
		return wire.NewErrorResponse(msg, protoerr.CodeOf(err), "")
	}

	return wire.NewResponse(msg.ID, wire.KindConversationRequest, wire.ReqApplicationServiceAdd, nil)
}

func handleApplicationServiceRemove(_ *engine.Context, sess *session.Session, msg *wire.Message) *wire.Message {
	req := msg.Conversation.Body.(*wire.ApplicationServiceRemoveRequest)

	if err := sess.RemoveApplicationService(req.Name); err != nil {
		return wire.NewErrorResponse(msg, protoerr.CodeOf(err), "")
	}

	return wire.NewResponse(msg.ID, wire.KindConversationRequest, wire.ReqApplicationServiceRemove, nil)
}
