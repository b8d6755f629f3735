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
	"fmt"

	"github.com/sabouaram/profile-node/logger"
	"github.com/sabouaram/profile-node/metrics"
	"github.com/sabouaram/profile-node/protoerr"
	"github.com/sabouaram/profile-node/session"
	"github.com/sabouaram/profile-node/version"
	"github.com/sabouaram/profile-node/wire"
)

// checkSessionConditions gates a request on role and conversation status. A
// nil requiredStatus means no status gating at all (single requests).
// NoConversation and ConversationStarted must match exactly; Verified and
// Authenticated are satisfied by an exact match or by Authenticated (a
// stronger state always satisfies a weaker requirement).
func checkSessionConditions(sess *session.Session, requiredRole wire.Role, requiredStatus *wire.ConversationStatus) protoerr.CodeError {
	if requiredRole != 0 && !sess.Role.Any(requiredRole) {
		return protoerr.ErrorBadRole
	}

	if requiredStatus == nil {
		return protoerr.Ok
	}

	cur := sess.Status()
	switch *requiredStatus {
	case wire.NoConversation, wire.ConversationStarted:
		if cur != *requiredStatus {
			return protoerr.ErrorBadConversationStatus
		}
	case wire.Verified, wire.Authenticated:
		if cur != *requiredStatus && cur != wire.Authenticated {
			return protoerr.ErrorUnauthorized
		}
	default:
		return protoerr.ErrorInternal
	}
	return protoerr.Ok
}

// Dispatch handles one inbound, already-decoded message for sess: refresh
// the keep-alive deadline, classify, admit, version-check, invoke the
// handler, and report what the caller (the per-connection read loop) should
// do with the connection afterward.
func Dispatch(hc *Context, sess *session.Session, msg *wire.Message) (*wire.Message, session.IoOutcome) {
	sess.RefreshKeepAlive()

	switch msg.Kind {
	case wire.KindResponse:
		return dispatchResponse(sess, msg)
	case wire.KindSingleRequest:
		return dispatchRequest(hc, sess, msg, msg.Single.Type, msg.Single.Version, false)
	case wire.KindConversationRequest:
		return dispatchRequest(hc, sess, msg, msg.Conversation.Type, version.Triple{}, true)
	default:
		resp := wire.NewProtocolViolation(msg, "kind")
		return resp, session.Close
	}
}

func dispatchRequest(hc *Context, sess *session.Session, msg *wire.Message, reqType wire.RequestType, declared version.Triple, isConversation bool) (*wire.Message, session.IoOutcome) {
	entry, ok := Lookup(reqType)
	if !ok {
		resp := wire.NewProtocolViolation(msg, "unknown_request_type")
		metrics.Requests.WithLabelValues(fmt.Sprintf("%d", reqType), protoerr.ErrorProtocolViolation.String()).Inc()
		return resp, session.Close
	}

	if code := checkSessionConditions(sess, entry.RequiredRole, entry.RequiredStatus); code != protoerr.Ok {
		resp := wire.NewErrorResponse(msg, code, "")
		metrics.Requests.WithLabelValues(fmt.Sprintf("%d", reqType), code.String()).Inc()
		return resp, session.KeepOpen
	}

	if !isConversation {
		if _, ok := version.Negotiate([]version.Triple{declared}); !ok {
			resp := wire.NewProtocolViolation(msg, "version")
			metrics.Requests.WithLabelValues(fmt.Sprintf("%d", reqType), protoerr.ErrorProtocolViolation.String()).Inc()
			return resp, session.Close
		}
	}

	resp := entry.Handler(hc, sess, msg)
	outcome := session.KeepOpen
	status := protoerr.Ok
	if resp != nil && resp.Response != nil {
		status = protoerr.CodeError(resp.Response.Status)
	}
	metrics.Requests.WithLabelValues(fmt.Sprintf("%d", reqType), status.String()).Inc()
	if status == protoerr.ErrorProtocolViolation {
		outcome = session.Close
	} else if sess.ForceDisconnectRequested() {
		outcome = session.Close
	}
	return resp, outcome
}

// dispatchResponse correlates an inbound Response against the session's
// pending map and validates it mirrors the original request's kind and type.
func dispatchResponse(sess *session.Session, msg *wire.Message) (*wire.Message, session.IoOutcome) {
	entry, ok := sess.TakePending(msg.ID)
	if !ok {
		resp := wire.NewProtocolViolation(msg, "unmatched_response")
		return resp, session.Close
	}

	if protoerr.CodeError(msg.Response.Status) == protoerr.Ok {
		var origType wire.RequestType
		var origKind wire.Kind
		switch {
		case entry.Request.Single != nil:
			origType, origKind = entry.Request.Single.Type, wire.KindSingleRequest
		case entry.Request.Conversation != nil:
			origType, origKind = entry.Request.Conversation.Type, wire.KindConversationRequest
		}
		if msg.Response.Type != origType || msg.Response.RespondsTo != origKind {
			resp := wire.NewProtocolViolation(msg, "variant_mismatch")
			return resp, session.Close
		}
	}

	if entry.Callback != nil {
		entry.Callback(msg, entry.Context)
	}
	return nil, session.KeepOpen
}

// LogDecision writes one structured admission/dispatch log line, used by
// callers that want a record independent of the response actually sent.
func LogDecision(log logger.Logger, sess *session.Session, reqType wire.RequestType, code protoerr.CodeError) {
	if log == nil {
		return
	}
	fields := logger.Fields{
		"session_id": sess.ID,
		"role":       sess.Role.String(),
		"msg_type":   reqType,
		"status":     code.String(),
	}
	if code == protoerr.Ok {
		log.Debug("request admitted", fields)
		return
	}
	if code == protoerr.ErrorInternal || code == protoerr.ErrorProtocolViolation {
		log.Error("request failed", fields, nil)
		return
	}
	log.Warning("request rejected", fields)
}
