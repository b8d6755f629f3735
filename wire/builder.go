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

package wire

import (
	"crypto/ed25519"
	"sync/atomic"

	"github.com/sabouaram/profile-node/protoerr"
	"github.com/sabouaram/profile-node/version"
)

// Builder is the per-session message factory: it owns the id sequence for
// one connection. It holds no key material; signing and verification are
// the package-level SignConversation and VerifyConversation.
type Builder struct {
	base uint32
	seq  atomic.Uint32
}

// NewBuilder returns a Builder whose ids are offset into role's disjoint id
// space, so two sessions with different roles never collide on message id.
func NewBuilder(role Role) *Builder {
	return &Builder{base: role.MsgIDBase()}
}

// NextID returns the next request id for this session: base + atomic
// fetch-add(1).
func (b *Builder) NextID() uint32 {
	return b.base + b.seq.Add(1)
}

// NewPing builds a single Ping request.
func (b *Builder) NewPing(payload []byte) *Message {
	return &Message{
		ID:   b.NextID(),
		Kind: KindSingleRequest,
		Single: &SingleRequest{
			Version: version.Current,
			Type:    ReqPing,
			Body:    &PingRequest{Payload: payload},
		},
	}
}

// NewStartConversation builds the StartConversation request, offering every
// version this node's wire package supports in preference order.
func (b *Builder) NewStartConversation(publicKey, clientChallenge []byte) *Message {
	offered := make([][3]byte, len(version.Supported))
	for i, v := range version.Supported {
		offered[i] = v
	}
	return &Message{
		ID:   b.NextID(),
		Kind: KindConversationRequest,
		Conversation: &ConversationRequest{
			Type: ReqStartConversation,
			Body: &StartConversationRequest{
				SupportedVersions: offered,
				PublicKey:         publicKey,
				ClientChallenge:   clientChallenge,
			},
		},
	}
}

// NewGetNeighbourNodesByDistance builds a single request asking a connected
// ServerNeighbor peer for its own known neighbor set.
func (b *Builder) NewGetNeighbourNodesByDistance() *Message {
	return &Message{
		ID:   b.NextID(),
		Kind: KindSingleRequest,
		Single: &SingleRequest{
			Version: version.Current,
			Type:    ReqGetNeighbourNodesByDistance,
		},
	}
}

// SignConversation signs body with priv and returns the signature to place
// into a ConversationRequest/Response's Signature slot. body is the exact
// byte string being signed; the handlers pass raw challenge bytes, not an
// encoding of a payload struct.
func SignConversation(priv ed25519.PrivateKey, body []byte) []byte {
	return ed25519.Sign(priv, body)
}

// VerifyConversation verifies sig over body against pub. Returns
// ErrorInvalidSignature wrapped in a protoerr.Error on mismatch so callers
// can return it directly as a handler result.
func VerifyConversation(pub ed25519.PublicKey, body, sig []byte) error {
	if len(pub) != ed25519.PublicKeySize {
		return protoerr.New(protoerr.ErrorInvalidSignature)
	}
	if !ed25519.Verify(pub, body, sig) {
		return protoerr.New(protoerr.ErrorInvalidSignature)
	}
	return nil
}

// NewResponse builds a success response of the given type.
func NewResponse(id uint32, respondsTo Kind, t RequestType, body interface{}) *Message {
	return &Message{
		ID:   id,
		Kind: KindResponse,
		Response: &Response{
			RespondsTo: respondsTo,
			Type:       t,
			Status:     uint16(protoerr.Ok),
			Body:       body,
		},
	}
}

// NewErrorResponse builds an error response for an originating request,
// echoing its id.
func NewErrorResponse(originating *Message, code protoerr.CodeError, details string) *Message {
	var (
		id         uint32 = BadRequestID
		respondsTo Kind   = KindConversationRequest
		rtype      RequestType
	)
	if originating != nil {
		id = originating.ID
		respondsTo = originating.Kind
		switch originating.Kind {
		case KindSingleRequest:
			rtype = originating.Single.Type
		case KindConversationRequest:
			rtype = originating.Conversation.Type
		}
	}
	return &Message{
		ID:   id,
		Kind: KindResponse,
		Response: &Response{
			RespondsTo: respondsTo,
			Type:       rtype,
			Status:     uint16(code),
			Details:    details,
		},
	}
}

// NewProtocolViolation builds the final frame a connection sends before
// being closed. When the originating request is unknown, the id is the
// BadRequestID sentinel.
func NewProtocolViolation(originating *Message, details string) *Message {
	return NewErrorResponse(originating, protoerr.ErrorProtocolViolation, details)
}
