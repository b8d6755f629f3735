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

// Package wire implements the node's length-prefixed binary protocol: the
// frame codec, the message envelope, the conversation status machine, and
// the per-session message builder that stamps ids and versions, and the
// Ed25519 helpers that sign and verify conversation signatures.
package wire

import "github.com/sabouaram/profile-node/version"

// ConversationStatus is the per-session state machine position.
type ConversationStatus uint8

const (
	NoConversation ConversationStatus = iota
	ConversationStarted
	Verified
	Authenticated
)

func (s ConversationStatus) String() string {
	switch s {
	case NoConversation:
		return "NoConversation"
	case ConversationStarted:
		return "ConversationStarted"
	case Verified:
		return "Verified"
	case Authenticated:
		return "Authenticated"
	default:
		return "Unknown"
	}
}

// Kind distinguishes the three envelope shapes that can appear on the wire.
type Kind uint8

const (
	KindSingleRequest Kind = iota
	KindConversationRequest
	KindResponse
)

// RequestType is the discriminant of the inner request/response body,
// shared by requests and their matching response.
type RequestType uint16

const (
	ReqPing RequestType = iota + 1
	ReqListRoles
	ReqStartConversation
	ReqVerifyIdentity
	ReqCheckIn
	ReqHomeNodeRequest
	ReqRegisterHosting
	ReqUpdateProfile
	ReqCancelHomeNodeAgreement
	ReqCancelHostingAgreement
	ReqApplicationServiceAdd
	ReqApplicationServiceRemove
	ReqGetIdentityInformation
	ReqGetProfileInformation
	ReqGetNeighbourNodesByDistance
	ReqNeighbourhoodChanged
	ReqGetNodeCount
	ReqLocalSearchProfile
	ReqGetRelatedIdentities
	ReqApplicationServiceRelay
)

// Message is the decoded envelope: exactly one of Single/Conversation/
// Response is populated, selected by Kind.
type Message struct {
	ID   uint32
	Kind Kind

	Single       *SingleRequest
	Conversation *ConversationRequest
	Response     *Response
}

// SingleRequest is a stateless, version-tagged request.
type SingleRequest struct {
	Version version.Triple
	Type    RequestType
	Body    interface{}
}

// ConversationRequest is a stateful request, optionally signed.
type ConversationRequest struct {
	Type      RequestType
	Signature []byte
	Body      interface{}
}

// Response mirrors a request's kind and carries a status plus free-text
// details.
type Response struct {
	RespondsTo Kind
	Type       RequestType
	Status     uint16
	Details    string
	Body       interface{}
}

// BadRequestID is the sentinel id used on protocol-violation responses when
// no originating request id is known.
const BadRequestID uint32 = 0x0BADC0DE

// MaxFrameSize is the total framed size cap (marker + length + body).
const MaxFrameSize = 1 << 20 // 1 MiB

// HeaderSize is the fixed envelope header: 1 marker byte + 4 length bytes.
const HeaderSize = 5

// Marker is the mandatory first byte of every frame.
const Marker byte = 0x0D
