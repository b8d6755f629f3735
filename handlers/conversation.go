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
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"time"

	"github.com/sabouaram/profile-node/engine"
	"github.com/sabouaram/profile-node/protoerr"
	"github.com/sabouaram/profile-node/repository"
	"github.com/sabouaram/profile-node/session"
	"github.com/sabouaram/profile-node/version"
	"github.com/sabouaram/profile-node/wire"
)

const maxPublicKeyBytes = 128

var (
	statusNoConversation     = wire.NoConversation
	statusConversationStarted = wire.ConversationStarted
	statusAuthenticated      = wire.Authenticated
)

func init() {
	engine.Register(wire.ReqStartConversation, engine.Entry{
		RequiredStatus: &statusNoConversation,
		Handler:        handleStartConversation,
	})
	engine.Register(wire.ReqVerifyIdentity, engine.Entry{
		RequiredRole:   wire.ServerNeighbor | wire.ClientNonCustomer,
		RequiredStatus: &statusConversationStarted,
		Handler:        handleVerifyIdentity,
	})
	engine.Register(wire.ReqCheckIn, engine.Entry{
		RequiredRole:   wire.ClientCustomer,
		RequiredStatus: &statusConversationStarted,
		Handler:        handleCheckIn,
	})
}

func handleStartConversation(hc *engine.Context, sess *session.Session, msg *wire.Message) *wire.Message {
	req := msg.Conversation.Body.(*wire.StartConversationRequest)

	negotiated, ok := version.Negotiate(tripleSlice(req.SupportedVersions))
	if !ok {
		return wire.NewErrorResponse(msg, protoerr.ErrorUnsupported, "version")
	}

	if len(req.PublicKey) == 0 || len(req.PublicKey) > maxPublicKeyBytes {
		return wire.NewErrorResponse(msg, protoerr.ErrorInvalidValue, "public_key")
	}

	identityID := sha256.Sum256(req.PublicKey)

	challenge := make([]byte, 32)
	if _, err := rand.Read(challenge); err != nil {
		return wire.NewErrorResponse(msg, protoerr.ErrorInternal, "")
	}

	sess.SetIdentity(ed25519.PublicKey(req.PublicKey), identityID)
	sess.SetChallenge([32]byte(challenge))
	sess.SetStatus(wire.ConversationStarted)

	if hc.Registry != nil {
		hc.Registry.AddPeerWithIdentity(sess, identityID)
	}

	sig := wire.SignConversation(hc.NodePrivateKey, req.ClientChallenge)

	return wire.NewResponse(msg.ID, wire.KindConversationRequest, wire.ReqStartConversation, &wire.StartConversationResponse{
		Version:         negotiated,
		PublicKey:       hc.NodePublicKey,
		Challenge:       challenge,
		ClientChallenge: req.ClientChallenge,
		Signature:       sig,
	})
}

func tripleSlice(in [][3]byte) []version.Triple {
	out := make([]version.Triple, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

// verifyChallengeAndSignature implements the shared
// VerifyIdentity/CheckIn precondition: byte-for-byte challenge comparison
// plus Ed25519 verification of the conversation signature.
func verifyChallengeAndSignature(sess *session.Session, msg *wire.Message, claimedChallenge []byte) error {
	want := sess.Challenge()
	if !bytes.Equal(claimedChallenge, want[:]) {
		return protoerr.New(protoerr.ErrorInvalidValue)
	}

	signed := signedBodyOf(msg)
	return wire.VerifyConversation(sess.PublicKey(), signed, msg.Conversation.Signature)
}

// signedBodyOf returns the bytes whose signature is checked: the raw
// challenge bytes of a VerifyIdentity or CheckIn request, and nil for any
// other body. The remaining fields and the envelope of the request are not
// covered by the verified signature.
func signedBodyOf(msg *wire.Message) []byte {
	switch body := msg.Conversation.Body.(type) {
	case *wire.VerifyIdentityRequest:
		return body.Challenge
	case *wire.CheckInRequest:
		return body.Challenge
	default:
		return nil
	}
}

func handleVerifyIdentity(_ *engine.Context, sess *session.Session, msg *wire.Message) *wire.Message {
	req := msg.Conversation.Body.(*wire.VerifyIdentityRequest)

	if err := verifyChallengeAndSignature(sess, msg, req.Challenge); err != nil {
		return wire.NewErrorResponse(msg, protoerr.CodeOf(err), "")
	}

	sess.SetStatus(wire.Verified)
	return wire.NewResponse(msg.ID, wire.KindConversationRequest, wire.ReqVerifyIdentity, nil)
}

func handleCheckIn(hc *engine.Context, sess *session.Session, msg *wire.Message) *wire.Message {
	req := msg.Conversation.Body.(*wire.CheckInRequest)

	if err := verifyChallengeAndSignature(sess, msg, req.Challenge); err != nil {
		return wire.NewErrorResponse(msg, protoerr.CodeOf(err), "")
	}

	identityID, _ := sess.Identity()

	if hc.Repo != nil {
		ctx := hc.Ctx
		if ctx == nil {
			ctx = context.Background()
		}
		hosting, err := hc.Repo.GetHosting(ctx, identityID[:])
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return wire.NewErrorResponse(msg, protoerr.ErrorUnauthorized, "not_hosted")
			}
			return wire.NewErrorResponse(msg, protoerr.ErrorInternal, "")
		}
		if hosting.ExpirationDate != nil && hosting.ExpirationDate.Before(time.Now()) {
			return wire.NewErrorResponse(msg, protoerr.ErrorUnauthorized, "expired")
		}
	}

	sess.SetStatus(wire.Authenticated)
	sess.SetCheckedIn(true)

	if hc.Registry != nil {
		if evicted, had := hc.Registry.AddCheckedIn(identityID, sess); had {
			evicted.SetCheckedIn(false)
			go evicted.Close()
		}
	}

	return wire.NewResponse(msg.ID, wire.KindConversationRequest, wire.ReqCheckIn, nil)
}
