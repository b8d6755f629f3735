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
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sabouaram/profile-node/engine"
	"github.com/sabouaram/profile-node/protoerr"
	"github.com/sabouaram/profile-node/repository"
	"github.com/sabouaram/profile-node/session"
	"github.com/sabouaram/profile-node/wire"
)

func init() {
	entry := engine.Entry{
		RequiredRole:   wire.ServerNeighbor | wire.ClientNonCustomer,
		RequiredStatus: &statusConversationStarted,
		Handler:        handleRegisterHosting,
	}
	engine.Register(wire.ReqHomeNodeRequest, entry)
	engine.Register(wire.ReqRegisterHosting, entry)
}

// handleRegisterHosting answers both HomeNodeRequest and RegisterHosting:
// within the per-identity lock, count hosted identities against the
// quota, then insert a fresh row or revive a cancelled one.
func handleRegisterHosting(hc *engine.Context, sess *session.Session, msg *wire.Message) *wire.Message {
	if hc.Repo == nil {
		return wire.NewErrorResponse(msg, protoerr.ErrorUninitialized, "no_repository")
	}

	identityID, ok := sess.Identity()
	if !ok {
		return wire.NewErrorResponse(msg, protoerr.ErrorBadConversationStatus, "")
	}

	ctx := hc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	err := hc.Repo.WithIdentityLock(ctx, identityID[:], func(tx *gorm.DB) error {
		count, err := hc.Repo.CountHostedIdentities(ctx)
		if err != nil {
			return err
		}
		if hc.MaxHostedIdentities > 0 && count >= int64(hc.MaxHostedIdentities) {
			return protoerr.New(protoerr.ErrorQuotaExceeded)
		}
		return hc.Repo.CreateOrReviveHosting(tx, identityID[:], sess.PublicKey())
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyHosted) {
			return wire.NewErrorResponse(msg, protoerr.ErrorAlreadyExists, "")
		}
		return wire.NewErrorResponse(msg, protoerr.CodeOf(err), "")
	}

	return wire.NewResponse(msg.ID, wire.KindConversationRequest, msg.Conversation.Type, &wire.HomeNodeResponse{})
}
