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
	"strings"

	"github.com/sabouaram/profile-node/engine"
	"github.com/sabouaram/profile-node/protoerr"
	"github.com/sabouaram/profile-node/session"
	"github.com/sabouaram/profile-node/wire"
)

func init() {
	entry := engine.Entry{
		RequiredRole: wire.ClientCustomer | wire.ClientNonCustomer,
		Handler:      handleGetIdentityInformation,
	}
	engine.Register(wire.ReqGetIdentityInformation, entry)
	engine.Register(wire.ReqGetProfileInformation, entry)
}

// handleGetIdentityInformation answers both GetIdentityInformation and
// GetProfileInformation with a single database lookup, shaped into either
// the "hosted here" view or the "moved, follow the redirect" view.
func handleGetIdentityInformation(hc *engine.Context, sess *session.Session, msg *wire.Message) *wire.Message {
	var targetID []byte
	switch body := msg.Single.Body.(type) {
	case *wire.GetIdentityInformationRequest:
		targetID = body.IdentityID
	case *wire.GetProfileInformationRequest:
		targetID = body.IdentityID
	}
	if len(targetID) != 32 {
		return wire.NewErrorResponse(msg, protoerr.ErrorInvalidValue, "identity_id")
	}

	if hc.Repo == nil {
		return wire.NewErrorResponse(msg, protoerr.ErrorUninitialized, "no_repository")
	}

	ctx := hc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	hosting, err := hc.Repo.GetHosting(ctx, targetID)
	if err != nil {
		return wire.NewResponse(msg.ID, wire.KindSingleRequest, requestTypeOf(msg), &wire.GetIdentityInformationResponse{
			IsHosted: false,
		})
	}

	if hosting.ExpirationDate != nil && hosting.RedirectTarget != nil {
		return wire.NewResponse(msg.ID, wire.KindSingleRequest, requestTypeOf(msg), &wire.GetIdentityInformationResponse{
			IsHosted:         false,
			TargetHomeNodeID: hosting.RedirectTarget,
		})
	}

	if !hosting.Initialized {
		return wire.NewResponse(msg.ID, wire.KindSingleRequest, requestTypeOf(msg), &wire.GetIdentityInformationResponse{
			IsHosted: false,
		})
	}

	var isOnline bool
	var identityID [32]byte
	copy(identityID[:], targetID)
	if hc.Registry != nil {
		_, isOnline = hc.Registry.GetCheckedIn(identityID)
	}

	var profileImage, thumbnail []byte
	if hc.Images != nil {
		if hosting.ImageID != "" {
			profileImage, _ = hc.Images.Get(ctx, hosting.ImageID)
		}
		if hosting.ThumbnailID != "" {
			thumbnail, _ = hc.Images.Get(ctx, hosting.ThumbnailID)
		}
	}

	var services []string
	if hosting.ApplicationServices != "" {
		services = strings.Split(hosting.ApplicationServices, "\n")
	}

	return wire.NewResponse(msg.ID, wire.KindSingleRequest, requestTypeOf(msg), &wire.GetIdentityInformationResponse{
		IsHosted:            true,
		IsOnline:            isOnline,
		PublicKey:           hosting.PublicKey,
		Name:                hosting.Name,
		ExtraData:           string(hosting.ExtraData),
		ProfileImage:        profileImage,
		Thumbnail:           thumbnail,
		ApplicationServices: services,
	})
}

func requestTypeOf(msg *wire.Message) wire.RequestType {
	if msg.Single != nil {
		return msg.Single.Type
	}
	return 0
}
