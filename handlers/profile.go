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
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/sabouaram/profile-node/engine"
	"github.com/sabouaram/profile-node/imagestore"
	"github.com/sabouaram/profile-node/protoerr"
	"github.com/sabouaram/profile-node/repository"
	"github.com/sabouaram/profile-node/session"
	"github.com/sabouaram/profile-node/wire"
)

const (
	maxProfileNameLengthBytes  = 128
	maxProfileImageLengthBytes = 2 << 20 // 2 MiB
	maxExtraDataLengthBytes    = 4096
	cancelGraceDays            = 14
)

func init() {
	engine.Register(wire.ReqUpdateProfile, engine.Entry{
		RequiredRole:   wire.ClientCustomer,
		RequiredStatus: &statusAuthenticated,
		Handler:        handleUpdateProfile,
	})
	cancel := engine.Entry{
		RequiredRole:   wire.ClientCustomer,
		RequiredStatus: &statusAuthenticated,
		Handler:        handleCancelAgreement,
	}
	engine.Register(wire.ReqCancelHomeNodeAgreement, cancel)
	engine.Register(wire.ReqCancelHostingAgreement, cancel)
}

// handleUpdateProfile validates the update bitmask and fields, writes any
// new images to the image store before the db swap, then best-effort
// deletes the superseded image files.
func handleUpdateProfile(hc *engine.Context, sess *session.Session, msg *wire.Message) *wire.Message {
	req := msg.Conversation.Body.(*wire.UpdateProfileRequest)

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

	hosting, err := hc.Repo.GetHosting(ctx, identityID[:])
	if err != nil {
		return wire.NewErrorResponse(msg, protoerr.ErrorUnauthorized, "not_hosted")
	}

	if !hosting.Initialized && !(req.SetVersion && req.SetName && req.SetLocation) {
		return wire.NewErrorResponse(msg, protoerr.ErrorInvalidValue, "initialization_incomplete")
	}
	if !req.SetVersion && !req.SetName && !req.SetLocation && !req.SetImage && !req.SetExtraData {
		return wire.NewErrorResponse(msg, protoerr.ErrorInvalidValue, "no_fields_set")
	}

	if req.SetName {
		if !utf8.ValidString(req.Name) || len(req.Name) > maxProfileNameLengthBytes {
			return wire.NewErrorResponse(msg, protoerr.ErrorInvalidValue, "name")
		}
	}
	if req.SetExtraData {
		if !utf8.ValidString(req.ExtraData) || len(req.ExtraData) > maxExtraDataLengthBytes {
			return wire.NewErrorResponse(msg, protoerr.ErrorInvalidValue, "extra_data")
		}
	}

	var newImageID, newThumbID string
	if req.SetImage {
		if len(req.Image) == 0 || len(req.Image) > maxProfileImageLengthBytes {
			return wire.NewErrorResponse(msg, protoerr.ErrorInvalidValue, "image")
		}
		format, ok := imagestore.ValidateImageFormat(req.Image)
		if !ok {
			return wire.NewErrorResponse(msg, protoerr.ErrorInvalidValue, "image_format")
		}
		thumb, err := imagestore.ProfileImageToThumbnailImage(req.Image, format)
		if err != nil {
			return wire.NewErrorResponse(msg, protoerr.ErrorInvalidValue, "image_thumbnail")
		}
		if hc.Images == nil {
			return wire.NewErrorResponse(msg, protoerr.ErrorUninitialized, "no_imagestore")
		}
		id, err := hc.Images.Put(ctx, req.Image)
		if err != nil {
			return wire.NewErrorResponse(msg, protoerr.ErrorInternal, "image_store")
		}
		thumbID, err := hc.Images.Put(ctx, thumb)
		if err != nil {
			_ = hc.Images.Delete(ctx, id)
			return wire.NewErrorResponse(msg, protoerr.ErrorInternal, "thumbnail_store")
		}
		newImageID, newThumbID = id, thumbID
	}

	fields := repository.UpdateProfileFields{}
	if req.SetVersion {
		fields.Version = []byte{req.Version}
	}
	if req.SetName {
		fields.Name = &req.Name
	}
	if req.SetLocation {
		fields.Latitude = &req.Latitude
		fields.Longitude = &req.Longitude
	}
	if req.SetImage {
		fields.ImageID = &newImageID
		fields.ThumbnailID = &newThumbID
	}
	if req.SetExtraData {
		fields.ExtraData = []byte(req.ExtraData)
	}

	oldImageID, oldThumbID := hosting.ImageID, hosting.ThumbnailID

	err = hc.Repo.WithIdentityLock(ctx, identityID[:], func(tx *gorm.DB) error {
		return hc.Repo.UpdateHostingProfile(tx, identityID[:], fields)
	})
	if err != nil {
		if req.SetImage {
			_ = hc.Images.Delete(ctx, newImageID)
			_ = hc.Images.Delete(ctx, newThumbID)
		}
		return wire.NewErrorResponse(msg, protoerr.ErrorInternal, "")
	}

	if req.SetImage && hc.Images != nil {
		if oldImageID != "" {
			_ = hc.Images.Delete(ctx, oldImageID)
		}
		if oldThumbID != "" {
			_ = hc.Images.Delete(ctx, oldThumbID)
		}
	}

	return wire.NewResponse(msg.ID, wire.KindConversationRequest, wire.ReqUpdateProfile, nil)
}

// handleCancelAgreement implements CancelHomeNodeAgreement and
// CancelHostingAgreement with the same logic: the request's Redirect flag
// alone selects the grace period and whether a redirect target is recorded.
func handleCancelAgreement(hc *engine.Context, sess *session.Session, msg *wire.Message) *wire.Message {
	req := msg.Conversation.Body.(*wire.CancelAgreementRequest)

	if hc.Repo == nil {
		return wire.NewErrorResponse(msg, protoerr.ErrorUninitialized, "no_repository")
	}

	identityID, ok := sess.Identity()
	if !ok {
		return wire.NewErrorResponse(msg, protoerr.ErrorBadConversationStatus, "")
	}

	if req.Redirect && len(req.TargetNodeID) != 32 {
		return wire.NewErrorResponse(msg, protoerr.ErrorInvalidValue, "target_node_id")
	}

	expiresAt := time.Now()
	var redirect []byte
	if req.Redirect {
		expiresAt = expiresAt.AddDate(0, 0, cancelGraceDays)
		redirect = req.TargetNodeID
	}

	ctx := hc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	err := hc.Repo.WithIdentityLock(ctx, identityID[:], func(tx *gorm.DB) error {
		return hc.Repo.CancelHosting(tx, identityID[:], expiresAt, redirect)
	})
	if err != nil {
		return wire.NewErrorResponse(msg, protoerr.ErrorInternal, "")
	}

	return wire.NewResponse(msg.ID, wire.KindConversationRequest, msg.Conversation.Type, nil)
}
