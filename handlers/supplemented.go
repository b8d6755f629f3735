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

// supplemented.go implements the handler roster whose business logic goes
// beyond the shared admission + dispatch template: neighborhood
// replication, colleague search, and application-service relay.
package handlers

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/sabouaram/profile-node/engine"
	"github.com/sabouaram/profile-node/logger"
	"github.com/sabouaram/profile-node/metrics"
	"github.com/sabouaram/profile-node/protoerr"
	"github.com/sabouaram/profile-node/session"
	"github.com/sabouaram/profile-node/wire"
)

const (
	defaultMaxNeighborhoodSize = 64
	defaultMaxSearchResults    = 20
	defaultMaxIdentityRelations = 100
	defaultNeighborhoodInitParallelism = 4
)

func init() {
	statusVerified := wire.Verified

	engine.Register(wire.ReqGetNeighbourNodesByDistance, engine.Entry{
		RequiredRole: wire.ServerNeighbor,
		Handler:      handleGetNeighbourNodesByDistance,
	})
	engine.Register(wire.ReqNeighbourhoodChanged, engine.Entry{
		RequiredRole:   wire.ServerNeighbor,
		RequiredStatus: &statusVerified,
		Handler:        handleNeighbourhoodChanged,
	})
	engine.Register(wire.ReqGetNodeCount, engine.Entry{
		Handler: handleGetNodeCount,
	})
	engine.Register(wire.ReqLocalSearchProfile, engine.Entry{
		RequiredRole: wire.ClientCustomer | wire.ClientNonCustomer,
		Handler:      handleLocalSearchProfile,
	})
	engine.Register(wire.ReqGetRelatedIdentities, engine.Entry{
		RequiredRole:   wire.ClientCustomer,
		RequiredStatus: &statusAuthenticated,
		Handler:        handleGetRelatedIdentities,
	})
	engine.Register(wire.ReqApplicationServiceRelay, engine.Entry{
		RequiredRole:   wire.ClientAppService,
		RequiredStatus: &statusAuthenticated,
		Handler:        handleApplicationServiceRelay,
	})
}

// handleGetNeighbourNodesByDistance returns this node's locally known
// neighborhood so a sibling server can seed its own table. The core does
// not maintain a persisted neighbor table, so the response merges the
// registry's current ServerNeighbor connections with whatever this node
// has itself fetched from those neighbors via handleNeighbourhoodChanged.
func handleGetNeighbourNodesByDistance(hc *engine.Context, _ *session.Session, msg *wire.Message) *wire.Message {
	limit := hc.MaxNeighborhoodSize
	if limit <= 0 {
		limit = defaultMaxNeighborhoodSize
	}

	var nodes []wire.NeighbourNode
	if hc.Registry != nil {
		for _, peer := range hc.Registry.Snapshot() {
			if len(nodes) >= limit {
				break
			}
			if !peer.Role.Has(wire.ServerNeighbor) {
				continue
			}
			nodes = append(nodes, wire.NeighbourNode{
				Address: peer.RemoteEndpoint,
			})
		}
	}

	if hc.Neighbors != nil {
		for _, n := range hc.Neighbors.All() {
			if len(nodes) >= limit {
				break
			}
			nodes = append(nodes, n)
		}
	}

	return wire.NewResponse(msg.ID, wire.KindSingleRequest, wire.ReqGetNeighbourNodesByDistance,
		&wire.GetNeighbourNodesByDistanceResponse{Nodes: nodes})
}

// handleNeighbourhoodChanged replies Ok immediately and kicks off a
// bounded-parallelism background refresh of the changed neighbor's own
// neighbor set.
func handleNeighbourhoodChanged(hc *engine.Context, sess *session.Session, msg *wire.Message) *wire.Message {
	req := msg.Conversation.Body.(*wire.NeighbourhoodChangedRequest)

	parallelism := hc.NeighborhoodInitParallelism
	if parallelism <= 0 {
		parallelism = defaultNeighborhoodInitParallelism
	}

	go refreshNeighbour(hc, sess, req.ChangedNodeID, parallelism)

	return wire.NewResponse(msg.ID, wire.KindConversationRequest, wire.ReqNeighbourhoodChanged, nil)
}

// refreshNeighbour re-fetches the changed neighbor's own neighbor set over
// the session that reported the change, capped at parallelism concurrent
// sub-fetches. There is presently only one fetch step, so the semaphore
// bounds a future fan-out rather than today's single call; it is still
// acquired/released here so the contract holds once that fan-out exists.
func refreshNeighbour(hc *engine.Context, sess *session.Session, nodeID []byte, parallelism int) {
	ctx := hc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	sem := semaphore.NewWeighted(int64(parallelism))
	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := sem.Acquire(gctx, 1); err != nil {
			return err
		}
		defer sem.Release(1)

		if hc.Log != nil {
			hc.Log.Debug("neighborhood changed: refreshing neighbor", logger.Fields{"node_id": fmt.Sprintf("%x", nodeID)})
		}

		if sess == nil {
			return fmt.Errorf("no session to refresh neighbor over")
		}

		done := make(chan error, 1)
		req := sess.Builder.NewGetNeighbourNodesByDistance()
		err := sess.SendAndExpectResponse(req, nil, func(resp *wire.Message, _ interface{}) {
			if resp.Response == nil {
				done <- fmt.Errorf("neighbor refresh: missing response")
				return
			}
			if protoerr.CodeError(resp.Response.Status) != protoerr.Ok {
				done <- fmt.Errorf("neighbor refresh failed: status %d", resp.Response.Status)
				return
			}
			body, ok := resp.Response.Body.(*wire.GetNeighbourNodesByDistanceResponse)
			if !ok {
				done <- fmt.Errorf("neighbor refresh: unexpected response body")
				return
			}
			if hc.Neighbors != nil {
				hc.Neighbors.Store(nodeID, body.Nodes)
			}
			done <- nil
		})
		if err != nil {
			return err
		}

		select {
		case err := <-done:
			return err
		case <-gctx.Done():
			return gctx.Err()
		}
	})

	if err := group.Wait(); err != nil {
		metrics.NeighborRefreshes.WithLabelValues("error").Inc()
		if hc.Log != nil {
			hc.Log.Warning("neighborhood refresh failed", logger.Fields{"node_id": fmt.Sprintf("%x", nodeID)})
		}
		return
	}
	metrics.NeighborRefreshes.WithLabelValues("ok").Inc()
}

// handleGetNodeCount reports the locally-known neighborhood and follower
// counts for diagnostics.
func handleGetNodeCount(hc *engine.Context, _ *session.Session, msg *wire.Message) *wire.Message {
	var neighbors, followers uint32
	if hc.Registry != nil {
		neighbors = uint32(hc.Registry.CountByRole(wire.ServerNeighbor))
		followers = uint32(hc.Registry.CountByRole(wire.ClientCustomer | wire.ClientNonCustomer))
	}

	return wire.NewResponse(msg.ID, wire.KindSingleRequest, wire.ReqGetNodeCount, &wire.GetNodeCountResponse{
		NeighborCount: neighbors,
		FollowerCount: followers,
	})
}

// handleLocalSearchProfile runs a bounded substring search over locally
// hosted profile names.
func handleLocalSearchProfile(hc *engine.Context, _ *session.Session, msg *wire.Message) *wire.Message {
	req := msg.Single.Body.(*wire.LocalSearchProfileRequest)

	if hc.Repo == nil {
		return wire.NewErrorResponse(msg, protoerr.ErrorUninitialized, "no_repository")
	}

	limit := hc.MaxSearchResults
	if limit <= 0 {
		limit = defaultMaxSearchResults
	}

	ctx := hc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	rows, err := hc.Repo.SearchByNamePrefix(ctx, req.NameFragment, limit)
	if err != nil {
		return wire.NewErrorResponse(msg, protoerr.ErrorInternal, "")
	}

	matches := make([]wire.GetIdentityInformationResponse, 0, len(rows))
	for _, row := range rows {
		var services []string
		if row.ApplicationServices != "" {
			services = strings.Split(row.ApplicationServices, "\n")
		}
		var isOnline bool
		if hc.Registry != nil {
			var identityID [32]byte
			copy(identityID[:], row.IdentityID)
			_, isOnline = hc.Registry.GetCheckedIn(identityID)
		}
		matches = append(matches, wire.GetIdentityInformationResponse{
			IsHosted:            true,
			IsOnline:            isOnline,
			PublicKey:           row.PublicKey,
			Name:                row.Name,
			ExtraData:           string(row.ExtraData),
			ApplicationServices: services,
		})
	}

	return wire.NewResponse(msg.ID, wire.KindSingleRequest, wire.ReqLocalSearchProfile, &wire.LocalSearchProfileResponse{
		Matches: matches,
	})
}

// handleGetRelatedIdentities returns the identity ids related to the
// caller's own identity.
func handleGetRelatedIdentities(hc *engine.Context, sess *session.Session, msg *wire.Message) *wire.Message {
	if hc.Repo == nil {
		return wire.NewErrorResponse(msg, protoerr.ErrorUninitialized, "no_repository")
	}

	identityID, ok := sess.Identity()
	if !ok {
		return wire.NewErrorResponse(msg, protoerr.ErrorBadConversationStatus, "")
	}

	limit := hc.MaxIdentityRelations
	if limit <= 0 {
		limit = defaultMaxIdentityRelations
	}

	ctx := hc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	ids, err := hc.Repo.RelatedIdentities(ctx, identityID[:], limit)
	if err != nil {
		return wire.NewErrorResponse(msg, protoerr.ErrorInternal, "")
	}

	return wire.NewResponse(msg.ID, wire.KindConversationRequest, wire.ReqGetRelatedIdentities,
		&wire.GetRelatedIdentitiesResponse{IdentityIDs: ids})
}

// handleApplicationServiceRelay establishes a Relay pairing this session
// (the caller) with the checked_in session of the identity advertising the
// requested application service (the callee).
func handleApplicationServiceRelay(hc *engine.Context, sess *session.Session, msg *wire.Message) *wire.Message {
	req := msg.Conversation.Body.(*wire.ApplicationServiceRelayRequest)

	if hc.Registry == nil || len(req.TargetIdentityID) != 32 {
		return wire.NewErrorResponse(msg, protoerr.ErrorNotAvailable, "")
	}

	var targetID [32]byte
	copy(targetID[:], req.TargetIdentityID)

	callee, online := hc.Registry.GetCheckedIn(targetID)
	if !online {
		return wire.NewErrorResponse(msg, protoerr.ErrorNotAvailable, "offline")
	}

	advertised := false
	for _, name := range callee.ApplicationServices() {
		if name == req.ApplicationService {
			advertised = true
			break
		}
	}
	if !advertised {
		return wire.NewErrorResponse(msg, protoerr.ErrorNotAvailable, "service")
	}

	session.NewRelay(sess, callee)

	return wire.NewResponse(msg.ID, wire.KindConversationRequest, wire.ReqApplicationServiceRelay,
		&wire.ApplicationServiceRelayResponse{})
}
