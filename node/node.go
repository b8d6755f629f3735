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

// Package node is the top-level wiring: it turns a validated config.Schema
// into a populated engine.Context and a component.Registry holding every
// long-lived collaborator (repository, image store, peer registry, one
// roleserver.Server per configured endpoint, the idle scanner), ready to
// Init/Start/Stop as one unit.
package node

import (
	"context"
	"crypto/tls"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	_ "github.com/sabouaram/profile-node/handlers"

	"github.com/sabouaram/profile-node/certificates"
	"github.com/sabouaram/profile-node/component"
	"github.com/sabouaram/profile-node/config"
	"github.com/sabouaram/profile-node/engine"
	"github.com/sabouaram/profile-node/imagestore"
	"github.com/sabouaram/profile-node/logger"
	"github.com/sabouaram/profile-node/metrics"
	"github.com/sabouaram/profile-node/registry"
	"github.com/sabouaram/profile-node/repository"
	"github.com/sabouaram/profile-node/roleserver"
	"github.com/sabouaram/profile-node/shutdown"
	"github.com/sabouaram/profile-node/wire"
)

// Node is a fully wired, not-yet-started node: the component graph and the
// engine.Context shared by every role server's handlers.
type Node struct {
	Components *component.Registry
	Context    *engine.Context
	Root       *shutdown.Node

	log  logger.Logger
	repo *repository.Component
	img  *imagestore.Component
}

// Build wires every collaborator named in the schema but starts nothing.
// The repository and image store are only opened once InitAll runs, so
// Context.Repo / Context.Images are nil until then; every handler reads
// them through the same *engine.Context pointer, so the two fields can be
// filled in after Init without re-handing the context to anyone.
func Build(schema *config.Schema, log logger.Logger) (*Node, error) {
	if log == nil {
		log = logger.New()
	}

	repoComponent := &repository.Component{Path: schema.DatabasePath}
	imageComponent := &imagestore.Component{DataDir: schema.ImageDataFolder, TmpDir: schema.TmpDataFolder}
	reg := registry.New()
	regComponent := registry.NewComponent(reg)

	privKey, pubKey, err := loadOrCreateNodeIdentity(filepath.Dir(schema.DatabasePath))
	if err != nil {
		return nil, err
	}

	var tlsConfig *tls.Config
	if needsTLS(schema) {
		tlsConfig, err = certificates.LoadServerConfig(schema.TLSCertificatePath, schema.TLSCertificatePassword)
		if err != nil {
			return nil, err
		}
	}

	endpoints := make([]wire.RoleEndpointInfo, 0, len(schema.Endpoints))
	for _, ep := range schema.Endpoints {
		endpoints = append(endpoints, wire.RoleEndpointInfo{
			Role: ep.Role,
			Port: uint16(ep.Port),
			TCP:  true,
			TLS:  ep.TLS,
		})
	}

	root := shutdown.NewRoot()

	hc := &engine.Context{
		Ctx:                         context.Background(),
		Registry:                    reg,
		Neighbors:                   engine.NewNeighborCache(time.Duration(schema.NeighborProfilesExpirationSec) * time.Second),
		Log:                         log,
		Endpoints:                   endpoints,
		NodePrivateKey:              privKey,
		NodePublicKey:               pubKey,
		MaxHostedIdentities:         schema.MaxHostedIdentities,
		MaxIdentityRelations:        schema.MaxIdentityRelations,
		MaxNeighborhoodSize:         schema.MaxNeighborhoodSize,
		NeighborhoodInitParallelism: schema.NeighborhoodInitializationParallelism,
	}

	components := component.New()
	for _, c := range []component.Component{repoComponent, imageComponent, regComponent} {
		if err := components.Add(c); err != nil {
			return nil, err
		}
	}

	connIDSource := new(atomic.Uint64)
	for _, ep := range schema.Endpoints {
		srv := &roleserver.Server{
			Endpoint:     wire.RoleEndpointInfo{Role: ep.Role, Port: uint16(ep.Port), TCP: true, TLS: ep.TLS},
			Address:      fmt.Sprintf("%s:%d", bindInterface(ep.Interface), ep.Port),
			Context:      hc,
			Registry:     reg,
			Log:          log.WithFields(logger.Fields{"role": ep.Role.String()}),
			ConnIDSource: connIDSource,
		}
		if ep.TLS {
			srv.TLSConfig = tlsConfig
		}
		if err := components.Add(srv); err != nil {
			return nil, err
		}
	}

	scanner := shutdown.NewScanner("idle-scanner", reg, log)
	if err := components.Add(scanner); err != nil {
		return nil, err
	}

	metricsSrv := &metrics.Server{Address: schema.MetricsAddress}
	if err := components.Add(metricsSrv); err != nil {
		return nil, err
	}

	return &Node{
		Components: components,
		Context:    hc,
		Root:       root,
		log:        log,
		repo:       repoComponent,
		img:        imageComponent,
	}, nil
}

// InitAll initializes every component in dependency order, then fills in
// Context.Repo / Context.Images from the just-opened repository component
// and image store component.
func (n *Node) InitAll(ctx context.Context) error {
	if err := n.Components.InitAll(ctx); err != nil {
		return err
	}
	n.Context.Repo = n.repo.Repo()
	n.Context.Images = n.img.Store()
	return nil
}

// StartAll starts every component, carrying Root under shutdown.RootKey()
// so role servers and the idle scanner derive their own shutdown.Node
// children from the one process-wide tree.
func (n *Node) StartAll(ctx context.Context) error {
	return n.Components.StartAll(shutdown.WithRoot(ctx, n.Root))
}

// StopAll triggers the shutdown tree and stops every component in reverse
// dependency order.
func (n *Node) StopAll(ctx context.Context) error {
	n.Root.Trigger()
	return n.Components.StopAll(ctx)
}

func needsTLS(schema *config.Schema) bool {
	for _, ep := range schema.Endpoints {
		if ep.TLS {
			return true
		}
	}
	return false
}

func bindInterface(iface string) string {
	if iface == "any" {
		return ""
	}
	return iface
}
