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

package registry_test

import (
	"github.com/sabouaram/profile-node/registry"
	"github.com/sabouaram/profile-node/wire"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Registry peer tracking", func() {
	var reg *registry.Registry

	BeforeEach(func() {
		reg = registry.New()
	})

	It("finds a peer added without an identity by connection id only", func() {
		s := pipeSession(1, wire.ClientCustomer)
		reg.AddPeer(s)

		got, ok := reg.GetByConnID(1)
		Expect(ok).To(BeTrue())
		Expect(got).To(BeIdenticalTo(s))
		Expect(reg.Len()).To(Equal(1))
	})

	It("indexes a peer by identity once one is attached", func() {
		s := pipeSession(2, wire.ClientCustomer)
		id := identityOf(0xAA)
		reg.AddPeerWithIdentity(s, id)

		sessions := reg.SessionsForIdentity(id)
		Expect(sessions).To(ConsistOf(s))
	})

	It("supports more than one live connection per identity", func() {
		id := identityOf(0xBB)
		s1 := pipeSession(3, wire.ClientCustomer)
		s2 := pipeSession(4, wire.ClientCustomer)
		reg.AddPeerWithIdentity(s1, id)
		reg.AddPeerWithIdentity(s2, id)

		Expect(reg.SessionsForIdentity(id)).To(ConsistOf(s1, s2))
		Expect(reg.Len()).To(Equal(2))
	})

	It("removes a peer from every index on disconnect", func() {
		id := identityOf(0xCC)
		s := pipeSession(5, wire.ClientCustomer)
		reg.AddPeerWithIdentity(s, id)

		reg.RemovePeer(5)

		_, ok := reg.GetByConnID(5)
		Expect(ok).To(BeFalse())
		Expect(reg.SessionsForIdentity(id)).To(BeEmpty())
	})
})

var _ = Describe("Registry checked-in eviction", func() {
	var reg *registry.Registry

	BeforeEach(func() {
		reg = registry.New()
	})

	// Invariant 4: at most one checked-in session per identity; a new
	// check-in on the same identity evicts the previous one.
	It("allows at most one checked-in session per identity", func() {
		id := identityOf(0x01)
		first := pipeSession(10, wire.ClientCustomer)
		second := pipeSession(11, wire.ClientCustomer)

		evicted, had := reg.AddCheckedIn(id, first)
		Expect(had).To(BeFalse())
		Expect(evicted).To(BeNil())

		evicted, had = reg.AddCheckedIn(id, second)
		Expect(had).To(BeTrue())
		Expect(evicted).To(BeIdenticalTo(first))

		current, ok := reg.GetCheckedIn(id)
		Expect(ok).To(BeTrue())
		Expect(current).To(BeIdenticalTo(second))
	})

	It("re-checking in the same session is not reported as an eviction", func() {
		id := identityOf(0x02)
		s := pipeSession(12, wire.ClientCustomer)

		_, _ = reg.AddCheckedIn(id, s)
		evicted, had := reg.AddCheckedIn(id, s)

		Expect(had).To(BeFalse())
		Expect(evicted).To(BeNil())
	})

	It("clears the checked-in slot when that connection is removed", func() {
		id := identityOf(0x03)
		s := pipeSession(13, wire.ClientCustomer)
		reg.AddPeerWithIdentity(s, id)
		_, _ = reg.AddCheckedIn(id, s)

		reg.RemovePeer(13)

		_, ok := reg.GetCheckedIn(id)
		Expect(ok).To(BeFalse())
	})

	It("leaves the checked-in slot alone when a different, older connection for the same identity is removed", func() {
		id := identityOf(0x04)
		older := pipeSession(14, wire.ClientCustomer)
		newer := pipeSession(15, wire.ClientCustomer)
		reg.AddPeerWithIdentity(older, id)
		reg.AddPeerWithIdentity(newer, id)
		_, _ = reg.AddCheckedIn(id, newer)

		reg.RemovePeer(14)

		current, ok := reg.GetCheckedIn(id)
		Expect(ok).To(BeTrue())
		Expect(current).To(BeIdenticalTo(newer))
	})
})

var _ = Describe("Registry role counting", func() {
	It("counts only sessions carrying every flag in the mask", func() {
		reg := registry.New()
		reg.AddPeer(pipeSession(20, wire.ClientCustomer))
		reg.AddPeer(pipeSession(21, wire.ClientCustomer))
		reg.AddPeer(pipeSession(22, wire.ServerNeighbor))

		Expect(reg.CountByRole(wire.ClientCustomer)).To(Equal(2))
		Expect(reg.CountByRole(wire.ServerNeighbor)).To(Equal(1))
		Expect(reg.Snapshot()).To(HaveLen(3))
	})
})
