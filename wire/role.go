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

import "strings"

// Role is a bit-flag set; a listener may carry more than one.
type Role uint16

const (
	Primary Role = 1 << iota
	ServerNeighbor
	ClientCustomer
	ClientNonCustomer
	ClientAppService

	// Legacy flags kept for wire/config compatibility with older peers.
	NodeNeighbor
	NodeColleague
)

// Has reports whether r carries every flag set in mask.
func (r Role) Has(mask Role) bool {
	return r&mask == mask
}

// Any reports whether r carries at least one flag of mask.
func (r Role) Any(mask Role) bool {
	return r&mask != 0
}

// IsServerFacing reports whether r is tagged for server-to-server traffic.
func (r Role) IsServerFacing() bool {
	return r.Any(Primary | ServerNeighbor | NodeNeighbor | NodeColleague)
}

// IsClientFacing reports whether r is tagged for end-user/client traffic.
func (r Role) IsClientFacing() bool {
	return r.Any(ClientCustomer | ClientNonCustomer | ClientAppService)
}

// IsCustomer reports whether r is the hosted-customer role.
func (r Role) IsCustomer() bool {
	return r.Has(ClientCustomer)
}

var roleNames = []struct {
	flag Role
	name string
}{
	{Primary, "Primary"},
	{ServerNeighbor, "ServerNeighbor"},
	{ClientCustomer, "ClientCustomer"},
	{ClientNonCustomer, "ClientNonCustomer"},
	{ClientAppService, "ClientAppService"},
	{NodeNeighbor, "NodeNeighbor"},
	{NodeColleague, "NodeColleague"},
}

func (r Role) String() string {
	var parts []string
	for _, rn := range roleNames {
		if r.Has(rn.flag) {
			parts = append(parts, rn.name)
		}
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, "|")
}

// ConnIDBase returns the base value a connection id for this role should be
// offset from: the role's index packed into the high 8 bits of a 64-bit id,
// keeping id spaces disjoint per role.
func (r Role) ConnIDBase() uint64 {
	return uint64(roleIndex(r)) << 56
}

// MsgIDBase returns the base value message ids on this role's listener are
// offset from: the role's index packed into the high byte of a 32-bit id,
// keeping per-role message-id spaces disjoint within one process.
func (r Role) MsgIDBase() uint32 {
	return uint32(roleIndex(r)) << 24
}

func roleIndex(r Role) uint8 {
	for i, rn := range roleNames {
		if r.Has(rn.flag) && r == rn.flag {
			return uint8(i + 1)
		}
	}
	// Composite listener roles (rare) fold onto the lowest set bit's index.
	for i, rn := range roleNames {
		if r.Has(rn.flag) {
			return uint8(i + 1)
		}
	}
	return 0
}
