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

// Package version negotiates the 3-byte major.minor.patch protocol version
// tuples exchanged during StartConversation.
package version

import (
	"fmt"

	hashver "github.com/hashicorp/go-version"
)

// Triple is a protocol version tuple as carried on the wire: one byte each
// for major, minor, patch.
type Triple [3]byte

func (t Triple) String() string {
	return fmt.Sprintf("%d.%d.%d", t[0], t[1], t[2])
}

// Semantic returns the hashicorp/go-version representation of t, used for
// ordering and comparison when a future server supports more than one
// protocol version.
func (t Triple) Semantic() (*hashver.Version, error) {
	return hashver.NewVersion(t.String())
}

// Current is the single protocol version this node implements.
var Current = Triple{1, 0, 0}

// Supported is every protocol version this server accepts, in no particular
// order; today that is exactly Current.
var Supported = []Triple{Current}

// Negotiate iterates the client-offered versions in the client's stated
// preference order and returns the first one this server also supports.
// The second return value is false if none matched.
func Negotiate(clientOffered []Triple) (Triple, bool) {
	for _, offered := range clientOffered {
		for _, ours := range Supported {
			if offered == ours {
				return offered, true
			}
		}
	}
	return Triple{}, false
}
