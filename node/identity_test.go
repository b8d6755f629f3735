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

package node

import (
	"bytes"
	"testing"
)

func TestLoadOrCreateNodeIdentityPersistsAcrossCalls(t *testing.T) {
	dir := t.TempDir()

	priv1, pub1, err := loadOrCreateNodeIdentity(dir)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if len(pub1) == 0 {
		t.Fatalf("expected a non-empty public key")
	}

	priv2, pub2, err := loadOrCreateNodeIdentity(dir)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}

	if !bytes.Equal(priv1, priv2) {
		t.Fatalf("private key changed across calls: a fresh keypair was generated instead of reusing the persisted one")
	}
	if !bytes.Equal(pub1, pub2) {
		t.Fatalf("public key changed across calls")
	}
}

func TestBindInterface(t *testing.T) {
	if bindInterface("any") != "" {
		t.Fatalf(`bindInterface("any") should map to the wildcard address`)
	}
	if bindInterface("192.0.2.1") != "192.0.2.1" {
		t.Fatalf("bindInterface should pass a concrete address through unchanged")
	}
}
