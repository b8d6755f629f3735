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
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
)

// identityFileName sits next to the sqlite database file: the conversation
// handshake signs with the node's own Ed25519 key, a keypair distinct from
// any hosted identity's, so it needs a stable home that survives a
// restart. Config's key set doesn't name a path for it, so it is derived
// from database_path's directory rather than adding a new config key for a
// single file.
const identityFileName = "node_identity.key"

// loadOrCreateNodeIdentity reads a raw 64-byte Ed25519 seed-plus-public-key
// blob from dir/identityFileName, generating and persisting one (mode
// 0o600) if absent. crypto/ed25519's own format is already the natural
// on-disk encoding for a long-lived keypair file, so this stays
// stdlib-only rather than reaching for a serialization library.
func loadOrCreateNodeIdentity(dir string) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	path := filepath.Join(dir, identityFileName)

	raw, err := os.ReadFile(path)
	if err == nil {
		if len(raw) != ed25519.PrivateKeySize {
			return nil, nil, fmt.Errorf("node: %s has %d bytes, want %d", path, len(raw), ed25519.PrivateKeySize)
		}
		priv := ed25519.PrivateKey(raw)
		return priv, priv.Public().(ed25519.PublicKey), nil
	}
	if !os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("node: read %s: %w", path, err)
	}

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("node: generate identity: %w", err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("node: create %s: %w", dir, err)
	}
	if err := os.WriteFile(path, priv, 0o600); err != nil {
		return nil, nil, fmt.Errorf("node: write %s: %w", path, err)
	}
	return priv, pub, nil
}
