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

// Package imagestore writes profile images and thumbnails under a data
// folder and a tmp folder.
package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const thumbnailMaxDim = 200

// Format is a sniffed image container format.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatPNG
	FormatJPEG
)

// ValidateImageFormat sniffs data's magic bytes and reports whether it is
// a well-formed PNG or JPEG.
func ValidateImageFormat(data []byte) (Format, bool) {
	switch {
	case len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
			return FormatUnknown, false
		}
		return FormatPNG, true
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		if _, err := jpeg.DecodeConfig(bytes.NewReader(data)); err != nil {
			return FormatUnknown, false
		}
		return FormatJPEG, true
	default:
		return FormatUnknown, false
	}
}

// ProfileImageToThumbnailImage decodes a validated profile image and
// produces a bounded-dimension thumbnail in the same container format,
// using a simple nearest-neighbor resize (no third-party image library
// appears anywhere in the retrieved corpus; see DESIGN.md).
func ProfileImageToThumbnailImage(data []byte, format Format) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imagestore: decode: %w", err)
	}

	thumb := resize(img, thumbnailMaxDim)

	var buf bytes.Buffer
	switch format {
	case FormatPNG:
		err = png.Encode(&buf, thumb)
	case FormatJPEG:
		err = jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 85})
	default:
		return nil, fmt.Errorf("imagestore: unsupported format")
	}
	if err != nil {
		return nil, fmt.Errorf("imagestore: encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

func resize(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return src
	}

	scale := float64(maxDim) / float64(w)
	if h > w {
		scale = float64(maxDim) / float64(h)
	}
	nw, nh := int(float64(w)*scale), int(float64(h)*scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	for y := 0; y < nh; y++ {
		for x := 0; x < nw; x++ {
			sx := b.Min.X + x*w/nw
			sy := b.Min.Y + y*h/nh
			dst.Set(x, y, src.At(sx, sy))
		}
	}
	return dst
}

// Store writes and deletes image files under dataDir, staging new writes
// under tmpDir with collision-free uuid names before the caller commits
// the swap in the database.
type Store struct {
	dataDir string
	tmpDir  string
}

// New returns a Store rooted at dataDir/tmpDir, creating them if absent.
func New(dataDir, tmpDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dataDir: dataDir, tmpDir: tmpDir}, nil
}

// Put validates, writes, and returns a new collision-free id for data.
func (s *Store) Put(_ context.Context, data []byte) (id string, err error) {
	if _, ok := ValidateImageFormat(data); !ok {
		return "", fmt.Errorf("imagestore: invalid image format")
	}

	id = uuid.NewString()
	tmp := filepath.Join(s.tmpDir, id)
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", err
	}
	final := filepath.Join(s.dataDir, id)
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return id, nil
}

// Get reads the image stored under id.
func (s *Store) Get(_ context.Context, id string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dataDir, id))
}

// Delete removes the image stored under id and returns any removal error
// to the caller; an empty id is a no-op. A file is left behind if the
// process dies between the database commit and this call.
func (s *Store) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	return os.Remove(filepath.Join(s.dataDir, id))
}
