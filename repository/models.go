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

// Package repository is the persistent identity/hosting/relationship
// database the core consumes through a narrow interface, backed by
// gorm.io/gorm with the sqlite driver.
package repository

import "time"

// SettingRow is one row of the key/value settings table (PrivateKeyHex,
// PublicKeyHex, ExpandedPrivateKeyHex, NetworkInterface, PrimaryPort,
// CanIpnsLastSequenceNumber, CanProfileServerContactInformationHash,
// Initialized).
type SettingRow struct {
	Name  string `gorm:"primaryKey"`
	Value string
}

func (SettingRow) TableName() string { return "settings" }

// HostingRow is one hosted identity's profile row.
type HostingRow struct {
	IdentityID []byte `gorm:"primaryKey;size:32"`
	PublicKey  []byte `gorm:"size:32"`

	Version []byte `gorm:"column:version;size:3"`

	Name      string
	Latitude  float64
	Longitude float64
	ExtraData []byte

	ImageID     string
	ThumbnailID string

	ApplicationServices string // newline-joined; small cardinality (<=50), no join table needed

	Initialized bool

	ExpirationDate  *time.Time
	RedirectTarget  []byte `gorm:"size:32"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (HostingRow) TableName() string { return "hostings" }

// RelationshipRow records an accepted relationship between two identities,
// backing GetRelatedIdentities.
type RelationshipRow struct {
	IdentityID  []byte `gorm:"primaryKey;size:32"`
	RelatedID   []byte `gorm:"primaryKey;size:32"`
	CreatedAt   time.Time
}

func (RelationshipRow) TableName() string { return "relationships" }
