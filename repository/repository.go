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

package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a hosted identity row does not exist.
var ErrNotFound = errors.New("repository: not found")

// Repository is the core's persistent-state collaborator: settings,
// hosted-identity profiles, and accepted relationships.
type Repository struct {
	db *gorm.DB

	// locks guards a per-identity advisory lock, acquired before a
	// transaction starts and released after its commit/rollback: sqlite's
	// single writer already serializes cross-identity writes, so the
	// remaining invariant this protects is "check-then-act" inside one
	// identity's row (count-then-insert, swap-then-delete).
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// Open opens (creating if absent) the sqlite database at path and migrates
// the schema.
func Open(path string) (*Repository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&SettingRow{}, &HostingRow{}, &RelationshipRow{}); err != nil {
		return nil, err
	}
	return &Repository{db: db, locks: make(map[string]*sync.Mutex)}, nil
}

func (r *Repository) identityLock(identityID []byte) *sync.Mutex {
	key := string(identityID)
	r.locksMu.Lock()
	defer r.locksMu.Unlock()
	m, ok := r.locks[key]
	if !ok {
		m = &sync.Mutex{}
		r.locks[key] = m
	}
	return m
}

// WithIdentityLock runs fn inside a transaction while holding the advisory
// lock for identityID, releasing the lock only after commit/rollback.
func (r *Repository) WithIdentityLock(ctx context.Context, identityID []byte, fn func(tx *gorm.DB) error) error {
	lock := r.identityLock(identityID)
	lock.Lock()
	defer lock.Unlock()

	return r.db.WithContext(ctx).Transaction(fn)
}

// GetSetting reads one settings-table value.
func (r *Repository) GetSetting(ctx context.Context, name string) (string, bool, error) {
	var row SettingRow
	err := r.db.WithContext(ctx).First(&row, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Value, true, nil
}

// PutSetting upserts one settings-table value.
func (r *Repository) PutSetting(ctx context.Context, name, value string) error {
	row := SettingRow{Name: name, Value: value}
	return r.db.WithContext(ctx).Save(&row).Error
}

// GetHosting looks a hosted identity up by its 32-byte id.
func (r *Repository) GetHosting(ctx context.Context, identityID []byte) (*HostingRow, error) {
	var row HostingRow
	err := r.db.WithContext(ctx).First(&row, "identity_id = ?", identityID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CountHostedIdentities counts rows with no expiration set (active
// hostings), for the HomeNodeRequest quota check.
func (r *Repository) CountHostedIdentities(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&HostingRow{}).
		Where("expiration_date IS NULL").Count(&n).Error
	return n, err
}

// CreateOrReviveHosting inserts a fresh empty hosting row for identityID,
// or clears expiration_date on a previously cancelled row, inside tx. The
// caller must already hold the identity's advisory lock (WithIdentityLock)
// and must already have performed the max_hosted_identities count check.
func (r *Repository) CreateOrReviveHosting(tx *gorm.DB, identityID, publicKey []byte) error {
	var row HostingRow
	err := tx.First(&row, "identity_id = ?", identityID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return tx.Create(&HostingRow{IdentityID: identityID, PublicKey: publicKey}).Error
	case err != nil:
		return err
	case row.ExpirationDate == nil:
		return ErrAlreadyHosted
	default:
		return tx.Model(&row).Updates(map[string]interface{}{
			"expiration_date": nil,
			"redirect_target": nil,
		}).Error
	}
}

// ErrAlreadyHosted is returned by CreateOrReviveHosting when the identity
// already has an active (non-expired) hosting row.
var ErrAlreadyHosted = errors.New("repository: identity already hosted")

// UpdateProfileFields is the set of columns UpdateProfile may change; zero
// values mean "leave unchanged" and are excluded by the caller building
// the update map, not by this struct.
type UpdateProfileFields struct {
	Version     []byte
	Name        *string
	Latitude    *float64
	Longitude   *float64
	ImageID     *string
	ThumbnailID *string
	ExtraData   []byte
}

// UpdateHostingProfile applies fields to identityID's row and marks it
// initialized, inside tx (caller holds the identity lock).
func (r *Repository) UpdateHostingProfile(tx *gorm.DB, identityID []byte, fields UpdateProfileFields) error {
	updates := map[string]interface{}{"initialized": true}
	if fields.Version != nil {
		updates["version"] = fields.Version
	}
	if fields.Name != nil {
		updates["name"] = *fields.Name
	}
	if fields.Latitude != nil {
		updates["latitude"] = *fields.Latitude
	}
	if fields.Longitude != nil {
		updates["longitude"] = *fields.Longitude
	}
	if fields.ImageID != nil {
		updates["image_id"] = *fields.ImageID
	}
	if fields.ThumbnailID != nil {
		updates["thumbnail_id"] = *fields.ThumbnailID
	}
	if fields.ExtraData != nil {
		updates["extra_data"] = fields.ExtraData
	}
	return tx.Model(&HostingRow{}).Where("identity_id = ?", identityID).Updates(updates).Error
}

// CancelHosting sets expiration_date/redirect_target and force-initializes
// the row so later lookups still see it.
func (r *Repository) CancelHosting(tx *gorm.DB, identityID []byte, expiresAt time.Time, redirect []byte) error {
	return tx.Model(&HostingRow{}).Where("identity_id = ?", identityID).Updates(map[string]interface{}{
		"expiration_date": expiresAt,
		"redirect_target": redirect,
		"initialized":     true,
	}).Error
}

// SearchByNamePrefix implements the substring search LocalSearchProfile
// needs, capped at limit results.
func (r *Repository) SearchByNamePrefix(ctx context.Context, needle string, limit int) ([]HostingRow, error) {
	var rows []HostingRow
	like := "%" + strings.ReplaceAll(needle, "%", "\\%") + "%"
	err := r.db.WithContext(ctx).
		Where("initialized = ? AND expiration_date IS NULL AND name LIKE ?", true, like).
		Limit(limit).Find(&rows).Error
	return rows, err
}

// RelatedIdentities returns up to limit identity ids related to identityID.
func (r *Repository) RelatedIdentities(ctx context.Context, identityID []byte, limit int) ([][]byte, error) {
	var rows []RelationshipRow
	err := r.db.WithContext(ctx).Where("identity_id = ?", identityID).Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(rows))
	for i, r := range rows {
		out[i] = r.RelatedID
	}
	return out, nil
}

// Close releases the underlying database connection.
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
