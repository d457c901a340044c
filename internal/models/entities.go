package models

import (
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// base carries the lifecycle fields shared by all persistent entities.
type base struct {
	id        string
	sequence  int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

func newBase(sequence int) base {
	now := time.Now()
	return base{sequence: sequence, createdAt: now, updatedAt: now}
}

func (b *base) ID() string { return b.id }

func (b *base) Sequence() int { return b.sequence }

func (b *base) CreatedAt() time.Time { return b.createdAt }

func (b *base) UpdatedAt() time.Time { return b.updatedAt }

func (b *base) DeletedAt() *time.Time { return b.deletedAt }

func (b *base) SetID(id string) { b.id = id }

func (b *base) SetCreatedAt(t time.Time) { b.createdAt = t }

func (b *base) SetUpdatedAt(t time.Time) { b.updatedAt = t }

func (b *base) SetDeletedAt(t *time.Time) { b.deletedAt = t }

// StoredToken is a persisted OAuth token pair. The most recently updated
// non-deleted row is the active session.
type StoredToken struct {
	base
	token  oauth2.Token
	userID string
}

// NewStoredToken creates a StoredToken wrapping the given token.
func NewStoredToken(sequence int, token oauth2.Token, userID string) *StoredToken {
	return &StoredToken{base: newBase(sequence), token: token, userID: userID}
}

func (t *StoredToken) AccessToken() string { return t.token.AccessToken }

func (t *StoredToken) RefreshToken() string { return t.token.RefreshToken }

func (t *StoredToken) TokenType() string { return t.token.TokenType }

func (t *StoredToken) Expiry() time.Time { return t.token.Expiry }

func (t *StoredToken) UserID() string { return t.userID }

// Token returns a copy of the wrapped [oauth2.Token].
func (t *StoredToken) Token() oauth2.Token { return t.token }

// SetToken replaces the wrapped token pair.
func (t *StoredToken) SetToken(token oauth2.Token) { t.token = token }

// SetUserID records which account the token belongs to.
func (t *StoredToken) SetUserID(userID string) { t.userID = userID }

// Validate checks that the token has an access token.
func (t *StoredToken) Validate() error {
	if t.token.AccessToken == "" {
		return fmt.Errorf("stored token requires an access token")
	}
	return nil
}

// CachedPlaylist is playlist metadata cached by an export run.
type CachedPlaylist struct {
	base
	dto        Playlist
	exportedAt *time.Time
}

// NewCachedPlaylist creates a CachedPlaylist from a playlist DTO.
func NewCachedPlaylist(sequence int, dto Playlist) *CachedPlaylist {
	return &CachedPlaylist{base: newBase(sequence), dto: dto}
}

func (p *CachedPlaylist) Name() string { return p.dto.Name }

func (p *CachedPlaylist) Description() string { return p.dto.Description }

func (p *CachedPlaylist) OwnerID() string { return p.dto.OwnerID }

func (p *CachedPlaylist) TrackCount() int { return p.dto.TrackCount }

func (p *CachedPlaylist) Public() bool { return p.dto.Public }

func (p *CachedPlaylist) ExportedAt() *time.Time { return p.exportedAt }

// DTO returns the playlist summary this cache row was built from. The
// DTO's ID is the upstream playlist id, distinct from the row id.
func (p *CachedPlaylist) DTO() Playlist { return p.dto }

// PlaylistID returns the upstream playlist id.
func (p *CachedPlaylist) PlaylistID() string { return p.dto.ID }

// SetExportedAt records when the playlist's tracks were last exported.
func (p *CachedPlaylist) SetExportedAt(t *time.Time) { p.exportedAt = t }

// Validate checks that the playlist has an upstream id and a name.
func (p *CachedPlaylist) Validate() error {
	if p.dto.ID == "" {
		return fmt.Errorf("cached playlist requires a playlist id")
	}
	if p.dto.Name == "" {
		return fmt.Errorf("cached playlist requires a name")
	}
	return nil
}
