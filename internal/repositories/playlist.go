package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/spotr/internal/models"
	"github.com/desertthunder/spotr/internal/shared"
)

// PlaylistRepository implements models.Repository[*models.CachedPlaylist] for playlist caching.
//
// Handles playlist CRUD operations with soft delete support and upstream-id lookups.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new playlist into the database with generated ID and sequence
func (r *PlaylistRepository) Create(playlist *models.CachedPlaylist) error {
	sequence, err := NextSequence(r.db, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	playlist.SetID(id)

	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO playlists (id, sequence, playlist_id, name, description, owner_id, track_count, public, exported_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		playlist.PlaylistID(),
		playlist.Name(),
		playlist.Description(),
		playlist.OwnerID(),
		playlist.TrackCount(),
		playlist.Public(),
		playlist.ExportedAt(),
		playlist.CreatedAt(),
		playlist.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	return nil
}

// Get retrieves a playlist by ID, excluding soft-deleted playlists
func (r *PlaylistRepository) Get(id string) (*models.CachedPlaylist, error) {
	query := `
		SELECT id, sequence, playlist_id, name, description, owner_id, track_count, public, exported_at, created_at, updated_at, deleted_at
		FROM playlists
		WHERE id = ? AND deleted_at IS NULL
	`

	return scanPlaylist(r.db.QueryRow(query, id))
}

// GetByPlaylistID retrieves a cached playlist by its upstream playlist id
func (r *PlaylistRepository) GetByPlaylistID(playlistID string) (*models.CachedPlaylist, error) {
	query := `
		SELECT id, sequence, playlist_id, name, description, owner_id, track_count, public, exported_at, created_at, updated_at, deleted_at
		FROM playlists
		WHERE playlist_id = ? AND deleted_at IS NULL
	`

	return scanPlaylist(r.db.QueryRow(query, playlistID))
}

// Update modifies an existing playlist in the database
func (r *PlaylistRepository) Update(playlist *models.CachedPlaylist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	playlist.SetUpdatedAt(now)

	query := `
		UPDATE playlists
		SET name = ?, description = ?, owner_id = ?, track_count = ?, public = ?, exported_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		playlist.Name(),
		playlist.Description(),
		playlist.OwnerID(),
		playlist.TrackCount(),
		playlist.Public(),
		playlist.ExportedAt(),
		now,
		playlist.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("playlist not found or already deleted: %s", playlist.ID())
	}

	return nil
}

// Delete soft-deletes a playlist by ID
func (r *PlaylistRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE playlists
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("playlist not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all playlists matching the given criteria, excluding soft-deleted playlists
func (r *PlaylistRepository) List(criteria map[string]any) ([]*models.CachedPlaylist, error) {
	query := `
		SELECT id, sequence, playlist_id, name, description, owner_id, track_count, public, exported_at, created_at, updated_at, deleted_at
		FROM playlists
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if ownerID, ok := criteria["owner_id"].(string); ok && ownerID != "" {
		query += " AND owner_id = ?"
		args = append(args, ownerID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.CachedPlaylist
	for rows.Next() {
		playlist, err := scanPlaylistRow(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

// Upsert creates the cache row for a playlist or refreshes the existing one.
func (r *PlaylistRepository) Upsert(dto models.Playlist, exportedAt *time.Time) (*models.CachedPlaylist, error) {
	existing, err := r.GetByPlaylistID(dto.ID)
	if err == nil {
		refreshed := models.NewCachedPlaylist(existing.Sequence(), dto)
		refreshed.SetID(existing.ID())
		refreshed.SetCreatedAt(existing.CreatedAt())
		refreshed.SetExportedAt(exportedAt)
		if err := r.Update(refreshed); err != nil {
			return nil, err
		}
		return refreshed, nil
	}

	created := models.NewCachedPlaylist(0, dto)
	created.SetExportedAt(exportedAt)
	if err := r.Create(created); err != nil {
		return nil, err
	}
	return created, nil
}

func buildPlaylist(id string, sequence int, dto models.Playlist, exportedAt sql.NullTime, createdAt, updatedAt time.Time, deletedAt sql.NullTime) *models.CachedPlaylist {
	playlist := models.NewCachedPlaylist(sequence, dto)
	playlist.SetID(id)
	playlist.SetCreatedAt(createdAt)
	playlist.SetUpdatedAt(updatedAt)
	if exportedAt.Valid {
		playlist.SetExportedAt(&exportedAt.Time)
	}
	if deletedAt.Valid {
		playlist.SetDeletedAt(&deletedAt.Time)
	}
	return playlist
}

// scanPlaylist scans a single row into a [models.CachedPlaylist]
func scanPlaylist(row *sql.Row) (*models.CachedPlaylist, error) {
	var (
		id          string
		sequence    int
		playlistID  string
		name        string
		description sql.NullString
		ownerID     sql.NullString
		trackCount  int
		public      bool
		exportedAt  sql.NullTime
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &playlistID, &name, &description, &ownerID, &trackCount, &public, &exportedAt, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	dto := models.Playlist{
		ID:          playlistID,
		Name:        name,
		Description: description.String,
		OwnerID:     ownerID.String,
		TrackCount:  trackCount,
		Public:      public,
	}

	return buildPlaylist(id, sequence, dto, exportedAt, createdAt, updatedAt, deletedAt), nil
}

// scanPlaylistRow scans a row from [sql.Rows] into a [models.CachedPlaylist]
func scanPlaylistRow(rows *sql.Rows) (*models.CachedPlaylist, error) {
	var (
		id          string
		sequence    int
		playlistID  string
		name        string
		description sql.NullString
		ownerID     sql.NullString
		trackCount  int
		public      bool
		exportedAt  sql.NullTime
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &playlistID, &name, &description, &ownerID, &trackCount, &public, &exportedAt, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	dto := models.Playlist{
		ID:          playlistID,
		Name:        name,
		Description: description.String,
		OwnerID:     ownerID.String,
		TrackCount:  trackCount,
		Public:      public,
	}

	return buildPlaylist(id, sequence, dto, exportedAt, createdAt, updatedAt, deletedAt), nil
}
