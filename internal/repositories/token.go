package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/spotr/internal/models"
	"github.com/desertthunder/spotr/internal/shared"
	"golang.org/x/oauth2"
)

// TokenRepository implements models.Repository[*models.StoredToken] for OAuth session persistence.
//
// One row per authorized account; Latest returns the active session.
type TokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new TokenRepository with the given database connection
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create inserts a new token into the database with generated ID and sequence
func (r *TokenRepository) Create(token *models.StoredToken) error {
	sequence, err := NextSequence(r.db, "tokens")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	token.SetID(id)

	if err := token.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO tokens (id, sequence, access_token, refresh_token, token_type, expiry, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		token.AccessToken(),
		token.RefreshToken(),
		token.TokenType(),
		token.Expiry(),
		token.UserID(),
		token.CreatedAt(),
		token.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert token: %w", err)
	}

	return nil
}

// Get retrieves a token by ID, excluding soft-deleted tokens
func (r *TokenRepository) Get(id string) (*models.StoredToken, error) {
	query := `
		SELECT id, sequence, access_token, refresh_token, token_type, expiry, user_id, created_at, updated_at, deleted_at
		FROM tokens
		WHERE id = ? AND deleted_at IS NULL
	`

	return scanToken(r.db.QueryRow(query, id))
}

// Latest retrieves the most recently updated token, the active session.
func (r *TokenRepository) Latest() (*models.StoredToken, error) {
	query := `
		SELECT id, sequence, access_token, refresh_token, token_type, expiry, user_id, created_at, updated_at, deleted_at
		FROM tokens
		WHERE deleted_at IS NULL
		ORDER BY updated_at DESC, sequence DESC
		LIMIT 1
	`

	return scanToken(r.db.QueryRow(query))
}

// Update modifies an existing token in the database
func (r *TokenRepository) Update(token *models.StoredToken) error {
	if err := token.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	token.SetUpdatedAt(now)

	query := `
		UPDATE tokens
		SET access_token = ?, refresh_token = ?, token_type = ?, expiry = ?, user_id = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		token.AccessToken(),
		token.RefreshToken(),
		token.TokenType(),
		token.Expiry(),
		token.UserID(),
		now,
		token.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("token not found or already deleted: %s", token.ID())
	}

	return nil
}

// Delete soft-deletes a token by ID
func (r *TokenRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE tokens
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("token not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all tokens matching the given criteria, excluding soft-deleted tokens
func (r *TokenRepository) List(criteria map[string]any) ([]*models.StoredToken, error) {
	query := `
		SELECT id, sequence, access_token, refresh_token, token_type, expiry, user_id, created_at, updated_at, deleted_at
		FROM tokens
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*models.StoredToken
	for rows.Next() {
		token, err := scanTokenRow(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tokens, nil
}

func buildToken(id string, sequence int, access string, refresh, tokenType sql.NullString, expiry sql.NullTime, userID sql.NullString, createdAt, updatedAt time.Time, deletedAt sql.NullTime) *models.StoredToken {
	pair := oauth2.Token{AccessToken: access, RefreshToken: refresh.String, TokenType: tokenType.String}
	if expiry.Valid {
		pair.Expiry = expiry.Time
	}

	token := models.NewStoredToken(sequence, pair, userID.String)
	token.SetID(id)
	token.SetCreatedAt(createdAt)
	token.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		token.SetDeletedAt(&deletedAt.Time)
	}
	return token
}

// scanToken scans a single row into a [models.StoredToken]
func scanToken(row *sql.Row) (*models.StoredToken, error) {
	var (
		id        string
		sequence  int
		access    string
		refresh   sql.NullString
		tokenType sql.NullString
		expiry    sql.NullTime
		userID    sql.NullString
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &access, &refresh, &tokenType, &expiry, &userID, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan token: %w", err)
	}

	return buildToken(id, sequence, access, refresh, tokenType, expiry, userID, createdAt, updatedAt, deletedAt), nil
}

// scanTokenRow scans a row from [sql.Rows] into a [models.StoredToken]
func scanTokenRow(rows *sql.Rows) (*models.StoredToken, error) {
	var (
		id        string
		sequence  int
		access    string
		refresh   sql.NullString
		tokenType sql.NullString
		expiry    sql.NullTime
		userID    sql.NullString
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &access, &refresh, &tokenType, &expiry, &userID, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan token: %w", err)
	}

	return buildToken(id, sequence, access, refresh, tokenType, expiry, userID, createdAt, updatedAt, deletedAt), nil
}
