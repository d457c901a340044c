// package repositories implements sqlite persistence for stored OAuth
// tokens and exported playlist metadata.
package repositories

import (
	"database/sql"
	"fmt"
)

// NextSequence increments and returns the counter backing a table's
// sequence numbers. The tokens and playlists tables each own a
// single-row <table>_sequence companion seeded by the migrations;
// the update and read run in one transaction so concurrent writers
// never see the same value.
func NextSequence(db *sql.DB, table string) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	counter := table + "_sequence"

	if _, err := tx.Exec(fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", counter)); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	if err := tx.QueryRow(fmt.Sprintf("SELECT value FROM %s WHERE id = 1", counter)).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to read sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}
