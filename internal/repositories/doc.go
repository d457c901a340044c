// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [TokenRepository] : OAuth token persistence; the latest row is the active session
//   - [PlaylistRepository] : Playlist metadata cached by export runs
//
// Sequence numbers provide stable, human-readable ordering (e.g., token #3, playlist #15) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
