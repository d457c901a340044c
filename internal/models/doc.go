// Package models defines domain entities and persistence interfaces for the spotr CLI.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs carrying Spotify data
//   - [Playlist] : Basic playlist metadata
//   - [PlaylistExport] : Playlist with complete track listing
//   - [Track] : Song metadata with ISRC
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [StoredToken] : Persisted OAuth token pairs, one row per authorized account
//   - [CachedPlaylist] : Playlist metadata cached by export runs
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
