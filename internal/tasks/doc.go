// Package tasks orchestrates playlist export operations with real-time progress reporting.
//
// # Core Operations
//
// The [ExportEngine] interface defines two operations:
//
//  1. [ExportEngine.Export] : Single playlist export
//     - Resolves the playlist by id, falling back to a name lookup
//     - Fetches the playlist with its full track listing
//     - Writes it to disk in the requested format
//
//  2. [ExportEngine.BulkExport] : Concurrent multi-playlist export
//     - Fetches playlists through a rate-limited producer
//     - Writes files through a bounded worker pool
//     - Produces a manifest summarizing per-playlist results
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Playlist Caching
//
// The optional [PlaylistCacher] interface records exported playlist metadata in the local database.
// Caching is silent (errors logged, not returned) to avoid disrupting exports.
//
// # Implementation
//
// [Engine] implements [ExportEngine] with dependencies on:
//   - [Exporter] : the Spotify client
//   - [PlaylistCacher] : Optional persistence layer (repositories.PlaylistRepository)
package tasks
