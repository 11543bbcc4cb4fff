// Package repositories implements SQLite-backed persistence for the pushcast local library.
//
// Repositories:
//   - [VideoRepository] : upload history with per-platform outcomes and soft deletes
//   - [PlatformRepository] : cached platform connection status with fetch timestamps
//
// [NextSequence] provides monotonically increasing per-table sequence numbers
// used for stable ordering of history entries.
package repositories
