// Package models defines domain entities and persistence interfaces for the pushcast publishing client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs mirroring the publishing service's API
//   - [User] : Account identity with verification flag and connected platforms
//   - [Video] : Video record as returned by the service
//   - [UploadResult] / [UploadResponse] : Per-platform publish outcomes
//   - [PlatformStatus] : Connection state of a single platform
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [VideoRecord] : Local upload history with per-platform outcomes
//   - [PlatformRecord] : Cached platform connection status with fetch bookkeeping
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
