// Package tasks runs multi-request library operations with progress reporting.
//
// # Core Operations
//
// [Engine] provides three operations on top of a services.Collaborator:
//
//  1. [Engine.Snapshot] : fetch progress and saved items and group them by source
//  2. [Engine.Export] : snapshot the library and write it with the formatter package
//  3. [Engine.ApplyBulk] : apply one progress change to many items
//     - current records are fetched once
//     - requests are paced by a token bucket (golang.org/x/time/rate)
//     - a small worker pool merges and writes each record
//     - per-item failures are collected, never fatal
//
// # Progress Reporting
//
// All operations accept an optional channel of [ProgressUpdate].
// Updates use select with default so a slow reader never blocks the work.
package tasks
