// Package history keeps the append-only, time-bounded timeline of health
// snapshots and derives availability statistics from it.
//
// Entries are never updated after creation; the retention sweep deletes
// them in bulk once they age past the retention window. Queries are
// newest-first and page-bounded so a wide date range cannot trigger an
// unbounded scan.
package history
