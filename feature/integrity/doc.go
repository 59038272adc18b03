// Package integrity provides infrastructure health checks for a picking
// station.
//
// # Checks Provided
//
//   - Storage: the archive bucket exists and holds the session archive prefix.
//   - Schema: the order database has every table and column of the picking
//     models (order_lines, pick_sessions, picked_units, scan_events).
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks (supports ?fix=true).
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
//   - GET /integrity/schema : Runs the schema check (supports ?fix=true).
package integrity
