// Package picking runs pick sessions on top of the reconcile engine.
//
// A Service keeps the open sessions of a station in memory. Opening a session
// loads the order lines from a Store (the order-data database, or memory when
// the lines come from a spreadsheet). Each scan is matched, logged and
// published as a pick.scan event. Closing a session archives its record as
// JSON in the object store, saves the matched units and scan log through the
// Store and publishes pick.session-closed.
//
// # HTTP Endpoints
//
//   - POST /picking/sessions : Opens a session for an order.
//   - GET /picking/sessions : Lists open sessions.
//   - GET /picking/sessions/:id : Returns a session snapshot.
//   - POST /picking/sessions/:id/scans : Processes one scanner code.
//   - POST /picking/sessions/:id/close : Closes the session.
//   - GET /picking/sessions/:id/export : Downloads the XLSX audit.
//
// # Concurrency
//
// Scans of one session are serialized by a per-session mutex. Concurrent opens
// of the same order share one store lookup.
package picking
