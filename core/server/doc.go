// Package server holds the HTTP server configuration.
//
// The start command owns the Fiber app; this package only defines the listen
// port, the API key and the pick station name, plus small helpers around them.
package server
