// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - Auth: API key validation (X-API-Key header or api_key query parameter).
//     Scan guns and the admin UI share one key per station.
//   - RayID: assigns every request a RayID (reusing an incoming X-Ray-ID),
//     stores it in the context and echoes it in the response headers.
//
// The tests for both live in this package.
package middleware
