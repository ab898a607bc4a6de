// Package middleware contains HTTP middleware for the report API.
//
// # Components
//
//   - Auth: rejects requests without the configured X-API-Key. An empty key
//     leaves the API open.
//   - RayID: tags every request with an X-Ray-ID (reused when the caller sends
//     one) so handler logs and responses can be correlated.
//
// Both are registered globally in cmd/start.go, RayID first.
package middleware
