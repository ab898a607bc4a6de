// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines the
// configuration structure for the report API: listen port, API key and the upload
// size limit applied to multipart report requests.
package server
