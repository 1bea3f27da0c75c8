// Package server provides the HTTP server implementation for the midivault API.
//
// The server package implements a layered architecture:
//
//   - Server: Core server struct with lifecycle management
//   - Config: Server configuration with sensible defaults
//   - Router: Route registration and middleware chain
//   - Handlers: HTTP request handlers organized by domain
//
// Usage:
//
//	cfg := server.DefaultConfig()
//	cfg.Port = 8080
//
//	srv := server.New(client, cfg, logger)
//	if err := srv.ListenAndServe(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// ListenAndServe blocks until ctx is cancelled, then shuts down
// gracefully, writing the populated part of the catalog back to the
// configured snapshot path.
package server

//go:generate gomarkdoc --output README.md .
