// Package handlers provides HTTP request handlers for the midivault API.
//
// Handlers are organized by domain for maintainability:
//
//   - systems.go: System listing and retrieval
//   - search.go: Regex search across the whole archive
//   - admin.go: Administrative operations (refresh, stats)
//   - health.go: Liveness checks
//
// All handlers follow a consistent pattern:
//
//  1. Validate input
//  2. Query the catalog, populating systems lazily as needed
//  3. Return the enveloped response
//
// Handlers use dependency injection for testability and receive all
// dependencies through the Handlers struct.
package handlers

//go:generate gomarkdoc --output README.md .
