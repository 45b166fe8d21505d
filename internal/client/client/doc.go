// Package client contains client-side building blocks for Plume.
//
// # Overview
//
// The package provides:
//  1. The Client interface: every backend operation the CLI needs.
//  2. GRPCClient, its gRPC implementation. It injects the access token
//     through an interceptor and retries calls that failed with a
//     transient error using exponential backoff.
//  3. InitDatabase and RunMigrations, which prepare the CLI's local SQLite
//     database with embedded goose migrations.
//
// # Error Handling
//
// Failures that carry a domain code come back as *apperrors.Error, so
// callers can switch on apperrors.CodeOf. Bare transport failures map to
// ErrUnavailable or ErrUnauthorized.
package client
