// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentStore: the document store contract implemented by both the
//     local (SQLite) and remote (HTTP) backends
//   - LocalStore: the local backend's extended surface used by sync and
//     migration (upload queue, chunk cache, remote-id reconciliation)
//   - MigrationStateStore: persisted set of already-migrated identities
//   - ConfigStore: application configuration
//   - TickScheduler: playback timing callbacks
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: any adapter package
package driven
