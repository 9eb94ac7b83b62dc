// Package app wires the storage stack together and manages its lifecycle.
//
// New builds every component from an AppConfig: database, object store
// client, gateway, repositories, version service, job queue and the
// processing orchestrator. Run starts the workers, blocks until a
// shutdown signal arrives and then shuts everything down gracefully.
package app
