// Package app provides the orchestration layer for ffscope.
//
// # Overview
//
// This package wires together configuration, preferences, logging, the
// FireFly client, shared state and the UI. It is the composition root where
// every dependency is initialized and connected.
//
// # Startup
//
//  1. Load config (TOML file, then FFSCOPE_* environment overrides)
//  2. Set up the log sink; the TUI owns the terminal so logs go to a file
//  3. Load UI preferences (theme, data view, created window, page size)
//  4. Build the FireFly HTTP client and the appstate.Store
//  5. Preflight: fetch node status and namespaces concurrently
//  6. Launch the event poller
//  7. Start the TUI and block until the user exits or the context cancels
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()
//	       ├─────> logging.Setup()
//	       ├─────> firefly.NewClient()
//	       ├─────> appstate.NewStore()
//	       ├─────> preflight()      status + namespaces (errgroup)
//	       ├─────> StartPoller()    background event cursor
//	       └─────> ui.Run()         blocks
//
//	Poller loop:
//	┌─────────────────────────────────────────┐
//	│ first cycle per namespace: LatestEvent  │
//	│   └─> store.SeedSequence()              │
//	│ later cycles: ListEvents(after cursor)  │
//	│   └─> store.RecordEvents()              │
//	│       └─> UI badges "N new events"      │
//	└─────────────────────────────────────────┘
//
// # Error Handling
//
// Fatal errors (returned from Run): invalid configuration, an unusable log
// file, a malformed --id, or a bad API URL.
//
// Everything else is recoverable. A failed preflight or poll is recorded on
// the store (the header turns offline) and surfaced as a notice, and the
// poller backs off exponentially up to 30 seconds.
package app
