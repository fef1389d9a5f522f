// Package appstate holds the state every screen shares: node identity, the
// selected namespace, the created-date window, the slide rendering, the
// deep-linked record and the stream of new events reported by the poller.
//
// Writers go through named intents (SelectNamespace, ClearNewEvents, ...).
// Readers take a Snapshot and compare successive snapshots with Diff to
// learn which list-query inputs changed.
package appstate
