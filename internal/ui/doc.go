// Package ui provides the Bubble Tea terminal interface for ffscope.
//
// # Architecture Overview
//
// The root Model owns one screen per list (token approvals and token pools).
// A screen pairs a listing.Controller, which keeps the paginated query and
// its last committed page, with a listing.Detail for the record slide, and
// projects committed items into rows with the rows package.
//
// Only the active screen is mounted. Switching with 1 or 2 unmounts the old
// screen, so any response still in flight for it is dropped on arrival.
//
// # Data Flow
//
//   - Key presses call screen methods or appstate intents.
//   - Screen methods return a fetch tea.Cmd when the query changed.
//   - Fetch commands resolve to listMsg or lookupMsg, which the screen
//     commits only if the request generation is still current.
//   - appstate changes (namespace, created window, refresh signal) arrive as
//     stateChangedMsg and are diffed against the previous snapshot.
//
// # Layout
//
//   - Header: identity, namespace, created window and new-event count
//   - Command bar: key hints for the current mode
//   - Content: titled table pane, with the slide beside it when open
//   - Status line: page position and the latest notice
//
// Modal overlays (help, filters, namespace picker) replace the main view
// while open.
package ui
