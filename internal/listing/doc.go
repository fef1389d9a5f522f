// Package listing keeps paginated, filtered, namespace-scoped tables in step
// with their query inputs.
//
// A Controller owns one table. Input setters (SetPage, SetPageSize,
// SetNamespace, SetDateFilter, SetFilter, Refresh) return the Request to
// issue, or false when nothing changed. The caller runs the request however
// it likes (a tea.Cmd in the TUI, a direct call in the CLI) and hands the
// result back with Commit or Fail together with the request's Generation.
// Stale generations are dropped, which covers both unmount and responses
// overtaken by a later request.
//
// A Detail owns the slide for a table. Lookup by identifier opens it only
// when the server returns exactly one record.
package listing
