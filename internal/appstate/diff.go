package appstate

// Changes lists which list-query inputs differ between two snapshots.
type Changes struct {
	Namespace     bool
	CreatedFilter bool
	Refresh       bool
	SlideClosed   bool
}

// Any reports whether a list view must act on the change set.
func (c Changes) Any() bool {
	return c.Namespace || c.CreatedFilter || c.Refresh
}

// Diff compares the inputs that drive list queries. Identity, data view and
// poll health never trigger a reload.
func Diff(prev, next Snapshot) Changes {
	return Changes{
		Namespace:     prev.Namespace != next.Namespace,
		CreatedFilter: prev.CreatedFilter != next.CreatedFilter,
		Refresh:       prev.RefreshSignal != next.RefreshSignal,
		SlideClosed:   prev.SlideID != "" && next.SlideID == "",
	}
}
