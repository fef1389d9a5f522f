package listing

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/ffscope/internal/firefly"
)

type spyReporter struct {
	mu   sync.Mutex
	errs []error
}

func (s *spyReporter) ReportFetchError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, err)
}

func (s *spyReporter) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.errs)
}

func quietLogger() *log.Logger {
	return log.New(&bytes.Buffer{})
}

func newApprovals(t *testing.T, reporter *spyReporter) *Controller[firefly.TokenApproval] {
	t.Helper()
	return New[firefly.TokenApproval](Options{
		Name:       "approvals",
		Namespace:  "default",
		PageSize:   10,
		DateFilter: "&created=>=1700000000",
		Reporter:   reporter,
		Logger:     quietLogger(),
	})
}

func approvals(n int, prefix string) []firefly.TokenApproval {
	out := make([]firefly.TokenApproval, n)
	for i := range out {
		out[i] = firefly.TokenApproval{LocalID: prefix + string(rune('a'+i))}
	}
	return out
}

func TestRequest_SkipIsPageTimesPageSize(t *testing.T) {
	c := newApprovals(t, nil)
	_, ok := c.Mount()
	require.True(t, ok)

	for _, size := range []int{5, 10, 25} {
		c.SetPageSize(size)
		for _, page := range []int{0, 1, 2, 7} {
			c.SetPage(page)
			req := c.Current()
			assert.Equal(t, page*size, req.Skip, "page=%d size=%d", page, size)
			assert.Equal(t, size, req.Limit)
		}
	}
}

func TestRequest_QueryScenario(t *testing.T) {
	c := newApprovals(t, nil)
	c.Mount()
	req, ok := c.SetPage(2)
	require.True(t, ok)

	assert.Equal(t, "limit=10&count&skip=20&created=>=1700000000", req.Query())

	req, ok = c.SetFilter("&approved=true")
	require.True(t, ok)
	assert.Equal(t, "limit=10&count&skip=0&created=>=1700000000&approved=true", req.Query())
}

func TestCommit_ScenarioEightOfTwentyEight(t *testing.T) {
	c := newApprovals(t, nil)
	c.Mount()
	req, _ := c.SetPage(2)

	require.True(t, c.Commit(req.Generation, firefly.Page[firefly.TokenApproval]{Items: approvals(8, "r"), Total: 28}))

	st := c.State()
	assert.Len(t, st.Items, 8)
	assert.Equal(t, 28, st.Total)
	assert.False(t, st.HasNext(), "20+8 is not < 28")
	assert.True(t, st.HasPrev())
	assert.Equal(t, 3, st.PageCount())
	from, to := st.Range()
	assert.Equal(t, 21, from)
	assert.Equal(t, 28, to)
	assert.True(t, c.Loaded())
}

func TestCommit_HasNextWhenMoreRemain(t *testing.T) {
	c := newApprovals(t, nil)
	req, _ := c.Mount()
	c.Commit(req.Generation, firefly.Page[firefly.TokenApproval]{Items: approvals(10, "r"), Total: 28})
	assert.True(t, c.HasNext())
	assert.False(t, c.HasPrev())
}

func TestFail_PreservesPriorState(t *testing.T) {
	reporter := &spyReporter{}
	c := newApprovals(t, reporter)
	req, _ := c.Mount()
	c.Commit(req.Generation, firefly.Page[firefly.TokenApproval]{Items: approvals(3, "x"), Total: 3})
	before := c.State()

	next, ok := c.Refresh()
	require.True(t, ok)
	boom := errors.New("api returned status 500")
	assert.True(t, c.Fail(next.Generation, boom))

	after := c.State()
	assert.Equal(t, before.Items, after.Items)
	assert.Equal(t, before.Total, after.Total)
	assert.ErrorIs(t, after.Err, boom)
	assert.Equal(t, 1, reporter.count())

	// A later success clears the error.
	next, _ = c.Refresh()
	c.Commit(next.Generation, firefly.Page[firefly.TokenApproval]{Items: approvals(1, "y"), Total: 1})
	assert.NoError(t, c.Err())
}

func TestFail_BeforeAnyLoadLeavesEmptyUnloaded(t *testing.T) {
	reporter := &spyReporter{}
	c := newApprovals(t, reporter)
	req, _ := c.Mount()
	c.Fail(req.Generation, errors.New("dial tcp: connection refused"))

	st := c.State()
	assert.False(t, st.Loaded)
	assert.Empty(t, st.Items)
	assert.Error(t, st.Err)
}

func TestUnmount_DropsInflightCompletion(t *testing.T) {
	reporter := &spyReporter{}
	c := newApprovals(t, reporter)
	req, _ := c.Mount()

	c.Unmount()
	assert.False(t, c.Commit(req.Generation, firefly.Page[firefly.TokenApproval]{Items: approvals(2, "z"), Total: 2}))
	assert.False(t, c.Fail(req.Generation, errors.New("late")))

	st := c.State()
	assert.Empty(t, st.Items)
	assert.Zero(t, st.Total)
	assert.False(t, st.Loaded)
	assert.Zero(t, reporter.count(), "post-unmount failures are not reported")
}

func TestUnmount_LoaderResolvingAfterTeardown(t *testing.T) {
	c := newApprovals(t, nil)
	req, _ := c.Mount()

	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- c.Load(context.Background(), func(ctx context.Context, r Request) (firefly.Page[firefly.TokenApproval], error) {
			<-release
			return firefly.Page[firefly.TokenApproval]{Items: approvals(4, "q"), Total: 4}, nil
		}, req)
	}()

	c.Unmount()
	close(release)
	assert.ErrorIs(t, <-done, ErrNotMounted)
	assert.Empty(t, c.Items())
}

func TestStaleResponseCannotOverwriteNewer(t *testing.T) {
	c := newApprovals(t, nil)
	first, _ := c.Mount()
	second, ok := c.SetPage(1)
	require.True(t, ok)

	// The newer request completes first, then the stale one arrives.
	require.True(t, c.Commit(second.Generation, firefly.Page[firefly.TokenApproval]{Items: approvals(2, "new"), Total: 12}))
	assert.False(t, c.Commit(first.Generation, firefly.Page[firefly.TokenApproval]{Items: approvals(10, "old"), Total: 12}))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "newa", items[0].LocalID)
}

func TestEachInputChangeIssuesExactlyOneRequest(t *testing.T) {
	c := newApprovals(t, nil)
	first, ok := c.Mount()
	require.True(t, ok)

	type step struct {
		name  string
		apply func() (Request, bool)
		check func(t *testing.T, r Request)
	}
	steps := []step{
		{"page", func() (Request, bool) { return c.SetPage(3) }, func(t *testing.T, r Request) { assert.Equal(t, 30, r.Skip) }},
		{"pageSize", func() (Request, bool) { return c.SetPageSize(25) }, func(t *testing.T, r Request) {
			assert.Equal(t, 25, r.Limit)
			assert.Equal(t, 0, r.Skip)
		}},
		{"namespace", func() (Request, bool) { return c.SetNamespace("ns1") }, func(t *testing.T, r Request) { assert.Equal(t, "ns1", r.Namespace) }},
		{"dateFilter", func() (Request, bool) { return c.SetDateFilter("&created=>=1") }, func(t *testing.T, r Request) { assert.Equal(t, "&created=>=1", r.DateFilter) }},
		{"filter", func() (Request, bool) { return c.SetFilter("&key=@0x") }, func(t *testing.T, r Request) { assert.Equal(t, "&key=@0x", r.Filter) }},
		{"refresh", c.Refresh, func(t *testing.T, r Request) { assert.Equal(t, "&key=@0x", r.Filter) }},
	}

	gen := first.Generation
	for _, s := range steps {
		req, ok := s.apply()
		require.True(t, ok, s.name)
		assert.Equal(t, gen+1, req.Generation, "%s must issue exactly one request", s.name)
		s.check(t, req)
		gen = req.Generation
	}
}

func TestUnchangedInputsIssueNothing(t *testing.T) {
	c := newApprovals(t, nil)
	c.Mount()
	c.SetPage(1)
	gen := c.Current().Generation

	_, ok := c.SetPage(1)
	assert.False(t, ok)
	_, ok = c.SetPageSize(10)
	assert.False(t, ok)
	_, ok = c.SetPageSize(0)
	assert.False(t, ok)
	_, ok = c.SetNamespace("default")
	assert.False(t, ok)
	_, ok = c.SetDateFilter("&created=>=1700000000")
	assert.False(t, ok)
	_, ok = c.SetFilter("")
	assert.False(t, ok)
	_, ok = c.Mount()
	assert.False(t, ok, "second mount")

	assert.Equal(t, gen, c.Current().Generation)
}

func TestNegativePageClampsToZero(t *testing.T) {
	c := newApprovals(t, nil)
	c.Mount()
	c.SetPage(2)
	req, ok := c.SetPage(-4)
	require.True(t, ok)
	assert.Equal(t, 0, req.Page)
	assert.Equal(t, 0, req.Skip)
}

func TestUnmountedChangesApplyOnMount(t *testing.T) {
	c := newApprovals(t, nil)
	_, ok := c.SetPage(2)
	assert.False(t, ok, "unmounted controller issues nothing")
	_, ok = c.SetNamespace("ns1")
	assert.False(t, ok)

	req, ok := c.Mount()
	require.True(t, ok)
	assert.Equal(t, "ns1", req.Namespace)
	assert.Equal(t, 0, req.Skip, "namespace change reset the page")
}

func TestLoad_CommitsAndFails(t *testing.T) {
	reporter := &spyReporter{}
	c := newApprovals(t, reporter)
	req, _ := c.Mount()

	var gotQuery string
	err := c.Load(context.Background(), func(ctx context.Context, r Request) (firefly.Page[firefly.TokenApproval], error) {
		gotQuery = r.Query()
		return firefly.Page[firefly.TokenApproval]{Items: approvals(1, "l"), Total: 1}, nil
	}, req)
	require.NoError(t, err)
	assert.Equal(t, "limit=10&count&skip=0&created=>=1700000000", gotQuery)
	assert.Len(t, c.Items(), 1)
	assert.False(t, c.Pending())

	req, _ = c.Refresh()
	assert.True(t, c.Pending())
	err = c.Load(context.Background(), func(ctx context.Context, r Request) (firefly.Page[firefly.TokenApproval], error) {
		return firefly.Page[firefly.TokenApproval]{}, errors.New("decode response: EOF")
	}, req)
	require.Error(t, err)
	assert.Len(t, c.Items(), 1)
	assert.Equal(t, 1, reporter.count())
}

func TestStateDerivedValues(t *testing.T) {
	assert.Equal(t, 1, State[int]{PageSize: 10}.PageCount())
	assert.Equal(t, 3, State[int]{PageSize: 10, Total: 21}.PageCount())
	from, to := State[int]{Skip: 20}.Range()
	assert.Zero(t, from)
	assert.Zero(t, to)
}

func TestReload_KeepsPageAndReplacesDateFilter(t *testing.T) {
	c := newApprovals(t, nil)
	c.Mount()
	c.SetPage(2)

	req, ok := c.Reload("&created=>=1714478405")
	require.True(t, ok)
	assert.Equal(t, 2, req.Page)
	assert.Equal(t, 20, req.Skip)
	assert.Equal(t, "&created=>=1714478405", req.DateFilter)

	again, ok := c.Reload("&created=>=1714478405")
	require.True(t, ok, "an unchanged fragment still refetches")
	assert.Equal(t, req.Generation+1, again.Generation)
	assert.Equal(t, 20, again.Skip)
}

func TestNextPage_StopsAtTotalWhileRequestInFlight(t *testing.T) {
	c := newApprovals(t, nil)
	req, _ := c.Mount()
	_, ok := c.NextPage()
	assert.False(t, ok, "no total before the first commit")

	require.True(t, c.Commit(req.Generation, firefly.Page[firefly.TokenApproval]{Items: approvals(10, "a"), Total: 15}))

	first, ok := c.NextPage()
	require.True(t, ok)
	assert.Equal(t, 10, first.Skip)

	_, ok = c.NextPage()
	assert.False(t, ok, "skip=20 is past a total of 15")
	assert.Equal(t, first.Generation, c.Current().Generation)

	st := c.State()
	assert.Equal(t, 0, st.Page, "state stays on the committed page until the response lands")
	assert.Equal(t, 2, st.PageCount())

	require.True(t, c.Commit(first.Generation, firefly.Page[firefly.TokenApproval]{Items: approvals(5, "b"), Total: 15}))
	st = c.State()
	assert.Equal(t, 1, st.Page)
	assert.False(t, st.HasNext())
	assert.True(t, st.HasPrev())
}

func TestPrevPage_StepsBackFromLatestRequest(t *testing.T) {
	c := newApprovals(t, nil)
	c.Mount()
	_, ok := c.PrevPage()
	assert.False(t, ok)

	c.SetPage(2)
	req, ok := c.PrevPage()
	require.True(t, ok)
	assert.Equal(t, 1, req.Page)
	req, ok = c.PrevPage()
	require.True(t, ok)
	assert.Equal(t, 0, req.Skip)
	_, ok = c.PrevPage()
	assert.False(t, ok)
}
