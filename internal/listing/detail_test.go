package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/ffscope/internal/firefly"
)

func newApprovalDetail(reporter *spyReporter) *Detail[firefly.TokenApproval] {
	return NewDetail[firefly.TokenApproval](Options{
		Name:      "approvals",
		Namespace: "default",
		Reporter:  reporter,
		Logger:    quietLogger(),
	})
}

func TestDetail_OpensOnExactlyOneRecord(t *testing.T) {
	d := newApprovalDetail(nil)
	d.Mount()

	req, ok := d.Lookup("abc123")
	require.True(t, ok)
	assert.Equal(t, "abc123", req.ID)
	assert.Equal(t, "default", req.Namespace)

	opened := d.CommitLookup(req.Generation, []firefly.TokenApproval{{LocalID: "abc123", Approved: true}})
	require.True(t, opened)

	rec, open := d.Record()
	require.True(t, open)
	assert.Equal(t, "abc123", rec.LocalID)
	assert.True(t, rec.Approved)
}

func TestDetail_StaysClosedForZeroOrMany(t *testing.T) {
	for _, records := range [][]firefly.TokenApproval{
		nil,
		{{LocalID: "a"}, {LocalID: "b"}},
		{{LocalID: "a"}, {LocalID: "b"}, {LocalID: "c"}},
	} {
		d := newApprovalDetail(nil)
		d.Mount()
		req, _ := d.Lookup("abc123")
		require.True(t, d.Current(req.Generation))
		assert.False(t, d.CommitLookup(req.Generation, records), "count=%d", len(records))
		assert.False(t, d.Open())
		assert.Empty(t, d.ID(), "unresolved id is dropped")
	}
}

func TestDetail_FailureReportsAndStaysClosed(t *testing.T) {
	reporter := &spyReporter{}
	d := newApprovalDetail(reporter)
	d.Mount()
	req, _ := d.Lookup("abc123")

	opened, err := d.Load(context.Background(), func(ctx context.Context, r LookupRequest) ([]firefly.TokenApproval, error) {
		return nil, errors.New("execute request: timeout")
	}, req)
	assert.False(t, opened)
	assert.Error(t, err)
	assert.False(t, d.Open())
	assert.Empty(t, d.ID())
	assert.Equal(t, 1, reporter.count())
}

func TestDetail_EmptyIDIssuesNothing(t *testing.T) {
	d := newApprovalDetail(nil)
	d.Mount()
	_, ok := d.Lookup("  ")
	assert.False(t, ok)
}

func TestDetail_DeepLinkBeforeMount(t *testing.T) {
	d := newApprovalDetail(nil)
	_, ok := d.Lookup("abc123")
	assert.False(t, ok)

	req, ok := d.Mount()
	require.True(t, ok)
	assert.Equal(t, "abc123", req.ID)
}

func TestDetail_UnmountDropsLookup(t *testing.T) {
	reporter := &spyReporter{}
	d := newApprovalDetail(reporter)
	d.Mount()
	req, _ := d.Lookup("abc123")
	d.Unmount()

	assert.False(t, d.CommitLookup(req.Generation, []firefly.TokenApproval{{LocalID: "abc123"}}))
	d.FailLookup(req.Generation, errors.New("late"))
	assert.False(t, d.Open())
	assert.Zero(t, reporter.count())
}

func TestDetail_SelectSupersedesPendingLookup(t *testing.T) {
	d := newApprovalDetail(nil)
	d.Mount()
	req, _ := d.Lookup("old")

	d.Select(firefly.TokenApproval{LocalID: "clicked"}, "clicked")
	assert.False(t, d.Current(req.Generation))
	assert.False(t, d.CommitLookup(req.Generation, []firefly.TokenApproval{{LocalID: "old"}}))

	rec, open := d.Record()
	require.True(t, open)
	assert.Equal(t, "clicked", rec.LocalID)
	assert.Equal(t, "clicked", d.ID())
}

func TestDetail_CloseClearsIDAndDoesNotRefireList(t *testing.T) {
	list := newApprovals(t, nil)
	listReq, _ := list.Mount()
	list.Commit(listReq.Generation, firefly.Page[firefly.TokenApproval]{Items: approvals(3, "r"), Total: 3})

	d := newApprovalDetail(nil)
	d.Mount()
	req, _ := d.Lookup("abc123")
	d.CommitLookup(req.Generation, []firefly.TokenApproval{{LocalID: "abc123"}})
	require.True(t, d.Open())

	d.Close()

	assert.False(t, d.Open())
	assert.Empty(t, d.ID())
	assert.Equal(t, listReq.Generation, list.Current().Generation, "closing the slide issued a list request")
	assert.False(t, list.Pending())
	assert.Len(t, list.Items(), 3)
}

func TestDetail_NamespaceChangeCloses(t *testing.T) {
	d := newApprovalDetail(nil)
	d.Mount()
	d.Select(firefly.TokenApproval{LocalID: "a"}, "a")
	d.SetNamespace("ns1")
	assert.False(t, d.Open())

	req, ok := d.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, "ns1", req.Namespace)
}
