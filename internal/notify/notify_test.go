package notify

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotifier(t *testing.T, now *time.Time) (*Notifier, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := log.New(&buf)
	n := New(
		WithClock(func() time.Time { return *now }),
		WithLogger(logger),
	)
	return n, &buf
}

func TestReportFetchError_QueuesAndLogs(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	n, buf := newTestNotifier(t, &now)

	n.ReportFetchError(errors.New("api /tokens/approvals returned status 500"))
	n.ReportFetchError(nil)

	active := n.Active(now)
	require.Len(t, active, 1)
	assert.Equal(t, LevelError, active[0].Level)
	assert.Contains(t, active[0].Message, "status 500")
	assert.Contains(t, buf.String(), "status 500")
}

func TestActive_ExpiresAfterTTL(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	n, _ := newTestNotifier(t, &now)

	n.Report(LevelWarn, "first")
	now = now.Add(3 * time.Second)
	n.Report(LevelInfo, "second")

	active := n.Active(now.Add(2500 * time.Millisecond))
	require.Len(t, active, 1)
	assert.Equal(t, "second", active[0].Message)

	assert.Empty(t, n.Active(now.Add(DefaultTTL)))
}

func TestReport_BoundedQueue(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	n, _ := newTestNotifier(t, &now)

	for i := 0; i < MaxNotices+3; i++ {
		n.Report(LevelInfo, string(rune('a'+i)))
	}
	active := n.Active(now)
	require.Len(t, active, MaxNotices)
	assert.Equal(t, "d", active[0].Message)

	latest, ok := n.Latest(now)
	require.True(t, ok)
	assert.Equal(t, string(rune('a'+MaxNotices+2)), latest.Message)
}

func TestWithTTL(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	n := New(WithClock(func() time.Time { return now }), WithTTL(time.Second), WithLogger(log.New(&bytes.Buffer{})))
	n.Report(LevelInfo, "short")
	assert.Empty(t, n.Active(now.Add(time.Second)))
}

func TestNilNotifierIsSafe(t *testing.T) {
	var n *Notifier
	n.Report(LevelError, "ignored")
	assert.Nil(t, n.Active(time.Now()))
}
