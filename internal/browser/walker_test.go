package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const episodePage = "https://an1me.to/watch/frieren-episode-3/"

// instant keeps walks fast while still distinguishing the two navigation bounds.
var instant = Timeouts{TopLevel: 30 * time.Second, Frame: 20 * time.Second}

func TestWalkVisitsEveryFrameInOrder(t *testing.T) {
	page := newFakePage()
	page.frames = []string{
		"https://player-a.example/embed/1",
		"https://player-b.example/embed/1",
	}

	outcomes, err := NewWalker(instant, nil).Walk(context.Background(), page, episodePage)
	require.NoError(t, err)

	assert.Equal(t, []string{
		episodePage,
		"https://player-a.example/embed/1",
		"https://player-b.example/embed/1",
	}, page.visited())
	require.Len(t, outcomes, 2)
	assert.True(t, outcomes[0].OK())
	assert.True(t, outcomes[1].OK())
}

func TestWalkContinuesAfterFrameFailure(t *testing.T) {
	page := newFakePage()
	page.frames = []string{
		"https://slow.example/embed",
		"https://player-b.example/embed",
		"https://player-c.example/embed",
	}
	timeout := context.DeadlineExceeded
	page.failures["https://slow.example/embed"] = timeout

	outcomes, err := NewWalker(instant, nil).Walk(context.Background(), page, episodePage)
	require.NoError(t, err)

	assert.Equal(t, []string{
		episodePage,
		"https://slow.example/embed",
		"https://player-b.example/embed",
		"https://player-c.example/embed",
	}, page.visited())
	require.Len(t, outcomes, 3)
	assert.ErrorIs(t, outcomes[0].Err, timeout)
	assert.True(t, outcomes[1].OK())
	assert.True(t, outcomes[2].OK())
}

func TestWalkTopLevelFailureIsFatal(t *testing.T) {
	page := newFakePage()
	page.frames = []string{"https://player-a.example/embed/1"}
	page.failures[episodePage] = errors.New("net::ERR_NAME_NOT_RESOLVED")

	outcomes, err := NewWalker(instant, nil).Walk(context.Background(), page, episodePage)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNavigation)
	assert.Nil(t, outcomes)
	assert.Equal(t, []string{episodePage}, page.visited(), "no iframe may be visited")
}

func TestWalkUsesSeparateBoundsForPageAndFrames(t *testing.T) {
	page := newFakePage()
	page.frames = []string{"https://player-a.example/embed/1"}

	_, err := NewWalker(instant, nil).Walk(context.Background(), page, episodePage)
	require.NoError(t, err)

	require.Len(t, page.visits, 2)
	assert.Equal(t, 30*time.Second, page.visits[0].timeout)
	assert.Equal(t, 20*time.Second, page.visits[1].timeout)
}

func TestWalkSkipsNonWebFrames(t *testing.T) {
	page := newFakePage()
	page.frames = []string{
		"",
		"about:blank",
		"javascript:void(0)",
		"https://player-a.example/embed/1",
	}

	outcomes, err := NewWalker(instant, nil).Walk(context.Background(), page, episodePage)
	require.NoError(t, err)
	assert.Equal(t, []string{episodePage, "https://player-a.example/embed/1"}, page.visited())
	assert.Len(t, outcomes, 1)
}

func TestWalkFrameListingFailureIsNotFatal(t *testing.T) {
	page := newFakePage()
	page.framesErr = errors.New("execution context destroyed")

	outcomes, err := NewWalker(instant, nil).Walk(context.Background(), page, episodePage)
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}

func TestWalkStopsWhenContextEnds(t *testing.T) {
	page := newFakePage()
	page.frames = []string{"https://player-a.example/embed/1"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWalker(DefaultTimeouts(), nil).Walk(ctx, page, episodePage)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{episodePage}, page.visited())
}

func TestDefaultTimeouts(t *testing.T) {
	d := DefaultTimeouts()
	assert.Equal(t, 30*time.Second, d.TopLevel)
	assert.Equal(t, 3*time.Second, d.Settle)
	assert.Equal(t, 20*time.Second, d.Frame)
	assert.Equal(t, 2*time.Second, d.FrameSettle)
}
