package session

import (
	"testing"

	"github.com/jonathan/resume-studio/internal/assistant"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_PublishAndCancel(t *testing.T) {
	b := newBroadcaster()
	events, cancel := b.subscribe()

	b.publish(assistant.JobState{Kind: types.JobSummary, Status: assistant.StatusPending})
	require.Len(t, events, 1)
	assert.Equal(t, assistant.StatusPending, (<-events).Status)

	cancel()
	_, open := <-events
	assert.False(t, open)
	assert.NotPanics(t, cancel)
	assert.NotPanics(t, func() { b.publish(assistant.JobState{}) })
}

func TestBroadcaster_CancelAfterCloseAll(t *testing.T) {
	b := newBroadcaster()
	first, cancelFirst := b.subscribe()
	_, cancelSecond := b.subscribe()

	b.closeAll()

	_, open := <-first
	assert.False(t, open)
	assert.NotPanics(t, cancelFirst)
	assert.NotPanics(t, cancelSecond)
	assert.NotPanics(t, b.closeAll)
}

func TestBroadcaster_DropsWhenFull(t *testing.T) {
	b := newBroadcaster()
	events, cancel := b.subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer+5; i++ {
		b.publish(assistant.JobState{Kind: types.JobCoverLetter, Status: assistant.StatusPending})
	}
	assert.Len(t, events, subscriberBuffer)
}
