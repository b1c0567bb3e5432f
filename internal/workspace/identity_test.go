package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itobot/scout/internal/model"
)

func TestIdentityFeedDeliversCurrentThenChanges(t *testing.T) {
	feed := NewIdentityFeed()
	ada := &model.UserProfile{UID: "u1", Name: "Ada"}

	early, stopEarly := feed.Subscribe()
	defer stopEarly()
	assert.Empty(t, early)

	feed.Publish(ada)
	assert.Equal(t, ada, <-early)

	late, stopLate := feed.Subscribe()
	defer stopLate()
	assert.Equal(t, ada, <-late)

	feed.Publish(nil)
	assert.Nil(t, <-early)
	assert.Nil(t, <-late)
}

func TestIdentityFeedKeepsOnlyLatest(t *testing.T) {
	feed := NewIdentityFeed()
	ch, stop := feed.Subscribe()
	defer stop()

	feed.Publish(&model.UserProfile{UID: "u1"})
	feed.Publish(&model.UserProfile{UID: "u2"})

	got := <-ch
	require.NotNil(t, got)
	assert.Equal(t, model.UserID("u2"), got.UID)
	assert.Empty(t, ch)
}

func TestIdentityFeedUnsubscribeClosesChannel(t *testing.T) {
	feed := NewIdentityFeed()
	ch, stop := feed.Subscribe()

	stop()
	stop()

	_, open := <-ch
	assert.False(t, open)
	feed.Publish(&model.UserProfile{UID: "u1"})

	current, known := feed.Current()
	assert.True(t, known)
	assert.Equal(t, model.UserID("u1"), current.UID)
}
