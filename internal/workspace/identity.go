package workspace

import (
	"sync"

	"github.com/itobot/scout/internal/model"
)

// IdentityFeed broadcasts the signed-in user, or nil when signed out.
// Subscribers always see the latest value; intermediate ones may be skipped.
type IdentityFeed struct {
	mu      sync.Mutex
	known   bool
	current *model.UserProfile
	subs    map[int]chan *model.UserProfile
	next    int
}

// NewIdentityFeed creates a feed whose identity is not yet known
func NewIdentityFeed() *IdentityFeed {
	return &IdentityFeed{subs: make(map[int]chan *model.UserProfile)}
}

// Subscribe returns a channel of identity changes and a function to stop listening.
// Once the identity is known the channel immediately holds it.
func (f *IdentityFeed) Subscribe() (<-chan *model.UserProfile, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan *model.UserProfile, 1)
	if f.known {
		ch <- f.current
	}
	id := f.next
	f.next++
	f.subs[id] = ch

	return ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if sub, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(sub)
		}
	}
}

// Publish replaces the current identity; nil means signed out
func (f *IdentityFeed) Publish(user *model.UserProfile) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.known = true
	f.current = user
	for _, ch := range f.subs {
		// keep only the newest value
		select {
		case <-ch:
		default:
		}
		ch <- user
	}
}

// Current returns the latest identity and whether one has been published
func (f *IdentityFeed) Current() (*model.UserProfile, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, f.known
}
