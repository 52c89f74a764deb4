package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/mithibai-cc/ats-backend/internal/identity"
)

const subscriberBuffer = 16

// Manager owns the process-wide session state. It registers exactly one
// listener with the identity source; every identity change updates the
// state and republishes it to subscribers. The provider callback is the
// single writer path; renders read snapshots via State().
type Manager struct {
	source   Source
	profiles ProfileFetcher

	mu        sync.Mutex
	state     State
	subs      map[int]chan State
	nextSubID int
	cancel    func()
}

func NewManager(source Source, profiles ProfileFetcher) *Manager {
	return &Manager{
		source:   source,
		profiles: profiles,
		subs:     make(map[int]chan State),
	}
}

// Start registers the identity listener. Call Close on shutdown to
// release it.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return fmt.Errorf("session manager already started")
	}
	m.cancel = m.source.Subscribe(m.onIdentityChange)
	return nil
}

// Close releases the identity subscription and all state subscribers.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	for id, ch := range m.subs {
		close(ch)
		delete(m.subs, id)
	}
}

// State returns a snapshot of the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe returns a channel receiving every published state, seeded
// with the current one. cancel releases the subscription.
func (m *Manager) Subscribe() (<-chan State, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSubID
	m.nextSubID++

	ch := make(chan State, subscriberBuffer)
	ch <- m.state
	m.subs[id] = ch

	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if c, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(c)
		}
	}
}

func (m *Manager) onIdentityChange(id *identity.Identity) {
	m.mu.Lock()

	m.state.Identity = id
	if id == nil {
		m.state.Profile = nil
		m.state.Err = ""
		m.state.Loading = false
		m.publishLocked()
		m.mu.Unlock()
		return
	}

	// Intermediate state: profile unchanged, loading until the fetch
	// for this identity completes.
	m.state.Loading = true
	m.state.Err = ""
	uid := id.UID
	m.publishLocked()
	m.mu.Unlock()

	go m.fetchProfile(uid)
}

// fetchProfile resolves the profile for uid and publishes the result.
// Results that arrive after the identity has changed again are dropped
// so a stale profile never overwrites a newer identity's state.
func (m *Manager) fetchProfile(uid string) {
	p, err := m.profiles.Get(context.Background(), uid)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Identity == nil || m.state.Identity.UID != uid {
		return
	}

	if err != nil {
		m.state.Profile = nil
		m.state.Err = fmt.Sprintf("failed to load profile: %v", err)
	} else {
		m.state.Profile = p
		m.state.Err = ""
	}
	m.state.Loading = false
	m.publishLocked()
}

// publishLocked fans the current state out to subscribers. Slow
// subscribers lose the oldest buffered state, never the newest.
func (m *Manager) publishLocked() {
	for _, ch := range m.subs {
		select {
		case ch <- m.state:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- m.state:
			default:
			}
		}
	}
}
