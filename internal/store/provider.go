package store

import (
	"sync/atomic"

	"github.com/mleroy/agora/internal/search"
)

// Snapshot bundles a Store with the search index derived from it.
// The two are built together and published together, so readers never
// pair a fresh store with a stale index.
type Snapshot struct {
	Store *Store
	Index *search.Index
}

// NewSnapshot builds the search index for a store and bundles them.
func NewSnapshot(s *Store) *Snapshot {
	return &Snapshot{
		Store: s,
		Index: search.Build(s.AllTopics()),
	}
}

// Provider publishes Snapshots to concurrent readers.
//
// A replacement snapshot is built fully off to the side and installed
// with one atomic pointer swap. In-flight readers keep the snapshot
// they started with; nobody ever observes a half-built store.
type Provider struct {
	current atomic.Pointer[Snapshot]
}

// NewProvider creates an empty Provider in the not-ready state.
func NewProvider() *Provider {
	return &Provider{}
}

// Publish installs a new snapshot, replacing the previous one.
func (p *Provider) Publish(s *Snapshot) {
	p.current.Store(s)
}

// Current returns the published snapshot. ok is false before the first
// Publish, the explicit "not ready" state.
func (p *Provider) Current() (*Snapshot, bool) {
	s := p.current.Load()
	return s, s != nil
}

// Ready reports whether a snapshot has been published.
func (p *Provider) Ready() bool {
	return p.current.Load() != nil
}
