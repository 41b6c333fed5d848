package mcp

import (
	"sync"

	"github.com/gnana997/cafetheme/pkg/catalog"
	"github.com/gnana997/cafetheme/pkg/content"
	"github.com/gnana997/cafetheme/pkg/loader"
)

// State is the live view the tools answer from. The watcher swaps in new
// configurations with Update while the server is running.
type State struct {
	mu     sync.RWMutex
	loaded *loader.Loaded
	query  *catalog.QueryService
	index  *content.Index
}

// NewState builds the catalog for loaded. index may be nil when no content
// scan was performed.
func NewState(loaded *loader.Loaded, index *content.Index) *State {
	return &State{
		loaded: loaded,
		query:  catalog.FromConfig(loaded.Config),
		index:  index,
	}
}

// Update replaces the active configuration.
func (st *State) Update(loaded *loader.Loaded) {
	q := catalog.FromConfig(loaded.Config)
	st.mu.Lock()
	defer st.mu.Unlock()
	st.loaded = loaded
	st.query = q
}

// Snapshot returns the active configuration, its catalog and the index.
func (st *State) Snapshot() (*loader.Loaded, *catalog.QueryService, *content.Index) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.loaded, st.query, st.index
}
