package ro

import "sort"

// Kind classifies store entries.
type Kind string

const (
	KindInterface Kind = "interface"
	KindNode      Kind = "node"
	KindWorkflow  Kind = "workflow"
)

// Entry is a stored definition and its kind.
type Entry struct {
	Kind Kind
	Def  Def
}

// Store holds the definitions known during a single run. It avoids
// redundant remote lookups and is never persisted.
type Store struct {
	entries map[string]Entry
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]Entry)}
}

// Put records def under its id. Definitions without an id are ignored.
func (s *Store) Put(kind Kind, def Def) {
	id := def.ID()
	if id == "" {
		return
	}
	s.entries[id] = Entry{Kind: kind, Def: def}
}

// Get returns the entry stored under id.
func (s *Store) Get(id string) (Entry, bool) {
	e, ok := s.entries[id]
	return e, ok
}

// Has reports whether id is known.
func (s *Store) Has(id string) bool {
	_, ok := s.entries[id]
	return ok
}

// Len returns the number of stored definitions.
func (s *Store) Len() int { return len(s.entries) }

// InterfaceByName returns the interface definition with the given name.
func (s *Store) InterfaceByName(name string) (Def, bool) {
	return s.find(KindInterface, name)
}

// NodeByDesc returns the node declared as name in package pkg.
func (s *Store) NodeByDesc(pkg, name string) (Def, bool) {
	return s.find(KindNode, NodeName(pkg, name))
}

// find scans in id order so duplicate names resolve deterministically.
func (s *Store) find(kind Kind, name string) (Def, bool) {
	ids := make([]string, 0, len(s.entries))
	for id, e := range s.entries {
		if e.Kind == kind && e.Def.Name() == name {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, false
	}
	sort.Strings(ids)
	return s.entries[ids[0]].Def, true
}
