package resolve

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/see-platform/seesync/internal/ro"
)

// fakeCatalog counts calls and serves definitions from a map.
type fakeCatalog struct {
	defs     map[string]ro.Def
	searches int
	fetches  int
	err      error
}

func newFakeCatalog(defs ...ro.Def) *fakeCatalog {
	f := &fakeCatalog{defs: make(map[string]ro.Def)}
	for _, d := range defs {
		f.defs[d.ID()] = d
	}
	return f
}

func (f *fakeCatalog) GetByName(_ context.Context, roType, name string) ([]string, error) {
	f.searches++
	if f.err != nil {
		return nil, f.err
	}
	var ids []string
	for id, d := range f.defs {
		if d.Type() == roType && d.Name() == name {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeCatalog) GetRODef(_ context.Context, uid string) (ro.Def, error) {
	f.fetches++
	d, ok := f.defs[uid]
	if !ok {
		return nil, fmt.Errorf("RO %s: %w", uid, ro.ErrNotFound)
	}
	return d, nil
}

func TestLocalHitNeverCallsCatalog(t *testing.T) {
	store := ro.NewStore()
	store.Put(ro.KindInterface, ro.Def{"id": "i1", "type": ro.TypeInterface, "name": "IInt"})
	store.Put(ro.KindNode, ro.Def{"id": "n1", "type": ro.TypeNode, "name": "openalea.math: plus"})
	cat := newFakeCatalog()
	r := New(store, cat, nil)

	def, err := r.Interface(context.Background(), "IInt")
	require.NoError(t, err)
	assert.Equal(t, "i1", def.ID())

	def, err = r.Node(context.Background(), "openalea.math", "plus")
	require.NoError(t, err)
	assert.Equal(t, "n1", def.ID())

	assert.Zero(t, cat.searches)
	assert.Zero(t, cat.fetches)
}

func TestRemoteHitIsCached(t *testing.T) {
	cat := newFakeCatalog(ro.Def{"id": "r1", "type": ro.TypeInterface, "name": "IStr"})
	store := ro.NewStore()
	r := New(store, cat, nil)

	def, err := r.Interface(context.Background(), "IStr")
	require.NoError(t, err)
	assert.Equal(t, "r1", def.ID())
	assert.True(t, store.Has("r1"))

	_, err = r.Interface(context.Background(), "IStr")
	require.NoError(t, err)
	assert.Equal(t, 1, cat.searches)
	assert.Equal(t, 1, cat.fetches)
}

func TestRemoteNodeUsesDescriptorName(t *testing.T) {
	cat := newFakeCatalog(ro.Def{"id": "n9", "type": ro.TypeNode, "name": "vplants.plantgl: box"})
	r := New(ro.NewStore(), cat, nil)

	def, err := r.Node(context.Background(), "vplants.plantgl", "box")
	require.NoError(t, err)
	assert.Equal(t, "n9", def.ID())

	entry, ok := r.Store().Get("n9")
	require.True(t, ok)
	assert.Equal(t, ro.KindNode, entry.Kind)
}

func TestNotFound(t *testing.T) {
	r := New(ro.NewStore(), newFakeCatalog(), nil)
	_, err := r.Interface(context.Background(), "IMissing")
	assert.ErrorIs(t, err, ro.ErrNotFound)

	offline := New(ro.NewStore(), nil, nil)
	_, err = offline.Node(context.Background(), "p", "n")
	assert.ErrorIs(t, err, ro.ErrNotFound)
}

func TestAmbiguous(t *testing.T) {
	cat := newFakeCatalog(
		ro.Def{"id": "a", "type": ro.TypeInterface, "name": "IDup"},
		ro.Def{"id": "b", "type": ro.TypeInterface, "name": "IDup"},
	)
	r := New(ro.NewStore(), cat, nil)

	_, err := r.Interface(context.Background(), "IDup")
	assert.ErrorIs(t, err, ro.ErrAmbiguous)
	assert.False(t, errors.Is(err, ro.ErrNotFound))
	assert.Zero(t, cat.fetches)
	assert.Zero(t, r.Store().Len())
}

func TestCatalogErrorPropagates(t *testing.T) {
	boom := errors.New("connection refused")
	cat := newFakeCatalog()
	cat.err = boom
	r := New(ro.NewStore(), cat, nil)

	_, err := r.Interface(context.Background(), "IInt")
	assert.ErrorIs(t, err, boom)
}
