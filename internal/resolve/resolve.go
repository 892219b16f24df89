// Package resolve finds interface and node definitions by name, looking in
// the run's local store before asking the remote catalog.
package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/see-platform/seesync/internal/ro"
)

// Catalog is the part of the SEEweb client the resolver needs.
type Catalog interface {
	GetByName(ctx context.Context, roType, name string) ([]string, error)
	GetRODef(ctx context.Context, uid string) (ro.Def, error)
}

// Resolver caches remote hits in its store. A nil catalog resolves from
// the store only.
type Resolver struct {
	store   *ro.Store
	catalog Catalog
	logger  *slog.Logger
}

// New returns a resolver over store and catalog.
func New(store *ro.Store, catalog Catalog, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, catalog: catalog, logger: logger}
}

// Store returns the store the resolver fills.
func (r *Resolver) Store() *ro.Store { return r.store }

// Interface resolves an interface by name.
func (r *Resolver) Interface(ctx context.Context, name string) (ro.Def, error) {
	if def, ok := r.store.InterfaceByName(name); ok {
		return def, nil
	}
	return r.remote(ctx, ro.KindInterface, ro.TypeInterface, name)
}

// Node resolves a node by its package and factory name.
func (r *Resolver) Node(ctx context.Context, pkg, name string) (ro.Def, error) {
	if def, ok := r.store.NodeByDesc(pkg, name); ok {
		return def, nil
	}
	return r.remote(ctx, ro.KindNode, ro.TypeNode, ro.NodeName(pkg, name))
}

func (r *Resolver) remote(ctx context.Context, kind ro.Kind, roType, name string) (ro.Def, error) {
	if r.catalog == nil {
		return nil, fmt.Errorf("%s '%s' is not defined locally: %w", roType, name, ro.ErrNotFound)
	}

	ids, err := r.catalog.GetByName(ctx, roType, name)
	if err != nil {
		return nil, err
	}
	switch len(ids) {
	case 0:
		return nil, fmt.Errorf("%s '%s' is not defined anywhere: %w", roType, name, ro.ErrNotFound)
	case 1:
	default:
		return nil, fmt.Errorf("%s '%s' matches %d catalog entries: %w", roType, name, len(ids), ro.ErrAmbiguous)
	}

	def, err := r.catalog.GetRODef(ctx, ids[0])
	if err != nil {
		return nil, err
	}
	r.store.Put(kind, def)
	r.logger.Debug("resolved from catalog", "type", roType, "name", name, "id", def.ID())
	return def, nil
}
