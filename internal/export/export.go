// Package export turns discovered wralea packages into RO definitions ready
// for upload, resolving cross-references as it goes.
package export

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/see-platform/seesync/internal/convert"
	"github.com/see-platform/seesync/internal/resolve"
	"github.com/see-platform/seesync/internal/ro"
	"github.com/see-platform/seesync/internal/wralea"
)

// Item is one converted definition and the package it came from.
type Item struct {
	Package string
	Def     ro.Def
}

// Bundle groups converted definitions in upload order.
type Bundle struct {
	// Packages lists every exported package name, including those that
	// contributed no definition.
	Packages   []string
	Interfaces []Item
	Nodes      []Item
	Workflows  []Item
}

// Len returns the number of definitions in the bundle.
func (b *Bundle) Len() int {
	return len(b.Interfaces) + len(b.Nodes) + len(b.Workflows)
}

// Items returns every definition in upload order.
func (b *Bundle) Items() []Item {
	out := make([]Item, 0, b.Len())
	out = append(out, b.Interfaces...)
	out = append(out, b.Nodes...)
	return append(out, b.Workflows...)
}

// Options selects what is exported.
type Options struct {
	Workflows bool
}

// Exporter converts packages. Definitions it creates are added to the
// resolver's store so later factories can reference them.
type Exporter struct {
	resolver *resolve.Resolver
	logger   *slog.Logger
}

// New returns an exporter backed by r.
func New(r *resolve.Resolver, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{resolver: r, logger: logger}
}

// Export converts interfaces first, then nodes (plain, data, composites
// with ports), then workflows when opts.Workflows is set.
func (e *Exporter) Export(ctx context.Context, pkgs []*wralea.Package, opts Options) (*Bundle, error) {
	b := &Bundle{}
	for _, pkg := range pkgs {
		b.Packages = append(b.Packages, pkg.Name)
	}

	for _, pkg := range pkgs {
		for _, decl := range pkg.Interfaces {
			e.logger.Info("exporting interface", "package", pkg.Name, "name", decl.Name)
			def, err := convert.Interface(decl)
			if err != nil {
				return nil, fmt.Errorf("interface '%s:%s': %w", pkg.Name, decl.Name, err)
			}
			if e.known(def.ID()) {
				continue
			}
			e.store().Put(ro.KindInterface, def)
			b.Interfaces = append(b.Interfaces, Item{Package: pkg.Name, Def: def})
		}
	}

	for _, pkg := range pkgs {
		for _, f := range pkg.Nodes {
			if err := e.node(ctx, b, pkg, f); err != nil {
				return nil, err
			}
		}
		for _, d := range pkg.Data {
			if err := e.data(ctx, b, pkg, d); err != nil {
				return nil, err
			}
		}
		for _, c := range pkg.Composites {
			if !c.HasPorts() {
				continue
			}
			f := c.Factory
			f.UID = convert.CompositeNodeID(c.UID, pkg.Name, c.Name)
			if err := e.node(ctx, b, pkg, f); err != nil {
				return nil, err
			}
		}
	}

	if !opts.Workflows {
		return b, nil
	}
	for _, pkg := range pkgs {
		for _, c := range pkg.Composites {
			if err := e.workflow(ctx, b, pkg, c); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

func (e *Exporter) store() *ro.Store { return e.resolver.Store() }

// known reports ids already converted in this run; they are skipped.
func (e *Exporter) known(id string) bool {
	if !e.store().Has(id) {
		return false
	}
	e.logger.Warn("RO with same uid already exists, doing nothing", "id", id)
	return true
}

func (e *Exporter) node(ctx context.Context, b *Bundle, pkg *wralea.Package, f wralea.Factory) error {
	e.logger.Info("exporting node", "package", pkg.Name, "name", f.Name)
	if e.known(convert.FactoryID(f.UID, pkg.Name, f.Name)) {
		return nil
	}

	f, err := convert.Normalize(pkg.Name, f)
	if err != nil {
		return err
	}
	for _, name := range convert.InterfaceNames(f) {
		if _, err := e.resolver.Interface(ctx, name); err != nil {
			return fmt.Errorf("node '%s:%s': %w", pkg.Name, f.Name, err)
		}
	}

	def, err := convert.Node(pkg, f, e.store())
	if err != nil {
		return err
	}
	e.store().Put(ro.KindNode, def)
	b.Nodes = append(b.Nodes, Item{Package: pkg.Name, Def: def})
	return nil
}

func (e *Exporter) data(ctx context.Context, b *Bundle, pkg *wralea.Package, d wralea.DataFactory) error {
	e.logger.Info("exporting data", "package", pkg.Name, "name", d.Name)
	if e.known(convert.FactoryID(d.UID, pkg.Name, d.Name)) {
		return nil
	}

	for _, name := range []string{convert.AnyInterface, convert.DataInterface} {
		if _, err := e.resolver.Interface(ctx, name); err != nil {
			return fmt.Errorf("data '%s:%s': %w", pkg.Name, d.Name, err)
		}
	}

	def, err := convert.DataNode(pkg, d, e.store())
	if err != nil {
		return err
	}
	e.store().Put(ro.KindNode, def)
	b.Nodes = append(b.Nodes, Item{Package: pkg.Name, Def: def})
	return nil
}

func (e *Exporter) workflow(ctx context.Context, b *Bundle, pkg *wralea.Package, c wralea.Composite) error {
	e.logger.Info("exporting workflow", "package", pkg.Name, "name", c.Name)
	if e.known(convert.FactoryID(c.UID, pkg.Name, c.Name)) {
		return nil
	}

	for _, eid := range c.ElementIDs() {
		elt := c.Elements[eid]
		if _, err := e.resolver.Node(ctx, elt.Package, elt.Name); err != nil {
			return fmt.Errorf("workflow '%s:%s': %w", pkg.Name, c.Name, err)
		}
	}

	def, err := convert.Workflow(pkg, c, e.store())
	if err != nil {
		return err
	}
	e.store().Put(ro.KindWorkflow, def)
	b.Workflows = append(b.Workflows, Item{Package: pkg.Name, Def: def})
	return nil
}
