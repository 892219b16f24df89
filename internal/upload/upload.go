package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/see-platform/seesync/internal/convert"
	"github.com/see-platform/seesync/internal/metrics"
	"github.com/see-platform/seesync/internal/ro"
)

// Catalog is the part of the SEEweb client the uploader needs.
type Catalog interface {
	Exists(ctx context.Context, uid string) (bool, error)
	GetRODef(ctx context.Context, uid string) (ro.Def, error)
	GetByName(ctx context.Context, roType, name string) ([]string, error)
	Register(ctx context.Context, roType string, def ro.Def) (string, error)
	Remove(ctx context.Context, uid string, recursive bool) error
	Connect(ctx context.Context, src, tgt, linkType string) error
}

// Result describes one registration.
type Result struct {
	ID      string
	Skipped bool
}

// Uploader registers definitions in dependency order. It is not safe for
// concurrent use.
type Uploader struct {
	catalog      Catalog
	overwrite    bool
	failExisting bool
	logger       *slog.Logger
	metrics      *metrics.Recorder

	// remote caches ids known to exist on the catalog.
	remote     map[string]bool
	containers map[string]string
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithOverwrite removes and re-registers objects whose id already exists.
func WithOverwrite(v bool) Option {
	return func(u *Uploader) { u.overwrite = v }
}

// WithFailOnExisting reports an existing id as ro.ErrConflict instead of
// skipping it. Overwrite takes precedence.
func WithFailOnExisting(v bool) Option {
	return func(u *Uploader) { u.failExisting = v }
}

// WithLogger sets the progress logger.
func WithLogger(l *slog.Logger) Option {
	return func(u *Uploader) {
		if l != nil {
			u.logger = l
		}
	}
}

// WithMetrics counts registrations and links in r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(u *Uploader) { u.metrics = r }
}

// New returns an uploader writing to c.
func New(c Catalog, opts ...Option) *Uploader {
	u := &Uploader{
		catalog:    c,
		logger:     slog.Default(),
		remote:     make(map[string]bool),
		containers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Interface registers an interface definition in container (may be empty).
func (u *Uploader) Interface(ctx context.Context, def ro.Def, container string) (Result, error) {
	if err := checkType(def, ro.TypeInterface); err != nil {
		return Result{}, err
	}
	return u.register(ctx, ro.TypeInterface, def, container, nil)
}

// Node registers a workflow node. Port names must be unique and every port
// interface must already be registered.
func (u *Uploader) Node(ctx context.Context, def ro.Def, container string) (Result, error) {
	if err := checkType(def, ro.TypeNode); err != nil {
		return Result{}, err
	}
	if err := convert.CheckUniquePorts(def); err != nil {
		return Result{}, err
	}

	var deps []dependency
	for _, key := range []string{"inputs", "outputs"} {
		ports, err := def.Ports(key)
		if err != nil {
			return Result{}, err
		}
		for _, p := range ports {
			iid, _ := p["interface"].(string)
			deps = append(deps, dependency{id: iid, what: "interface"})
		}
	}
	return u.register(ctx, ro.TypeNode, def, container, deps)
}

// Workflow registers a workflow. Every node it uses must already be
// registered.
func (u *Uploader) Workflow(ctx context.Context, def ro.Def, container string) (Result, error) {
	if err := checkType(def, ro.TypeWorkflow); err != nil {
		return Result{}, err
	}
	var w ro.Workflow
	if err := ro.Decode(def, &w); err != nil {
		return Result{}, err
	}
	deps := make([]dependency, 0, len(w.Nodes))
	for _, n := range w.Nodes {
		deps = append(deps, dependency{id: n.ID, what: "node"})
	}
	return u.register(ctx, ro.TypeWorkflow, def, container, deps)
}

// dependency is an id that must be registered before the object using it.
type dependency struct {
	id   string
	what string
}

// register runs the idempotency check, verifies deps, then registers def
// and links it to container.
func (u *Uploader) register(ctx context.Context, roType string, def ro.Def, container string, deps []dependency) (Result, error) {
	existing, err := u.existing(ctx, roType, def)
	if err != nil || existing.Skipped {
		return existing, err
	}
	for _, d := range deps {
		if err := u.require(ctx, d.id, d.what, def); err != nil {
			return Result{}, err
		}
	}
	replaced := existing.ID != ""
	if replaced {
		if err := u.catalog.Remove(ctx, existing.ID, false); err != nil {
			return Result{}, err
		}
	}

	id, err := u.catalog.Register(ctx, roType, def)
	if err != nil {
		u.metrics.ObserveRegistration(roType, metrics.OutcomeFailed)
		return Result{}, err
	}
	u.remote[id] = true

	outcome := metrics.OutcomeRegistered
	if replaced {
		outcome = metrics.OutcomeOverwritten
	}
	u.metrics.ObserveRegistration(roType, outcome)
	u.logger.Info("registered", "type", roType, "name", def.Name(), "id", id, "outcome", outcome)

	if container != "" {
		if err := u.link(ctx, container, id, ro.LinkContains); err != nil {
			return Result{}, err
		}
	}
	return Result{ID: id}, nil
}

// existing checks whether def's id is already registered. It returns a
// skipped Result when nothing must be done, and a Result carrying the id
// when the object must be removed first. An id held by an RO of another
// type is a conflict whatever the mode.
func (u *Uploader) existing(ctx context.Context, roType string, def ro.Def) (Result, error) {
	id := def.ID()
	if id == "" {
		return Result{}, nil
	}
	current, err := u.catalog.GetRODef(ctx, id)
	if errors.Is(err, ro.ErrNotFound) {
		return Result{}, nil
	}
	if err != nil {
		return Result{}, err
	}
	if got := current.Type(); got != roType {
		u.metrics.ObserveRegistration(roType, metrics.OutcomeFailed)
		return Result{}, fmt.Errorf("%s %s: id already used by a %q RO: %w", roType, id, got, ro.ErrConflict)
	}
	switch {
	case u.overwrite:
		return Result{ID: id}, nil
	case u.failExisting:
		return Result{}, fmt.Errorf("%s %s: %w", roType, id, ro.ErrConflict)
	default:
		u.remote[id] = true
		u.metrics.ObserveRegistration(roType, metrics.OutcomeSkipped)
		u.logger.Info("RO with same id already registered, doing nothing", "type", roType, "id", id)
		return Result{ID: id, Skipped: true}, nil
	}
}

// require fails with ro.ErrNotFound unless id is registered.
func (u *Uploader) require(ctx context.Context, id, what string, user ro.Def) error {
	if id == "" {
		return fmt.Errorf("%s %q references an empty %s id: %w", user.Type(), user.ID(), what, ro.ErrValidation)
	}
	if u.remote[id] {
		return nil
	}
	ok, err := u.catalog.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s '%s' used by %s %q is not registered: %w", what, id, user.Type(), user.ID(), ro.ErrNotFound)
	}
	u.remote[id] = true
	return nil
}

func (u *Uploader) link(ctx context.Context, src, tgt, linkType string) error {
	if err := u.catalog.Connect(ctx, src, tgt, linkType); err != nil {
		return err
	}
	u.metrics.ObserveLink(linkType)
	return nil
}

func checkType(def ro.Def, want string) error {
	if got := def.Type(); got != want {
		return fmt.Errorf("RO %q has type %q, want %q: %w", def.ID(), got, want, ro.ErrValidation)
	}
	return nil
}
