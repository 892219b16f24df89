package upload

import (
	"context"
	"fmt"
	"strings"

	"github.com/see-platform/seesync/internal/metrics"
	"github.com/see-platform/seesync/internal/ro"
)

// Namespaces are the top-level containers packages are filed under. When a
// package name contains several, the last one listed wins.
var Namespaces = []string{"alinea", "openalea", "vplants"}

// DefaultNamespace holds packages matching no namespace.
const DefaultNamespace = "openalea"

// EnsureContainer returns the id of the container named name, registering
// it when absent. created is true when it was registered by this call.
func (u *Uploader) EnsureContainer(ctx context.Context, name string) (id string, created bool, err error) {
	ids, err := u.catalog.GetByName(ctx, ro.TypeContainer, name)
	if err != nil {
		return "", false, err
	}
	switch len(ids) {
	case 0:
	case 1:
		u.remote[ids[0]] = true
		return ids[0], false, nil
	default:
		return "", false, fmt.Errorf("%d containers named '%s': %w", len(ids), name, ro.ErrAmbiguous)
	}

	id, err = u.catalog.Register(ctx, ro.TypeContainer, ro.Def{"name": name})
	if err != nil {
		u.metrics.ObserveRegistration(ro.TypeContainer, metrics.OutcomeFailed)
		return "", false, err
	}
	u.remote[id] = true
	u.metrics.ObserveRegistration(ro.TypeContainer, metrics.OutcomeRegistered)
	u.logger.Info("registered container", "name", name, "id", id)
	return id, true, nil
}

// PackageContainer returns the container holding pkg's objects. The
// package container is filed under its namespace container when it is
// created.
func (u *Uploader) PackageContainer(ctx context.Context, pkg string) (string, error) {
	if id, ok := u.containers[pkg]; ok {
		return id, nil
	}

	var top string
	for _, ns := range Namespaces {
		if !strings.Contains(pkg, ns) {
			continue
		}
		id, _, err := u.EnsureContainer(ctx, ns)
		if err != nil {
			return "", err
		}
		top = id
	}
	if top == "" {
		id, _, err := u.EnsureContainer(ctx, DefaultNamespace)
		if err != nil {
			return "", err
		}
		top = id
	}

	pid, created, err := u.EnsureContainer(ctx, pkg)
	if err != nil {
		return "", err
	}
	if created && pid != top {
		if err := u.link(ctx, top, pid, ro.LinkContains); err != nil {
			return "", err
		}
	}
	u.containers[pkg] = pid
	return pid, nil
}
