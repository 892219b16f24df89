package upload

import (
	"context"
	"fmt"

	"github.com/see-platform/seesync/internal/export"
	"github.com/see-platform/seesync/internal/ro"
)

// Summary counts the outcome of a bundle upload.
type Summary struct {
	Registered int
	Skipped    int
}

// Bundle files every package under its container, then registers
// interfaces, nodes and workflows in that order. It stops at the first
// error.
func (u *Uploader) Bundle(ctx context.Context, b *export.Bundle) (Summary, error) {
	var sum Summary
	for _, pkg := range b.Packages {
		if _, err := u.PackageContainer(ctx, pkg); err != nil {
			return sum, fmt.Errorf("container for %s: %w", pkg, err)
		}
	}

	for _, it := range b.Items() {
		cid, err := u.PackageContainer(ctx, it.Package)
		if err != nil {
			return sum, fmt.Errorf("container for %s: %w", it.Package, err)
		}

		var res Result
		switch it.Def.Type() {
		case ro.TypeInterface:
			res, err = u.Interface(ctx, it.Def, cid)
		case ro.TypeNode:
			res, err = u.Node(ctx, it.Def, cid)
		case ro.TypeWorkflow:
			res, err = u.Workflow(ctx, it.Def, cid)
		default:
			err = fmt.Errorf("RO %q has unexpected type %q: %w", it.Def.ID(), it.Def.Type(), ro.ErrValidation)
		}
		if err != nil {
			return sum, fmt.Errorf("%s '%s': %w", it.Package, it.Def.Name(), err)
		}
		if res.Skipped {
			sum.Skipped++
		} else {
			sum.Registered++
		}
	}
	return sum, nil
}
