package upload

import (
	"context"
	"fmt"

	"github.com/see-platform/seesync/internal/ro"
)

// Prov registers an execution provenance record.
//
// The workflow it was produced by and every input data of type "ref" must
// already be registered. Each output data is registered as its own RO,
// named "<prov name>_<i>", and replaced in the record by a reference to
// it. The record is then registered and linked: "consume" to input refs,
// "produce" to outputs and "contains" from container. def is not modified.
func (u *Uploader) Prov(ctx context.Context, def ro.Def, container string) (Result, error) {
	if err := checkType(def, ro.TypeProv); err != nil {
		return Result{}, err
	}
	var p ro.Prov
	if err := ro.Decode(def, &p); err != nil {
		return Result{}, err
	}

	existing, err := u.existing(ctx, ro.TypeProv, def)
	if err != nil || existing.Skipped {
		return existing, err
	}
	if err := u.require(ctx, p.Workflow, "workflow", def); err != nil {
		return Result{}, err
	}

	rec := def.Clone()
	entries, err := dataEntries(rec)
	if err != nil {
		return Result{}, err
	}

	var inputRefs []string
	for _, did := range portData(p, true) {
		entry, ok := entries[did]
		if !ok {
			return Result{}, fmt.Errorf("prov %q: no data recorded with id %q: %w", p.ID, did, ro.ErrValidation)
		}
		if entry["type"] != ro.DataRef {
			continue
		}
		ref, _ := entry["value"].(string)
		if err := u.require(ctx, ref, "data", def); err != nil {
			return Result{}, err
		}
		inputRefs = append(inputRefs, ref)
	}

	outputs := portData(p, false)
	for _, did := range outputs {
		if _, ok := entries[did]; !ok {
			return Result{}, fmt.Errorf("prov %q: no data recorded with id %q: %w", p.ID, did, ro.ErrValidation)
		}
	}

	if existing.ID != "" {
		if err := u.catalog.Remove(ctx, existing.ID, false); err != nil {
			return Result{}, err
		}
	}

	var produced []string
	for i, did := range outputs {
		entry := entries[did]
		data := ro.Def(entry).Clone()
		delete(data, "id")
		data["name"] = fmt.Sprintf("%s_%d", p.Name, i)
		res, err := u.register(ctx, ro.TypeData, data, container, nil)
		if err != nil {
			return Result{}, fmt.Errorf("registering output %q of prov %q: %w", did, p.ID, err)
		}
		entry["type"] = ro.DataRef
		entry["value"] = res.ID
		produced = append(produced, res.ID)
	}

	res, err := u.register(ctx, ro.TypeProv, rec, "", nil)
	if err != nil {
		return Result{}, err
	}
	for _, ref := range inputRefs {
		if err := u.link(ctx, res.ID, ref, ro.LinkConsume); err != nil {
			return Result{}, err
		}
	}
	for _, ref := range produced {
		if err := u.link(ctx, res.ID, ref, ro.LinkProduce); err != nil {
			return Result{}, err
		}
	}
	if container != "" {
		if err := u.link(ctx, container, res.ID, ro.LinkContains); err != nil {
			return Result{}, err
		}
	}
	return res, nil
}

// dataEntries indexes the "data" list of rec by id. The maps returned are
// the ones inside rec.
func dataEntries(rec ro.Def) (map[string]map[string]any, error) {
	raw, _ := rec["data"].([]any)
	out := make(map[string]map[string]any, len(raw))
	for i, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("data[%d] of prov %q is not an object: %w", i, rec.ID(), ro.ErrValidation)
		}
		id, _ := entry["id"].(string)
		out[id] = entry
	}
	return out, nil
}

// portData lists the distinct data ids bound to input (or output) ports,
// in order of first appearance.
func portData(p ro.Prov, inputs bool) []string {
	var out []string
	seen := make(map[string]bool)
	for _, ex := range p.Executions {
		ports := ex.Outputs
		if inputs {
			ports = ex.Inputs
		}
		for _, port := range ports {
			if port.Data == nil || seen[*port.Data] {
				continue
			}
			seen[*port.Data] = true
			out = append(out, *port.Data)
		}
	}
	return out
}
