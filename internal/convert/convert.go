package convert

import (
	"fmt"

	"github.com/see-platform/seesync/internal/ro"
	"github.com/see-platform/seesync/internal/wralea"
)

// Categories written on node records.
const (
	CategoryNode = "oanode"
	CategoryData = "oadata"
)

// DataInterface is the interface of a data node's single output.
const DataInterface = "IData"

// Interface converts an interface declaration.
func Interface(decl wralea.Interface) (ro.Def, error) {
	desc := decl.Description
	if desc == "" {
		desc = "unknown"
	}
	ancestors := decl.Ancestors
	if ancestors == nil {
		ancestors = []string{}
	}
	return ro.Encode(ro.Interface{
		ID:          InterfaceID(decl.UID, decl.Name),
		Type:        ro.TypeInterface,
		Name:        decl.Name,
		Description: desc,
		Ancestors:   ancestors,
		Schema:      decl.Schema,
	})
}

// Node converts a factory that went through Normalize. Every port interface
// must already be in store.
func Node(pkg *wralea.Package, f wralea.Factory, store *ro.Store) (ro.Def, error) {
	inputs, err := ports(pkg, f, f.Inputs, store)
	if err != nil {
		return nil, err
	}
	outputs, err := ports(pkg, f, f.Outputs, store)
	if err != nil {
		return nil, err
	}

	return ro.Encode(ro.Node{
		ID:          FactoryID(f.UID, pkg.Name, f.Name),
		Type:        ro.TypeNode,
		Name:        ro.NodeName(pkg.Name, f.Name),
		Category:    CategoryNode,
		Description: f.Description,
		Author:      pkg.Authors,
		Version:     pkg.Major(),
		Function:    fmt.Sprintf("%s:%s:%s", pkg.Name, f.NodeModule, f.NodeClass),
		Inputs:      inputs,
		Outputs:     outputs,
	})
}

func ports(pkg *wralea.Package, f wralea.Factory, decl []wralea.Port, store *ro.Store) ([]ro.Port, error) {
	out := make([]ro.Port, 0, len(decl))
	for _, p := range decl {
		idef, ok := store.InterfaceByName(p.Interface)
		if !ok {
			return nil, fmt.Errorf("interface '%s' used by node '%s:%s': %w",
				p.Interface, pkg.Name, f.Name, ro.ErrNotFound)
		}
		out = append(out, ro.Port{
			Name:        p.Name,
			Interface:   idef.ID(),
			Default:     p.Value,
			Description: p.Desc,
		})
	}
	return out, nil
}

// DataNode converts a data factory into a node with a single IData output.
// Interfaces "any" and "IData" must already be in store.
func DataNode(pkg *wralea.Package, d wralea.DataFactory, store *ro.Store) (ro.Def, error) {
	for _, name := range []string{AnyInterface, DataInterface} {
		if _, ok := store.InterfaceByName(name); !ok {
			return nil, fmt.Errorf("interface '%s' used by data '%s:%s': %w",
				name, pkg.Name, d.Name, ro.ErrNotFound)
		}
	}
	idata, _ := store.InterfaceByName(DataInterface)

	return ro.Encode(ro.Node{
		ID:          FactoryID(d.UID, pkg.Name, d.Name),
		Type:        ro.TypeNode,
		Name:        ro.NodeName(pkg.Name, d.Name),
		Category:    CategoryData,
		Description: d.Description,
		Author:      pkg.Authors,
		Version:     pkg.Major(),
		Inputs:      []ro.Port{},
		Outputs: []ro.Port{{
			Name:        "data",
			Interface:   idata.ID(),
			Default:     d.Name,
			Description: "path to " + d.Name,
		}},
	})
}

// Workflow converts a composite. Every element's node must already be in
// store; connection port indexes are mapped to the node's port names.
func Workflow(pkg *wralea.Package, c wralea.Composite, store *ro.Store) (ro.Def, error) {
	ids := c.ElementIDs()
	index := make(map[string]int, len(ids))
	nodes := make([]ro.WorkflowNode, 0, len(ids))
	defs := make([]ro.Def, 0, len(ids))

	for i, eid := range ids {
		elt := c.Elements[eid]
		ndef, ok := store.NodeByDesc(elt.Package, elt.Name)
		if !ok {
			return nil, fmt.Errorf("node '%s' used by workflow '%s': %w",
				ro.NodeName(elt.Package, elt.Name), c.Name, ro.ErrNotFound)
		}
		label := elt.Caption
		if label == "" {
			label = elt.Name
		}
		wn := ro.WorkflowNode{ID: ndef.ID(), Label: label}
		if len(elt.Position) == 2 {
			wn.X, wn.Y = elt.Position[0], elt.Position[1]
		}
		index[eid] = i
		nodes = append(nodes, wn)
		defs = append(defs, ndef)
	}

	links := make([]ro.WorkflowLink, 0, len(c.Connections))
	for _, conn := range c.Connections {
		src, ok := index[conn.Source]
		if !ok {
			return nil, fmt.Errorf("workflow '%s' connects unknown element %q: %w", c.Name, conn.Source, ro.ErrValidation)
		}
		tgt, ok := index[conn.Target]
		if !ok {
			return nil, fmt.Errorf("workflow '%s' connects unknown element %q: %w", c.Name, conn.Target, ro.ErrValidation)
		}
		srcPort, err := portName(defs[src], "outputs", conn.SourcePort)
		if err != nil {
			return nil, fmt.Errorf("workflow '%s': %w", c.Name, err)
		}
		tgtPort, err := portName(defs[tgt], "inputs", conn.TargetPort)
		if err != nil {
			return nil, fmt.Errorf("workflow '%s': %w", c.Name, err)
		}
		links = append(links, ro.WorkflowLink{
			Source:     src,
			SourcePort: srcPort,
			Target:     tgt,
			TargetPort: tgtPort,
		})
	}

	return ro.Encode(ro.Workflow{
		ID:          FactoryID(c.UID, pkg.Name, c.Name),
		Type:        ro.TypeWorkflow,
		Name:        c.Name,
		Description: c.Description,
		Author:      pkg.Authors,
		Version:     pkg.Major(),
		Nodes:       nodes,
		Links:       links,
	})
}

func portName(def ro.Def, key string, idx int) (string, error) {
	ports, err := def.Ports(key)
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(ports) {
		return "", fmt.Errorf("port %d out of range for %s of %q: %w", idx, key, def.Name(), ro.ErrValidation)
	}
	name, _ := ports[idx]["name"].(string)
	return name, nil
}
