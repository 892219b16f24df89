package ro

import (
	"encoding/json"
	"fmt"
	"os"
)

// RO types known to SEEweb.
const (
	TypeInterface = "interface"
	TypeNode      = "workflow_node"
	TypeWorkflow  = "workflow"
	TypeProv      = "workflow_prov"
	TypeContainer = "container"
	TypeData      = "ro"
)

// Link types used with connect/disconnect.
const (
	LinkContains = "contains"
	LinkConsume  = "consume"
	LinkProduce  = "produce"
)

// Def is the JSON form of a Reusable Object as stored by SEEweb.
type Def map[string]any

// ID returns the "id" field, or "" when absent.
func (d Def) ID() string { return d.str("id") }

// Type returns the "type" field, or "" when absent.
func (d Def) Type() string { return d.str("type") }

// Name returns the "name" field, or "" when absent.
func (d Def) Name() string { return d.str("name") }

func (d Def) str(key string) string {
	s, _ := d[key].(string)
	return s
}

// Clone returns a deep copy of d.
func (d Def) Clone() Def {
	if d == nil {
		return nil
	}
	return cloneValue(map[string]any(d)).(map[string]any)
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[k] = cloneValue(item)
		}
		return m
	case Def:
		return Def(cloneValue(map[string]any(val)).(map[string]any))
	case []any:
		a := make([]any, len(val))
		for i, item := range val {
			a[i] = cloneValue(item)
		}
		return a
	default:
		return val
	}
}

// Ports returns the entries of a port list ("inputs" or "outputs").
// Entries that are not JSON objects are reported as a validation error.
func (d Def) Ports(key string) ([]map[string]any, error) {
	raw, ok := d[key]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s of %q is not a list: %w", key, d.ID(), ErrValidation)
	}
	ports := make([]map[string]any, 0, len(list))
	for i, item := range list {
		port, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s[%d] of %q is not an object: %w", key, i, d.ID(), ErrValidation)
		}
		ports = append(ports, port)
	}
	return ports, nil
}

// Encode converts a typed record into its Def form.
func Encode(v any) (Def, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling RO: %w", err)
	}
	var def Def
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("unmarshaling RO: %w", err)
	}
	return def, nil
}

// Decode converts a Def into a typed record.
func Decode(def Def, v any) error {
	data, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("marshaling RO: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding RO %q: %v: %w", def.ID(), err, ErrValidation)
	}
	return nil
}

// ReadFile loads a single RO record (a .wkf file) from disk.
func ReadFile(path string) (Def, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var def Def
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if def == nil {
		return nil, fmt.Errorf("%s holds no RO record: %w", path, ErrValidation)
	}
	return def, nil
}

// NodeName is the catalog name of a node declared in a package.
func NodeName(pkg, name string) string {
	return pkg + ": " + name
}
