package convert

import (
	"fmt"
	"strings"

	"github.com/see-platform/seesync/internal/ro"
	"github.com/see-platform/seesync/internal/wralea"
)

// AnyInterface is used for ports that declare no interface.
const AnyInterface = "any"

// InterfaceName reduces a port interface declaration to a bare name:
// "" becomes "any" and "IInt(min=0)" becomes "IInt".
func InterfaceName(raw string) string {
	name := strings.TrimSpace(raw)
	if i := strings.Index(name, "("); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	if name == "" {
		return AnyInterface
	}
	return name
}

// Normalize returns a copy of f with every port named and typed. Unnamed
// ports become in<i> / out<i>. Duplicate names within inputs or within
// outputs are a validation error.
func Normalize(pkg string, f wralea.Factory) (wralea.Factory, error) {
	var err error
	if f.Inputs, err = normalizePorts(pkg, f.Name, "input", "in", f.Inputs); err != nil {
		return f, err
	}
	if f.Outputs, err = normalizePorts(pkg, f.Name, "output", "out", f.Outputs); err != nil {
		return f, err
	}
	return f, nil
}

func normalizePorts(pkg, name, kind, prefix string, ports []wralea.Port) ([]wralea.Port, error) {
	out := make([]wralea.Port, len(ports))
	seen := make(map[string]bool, len(ports))
	for i, p := range ports {
		if p.Name == "" {
			p.Name = fmt.Sprintf("%s%d", prefix, i)
		}
		p.Interface = InterfaceName(p.Interface)
		if seen[p.Name] {
			return nil, fmt.Errorf("%s names of node '%s:%s' are not unique (%q): %w",
				kind, pkg, name, p.Name, ro.ErrValidation)
		}
		seen[p.Name] = true
		out[i] = p
	}
	return out, nil
}

// InterfaceNames lists the distinct interfaces used by a normalized factory,
// inputs first, in declaration order.
func InterfaceNames(f wralea.Factory) []string {
	var names []string
	seen := make(map[string]bool)
	for _, p := range append(append([]wralea.Port{}, f.Inputs...), f.Outputs...) {
		if !seen[p.Interface] {
			seen[p.Interface] = true
			names = append(names, p.Interface)
		}
	}
	return names
}

// CheckUniquePorts verifies port name uniqueness on an RO node definition.
func CheckUniquePorts(def ro.Def) error {
	for _, key := range []string{"inputs", "outputs"} {
		ports, err := def.Ports(key)
		if err != nil {
			return err
		}
		seen := make(map[string]bool, len(ports))
		for _, p := range ports {
			name, _ := p["name"].(string)
			if seen[name] {
				return fmt.Errorf("%s names of %q are not unique (%q): %w", key, def.ID(), name, ro.ErrValidation)
			}
			seen[name] = true
		}
	}
	return nil
}
