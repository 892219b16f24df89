package wralea

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Package is a wralea package manifest.
type Package struct {
	Name        string        `yaml:"name" json:"name"`
	Version     string        `yaml:"version" json:"version"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
	License     string        `yaml:"license,omitempty" json:"license,omitempty"`
	Authors     string        `yaml:"authors,omitempty" json:"authors,omitempty"`
	Institutes  string        `yaml:"institutes,omitempty" json:"institutes,omitempty"`
	URL         string        `yaml:"url,omitempty" json:"url,omitempty"`
	Alias       []string      `yaml:"alias,omitempty" json:"alias,omitempty"`
	Interfaces  []Interface   `yaml:"interfaces,omitempty" json:"interfaces,omitempty"`
	Nodes       []Factory     `yaml:"nodes,omitempty" json:"nodes,omitempty"`
	Data        []DataFactory `yaml:"data,omitempty" json:"data,omitempty"`
	Composites  []Composite   `yaml:"composites,omitempty" json:"composites,omitempty"`

	// Path is the manifest file the package was read from.
	Path string `yaml:"-" json:"-"`
}

// Interface declares a data type.
type Interface struct {
	UID         string         `yaml:"uid,omitempty" json:"uid,omitempty"`
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Ancestors   []string       `yaml:"ancestors,omitempty" json:"ancestors,omitempty"`
	Schema      map[string]any `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// Port is a node input or output. An empty Interface means "any".
type Port struct {
	Name      string `yaml:"name,omitempty" json:"name,omitempty"`
	Interface string `yaml:"interface,omitempty" json:"interface,omitempty"`
	Value     any    `yaml:"value,omitempty" json:"value,omitempty"`
	Desc      string `yaml:"desc,omitempty" json:"desc,omitempty"`
}

// Factory declares a node implemented by nodemodule.nodeclass.
type Factory struct {
	UID         string `yaml:"uid,omitempty" json:"uid,omitempty"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Category    string `yaml:"category,omitempty" json:"category,omitempty"`
	NodeModule  string `yaml:"nodemodule,omitempty" json:"nodemodule,omitempty"`
	NodeClass   string `yaml:"nodeclass,omitempty" json:"nodeclass,omitempty"`
	Inputs      []Port `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Outputs     []Port `yaml:"outputs,omitempty" json:"outputs,omitempty"`
}

// DataFactory declares a data file shipped with the package.
type DataFactory struct {
	UID         string `yaml:"uid,omitempty" json:"uid,omitempty"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Composite declares a dataflow built from other nodes.
type Composite struct {
	Factory     `yaml:",inline"`
	Elements    map[string]Element `yaml:"elements,omitempty" json:"elements,omitempty"`
	Connections []Connection       `yaml:"connections,omitempty" json:"connections,omitempty"`
}

// Element is a node instance inside a composite, referenced by package and
// factory name.
type Element struct {
	Package  string    `yaml:"package" json:"package"`
	Name     string    `yaml:"name" json:"name"`
	Caption  string    `yaml:"caption,omitempty" json:"caption,omitempty"`
	Position []float64 `yaml:"position,omitempty" json:"position,omitempty"`
}

// Connection links output SourcePort of element Source to input TargetPort
// of element Target. Ports are indexes into the factories' port lists.
type Connection struct {
	Source     string `yaml:"source" json:"source"`
	SourcePort int    `yaml:"source_port" json:"source_port"`
	Target     string `yaml:"target" json:"target"`
	TargetPort int    `yaml:"target_port" json:"target_port"`
}

// HasPorts reports whether the composite declares inputs or outputs, in which
// case it can also be used as a node.
func (c Composite) HasPorts() bool {
	return len(c.Inputs) > 0 || len(c.Outputs) > 0
}

// ElementIDs returns element ids in a stable order: numeric ids ascending,
// then the rest lexically.
func (c Composite) ElementIDs() []string {
	ids := make([]string, 0, len(c.Elements))
	for id := range c.Elements {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return ids[i] < ids[j]
		}
	})
	return ids
}

// Hidden reports whether the package is internal (name starts with '#').
func (p *Package) Hidden() bool {
	return strings.HasPrefix(p.Name, "#")
}

// SemVer parses Version leniently ("0.3" and "v1.2.0" are accepted).
func (p *Package) SemVer() (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(p.Version, "v"))
}

// Major returns the major component of Version, or 0 if it does not parse.
func (p *Package) Major() int {
	v, err := p.SemVer()
	if err != nil {
		return 0
	}
	return int(v.Major())
}
