package wralea

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Parse reads a manifest file (YAML or JSON) and returns the package.
func Parse(path string) (*Package, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	pkg, err := ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	pkg.Path = path
	return pkg, nil
}

// ParseBytes decodes manifest content. JSON is accepted as a YAML subset.
func ParseBytes(data []byte) (*Package, error) {
	var pkg Package
	if err := yaml.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}
	if pkg.Name == "" {
		return nil, fmt.Errorf("manifest missing required 'name' field")
	}
	return &pkg, nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
