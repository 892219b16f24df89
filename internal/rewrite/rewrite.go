// Package rewrite edits wralea manifests in place so every factory carries
// a stable uid. Comments and key order survive the rewrite.
package rewrite

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/see-platform/seesync/internal/convert"
	"github.com/see-platform/seesync/internal/ro"
)

// Sections holds the manifest keys whose entries are factories.
var Sections = []string{"nodes", "data", "composites"}

// Generator returns a fresh uid.
type Generator func() (string, error)

// AssignUIDs adds a time-based uid to every factory of the manifest at path
// that lacks one and rewrites the file. It returns the number of uids added;
// the file is left untouched when that is zero.
func AssignUIDs(path string) (int, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return 0, fmt.Errorf("%s: only YAML manifests can be rewritten: %w", path, ro.ErrValidation)
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}

	out, n, err := AssignUIDsBytes(data, convert.NewUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	if n == 0 {
		return 0, nil
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return n, nil
}

// AssignUIDsBytes is AssignUIDs on manifest content, with uids taken from gen.
func AssignUIDsBytes(data []byte, gen Generator) ([]byte, int, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, 0, fmt.Errorf("parsing manifest: %v: %w", err, ro.ErrValidation)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, 0, fmt.Errorf("manifest is not a mapping: %w", ro.ErrValidation)
	}
	root := doc.Content[0]

	added := 0
	for _, section := range Sections {
		seq := value(root, section)
		if seq == nil || seq.Kind != yaml.SequenceNode {
			continue
		}
		for _, entry := range seq.Content {
			if entry.Kind != yaml.MappingNode || value(entry, "uid") != nil {
				continue
			}
			uid, err := gen()
			if err != nil {
				return nil, 0, fmt.Errorf("generating uid: %w", err)
			}
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "uid"}
			val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: uid, Style: yaml.DoubleQuotedStyle}
			entry.Content = append([]*yaml.Node{key, val}, entry.Content...)
			added++
		}
	}
	if added == 0 {
		return data, 0, nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, 0, fmt.Errorf("encoding manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, 0, fmt.Errorf("encoding manifest: %w", err)
	}
	return buf.Bytes(), added, nil
}

// value returns the value node stored under key in mapping m.
func value(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}
