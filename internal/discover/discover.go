package discover

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/see-platform/seesync/internal/ro"
	"github.com/see-platform/seesync/internal/wralea"
)

// manifestNames are the file names recognised as wralea manifests.
var manifestNames = []string{
	"wralea.yaml",
	"wralea.yml",
	"wralea.json",
	"__wralea__.yaml",
}

// skippedDirs are never descended into.
var skippedDirs = map[string]bool{
	".git":         true,
	"__pycache__":  true,
	"node_modules": true,
}

// Options configures a walk.
type Options struct {
	// Exclude holds doublestar patterns matched against slash-separated
	// paths relative to the walk root (e.g., "**/test/**").
	Exclude []string
	Logger  *slog.Logger
}

// SourceRoot returns root/src when it exists, root otherwise.
func SourceRoot(root string) string {
	src := filepath.Join(root, "src")
	if info, err := os.Stat(src); err == nil && info.IsDir() {
		return src
	}
	return root
}

// FindManifests walks root and returns manifest paths in lexical order.
func FindManifests(root string, opts Options) ([]string, error) {
	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, ro.ErrValidation)
		}
	}

	var found []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != root && (skippedDirs[d.Name()] || excluded(rel, opts.Exclude)) {
				return filepath.SkipDir
			}
			return nil
		}

		if isManifestFile(d.Name()) && !excluded(rel, opts.Exclude) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Strings(found)
	return found, nil
}

// Load finds, validates and parses every manifest under root (or root/src).
// Hidden packages are dropped; when two manifests declare the same package
// name the first one in path order wins. The result is sorted by name.
func Load(root string, opts Options) ([]*wralea.Package, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	base := SourceRoot(root)
	paths, err := FindManifests(base, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("found manifests", slog.String("root", base), slog.Int("count", len(paths)))

	seen := make(map[string]string)
	var pkgs []*wralea.Package
	for _, path := range paths {
		result, err := wralea.ValidateFile(path)
		if err != nil {
			return nil, err
		}
		if !result.Valid {
			return nil, &InvalidManifestError{Path: path, Issues: result.Issues}
		}

		pkg, err := wralea.Parse(path)
		if err != nil {
			return nil, err
		}
		if pkg.Hidden() {
			logger.Debug("skipping hidden package", slog.String("package", pkg.Name))
			continue
		}
		if prev, ok := seen[pkg.Name]; ok {
			logger.Warn("duplicate package ignored",
				slog.String("package", pkg.Name),
				slog.String("path", path),
				slog.String("kept", prev))
			continue
		}
		seen[pkg.Name] = path
		pkgs = append(pkgs, pkg)
	}

	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].Name < pkgs[j].Name })
	return pkgs, nil
}

// InvalidManifestError reports schema or semantic issues in a manifest.
type InvalidManifestError struct {
	Path   string
	Issues []wralea.ValidationIssue
}

func (e *InvalidManifestError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msgs = append(msgs, issue.String())
	}
	return fmt.Sprintf("invalid manifest %s: %s", e.Path, strings.Join(msgs, "; "))
}

// Unwrap lets callers match the validation category.
func (e *InvalidManifestError) Unwrap() error { return ro.ErrValidation }

func excluded(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func isManifestFile(name string) bool {
	for _, m := range manifestNames {
		if name == m {
			return true
		}
	}
	return false
}
