package discover

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/see-platform/seesync/internal/ro"
)

func writeManifest(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func minimal(name string) string {
	return "name: " + name + "\nversion: \"1.0.0\"\n"
}

func TestFindManifestsRecognisedNames(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "a/wralea.yaml", minimal("a"))
	writeManifest(t, root, "b/wralea.json", `{"name":"b","version":"1.0.0"}`)
	writeManifest(t, root, "c/deep/__wralea__.yaml", minimal("c"))
	writeManifest(t, root, "d/manifest.yaml", minimal("d"))
	writeManifest(t, root, ".git/wralea.yaml", minimal("git"))

	paths, err := FindManifests(root, Options{})
	if err != nil {
		t.Fatalf("FindManifests: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("found %d manifests, want 3: %v", len(paths), paths)
	}
	if filepath.Base(paths[0]) != "wralea.yaml" {
		t.Errorf("paths not sorted: %v", paths)
	}
}

func TestFindManifestsExclude(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "pkg/wralea.yaml", minimal("pkg"))
	writeManifest(t, root, "pkg/test/fixtures/wralea.yaml", minimal("fixture"))
	writeManifest(t, root, "legacy/wralea.yaml", minimal("legacy"))

	paths, err := FindManifests(root, Options{Exclude: []string{"**/test/**", "legacy"}})
	if err != nil {
		t.Fatalf("FindManifests: %v", err)
	}
	if len(paths) != 1 || paths[0] != filepath.Join(root, "pkg", "wralea.yaml") {
		t.Errorf("paths = %v", paths)
	}
}

func TestFindManifestsBadPattern(t *testing.T) {
	_, err := FindManifests(t.TempDir(), Options{Exclude: []string{"[unclosed"}})
	if !errors.Is(err, ro.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestSourceRootPrefersSrc(t *testing.T) {
	root := t.TempDir()
	if SourceRoot(root) != root {
		t.Errorf("SourceRoot without src = %q", SourceRoot(root))
	}
	if err := os.Mkdir(filepath.Join(root, "src"), 0755); err != nil {
		t.Fatal(err)
	}
	if SourceRoot(root) != filepath.Join(root, "src") {
		t.Errorf("SourceRoot with src = %q", SourceRoot(root))
	}
}

func TestLoadSortsAndFilters(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "src/z/wralea.yaml", minimal("openalea.zeta"))
	writeManifest(t, root, "src/a/wralea.yaml", minimal("alinea.alpha"))
	writeManifest(t, root, "src/h/wralea.yaml", minimal("#hidden"))
	writeManifest(t, root, "outside/wralea.yaml", minimal("ignored.outside.src"))

	pkgs, err := Load(root, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(pkgs) != 2 {
		t.Fatalf("Load returned %d packages, want 2", len(pkgs))
	}
	if pkgs[0].Name != "alinea.alpha" || pkgs[1].Name != "openalea.zeta" {
		t.Errorf("order = %s, %s", pkgs[0].Name, pkgs[1].Name)
	}
}

func TestLoadDuplicateNamesKeepFirst(t *testing.T) {
	root := t.TempDir()
	first := writeManifest(t, root, "a/wralea.yaml", minimal("dup")+"description: first\n")
	writeManifest(t, root, "b/wralea.yaml", minimal("dup")+"description: second\n")

	pkgs, err := Load(root, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(pkgs) != 1 {
		t.Fatalf("Load returned %d packages, want 1", len(pkgs))
	}
	if pkgs[0].Path != first || pkgs[0].Description != "first" {
		t.Errorf("kept %s (%q)", pkgs[0].Path, pkgs[0].Description)
	}
}

func TestLoadInvalidManifest(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "bad/wralea.yaml", "version: \"1.0.0\"\n")

	_, err := Load(root, Options{})
	var invalid *InvalidManifestError
	if !errors.As(err, &invalid) {
		t.Fatalf("error = %v, want *InvalidManifestError", err)
	}
	if !errors.Is(err, ro.ErrValidation) {
		t.Error("InvalidManifestError should match ErrValidation")
	}
	if len(invalid.Issues) == 0 {
		t.Error("expected issues")
	}
}
