// Package archive stores converted RO definitions as .wkf files and packs
// them into the zip archives accepted by the SEEweb RO creation form.
package archive

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/see-platform/seesync/internal/export"
	"github.com/see-platform/seesync/internal/ro"
)

// Ext is the extension of a single RO record file.
const Ext = ".wkf"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName returns the base name a definition is written under.
func FileName(def ro.Def) string {
	name := def.Name()
	if i := strings.LastIndex(name, ": "); i >= 0 {
		name = name[i+2:]
	}
	name = strings.Trim(unsafeChars.ReplaceAllString(name, "_"), "_")
	if name == "" {
		name = def.ID()
	}
	return name + Ext
}

// Write stores every definition of b as <dir>/<package>/<name>.wkf and
// returns the written paths. Names that collide within a package get the
// definition id appended.
func Write(dir string, b *export.Bundle) ([]string, error) {
	var written []string
	used := make(map[string]bool)
	for _, it := range b.Items() {
		pkgDir := filepath.Join(dir, it.Package)
		if err := os.MkdirAll(pkgDir, 0o755); err != nil {
			return written, fmt.Errorf("creating %s: %w", pkgDir, err)
		}

		path := filepath.Join(pkgDir, FileName(it.Def))
		if used[path] {
			path = strings.TrimSuffix(path, Ext) + "_" + it.Def.ID() + Ext
		}
		used[path] = true

		data, err := json.MarshalIndent(it.Def, "", "  ")
		if err != nil {
			return written, fmt.Errorf("encoding %s: %w", it.Def.ID(), err)
		}
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// ReadDir loads every .wkf file under dir, in path order.
func ReadDir(dir string) ([]ro.Def, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == Ext {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(paths)

	defs := make([]ro.Def, 0, len(paths))
	for _, p := range paths {
		def, err := ro.ReadFile(p)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Zip packs every .wkf file under srcDir into dest, with slash-separated
// names relative to srcDir. dest is removed when packing fails.
func Zip(srcDir, dest string) error {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	if err := pack(out, srcDir); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return fmt.Errorf("closing %s: %w", dest, err)
	}
	return nil
}

func pack(w io.Writer, srcDir string) error {
	zw := zip.NewWriter(w)
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != Ext {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		return addFile(zw, path, filepath.ToSlash(rel))
	})
	if err != nil {
		zw.Close()
		return fmt.Errorf("packing %s: %w", srcDir, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	return nil
}

func addFile(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("adding %s: %w", name, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("adding %s: %w", name, err)
	}
	return nil
}

// Checksum returns the hex SHA-256 of the file at path.
func Checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s for checksum: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("computing checksum: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
