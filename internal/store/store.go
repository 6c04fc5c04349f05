// Package store manages the on-disk layout shared by the pipeline
// stages: markdown documents under md/, layer records under json/l1 and
// json/l2, one file per entity slug. The JSON files are the durable
// interchange format between stages and round-trip exactly.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store is rooted at one directory, conventionally "store".
type Store struct {
	root string
}

// Open creates the layout directories under root as needed.
func Open(root string) (*Store, error) {
	s := &Store{root: root}
	for _, dir := range []string{s.MDDir(), s.L1Dir(), s.L2Dir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return s, nil
}

func (s *Store) MDDir() string { return filepath.Join(s.root, "md") }
func (s *Store) L1Dir() string { return filepath.Join(s.root, "json", "l1") }
func (s *Store) L2Dir() string { return filepath.Join(s.root, "json", "l2") }

func (s *Store) mdPath(slug string) string { return filepath.Join(s.MDDir(), slug+".md") }
func (s *Store) l1Path(slug string) string { return filepath.Join(s.L1Dir(), slug+".json") }
func (s *Store) l2Path(slug string) string { return filepath.Join(s.L2Dir(), slug+".json") }

// listSlugs returns the sorted base names with ext stripped.
func listSlugs(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var slugs []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(e.Name(), ext))
	}
	sort.Strings(slugs)
	return slugs, nil
}

// MDSlugs lists all entities with a stored markdown document.
func (s *Store) MDSlugs() ([]string, error) { return listSlugs(s.MDDir(), ".md") }

// L1Slugs lists all entities with a Layer-1 record.
func (s *Store) L1Slugs() ([]string, error) { return listSlugs(s.L1Dir(), ".json") }

// L2Slugs lists all entities with a Layer-2 record.
func (s *Store) L2Slugs() ([]string, error) { return listSlugs(s.L2Dir(), ".json") }

// ReadMD returns the markdown document for a slug.
func (s *Store) ReadMD(slug string) (string, error) {
	b, err := os.ReadFile(s.mdPath(slug))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteMD stores the markdown document for a slug.
func (s *Store) WriteMD(slug, text string) error {
	return os.WriteFile(s.mdPath(slug), []byte(text), 0o644)
}

// HasL1 reports whether a Layer-1 record exists for the slug.
func (s *Store) HasL1(slug string) bool {
	_, err := os.Stat(s.l1Path(slug))
	return err == nil
}

// HasL2 reports whether a Layer-2 record exists for the slug.
func (s *Store) HasL2(slug string) bool {
	_, err := os.Stat(s.l2Path(slug))
	return err == nil
}

// ReadL1 decodes the Layer-1 record for a slug into v.
func (s *Store) ReadL1(slug string, v any) error { return readJSON(s.l1Path(slug), v) }

// ReadL2 decodes the Layer-2 record for a slug into v.
func (s *Store) ReadL2(slug string, v any) error { return readJSON(s.l2Path(slug), v) }

// WriteL1 stores the Layer-1 record for a slug.
func (s *Store) WriteL1(slug string, v any) error { return writeJSON(s.l1Path(slug), v) }

// WriteL2 stores the Layer-2 record for a slug.
func (s *Store) WriteL2(slug string, v any) error { return writeJSON(s.l2Path(slug), v) }

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeJSON writes indented, UTF-8, human-readable JSON.
func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
