// Package files provides filesystem housekeeping: sorting a directory's
// files into buckets by extension, existence and modification checks, copy
// operations, and archive reading. All access goes through afero so the
// package runs unchanged against an in-memory filesystem in tests.
package files

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/afero"
)

// ErrBucketExists is returned when the catch-all bucket already exists.
// The caller must pick a non-colliding name; merging into a pre-existing
// folder is never done silently.
var ErrBucketExists = errors.New("bucket already exists")

// Manager performs housekeeping operations rooted at Dir.
type Manager struct {
	Fs  afero.Fs
	Dir string
}

// NewManager creates a Manager over the OS filesystem.
func NewManager(dir string) *Manager {
	return &Manager{Fs: afero.NewOsFs(), Dir: dir}
}

// extToken extracts an extension candidate from the trailing four
// characters of a name. The candidate counts only if it starts with a dot
// and everything after the dot is alphabetic, so "v1.2" and "archive.tar.gz"
// ("r.gz" has no leading dot) are not extensions while "a.txt" and "b.py"
// are.
func extToken(name string) (string, bool) {
	tail := name
	if len(name) > 4 {
		tail = name[len(name)-4:]
	}
	if len(tail) < 2 || tail[0] != '.' {
		return "", false
	}
	for _, r := range tail[1:] {
		if !unicode.IsLetter(r) {
			return "", false
		}
	}
	return tail, true
}

// Arrange sorts the immediate entries of Dir into subdirectory buckets
// keyed by extension. Entries without a recognized extension, and stray
// directories, end up in the catch-all bucket named by miscFolder.
//
// The catch-all must not already exist; extension buckets are reused if
// present. Moves are sequential with no rollback, so a failure partway
// leaves the directory partially reorganized.
func (m *Manager) Arrange(miscFolder string) error {
	miscPath := filepath.Join(m.Dir, miscFolder)
	exists, err := afero.DirExists(m.Fs, miscPath)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s, please specify a different folder name for misc files", ErrBucketExists, miscFolder)
	}
	if err := m.Fs.MkdirAll(miscPath, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %v", miscFolder, err)
	}

	entries, err := afero.ReadDir(m.Fs, m.Dir)
	if err != nil {
		return err
	}

	// Distinct extension tokens present in the directory.
	exts := make(map[string]struct{})
	for _, entry := range entries {
		if entry.Name() == miscFolder {
			continue
		}
		if tok, ok := extToken(entry.Name()); ok {
			exts[tok] = struct{}{}
		}
	}

	// One bucket per extension, named without the dot.
	buckets := make(map[string]string, len(exts))
	for tok := range exts {
		name := strings.TrimPrefix(tok, ".")
		path := filepath.Join(m.Dir, name)
		if ok, _ := afero.DirExists(m.Fs, path); ok {
			log.Printf("bucket %s already exists, reusing", name)
		} else if err := m.Fs.Mkdir(path, 0o755); err != nil {
			return fmt.Errorf("failed to create bucket %s: %v", name, err)
		}
		buckets[tok] = path
	}

	// Move every entry whose suffix matches a bucketed extension.
	for _, entry := range entries {
		if entry.Name() == miscFolder {
			continue
		}
		tok, ok := extToken(entry.Name())
		if !ok {
			continue
		}
		dst, found := buckets[tok]
		if !found {
			continue
		}
		if err := m.Fs.Rename(filepath.Join(m.Dir, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return fmt.Errorf("failed to move %s: %v", entry.Name(), err)
		}
	}

	// Sweep what is left into the catch-all. The buckets themselves and
	// the catch-all stay put; everything else, extensionless files and
	// stray directories alike, moves.
	keep := make(map[string]struct{}, len(exts)+1)
	keep[miscFolder] = struct{}{}
	for tok := range exts {
		keep[strings.TrimPrefix(tok, ".")] = struct{}{}
	}

	remaining, err := afero.ReadDir(m.Fs, m.Dir)
	if err != nil {
		return err
	}
	for _, entry := range remaining {
		if _, ok := keep[entry.Name()]; ok {
			continue
		}
		if err := m.Fs.Rename(filepath.Join(m.Dir, entry.Name()), filepath.Join(miscPath, entry.Name())); err != nil {
			return fmt.Errorf("failed to move %s: %v", entry.Name(), err)
		}
	}

	return nil
}
