package files

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// ListByExt returns the full paths of immediate entries ending in ext.
func (m *Manager) ListByExt(ext string) ([]string, error) {
	entries, err := afero.ReadDir(m.Fs, m.Dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ext) {
			paths = append(paths, filepath.Join(m.Dir, entry.Name()))
		}
	}
	return paths, nil
}

// Exists verifies every path exists, failing on the first that does not.
func (m *Manager) Exists(paths ...string) error {
	for _, path := range paths {
		ok, err := afero.Exists(m.Fs, path)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s not found", path)
		}
	}
	return nil
}

// LastModified reports the modification time of each path.
func (m *Manager) LastModified(paths ...string) (map[string]time.Time, error) {
	times := make(map[string]time.Time, len(paths))
	for _, path := range paths {
		info, err := m.Fs.Stat(path)
		if err != nil {
			return nil, err
		}
		times[path] = info.ModTime()
	}
	return times, nil
}

// LatestModified returns the path of the most recently modified immediate
// entry whose name ends in fileType. An empty fileType matches everything.
func (m *Manager) LatestModified(fileType string) (string, error) {
	entries, err := afero.ReadDir(m.Fs, m.Dir)
	if err != nil {
		return "", err
	}

	var latest os.FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileType) {
			continue
		}
		if latest == nil || entry.ModTime().After(latest.ModTime()) {
			latest = entry
		}
	}
	if latest == nil {
		return "", fmt.Errorf("no files matching %q in %s", fileType, m.Dir)
	}
	return filepath.Join(m.Dir, latest.Name()), nil
}

// Copy copies src to dst. When dst is an existing directory the file is
// copied into it under its original name.
func (m *Manager) Copy(src, dst string) error {
	if ok, _ := afero.DirExists(m.Fs, dst); ok {
		dst = filepath.Join(dst, filepath.Base(src))
	}

	in, err := m.Fs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %v", src, err)
	}
	defer in.Close()

	out, err := m.Fs.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", dst, err)
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// CountLines sums the line counts of every file under dir (recursively)
// whose name ends in suffix.
func (m *Manager) CountLines(dir, suffix string) (int, error) {
	total := 0
	err := afero.Walk(m.Fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(info.Name(), suffix) {
			return nil
		}
		data, err := afero.ReadFile(m.Fs, path)
		if err != nil {
			return err
		}
		total += countLines(data)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n := bytes.Count(data, []byte("\n"))
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}
