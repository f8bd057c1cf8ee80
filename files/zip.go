package files

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// zipEntry keeps the backing archive file open until the entry reader is
// closed.
type zipEntry struct {
	io.ReadCloser
	backing afero.File
}

func (z *zipEntry) Close() error {
	err := z.ReadCloser.Close()
	if z.backing != nil {
		if cerr := z.backing.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// OpenZipEntry opens a single member of a zip archive without extracting
// the archive. The caller must close the returned reader.
func (m *Manager) OpenZipEntry(zipPath, name string) (io.ReadCloser, error) {
	f, err := m.Fs.Open(zipPath)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	reader, err := zip.NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read zip %s: %v", zipPath, err)
	}

	rc, err := openEntry(reader, name)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &zipEntry{ReadCloser: rc, backing: f}, nil
}

// OpenNestedZipEntry reads a member of a zip archive that is itself stored
// inside another zip archive. The inner archive is buffered in memory, so
// the outer file is released before the entry is returned.
func (m *Manager) OpenNestedZipEntry(zipPath, innerZip, name string) (io.ReadCloser, error) {
	outer, err := m.OpenZipEntry(zipPath, innerZip)
	if err != nil {
		return nil, err
	}
	defer outer.Close()

	data, err := io.ReadAll(outer)
	if err != nil {
		return nil, fmt.Errorf("failed to read inner zip %s: %v", innerZip, err)
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to read inner zip %s: %v", innerZip, err)
	}
	return openEntry(reader, name)
}

func openEntry(reader *zip.Reader, name string) (io.ReadCloser, error) {
	for _, file := range reader.File {
		if file.Name == name {
			return file.Open()
		}
	}
	return nil, fmt.Errorf("entry %s not found in archive", name)
}
