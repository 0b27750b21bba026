package filestore

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// tempPrefix marks in-flight writes. Escaped stems never start with a dot.
const tempPrefix = ".tmp-"

// writeTemp writes data to a synced temp file in dir and returns its name.
func writeTemp(dir string, data []byte, perm os.FileMode) (string, error) {
	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		return "", err
	}
	if err := tmp.Chmod(perm); err != nil {
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	committed = true
	return tmpName, nil
}

// writeFileAtomicDurable replaces path with data. Readers see either the old
// or the new document, never a partial one.
func writeFileAtomicDurable(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmpName, err := writeTemp(dir, data, perm)
	if err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return fsyncDir(dir)
}

// createFileExclusiveDurable publishes data at path only if nothing exists
// there yet. The hard link fails with fs.ErrExist on a taken name, which
// makes concurrent creates of the same name race-free.
func createFileExclusiveDurable(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmpName, err := writeTemp(dir, data, perm)
	if err != nil {
		return err
	}
	defer os.Remove(tmpName)

	if err := os.Link(tmpName, path); err != nil {
		return err
	}
	return fsyncDir(dir)
}

func fsyncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}

func isTempFile(name string) bool {
	return strings.HasPrefix(name, ".")
}
