// Package fsutil wraps the local-filesystem primitives the sort engine
// needs: creating run files, renaming the final output into place, and
// expanding directory inputs. It is the local-only descendant of the
// teacher's storage.Filesystem, stripped of the remote-storage
// abstraction (Stat/List/Copy over S3 vs. disk) that this engine has no
// use for.
package fsutil

import "os"

// CreateTemp creates a new temporary file inside dir using pattern as the
// name template (see os.CreateTemp), chmod'd to a predictable mode so run
// files aren't inadvertently left group/world-writable.
func CreateTemp(dir, pattern string) (*os.File, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, err
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// Open opens path read-only.
func Open(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_RDONLY, 0o644)
}

// Rename renames the file at oldpath to newpath, the final step of both
// the orchestrator and the standalone merge entry point.
func Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// Remove deletes path, ignoring a not-exist error so double-cleanup of a
// run file (e.g. after a premerge races with job-failure teardown) is
// harmless.
func Remove(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
